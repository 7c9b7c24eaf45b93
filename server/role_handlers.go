package server

import (
	"net/http"
	"time"

	"github.com/jrsteele09/go-school-admin/sessions"
	"github.com/jrsteele09/go-school-admin/token"
)

// SessionInfo describes the caller's session for one role. When Active is
// false no other field is populated and no reason is given.
type SessionInfo struct {
	Active    bool       `json:"active"`
	Role      string     `json:"role,omitempty"`
	Subject   string     `json:"sub,omitempty"`
	Email     string     `json:"email,omitempty"`
	Name      string     `json:"name,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

func sessionInfo(claims *token.Claims) SessionInfo {
	exp := claims.ExpiresAt.Time.UTC()
	return SessionInfo{
		Active:    true,
		Role:      claims.Role,
		Subject:   claims.Subject,
		Email:     claims.Email,
		Name:      claims.Name,
		ExpiresAt: &exp,
	}
}

// IndexHandler lists the role areas and their login pages
func (s *Server) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		type roleLink struct {
			Role  string `json:"role"`
			Login string `json:"login"`
			Home  string `json:"home"`
		}
		links := make([]roleLink, 0)
		for _, role := range s.sessions.Roles() {
			links = append(links, roleLink{Role: role.Name(), Login: role.LoginPath(), Home: role.HomePath()})
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"app":   s.config.GetAppName(),
			"roles": links,
		})
	}
}

// RoleHomeHandler renders the landing page of a role area. The route guard
// has already admitted the request; the claims are read again for display.
func (s *Server) RoleHomeHandler(role *sessions.RoleSession) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := role.FromRequest(r)
		if err != nil {
			// expired between the guard and here
			http.Redirect(w, r, loginRedirectURL(role.LoginPath(), r.URL.Path), http.StatusSeeOther)
			return
		}
		writeJSON(w, http.StatusOK, sessionInfo(claims))
	}
}

// SessionInfoHandler reports whether the caller holds a valid session for a
// role (GET /api/session/{role})
func (s *Server) SessionInfoHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role, ok := s.roleFromPath(w, r)
		if !ok {
			return
		}
		w.Header().Set("Cache-Control", "no-store")

		claims, err := role.FromRequest(r)
		if err != nil {
			writeJSON(w, http.StatusOK, SessionInfo{Active: false})
			return
		}
		writeJSON(w, http.StatusOK, sessionInfo(claims))
	}
}
