package server

import (
	"html/template"
	"net/http"

	apperrors "github.com/jrsteele09/go-school-admin/internal/errors"
	"github.com/jrsteele09/go-school-admin/sessions"
	"github.com/rs/zerolog/log"
)

// LoginPageData contains data for rendering the login page
type LoginPageData struct {
	AppName string
	Role    string
	Action  string
	Next    string
	Error   string
	Email   string // Preserve email on error
}

var loginTmpl = template.Must(template.New("login").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>{{.AppName}} - {{.Role}} login</title></head>
<body>
<h1>{{.Role}} login</h1>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
<form method="post" action="{{.Action}}">
<input type="hidden" name="next" value="{{.Next}}">
<label>Email <input type="email" name="email" value="{{.Email}}" required></label>
<label>Password <input type="password" name="password" required></label>
<button type="submit">Sign in</button>
</form>
</body>
</html>
`))

// roleFromPath resolves the {role} path value, writing a 404 when unknown.
func (s *Server) roleFromPath(w http.ResponseWriter, r *http.Request) (*sessions.RoleSession, bool) {
	role, err := s.sessions.Get(r.PathValue("role"))
	if err != nil {
		http.NotFound(w, r)
		return nil, false
	}
	return role, true
}

// LoginPageHandler displays the login form for a role (GET /login/{role})
func (s *Server) LoginPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role, ok := s.roleFromPath(w, r)
		if !ok {
			return
		}

		next := r.URL.Query().Get(paramNext)

		// Already signed in: skip the form.
		if _, err := role.FromRequest(r); err == nil {
			redirectSuccess(w, r, safeNext(next, role.HomePath()))
			return
		}

		data := LoginPageData{
			AppName: s.config.GetAppName(),
			Role:    role.Name(),
			Action:  "/auth/" + role.Name() + "/login",
			Next:    next,
			Error:   r.URL.Query().Get(paramError),
			Email:   r.URL.Query().Get(paramEmail),
		}

		w.Header().Set("Content-Type", contentTypeHTML)
		if err := loginTmpl.Execute(w, data); err != nil {
			log.Err(err).Msg("Failed to render login template")
			http.Error(w, "Failed to render login page", http.StatusInternalServerError)
		}
	}
}

// LoginSubmissionHandler processes the login form submission (POST /auth/{role}/login)
func (s *Server) LoginSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role, ok := s.roleFromPath(w, r)
		if !ok {
			return
		}

		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		email := r.PostFormValue(paramEmail)
		password := r.PostFormValue(paramPassword)
		next := r.PostFormValue(paramNext)

		if email == "" || password == "" {
			redirectWithError(w, r, role.LoginPath(), "Email and password are required", next)
			return
		}

		claims, err := s.accounts.Authenticate(r.Context(), role.Name(), email, password)
		if err != nil {
			s.metrics.loginFailed(role.Name())
			msg := "Invalid email or password"
			if apperrors.Is(err, apperrors.ErrUserBlocked) {
				msg = "This account has been blocked"
			}
			log.Info().Err(err).Str("role", role.Name()).Msg("login rejected")
			redirectWithError(w, r, role.LoginPath(), msg, next)
			return
		}

		if err := role.Login(w, claims); err != nil {
			log.Err(err).Str("role", role.Name()).Msg("failed to issue session")
			http.Error(w, "Failed to start session", http.StatusInternalServerError)
			return
		}
		s.metrics.sessionIssued(role.Name())

		redirectSuccess(w, r, safeNext(next, role.HomePath()))
	}
}

// LogoutHandler clears the role's session cookie (POST /auth/{role}/logout)
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role, ok := s.roleFromPath(w, r)
		if !ok {
			return
		}
		role.Logout(w)
		redirectSuccess(w, r, role.LoginPath())
	}
}
