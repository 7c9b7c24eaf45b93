package server

import (
	"net/http"
	"net/url"
	"sort"
	"strings"

	apperrors "github.com/jrsteele09/go-school-admin/internal/errors"
	"github.com/jrsteele09/go-school-admin/sessions"
	"github.com/rs/zerolog/log"
)

// Decision is the outcome of the route guard for a single request.
type Decision int

const (
	PassThrough Decision = iota
	Redirect
)

func (d Decision) String() string {
	if d == Redirect {
		return "redirect"
	}
	return "pass"
}

// GuardRule maps a path prefix to the role that must hold a session for it.
type GuardRule struct {
	Prefix string
	Role   *sessions.RoleSession
}

// RouteGuard gates role areas of the site. It keeps no state between
// requests: every request starts unauthenticated and the session cookie is
// verified from scratch. Sessions are never refreshed here.
type RouteGuard struct {
	rules      []GuardRule
	loginPaths map[string]struct{}
	metrics    *Metrics
}

// NewRouteGuard builds a guard from rules. Longer prefixes win.
func NewRouteGuard(rules []GuardRule, metrics *Metrics) *RouteGuard {
	sorted := make([]GuardRule, 0, len(rules))
	loginPaths := make(map[string]struct{})
	for _, rule := range rules {
		if rule.Prefix == "" || rule.Role == nil {
			continue
		}
		sorted = append(sorted, rule)
		loginPaths[rule.Role.LoginPath()] = struct{}{}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].Prefix) > len(sorted[j].Prefix)
	})

	return &RouteGuard{
		rules:      sorted,
		loginPaths: loginPaths,
		metrics:    metrics,
	}
}

// Match returns the role guarding path, if any.
func (g *RouteGuard) Match(path string) (*sessions.RoleSession, bool) {
	if _, ok := g.loginPaths[path]; ok {
		return nil, false
	}
	for _, rule := range g.rules {
		if matchesPrefix(path, rule.Prefix) {
			return rule.Role, true
		}
	}
	return nil, false
}

// Decide returns PassThrough for unprotected paths and valid sessions, and
// Redirect with the login location otherwise. The reason for a rejection is
// logged but never changes the decision.
func (g *RouteGuard) Decide(r *http.Request) (Decision, string) {
	path := r.URL.Path
	role, ok := g.Match(path)
	if !ok {
		return PassThrough, ""
	}

	if _, err := role.FromRequest(r); err != nil {
		reason := apperrors.Reason(err)
		g.metrics.guardDecision(role.Name(), Redirect)
		g.metrics.sessionRejected(role.Name(), reason)
		log.Debug().Err(err).Str("role", role.Name()).Str("path", path).Str("reason", reason).Msg("session rejected")
		return Redirect, loginRedirectURL(role.LoginPath(), path)
	}

	g.metrics.guardDecision(role.Name(), PassThrough)
	return PassThrough, ""
}

// Middleware applies Decide to every request. Allowed requests continue
// unmodified.
func (g *RouteGuard) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		decision, location := g.Decide(r)
		if decision == Redirect {
			http.Redirect(w, r, location, http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}

func matchesPrefix(path, prefix string) bool {
	if strings.HasSuffix(prefix, "/") {
		return strings.HasPrefix(path, prefix) || path == strings.TrimSuffix(prefix, "/")
	}
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// loginRedirectURL returns loginPath?next=path.
func loginRedirectURL(loginPath, path string) string {
	return loginPath + "?" + url.Values{paramNext: {path}}.Encode()
}
