package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-school-admin/internal/config"
	"github.com/jrsteele09/go-school-admin/sessions"
	"github.com/jrsteele09/go-school-admin/token"
	"github.com/rs/zerolog/log"
)

// CredentialChecker verifies a login attempt for a role and returns the claims
// to embed in the new session.
type CredentialChecker interface {
	Authenticate(ctx context.Context, role, email, password string) (token.Claims, error)
}

type Server struct {
	env      string // Environment (e.g., "DEV", "PRODUCTION")
	mux      *http.ServeMux
	handler  http.HandlerFunc
	routes   []string
	config   config.Config
	sessions *sessions.Registry
	accounts CredentialChecker
	guard    *RouteGuard
	metrics  *Metrics
}

func New(config config.Config, registry *sessions.Registry, accounts CredentialChecker) *Server {
	s := &Server{
		env:      config.GetEnv(),
		mux:      http.NewServeMux(),
		config:   config,
		sessions: registry,
		accounts: accounts,
		metrics:  NewMetrics(),
	}

	rules := make([]GuardRule, 0, len(registry.Roles()))
	for _, role := range registry.Roles() {
		rules = append(rules, GuardRule{Prefix: role.PathPrefix(), Role: role})
	}
	s.guard = NewRouteGuard(rules, s.metrics)

	s.initRoutes()
	s.logRoutes()

	// Every request passes the guard before reaching the mux.
	s.handler = ChainMiddleware(s.mux.ServeHTTP, s.LoggingMiddleware, s.RecoverMiddleware, s.guard.Middleware)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if !s.config.IsDevelopment() {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Info().Msgf("[%-19s] %s", displayMethod, path)
}
