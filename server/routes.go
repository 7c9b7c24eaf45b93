package server

import (
	"net/http"

	"github.com/jrsteele09/go-school-admin/internal/config"
)

func (s *Server) initRoutes() {
	s.RegisterRouteFunc("GET "+RouteIndex, s.IndexHandler())

	// LOGIN
	s.RegisterRouteHandler("GET "+RouteLoginPage, ChainMiddleware(s.LoginPageHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteAuthLogin, ChainMiddleware(s.LoginSubmissionHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteAuthLogout, ChainMiddleware(s.LogoutHandler(), s.HTMLMiddleWare()...))

	// Role areas, protected by the route guard
	for _, role := range s.sessions.Roles() {
		s.RegisterRouteHandler("GET "+role.HomePath(), ChainMiddleware(s.RoleHomeHandler(role), s.HTMLMiddleWare()...))
	}

	// API routes
	s.RegisterRouteHandler("GET "+RouteAPISession, ChainMiddleware(s.SessionInfoHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("OPTIONS "+RouteAPISession, ChainMiddleware(s.SessionInfoHandler(), s.APIMiddleware()...))

	s.RegisterRouteFunc("GET "+RouteHealth, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentTypeText)
		_, _ = w.Write([]byte("ok"))
	})

	// Metrics live inside the admin area so the guard requires an admin session.
	if admin, err := s.sessions.Get(config.RoleAdmin); err == nil {
		s.RegisterRouteHandler("GET "+admin.PathPrefix()+RouteMetrics, s.metrics.Handler())
	}
}
