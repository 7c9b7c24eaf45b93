package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	RouteIndex = "/{$}"

	// Login & Logout, one per role
	RouteLoginPage  = "/login/{role}"
	RouteAuthLogin  = "/auth/{role}/login"
	RouteAuthLogout = "/auth/{role}/logout"

	// API Routes
	RouteAPISession = "/api/session/{role}"

	// Operations
	RouteHealth  = "/healthz"
	RouteMetrics = "/metrics" // under the admin prefix
)

// Query and form parameter names
const (
	paramNext     = "next"
	paramError    = "error"
	paramEmail    = "email"
	paramPassword = "password"
)
