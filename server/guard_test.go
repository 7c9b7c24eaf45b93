package server_test

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/jrsteele09/go-school-admin/internal/config"
	"github.com/jrsteele09/go-school-admin/server"
	"github.com/jrsteele09/go-school-admin/sessions"
	"github.com/jrsteele09/go-school-admin/token"
	"github.com/stretchr/testify/require"
)

func newRole(t *testing.T, name, loginPath string) *sessions.RoleSession {
	t.Helper()
	rs, err := sessions.NewRoleSession(config.RoleSettings{
		Name:       name,
		Secret:     name + "-secret",
		CookieName: name + "_session",
		LoginPath:  loginPath,
	}, time.Hour, sessions.NewCookieStore(false))
	require.NoError(t, err)
	return rs
}

func TestGuardLongestPrefixWins(t *testing.T) {
	admin := newRole(t, "admin", "/login/admin")
	auditor := newRole(t, "auditor", "/login/auditor")

	guard := server.NewRouteGuard([]server.GuardRule{
		{Prefix: "/admin", Role: admin},
		{Prefix: "/admin/audit", Role: auditor},
	}, nil)

	role, ok := guard.Match("/admin/audit/2024")
	require.True(t, ok)
	require.Equal(t, "auditor", role.Name())

	role, ok = guard.Match("/admin/students")
	require.True(t, ok)
	require.Equal(t, "admin", role.Name())

	role, ok = guard.Match("/admin")
	require.True(t, ok)
	require.Equal(t, "admin", role.Name())
}

func TestGuardMatchesWholeSegments(t *testing.T) {
	admin := newRole(t, "admin", "/login/admin")
	guard := server.NewRouteGuard([]server.GuardRule{{Prefix: "/admin", Role: admin}}, nil)

	_, ok := guard.Match("/administrator")
	require.False(t, ok)
	_, ok = guard.Match("/public/admin")
	require.False(t, ok)
	_, ok = guard.Match("/admin/")
	require.True(t, ok)
}

func TestGuardNeverProtectsLoginPage(t *testing.T) {
	admin := newRole(t, "admin", "/admin/login")
	guard := server.NewRouteGuard([]server.GuardRule{{Prefix: "/admin", Role: admin}}, nil)

	decision, location := guard.Decide(httptest.NewRequest(http.MethodGet, "/admin/login", nil))
	require.Equal(t, server.PassThrough, decision)
	require.Empty(t, location)

	decision, location = guard.Decide(httptest.NewRequest(http.MethodGet, "/admin/settings", nil))
	require.Equal(t, server.Redirect, decision)
	require.Equal(t, "/admin/login?next=%2Fadmin%2Fsettings", location)
}

func TestGuardDecide(t *testing.T) {
	admin := newRole(t, "admin", "/login/admin")
	guard := server.NewRouteGuard([]server.GuardRule{{Prefix: "/admin", Role: admin}}, nil)

	raw, err := admin.Issue(token.Claims{Email: "a@example.com"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin/fees?year=2024", nil)
	decision, location := guard.Decide(req)
	require.Equal(t, server.Redirect, decision)
	require.Equal(t, "/login/admin?next=%2Fadmin%2Ffees", location)

	req.AddCookie(&http.Cookie{Name: "admin_session", Value: raw})
	decision, _ = guard.Decide(req)
	require.Equal(t, server.PassThrough, decision)

	decision, _ = guard.Decide(httptest.NewRequest(http.MethodGet, "/timetable", nil))
	require.Equal(t, server.PassThrough, decision)
}

func TestGuardMiddlewareForwardsRequestUnmodified(t *testing.T) {
	admin := newRole(t, "admin", "/login/admin")
	guard := server.NewRouteGuard([]server.GuardRule{{Prefix: "/admin", Role: admin}}, nil)

	raw, err := admin.Issue(token.Claims{Email: "a@example.com"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin/students", nil)
	req.AddCookie(&http.Cookie{Name: "admin_session", Value: raw})

	var seen *http.Request
	handler := guard.Middleware(func(w http.ResponseWriter, r *http.Request) {
		seen = r
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	handler(rec, req)
	require.Equal(t, http.StatusTeapot, rec.Code)
	require.Same(t, req, seen)
	require.Empty(t, rec.Header().Values("Set-Cookie"))
}

func TestGuardConcurrentRequests(t *testing.T) {
	admin := newRole(t, "admin", "/login/admin")
	guard := server.NewRouteGuard([]server.GuardRule{{Prefix: "/admin", Role: admin}}, server.NewMetrics())

	raw, err := admin.Issue(token.Claims{Email: "a@example.com"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make(chan server.Decision, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(withCookie bool) {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodGet, "/admin/", nil)
			if withCookie {
				req.AddCookie(&http.Cookie{Name: "admin_session", Value: raw})
			}
			d, _ := guard.Decide(req)
			if withCookie != (d == server.PassThrough) {
				results <- d
			}
		}(i%2 == 0)
	}
	wg.Wait()
	close(results)

	require.Empty(t, results)
}
