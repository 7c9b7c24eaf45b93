package sessions

import (
	"net/http"
	"time"
)

// CookieStore writes, reads and clears session cookies. Cookies are always
// HttpOnly, SameSite=Lax and scoped to "/"; Secure is set outside development.
type CookieStore struct {
	secure bool
}

// NewCookieStore creates a cookie store.
func NewCookieStore(secure bool) *CookieStore {
	return &CookieStore{secure: secure}
}

// Set stores value in the named cookie for ttl.
func (c *CookieStore) Set(w http.ResponseWriter, name, value string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(ttl / time.Second),
	})
}

// Clear overwrites the named cookie with an empty, already expired value.
func (c *CookieStore) Clear(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	})
}

// Read returns the named cookie's value. An empty cookie counts as absent.
func (c *CookieStore) Read(r *http.Request, name string) (string, bool) {
	cookie, err := r.Cookie(name)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}
