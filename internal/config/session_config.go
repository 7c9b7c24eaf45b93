package config

import (
	"strings"
	"time"

	apperrors "github.com/jrsteele09/go-school-admin/internal/errors"
	"github.com/rs/zerolog/log"
)

// DefaultSessionTTL is the lifetime of a session from issuance.
const DefaultSessionTTL = 8 * time.Hour

const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

type SessionConfig interface {
	GetRoles() []RoleSettings
	GetSessionTTL() time.Duration
	GetSecureCookies() bool
	GetSeedAccounts() string
	Validate() error
}

// RoleSettings is everything the session layer needs to know about one role.
type RoleSettings struct {
	Name       string
	Secret     string
	CookieName string
	LoginPath  string
	HomePath   string
	PathPrefix string
}

type Session struct {
	roles         []RoleSettings
	ttl           time.Duration
	secureCookies bool
	seedAccounts  string
}

var _ SessionConfig = Session{}

func newSession(lookup LookupFunc, secureCookies bool) Session {
	roles := make([]RoleSettings, 0, 3)
	for _, name := range []string{RoleAdmin, RoleTeacher, RoleStudent} {
		roles = append(roles, RoleSettings{
			Name:       name,
			Secret:     GetEnv(lookup, strings.ToUpper(name)+"_SESSION_SECRET", ""),
			CookieName: name + "_session",
			LoginPath:  "/login/" + name,
			HomePath:   "/" + name + "/",
			PathPrefix: "/" + name,
		})
	}

	ttl := DefaultSessionTTL
	if raw := GetEnv(lookup, "SESSION_TTL", ""); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil || parsed <= 0 {
			log.Warn().Str("value", raw).Msg("invalid SESSION_TTL, using default")
		} else {
			ttl = parsed
		}
	}

	return Session{
		roles:         roles,
		ttl:           ttl,
		secureCookies: secureCookies,
		seedAccounts:  GetEnv(lookup, "SEED_ACCOUNTS", ""),
	}
}

func (s Session) GetRoles() []RoleSettings {
	roles := make([]RoleSettings, len(s.roles))
	copy(roles, s.roles)
	return roles
}

func (s Session) GetSessionTTL() time.Duration {
	return s.ttl
}

// GetSecureCookies is true everywhere except local development.
func (s Session) GetSecureCookies() bool {
	return s.secureCookies
}

// GetSeedAccounts returns the raw SEED_ACCOUNTS value (role:email:password;...).
func (s Session) GetSeedAccounts() string {
	return s.seedAccounts
}

// Validate fails when any role is missing its signing secret. There is no
// fallback key: a service without every secret must not start.
func (s Session) Validate() error {
	var missing []string
	for _, r := range s.roles {
		if r.Secret == "" {
			missing = append(missing, strings.ToUpper(r.Name)+"_SESSION_SECRET")
		}
	}
	if len(missing) > 0 {
		return apperrors.Wrapf(apperrors.ErrMissingSecret, "missing %s", strings.Join(missing, ", "))
	}
	return nil
}
