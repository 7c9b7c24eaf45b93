package sessions

import (
	"net/http"
	"time"

	"github.com/jrsteele09/go-school-admin/internal/config"
	apperrors "github.com/jrsteele09/go-school-admin/internal/errors"
	"github.com/jrsteele09/go-school-admin/token"
)

// RoleSession binds the secret, cookie and login page of one role to an
// issuer and verifier. It is immutable after construction.
type RoleSession struct {
	settings config.RoleSettings
	ttl      time.Duration
	issuer   *token.Issuer
	verifier *token.Verifier
	cookies  *CookieStore
}

// NewRoleSession builds the session machinery for a single role. It fails when
// the role has no secret.
func NewRoleSession(settings config.RoleSettings, ttl time.Duration, cookies *CookieStore, opts ...token.Option) (*RoleSession, error) {
	signer, err := token.NewHMACSigner(settings.Secret)
	if err != nil {
		return nil, apperrors.Wrapf(err, "role %q", settings.Name)
	}
	return &RoleSession{
		settings: settings,
		ttl:      ttl,
		issuer:   token.NewIssuer(signer, opts...),
		verifier: token.NewVerifier(signer, opts...),
		cookies:  cookies,
	}, nil
}

func (s *RoleSession) Name() string       { return s.settings.Name }
func (s *RoleSession) CookieName() string { return s.settings.CookieName }
func (s *RoleSession) LoginPath() string  { return s.settings.LoginPath }
func (s *RoleSession) HomePath() string   { return s.settings.HomePath }
func (s *RoleSession) PathPrefix() string { return s.settings.PathPrefix }
func (s *RoleSession) TTL() time.Duration { return s.ttl }

// Issue signs claims for this role.
func (s *RoleSession) Issue(claims token.Claims) (string, error) {
	claims.Role = s.settings.Name
	return s.issuer.Issue(claims, s.ttl)
}

// Verify checks a raw token against this role's secret. A token carrying a
// different role claim is rejected even if the signature matches.
func (s *RoleSession) Verify(rawToken string) (*token.Claims, error) {
	claims, err := s.verifier.Verify(rawToken)
	if err != nil {
		return nil, err
	}
	if claims.Role != "" && claims.Role != s.settings.Name {
		return nil, apperrors.Wrapf(apperrors.ErrSignatureMismatch, "token issued for role %q", claims.Role)
	}
	return claims, nil
}

// Login issues a token for claims and stores it in the role's cookie.
func (s *RoleSession) Login(w http.ResponseWriter, claims token.Claims) error {
	raw, err := s.Issue(claims)
	if err != nil {
		return err
	}
	s.cookies.Set(w, s.settings.CookieName, raw, s.ttl)
	return nil
}

// Logout clears the role's cookie.
func (s *RoleSession) Logout(w http.ResponseWriter) {
	s.cookies.Clear(w, s.settings.CookieName)
}

// FromRequest reads and verifies the role's cookie.
func (s *RoleSession) FromRequest(r *http.Request) (*token.Claims, error) {
	raw, ok := s.cookies.Read(r, s.settings.CookieName)
	if !ok {
		return nil, apperrors.ErrMissingCookie
	}
	return s.Verify(raw)
}
