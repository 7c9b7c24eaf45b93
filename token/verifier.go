package token

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	apperrors "github.com/jrsteele09/go-school-admin/internal/errors"
	"github.com/pkg/errors"
)

// Verifier checks tokens produced by an Issuer holding the same secret.
// It holds no mutable state and is safe for concurrent use.
type Verifier struct {
	signer Signer
	now    func() time.Time
}

// NewVerifier creates a verifier that checks signatures with signer.
func NewVerifier(signer Signer, opts ...Option) *Verifier {
	o := applyOptions(opts)
	return &Verifier{
		signer: signer,
		now:    o.now,
	}
}

// Verify returns the token's claims, or an error wrapping one of
// ErrMalformedToken, ErrSignatureMismatch or ErrExpiredToken.
func (v *Verifier) Verify(rawToken string) (*Claims, error) {
	parts := strings.Split(rawToken, ".")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return nil, errors.Wrapf(apperrors.ErrMalformedToken, "expected 3 segments, got %d", len(parts))
	}

	if !v.signer.Verify(parts[0]+"."+parts[1], parts[2]) {
		return nil, apperrors.ErrSignatureMismatch
	}

	var h header
	if err := Decode(parts[0], &h); err != nil {
		return nil, err
	}
	if h.Alg != v.signer.Algorithm() {
		return nil, errors.Wrapf(apperrors.ErrMalformedToken, "unexpected signing method: %q", h.Alg)
	}

	// exp must be a JSON number; a quoted number would otherwise be accepted
	// by the NumericDate decoder.
	var probe struct {
		Exp json.RawMessage `json:"exp"`
	}
	if err := Decode(parts[1], &probe); err != nil {
		return nil, err
	}
	if !isJSONNumber(probe.Exp) {
		return nil, errors.Wrap(apperrors.ErrMalformedToken, "missing or non-numeric exp")
	}

	var claims Claims
	if err := Decode(parts[1], &claims); err != nil {
		return nil, err
	}
	if claims.ExpiresAt == nil {
		return nil, errors.Wrap(apperrors.ErrMalformedToken, "missing exp")
	}

	if !v.now().Before(claims.ExpiresAt.Time) {
		return nil, errors.Wrapf(apperrors.ErrExpiredToken, "expired at %s", claims.ExpiresAt.Time.UTC().Format(time.RFC3339))
	}
	return &claims, nil
}

func isJSONNumber(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return false
	}
	c := raw[0]
	return c == '-' || (c >= '0' && c <= '9')
}
