package token

import (
	"github.com/golang-jwt/jwt/v5"
	apperrors "github.com/jrsteele09/go-school-admin/internal/errors"
	"github.com/pkg/errors"
)

// Signer computes and checks a keyed MAC over a signing string.
type Signer interface {
	// Sign returns the base64url signature of data
	Sign(data string) (string, error)

	// Verify reports whether signature is valid for data
	Verify(data, signature string) bool

	// Algorithm returns the JWS algorithm name written to the token header
	Algorithm() string
}

// HMACsigner implements Signer using symmetric HMAC-SHA256
type HMACsigner struct {
	secret []byte
}

var _ Signer = (*HMACsigner)(nil)

// NewHMACSigner creates a new HMAC signer with the given secret. An empty
// secret is refused.
func NewHMACSigner(secret string) (*HMACsigner, error) {
	if secret == "" {
		return nil, apperrors.ErrMissingSecret
	}
	return &HMACsigner{
		secret: []byte(secret),
	}, nil
}

func (h *HMACsigner) Sign(data string) (string, error) {
	sig, err := jwt.SigningMethodHS256.Sign(data, h.secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign with HMAC")
	}
	return EncodeBytes(sig), nil
}

// Verify recomputes the MAC and compares it in constant time.
func (h *HMACsigner) Verify(data, signature string) bool {
	sig, err := DecodeBytes(signature)
	if err != nil {
		return false
	}
	return jwt.SigningMethodHS256.Verify(data, sig, h.secret) == nil
}

func (h *HMACsigner) Algorithm() string {
	return jwt.SigningMethodHS256.Alg()
}
