package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Issuer produces signed session tokens of the form header.payload.signature.
type Issuer struct {
	signer Signer
	now    func() time.Time
}

// NewIssuer creates an issuer that signs with signer.
func NewIssuer(signer Signer, opts ...Option) *Issuer {
	o := applyOptions(opts)
	return &Issuer{
		signer: signer,
		now:    o.now,
	}
}

// Issue stamps claims with iat, jti and exp = now + ttl and returns the signed
// token. The caller's claims value is not modified.
func (i *Issuer) Issue(claims Claims, ttl time.Duration) (string, error) {
	if ttl < time.Second {
		return "", errors.Errorf("session ttl must be at least one second, got %s", ttl)
	}

	now := i.now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	claims.ID = uuid.NewString()

	headerText, err := Encode(header{Alg: i.signer.Algorithm(), Typ: tokenType})
	if err != nil {
		return "", errors.Wrap(err, "failed to encode header")
	}
	payloadText, err := Encode(claims)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode claims")
	}

	signingString := headerText + "." + payloadText
	signature, err := i.signer.Sign(signingString)
	if err != nil {
		return "", err
	}
	return signingString + "." + signature, nil
}
