package token

import (
	"encoding/json"

	"github.com/golang-jwt/jwt/v5"
	apperrors "github.com/jrsteele09/go-school-admin/internal/errors"
	"github.com/pkg/errors"
)

// Segments use unpadded base64url. Decoding is strict so that non-zero
// trailing bits are rejected and every text maps to exactly one byte string.
var (
	segmentEncoder = &jwt.Token{}
	segmentDecoder = jwt.NewParser(jwt.WithStrictDecoding())
)

// Encode serialises v to UTF-8 JSON and returns it as a base64url segment.
func Encode(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal segment")
	}
	return EncodeBytes(raw), nil
}

// EncodeBytes returns raw as a base64url segment.
func EncodeBytes(raw []byte) string {
	return segmentEncoder.EncodeSegment(raw)
}

// Decode reverses Encode into v. Any encoding or JSON failure is reported as
// ErrMalformedToken.
func Decode(text string, v any) error {
	raw, err := DecodeBytes(text)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return errors.Wrapf(apperrors.ErrMalformedToken, "invalid segment json: %v", err)
	}
	return nil
}

// DecodeBytes returns the bytes of a base64url segment.
func DecodeBytes(text string) ([]byte, error) {
	raw, err := segmentDecoder.DecodeSegment(text)
	if err != nil {
		return nil, errors.Wrapf(apperrors.ErrMalformedToken, "invalid segment encoding: %v", err)
	}
	return raw, nil
}
