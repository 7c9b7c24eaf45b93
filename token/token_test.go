package token_test

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	apperrors "github.com/jrsteele09/go-school-admin/internal/errors"
	"github.com/jrsteele09/go-school-admin/token"
	"github.com/stretchr/testify/require"
)

const (
	secretStr     = "teacher-secret-1234"
	testSubjectID = "T1"
	testEmail     = "t@example.com"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// testFixture holds an issuer and verifier sharing a secret and a clock
type testFixture struct {
	clock    *fakeClock
	issuer   *token.Issuer
	verifier *token.Verifier
}

func setupTestFixture(t *testing.T, secret string) *testFixture {
	t.Helper()

	signer, err := token.NewHMACSigner(secret)
	require.NoError(t, err)

	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	return &testFixture{
		clock:    clock,
		issuer:   token.NewIssuer(signer, token.WithClock(clock.Now)),
		verifier: token.NewVerifier(signer, token.WithClock(clock.Now)),
	}
}

func testClaims() token.Claims {
	return token.Claims{
		Email: testEmail,
		Name:  "Tess Teacher",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: testSubjectID,
		},
	}
}

func TestIssueAndVerifyHappyPath(t *testing.T) {
	f := setupTestFixture(t, secretStr)

	raw, err := f.issuer.Issue(testClaims(), 60*time.Second)
	require.NoError(t, err)
	require.Len(t, strings.Split(raw, "."), 3)

	claims, err := f.verifier.Verify(raw)
	require.NoError(t, err)
	require.Equal(t, testEmail, claims.Email)
	require.Equal(t, testSubjectID, claims.Subject)
	require.Equal(t, "Tess Teacher", claims.Name)
	require.Equal(t, f.clock.now.Unix()+60, claims.ExpiresAt.Unix())
	require.Equal(t, f.clock.now.Unix(), claims.IssuedAt.Unix())
	require.NotEmpty(t, claims.ID)
}

func TestIssueOverwritesCallerExpiry(t *testing.T) {
	f := setupTestFixture(t, secretStr)

	in := testClaims()
	in.ExpiresAt = jwt.NewNumericDate(f.clock.now.Add(365 * 24 * time.Hour))

	raw, err := f.issuer.Issue(in, time.Minute)
	require.NoError(t, err)

	claims, err := f.verifier.Verify(raw)
	require.NoError(t, err)
	require.Equal(t, f.clock.now.Add(time.Minute).Unix(), claims.ExpiresAt.Unix())
}

func TestIssueRejectsSubSecondTTL(t *testing.T) {
	f := setupTestFixture(t, secretStr)

	_, err := f.issuer.Issue(testClaims(), 0)
	require.Error(t, err)
	_, err = f.issuer.Issue(testClaims(), -time.Minute)
	require.Error(t, err)
}

func TestHeaderWireFormat(t *testing.T) {
	f := setupTestFixture(t, secretStr)

	raw, err := f.issuer.Issue(testClaims(), time.Minute)
	require.NoError(t, err)

	headerBytes, err := token.DecodeBytes(strings.Split(raw, ".")[0])
	require.NoError(t, err)
	require.JSONEq(t, `{"alg":"HS256","typ":"JWT"}`, string(headerBytes))
}

func TestExpiredScenario(t *testing.T) {
	f := setupTestFixture(t, secretStr)

	raw, err := f.issuer.Issue(testClaims(), 60*time.Second)
	require.NoError(t, err)

	f.clock.Advance(61 * time.Second)
	_, err = f.verifier.Verify(raw)
	require.ErrorIs(t, err, apperrors.ErrExpiredToken)
}

func TestExpiryBoundary(t *testing.T) {
	f := setupTestFixture(t, secretStr)

	raw, err := f.issuer.Issue(testClaims(), time.Second)
	require.NoError(t, err)

	_, err = f.verifier.Verify(raw)
	require.NoError(t, err)

	f.clock.Advance(999 * time.Millisecond)
	_, err = f.verifier.Verify(raw)
	require.NoError(t, err)

	// exp == now is expired
	f.clock.Advance(time.Millisecond)
	_, err = f.verifier.Verify(raw)
	require.ErrorIs(t, err, apperrors.ErrExpiredToken)
}

func TestPastExpiryFails(t *testing.T) {
	f := setupTestFixture(t, secretStr)

	past := *f.clock
	past.Advance(-2 * time.Hour)
	signer, err := token.NewHMACSigner(secretStr)
	require.NoError(t, err)

	raw, err := token.NewIssuer(signer, token.WithClock(past.Now)).Issue(testClaims(), time.Hour)
	require.NoError(t, err)

	_, err = f.verifier.Verify(raw)
	require.ErrorIs(t, err, apperrors.ErrExpiredToken)
}

func flip(c byte) byte {
	if c == 'A' {
		return 'B'
	}
	return 'A'
}

func TestTamperSensitivity(t *testing.T) {
	f := setupTestFixture(t, secretStr)

	raw, err := f.issuer.Issue(testClaims(), time.Hour)
	require.NoError(t, err)

	for i := 0; i < len(raw); i++ {
		if raw[i] == '.' {
			continue
		}
		tampered := []byte(raw)
		tampered[i] = flip(tampered[i])

		_, err := f.verifier.Verify(string(tampered))
		require.Error(t, err, "tampered position %d verified", i)
	}
}

func TestTamperedPayloadIsSignatureMismatch(t *testing.T) {
	f := setupTestFixture(t, secretStr)

	raw, err := f.issuer.Issue(testClaims(), time.Hour)
	require.NoError(t, err)
	parts := strings.Split(raw, ".")

	forged := testClaims()
	forged.Email = "admin@example.com"
	forged.ExpiresAt = jwt.NewNumericDate(f.clock.now.Add(24 * time.Hour))
	payload, err := token.Encode(forged)
	require.NoError(t, err)

	_, err = f.verifier.Verify(parts[0] + "." + payload + "." + parts[2])
	require.ErrorIs(t, err, apperrors.ErrSignatureMismatch)
}

func TestRoleIsolation(t *testing.T) {
	admin := setupTestFixture(t, "admin-secret")
	teacher := setupTestFixture(t, "teacher-secret")

	raw, err := admin.issuer.Issue(testClaims(), time.Hour)
	require.NoError(t, err)

	_, err = admin.verifier.Verify(raw)
	require.NoError(t, err)

	_, err = teacher.verifier.Verify(raw)
	require.ErrorIs(t, err, apperrors.ErrSignatureMismatch)
}

func TestMalformedInputFailsGracefully(t *testing.T) {
	f := setupTestFixture(t, secretStr)
	signer, err := token.NewHMACSigner(secretStr)
	require.NoError(t, err)

	headerText, err := token.Encode(map[string]string{"alg": "HS256", "typ": "JWT"})
	require.NoError(t, err)

	// signed correctly but with a broken payload
	signed := func(payload string) string {
		sig, err := signer.Sign(headerText + "." + payload)
		require.NoError(t, err)
		return headerText + "." + payload + "." + sig
	}

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "one segment", token: "abc"},
		{name: "two segments", token: "abc.def"},
		{name: "four segments", token: "a.b.c.d"},
		{name: "empty segment", token: headerText + "..sig"},
		{name: "garbage", token: "!!.??.**"},
		{name: "payload not json", token: signed(token.EncodeBytes([]byte("hello")))},
		{name: "payload not base64", token: signed("$$$")},
		{name: "payload array", token: signed(token.EncodeBytes([]byte(`[1,2]`)))},
		{name: "missing exp", token: signed(token.EncodeBytes([]byte(`{"email":"a@b.c"}`)))},
		{name: "null exp", token: signed(token.EncodeBytes([]byte(`{"exp":null}`)))},
		{name: "string exp", token: signed(token.EncodeBytes([]byte(`{"exp":"9999999999"}`)))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NotPanics(t, func() {
				claims, err := f.verifier.Verify(tt.token)
				require.Error(t, err)
				require.Nil(t, claims)
			})
		})
	}
}

func TestWrongAlgorithmHeaderIsRejected(t *testing.T) {
	f := setupTestFixture(t, secretStr)
	signer, err := token.NewHMACSigner(secretStr)
	require.NoError(t, err)

	headerText, err := token.Encode(map[string]string{"alg": "none", "typ": "JWT"})
	require.NoError(t, err)
	payload, err := token.Encode(map[string]any{"exp": f.clock.now.Add(time.Hour).Unix()})
	require.NoError(t, err)
	sig, err := signer.Sign(headerText + "." + payload)
	require.NoError(t, err)

	_, err = f.verifier.Verify(headerText + "." + payload + "." + sig)
	require.ErrorIs(t, err, apperrors.ErrMalformedToken)
}

func TestTokensParseWithStandardJWTLibrary(t *testing.T) {
	f := setupTestFixture(t, secretStr)

	raw, err := f.issuer.Issue(testClaims(), time.Hour)
	require.NoError(t, err)

	parsed, err := jwt.ParseWithClaims(raw, &token.Claims{}, func(*jwt.Token) (any, error) {
		return []byte(secretStr), nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithTimeFunc(f.clock.Now))
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(*token.Claims)
	require.True(t, ok)
	require.Equal(t, testEmail, claims.Email)
	require.Equal(t, testSubjectID, claims.Subject)
}

func TestConcurrentIssueAndVerify(t *testing.T) {
	f := setupTestFixture(t, secretStr)

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			raw, err := f.issuer.Issue(testClaims(), time.Minute)
			if err != nil {
				errs <- err
				return
			}
			if _, err := f.verifier.Verify(raw); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
}
