package users

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	apperrors "github.com/jrsteele09/go-school-admin/internal/errors"
	"github.com/jrsteele09/go-school-admin/token"
	"github.com/rs/zerolog/log"
)

// Directory is the credential check used by the login handlers. On success it
// returns the claims to embed in the session; it never issues tokens itself.
type Directory struct {
	repo UserRepo
}

func NewDirectory(repo UserRepo) *Directory {
	return &Directory{repo: repo}
}

// Register creates or replaces an account with a freshly hashed password.
func (d *Directory) Register(role, email, firstName, lastName, password string) (*User, error) {
	if role == "" || email == "" {
		return nil, fmt.Errorf("role and email are required")
	}
	if err := ValidatePasswordStrength(password); err != nil {
		return nil, err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, apperrors.Wrapf(err, "failed to hash password")
	}

	user := &User{
		Role:         role,
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: hash,
		FirstName:    firstName,
		LastName:     lastName,
		DateJoined:   time.Now(),
	}
	if existing, err := d.repo.GetByEmail(role, user.Email); err == nil {
		user.ID = existing.ID
	}
	if err := d.repo.Upsert(user); err != nil {
		return nil, apperrors.Wrapf(err, "failed to store user")
	}
	return user, nil
}

// Authenticate checks email and password for role. Unknown users and wrong
// passwords both return ErrInvalidCredentials.
func (d *Directory) Authenticate(_ context.Context, role, email, password string) (token.Claims, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := d.repo.GetByEmail(role, email)
	if err != nil {
		return token.Claims{}, apperrors.ErrInvalidCredentials
	}
	if !CheckPasswordHash(password, user.PasswordHash) {
		return token.Claims{}, apperrors.ErrInvalidCredentials
	}
	if user.Blocked {
		return token.Claims{}, apperrors.ErrUserBlocked
	}

	if err := d.repo.SetLastLogin(role, email); err != nil {
		log.Warn().Err(err).Str("role", role).Msg("failed to record last login")
	}

	return token.Claims{
		Email: user.Email,
		Name:  user.DisplayName(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: user.ID,
		},
	}, nil
}

// SeedAccount is one entry of the SEED_ACCOUNTS development setting.
type SeedAccount struct {
	Role      string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// ParseSeedAccounts parses "role:email:password[:First Last];..." entries.
func ParseSeedAccounts(raw string) ([]SeedAccount, error) {
	var accounts []SeedAccount
	for _, entry := range strings.Split(raw, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, ":", 4)
		if len(parts) < 3 {
			return nil, fmt.Errorf("invalid seed account %q: expected role:email:password", entry)
		}
		a := SeedAccount{Role: parts[0], Email: parts[1], Password: parts[2]}
		if len(parts) == 4 {
			first, last, _ := strings.Cut(parts[3], " ")
			a.FirstName, a.LastName = first, last
		}
		accounts = append(accounts, a)
	}
	return accounts, nil
}

// Seed registers every account, stopping at the first failure.
func (d *Directory) Seed(accounts []SeedAccount) error {
	for _, a := range accounts {
		if _, err := d.Register(a.Role, a.Email, a.FirstName, a.LastName, a.Password); err != nil {
			return apperrors.Wrapf(err, "seed %s/%s", a.Role, a.Email)
		}
		log.Info().Str("role", a.Role).Str("email", a.Email).Msg("seeded account")
	}
	return nil
}
