package users

// UserRepo stores accounts keyed by role and email.
type UserRepo interface {
	Upsert(user *User) error
	GetByEmail(role, email string) (*User, error)
	SetBlocked(role, email string, blocked bool) error
	SetLastLogin(role, email string) error
}
