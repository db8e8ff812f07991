package users

import (
	"context"
	"errors"
)

var ErrEmailExists = errors.New("email already registered")

// User is one stored user record. PasswordHash is the salted digest,
// persisted under the original "password" key; handlers must never echo
// it to clients.
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"password"`
}

// NewUser carries the fields a caller may supply at creation. Password
// is plaintext here and only here; the store hashes it before the record
// exists.
type NewUser struct {
	Username string
	Email    string
	Password string
}

// Patch is a partial update. Nil fields are left untouched; the record
// id is never part of a patch.
type Patch struct {
	Username *string
	Email    *string
	Password *string
}

func (p Patch) IsZero() bool {
	return p.Username == nil && p.Email == nil && p.Password == nil
}

// Store is the user collection contract. Absence of a record is a bool,
// not an error; an error means the backend itself failed.
type Store interface {
	Ping(ctx context.Context) error

	FindAll(ctx context.Context) ([]User, error)
	FindOne(ctx context.Context, id string) (User, bool, error)
	Create(ctx context.Context, nu NewUser) (User, error)
	Update(ctx context.Context, id string, p Patch) (User, bool, error)
	Remove(ctx context.Context, id string) (bool, error)

	FindByEmail(ctx context.Context, email string) (User, bool, error)

	// Authenticate resolves email and verifies the supplied plaintext.
	// Unknown email and wrong password are indistinguishable: both
	// return (User{}, false, nil).
	Authenticate(ctx context.Context, email, plain string) (User, bool, error)
}
