package domain

import (
	"errors"
	"strings"
	"time"
)

// Password length bounds for registration candidates.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 16
)

// User validation errors. Each wraps ErrValidation.
var (
	ErrEmptyLogin       = NewValidationError("email", "cannot be empty", ErrValidation)
	ErrInvalidLogin     = NewValidationError("email", "must be a valid email address", ErrValidation)
	ErrEmptyPassword    = NewValidationError("password", "cannot be empty", ErrValidation)
	ErrPasswordTooShort = NewValidationError("password", "must be at least 8 characters long", ErrValidation)
	ErrPasswordTooLong  = NewValidationError("password", "must be at most 16 characters long", ErrValidation)
	ErrEmptyBirthDate   = NewValidationError("birth_date", "cannot be empty", ErrValidation)
)

// User represents a registered account. The login (an email address) is the identity;
// there is no surrogate numeric ID.
type User struct {
	Login          string    `json:"email"`
	Password       string    `json:"-"` // Plaintext password, only set on registration/login candidates
	HashedPassword string    `json:"-"` // Never expose password hash in JSON
	BirthDate      time.Time `json:"birth_date"`
	RegisteredAt   time.Time `json:"registration_date"`
}

// NewUser creates a registration candidate with the given login, plaintext password and
// birth date. Returns an error if validation fails.
//
// The caller is responsible for hashing the password and assigning the registration
// timestamp before the user is persisted.
func NewUser(login, password string, birthDate time.Time) (*User, error) {
	user := &User{
		Login:     login,
		Password:  password,
		BirthDate: birthDate,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.Login == "" {
		return ErrEmptyLogin
	}

	if !validateEmailFormat(u.Login) {
		return ErrInvalidLogin
	}

	if u.BirthDate.IsZero() {
		return ErrEmptyBirthDate
	}

	// A persisted user carries only the hash.
	if u.Password == "" {
		if u.HashedPassword == "" {
			return ErrEmptyPassword
		}
		return nil
	}

	switch n := len(u.Password); {
	case n < MinPasswordLength:
		return ErrPasswordTooShort
	case n > MaxPasswordLength:
		return ErrPasswordTooLong
	}

	return nil
}

// ClearPassword drops the plaintext password so it can't travel past the auth layer.
func (u *User) ClearPassword() {
	u.Password = ""
}

// IsValidationError reports whether err belongs to the validation kind.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

// validateEmailFormat checks for a non-empty local part, an @, and a dotted domain
// with non-empty labels on both sides of the first dot.
func validateEmailFormat(email string) bool {
	local, domainPart, ok := strings.Cut(email, "@")
	if !ok || local == "" || domainPart == "" {
		return false
	}

	head, tail, ok := strings.Cut(domainPart, ".")
	if !ok || head == "" || tail == "" {
		return false
	}

	return !strings.ContainsAny(email, " \t\r\n")
}
