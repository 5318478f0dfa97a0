package account

import (
	"errors"
	"slices"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Roles. A user starts pathways, a practitioner authors them, an admin
// administers the site. There is exactly one practitioner in practice.
const (
	RoleAdmin        = "admin"
	RolePractitioner = "practitioner"
	RoleUser         = "user"
)

// ValidRoles lists every accepted role value.
var ValidRoles = []string{RoleAdmin, RolePractitioner, RoleUser}

const (
	MaxEmailLength = 254
	MaxNameLength  = 100

	minPasswordLength = 12
	bcryptCost        = 12

	maxLoginFailures = 5
	lockoutDuration  = 15 * time.Minute
)

// Domain errors
var (
	ErrEmptyEmail       = errors.New("email cannot be empty")
	ErrInvalidEmail     = errors.New("email must contain '@'")
	ErrEmailTooLong     = errors.New("email cannot exceed 254 characters")
	ErrNameTooLong      = errors.New("name cannot exceed 100 characters")
	ErrInvalidRole      = errors.New("role must be one of: admin, practitioner, user")
	ErrEmptyPassword    = errors.New("password cannot be empty")
	ErrPasswordTooShort = errors.New("password must be at least 12 characters")
	ErrWrongPassword    = errors.New("incorrect password")
)

// Account holds state for the Account concept.
type Account struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	FailedLogins int
	LockedUntil  time.Time
}

// Validate checks if the Account has valid data.
// PRE: Account struct is populated
// POST: Returns nil if valid, error otherwise
func (a *Account) Validate() error {
	switch {
	case strings.TrimSpace(a.Email) == "":
		return ErrEmptyEmail
	case len(a.Email) > MaxEmailLength:
		return ErrEmailTooLong
	case !strings.Contains(a.Email, "@"):
		return ErrInvalidEmail
	case len(a.Name) > MaxNameLength:
		return ErrNameTooLong
	case !slices.Contains(ValidRoles, a.Role):
		return ErrInvalidRole
	}
	return nil
}

// SetPassword stores a bcrypt hash of plaintext.
// PRE: plaintext is at least 12 characters
// POST: PasswordHash holds the hash; the plaintext is never stored
func (a *Account) SetPassword(plaintext string) error {
	if plaintext == "" {
		return ErrEmptyPassword
	}
	if len(plaintext) < minPasswordLength {
		return ErrPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return err
	}
	a.PasswordHash = string(hash)
	return nil
}

// CheckPassword compares plaintext against the stored hash.
// PRE: PasswordHash is set
// INVARIANT: Account fields are not mutated
func (a *Account) CheckPassword(plaintext string) error {
	if a.PasswordHash == "" {
		return ErrWrongPassword
	}
	if bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(plaintext)) != nil {
		return ErrWrongPassword
	}
	return nil
}

// IsLocked reports whether a lockout is currently in force.
// INVARIANT: Account fields are not mutated
func (a *Account) IsLocked() bool {
	return !a.LockedUntil.IsZero() && time.Now().Before(a.LockedUntil)
}

// RecordFailedLogin counts a bad password attempt. The fifth failure in a
// row locks the account for fifteen minutes.
// POST: FailedLogins incremented; LockedUntil set once the threshold is hit
func (a *Account) RecordFailedLogin() {
	a.FailedLogins++
	if a.FailedLogins >= maxLoginFailures {
		a.LockedUntil = time.Now().Add(lockoutDuration)
	}
}

// ResetFailedLogins clears the failure counter and any lockout.
// POST: FailedLogins is 0, LockedUntil is zero
func (a *Account) ResetFailedLogins() {
	a.FailedLogins = 0
	a.LockedUntil = time.Time{}
}

// IsAdmin reports whether the account holds the admin role.
func (a *Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// IsPractitionerOrAdmin reports whether the account may author pathways.
func (a *Account) IsPractitionerOrAdmin() bool {
	return a.Role == RoleAdmin || a.Role == RolePractitioner
}
