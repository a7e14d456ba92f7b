package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	// MinPasswordLength is the minimum number of characters in a password.
	MinPasswordLength = 8

	// MaxPasswordBytes is bcrypt's input limit; longer passwords are rejected
	// rather than silently truncated.
	MaxPasswordBytes = 72
)

// User validation errors
var (
	ErrEmptyUserID         = errors.New("user ID cannot be empty")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
)

// User represents a registered user of the classifieds board.
type User struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	Password       string    `json:"-"` // Plaintext, only set during registration
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates a new User with the given email and plaintext password.
// The email is normalized; every field rule is checked and all failures
// are returned together as ValidationErrors.
//
// The caller is responsible for hashing the password before storing the user.
func NewUser(email, password string) (*User, error) {
	now := Timestamp(time.Now())
	user := &User{
		ID:        uuid.New(),
		Email:     NormalizeEmail(email),
		Password:  password,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	var errs ValidationErrors
	if ve := emailError(u.Email); ve != nil {
		errs = append(errs, ve)
	}

	// Stored users carry only the digest; new ones must pass the strength rules.
	if u.Password != "" || u.HashedPassword == "" {
		if ve := passwordError(u.Password); ve != nil {
			errs = append(errs, ve)
		}
	}

	return errs.orNil()
}

// NormalizeEmail trims and lower-cases an email address so that lookups and
// the uniqueness constraint are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks the email syntax: exactly one '@', a non-empty local
// part, and a domain part of at least three characters containing a dot.
// It returns a *ValidationError or nil.
func ValidateEmail(email string) error {
	if ve := emailError(email); ve != nil {
		return ve
	}
	return nil
}

func emailError(email string) *ValidationError {
	if !validEmailFormat(email) {
		return NewValidationError("email", ErrInvalidEmail.Error(), ErrInvalidEmail)
	}
	return nil
}

func validEmailFormat(email string) bool {
	if strings.Count(email, "@") != 1 {
		return false
	}

	local, domainPart, _ := strings.Cut(email, "@")
	if local == "" {
		return false
	}

	return len(domainPart) >= 3 && strings.Contains(domainPart, ".")
}

// ValidatePassword checks password strength. Length is counted in
// characters; the upper bound is in bytes because that is what bcrypt sees.
// It returns a *ValidationError or nil.
func ValidatePassword(password string) error {
	if ve := passwordError(password); ve != nil {
		return ve
	}
	return nil
}

func passwordError(password string) *ValidationError {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return NewValidationError("password", ErrPasswordTooEasy.Error(), ErrPasswordTooEasy)
	}
	if len(password) > MaxPasswordBytes {
		return NewValidationError("password", ErrPasswordTooLong.Error(), ErrPasswordTooLong)
	}
	return nil
}
