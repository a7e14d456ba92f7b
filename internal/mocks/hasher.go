package mocks

import "errors"

// mockDigestPrefix marks digests produced by MockHasher.
const mockDigestPrefix = "hashed:"

// ErrMockPasswordMismatch is returned by MockHasher.Compare on mismatch.
var ErrMockPasswordMismatch = errors.New("password mismatch")

// MockHasher implements auth.Hasher for testing without bcrypt's cost.
// By default Hash prefixes the password and Compare checks the prefix form.
type MockHasher struct {
	HashFn    func(password string) (string, error)
	CompareFn func(hashedPassword, password string) error

	// CompareCalledWith stores the arguments of the last Compare call
	CompareCalledWith struct {
		HashedPassword string
		Password       string
	}

	// CompareCallCount tracks how many times Compare was called
	CompareCallCount int
}

// Hash implements the auth.PasswordHasher interface
func (m *MockHasher) Hash(password string) (string, error) {
	if m.HashFn != nil {
		return m.HashFn(password)
	}
	return mockDigestPrefix + password, nil
}

// Compare implements the auth.PasswordVerifier interface
func (m *MockHasher) Compare(hashedPassword, password string) error {
	m.CompareCalledWith.HashedPassword = hashedPassword
	m.CompareCalledWith.Password = password
	m.CompareCallCount++

	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}

	if hashedPassword != mockDigestPrefix+password {
		return ErrMockPasswordMismatch
	}
	return nil
}
