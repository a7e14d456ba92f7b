// Package mocks provides centralized mock implementations for testing.
//
// Most mocks use function fields so a test can override exactly the
// behavior it cares about; unset fields fall back to a simple in-memory
// default.
//
// Usage:
//
//	tokens := &mocks.MockTokenManager{
//	    ValidateFn: func(ctx context.Context, email, token string) (*domain.Identity, error) {
//	        return &domain.Identity{UserID: userID, Email: email, TokenID: token}, nil
//	    },
//	}
package mocks
