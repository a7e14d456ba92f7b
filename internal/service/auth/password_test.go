package auth_test

import (
	"strings"
	"testing"

	"github.com/phrazzld/adboard/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	t.Parallel()
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)

	digest, err := hasher.Hash("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", digest)
	assert.True(t, strings.HasPrefix(digest, "$2a$"), "expected a bcrypt digest, got %q", digest)

	cost, err := bcrypt.Cost([]byte(digest))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)

	assert.NoError(t, hasher.Compare(digest, "correct horse"))
	assert.Error(t, hasher.Compare(digest, "wrong horse"))
	assert.Error(t, hasher.Compare("not-a-digest", "correct horse"))
}

func TestBcryptHasher_SaltsEachDigest(t *testing.T) {
	t.Parallel()
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)

	first, err := hasher.Hash("same password")
	require.NoError(t, err)
	second, err := hasher.Hash("same password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestBcryptHasher_RejectsOverlongPassword(t *testing.T) {
	t.Parallel()
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)

	_, err := hasher.Hash(strings.Repeat("a", 73))
	assert.Error(t, err)
}

func TestNewBcryptHasher_Cost(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cost int
		want int
	}{
		{"minimum", bcrypt.MinCost, bcrypt.MinCost},
		{"custom", 12, 12},
		{"too low", 1, bcrypt.DefaultCost},
		{"too high", 40, bcrypt.DefaultCost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, auth.NewBcryptHasher(tt.cost).Cost())
		})
	}
}
