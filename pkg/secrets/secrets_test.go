package secrets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	dErrors "patentdesk/pkg/domain-errors"
)

func TestGenerate(t *testing.T) {
	a, err := Generate()
	require.NoError(t, err)
	b, err := Generate()
	require.NoError(t, err)

	assert.Len(t, a, 43)
	assert.NotEqual(t, a, b)
}

func TestHashAndVerify(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	t.Run("accepts matching token", func(t *testing.T) {
		require.NoError(t, Verify("s3cret", string(hash)))
	})

	t.Run("rejects wrong token as unauthorized", func(t *testing.T) {
		err := Verify("nope", string(hash))
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("rejects empty token", func(t *testing.T) {
		err := Verify("", string(hash))
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("malformed hash is an internal error", func(t *testing.T) {
		err := Verify("s3cret", "not-a-hash")
		require.Error(t, err)
		assert.False(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("hash rejects empty token", func(t *testing.T) {
		_, err := Hash("")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("hash round trips", func(t *testing.T) {
		h, err := Hash("another")
		require.NoError(t, err)
		require.NoError(t, Verify("another", h))
	})
}
