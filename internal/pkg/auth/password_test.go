package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("hoops4life")
	require.NoError(t, err)
	require.NotEqual(t, "hoops4life", hash)

	assert.True(t, CheckPassword(hash, "hoops4life"))
	assert.False(t, CheckPassword(hash, "h00ps4life"))
	assert.False(t, CheckPassword("not-a-hash", "hoops4life"))
}
