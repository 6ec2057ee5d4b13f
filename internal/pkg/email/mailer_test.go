package email

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRateLimited(t *testing.T) {
	assert.True(t, isRateLimited(errors.New("429 Too Many Requests")))
	assert.True(t, isRateLimited(errors.New("Rate limit exceeded")))
	assert.True(t, isRateLimited(errors.New("rate_limit_exceeded: slow down")))

	assert.False(t, isRateLimited(errors.New("500 internal server error")))
	assert.False(t, isRateLimited(errors.New("invalid from address")))
}
