package users

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoginLimiter(t *testing.T) {
	now := time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC)
	l := NewLoginLimiter(2)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))

	// Other clients have their own budget
	assert.True(t, l.Allow("10.0.0.2"))

	// One token every 30 seconds
	now = now.Add(30 * time.Second)
	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))

	// Idle limiters are dropped
	now = now.Add(11 * time.Minute)
	assert.True(t, l.Allow("10.0.0.3"))
	assert.Len(t, l.limiters, 1)
}

func TestNewLoginLimiter_DefaultRate(t *testing.T) {
	l := NewLoginLimiter(0)
	assert.Equal(t, 10, l.burst)
}
