package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewCodeFormat(t *testing.T) {
	now := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)
	for i := 0; i < 100; i++ {
		code := NewCode(now)
		assert.Regexp(t, `^BK\d{10}$`, code)
	}
}

func TestNewCodeVariesWithTime(t *testing.T) {
	a := NewCode(time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC))
	b := NewCode(time.Date(2026, 3, 14, 18, 0, 1, 0, time.UTC))
	assert.NotEqual(t, a[:8], b[:8])
}
