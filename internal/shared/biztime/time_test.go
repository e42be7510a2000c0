package biztime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSetClock(t *testing.T) {
	fixed := time.Date(2024, 3, 1, 9, 30, 0, 0, time.FixedZone("CET", 3600))
	restore := SetClock(func() time.Time { return fixed })

	got := NowUTC()
	assert.Equal(t, time.UTC, got.Location())
	assert.True(t, got.Equal(fixed))

	restore()
	assert.False(t, NowUTC().Equal(fixed))
}

func TestUnixMilliRoundTripKeepsZero(t *testing.T) {
	assert.Equal(t, int64(0), ToUnixMilli(time.Time{}))
	assert.True(t, FromUnixMilli(0).IsZero())

	ts := time.Date(2024, 5, 17, 12, 0, 0, 0, time.UTC)
	assert.True(t, FromUnixMilli(ToUnixMilli(ts)).Equal(ts))
}
