package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSince(t *testing.T) {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	NowFunc = func() time.Time { return base.Add(49*time.Hour + 30*time.Minute) }
	defer func() { NowFunc = time.Now }()

	assert.Equal(t, 49*time.Hour+30*time.Minute, Since(base))
	assert.Equal(t, "2024-03-01 10:00:00", Stamp(base))
}
