package icron

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextTrigger(t *testing.T) {
	ref := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)

	info, err := NextTrigger("0 0 * * *", ref)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), info.Next)
	assert.Equal(t, 13*time.Hour+30*time.Minute, info.TimeUntilNext)
	assert.Equal(t, "0 0 * * *", info.Expression)
}

func TestNextTriggerDescriptor(t *testing.T) {
	ref := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)

	info, err := NextTrigger("@hourly", ref)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC), info.Next)
}

func TestNextTriggerInvalid(t *testing.T) {
	_, err := NextTrigger("not a cron expr", time.Now())
	require.Error(t, err)
}
