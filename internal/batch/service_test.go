package batch

import (
	"context"
	"testing"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleRegistersCronEntry(t *testing.T) {
	c := cron.New()
	s := NewService("*/30 * * * *", c, func(ctx context.Context) (Summary, error) {
		return Summary{}, nil
	})

	require.NoError(t, s.Schedule(context.Background()))
	assert.Len(t, c.Entries(), 1)
}

func TestScheduleRejectsInvalidExpression(t *testing.T) {
	c := cron.New()
	s := NewService("not a cron expr", c, func(ctx context.Context) (Summary, error) {
		return Summary{}, nil
	})

	assert.Error(t, s.Schedule(context.Background()))
}
