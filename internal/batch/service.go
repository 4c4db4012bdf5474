package batch

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/singleflight"

	"github.com/MimeLyc/tiktok-video-enricher/pkg/icron"
	"github.com/MimeLyc/tiktok-video-enricher/pkg/log"
)

// RunFunc builds the per-batch resources (browser session, work dirs) and
// runs one batch. Each trigger gets fresh resources; the function owns
// their teardown.
type RunFunc func(ctx context.Context) (Summary, error)

// Service runs enrichment batches on a cron schedule. A singleflight group
// guards against a trigger overlapping a batch still in flight.
type Service struct {
	cronExpr string
	cron     *cron.Cron
	run      RunFunc
	group    singleflight.Group
}

func NewService(cronExpr string, c *cron.Cron, run RunFunc) *Service {
	return &Service{
		cronExpr: cronExpr,
		cron:     c,
		run:      run,
	}
}

// Schedule registers the batch on the cron. The caller starts and stops
// the cron itself.
func (s *Service) Schedule(ctx context.Context) error {
	log.Info("Scheduling enrichment batches with %q", s.cronExpr)

	runFunc := func() {
		_, _, _ = s.group.Do("run", func() (any, error) {
			summary, err := s.run(ctx)
			if err != nil {
				log.Error("Batch failed: %v", err)
				return nil, err
			}
			log.Info("Batch finished: %d processed, %d skipped, %d errored",
				summary.Processed, summary.Skipped, summary.Errored)
			return nil, nil
		})

		if info, err := icron.NextTrigger(s.cronExpr, time.Now()); err == nil {
			log.Info("Next run at %s (in %s)",
				info.Next.Format(time.RFC3339), info.TimeUntilNext.Round(time.Second))
		}
	}

	_, err := s.cron.AddFunc(s.cronExpr, runFunc)
	return err
}
