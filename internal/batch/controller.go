package batch

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MimeLyc/tiktok-video-enricher/internal/dataset"
	"github.com/MimeLyc/tiktok-video-enricher/internal/enrich"
	"github.com/MimeLyc/tiktok-video-enricher/internal/runlog"
	"github.com/MimeLyc/tiktok-video-enricher/pkg/log"
)

const defaultCheckpointEvery = 5

// Processor is the per-row contract the controller needs from the
// orchestrator.
type Processor interface {
	Process(ctx context.Context, row *dataset.Row) enrich.Outcome
}

// Summary aggregates the outcomes of one batch.
type Summary struct {
	Total            int
	Processed        int
	Skipped          int
	PartiallyUpdated int
	FullyUpdated     int
	Errored          int
}

// Controller drives one enrichment pass over the whole dataset, strictly
// sequentially. Rows keep the store's order; each row's outcome is
// independent. The dataset is flushed after every CheckpointEvery processed
// rows and once more at the end, so an interruption loses at most
// CheckpointEvery-1 rows of work.
type Controller struct {
	Store       dataset.Store
	Enricher    Processor
	Journal     *runlog.Store // optional
	DatasetPath string

	// CheckpointEvery is the number of processed rows between full
	// dataset flushes. Default 5.
	CheckpointEvery int

	// RowDelay is the pacing pause after each processed row, keeping the
	// external services' rate limits honest.
	RowDelay time.Duration

	// sleep is swappable in tests.
	sleep func(time.Duration)
}

// Run loads the dataset, enriches it row by row and reports the summary.
// Row-level failures are recorded in the rows themselves; only store
// failures abort the batch.
func (c *Controller) Run(ctx context.Context) (Summary, error) {
	checkpointEvery := c.CheckpointEvery
	if checkpointEvery <= 0 {
		checkpointEvery = defaultCheckpointEvery
	}
	sleep := c.sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	var summary Summary

	rows, err := c.Store.Load(ctx)
	if err != nil {
		return summary, fmt.Errorf("load dataset: %w", err)
	}
	summary.Total = len(rows)

	run := c.beginRun(ctx)
	log.Info("Starting enrichment of %d rows", len(rows))

	var loopErr error
	for i := range rows {
		if err := ctx.Err(); err != nil {
			loopErr = err
			break
		}

		row := &rows[i]
		if dataset.Complete(*row) {
			log.Info("Skipping fully processed URL %d/%d: %s", i+1, len(rows), row.URL)
			summary.Skipped++
			c.recordRow(ctx, run, *row, enrich.OutcomeSkipped)
			continue
		}

		log.Info("Processing %d/%d: %s", i+1, len(rows), row.URL)
		outcome := c.Enricher.Process(ctx, row)
		summary.Processed++
		switch outcome {
		case enrich.OutcomeFullyUpdated:
			summary.FullyUpdated++
		case enrich.OutcomePartiallyUpdated:
			summary.PartiallyUpdated++
		case enrich.OutcomeErrored:
			summary.Errored++
		}
		c.recordRow(ctx, run, *row, outcome)

		if summary.Processed%checkpointEvery == 0 {
			if err := c.Store.Save(ctx, rows); err != nil {
				saveErr := fmt.Errorf("checkpoint after %d processed rows: %w", summary.Processed, err)
				c.finishRun(ctx, run, summary, saveErr)
				return summary, saveErr
			}
			log.Info("Progress saved: %d videos processed", summary.Processed)
		}

		sleep(c.RowDelay)
	}

	// final checkpoint is unconditional, also after an interrupted loop;
	// the flush must not inherit the interrupt's cancellation
	flushCtx := context.WithoutCancel(ctx)
	if err := c.Store.Save(flushCtx, rows); err != nil {
		saveErr := fmt.Errorf("final save: %w", err)
		c.finishRun(flushCtx, run, summary, saveErr)
		return summary, saveErr
	}

	c.finishRun(flushCtx, run, summary, loopErr)
	if loopErr != nil {
		return summary, loopErr
	}

	log.Info("Process completed: %d processed, %d skipped, %d errored",
		summary.Processed, summary.Skipped, summary.Errored)
	return summary, nil
}

func (c *Controller) beginRun(ctx context.Context) *runlog.Run {
	if c.Journal == nil {
		return nil
	}
	run := &runlog.Run{
		ID:          uuid.NewString(),
		DatasetPath: c.DatasetPath,
		StartedAt:   time.Now().UTC(),
	}
	if err := c.Journal.BeginRun(ctx, run); err != nil {
		log.Warn("Failed to journal run start: %v", err)
		return nil
	}
	return run
}

func (c *Controller) finishRun(ctx context.Context, run *runlog.Run, summary Summary, runErr error) {
	if run == nil {
		return
	}
	run.FinishedAt = time.Now().UTC()
	run.Processed = summary.Processed
	run.Skipped = summary.Skipped
	run.PartiallyUpdated = summary.PartiallyUpdated
	run.FullyUpdated = summary.FullyUpdated
	run.Errored = summary.Errored
	if runErr != nil {
		run.Error = runErr.Error()
	}
	if err := c.Journal.FinishRun(ctx, run); err != nil {
		log.Warn("Failed to journal run finish: %v", err)
	}
}

func (c *Controller) recordRow(ctx context.Context, run *runlog.Run, row dataset.Row, outcome enrich.Outcome) {
	if run == nil {
		return
	}
	err := c.Journal.RecordRow(ctx, runlog.RowOutcome{
		RunID:     run.ID,
		URL:       row.URL,
		Outcome:   string(outcome),
		Error:     row.LastError,
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		log.Warn("Failed to journal row %s: %v", row.URL, err)
	}
}
