package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/MimeLyc/tiktok-video-enricher/internal/batch"
	"github.com/MimeLyc/tiktok-video-enricher/internal/browser"
	"github.com/MimeLyc/tiktok-video-enricher/internal/config"
	"github.com/MimeLyc/tiktok-video-enricher/internal/dataset"
	"github.com/MimeLyc/tiktok-video-enricher/internal/enrich"
	"github.com/MimeLyc/tiktok-video-enricher/internal/media"
	"github.com/MimeLyc/tiktok-video-enricher/internal/runlog"
	"github.com/MimeLyc/tiktok-video-enricher/internal/transcribe"
	"github.com/MimeLyc/tiktok-video-enricher/pkg/log"
)

func main() {
	schedule := flag.Bool("schedule", false, "run batches on the CRON_EXPR schedule instead of once")
	status := flag.Int("status", 0, "print the N most recent runs and exit")
	flag.Parse()

	// .env is optional, real env vars win
	_ = godotenv.Load()

	cfg, err := config.NewFromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load configuration:", err)
		os.Exit(1)
	}
	log.InitLogger(log.ParseLevel(cfg.System.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *status > 0 {
		if err := printStatus(ctx, cfg, *status); err != nil {
			log.Error("Failed to read run journal: %v", err)
			os.Exit(1)
		}
		return
	}

	if *schedule {
		c := cron.New()
		svc := batch.NewService(cfg.System.CronExpr, c, func(ctx context.Context) (batch.Summary, error) {
			return runBatch(ctx, cfg)
		})
		if err := svc.Schedule(ctx); err != nil {
			log.Error("Failed to schedule batches: %v", err)
			os.Exit(1)
		}
		c.Start()
		<-ctx.Done()
		<-c.Stop().Done()
		return
	}

	summary, err := runBatch(ctx, cfg)
	if err != nil {
		log.Error("Batch failed: %v", err)
		os.Exit(1)
	}
	log.Info("Batch done: %d processed (%d full, %d partial, %d errored), %d skipped of %d rows",
		summary.Processed, summary.FullyUpdated, summary.PartiallyUpdated,
		summary.Errored, summary.Skipped, summary.Total)
}

// runBatch builds the per-batch collaborators, runs one enrichment pass and
// tears everything down again.
func runBatch(ctx context.Context, cfg *config.Config) (batch.Summary, error) {
	journal := openJournal(cfg)
	if journal != nil {
		defer journal.Close()
	}

	session, err := browser.NewSession(browser.Config{
		RemoteURL:      cfg.Browser.RemoteURL,
		UserAgent:      cfg.Browser.UserAgent,
		ElementTimeout: time.Duration(cfg.Browser.ElementTimeout) * time.Second,
		SettleDelay:    time.Duration(cfg.Browser.SettleDelay) * time.Second,
	})
	if err != nil {
		return batch.Summary{}, fmt.Errorf("start browser: %w", err)
	}
	defer session.Close()

	ytdlp := media.NewYtDlp(cfg.Media.YtDlpBin)
	audio, err := media.NewAudioCache(media.CacheConfig{
		VideoDir:  cfg.Media.VideoDir,
		AudioDir:  cfg.Media.AudioDir,
		FFmpegCmd: cfg.Media.FFmpegBin,
	}, ytdlp)
	if err != nil {
		return batch.Summary{}, fmt.Errorf("prepare work dirs: %w", err)
	}

	controller := &batch.Controller{
		Store: dataset.NewXLSXStore(cfg.Dataset.Path),
		Enricher: &enrich.Enricher{
			Profiles:       session,
			Videos:         ytdlp,
			Audio:          audio,
			Transcriber:    transcribe.NewWhisper(cfg.Transcribe.WhisperBin, cfg.Transcribe.WhisperModel, cfg.Media.AudioDir),
			DetectLanguage: transcribe.DetectLanguage,
		},
		Journal:         journal,
		DatasetPath:     cfg.Dataset.Path,
		CheckpointEvery: cfg.Dataset.CheckpointEvery,
		RowDelay:        time.Duration(cfg.Dataset.RowDelay) * time.Second,
	}
	return controller.Run(ctx)
}

// openJournal opens the run journal. The batch still runs without one.
func openJournal(cfg *config.Config) *runlog.Store {
	if err := os.MkdirAll(cfg.System.DataDir, 0o755); err != nil {
		log.Warn("Run journal disabled, cannot create %s: %v", cfg.System.DataDir, err)
		return nil
	}
	journal, err := runlog.NewStore(cfg.DBPath())
	if err != nil {
		log.Warn("Run journal disabled: %v", err)
		return nil
	}
	return journal
}

func printStatus(ctx context.Context, cfg *config.Config, limit int) error {
	journal, err := runlog.NewStore(cfg.DBPath())
	if err != nil {
		return err
	}
	defer journal.Close()

	runs, err := journal.RecentRuns(ctx, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet")
		return nil
	}
	for _, run := range runs {
		state := "running"
		if !run.FinishedAt.IsZero() {
			state = "finished " + run.FinishedAt.Format(time.RFC3339)
			if run.Error != "" {
				state = "failed: " + run.Error
			}
		}
		fmt.Printf("%s  started %s  %d processed  %d skipped  %d errored  %s\n",
			run.ID, run.StartedAt.Format(time.RFC3339),
			run.Processed, run.Skipped, run.Errored, state)
	}
	return nil
}
