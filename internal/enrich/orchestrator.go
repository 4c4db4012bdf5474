package enrich

import (
	"context"
	"fmt"

	"github.com/MimeLyc/tiktok-video-enricher/internal/dataset"
	"github.com/MimeLyc/tiktok-video-enricher/pkg/log"
)

// Enricher fills the missing field groups of a single row, in the fixed
// order identity -> profile stats -> video metadata -> transcript.
//
// Profile-stats and video-metadata failures degrade to their defaults and
// are only logged; identity and transcript failures are surfaced into the
// row's LastError. No failure propagates past Process, so one bad row never
// aborts a batch.
type Enricher struct {
	Profiles    ProfileStatsFetcher
	Videos      VideoInfoFetcher
	Audio       AudioMaterializer
	Transcriber Transcriber

	// DetectLanguage tags fresh transcripts with a language code.
	// Optional; empty results are not stored.
	DetectLanguage func(text string) string
}

// Process mutates row in place and reports the row's terminal state for
// this run. Already-present field groups are left untouched, and partial
// progress is kept when a later step fails.
func (e *Enricher) Process(ctx context.Context, row *dataset.Row) Outcome {
	missing := dataset.Missing(*row)
	if len(missing) == 0 {
		return OutcomeSkipped
	}

	needs := make(map[dataset.FieldGroup]bool, len(missing))
	for _, group := range missing {
		needs[group] = true
	}

	var rowErr error

	if needs[dataset.GroupIdentity] {
		username, err := ExtractUsername(row.URL)
		if err != nil {
			log.Error("Failed to derive username for %s: %v", row.URL, err)
			rowErr = err
		} else {
			row.Username = username
		}
	}

	if needs[dataset.GroupProfileStats] {
		if row.Username == "" {
			// follower lookup needs a handle; nothing to fetch with
			log.Warn("No username for %s, skipping follower lookup", row.URL)
		} else {
			followers, err := e.Profiles.FollowerCount(ctx, row.Username)
			if err != nil {
				log.Error("Failed to get followers for %s: %v", row.Username, err)
				followers = 0
			}
			row.Followers = followers
		}
	}

	if needs[dataset.GroupVideoMetadata] {
		info, err := e.Videos.VideoInfo(ctx, row.URL)
		if err != nil {
			log.Error("Failed to get video information for %s: %v", row.URL, err)
			info = VideoInfo{}
		}
		row.Likes = info.Likes
		row.Views = info.Views
		row.Description = info.Description
		row.PublishDate = info.PublishDate
	}

	if needs[dataset.GroupTranscript] {
		text, err := e.transcribe(ctx, row.URL)
		if err != nil {
			log.Error("Failed to transcribe %s: %v", row.URL, err)
			if rowErr == nil {
				rowErr = err
			}
		} else {
			row.Transcript = text
			if e.DetectLanguage != nil {
				if lang := e.DetectLanguage(text); lang != "" {
					row.TranscriptLang = lang
				}
			}
		}
	}

	if rowErr != nil {
		row.LastError = rowErr.Error()
		return OutcomeErrored
	}

	row.LastError = ""
	if dataset.Complete(*row) {
		return OutcomeFullyUpdated
	}
	return OutcomePartiallyUpdated
}

// transcribe materializes the transient audio artifact, runs it through the
// transcriber and removes the artifact on every exit path.
func (e *Enricher) transcribe(ctx context.Context, url string) (string, error) {
	audioPath, err := e.Audio.Materialize(ctx, url)
	if err != nil {
		return "", fmt.Errorf("materialize audio: %w", err)
	}
	defer func() {
		if err := e.Audio.Remove(url); err != nil {
			log.Warn("Failed to remove audio artifact for %s: %v", url, err)
		}
	}()

	return e.Transcriber.Transcribe(ctx, audioPath)
}
