package enrich

import "context"

// VideoInfo carries the video-metadata group fetched for one video.
type VideoInfo struct {
	Likes       int
	Views       int
	Description string
	PublishDate string
}

// ProfileStatsFetcher looks up the follower count of a profile.
type ProfileStatsFetcher interface {
	FollowerCount(ctx context.Context, username string) (int, error)
}

// VideoInfoFetcher looks up like/view counts, description and publish date
// for a video URL.
type VideoInfoFetcher interface {
	VideoInfo(ctx context.Context, url string) (VideoInfo, error)
}

// AudioMaterializer produces a local audio artifact for a video URL,
// reusing a previously materialized one when present, and removes it again
// after the consuming step.
type AudioMaterializer interface {
	Materialize(ctx context.Context, url string) (string, error)
	Remove(url string) error
}

// Transcriber turns a local audio file into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// Outcome is the terminal state of one row for one run.
type Outcome string

const (
	OutcomeSkipped          Outcome = "skipped"
	OutcomePartiallyUpdated Outcome = "partially_updated"
	OutcomeFullyUpdated     Outcome = "fully_updated"
	OutcomeErrored          Outcome = "errored"
)
