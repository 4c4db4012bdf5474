package enrich

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MimeLyc/tiktok-video-enricher/internal/dataset"
)

type fakeProfiles struct {
	calls     int
	followers int
	err       error
}

func (f *fakeProfiles) FollowerCount(ctx context.Context, username string) (int, error) {
	f.calls++
	return f.followers, f.err
}

type fakeVideos struct {
	calls int
	info  VideoInfo
	err   error
}

func (f *fakeVideos) VideoInfo(ctx context.Context, url string) (VideoInfo, error) {
	f.calls++
	return f.info, f.err
}

type fakeAudio struct {
	materializeCalls int
	removeCalls      int
	err              error
	artifactLive     bool
}

func (f *fakeAudio) Materialize(ctx context.Context, url string) (string, error) {
	f.materializeCalls++
	if f.err != nil {
		return "", f.err
	}
	f.artifactLive = true
	return "/work/audio_1.mp3", nil
}

func (f *fakeAudio) Remove(url string) error {
	f.removeCalls++
	f.artifactLive = false
	return nil
}

type fakeTranscriber struct {
	calls int
	text  string
	err   error
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	f.calls++
	return f.text, f.err
}

type fixture struct {
	profiles    *fakeProfiles
	videos      *fakeVideos
	audio       *fakeAudio
	transcriber *fakeTranscriber
	enricher    *Enricher
}

func newFixture() *fixture {
	f := &fixture{
		profiles:    &fakeProfiles{followers: 12300},
		videos:      &fakeVideos{info: VideoInfo{Likes: 10, Views: 200, Description: "d", PublishDate: "2026-01-02"}},
		audio:       &fakeAudio{},
		transcriber: &fakeTranscriber{text: "spoken words"},
	}
	f.enricher = &Enricher{
		Profiles:    f.profiles,
		Videos:      f.videos,
		Audio:       f.audio,
		Transcriber: f.transcriber,
	}
	return f
}

func fullRow() dataset.Row {
	return dataset.Row{
		URL:         "https://www.tiktok.com/@creator/video/1",
		Username:    "creator",
		Followers:   500,
		Likes:       1,
		Views:       2,
		Description: "d",
		PublishDate: "2026-01-01",
		Transcript:  "t",
	}
}

func TestProcessFullRowMakesNoCalls(t *testing.T) {
	f := newFixture()
	row := fullRow()

	outcome := f.enricher.Process(context.Background(), &row)

	assert.Equal(t, OutcomeSkipped, outcome)
	assert.Zero(t, f.profiles.calls)
	assert.Zero(t, f.videos.calls)
	assert.Zero(t, f.audio.materializeCalls)
	assert.Zero(t, f.transcriber.calls)
}

func TestProcessEmptyRowFullyUpdates(t *testing.T) {
	f := newFixture()
	row := dataset.Row{URL: "https://www.tiktok.com/@creator/video/1"}

	outcome := f.enricher.Process(context.Background(), &row)

	assert.Equal(t, OutcomeFullyUpdated, outcome)
	assert.Equal(t, "creator", row.Username)
	assert.Equal(t, 12300, row.Followers)
	assert.Equal(t, 10, row.Likes)
	assert.Equal(t, 200, row.Views)
	assert.Equal(t, "spoken words", row.Transcript)
	assert.Empty(t, row.LastError)
}

func TestProcessSecondRunIsIdempotent(t *testing.T) {
	f := newFixture()
	row := dataset.Row{URL: "https://www.tiktok.com/@creator/video/1"}

	require.Equal(t, OutcomeFullyUpdated, f.enricher.Process(context.Background(), &row))
	firstCalls := f.profiles.calls + f.videos.calls + f.audio.materializeCalls + f.transcriber.calls

	require.Equal(t, OutcomeSkipped, f.enricher.Process(context.Background(), &row))
	secondCalls := f.profiles.calls + f.videos.calls + f.audio.materializeCalls + f.transcriber.calls

	assert.Equal(t, firstCalls, secondCalls)
}

func TestProcessProfileStatsDegradesToZero(t *testing.T) {
	f := newFixture()
	f.profiles.err = errors.New("followers element timeout")

	row := fullRow()
	row.Followers = 0

	outcome := f.enricher.Process(context.Background(), &row)

	// degraded, not errored: follower count is exactly 0 and LastError stays empty
	assert.Equal(t, OutcomePartiallyUpdated, outcome)
	assert.Zero(t, row.Followers)
	assert.Empty(t, row.LastError)
}

func TestProcessVideoMetadataDegradesToDefaults(t *testing.T) {
	f := newFixture()
	f.videos.err = errors.New("yt-dlp exit status 1")

	row := fullRow()
	row.Likes = 0
	row.Transcript = ""

	outcome := f.enricher.Process(context.Background(), &row)

	assert.Equal(t, OutcomePartiallyUpdated, outcome)
	assert.Zero(t, row.Likes)
	assert.Zero(t, row.Views)
	assert.Empty(t, row.Description)
	assert.Empty(t, row.PublishDate)
	assert.Empty(t, row.LastError)
	// metadata absence alone must not block transcription
	assert.Equal(t, 1, f.transcriber.calls)
	assert.Equal(t, "spoken words", row.Transcript)
}

func TestProcessTranscriptionErrorKeepsEarlierFields(t *testing.T) {
	f := newFixture()
	f.transcriber.err = errors.New("whisper: decode failed")

	row := dataset.Row{URL: "https://www.tiktok.com/@creator/video/1"}

	outcome := f.enricher.Process(context.Background(), &row)

	assert.Equal(t, OutcomeErrored, outcome)
	// no rollback of steps that already succeeded in the same run
	assert.Equal(t, "creator", row.Username)
	assert.Equal(t, 12300, row.Followers)
	assert.Equal(t, 10, row.Likes)
	assert.Empty(t, row.Transcript)
	assert.Contains(t, row.LastError, "whisper: decode failed")
}

func TestProcessArtifactRemovedOnSuccessAndFailure(t *testing.T) {
	f := newFixture()
	row := dataset.Row{URL: "https://www.tiktok.com/@creator/video/1"}
	f.enricher.Process(context.Background(), &row)
	assert.Equal(t, 1, f.audio.removeCalls)
	assert.False(t, f.audio.artifactLive)

	f = newFixture()
	f.transcriber.err = errors.New("boom")
	row = dataset.Row{URL: "https://www.tiktok.com/@creator/video/1"}
	f.enricher.Process(context.Background(), &row)
	assert.Equal(t, 1, f.audio.removeCalls)
	assert.False(t, f.audio.artifactLive)
}

func TestProcessMaterializeErrorSurfaces(t *testing.T) {
	f := newFixture()
	f.audio.err = errors.New("yt-dlp: video unavailable")

	row := fullRow()
	row.Transcript = ""

	outcome := f.enricher.Process(context.Background(), &row)

	assert.Equal(t, OutcomeErrored, outcome)
	assert.Contains(t, row.LastError, "video unavailable")
	assert.Zero(t, f.transcriber.calls)
	// nothing materialized, nothing to clean up
	assert.Zero(t, f.audio.removeCalls)
}

func TestProcessIdentityErrorSkipsFollowerLookup(t *testing.T) {
	f := newFixture()
	row := dataset.Row{URL: "https://example.com/not-a-tiktok-link"}

	outcome := f.enricher.Process(context.Background(), &row)

	assert.Equal(t, OutcomeErrored, outcome)
	assert.Contains(t, row.LastError, "could not extract username")
	assert.Zero(t, f.profiles.calls)
	// metadata and transcript do not depend on the handle
	assert.Equal(t, 1, f.videos.calls)
	assert.Equal(t, 1, f.transcriber.calls)
}

func TestProcessTranscriptOnlyRowMakesOneFetch(t *testing.T) {
	f := newFixture()
	row := fullRow()
	row.Transcript = ""

	outcome := f.enricher.Process(context.Background(), &row)

	assert.Equal(t, OutcomeFullyUpdated, outcome)
	assert.Zero(t, f.profiles.calls)
	assert.Zero(t, f.videos.calls)
	assert.Equal(t, 1, f.audio.materializeCalls)
	assert.Equal(t, 1, f.transcriber.calls)
}

func TestProcessDetectsTranscriptLanguage(t *testing.T) {
	f := newFixture()
	f.enricher.DetectLanguage = func(text string) string {
		require.Equal(t, "spoken words", text)
		return "en"
	}

	row := fullRow()
	row.Transcript = ""

	f.enricher.Process(context.Background(), &row)
	assert.Equal(t, "en", row.TranscriptLang)
}

func TestProcessClearsStaleError(t *testing.T) {
	f := newFixture()
	row := fullRow()
	row.Transcript = ""
	row.LastError = "whisper: decode failed"

	outcome := f.enricher.Process(context.Background(), &row)

	assert.Equal(t, OutcomeFullyUpdated, outcome)
	assert.Empty(t, row.LastError)
}
