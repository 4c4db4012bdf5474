package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MimeLyc/tiktok-video-enricher/pkg/file"
	"github.com/MimeLyc/tiktok-video-enricher/pkg/log"
)

// CacheConfig configures the audio work area.
type CacheConfig struct {
	VideoDir  string
	AudioDir  string
	FFmpegCmd string
}

// AudioCache materializes per-video audio artifacts in a local work area.
// Artifacts are keyed by the URL's trailing video id, so an artifact left
// by an interrupted run is reused instead of downloaded again.
type AudioCache struct {
	cfg   CacheConfig
	ytdlp *YtDlp
}

func NewAudioCache(cfg CacheConfig, ytdlp *YtDlp) (*AudioCache, error) {
	for _, dir := range []string{cfg.VideoDir, cfg.AudioDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create work dir %s: %w", dir, err)
		}
	}
	return &AudioCache{cfg: cfg, ytdlp: ytdlp}, nil
}

// VideoID returns the idempotency key for a URL: its trailing path segment,
// with any query or fragment stripped.
func VideoID(url string) string {
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url = url[:i]
	}
	url = strings.TrimRight(url, "/")
	if i := strings.LastIndex(url, "/"); i >= 0 {
		return url[i+1:]
	}
	return url
}

// ArtifactPath names the audio artifact for a URL without touching disk.
func (c *AudioCache) ArtifactPath(url string) string {
	return filepath.Join(c.cfg.AudioDir, fmt.Sprintf("audio_%s.mp3", VideoID(url)))
}

// Materialize returns a local mp3 for the video, reusing an existing
// artifact when present. The intermediate video download is removed once
// the audio has been extracted.
func (c *AudioCache) Materialize(ctx context.Context, url string) (string, error) {
	audioPath := c.ArtifactPath(url)
	if file.Exists(audioPath) {
		log.Info("Audio artifact already exists for %s", VideoID(url))
		return audioPath, nil
	}

	videoPath := filepath.Join(c.cfg.VideoDir, VideoID(url)+".mp4")
	if err := c.ytdlp.Download(ctx, url, videoPath); err != nil {
		return "", fmt.Errorf("download video: %w", err)
	}
	defer os.Remove(videoPath)

	if err := newFfmpeg(c.cfg.FFmpegCmd, videoPath).ExtractAudio(ctx, audioPath); err != nil {
		os.Remove(audioPath)
		return "", fmt.Errorf("extract audio: %w", err)
	}
	return audioPath, nil
}

// Remove deletes the artifact for a URL. A missing artifact is not an
// error.
func (c *AudioCache) Remove(url string) error {
	err := os.Remove(c.ArtifactPath(url))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
