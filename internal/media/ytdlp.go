package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/MimeLyc/tiktok-video-enricher/internal/enrich"
)

const ytdlpTimeout = 2 * time.Minute

// YtDlp wraps the local yt-dlp binary for metadata probes and downloads.
type YtDlp struct {
	binaryPath string
}

func NewYtDlp(binaryPath string) *YtDlp {
	if binaryPath == "" {
		binaryPath = "yt-dlp"
	}
	return &YtDlp{binaryPath: binaryPath}
}

// VideoInfo probes the video's metadata without downloading it. The publish
// date is normalized to an ISO calendar date, or left empty when yt-dlp
// reports no timestamp.
func (d *YtDlp) VideoInfo(ctx context.Context, url string) (enrich.VideoInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, ytdlpTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, d.binaryPath,
		"--dump-json", "--no-warnings", "--skip-download", url)

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return enrich.VideoInfo{}, fmt.Errorf("yt-dlp probe: %w, stderr: %s",
			err, strings.TrimSpace(stderr.String()))
	}

	var payload struct {
		LikeCount   int    `json:"like_count"`
		ViewCount   int    `json:"view_count"`
		Description string `json:"description"`
		Timestamp   int64  `json:"timestamp"`
		UploadDate  string `json:"upload_date"`
	}
	if err := json.Unmarshal(out.Bytes(), &payload); err != nil {
		return enrich.VideoInfo{}, fmt.Errorf("parse yt-dlp output: %w", err)
	}

	return enrich.VideoInfo{
		Likes:       payload.LikeCount,
		Views:       payload.ViewCount,
		Description: payload.Description,
		PublishDate: publishDate(payload.Timestamp, payload.UploadDate),
	}, nil
}

// Download fetches the best available video+audio into toPath.
func (d *YtDlp) Download(ctx context.Context, url, toPath string) error {
	ctx, cancel := context.WithTimeout(ctx, ytdlpTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, d.binaryPath,
		"-f", "bestvideo+bestaudio/best",
		"-o", toPath,
		"--no-warnings", "--quiet",
		url)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("yt-dlp download: %w, stderr: %s",
			err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

func publishDate(timestamp int64, uploadDate string) string {
	if timestamp > 0 {
		return time.Unix(timestamp, 0).UTC().Format("2006-01-02")
	}
	// yt-dlp sometimes reports only upload_date as YYYYMMDD
	if t, err := time.Parse("20060102", uploadDate); err == nil {
		return t.Format("2006-01-02")
	}
	return ""
}
