package media

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

type ffmpeg struct {
	ffmpegCmd string
	filePath  string
}

func newFfmpeg(ffmpegCmd, mediaPath string) ffmpeg {
	if ffmpegCmd == "" {
		ffmpegCmd = "ffmpeg"
	}
	return ffmpeg{
		ffmpegCmd: ffmpegCmd,
		filePath:  filepath.Clean(mediaPath),
	}
}

// ExtractAudio transcodes the media file's audio track to an mp3 at
// targetPath.
func (ff ffmpeg) ExtractAudio(ctx context.Context, targetPath string) error {
	cmdPath, err := exec.LookPath(ff.ffmpegCmd)
	if err != nil {
		return err
	}
	cmd := exec.CommandContext(ctx, cmdPath, ff.extractAudioArgs(targetPath)...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg: %w, stderr: %s",
			err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

func (ff ffmpeg) extractAudioArgs(targetPath string) []string {
	return []string{
		"-y",
		"-i", ff.filePath,
		"-vn",
		"-ar", "44100",
		"-ac", "2",
		"-ab", "192k",
		"-f", "mp3",
		targetPath,
	}
}
