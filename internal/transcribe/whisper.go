package transcribe

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/MimeLyc/tiktok-video-enricher/pkg/file"
	"github.com/MimeLyc/tiktok-video-enricher/pkg/log"
)

// Whisper shells out to the whisper CLI. The first transcription resolves
// the binary; the resolved path (or the lookup failure) is memoized for the
// process lifetime. The CLI itself loads its model anew on every
// invocation.
type Whisper struct {
	binary    string
	model     string
	outputDir string

	once    sync.Once
	cmdPath string
	initErr error
}

func NewWhisper(binary, model, outputDir string) *Whisper {
	if binary == "" {
		binary = "whisper"
	}
	if model == "" {
		model = "medium"
	}
	return &Whisper{
		binary:    binary,
		model:     model,
		outputDir: outputDir,
	}
}

func (w *Whisper) warmUp() error {
	w.once.Do(func() {
		cmdPath, err := exec.LookPath(w.binary)
		if err != nil {
			w.initErr = err
			return
		}
		w.cmdPath = cmdPath
		log.Debug("Resolved whisper binary at %s", cmdPath)
	})
	return w.initErr
}

// Transcribe runs the audio file through whisper and returns the spoken
// text. The transcript lives in the dataset afterwards, so the sidecar txt
// file whisper writes is removed again.
func (w *Whisper) Transcribe(ctx context.Context, audioPath string) (string, error) {
	if err := w.warmUp(); err != nil {
		return "", fmt.Errorf("whisper unavailable: %w", err)
	}

	outDir := w.outputDir
	if outDir == "" {
		outDir = filepath.Dir(audioPath)
	}

	log.Info("Transcribing %s with Whisper model %s", filepath.Base(audioPath), w.model)

	cmd := exec.CommandContext(ctx, w.cmdPath, audioPath,
		"--model", w.model,
		"--output_format", "txt",
		"--output_dir", outDir)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("whisper: %w, stderr: %s",
			err, strings.TrimSpace(stderr.String()))
	}

	txtPath := filepath.Join(outDir, file.ReplaceExt(filepath.Base(audioPath), ".txt"))
	content, err := os.ReadFile(txtPath)
	if err != nil {
		return "", fmt.Errorf("read transcript %s: %w", txtPath, err)
	}
	os.Remove(txtPath)

	return strings.TrimSpace(string(content)), nil
}
