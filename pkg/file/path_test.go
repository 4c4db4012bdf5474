package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplaceExt(t *testing.T) {
	tests := []struct {
		name string
		path string
		ext  string
		want string
	}{
		{name: "simple", path: "audio_123.mp3", ext: ".txt", want: "audio_123.txt"},
		{name: "ext without dot", path: "audio_123.mp3", ext: "txt", want: "audio_123.txt"},
		{name: "nested dir", path: filepath.Join("work", "audio.mp3"), ext: ".wav", want: filepath.Join("work", "audio.wav")},
		{name: "no extension", path: "audio", ext: ".txt", want: "audio.txt"},
		{name: "dotted name", path: "clip.v2.mp4", ext: ".mp3", want: "clip.v2.mp3"},
		{name: "empty path", path: "", ext: ".txt", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReplaceExt(tt.path, tt.ext))
		})
	}
}

func TestExists(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "present.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	assert.True(t, Exists(path))
	assert.True(t, Exists(tmp))
	assert.False(t, Exists(filepath.Join(tmp, "absent.txt")))
}
