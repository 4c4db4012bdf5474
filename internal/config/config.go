package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/MimeLyc/tiktok-video-enricher/pkg/log"
)

// Config holds all application configuration
// Includes dataset, browser, media tooling and scheduling configuration
// Supports environment variables with sensible defaults
//
// Environment Variables:
// Dataset Configuration:
// - DATASET_PATH: Path to the xlsx dataset (required)
// - CHECKPOINT_EVERY: Processed rows between dataset flushes (default: 5)
// - ROW_DELAY: Pacing pause in seconds after each processed row (default: 2)
//
// Browser Configuration:
// - BROWSER_REMOTE_URL: Attach to a running browser instead of launching one (optional)
// - BROWSER_USER_AGENT: User agent for profile page loads (optional)
// - PROFILE_WAIT_TIMEOUT: Seconds to wait for the follower count element (default: 10)
// - PROFILE_SETTLE_DELAY: Seconds to let a profile page settle after load (default: 5)
//
// Media Configuration:
// - VIDEO_DIR: Working directory for downloaded videos (default: videos)
// - AUDIO_DIR: Working directory for extracted audio (default: audios)
// - YTDLP_BIN: yt-dlp binary (default: yt-dlp)
// - FFMPEG_BIN: ffmpeg binary (default: ffmpeg)
//
// Transcription Configuration:
// - WHISPER_BIN: whisper binary (default: whisper)
// - WHISPER_MODEL: whisper model name (default: medium)
//
// System Configuration:
// - DATA_DIR: Directory for the run journal database (default: data)
// - LOG_LEVEL: debug, info, warn or error (default: info)
// - CRON_EXPR: Schedule for -schedule mode (default: 0 0 * * *)

type Config struct {
	// Dataset Configuration
	Dataset DatasetConfig `json:"dataset"`

	// Browser Configuration
	Browser BrowserConfig `json:"browser"`

	// Media Configuration
	Media MediaConfig `json:"media"`

	// Transcription Configuration
	Transcribe TranscribeConfig `json:"transcribe"`

	// System Configuration
	System SystemConfig `json:"system"`
}

// DatasetConfig holds the configuration for the dataset store and pacing
type DatasetConfig struct {
	Path            string `json:"path"`
	CheckpointEvery int    `json:"checkpoint_every"`
	RowDelay        int    `json:"row_delay"` // seconds
}

// BrowserConfig holds the configuration for the profile page browser
type BrowserConfig struct {
	RemoteURL      string `json:"remote_url"`
	UserAgent      string `json:"user_agent"`
	ElementTimeout int    `json:"element_timeout"` // seconds
	SettleDelay    int    `json:"settle_delay"`    // seconds
}

// MediaConfig holds the configuration for video download and audio extraction
type MediaConfig struct {
	VideoDir  string `json:"video_dir"`
	AudioDir  string `json:"audio_dir"`
	YtDlpBin  string `json:"ytdlp_bin"`
	FFmpegBin string `json:"ffmpeg_bin"`
}

// TranscribeConfig holds the configuration for the whisper wrapper
type TranscribeConfig struct {
	WhisperBin   string `json:"whisper_bin"`
	WhisperModel string `json:"whisper_model"`
}

// SystemConfig holds the system configuration
type SystemConfig struct {
	DataDir  string `json:"data_dir"`
	LogLevel string `json:"log_level"`
	CronExpr string `json:"cron_expr"`
}

// DBPath returns the path of the run journal database
func (c *Config) DBPath() string {
	return filepath.Join(c.System.DataDir, "enricher.db")
}

// Option is a function type for configuring Config
type Option func(*Config)

// NewFromEnv creates a new Config instance with values from environment variables and options
func NewFromEnv(opts ...Option) (*Config, error) {
	config := &Config{
		Dataset: DatasetConfig{
			Path:            getEnvString("DATASET_PATH", ""),
			CheckpointEvery: getEnvInt("CHECKPOINT_EVERY", 5),
			RowDelay:        getEnvInt("ROW_DELAY", 2),
		},
		Browser: BrowserConfig{
			RemoteURL:      getEnvString("BROWSER_REMOTE_URL", ""),
			UserAgent:      getEnvString("BROWSER_USER_AGENT", ""),
			ElementTimeout: getEnvInt("PROFILE_WAIT_TIMEOUT", 10),
			SettleDelay:    getEnvInt("PROFILE_SETTLE_DELAY", 5),
		},
		Media: MediaConfig{
			VideoDir:  getEnvString("VIDEO_DIR", "videos"),
			AudioDir:  getEnvString("AUDIO_DIR", "audios"),
			YtDlpBin:  getEnvString("YTDLP_BIN", "yt-dlp"),
			FFmpegBin: getEnvString("FFMPEG_BIN", "ffmpeg"),
		},
		Transcribe: TranscribeConfig{
			WhisperBin:   getEnvString("WHISPER_BIN", "whisper"),
			WhisperModel: getEnvString("WHISPER_MODEL", "medium"),
		},
		System: SystemConfig{
			DataDir:  getEnvString("DATA_DIR", "data"),
			LogLevel: getEnvString("LOG_LEVEL", "info"),
			CronExpr: getEnvString("CRON_EXPR", "0 0 * * *"),
		},
	}

	log.Debug("Config: %v", config)

	// Apply custom options
	for _, opt := range opts {
		opt(config)
	}

	// Validate required configuration
	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// validate checks if all required configuration is properly set
func (c *Config) validate() error {
	if c.Dataset.Path == "" {
		return fmt.Errorf("DATASET_PATH is required")
	}
	if c.Dataset.CheckpointEvery <= 0 {
		return fmt.Errorf("CHECKPOINT_EVERY must be positive, got %d", c.Dataset.CheckpointEvery)
	}
	return nil
}

// getEnvString gets a string value from environment variables with default
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer value from environment variables with default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
