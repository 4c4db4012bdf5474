package browser

import (
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Config configures the automation session.
type Config struct {
	// RemoteURL is the WebSocket URL of an external Chrome instance.
	// Empty = launch a local headless Chrome via launcher.
	RemoteURL string

	// UserAgent overrides the browser user agent.
	UserAgent string

	// ElementTimeout bounds the wait for the followers counter element.
	// Default: 10s.
	ElementTimeout time.Duration

	// SettleDelay is the pause after navigation before querying the page,
	// giving client-side rendering a chance to finish.
	SettleDelay time.Duration
}

func (c *Config) defaults() {
	if c.UserAgent == "" {
		c.UserAgent = defaultUserAgent
	}
	if c.ElementTimeout <= 0 {
		c.ElementTimeout = 10 * time.Second
	}
}

// Session owns one browser for the lifetime of a batch. It is not safe for
// concurrent use; the batch controller is its only caller.
type Session struct {
	cfg     Config
	browser *rod.Browser
	lnch    *launcher.Launcher
}

// NewSession launches Chrome (or connects to RemoteURL) and returns the
// ready session. Callers must Close it, also when the batch fails.
func NewSession(cfg Config) (*Session, error) {
	cfg.defaults()
	s := &Session{cfg: cfg}

	if cfg.RemoteURL != "" {
		s.browser = rod.New().ControlURL(cfg.RemoteURL)
	} else {
		l := launcher.New().
			Headless(true).
			NoSandbox(true).
			Set("disable-dev-shm-usage").
			Set("disable-blink-features", "AutomationControlled").
			Set("user-agent", cfg.UserAgent)
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("launch browser: %w", err)
		}
		s.lnch = l
		s.browser = rod.New().ControlURL(u)
	}

	if err := s.browser.Connect(); err != nil {
		if s.lnch != nil {
			s.lnch.Cleanup()
		}
		return nil, fmt.Errorf("connect browser: %w", err)
	}
	return s, nil
}

// Close shuts down the browser and the launched Chrome process.
func (s *Session) Close() {
	if s.browser != nil {
		_ = s.browser.Close()
	}
	if s.lnch != nil {
		s.lnch.Cleanup()
	}
}
