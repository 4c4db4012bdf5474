package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/stealth"

	"github.com/MimeLyc/tiktok-video-enricher/pkg/log"
)

const followersSelector = `[data-e2e="followers-count"]`

// FollowerCount opens the profile page in a fresh stealth tab and reads the
// followers counter. The wait for the counter element is bounded by
// Config.ElementTimeout.
func (s *Session) FollowerCount(ctx context.Context, username string) (int, error) {
	profileURL := fmt.Sprintf("https://www.tiktok.com/@%s", username)

	page, err := stealth.Page(s.browser)
	if err != nil {
		return 0, fmt.Errorf("open stealth page: %w", err)
	}
	defer page.Close()

	page = page.Context(ctx)
	if err := page.Navigate(profileURL); err != nil {
		return 0, fmt.Errorf("navigate %s: %w", profileURL, err)
	}
	if err := page.WaitLoad(); err != nil {
		log.Warn("Wait load timed out for %s: %v", profileURL, err)
	}
	if s.cfg.SettleDelay > 0 {
		time.Sleep(s.cfg.SettleDelay)
	}

	element, err := page.Timeout(s.cfg.ElementTimeout).Element(followersSelector)
	if err != nil {
		return 0, fmt.Errorf("followers element on %s: %w", profileURL, err)
	}
	text, err := element.Text()
	if err != nil {
		return 0, fmt.Errorf("followers text on %s: %w", profileURL, err)
	}

	return ParseCompactCount(text), nil
}
