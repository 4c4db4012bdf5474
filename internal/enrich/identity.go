package enrich

import (
	"fmt"
	"regexp"
	"strings"
)

// Patterns tried in order; the first match wins.
var usernamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`@([\w.]+)`),
	regexp.MustCompile(`tiktok\.com/(@[\w.]+)`),
	regexp.MustCompile(`video/(@[\w.]+)`),
}

// IdentityError reports that no username pattern matched a video URL.
type IdentityError struct {
	URL string
}

func (e *IdentityError) Error() string {
	return fmt.Sprintf("could not extract username from: %s", e.URL)
}

// ExtractUsername derives the owner handle from a video URL. The returned
// handle has no leading @.
func ExtractUsername(url string) (string, error) {
	for _, pattern := range usernamePatterns {
		if m := pattern.FindStringSubmatch(url); m != nil {
			return strings.TrimPrefix(m[1], "@"), nil
		}
	}
	return "", &IdentityError{URL: url}
}
