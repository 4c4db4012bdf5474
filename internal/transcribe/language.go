package transcribe

import (
	"strings"

	"github.com/abadojack/whatlanggo"
	"golang.org/x/text/language"
)

// DetectLanguage guesses a transcript's language and returns its ISO 639-1
// base code (e.g. "en", "es"). Empty text and unreliable detections return
// "".
func DetectLanguage(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return ""
	}
	return normalizeLangCode(info.Lang.Iso6393())
}

// normalizeLangCode validates a language token and returns its normalized
// ISO 639-1 base code (e.g. "eng"→"en", "spa"→"es"). Returns "" if the
// token is not a recognized language code.
func normalizeLangCode(token string) string {
	if token == "" {
		return ""
	}
	tag, err := language.Parse(token)
	if err != nil {
		return ""
	}
	base, conf := tag.Base()
	if conf == language.No {
		return ""
	}
	return base.String()
}
