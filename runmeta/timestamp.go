package runmeta

import (
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/carbocation/pfx"
)

// CanonicalTimeLayout is the timestamp format used in metadata and run
// directory names.
const CanonicalTimeLayout = "2006-01-02 15:04:05"

// Instrument exports annotate timestamps with meridiem and timezone
// abbreviations that defeat parsing; they are stripped wholesale before the
// parse attempt.
var timezoneTokens = regexp.MustCompile(`(?i)\b(AM|PM|EDT|PST|CST|EST|UTC)\b`)

// timeNow is swapped out in tests that exercise the wall-clock fallback.
var timeNow = time.Now

// CleanTimestamp removes meridiem/timezone tokens from a raw timestamp cell
// and collapses the surrounding whitespace.
func CleanTimestamp(raw string) string {
	cleaned := timezoneTokens.ReplaceAllString(raw, "")
	return strings.Join(strings.Fields(cleaned), " ")
}

// ParseCanonical cleans a raw timestamp cell and reformats it as
// CanonicalTimeLayout.
func ParseCanonical(raw string) (string, error) {
	t, err := dateparse.ParseAny(CleanTimestamp(raw))
	if err != nil {
		return "", pfx.Err(err)
	}
	return t.Format(CanonicalTimeLayout), nil
}
