package queue

import (
	"regexp"
	"strings"
	"time"
)

var reWhitespace = regexp.MustCompile(`\s+`)

// DisplayName derives "<date>-<title>" from the call metadata, e.g.
// "2025-04-12T21-45-00-Weekly_sync". The date comes from TimeStart when set, else now.
func DisplayName(md CallMetadata, now time.Time) string {
	isoDate := now.UTC().Format("2006-01-02T15:04:05")
	if md.TimeStart != "" {
		isoDate = md.TimeStart
		if len(isoDate) > 19 {
			isoDate = isoDate[:19]
		}
	}
	safeDate := strings.ReplaceAll(isoDate, ":", "-")

	title := strings.TrimSpace(md.Title)
	if title == "" {
		title = "meeting"
	}
	title = reWhitespace.ReplaceAllString(title, "_")

	return safeDate + "-" + title
}
