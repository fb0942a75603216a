// Package timeline stitches per-chunk transcript segments into one session-wide timeline.
package timeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/nguyentantai21042004/meeting-scribe/internal/queue"
)

// Build shifts every chunk's segments by a running offset. The offset advances by the
// end time of each chunk's last segment, so gaps between chunks are not represented.
func Build(chunks []queue.Chunk) []queue.Segment {
	var (
		out    []queue.Segment
		offset float64
	)

	for _, c := range chunks {
		if len(c.Segments) == 0 {
			continue
		}
		for _, seg := range c.Segments {
			out = append(out, queue.Segment{
				Start: seg.Start + offset,
				End:   seg.End + offset,
				Text:  seg.Text,
			})
		}
		offset += c.Segments[len(c.Segments)-1].End
	}

	return out
}

// Render formats segments as "[HH:MM:SS - HH:MM:SS] text" lines.
func Render(segments []queue.Segment) string {
	lines := make([]string, len(segments))
	for i, s := range segments {
		lines[i] = fmt.Sprintf("[%s - %s] %s", FormatTimestamp(s.Start), FormatTimestamp(s.End), strings.TrimSpace(s.Text))
	}
	return strings.Join(lines, "\n")
}

// FormatTimestamp renders seconds as HH:MM:SS, truncating sub-second precision.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	d := time.Duration(seconds * float64(time.Second))
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
