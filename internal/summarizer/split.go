package summarizer

import "strings"

// splitText cuts text into ordered, non-overlapping segments of about size runes.
// From each target cut point it looks up to slack runes ahead for a sentence
// terminator and cuts just after it; without one it cuts at the target point.
func splitText(text string, size, slack int) []string {
	runes := []rune(text)
	if len(runes) <= size {
		return []string{text}
	}

	var segments []string
	start := 0
	for start < len(runes) {
		end := start + size
		if end >= len(runes) {
			end = len(runes)
		} else {
			end = sentenceEnd(runes, end, slack)
		}

		if seg := strings.TrimSpace(string(runes[start:end])); seg != "" {
			segments = append(segments, seg)
		}
		start = end
	}

	return segments
}

func sentenceEnd(runes []rune, target, slack int) int {
	limit := target + slack
	if limit > len(runes) {
		limit = len(runes)
	}
	for i := target; i < limit; i++ {
		if isTerminator(runes[i]) {
			return i + 1
		}
	}
	return target
}

func isTerminator(r rune) bool {
	switch r {
	case '.', '!', '?', '\n', '。', '！', '？':
		return true
	}
	return false
}
