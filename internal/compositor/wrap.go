package compositor

import (
	"strings"

	"golang.org/x/image/font"
)

// wrapText breaks text into display lines whose measured advance stays within
// maxWidth pixels, packing words greedily in order. A line that measures
// exactly maxWidth is accepted. A single word wider than maxWidth stays alone
// on its own line, unbroken; content is never truncated or reordered.
func wrapText(text string, maxWidth int, face font.Face) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	lines := make([]string, 0, 4)
	current := words[0]
	for _, word := range words[1:] {
		candidate := current + " " + word
		if font.MeasureString(face, candidate).Ceil() <= maxWidth {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = word
	}
	return append(lines, current)
}
