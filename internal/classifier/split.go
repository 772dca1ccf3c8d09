package classifier

import "strings"

// FullStop is the fallback separator for single-line input
const FullStop = "。"

// DefaultLineSeparators splits on newlines only
var DefaultLineSeparators = []string{"\n"}

// DefaultPhraseSeparators are the clause delimiters used for phrase segmentation
var DefaultPhraseSeparators = []string{
	"，", "。", "；", "！", "？", "、", "：",
	",", ";", "!", "?",
	"\n",
}

// SplitLines splits text by each separator in turn, re-splitting every piece by the
// next separator. When the result holds exactly one non-empty element (typical of
// OCR output without line breaks) that element is re-split on the full stop.
//
// Empty input yields a single empty string.
func SplitLines(text string, separators ...string) []string {
	if len(separators) == 0 {
		separators = DefaultLineSeparators
	}

	parts := compoundSplit(text, separators)

	nonEmpty := -1
	for i, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		if nonEmpty >= 0 {
			return parts
		}
		nonEmpty = i
	}

	if nonEmpty < 0 {
		return parts
	}

	single := parts[nonEmpty]
	if !strings.Contains(single, FullStop) {
		return parts
	}

	var lines []string
	for _, line := range strings.Split(single, FullStop) {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// SplitIntoPhrases splits text on every separator (default CJK and ASCII clause
// punctuation) and trims each phrase. With omitEmpty, zero-length phrases are dropped.
func SplitIntoPhrases(text string, omitEmpty bool, separators ...string) []string {
	if len(separators) == 0 {
		separators = DefaultPhraseSeparators
	}

	parts := compoundSplit(text, separators)

	phrases := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if omitEmpty && part == "" {
			continue
		}
		phrases = append(phrases, part)
	}
	return phrases
}

// compoundSplit applies each separator to the output of the previous one
func compoundSplit(text string, separators []string) []string {
	parts := []string{text}
	for _, sep := range separators {
		if sep == "" {
			continue
		}
		next := make([]string, 0, len(parts))
		for _, part := range parts {
			next = append(next, strings.Split(part, sep)...)
		}
		parts = next
	}
	return parts
}
