package classifier

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n", "\u2028", "\n", "\u2029", "\n")

// NormalizeText trims text, applies NFC and collapses runs of whitespace into a single space
func NormalizeText(text string) string {
	text = norm.NFC.String(strings.TrimSpace(text))
	return strings.Join(strings.Fields(text), " ")
}

// NormalizeTextArray normalizes every string and drops the ones left empty
func NormalizeTextArray(texts []string) []string {
	result := make([]string, 0, len(texts))
	for _, text := range texts {
		if normalized := NormalizeText(text); normalized != "" {
			result = append(result, normalized)
		}
	}
	return result
}

// NormalizeInput prepares raw input for the pipeline: line endings become \n,
// the text is NFC-normalized and each line has its trailing spaces removed.
// Line structure, including empty lines, is preserved.
func NormalizeInput(text string) string {
	text = norm.NFC.String(lineEndings.Replace(text))

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRightFunc(line, unicode.IsSpace)
	}
	return strings.Join(lines, "\n")
}

// TrimAllWhitespace removes all whitespace characters from text
func TrimAllWhitespace(text string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text)
}

// ContainsHan reports whether text has at least one Han character
func ContainsHan(text string) bool {
	for _, r := range text {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}

// isHanOnly reports whether text is non-empty and made only of Han characters
func isHanOnly(text string) bool {
	if text == "" {
		return false
	}
	for _, r := range text {
		if !unicode.Is(unicode.Han, r) {
			return false
		}
	}
	return true
}
