package classifier

import (
	"strings"
	"unicode"
)

// extraPunctuation holds symbols that unicode.IsPunct misses but that act as
// punctuation in CJK text
var extraPunctuation = map[rune]struct{}{
	'～': {}, '~': {}, '｜': {}, '|': {}, '＋': {}, '＝': {}, '￥': {},
	'｀': {}, '`': {}, '＾': {}, '^': {}, '〓': {}, '※': {}, '○': {},
	'□': {}, '■': {}, '◆': {}, '●': {}, '★': {}, '☆': {},
}

// sentencePunctuation ends or breaks a clause; titles never contain it
const sentencePunctuation = "，。！？；,!?;"

// IsPunctuation reports whether r is punctuation, full-width or ASCII
func IsPunctuation(r rune) bool {
	if unicode.IsPunct(r) {
		return true
	}
	_, ok := extraPunctuation[r]
	return ok
}

// isFiltered reports whether r is excluded from character counts
func isFiltered(r rune) bool {
	return unicode.IsSpace(r) || IsPunctuation(r)
}

// FilteredLength counts the runes of text that are neither whitespace nor punctuation
func FilteredLength(text string) int {
	n := 0
	for _, r := range text {
		if !isFiltered(r) {
			n++
		}
	}
	return n
}

// CountPunctuation counts the punctuation runes in text
func CountPunctuation(text string) int {
	n := 0
	for _, r := range text {
		if IsPunctuation(r) {
			n++
		}
	}
	return n
}

// removePunctuation removes all punctuation from text and trims it
func removePunctuation(text string) string {
	result := strings.Map(func(r rune) rune {
		if IsPunctuation(r) {
			return -1
		}
		return r
	}, text)

	return strings.TrimSpace(result)
}

// hasSentencePunctuation reports whether text contains clause-breaking punctuation
func hasSentencePunctuation(text string) bool {
	return strings.ContainsAny(text, sentencePunctuation)
}

// AnalyzePunctuation computes punctuation count and ratio over content.
// The ratio denominator is punctuation plus counted characters, whitespace excluded.
func AnalyzePunctuation(content string) PunctuationInfo {
	content = strings.TrimSpace(content)

	count := CountPunctuation(content)
	if count == 0 {
		return PunctuationInfo{}
	}

	total := count + FilteredLength(content)

	return PunctuationInfo{
		Count: count,
		Ratio: safeRatio(count, total),
	}
}

// safeRatio divides and returns 0 for a zero denominator
func safeRatio(num, den int) float64 {
	if den <= 0 {
		return 0
	}
	return float64(num) / float64(den)
}
