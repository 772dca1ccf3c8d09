package classifier

import (
	"strings"

	"github.com/mozillazg/go-pinyin"
)

// romanize converts the Han characters of text with the given pinyin style.
// Non-Han runes are skipped by go-pinyin.
func romanize(text string, style int, sep string) string {
	if text == "" {
		return ""
	}

	args := pinyin.NewArgs()
	args.Style = style
	args.Heteronym = false

	var parts []string
	for _, item := range pinyin.Pinyin(text, args) {
		if len(item) > 0 {
			parts = append(parts, item[0])
		}
	}

	return strings.Join(parts, sep)
}

// ToPinyin converts Chinese text to pinyin with tone marks
func ToPinyin(text string) string {
	return romanize(text, pinyin.Tone, " ")
}

// ToPinyinNoTone converts Chinese text to pinyin without tone marks
func ToPinyinNoTone(text string) string {
	return romanize(text, pinyin.Normal, " ")
}

// ToPinyinAbbr converts Chinese text to pinyin initials, e.g. 静夜思 → jys
func ToPinyinAbbr(text string) string {
	return romanize(text, pinyin.FirstLetter, "")
}
