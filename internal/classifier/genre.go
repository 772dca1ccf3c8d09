package classifier

import "strings"

// Genre is the four-way classification label of a text
type Genre string

const (
	GenrePlain  Genre = "plain"
	GenrePoetry Genre = "poetry"
	GenreLyrics Genre = "lyrics"
	GenreProse  Genre = "prose"
)

// AllGenres lists every genre in detector order, Plain last
var AllGenres = []Genre{GenrePoetry, GenreLyrics, GenreProse, GenrePlain}

// IsValid reports whether g is one of the known genres
func (g Genre) IsValid() bool {
	switch g {
	case GenrePlain, GenrePoetry, GenreLyrics, GenreProse:
		return true
	}
	return false
}

// IsClassical reports whether g is one of the classical genres
func (g Genre) IsClassical() bool {
	return g == GenrePoetry || g == GenreLyrics || g == GenreProse
}

// DisplayName returns the Chinese name of the genre
func (g Genre) DisplayName() string {
	switch g {
	case GenrePoetry:
		return "古诗"
	case GenreLyrics:
		return "古词"
	case GenreProse:
		return "古文"
	default:
		return "白话"
	}
}

func (g Genre) String() string {
	return string(g)
}

// ParseGenre parses a genre name, accepting English and Chinese spellings.
// Returns false for unknown names.
func ParseGenre(s string) (Genre, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "poetry", "poem", "shi", "诗", "古诗", "唐诗":
		return GenrePoetry, true
	case "lyrics", "lyric", "ci", "词", "古词", "宋词":
		return GenreLyrics, true
	case "prose", "wenyan", "文", "古文", "文言文":
		return GenreProse, true
	case "plain", "modern", "白话", "现代文":
		return GenrePlain, true
	}
	return GenrePlain, false
}
