package classifier

// Metadata is the title/author attribution found at the head of a text.
// Title and author fields are set together by the extractor; a line index of -1
// means the corresponding line was not present.
type Metadata struct {
	Title           string `json:"title,omitempty"`
	Author          string `json:"author,omitempty"`
	Dynasty         string `json:"dynasty,omitempty"`
	TitleLineIndex  int    `json:"title_line_index"`
	AuthorLineIndex int    `json:"author_line_index"`
}

// HasTitle reports whether a title line was matched
func (m *Metadata) HasTitle() bool {
	return m != nil && m.TitleLineIndex >= 0
}

// HasAuthor reports whether an attribution line was matched
func (m *Metadata) HasAuthor() bool {
	return m != nil && m.AuthorLineIndex >= 0
}

// PhraseInfo holds the structural statistics of the punctuation-delimited phrases
type PhraseInfo struct {
	Phrases         []string `json:"phrases"`
	AverageLength   float64  `json:"average_length"`
	MaxLength       int      `json:"max_length"`
	MinLength       int      `json:"min_length"`
	IsUniformLength bool     `json:"is_uniform_length"`
	ParallelRatio   float64  `json:"parallel_ratio"`
}

// Count returns the number of phrases
func (p PhraseInfo) Count() int {
	return len(p.Phrases)
}

// Lengths returns the filtered length of each phrase
func (p PhraseInfo) Lengths() []int {
	lengths := make([]int, len(p.Phrases))
	for i, phrase := range p.Phrases {
		lengths[i] = FilteredLength(phrase)
	}
	return lengths
}

// PunctuationInfo holds punctuation statistics
type PunctuationInfo struct {
	Count int     `json:"count"`
	Ratio float64 `json:"ratio"`
}

// IsEmpty reports whether the content has no punctuation at all
func (p PunctuationInfo) IsEmpty() bool {
	return p.Count == 0
}

// LinguisticInfo holds the classical and modern marker ratios.
// The two ratios are independent and need not sum to anything.
type LinguisticInfo struct {
	ClassicalRatio float64 `json:"classical_ratio"`
	ModernRatio    float64 `json:"modern_ratio"`
}

// TextAnalysis is the result of one classification call.
// Detectors see a copy; only the classifier assigns Genre.
type TextAnalysis struct {
	RawText         string          `json:"raw_text"`
	Content         string          `json:"content"`
	Lines           []string        `json:"lines"`
	CharacterCount  int             `json:"character_count"`
	Metadata        *Metadata       `json:"metadata,omitempty"`
	PhraseInfo      PhraseInfo      `json:"phrase_info"`
	PunctuationInfo PunctuationInfo `json:"punctuation_info"`
	LinguisticInfo  LinguisticInfo  `json:"linguistic_info"`
	Genre           Genre           `json:"genre"`
}

// PhraseCount returns the number of phrases in the analysis
func (a TextAnalysis) PhraseCount() int {
	return a.PhraseInfo.Count()
}

// IsClassical reports whether the text was classified as any classical genre
func (a TextAnalysis) IsClassical() bool {
	return a.Genre.IsClassical()
}
