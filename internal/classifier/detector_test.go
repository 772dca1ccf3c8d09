package classifier

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// analysisWithLengths builds an analysis whose phrases have the given lengths
func analysisWithLengths(classical, modern float64, lengths ...int) TextAnalysis {
	phrases := make([]string, len(lengths))
	for i, n := range lengths {
		phrases[i] = strings.Repeat("字", n)
	}
	content := strings.Join(phrases, "，")

	return TextAnalysis{
		Content:        content,
		CharacterCount: FilteredLength(content),
		PhraseInfo:     AnalyzePhrases(content),
		LinguisticInfo: LinguisticInfo{ClassicalRatio: classical, ModernRatio: modern},
	}
}

func TestPoetryDetector(t *testing.T) {
	d := PoetryDetector{T: DefaultThresholds().Poetry}

	tests := []struct {
		name     string
		analysis TextAnalysis
		want     bool
	}{
		{name: "uniform quatrain", analysis: analysisWithLengths(0, 0, 5, 5, 5, 5), want: true},
		{name: "seven character couplet", analysis: analysisWithLengths(0, 0, 7, 7), want: true},
		{name: "three uniform lines by parallelism", analysis: analysisWithLengths(0, 0, 5, 5, 5), want: true},
		{name: "alternating five and seven", analysis: analysisWithLengths(0, 0, 5, 7, 5, 7), want: true},
		{name: "six character lines", analysis: analysisWithLengths(0, 0, 6, 6, 6, 6), want: false},
		{name: "one odd line", analysis: analysisWithLengths(0, 0, 5, 5, 5, 4), want: false},
		{name: "too short", analysis: analysisWithLengths(0, 0, 5), want: false},
		{name: "no phrases", analysis: TextAnalysis{CharacterCount: 12}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, d.Detect(tt.analysis, zap.NewNop()))
		})
	}
}

func TestLyricsDetector(t *testing.T) {
	d := LyricsDetector{T: DefaultThresholds().Lyrics}
	ruMengLing := []int{6, 6, 5, 6, 2, 2, 6}
	prose := []int{4, 7, 3, 5, 5, 5, 4, 4, 4, 5, 3, 4} // 桃花源记 opening

	tests := []struct {
		name     string
		analysis TextAnalysis
		want     bool
	}{
		{name: "irregular lyric", analysis: analysisWithLengths(0.06, 0, ruMengLing...), want: true},
		{name: "no classical markers", analysis: analysisWithLengths(0, 0, ruMengLing...), want: false},
		{name: "particle heavy", analysis: analysisWithLengths(0.3, 0, ruMengLing...), want: false},
		{name: "modern wording", analysis: analysisWithLengths(0.06, 0.05, ruMengLing...), want: false},
		{name: "too few phrases", analysis: analysisWithLengths(0.06, 0, 6, 5, 6, 2, 6), want: false},
		{name: "uniform lengths", analysis: analysisWithLengths(0.06, 0, 6, 6, 6, 6, 6, 6), want: false},
		{name: "overlong phrase", analysis: analysisWithLengths(0.06, 0, 6, 6, 5, 6, 12, 6), want: false},
		{name: "single character phrase", analysis: analysisWithLengths(0.06, 0, 6, 6, 1, 6, 5, 6), want: false},
		{name: "four character prose rhythm", analysis: analysisWithLengths(0.06, 0, prose...), want: false},
		{name: "four character rhythm under a tune title", analysis: withTitle(analysisWithLengths(0.06, 0, prose...), "念奴娇·赤壁怀古"), want: true},
		{name: "four character rhythm under a bare tune title", analysis: withTitle(analysisWithLengths(0.06, 0, prose...), "声声慢"), want: true},
		{name: "four character rhythm under a prose title", analysis: withTitle(analysisWithLengths(0.06, 0, prose...), "桃花源记"), want: false},
		{name: "empty", analysis: TextAnalysis{}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, d.Detect(tt.analysis, zap.NewNop()))
		})
	}
}

func withTitle(a TextAnalysis, title string) TextAnalysis {
	a.Metadata = &Metadata{Title: title, TitleLineIndex: 0, AuthorLineIndex: -1}
	return a
}

func TestProseDetector(t *testing.T) {
	d := ProseDetector{T: DefaultThresholds().Prose}

	tests := []struct {
		name     string
		analysis TextAnalysis
		want     bool
	}{
		{name: "short clauses", analysis: analysisWithLengths(0, 0, 4, 4, 4, 7, 5), want: true},
		{name: "short clauses with modern markers", analysis: analysisWithLengths(0, 0.01, 4, 4, 4, 7, 5), want: false},
		{name: "short average but long clause", analysis: analysisWithLengths(0, 0, 2, 2, 2, 9), want: false},
		{name: "many mid-length clauses", analysis: analysisWithLengths(0.1, 0.02, 8, 8, 8, 8, 8, 8, 8, 8), want: true},
		{name: "many long clauses", analysis: analysisWithLengths(0.1, 0, 10, 10, 10, 10, 10, 10, 10, 10), want: false},
		{name: "many clauses modern", analysis: analysisWithLengths(0, 0.05, 8, 8, 8, 8, 8, 8, 8, 8), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, d.Detect(tt.analysis, zap.NewNop()))
		})
	}
}

func TestDefaultDetectorsOrder(t *testing.T) {
	detectors := DefaultDetectors(DefaultThresholds())
	require.Len(t, detectors, 3)

	names := make([]string, len(detectors))
	genres := make([]Genre, len(detectors))
	for i, d := range detectors {
		names[i] = d.Name()
		genres[i] = d.Genre()
	}
	assert.Equal(t, []string{"poetry", "lyrics", "prose"}, names)
	assert.Equal(t, []Genre{GenrePoetry, GenreLyrics, GenreProse}, genres)
}

func TestThresholdsValidate(t *testing.T) {
	require.NoError(t, DefaultThresholds().Validate())

	t.Run("collects every problem", func(t *testing.T) {
		th := DefaultThresholds()
		th.Poetry.StandardLengths = nil
		th.Lyrics.MinLength = 20
		th.Lyrics.MaxModernRatio = 1.5

		err := th.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "standard_lengths")
		assert.Contains(t, err.Error(), "min_length")
		assert.Contains(t, err.Error(), "max_modern_ratio")
	})

	t.Run("inverted classical band", func(t *testing.T) {
		th := DefaultThresholds()
		th.Lyrics.MaxClassicalRatio = 0

		err := th.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_classical_ratio")
	})

	t.Run("inverted average band", func(t *testing.T) {
		th := DefaultThresholds()
		th.Lyrics.MinAverage = 10

		assert.Error(t, th.Validate())
	})
}
