package classifier

import (
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"
)

// Structure constraints of regular classical poems
const (
	WuyanChars = 5
	QiyanChars = 7
)

// PoetryThresholds tune the regular-verse detector
type PoetryThresholds struct {
	MinCharacters     int     `mapstructure:"min_characters"`
	MinPhrases        int     `mapstructure:"min_phrases"`
	StandardLengths   []int   `mapstructure:"standard_lengths"`
	ProperPhraseCount int     `mapstructure:"proper_phrase_count"`
	StrongParallel    float64 `mapstructure:"strong_parallel"`
}

// LyricsThresholds tune the irregular-line lyric detector
type LyricsThresholds struct {
	MinPhrases         int     `mapstructure:"min_phrases"`
	MinDistinctLengths int     `mapstructure:"min_distinct_lengths"`
	MinLength          int     `mapstructure:"min_length"`
	MaxLength          int     `mapstructure:"max_length"`
	MinAverage         float64 `mapstructure:"min_average"`
	MaxAverage         float64 `mapstructure:"max_average"`
	MinParallel        float64 `mapstructure:"min_parallel"`
	MinClassicalRatio  float64 `mapstructure:"min_classical_ratio"` // exclusive
	MaxClassicalRatio  float64 `mapstructure:"max_classical_ratio"`
	MaxModernRatio     float64 `mapstructure:"max_modern_ratio"`
	// Share of four-character phrases allowed when the title names no tune
	MaxFourCharShare   float64 `mapstructure:"max_four_char_share"`
}

// ProseThresholds tune the classical prose detector
type ProseThresholds struct {
	ShortAverage   float64 `mapstructure:"short_average"`
	ShortMax       int     `mapstructure:"short_max"`
	ManyPhrases    int     `mapstructure:"many_phrases"`
	LongAverage    float64 `mapstructure:"long_average"`
	LowModernRatio float64 `mapstructure:"low_modern_ratio"`
}

// Thresholds groups the tunables of every detector
type Thresholds struct {
	Poetry PoetryThresholds `mapstructure:"poetry"`
	Lyrics LyricsThresholds `mapstructure:"lyrics"`
	Prose  ProseThresholds  `mapstructure:"prose"`
}

// DefaultThresholds returns the stock detector configuration
func DefaultThresholds() Thresholds {
	return Thresholds{
		Poetry: PoetryThresholds{
			MinCharacters:     10,
			MinPhrases:        2,
			StandardLengths:   []int{WuyanChars, QiyanChars},
			ProperPhraseCount: 4,
			StrongParallel:    0.7,
		},
		Lyrics: LyricsThresholds{
			MinPhrases:         6,
			MinDistinctLengths: 2,
			MinLength:          2,
			MaxLength:          11,
			MinAverage:         3,
			MaxAverage:         8,
			MinParallel:        0.4,
			MinClassicalRatio:  0,
			MaxClassicalRatio:  0.1,
			MaxModernRatio:     0.03,
			MaxFourCharShare:   0.25,
		},
		Prose: ProseThresholds{
			ShortAverage:   5,
			ShortMax:       8,
			ManyPhrases:    8,
			LongAverage:    9,
			LowModernRatio: 0.03,
		},
	}
}

// Validate checks that thresholds are usable
func (t Thresholds) Validate() error {
	var errs []error

	if len(t.Poetry.StandardLengths) == 0 {
		errs = append(errs, errors.New("poetry standard_lengths must not be empty"))
	}
	if t.Poetry.ProperPhraseCount < 1 {
		errs = append(errs, errors.New("poetry proper_phrase_count must be positive"))
	}
	if !isRatio(t.Poetry.StrongParallel) {
		errs = append(errs, fmt.Errorf("poetry strong_parallel out of range: %v", t.Poetry.StrongParallel))
	}

	if t.Lyrics.MinLength > t.Lyrics.MaxLength {
		errs = append(errs, fmt.Errorf("lyrics min_length %d exceeds max_length %d", t.Lyrics.MinLength, t.Lyrics.MaxLength))
	}
	if t.Lyrics.MinClassicalRatio >= t.Lyrics.MaxClassicalRatio {
		errs = append(errs, fmt.Errorf("lyrics min_classical_ratio %v must be below max_classical_ratio %v", t.Lyrics.MinClassicalRatio, t.Lyrics.MaxClassicalRatio))
	}
	if t.Lyrics.MinAverage > t.Lyrics.MaxAverage {
		errs = append(errs, fmt.Errorf("lyrics min_average %v exceeds max_average %v", t.Lyrics.MinAverage, t.Lyrics.MaxAverage))
	}
	for name, v := range map[string]float64{
		"lyrics min_parallel":        t.Lyrics.MinParallel,
		"lyrics min_classical_ratio": t.Lyrics.MinClassicalRatio,
		"lyrics max_classical_ratio": t.Lyrics.MaxClassicalRatio,
		"lyrics max_modern_ratio":    t.Lyrics.MaxModernRatio,
		"lyrics max_four_char_share": t.Lyrics.MaxFourCharShare,
		"prose low_modern_ratio":     t.Prose.LowModernRatio,
	} {
		if !isRatio(v) {
			errs = append(errs, fmt.Errorf("%s out of range: %v", name, v))
		}
	}

	return errors.Join(errs...)
}

func isRatio(v float64) bool {
	return v >= 0 && v <= 1
}

// Detector is one step of the ordered classification chain
type Detector interface {
	Name() string
	Genre() Genre
	Detect(a TextAnalysis, log *zap.Logger) bool
}

// PoetryDetector recognizes regular five- and seven-character verse
type PoetryDetector struct {
	T PoetryThresholds
}

func (PoetryDetector) Name() string { return "poetry" }
func (PoetryDetector) Genre() Genre { return GenrePoetry }

// Detect reports whether every phrase has a standard length and the phrases are
// either uniform and numerous enough or strongly parallel
func (d PoetryDetector) Detect(a TextAnalysis, log *zap.Logger) bool {
	count := a.PhraseCount()
	if a.CharacterCount < d.T.MinCharacters && count < d.T.MinPhrases {
		log.Debug("poetry detector: text too short",
			zap.Int("character_count", a.CharacterCount),
			zap.Int("phrase_count", count),
		)
		return false
	}

	hasStandardLength := count > 0
	for _, n := range a.PhraseInfo.Lengths() {
		if !slices.Contains(d.T.StandardLengths, n) {
			hasStandardLength = false
			break
		}
	}
	hasUniformLength := a.PhraseInfo.IsUniformLength
	hasProperPhraseCount := count >= d.T.ProperPhraseCount
	hasStrongParallel := a.PhraseInfo.ParallelRatio >= d.T.StrongParallel

	matched := hasStandardLength && ((hasUniformLength && hasProperPhraseCount) || hasStrongParallel)

	log.Debug("poetry detector",
		zap.Bool("has_standard_length", hasStandardLength),
		zap.Bool("has_uniform_length", hasUniformLength),
		zap.Bool("has_proper_phrase_count", hasProperPhraseCount),
		zap.Bool("has_strong_parallel", hasStrongParallel),
		zap.Float64("parallel_ratio", a.PhraseInfo.ParallelRatio),
		zap.Bool("matched", matched),
	)
	return matched
}

// LyricsDetector recognizes tune-pattern lyrics: many lines of varying but
// bounded length with light classical wording, and either a tune title or a
// rhythm not dominated by the four-character phrases of classical prose
type LyricsDetector struct {
	T LyricsThresholds
}

func (LyricsDetector) Name() string { return "lyrics" }
func (LyricsDetector) Genre() Genre { return GenreLyrics }

// Detect reports whether the phrase structure fits an irregular lyric form
func (d LyricsDetector) Detect(a TextAnalysis, log *zap.Logger) bool {
	info := a.PhraseInfo
	count := info.Count()

	hasEnoughPhrases := count >= d.T.MinPhrases
	isIrregular := distinctCount(info.Lengths()) >= d.T.MinDistinctLengths
	isBounded := count > 0 && info.MinLength >= d.T.MinLength && info.MaxLength <= d.T.MaxLength
	hasLyricAverage := info.AverageLength >= d.T.MinAverage && info.AverageLength <= d.T.MaxAverage
	hasParallel := info.ParallelRatio >= d.T.MinParallel
	// Lyrics use some classical wording but far fewer particles than prose
	classical := a.LinguisticInfo.ClassicalRatio
	isClassical := classical > d.T.MinClassicalRatio && classical <= d.T.MaxClassicalRatio
	isLowModern := a.LinguisticInfo.ModernRatio <= d.T.MaxModernRatio

	tune := ""
	if a.Metadata.HasTitle() {
		tune = TuneOf(a.Metadata.Title)
	}
	fourCharShare := lengthShare(info.Lengths(), 4)
	hasLyricRhythm := tune != "" || fourCharShare <= d.T.MaxFourCharShare

	matched := hasEnoughPhrases && isIrregular && isBounded && hasLyricAverage &&
		hasParallel && isClassical && isLowModern && hasLyricRhythm

	log.Debug("lyrics detector",
		zap.Bool("has_enough_phrases", hasEnoughPhrases),
		zap.Bool("is_irregular", isIrregular),
		zap.Bool("is_bounded", isBounded),
		zap.Bool("has_lyric_average", hasLyricAverage),
		zap.Bool("has_parallel", hasParallel),
		zap.Bool("is_classical", isClassical),
		zap.Float64("classical_ratio", classical),
		zap.Bool("is_low_modern", isLowModern),
		zap.String("tune", tune),
		zap.Float64("four_char_share", fourCharShare),
		zap.Bool("has_lyric_rhythm", hasLyricRhythm),
		zap.Bool("matched", matched),
	)
	return matched
}

// ProseDetector recognizes classical prose: short clauses free of modern
// particles, or many mid-length clauses with almost none
type ProseDetector struct {
	T ProseThresholds
}

func (ProseDetector) Name() string { return "prose" }
func (ProseDetector) Genre() Genre { return GenreProse }

// Detect reports whether either prose rule holds
func (d ProseDetector) Detect(a TextAnalysis, log *zap.Logger) bool {
	info := a.PhraseInfo
	modern := a.LinguisticInfo.ModernRatio

	hasShortPhrases := info.AverageLength < d.T.ShortAverage && info.MaxLength < d.T.ShortMax && modern == 0
	hasManyPhrases := info.Count() >= d.T.ManyPhrases && info.AverageLength < d.T.LongAverage
	hasLowModernRatio := modern <= d.T.LowModernRatio

	matched := hasShortPhrases || (hasManyPhrases && hasLowModernRatio)

	log.Debug("prose detector",
		zap.Bool("has_short_phrases", hasShortPhrases),
		zap.Bool("has_many_phrases", hasManyPhrases),
		zap.Bool("has_low_modern_ratio", hasLowModernRatio),
		zap.Float64("average_length", info.AverageLength),
		zap.Float64("modern_ratio", modern),
		zap.Bool("matched", matched),
	)
	return matched
}

// DefaultDetectors builds the chain in its fixed order: poetry, lyrics, prose.
// Lyrics must precede prose or lyric text falls through to prose.
func DefaultDetectors(t Thresholds) []Detector {
	return []Detector{
		PoetryDetector{T: t.Poetry},
		LyricsDetector{T: t.Lyrics},
		ProseDetector{T: t.Prose},
	}
}
