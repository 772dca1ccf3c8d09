// Package classifier decides whether a Chinese text is classical poetry, lyrics,
// prose or plain modern text.
//
// The pipeline runs strictly forward: the text is split into lines, a title and
// attribution header is removed, punctuation, lexical markers and phrase structure
// are measured independently, and an ordered chain of detectors (poetry, lyrics,
// prose) assigns the genre. The first detector that matches wins; plain is the
// fallback. Every stage is a pure function of its input, so a Classifier can be
// shared between goroutines.
package classifier

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Options configures a Classifier
type Options struct {
	Thresholds         Thresholds
	ClassicalMarkers   MarkerSet
	ModernMarkers      MarkerSet
	MaxTitleLength     int
	ConvertTraditional bool
	Logger             *zap.Logger
}

// DefaultOptions returns the stock configuration
func DefaultOptions() Options {
	return Options{
		Thresholds:       DefaultThresholds(),
		ClassicalMarkers: DefaultClassicalMarkers,
		ModernMarkers:    DefaultModernMarkers,
		MaxTitleLength:   DefaultMaxTitleLength,
	}
}

// Classifier runs the genre pipeline. It holds no mutable state.
type Classifier struct {
	detectors          []Detector
	lexical            *LexicalAnalyzer
	metadata           *MetadataExtractor
	convertTraditional bool
	log                *zap.Logger
}

// New creates a classifier. Empty marker sets fall back to the defaults and a nil
// logger discards output.
func New(opts Options) (*Classifier, error) {
	if err := opts.Thresholds.Validate(); err != nil {
		return nil, fmt.Errorf("invalid thresholds: %w", err)
	}

	if opts.ClassicalMarkers.Len() == 0 {
		opts.ClassicalMarkers = DefaultClassicalMarkers
	}
	if opts.ModernMarkers.Len() == 0 {
		opts.ModernMarkers = DefaultModernMarkers
	}
	lexical, err := NewLexicalAnalyzer(opts.ClassicalMarkers, opts.ModernMarkers)
	if err != nil {
		return nil, fmt.Errorf("invalid marker sets: %w", err)
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Classifier{
		detectors:          DefaultDetectors(opts.Thresholds),
		lexical:            lexical,
		metadata:           NewMetadataExtractor(opts.MaxTitleLength),
		convertTraditional: opts.ConvertTraditional,
		log:                log.Named("classifier"),
	}, nil
}

var defaultClassifier = sync.OnceValue(func() *Classifier {
	c, err := New(DefaultOptions())
	if err != nil {
		panic(fmt.Sprintf("default classifier options are invalid: %v", err))
	}
	return c
})

// Classify classifies text with the default options
func Classify(text string) TextAnalysis {
	return defaultClassifier().Classify(text)
}

// Detectors returns the detector chain in evaluation order
func (c *Classifier) Detectors() []Detector {
	return slices.Clone(c.detectors)
}

// Classify runs the full pipeline and assigns the genre
func (c *Classifier) Classify(text string) TextAnalysis {
	analysis := c.Analyze(text)
	analysis.Genre = c.decide(analysis)

	c.log.Debug("classified text",
		zap.String("genre", analysis.Genre.String()),
		zap.Int("character_count", analysis.CharacterCount),
		zap.Int("phrase_count", analysis.PhraseCount()),
		zap.Float64("average_length", analysis.PhraseInfo.AverageLength),
		zap.Float64("parallel_ratio", analysis.PhraseInfo.ParallelRatio),
		zap.Float64("punctuation_ratio", analysis.PunctuationInfo.Ratio),
		zap.Float64("classical_ratio", analysis.LinguisticInfo.ClassicalRatio),
		zap.Float64("modern_ratio", analysis.LinguisticInfo.ModernRatio),
		zap.Bool("has_metadata", analysis.Metadata != nil),
	)
	return analysis
}

// Analyze extracts all features without assigning a genre (Genre stays Plain)
func (c *Classifier) Analyze(text string) TextAnalysis {
	normalized := NormalizeInput(text)
	meta, content := c.metadata.Extract(strings.Split(normalized, "\n"))

	analysis := TextAnalysis{
		RawText:    text,
		Content:    content,
		Lines:      SplitLines(content),
		Metadata:   meta,
		PhraseInfo: PhraseInfo{Phrases: []string{}, IsUniformLength: true},
		Genre:      GenrePlain,
	}

	if strings.TrimSpace(content) == "" {
		return analysis
	}

	analysis.CharacterCount = FilteredLength(content)
	analysis.PunctuationInfo = AnalyzePunctuation(content)
	analysis.PhraseInfo = AnalyzePhrases(content)

	lexicalInput := content
	if c.convertTraditional {
		lexicalInput = foldToSimplified(content)
	}
	analysis.LinguisticInfo = c.lexical.Analyze(lexicalInput)

	return analysis
}

// decide walks the detector chain; the first match wins
func (c *Classifier) decide(a TextAnalysis) Genre {
	if a.CharacterCount == 0 || !ContainsHan(a.Content) {
		c.log.Debug("no Chinese content, defaulting to plain", zap.Int("character_count", a.CharacterCount))
		return GenrePlain
	}

	for _, d := range c.detectors {
		if d.Detect(a, c.log) {
			return d.Genre()
		}
	}
	return GenrePlain
}
