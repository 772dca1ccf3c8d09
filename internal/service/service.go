// Package service runs the classifier for the outer layers: it enforces input
// limits, traces and measures each call, and optionally stores the result.
package service

import (
	"context"
	"fmt"
	"runtime"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/palemoky/chinese-genre-classifier/internal/classifier"
	"github.com/palemoky/chinese-genre-classifier/internal/database"
	apierrors "github.com/palemoky/chinese-genre-classifier/internal/errors"
	"github.com/palemoky/chinese-genre-classifier/internal/metrics"
)

const tracerName = "github.com/palemoky/chinese-genre-classifier/internal/service"

// Request sources recorded with stored analyses and metrics
const (
	SourceAPI    = "api"
	SourceCLI    = "cli"
	SourceLoader = "loader"
)

// Options configures a Service
type Options struct {
	Classifier     *classifier.Classifier      // required
	Repository     database.RepositoryInterface // nil disables persistence
	Metrics        *metrics.Metrics             // nil disables metrics
	TracerProvider trace.TracerProvider         // nil uses the global provider
	Logger         *zap.Logger
	MaxTextLength  int // runes; 0 means unlimited
	MaxBatchSize   int // 0 means unlimited
	Workers        int // batch concurrency; 0 means GOMAXPROCS
}

// ClassifyOptions qualifies a single classification call
type ClassifyOptions struct {
	Source        string
	Persist       bool
	Dataset       string
	ExpectedGenre classifier.Genre
}

// Result is one classified text
type Result struct {
	ID       int64                   `json:"id,string"`
	Analysis classifier.TextAnalysis `json:"analysis"`
	Form     *classifier.FormInfo    `json:"form,omitempty"`
	Record   *database.Analysis      `json:"-"`
	Elapsed  time.Duration           `json:"-"`
}

// Service classifies texts on behalf of the API, CLI and batch processor
type Service struct {
	classifier    *classifier.Classifier
	repo          database.RepositoryInterface
	metrics       *metrics.Metrics
	tracer        trace.Tracer
	log           *zap.Logger
	maxTextLength int
	maxBatchSize  int
	workers       int
}

// New creates a service
func New(opts Options) (*Service, error) {
	if opts.Classifier == nil {
		return nil, fmt.Errorf("service requires a classifier")
	}

	tp := opts.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	return &Service{
		classifier:    opts.Classifier,
		repo:          opts.Repository,
		metrics:       opts.Metrics,
		tracer:        tp.Tracer(tracerName),
		log:           log.Named("service"),
		maxTextLength: opts.MaxTextLength,
		maxBatchSize:  opts.MaxBatchSize,
		workers:       workers,
	}, nil
}

// Persists reports whether results can be stored
func (s *Service) Persists() bool {
	return s.repo != nil
}

// Classify checks the input limits, runs the classifier and, when requested and a
// repository is configured, stores the result
func (s *Service) Classify(ctx context.Context, text string, opts ClassifyOptions) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	length := utf8.RuneCountInString(text)
	if s.maxTextLength > 0 && length > s.maxTextLength {
		s.reject("text_too_long")
		return nil, apierrors.TextTooLong(length, s.maxTextLength)
	}

	ctx, span := s.tracer.Start(ctx, "classifier.classify",
		trace.WithAttributes(
			attribute.Int("text.length", length),
			attribute.String("request.source", opts.Source),
		),
	)
	defer span.End()

	start := time.Now()
	analysis := s.classifier.Classify(text)
	elapsed := time.Since(start)

	result := &Result{
		ID:       classifier.GenerateStableAnalysisID(text),
		Analysis: analysis,
		Elapsed:  elapsed,
	}
	if analysis.IsClassical() {
		form := classifier.DetectForm(analysis)
		result.Form = &form
	}

	span.SetAttributes(
		attribute.String("classifier.genre", analysis.Genre.String()),
		attribute.Int("classifier.phrase_count", analysis.PhraseCount()),
		attribute.Int("classifier.character_count", analysis.CharacterCount),
	)
	if s.metrics != nil {
		s.metrics.ObserveClassification(analysis.Genre.String(), opts.Source, analysis.CharacterCount, elapsed)
		if opts.ExpectedGenre != "" {
			s.metrics.ObserveEvaluation(opts.ExpectedGenre.String(), opts.ExpectedGenre == analysis.Genre)
		}
	}

	if opts.Persist && s.repo != nil {
		record, err := s.persist(ctx, analysis, opts)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "persist analysis")
			return nil, err
		}
		result.Record = record
	}

	s.log.Debug("classified",
		zap.Int64("id", result.ID),
		zap.String("genre", analysis.Genre.String()),
		zap.String("source", opts.Source),
		zap.Duration("elapsed", elapsed),
	)
	return result, nil
}

func (s *Service) persist(ctx context.Context, analysis classifier.TextAnalysis, opts ClassifyOptions) (*database.Analysis, error) {
	_, span := s.tracer.Start(ctx, "database.save_analysis")
	defer span.End()

	source := opts.Source
	if source == "" {
		source = SourceAPI
	}
	record, err := database.NewAnalysis(analysis, source)
	if err != nil {
		return nil, fmt.Errorf("failed to build analysis record: %w", err)
	}
	if opts.Dataset != "" {
		record.Dataset = &opts.Dataset
	}
	if opts.ExpectedGenre != "" {
		expected := opts.ExpectedGenre.String()
		record.ExpectedGenre = &expected
	}

	if err := s.repo.SaveAnalysis(record); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to store analysis: %w", err)
	}
	span.SetAttributes(attribute.Int("analysis.hit_count", record.HitCount))
	return record, nil
}

// ClassifyBatch classifies texts concurrently, returning results in input order.
// The whole batch fails on the first error.
func (s *Service) ClassifyBatch(ctx context.Context, texts []string, opts ClassifyOptions) ([]*Result, error) {
	if s.maxBatchSize > 0 && len(texts) > s.maxBatchSize {
		s.reject("batch_too_large")
		return nil, apierrors.BatchTooLarge(len(texts), s.maxBatchSize)
	}

	ctx, span := s.tracer.Start(ctx, "classifier.classify_batch",
		trace.WithAttributes(attribute.Int("batch.size", len(texts))),
	)
	defer span.End()

	results := make([]*Result, len(texts))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, text := range texts {
		g.Go(func() error {
			result, err := s.Classify(ctx, text, opts)
			if err != nil {
				return fmt.Errorf("text %d: %w", i, err)
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "batch failed")
		return nil, err
	}
	return results, nil
}

func (s *Service) reject(reason string) {
	if s.metrics != nil {
		s.metrics.ObserveRejection(reason)
	}
	s.log.Debug("rejected classification request", zap.String("reason", reason))
}
