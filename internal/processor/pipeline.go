// Package processor classifies loaded corpora concurrently, stores the results in
// batches and aggregates an evaluation report.
package processor

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"go.uber.org/zap"

	"github.com/palemoky/chinese-genre-classifier/internal/classifier"
	"github.com/palemoky/chinese-genre-classifier/internal/database"
	"github.com/palemoky/chinese-genre-classifier/internal/loader"
	"github.com/palemoky/chinese-genre-classifier/internal/metrics"
)

const (
	// Dynamic batch sizing thresholds (percentage of channel capacity)
	channelPressureHigh   = 0.8 // 80% full - reduce batch size
	channelPressureMedium = 0.5 // 50% full - normal batch size
	channelPressureLow    = 0.2 // 20% full - increase batch size

	// Error reporting limits
	MaxErrorsToCollect = 100 // Maximum number of errors to collect
	SampleErrorCount   = 5   // Number of sample errors to log

	sourceLoader = "loader"
)

// getOptimalConfig returns optimal configuration based on system resources
func getOptimalConfig() (workBuffer, resultBuffer, defaultBatch, minBatch, maxBatch int) {
	cpuCount := runtime.NumCPU()

	// Adaptive configuration based on CPU count
	// Low-end (CI): 2 cores  → conservative settings
	// Mid-range:    4-8 cores → balanced settings
	// High-end:     10+ cores → aggressive settings

	switch {
	case cpuCount <= 2:
		return 50, 1000, 200, 50, 300

	case cpuCount <= 4:
		return 75, 2000, 300, 100, 500

	case cpuCount <= 8:
		return 100, 3000, 400, 150, 700

	default:
		return 300, 5000, 500, 200, 1000
	}
}

// Options configures a Processor
type Options struct {
	Classifier *classifier.Classifier       // nil uses the default classifier
	Repository database.RepositoryInterface // nil classifies without storing
	Metrics    *metrics.Metrics             // optional
	Workers    int                          // 0 means runtime.NumCPU()
	BatchSize  int                          // 0 picks a size from the CPU count
	Progress   io.Writer                    // nil disables the progress bar
	Logger     *zap.Logger
}

// Processor handles concurrent corpus classification
type Processor struct {
	classifier   *classifier.Classifier
	repo         database.RepositoryInterface
	metrics      *metrics.Metrics
	workers      int
	batchSize    int // Base batch size for database insertion
	minBatchSize int // Minimum batch size (for high pressure)
	maxBatchSize int // Maximum batch size (for low pressure)
	progress     io.Writer
	log          *zap.Logger
}

// NewProcessor creates a new processor
func NewProcessor(opts Options) (*Processor, error) {
	c := opts.Classifier
	if c == nil {
		var err error
		if c, err = classifier.New(classifier.DefaultOptions()); err != nil {
			return nil, err
		}
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	// Get optimal configuration based on system resources
	_, _, defaultBatch, minBatch, maxBatch := getOptimalConfig()

	p := &Processor{
		classifier:   c,
		repo:         opts.Repository,
		metrics:      opts.Metrics,
		workers:      workers,
		batchSize:    defaultBatch,
		minBatchSize: minBatch,
		maxBatchSize: maxBatch,
		progress:     opts.Progress,
		log:          opts.Logger,
	}
	if p.log == nil {
		p.log = zap.NewNop()
	}
	p.log = p.log.Named("processor")
	p.SetBatchSize(opts.BatchSize)

	return p, nil
}

// SetBatchSize sets the batch size for database insertion
func (p *Processor) SetBatchSize(size int) {
	if size <= 0 {
		return
	}
	p.batchSize = size
	p.minBatchSize = min(p.minBatchSize, size)
	p.maxBatchSize = max(p.maxBatchSize, size)
}

// classified is one worker result on its way to the batch inserter
type classified struct {
	record *database.Analysis
}

// Process classifies every document with concurrent workers, stores the results in
// batches when a repository is configured and returns the aggregated report.
// On cancellation the partial report is returned together with the context error.
func (p *Processor) Process(ctx context.Context, docs []loader.Document) (*Report, error) {
	total := len(docs)
	report := NewReport()
	p.log.Info("processing documents",
		zap.Int("documents", total),
		zap.Int("workers", p.workers),
		zap.Int("batch_size", p.batchSize),
		zap.Bool("persist", p.repo != nil),
	)

	// Create progress container; a nil writer disables rendering
	progress := mpb.New(
		mpb.WithWidth(60),
		mpb.WithRefreshRate(100*time.Millisecond),
		mpb.WithOutput(p.progress),
	)

	bar := progress.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name("Classifying: ", decor.WC{W: 13, C: decor.DindentRight}),
			decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.Percentage(decor.WC{W: 5}),
			decor.Name(" | "),
			decor.AverageETA(decor.ET_STYLE_GO, decor.WC{W: 6}),
			decor.Name(" | "),
			decor.AverageSpeed(0, "%.0f texts/s", decor.WC{W: 12}),
		),
	)

	workBuffer, resultBuffer, _, _, _ := getOptimalConfig()

	workCh := make(chan loader.Document, workBuffer)
	resultCh := make(chan classified, resultBuffer)
	var wg sync.WaitGroup

	var errMu sync.Mutex
	var errs []error
	var errorCount atomic.Int64
	recordError := func(err error) {
		errorCount.Add(1)
		report.RecordFailure()
		errMu.Lock()
		if len(errs) < MaxErrorsToCollect {
			errs = append(errs, err)
		}
		errMu.Unlock()
	}

	// Start workers to classify documents (CPU-intensive work)
	for i := range p.workers {
		wg.Go(func() {
			for doc := range workCh {
				record, err := p.processDocument(doc, report)
				bar.Increment()
				if err != nil {
					recordError(fmt.Errorf("worker %d: %s - %w", i, doc.Heading(), err))
					continue
				}
				if p.repo != nil {
					resultCh <- classified{record: record}
				}
			}
		})
	}

	// Start batch inserter goroutine
	insertDone := make(chan error, 1)
	go func() {
		insertDone <- p.batchInserter(resultCh)
	}()

	// Send work to workers until done or canceled
	go func() {
		defer close(workCh)
		for _, doc := range docs {
			select {
			case workCh <- doc:
			case <-ctx.Done():
				return
			}
		}
	}()

	// Wait for all workers to finish processing
	wg.Wait()
	close(resultCh) // Signal batch inserter to finish
	insertErr := <-insertDone

	if !bar.Completed() {
		bar.Abort(false)
	}
	progress.Wait()

	if insertErr != nil {
		return report, fmt.Errorf("batch insertion failed: %w", insertErr)
	}
	if err := ctx.Err(); err != nil {
		return report, err
	}

	if failCount := errorCount.Load(); failCount > 0 {
		p.log.Warn("processing completed with errors",
			zap.Int64("failed", failCount),
			zap.Int("succeeded", total-int(failCount)),
		)
		for i := range min(len(errs), SampleErrorCount) {
			p.log.Warn("sample error", zap.Int("n", i+1), zap.Error(errs[i]))
		}
		return report, fmt.Errorf("processing completed with %d errors", failCount)
	}

	p.log.Info("processed all documents",
		zap.Int("documents", total),
		zap.Int("labelled", report.Labelled),
		zap.Float64("accuracy", report.Accuracy()),
	)
	return report, nil
}

// batchInserter collects analyses and inserts them in batches with dynamic sizing.
// Adjusts batch size based on channel pressure to prevent blocking. After a failed
// insert it keeps draining the channel so workers never block.
func (p *Processor) batchInserter(resultCh <-chan classified) error {
	batch := make([]*database.Analysis, 0, p.maxBatchSize)
	currentBatchSize := p.batchSize // Start with configured batch size
	var insertErr error

	flush := func() {
		if insertErr == nil && len(batch) > 0 {
			if err := p.repo.BatchInsertAnalyses(batch, len(batch)); err != nil {
				insertErr = fmt.Errorf("failed to insert batch of %d analyses: %w", len(batch), err)
			}
		}
		batch = batch[:0]
	}

	for result := range resultCh {
		if insertErr != nil {
			continue
		}
		batch = append(batch, result.record)

		// Calculate channel utilization (pressure)
		utilization := float64(len(resultCh)) / float64(cap(resultCh))

		// Dynamically adjust batch size based on channel pressure
		newBatchSize := p.calculateBatchSize(utilization, currentBatchSize)
		if newBatchSize != currentBatchSize {
			p.log.Debug("adjusting batch size",
				zap.Float64("utilization", utilization),
				zap.Int("from", currentBatchSize),
				zap.Int("to", newBatchSize),
			)
		}
		currentBatchSize = newBatchSize

		// Insert when batch reaches current size
		if len(batch) >= currentBatchSize {
			flush()
		}
	}

	// Insert remaining analyses
	flush()
	return insertErr
}

// calculateBatchSize determines the optimal batch size based on channel utilization
// Returns the adjusted batch size, or keeps current size for smooth transitions
func (p *Processor) calculateBatchSize(utilization float64, currentSize int) int {
	switch {
	case utilization >= channelPressureHigh:
		// High pressure (≥80% full): reduce batch size for faster consumption
		return p.minBatchSize

	case utilization >= channelPressureMedium:
		// Medium pressure (≥50% full): use base batch size
		return p.batchSize

	case utilization <= channelPressureLow:
		// Low pressure (≤20% full): increase batch size for efficiency
		return p.maxBatchSize

	default:
		// Between 20-50%: keep current batch size for smooth transition
		return currentSize
	}
}

// processDocument classifies one document, records the outcome and builds its
// storable record
func (p *Processor) processDocument(doc loader.Document, report *Report) (*database.Analysis, error) {
	text := doc.Text()

	start := time.Now()
	analysis := p.classifier.Classify(text)
	elapsed := time.Since(start)

	report.Record(doc.DatasetKey, doc.Heading(), doc.ExpectedGenre, analysis.Genre)
	if p.metrics != nil {
		p.metrics.ObserveClassification(analysis.Genre.String(), sourceLoader, analysis.CharacterCount, elapsed)
		if doc.Labelled() {
			p.metrics.ObserveEvaluation(doc.ExpectedGenre.String(), doc.ExpectedGenre == analysis.Genre)
		}
	}

	if p.repo == nil {
		return nil, nil
	}

	record, err := database.NewAnalysis(analysis, sourceLoader)
	if err != nil {
		return nil, err
	}
	if doc.DatasetKey != "" {
		dataset := doc.DatasetKey
		record.Dataset = &dataset
	}
	if doc.Labelled() {
		expected := doc.ExpectedGenre.String()
		record.ExpectedGenre = &expected
	}
	return record, nil
}
