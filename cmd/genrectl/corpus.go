package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/palemoky/chinese-genre-classifier/internal/database"
	"github.com/palemoky/chinese-genre-classifier/internal/loader"
	"github.com/palemoky/chinese-genre-classifier/internal/processor"
)

// corpusFlags select and size a corpus run
type corpusFlags struct {
	inputDir   string
	dataConfig string
	datasets   []string
	workers    int
	batchSize  int
	limit      int
	quiet      bool
}

func (f *corpusFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.inputDir, "input", "i", "poetry-data", "Corpus directory")
	cmd.Flags().StringVar(&f.dataConfig, "data-config", "", "Path to datas.json (default: <input>/loader/datas.json)")
	cmd.Flags().StringSliceVarP(&f.datasets, "dataset", "d", nil, "Dataset keys to load (default: all)")
	cmd.Flags().IntVarP(&f.workers, "workers", "w", 0, "Number of concurrent workers (0 = number of CPUs)")
	cmd.Flags().IntVar(&f.batchSize, "batch-size", 0, "Database insert batch size (0 = chosen from the CPU count)")
	cmd.Flags().IntVar(&f.limit, "limit", 0, "Process at most this many documents (0 = all)")
	cmd.Flags().BoolVarP(&f.quiet, "quiet", "q", false, "Hide the progress bar")
}

func (f *corpusFlags) configPath() string {
	if f.dataConfig != "" {
		return f.dataConfig
	}
	return filepath.Join(f.inputDir, "loader", "datas.json")
}

func newBatchCmd(a *app) *cobra.Command {
	var flags corpusFlags

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Classify the datasets listed in datas.json and store the results",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openDB()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			report, err := a.runCorpus(cmd, flags, database.NewRepository(db))
			if err != nil {
				return err
			}

			// Refresh query planner statistics after the bulk insert
			if err := db.Exec("ANALYZE").Error; err != nil {
				a.log.Warn("Failed to analyze database", zap.Error(err))
			}

			a.log.Info("Processing complete", zap.String("database", a.cfg.Database.Path))
			return report.Render(cmd.OutOrStdout())
		},
	}

	flags.register(cmd)
	return cmd
}

func newEvaluateCmd(a *app) *cobra.Command {
	var (
		flags             corpusFlags
		minAccuracy       float64
		showMisclassified bool
	)

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Measure accuracy against the genre labels of the configured datasets",
		Long: "Classify labelled datasets without storing anything and print the confusion matrix.\n" +
			"Exits non-zero when accuracy falls below --min-accuracy.",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := a.runCorpus(cmd, flags, nil)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if err := report.Render(out); err != nil {
				return err
			}
			if showMisclassified {
				if err := renderMisclassified(out, report.Misclassified); err != nil {
					return err
				}
			}

			if report.Labelled == 0 {
				return fmt.Errorf("no labelled documents: set \"genre\" on the datasets in %s", flags.configPath())
			}
			if accuracy := report.Accuracy() * 100; accuracy < minAccuracy {
				return fmt.Errorf("accuracy %.2f%% is below the required %.2f%%", accuracy, minAccuracy)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().Float64Var(&minAccuracy, "min-accuracy", 0, "Fail when accuracy in percent is lower")
	cmd.Flags().BoolVar(&showMisclassified, "show-misclassified", false, "List misclassified documents")
	return cmd
}

// runCorpus loads the selected datasets and runs them through the processor.
// A nil repo classifies without storing.
func (a *app) runCorpus(cmd *cobra.Command, flags corpusFlags, repo database.RepositoryInterface) (*processor.Report, error) {
	configPath := flags.configPath()
	a.log.Info("Loading corpus", zap.String("config", configPath))

	jsonLoader, err := loader.NewJSONLoader(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create loader: %w", err)
	}

	var docs []loader.Document
	if len(flags.datasets) > 0 {
		docs, err = jsonLoader.Load(flags.datasets...)
	} else {
		docs, err = jsonLoader.LoadAll()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load corpus: %w", err)
	}
	if flags.limit > 0 && len(docs) > flags.limit {
		docs = docs[:flags.limit]
	}
	a.log.Info("Loaded documents", zap.Int("count", len(docs)))

	c, err := a.newClassifier()
	if err != nil {
		return nil, err
	}

	var progress io.Writer
	if !flags.quiet {
		progress = cmd.ErrOrStderr()
	}
	proc, err := processor.NewProcessor(processor.Options{
		Classifier: c,
		Repository: repo,
		Workers:    flags.workers,
		BatchSize:  flags.batchSize,
		Progress:   progress,
		Logger:     a.log,
	})
	if err != nil {
		return nil, err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	report, err := proc.Process(ctx, docs)
	if err != nil {
		return nil, fmt.Errorf("failed to process corpus: %w", err)
	}
	return report, nil
}

func renderMisclassified(w io.Writer, items []processor.Misclassification) error {
	if len(items) == 0 {
		return nil
	}
	table := tablewriter.NewWriter(w)
	table.Header("Dataset", "Title", "Expected", "Got")
	for _, m := range items {
		if err := table.Append([]string{m.Dataset, m.Title, m.Expected.String(), m.Got.String()}); err != nil {
			return err
		}
	}
	return table.Render()
}
