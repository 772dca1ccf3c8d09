// Command genrectl classifies classical Chinese texts from the command line,
// runs corpora through the batch processor and reports stored statistics.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/palemoky/chinese-genre-classifier/internal/classifier"
	"github.com/palemoky/chinese-genre-classifier/internal/config"
	"github.com/palemoky/chinese-genre-classifier/internal/database"
	"github.com/palemoky/chinese-genre-classifier/internal/logger"
)

// app holds the global flags shared by every subcommand
type app struct {
	configPath string
	dbPath     string
	debug      bool

	cfg *config.Config
	log *zap.Logger
}

func main() {
	defer logger.Sync()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "genrectl",
		Short:         "Classical Chinese text genre classifier",
		Long:          "Classify texts as classical poetry (古诗), lyrics (古词), classical prose (古文) or plain modern writing (白话).",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Path to a YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&a.dbPath, "db", "", "SQLite database path (default: database.path from the configuration)")
	rootCmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "Log every detector verdict")

	rootCmd.AddCommand(
		newClassifyCmd(a),
		newBatchCmd(a),
		newEvaluateCmd(a),
		newStatsCmd(a),
	)
	return rootCmd
}

func (a *app) init() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.dbPath != "" {
		cfg.Database.Path = a.dbPath
	}
	a.cfg = cfg

	logger.Init(logger.Options{Debug: a.debug || cfg.Log.Debug, Level: cfg.Log.Level})
	a.log = logger.L
	return nil
}

// newClassifier builds a classifier from the configured thresholds
func (a *app) newClassifier() (*classifier.Classifier, error) {
	opts := a.cfg.Classifier.Options()
	opts.Logger = a.log.Named("classifier")
	return classifier.New(opts)
}

// openDB opens and migrates the configured database
func (a *app) openDB() (*database.DB, error) {
	db, err := database.Open(a.cfg.Database.Path, a.cfg.Database.MaxOpenConns, a.cfg.Database.MaxIdleConns)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}
