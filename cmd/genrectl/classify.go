package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/palemoky/chinese-genre-classifier/internal/classifier"
	"github.com/palemoky/chinese-genre-classifier/internal/database"
	"github.com/palemoky/chinese-genre-classifier/internal/service"
)

func newClassifyCmd(a *app) *cobra.Command {
	var (
		file    string
		asJSON  bool
		persist bool
	)

	cmd := &cobra.Command{
		Use:   "classify [text]",
		Short: "Classify one text given as argument, --file or stdin",
		Example: `  genrectl classify "床前明月光，疑是地上霜。举头望明月，低头思故乡。"
  genrectl classify --file poem.txt --json
  cat essay.txt | genrectl classify --persist`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args, file)
			if err != nil {
				return err
			}

			c, err := a.newClassifier()
			if err != nil {
				return err
			}
			opts := service.Options{
				Classifier:    c,
				Logger:        a.log,
				MaxTextLength: a.cfg.Classifier.MaxTextLength,
			}
			if persist {
				db, err := a.openDB()
				if err != nil {
					return err
				}
				defer func() { _ = db.Close() }()
				opts.Repository = database.NewRepository(db)
			}
			svc, err := service.New(opts)
			if err != nil {
				return err
			}

			result, err := svc.Classify(cmd.Context(), text, service.ClassifyOptions{
				Source:  service.SourceCLI,
				Persist: persist,
			})
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetEscapeHTML(false)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			return renderResult(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Read the text from a file (\"-\" for stdin)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full analysis as JSON")
	cmd.Flags().BoolVar(&persist, "persist", false, "Store the analysis in the database")
	return cmd
}

// readInput returns the text from the argument, the file, or stdin in that order
func readInput(cmd *cobra.Command, args []string, file string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}

	var r io.Reader = cmd.InOrStdin()
	if file != "" && file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return "", fmt.Errorf("failed to open input: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", fmt.Errorf("no text to classify")
	}
	return string(data), nil
}

// renderResult prints the verdict and the measurements behind it
func renderResult(w io.Writer, r *service.Result) error {
	a := r.Analysis
	rows := [][]string{
		{"Genre", fmt.Sprintf("%s (%s)", a.Genre, a.Genre.DisplayName())},
	}
	if r.Form != nil {
		form := r.Form.Name
		if r.Form.Tune != "" {
			form += " · " + r.Form.Tune
		}
		rows = append(rows, []string{"Form", form})
	}
	if m := a.Metadata; m != nil {
		if m.HasTitle() {
			rows = append(rows, []string{"Title", withPinyin(m.Title)})
		}
		if m.HasAuthor() {
			rows = append(rows, []string{"Author", withPinyin(m.Author)})
		}
		if m.Dynasty != "" {
			rows = append(rows, []string{"Dynasty", m.Dynasty})
		}
	}
	info := a.PhraseInfo
	rows = append(rows,
		[]string{"Characters", fmt.Sprint(a.CharacterCount)},
		[]string{"Phrases", fmt.Sprint(info.Count())},
		[]string{"Phrase length", fmt.Sprintf("avg %.2f, min %d, max %d", info.AverageLength, info.MinLength, info.MaxLength)},
		[]string{"Uniform length", fmt.Sprint(info.IsUniformLength)},
		[]string{"Parallel ratio", fmt.Sprintf("%.3f", info.ParallelRatio)},
		[]string{"Punctuation", fmt.Sprintf("%d (%.3f)", a.PunctuationInfo.Count, a.PunctuationInfo.Ratio)},
		[]string{"Classical ratio", fmt.Sprintf("%.3f", a.LinguisticInfo.ClassicalRatio)},
		[]string{"Modern ratio", fmt.Sprintf("%.3f", a.LinguisticInfo.ModernRatio)},
		[]string{"ID", fmt.Sprint(r.ID)},
	)
	if r.Record != nil {
		rows = append(rows, []string{"Stored", fmt.Sprintf("yes (seen %d times)", r.Record.HitCount)})
	}

	table := tablewriter.NewWriter(w)
	table.Header("Field", "Value")
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

// withPinyin appends the tone-marked reading, e.g. 李白 (lǐ bái)
func withPinyin(name string) string {
	if reading := classifier.ToPinyin(name); reading != "" {
		return fmt.Sprintf("%s (%s)", name, reading)
	}
	return name
}
