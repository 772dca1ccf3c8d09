package processor

import (
	"fmt"
	"io"
	"sync"

	"github.com/olekukonko/tablewriter"

	"github.com/palemoky/chinese-genre-classifier/internal/classifier"
)

// MaxMisclassifiedToCollect caps the examples kept in a Report
const MaxMisclassifiedToCollect = 100

// Misclassification is one labelled document the classifier got wrong
type Misclassification struct {
	Dataset  string           `json:"dataset"`
	Title    string           `json:"title,omitempty"`
	Expected classifier.Genre `json:"expected"`
	Got      classifier.Genre `json:"got"`
}

// Report aggregates classification outcomes over a corpus. It is safe for
// concurrent use by the workers.
type Report struct {
	mu sync.Mutex

	Total         int                                           `json:"total"`
	Failed        int                                           `json:"failed"`
	ByGenre       map[classifier.Genre]int                      `json:"by_genre"`
	Labelled      int                                           `json:"labelled"`
	Correct       int                                           `json:"correct"`
	Confusion     map[classifier.Genre]map[classifier.Genre]int `json:"confusion"` // expected → got
	Misclassified []Misclassification                           `json:"misclassified,omitempty"`
}

// NewReport creates an empty report
func NewReport() *Report {
	return &Report{
		ByGenre:   make(map[classifier.Genre]int),
		Confusion: make(map[classifier.Genre]map[classifier.Genre]int),
	}
}

// Record adds one classified document; expected may be empty
func (r *Report) Record(dataset, title string, expected, got classifier.Genre) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Total++
	r.ByGenre[got]++

	if expected == "" {
		return
	}
	r.Labelled++
	if r.Confusion[expected] == nil {
		r.Confusion[expected] = make(map[classifier.Genre]int)
	}
	r.Confusion[expected][got]++

	if expected == got {
		r.Correct++
		return
	}
	if len(r.Misclassified) < MaxMisclassifiedToCollect {
		r.Misclassified = append(r.Misclassified, Misclassification{
			Dataset:  dataset,
			Title:    title,
			Expected: expected,
			Got:      got,
		})
	}
}

// RecordFailure counts a document that could not be classified or stored
func (r *Report) RecordFailure() {
	r.mu.Lock()
	r.Failed++
	r.mu.Unlock()
}

// Accuracy is the share of labelled documents classified as expected
func (r *Report) Accuracy() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return ratio(r.Correct, r.Labelled)
}

// Recall is the share of documents labelled g that were classified as g
func (r *Report) Recall(g classifier.Genre) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	total := 0
	for _, n := range r.Confusion[g] {
		total += n
	}
	return ratio(r.Confusion[g][g], total)
}

// Precision is the share of labelled documents classified as g that were labelled g
func (r *Report) Precision(g classifier.Genre) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	predicted := 0
	for _, row := range r.Confusion {
		predicted += row[g]
	}
	return ratio(r.Confusion[g][g], predicted)
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// Render writes the genre distribution and, for labelled corpora, the
// confusion matrix as tables
func (r *Report) Render(w io.Writer) error {
	dist := tablewriter.NewWriter(w)
	dist.Header("Genre", "Name", "Count")
	for _, g := range classifier.AllGenres {
		r.mu.Lock()
		n := r.ByGenre[g]
		r.mu.Unlock()
		if err := dist.Append([]string{g.String(), g.DisplayName(), fmt.Sprint(n)}); err != nil {
			return err
		}
	}
	if err := dist.Render(); err != nil {
		return err
	}

	r.mu.Lock()
	labelled, failed := r.Labelled, r.Failed
	r.mu.Unlock()
	if failed > 0 {
		fmt.Fprintf(w, "Failed: %d\n", failed)
	}
	if labelled == 0 {
		return nil
	}

	matrix := tablewriter.NewWriter(w)
	matrix.Header("Expected \\ Got", "poetry", "lyrics", "prose", "plain", "Recall", "Precision")
	for _, expected := range classifier.AllGenres {
		row := []string{expected.String()}
		r.mu.Lock()
		for _, got := range classifier.AllGenres {
			row = append(row, fmt.Sprint(r.Confusion[expected][got]))
		}
		r.mu.Unlock()
		row = append(row,
			fmt.Sprintf("%.1f%%", r.Recall(expected)*100),
			fmt.Sprintf("%.1f%%", r.Precision(expected)*100),
		)
		if err := matrix.Append(row); err != nil {
			return err
		}
	}
	if err := matrix.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "Accuracy: %.2f%% (%d labelled)\n", r.Accuracy()*100, labelled)
	return err
}
