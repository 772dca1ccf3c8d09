// Package loader reads labelled text corpora described by a datas.json file.
package loader

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/palemoky/chinese-genre-classifier/internal/classifier"
	"github.com/palemoky/chinese-genre-classifier/internal/logger"
)

// DataConfig represents the structure of datas.json
type DataConfig struct {
	CPPath   string                 `json:"cp_path"`
	Datasets map[string]DatasetInfo `json:"datasets"`
}

// DatasetInfo contains information about a dataset
type DatasetInfo struct {
	Name     string   `json:"name"`
	ID       int      `json:"id"`
	Path     string   `json:"path"`
	Tag      string   `json:"tag"`
	Genre    string   `json:"genre,omitempty"`   // expected genre of every text
	Dynasty  string   `json:"dynasty,omitempty"` // overrides the inferred dynasty
	Excludes []string `json:"excludes"`
	Comments string   `json:"comments,omitempty"`
}

// RawText is one entry of a chinese-poetry style JSON file
type RawText struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Author     string   `json:"author"`
	Paragraphs []string `json:"paragraphs"`
	Rhythmic   string   `json:"rhythmic,omitempty"` // For ci (词)
	Content    string   `json:"content,omitempty"`  // Alternative field
	Para       []string `json:"para,omitempty"`     // Alternative field
}

// Document is one text to classify, with its provenance and label
type Document struct {
	RawText
	Dynasty       string
	DatasetName   string
	DatasetKey    string
	ExpectedGenre classifier.Genre // empty when the dataset is unlabelled
	Path          string
}

// Heading returns the title, falling back to the tune name of ci
func (d Document) Heading() string {
	if d.Title != "" {
		return d.Title
	}
	return d.Rhythmic
}

// Text renders the document the way a reader would paste it: title line,
// attribution line, then the body
func (d Document) Text() string {
	var b strings.Builder
	if heading := d.Heading(); heading != "" && d.Author != "" {
		b.WriteString(heading)
		b.WriteByte('\n')
		if d.Dynasty != "" {
			b.WriteString(d.Dynasty)
			b.WriteString("·")
		}
		b.WriteString(d.Author)
		b.WriteByte('\n')
	}
	b.WriteString(strings.Join(d.Paragraphs, "\n"))
	return b.String()
}

// Labelled reports whether the document carries an expected genre
func (d Document) Labelled() bool {
	return d.ExpectedGenre != ""
}

// JSONLoader loads texts from the datasets listed in datas.json
type JSONLoader struct {
	config   *DataConfig
	basePath string
	log      *zap.Logger
}

// NewJSONLoader creates a new JSON loader
func NewJSONLoader(configPath string) (*JSONLoader, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config DataConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	for key, dataset := range config.Datasets {
		if dataset.Genre == "" {
			continue
		}
		if _, ok := classifier.ParseGenre(dataset.Genre); !ok {
			return nil, fmt.Errorf("dataset %s: unknown genre %q", key, dataset.Genre)
		}
	}

	// Paths are relative to cp_path, itself relative to the config file
	basePath := filepath.Join(filepath.Dir(configPath), config.CPPath)

	return &JSONLoader{
		config:   &config,
		basePath: basePath,
		log:      logger.Named("loader"),
	}, nil
}

// DatasetKeys returns the configured dataset keys in sorted order
func (l *JSONLoader) DatasetKeys() []string {
	return slices.Sorted(maps.Keys(l.config.Datasets))
}

// LoadAll loads every dataset, in sorted key order
func (l *JSONLoader) LoadAll() ([]Document, error) {
	return l.Load(l.DatasetKeys()...)
}

// Load loads the named datasets
func (l *JSONLoader) Load(keys ...string) ([]Document, error) {
	var docs []Document

	for _, key := range keys {
		dataset, ok := l.config.Datasets[key]
		if !ok {
			return nil, fmt.Errorf("unknown dataset %s", key)
		}
		loaded, err := l.loadDataset(key, dataset)
		if err != nil {
			return nil, fmt.Errorf("failed to load dataset %s: %w", key, err)
		}
		docs = append(docs, loaded...)
	}

	return docs, nil
}

func (l *JSONLoader) loadDataset(key string, dataset DatasetInfo) ([]Document, error) {
	fullPath := filepath.Join(l.basePath, dataset.Path)

	info, err := os.Stat(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat path %s: %w", fullPath, err)
	}

	files := []string{fullPath}
	if info.IsDir() {
		entries, err := os.ReadDir(fullPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
		}

		files = files[:0]
		for _, entry := range entries {
			if entry.IsDir() || slices.Contains(dataset.Excludes, entry.Name()) {
				continue
			}
			switch filepath.Ext(entry.Name()) {
			case ".json", ".txt":
				files = append(files, filepath.Join(fullPath, entry.Name()))
			}
		}
	}

	dynasty := dataset.Dynasty
	if dynasty == "" {
		dynasty = inferDynasty(key, dataset.Name)
	}
	expected := expectedGenre(key, dataset)

	var docs []Document
	for _, path := range files {
		texts, err := l.loadFile(path, dataset.Tag)
		if err != nil {
			// A broken file inside a directory does not fail the whole dataset
			if info.IsDir() {
				l.log.Warn("skipping unreadable file", zap.String("path", path), zap.Error(err))
				continue
			}
			return nil, err
		}

		for _, text := range texts {
			docs = append(docs, Document{
				RawText:       text,
				Dynasty:       dynasty,
				DatasetName:   dataset.Name,
				DatasetKey:    key,
				ExpectedGenre: expected,
				Path:          path,
			})
		}
	}

	l.log.Debug("loaded dataset",
		zap.String("dataset", key),
		zap.Int("files", len(files)),
		zap.Int("documents", len(docs)),
	)
	return docs, nil
}

func (l *JSONLoader) loadFile(path, tag string) ([]RawText, error) {
	if filepath.Ext(path) == ".txt" {
		return loadTextFile(path)
	}
	return loadJSONFile(path, tag)
}

// loadTextFile reads a plain text file as one document titled by its file name
func loadTextFile(path string) ([]RawText, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	body := strings.TrimSpace(string(data))
	if body == "" {
		return nil, nil
	}
	return []RawText{{
		ID:         strings.TrimSuffix(filepath.Base(path), ".txt"),
		Paragraphs: []string{body},
	}}, nil
}

func loadJSONFile(path string, tag string) ([]RawText, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var rawTexts []map[string]any
	if err := json.Unmarshal(data, &rawTexts); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	var texts []RawText
	for _, raw := range rawTexts {
		text := RawText{
			ID:       getString(raw, "id"),
			Title:    getString(raw, "title"),
			Author:   classifier.TrimAllWhitespace(getString(raw, "author")),
			Rhythmic: getString(raw, "rhythmic"),
		}

		// Extract paragraphs based on tag
		switch tag {
		case "paragraphs":
			text.Paragraphs = getStringArray(raw, "paragraphs")
		case "content":
			if content, ok := raw["content"].(string); ok {
				text.Paragraphs = splitContent(content)
				text.Content = strings.Join(text.Paragraphs, "\n")
			} else {
				text.Paragraphs = getStringArray(raw, "content")
			}
		case "para":
			text.Paragraphs = getStringArray(raw, "para")
		default:
			// Try all possible fields
			if paras := getStringArray(raw, "paragraphs"); len(paras) > 0 {
				text.Paragraphs = paras
			} else if paras := getStringArray(raw, "para"); len(paras) > 0 {
				text.Paragraphs = paras
			} else if content, ok := raw["content"].(string); ok {
				text.Paragraphs = splitContent(content)
			}
		}

		if len(text.Paragraphs) > 0 {
			texts = append(texts, text)
		}
	}

	return texts, nil
}

// expectedGenre resolves the label of a dataset from its config or its key
func expectedGenre(key string, dataset DatasetInfo) classifier.Genre {
	if dataset.Genre != "" {
		g, _ := classifier.ParseGenre(dataset.Genre)
		return g
	}

	genreByKey := map[string]classifier.Genre{
		"tangsong":          classifier.GenrePoetry,
		"yudingquantangshi": classifier.GenrePoetry,
		"shuimotangshi":     classifier.GenrePoetry,
		"songci":            classifier.GenreLyrics,
		"wudai-huajianji":   classifier.GenreLyrics,
		"wudai-nantang":     classifier.GenreLyrics,
		"nalanxingde":       classifier.GenreLyrics,
		"lunyu":             classifier.GenreProse,
		"mengzi":            classifier.GenreProse,
	}
	return genreByKey[key]
}

func inferDynasty(key, name string) string {
	// Map dataset keys to dynasties
	dynastyMap := map[string]string{
		"tangsong":          "唐",
		"songci":            "宋",
		"yuanqu":            "元",
		"wudai-huajianji":   "五代",
		"wudai-nantang":     "五代",
		"yudingquantangshi": "唐",
		"shuimotangshi":     "唐",
		"shijing":           "先秦",
		"chuci":             "先秦",
		"lunyu":             "先秦",
		"mengzi":            "先秦",
		"caocao":            "魏晋",
		"nalanxingde":       "清",
	}

	if dynasty, ok := dynastyMap[key]; ok {
		return dynasty
	}

	// Try to infer from name
	for _, dynasty := range []string{"唐", "宋", "元", "明", "清"} {
		if strings.Contains(name, dynasty) {
			return dynasty
		}
	}

	return ""
}

// getString returns the normalized string field key
func getString(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return classifier.NormalizeText(v)
	}
	return ""
}

// getStringArray returns the normalized, non-blank strings of array field key
func getStringArray(m map[string]any, key string) []string {
	if arr, ok := m[key].([]any); ok {
		result := make([]string, 0, len(arr))
		for _, item := range arr {
			if str, ok := item.(string); ok {
				result = append(result, str)
			}
		}
		return classifier.NormalizeTextArray(result)
	}
	return nil
}

// splitContent turns a multi-line content string into normalized paragraphs
func splitContent(content string) []string {
	return classifier.NormalizeTextArray(strings.Split(content, "\n"))
}
