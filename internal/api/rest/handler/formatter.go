package handler

import (
	"strconv"

	"github.com/palemoky/chinese-genre-classifier/internal/classifier"
	"github.com/palemoky/chinese-genre-classifier/internal/database"
	"github.com/palemoky/chinese-genre-classifier/internal/service"
)

// formatAnalysis formats a stored analysis for API response. IDs are strings
// because they exceed the integer range JavaScript clients can represent.
func formatAnalysis(a *database.Analysis) map[string]any {
	genre := classifier.Genre(a.Genre)
	result := map[string]any{
		"id":           strconv.FormatInt(a.ID, 10),
		"genre":        a.Genre,
		"display_name": genre.DisplayName(),
		"lang":         a.Lang,
		"content":      a.Content,
		"statistics": map[string]any{
			"character_count":   a.CharacterCount,
			"phrase_count":      a.PhraseCount,
			"average_length":    a.AverageLength,
			"max_length":        a.MaxLength,
			"min_length":        a.MinLength,
			"is_uniform_length": a.IsUniformLength,
			"parallel_ratio":    a.ParallelRatio,
			"punctuation_count": a.PunctuationCount,
			"punctuation_ratio": a.PunctuationRatio,
			"classical_ratio":   a.ClassicalRatio,
			"modern_ratio":      a.ModernRatio,
		},
		"source":     a.Source,
		"hit_count":  a.HitCount,
		"updated_at": a.UpdatedAt,
	}

	if phrases, err := a.PhraseList(); err == nil {
		result["phrases"] = phrases
	}
	optional := map[string]*string{
		"form":           a.Form,
		"tune":           a.Tune,
		"title":          a.Title,
		"author":         a.Author,
		"dynasty":        a.Dynasty,
		"dataset":        a.Dataset,
		"expected_genre": a.ExpectedGenre,
	}
	for key, value := range optional {
		if value != nil {
			result[key] = *value
		}
	}
	if a.Title != nil {
		result["title_pinyin"] = classifier.ToPinyin(*a.Title)
	}
	if a.Author != nil {
		result["author_pinyin"] = classifier.ToPinyin(*a.Author)
	}
	if a.ExpectedGenre != nil {
		result["misclassified"] = a.IsMisclassified()
	}
	return result
}

// formatAnalyses formats a page of analyses
func formatAnalyses(analyses []database.Analysis) []map[string]any {
	data := make([]map[string]any, len(analyses))
	for i := range analyses {
		data[i] = formatAnalysis(&analyses[i])
	}
	return data
}

// formatResult formats a fresh classification
func formatResult(r *service.Result) map[string]any {
	a := r.Analysis
	result := map[string]any{
		"id":           strconv.FormatInt(r.ID, 10),
		"genre":        a.Genre,
		"display_name": a.Genre.DisplayName(),
		"analysis":     a,
		"elapsed_ms":   float64(r.Elapsed.Microseconds()) / 1000,
	}
	if r.Form != nil {
		result["form"] = r.Form
	}
	if r.Record != nil {
		result["stored"] = true
		result["hit_count"] = r.Record.HitCount
	}
	return result
}
