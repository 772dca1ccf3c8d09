package database

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/palemoky/chinese-genre-classifier/internal/classifier"
)

// Analysis is a stored classification result
type Analysis struct {
	ID               int64          `gorm:"primaryKey"                          json:"id,string"` // stable hash of the raw text
	Genre            string         `gorm:"size:16;not null;index"              json:"genre"`
	Form             *string        `gorm:"size:32"                             json:"form,omitempty"`
	Tune             *string        `gorm:"size:32"                             json:"tune,omitempty"` // 词牌名
	Title            *string        `gorm:"index"                               json:"title,omitempty"`
	TitlePinyin      *string        `                                           json:"title_pinyin,omitempty"`
	TitlePinyinAbbr  *string        `                                           json:"title_pinyin_abbr,omitempty"`
	Author           *string        `gorm:"index"                               json:"author,omitempty"`
	AuthorPinyin     *string        `                                           json:"author_pinyin,omitempty"`
	AuthorPinyinAbbr *string        `                                           json:"author_pinyin_abbr,omitempty"`
	Dynasty          *string        `gorm:"size:16;index"                       json:"dynasty,omitempty"`
	Lang             Lang           `gorm:"size:8;not null;default:zh-Hans"     json:"lang"`
	RawText          string         `gorm:"not null"                            json:"raw_text"`
	Content          string         `gorm:"not null"                            json:"content"`
	Phrases          datatypes.JSON `gorm:"type:json"                           json:"phrases"`
	CharacterCount   int            `                                           json:"character_count"`
	PhraseCount      int            `                                           json:"phrase_count"`
	AverageLength    float64        `                                           json:"average_length"`
	MaxLength        int            `                                           json:"max_length"`
	MinLength        int            `                                           json:"min_length"`
	IsUniformLength  bool           `                                           json:"is_uniform_length"`
	ParallelRatio    float64        `                                           json:"parallel_ratio"`
	PunctuationCount int            `                                           json:"punctuation_count"`
	PunctuationRatio float64        `                                           json:"punctuation_ratio"`
	ClassicalRatio   float64        `                                           json:"classical_ratio"`
	ModernRatio      float64        `                                           json:"modern_ratio"`
	Source           string         `gorm:"size:16;not null;default:api"        json:"source"` // api, cli or loader
	Dataset          *string        `gorm:"index"                               json:"dataset,omitempty"`
	ExpectedGenre    *string        `gorm:"size:16"                             json:"expected_genre,omitempty"`
	HitCount         int            `gorm:"not null;default:1"                  json:"hit_count"`
	CreatedAt        time.Time      `gorm:"autoCreateTime"                      json:"created_at"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime"                      json:"updated_at"`
}

// TableName specifies the table name for Analysis
func (Analysis) TableName() string {
	return "analyses"
}

// NewAnalysis builds a storable record from a classification result
func NewAnalysis(a classifier.TextAnalysis, source string) (*Analysis, error) {
	phrases, err := json.Marshal(a.PhraseInfo.Phrases)
	if err != nil {
		return nil, fmt.Errorf("failed to encode phrases: %w", err)
	}

	record := &Analysis{
		ID:               classifier.GenerateStableAnalysisID(a.RawText),
		Genre:            a.Genre.String(),
		Lang:             DetectLang(a.Content),
		RawText:          a.RawText,
		Content:          a.Content,
		Phrases:          datatypes.JSON(phrases),
		CharacterCount:   a.CharacterCount,
		PhraseCount:      a.PhraseCount(),
		AverageLength:    a.PhraseInfo.AverageLength,
		MaxLength:        a.PhraseInfo.MaxLength,
		MinLength:        a.PhraseInfo.MinLength,
		IsUniformLength:  a.PhraseInfo.IsUniformLength,
		ParallelRatio:    a.PhraseInfo.ParallelRatio,
		PunctuationCount: a.PunctuationInfo.Count,
		PunctuationRatio: a.PunctuationInfo.Ratio,
		ClassicalRatio:   a.LinguisticInfo.ClassicalRatio,
		ModernRatio:      a.LinguisticInfo.ModernRatio,
		Source:           source,
	}

	if a.IsClassical() {
		form := classifier.DetectForm(a)
		record.Form = &form.Name
		if form.Tune != "" {
			record.Tune = &form.Tune
		}
	}

	if meta := a.Metadata; meta != nil {
		if meta.HasTitle() {
			record.Title = stringPtr(meta.Title)
			record.TitlePinyin = stringPtr(classifier.ToPinyinNoTone(meta.Title))
			record.TitlePinyinAbbr = stringPtr(classifier.ToPinyinAbbr(meta.Title))
		}
		if meta.HasAuthor() {
			record.Author = stringPtr(meta.Author)
			record.AuthorPinyin = stringPtr(classifier.ToPinyinNoTone(meta.Author))
			record.AuthorPinyinAbbr = stringPtr(classifier.ToPinyinAbbr(meta.Author))
		}
		if meta.Dynasty != "" {
			record.Dynasty = stringPtr(meta.Dynasty)
		}
	}

	return record, nil
}

// PhraseList decodes the stored phrases
func (a *Analysis) PhraseList() ([]string, error) {
	phrases := []string{}
	if len(a.Phrases) == 0 {
		return phrases, nil
	}
	if err := json.Unmarshal(a.Phrases, &phrases); err != nil {
		return nil, fmt.Errorf("failed to decode phrases: %w", err)
	}
	return phrases, nil
}

// IsMisclassified reports whether a labelled record disagrees with its label
func (a *Analysis) IsMisclassified() bool {
	return a.ExpectedGenre != nil && *a.ExpectedGenre != a.Genre
}

// AnalysisFilter narrows list queries; nil fields are ignored
type AnalysisFilter struct {
	Genre   *string
	Dynasty *string
	Author  *string
	Dataset *string
	Lang    *Lang
}

// GenreCount is the number of analyses per genre
type GenreCount struct {
	Genre       string `json:"genre"`
	DisplayName string `json:"display_name"`
	Count       int    `json:"count"`
}

// DynastyCount is the number of analyses per dynasty
type DynastyCount struct {
	Dynasty   string `json:"dynasty"`
	NameEn    string `json:"name_en"`
	StartYear *int   `json:"start_year,omitempty"`
	Count     int    `json:"count"`
}

// LangCount is the number of analyses per script
type LangCount struct {
	Lang  Lang `json:"lang"`
	Count int  `json:"count"`
}

// Statistics holds overall statistics
type Statistics struct {
	TotalAnalyses int            `json:"total_analyses"`
	TotalAuthors  int            `json:"total_authors"`
	TotalHits     int            `json:"total_hits"`
	ByGenre       []GenreCount   `json:"by_genre"`
	ByDynasty     []DynastyCount `json:"by_dynasty"`
	ByLang        []LangCount    `json:"by_lang"`
}

func stringPtr(s string) *string {
	return &s
}
