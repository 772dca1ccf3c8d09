package search

import (
	"strings"
	"unicode"

	"gorm.io/gorm"

	"github.com/palemoky/chinese-genre-classifier/internal/database"
)

// Engine handles all search operations over stored analyses
type Engine struct {
	db           *database.DB
	enablePinyin bool
	maxResults   int
}

// Option configures an Engine
type Option func(*Engine)

// WithPinyin toggles automatic pinyin matching for ASCII queries
func WithPinyin(enabled bool) Option {
	return func(e *Engine) { e.enablePinyin = enabled }
}

// WithMaxResults caps the page size a caller may request
func WithMaxResults(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxResults = n
		}
	}
}

// NewEngine creates a new search engine
func NewEngine(db *database.DB, opts ...Option) *Engine {
	e := &Engine{db: db, enablePinyin: true, maxResults: 100}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SearchType defines the type of search
type SearchType string

const (
	SearchTypeAll     SearchType = "all"
	SearchTypeTitle   SearchType = "title"
	SearchTypeContent SearchType = "content"
	SearchTypeAuthor  SearchType = "author"
	SearchTypePinyin  SearchType = "pinyin"
)

// ParseSearchType parses a search type, defaulting to SearchTypeAll
func ParseSearchType(s string) SearchType {
	switch t := SearchType(strings.ToLower(strings.TrimSpace(s))); t {
	case SearchTypeTitle, SearchTypeContent, SearchTypeAuthor, SearchTypePinyin:
		return t
	default:
		return SearchTypeAll
	}
}

// SearchParams contains search parameters
type SearchParams struct {
	Query      string
	SearchType SearchType
	Genre      string // optional, exact match
	Page       int
	PageSize   int
}

// SearchResult contains search results
type SearchResult struct {
	Analyses   []database.Analysis
	TotalCount int
	HasMore    bool
}

// Search performs a search based on the given parameters
func (e *Engine) Search(params SearchParams) (*SearchResult, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 {
		params.PageSize = 20
	}
	if params.PageSize > e.maxResults {
		params.PageSize = e.maxResults
	}

	query := strings.TrimSpace(params.Query)
	offset := (params.Page - 1) * params.PageSize
	isPinyin := e.enablePinyin && isPinyinQuery(query)
	pattern := "%" + escapeLike(query) + "%"

	db := e.baseQuery(params.Genre)

	switch params.SearchType {
	case SearchTypePinyin:
		db = byPinyin(db, strings.ToLower(pattern))

	case SearchTypeTitle:
		if isPinyin {
			db = byTitlePinyin(db, strings.ToLower(pattern))
		} else {
			db = db.Where("title LIKE ? ESCAPE '\\'", pattern)
		}

	case SearchTypeContent:
		db = db.Where("content LIKE ? ESCAPE '\\'", pattern)

	case SearchTypeAuthor:
		if isPinyin {
			db = byAuthorPinyin(db, strings.ToLower(pattern))
		} else {
			db = db.Where("author LIKE ? ESCAPE '\\'", pattern)
		}

	default: // SearchTypeAll
		if isPinyin {
			db = byPinyin(db, strings.ToLower(pattern))
		} else {
			db = db.Where(
				"title LIKE ? ESCAPE '\\' OR content LIKE ? ESCAPE '\\' OR author LIKE ? ESCAPE '\\'",
				pattern, pattern, pattern,
			)
		}
	}

	var totalCount int64
	if err := db.Count(&totalCount).Error; err != nil {
		return nil, err
	}

	var analyses []database.Analysis
	err := db.Order("hit_count DESC").Order("id").
		Limit(params.PageSize).Offset(offset).
		Find(&analyses).Error
	if err != nil {
		return nil, err
	}

	return &SearchResult{
		Analyses:   analyses,
		TotalCount: int(totalCount),
		HasMore:    offset+len(analyses) < int(totalCount),
	}, nil
}

// baseQuery returns a GORM query over analyses, restricted to genre when set
func (e *Engine) baseQuery(genre string) *gorm.DB {
	db := e.db.Model(&database.Analysis{})
	if genre != "" {
		db = db.Where("genre = ?", genre)
	}
	return db
}

// byTitlePinyin matches full or abbreviated title pinyin
func byTitlePinyin(db *gorm.DB, pattern string) *gorm.DB {
	return db.Where("title_pinyin LIKE ? ESCAPE '\\' OR title_pinyin_abbr LIKE ? ESCAPE '\\'", pattern, pattern)
}

// byAuthorPinyin matches full or abbreviated author pinyin
func byAuthorPinyin(db *gorm.DB, pattern string) *gorm.DB {
	return db.Where("author_pinyin LIKE ? ESCAPE '\\' OR author_pinyin_abbr LIKE ? ESCAPE '\\'", pattern, pattern)
}

// byPinyin searches by any pinyin field (title, author)
func byPinyin(db *gorm.DB, pattern string) *gorm.DB {
	return db.Where(
		"title_pinyin LIKE ? ESCAPE '\\' OR title_pinyin_abbr LIKE ? ESCAPE '\\' OR author_pinyin LIKE ? ESCAPE '\\' OR author_pinyin_abbr LIKE ? ESCAPE '\\'",
		pattern, pattern, pattern, pattern,
	)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes LIKE wildcards in user input match literally
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// isPinyinQuery checks if a query string is pinyin
func isPinyinQuery(s string) bool {
	if s == "" {
		return false
	}

	letterCount := 0
	totalCount := 0

	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		totalCount++
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			letterCount++
		}
	}

	// If more than 50% are ASCII letters, consider it pinyin
	return totalCount > 0 && float64(letterCount)/float64(totalCount) > 0.5
}
