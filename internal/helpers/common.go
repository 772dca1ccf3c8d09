// Package helpers holds small parsing helpers shared by the REST API and the CLI.
package helpers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/palemoky/chinese-genre-classifier/internal/classifier"
	"github.com/palemoky/chinese-genre-classifier/internal/database"
)

// ParseOptionalInt64 parses a string pointer to int64 pointer
// Returns nil if the string is nil or empty
func ParseOptionalInt64(s *string) (*int64, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(*s, 10, 64)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// ParseAnalysisID parses a positive analysis ID
func ParseAnalysisID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid analysis id %q", s)
	}
	return id, nil
}

// OptionalString returns nil for blank input and a trimmed copy otherwise
func OptionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// ParseGenreFilter converts a genre name in any accepted spelling to its
// canonical form. Blank input yields nil.
func ParseGenreFilter(s string) (*string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	g, ok := classifier.ParseGenre(s)
	if !ok {
		return nil, fmt.Errorf("unknown genre %q", s)
	}
	name := g.String()
	return &name, nil
}

// ParseLangString converts string to Lang enum
// Supports "zh-Hans" (simplified) and "zh-Hant" (traditional)
// Defaults to simplified Chinese
func ParseLangString(langStr string) database.Lang {
	return database.ParseLang(langStr)
}

// ParseLangFilter converts an optional language query to a filter value
func ParseLangFilter(langStr string) *database.Lang {
	if strings.TrimSpace(langStr) == "" {
		return nil
	}
	lang := database.ParseLang(langStr)
	return &lang
}

// FilterParams holds the raw filter values of a list request
type FilterParams struct {
	Genre   string
	Dynasty string
	Author  string
	Dataset string
	Lang    string
}

// BuildAnalysisFilter validates raw filter values and builds a repository filter
func BuildAnalysisFilter(p FilterParams) (database.AnalysisFilter, error) {
	genre, err := ParseGenreFilter(p.Genre)
	if err != nil {
		return database.AnalysisFilter{}, err
	}
	return database.AnalysisFilter{
		Genre:   genre,
		Dynasty: OptionalString(p.Dynasty),
		Author:  OptionalString(p.Author),
		Dataset: OptionalString(p.Dataset),
		Lang:    ParseLangFilter(p.Lang),
	}, nil
}

// Pagination represents pagination parameters
type Pagination struct {
	Page     int
	PageSize int
}

// NewPagination creates a new Pagination with validation
// Ensures page >= 1, pageSize between 1-100, defaults to page=1, pageSize=20
func NewPagination(page, pageSize int) *Pagination {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return &Pagination{
		Page:     page,
		PageSize: pageSize,
	}
}

// Offset calculates the database offset for the current page
func (p *Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// TotalPages returns the number of pages needed for total items
func (p *Pagination) TotalPages(total int) int {
	return (total + p.PageSize - 1) / p.PageSize
}
