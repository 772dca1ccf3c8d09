package database

import "github.com/palemoky/chinese-genre-classifier/internal/classifier"

// Statistics and counting methods

// CountAnalyses returns the total number of stored analyses
func (r *Repository) CountAnalyses() (int, error) {
	var count int64
	err := r.db.Model(&Analysis{}).Count(&count).Error
	return int(count), err
}

// CountAuthors returns the number of distinct attributed authors
func (r *Repository) CountAuthors() (int, error) {
	var count int64
	err := r.db.Model(&Analysis{}).
		Where("author IS NOT NULL").
		Distinct("author").
		Count(&count).Error
	return int(count), err
}

// GetStatistics returns overall statistics
func (r *Repository) GetStatistics() (*Statistics, error) {
	stats := &Statistics{
		ByGenre:   []GenreCount{},
		ByDynasty: []DynastyCount{},
		ByLang:    []LangCount{},
	}

	var err error
	stats.TotalAnalyses, err = r.CountAnalyses()
	if err != nil {
		return nil, err
	}

	stats.TotalAuthors, err = r.CountAuthors()
	if err != nil {
		return nil, err
	}

	var hits struct{ Total int }
	err = r.db.Model(&Analysis{}).Select("COALESCE(SUM(hit_count), 0) as total").Scan(&hits).Error
	if err != nil {
		return nil, err
	}
	stats.TotalHits = hits.Total

	// Every genre is reported, including those with no analyses yet
	var genreRows []struct {
		Genre string
		Count int
	}
	err = r.db.Model(&Analysis{}).
		Select("genre, COUNT(*) as count").
		Group("genre").
		Scan(&genreRows).Error
	if err != nil {
		return nil, err
	}
	byGenre := make(map[string]int, len(genreRows))
	for _, row := range genreRows {
		byGenre[row.Genre] = row.Count
	}
	for _, g := range classifier.AllGenres {
		stats.ByGenre = append(stats.ByGenre, GenreCount{
			Genre:       g.String(),
			DisplayName: g.DisplayName(),
			Count:       byGenre[g.String()],
		})
	}

	var dynastyRows []struct {
		Dynasty string
		Count   int
	}
	err = r.db.Model(&Analysis{}).
		Select("dynasty, COUNT(*) as count").
		Where("dynasty IS NOT NULL").
		Group("dynasty").
		Order("count DESC").
		Scan(&dynastyRows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range dynastyRows {
		info := classifier.GetDynastyInfo(row.Dynasty)
		stats.ByDynasty = append(stats.ByDynasty, DynastyCount{
			Dynasty:   row.Dynasty,
			NameEn:    info.NameEn,
			StartYear: info.StartYear,
			Count:     row.Count,
		})
	}

	err = r.db.Model(&Analysis{}).
		Select("lang, COUNT(*) as count").
		Group("lang").
		Order("lang").
		Scan(&stats.ByLang).Error
	if err != nil {
		return nil, err
	}

	return stats, nil
}
