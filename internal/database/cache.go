package database

import (
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/vbauerster/mpb/v8"
)

// DefaultCacheSize is the number of analyses kept in memory
const DefaultCacheSize = 1024

// CachedRepository wraps Repository with caching for frequently accessed data
type CachedRepository struct {
	*Repository

	analyses *lru.Cache[int64, *Analysis]
	hits     atomic.Int64
	misses   atomic.Int64

	// Statistics are recomputed on the first read after a write
	statsCache   *Statistics
	statsCacheMu sync.RWMutex
}

// CacheStats reports the lookup counters of the analysis cache
type CacheStats struct {
	Size   int   `json:"size"`
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
}

// NewCachedRepository creates a new cached repository holding up to size analyses
func NewCachedRepository(repo *Repository, size int) (*CachedRepository, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[int64, *Analysis](size)
	if err != nil {
		return nil, err
	}
	return &CachedRepository{
		Repository: repo,
		analyses:   cache,
	}, nil
}

// GetAnalysisByID gets an analysis with caching. Callers receive a copy.
func (r *CachedRepository) GetAnalysisByID(id int64) (*Analysis, error) {
	if cached, ok := r.analyses.Get(id); ok {
		r.hits.Add(1)
		clone := *cached
		return &clone, nil
	}
	r.misses.Add(1)

	analysis, err := r.Repository.GetAnalysisByID(id)
	if err != nil {
		return nil, err
	}

	clone := *analysis
	r.analyses.Add(id, &clone)
	return analysis, nil
}

// SaveAnalysis saves through to the database and refreshes the cached record
func (r *CachedRepository) SaveAnalysis(analysis *Analysis) error {
	if err := r.Repository.SaveAnalysis(analysis); err != nil {
		r.analyses.Remove(analysis.ID)
		return err
	}
	clone := *analysis
	r.analyses.Add(analysis.ID, &clone)
	r.invalidateStats()
	return nil
}

// BatchInsertAnalyses inserts through to the database
func (r *CachedRepository) BatchInsertAnalyses(analyses []*Analysis, batchSize int) error {
	defer r.invalidateStats()
	return r.Repository.BatchInsertAnalyses(analyses, batchSize)
}

// BatchInsertAnalysesWithTransaction inserts through to the database
func (r *CachedRepository) BatchInsertAnalysesWithTransaction(analyses []*Analysis, transactionSize, batchSize int, progress *mpb.Progress) error {
	defer r.invalidateStats()
	return r.Repository.BatchInsertAnalysesWithTransaction(analyses, transactionSize, batchSize, progress)
}

// DeleteAnalysis deletes from the database and evicts the cached record
func (r *CachedRepository) DeleteAnalysis(id int64) error {
	r.analyses.Remove(id)
	err := r.Repository.DeleteAnalysis(id)
	if err == nil {
		r.invalidateStats()
	}
	return err
}

// GetStatistics returns overall statistics, cached until the next write
func (r *CachedRepository) GetStatistics() (*Statistics, error) {
	r.statsCacheMu.RLock()
	if r.statsCache != nil {
		stats := r.statsCache
		r.statsCacheMu.RUnlock()
		return stats, nil
	}
	r.statsCacheMu.RUnlock()

	stats, err := r.Repository.GetStatistics()
	if err != nil {
		return nil, err
	}

	r.statsCacheMu.Lock()
	r.statsCache = stats
	r.statsCacheMu.Unlock()

	return stats, nil
}

// CacheStats returns the current cache counters
func (r *CachedRepository) CacheStats() CacheStats {
	return CacheStats{
		Size:   r.analyses.Len(),
		Hits:   r.hits.Load(),
		Misses: r.misses.Load(),
	}
}

// ClearCache empties both caches
func (r *CachedRepository) ClearCache() {
	r.analyses.Purge()
	r.invalidateStats()
}

func (r *CachedRepository) invalidateStats() {
	r.statsCacheMu.Lock()
	r.statsCache = nil
	r.statsCacheMu.Unlock()
}
