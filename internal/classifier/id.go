package classifier

import (
	"hash/fnv"
	"strings"
)

// GenerateStableAnalysisID derives a positive numeric ID from text.
// Leading/trailing whitespace and line endings do not change the ID, so the same
// text submitted twice maps to the same stored analysis.
func GenerateStableAnalysisID(text string) int64 {
	key := strings.TrimSpace(NormalizeInput(text))

	// FNV-1a is fast and stable across runs
	h := fnv.New64a()
	h.Write([]byte(key))

	// Clear the sign bit
	return int64(h.Sum64() & 0x7FFFFFFFFFFFFFFF)
}
