package classifier

// AnalyzePhrases segments content into phrases and computes their structural statistics
func AnalyzePhrases(content string) PhraseInfo {
	phrases := SplitIntoPhrases(content, true)
	if len(phrases) == 0 {
		return PhraseInfo{Phrases: []string{}, IsUniformLength: true}
	}

	lengths := make([]int, len(phrases))
	total := 0
	maxLen, minLen := 0, -1
	for i, phrase := range phrases {
		n := FilteredLength(phrase)
		lengths[i] = n
		total += n
		if n > maxLen {
			maxLen = n
		}
		if minLen < 0 || n < minLen {
			minLen = n
		}
	}

	return PhraseInfo{
		Phrases:         phrases,
		AverageLength:   safeRatio(total, len(phrases)),
		MaxLength:       maxLen,
		MinLength:       minLen,
		IsUniformLength: isUniform(lengths),
		ParallelRatio:   parallelRatio(phrases),
	}
}

// StructuralSimilarity scores how closely two phrases mirror each other.
// Positions are aligned rune by rune; a position matches when both runes are
// non-punctuation, or both are the same punctuation mark. The score is the number
// of matches divided by the longer length.
func StructuralSimilarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	longest := max(len(ra), len(rb))
	if longest == 0 {
		return 0
	}

	matches := 0
	for i := range min(len(ra), len(rb)) {
		pa, pb := IsPunctuation(ra[i]), IsPunctuation(rb[i])
		switch {
		case !pa && !pb:
			matches++
		case pa && pb && ra[i] == rb[i]:
			matches++
		}
	}

	return safeRatio(matches, longest)
}

// parallelRatio averages the similarity of each consecutive phrase pair
func parallelRatio(phrases []string) float64 {
	if len(phrases) < 2 {
		return 0
	}

	var sum float64
	for i := 1; i < len(phrases); i++ {
		sum += StructuralSimilarity(phrases[i-1], phrases[i])
	}
	return sum / float64(len(phrases)-1)
}

// isUniform checks if all integers in a slice are equal
func isUniform(nums []int) bool {
	if len(nums) == 0 {
		return true
	}
	first := nums[0]
	for _, n := range nums[1:] {
		if n != first {
			return false
		}
	}
	return true
}

// lengthShare returns the fraction of lengths equal to n
func lengthShare(lengths []int, n int) float64 {
	hits := 0
	for _, l := range lengths {
		if l == n {
			hits++
		}
	}
	return safeRatio(hits, len(lengths))
}

// distinctCount returns the number of distinct values in nums
func distinctCount(nums []int) int {
	seen := make(map[int]struct{}, len(nums))
	for _, n := range nums {
		seen[n] = struct{}{}
	}
	return len(seen)
}
