package classifier

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"
)

// MarkerSet is an immutable set of lexical marker tokens
type MarkerSet struct {
	name    string
	markers []string
}

// NewMarkerSet builds a marker set, dropping blanks and duplicates
func NewMarkerSet(name string, markers ...string) MarkerSet {
	seen := make(map[string]struct{}, len(markers))
	cleaned := make([]string, 0, len(markers))
	for _, m := range markers {
		m = strings.TrimSpace(m)
		if m == "" {
			continue
		}
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		cleaned = append(cleaned, m)
	}
	slices.Sort(cleaned)

	return MarkerSet{name: name, markers: cleaned}
}

// Name returns the set name
func (s MarkerSet) Name() string {
	return s.name
}

// Markers returns a copy of the marker tokens
func (s MarkerSet) Markers() []string {
	return slices.Clone(s.markers)
}

// Len returns the number of markers
func (s MarkerSet) Len() int {
	return len(s.markers)
}

// Contains reports whether token is one of the markers
func (s MarkerSet) Contains(token string) bool {
	_, found := slices.BinarySearch(s.markers, token)
	return found
}

// Ratio returns the share of content attributable to marker occurrences.
// Punctuation is removed and the text trimmed first; every occurrence of every
// marker counts. The result is clamped to [0, 1].
func (s MarkerSet) Ratio(content string) float64 {
	cleaned := removePunctuation(content)
	total := utf8.RuneCountInString(cleaned)
	if total == 0 {
		return 0
	}

	hits := 0
	for _, m := range s.markers {
		hits += strings.Count(cleaned, m)
	}

	return min(safeRatio(hits, total), 1)
}

// overlap returns the tokens present in both sets
func (s MarkerSet) overlap(other MarkerSet) []string {
	var shared []string
	for _, m := range s.markers {
		if other.Contains(m) {
			shared = append(shared, m)
		}
	}
	return shared
}

// DefaultClassicalMarkers are function words typical of literary Chinese
var DefaultClassicalMarkers = NewMarkerSet("classical",
	"之", "乎", "者", "也", "矣", "焉", "哉", "兮", "其", "而",
	"何", "乃", "亦", "于", "於", "夫", "盖", "耳", "尔", "曰",
	"吾", "汝", "若", "犹", "岂", "欤", "耶", "遂", "皆", "莫",
	"否",
)

// DefaultModernMarkers are particles and function words of vernacular Chinese
var DefaultModernMarkers = NewMarkerSet("modern",
	"的", "了", "吗", "呢", "吧", "啊", "呀", "嘛", "们", "这",
	"那", "哪", "着", "很", "都", "就是", "什么", "怎么", "没有",
	"因为", "所以", "但是", "已经", "可以", "我们", "你们", "他们",
	"这个", "那个", "自己", "现在", "觉得", "知道", "表示", "进行",
)

// LexicalAnalyzer computes classical and modern marker ratios
type LexicalAnalyzer struct {
	classical MarkerSet
	modern    MarkerSet
}

// NewLexicalAnalyzer creates an analyzer over two disjoint marker sets
func NewLexicalAnalyzer(classical, modern MarkerSet) (*LexicalAnalyzer, error) {
	if classical.Len() == 0 || modern.Len() == 0 {
		return nil, fmt.Errorf("marker sets must not be empty")
	}
	if shared := classical.overlap(modern); len(shared) > 0 {
		return nil, fmt.Errorf("marker sets overlap: %s", strings.Join(shared, ", "))
	}
	return &LexicalAnalyzer{classical: classical, modern: modern}, nil
}

// Analyze computes both ratios over content
func (l *LexicalAnalyzer) Analyze(content string) LinguisticInfo {
	return LinguisticInfo{
		ClassicalRatio: l.classical.Ratio(content),
		ModernRatio:    l.modern.Ratio(content),
	}
}
