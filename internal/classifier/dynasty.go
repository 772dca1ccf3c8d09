package classifier

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// DynastyInfo contains information about a dynasty
type DynastyInfo struct {
	Name      string
	NameEn    string
	StartYear *int
	EndYear   *int
}

var dynasties = map[string]DynastyInfo{
	"先秦":  {Name: "先秦", NameEn: "Pre-Qin", StartYear: intPtr(-2070), EndYear: intPtr(-221)},
	"秦":   {Name: "秦", NameEn: "Qin", StartYear: intPtr(-221), EndYear: intPtr(-207)},
	"汉":   {Name: "汉", NameEn: "Han", StartYear: intPtr(-206), EndYear: intPtr(220)},
	"两汉":  {Name: "两汉", NameEn: "Han", StartYear: intPtr(-206), EndYear: intPtr(220)},
	"西汉":  {Name: "西汉", NameEn: "Western Han", StartYear: intPtr(-206), EndYear: intPtr(8)},
	"东汉":  {Name: "东汉", NameEn: "Eastern Han", StartYear: intPtr(25), EndYear: intPtr(220)},
	"三国":  {Name: "三国", NameEn: "Three Kingdoms", StartYear: intPtr(220), EndYear: intPtr(280)},
	"魏":   {Name: "魏", NameEn: "Wei", StartYear: intPtr(220), EndYear: intPtr(266)},
	"晋":   {Name: "晋", NameEn: "Jin", StartYear: intPtr(266), EndYear: intPtr(420)},
	"魏晋":  {Name: "魏晋", NameEn: "Wei-Jin", StartYear: intPtr(220), EndYear: intPtr(420)},
	"南北朝": {Name: "南北朝", NameEn: "Northern and Southern", StartYear: intPtr(420), EndYear: intPtr(589)},
	"南朝":  {Name: "南朝", NameEn: "Southern Dynasties", StartYear: intPtr(420), EndYear: intPtr(589)},
	"北朝":  {Name: "北朝", NameEn: "Northern Dynasties", StartYear: intPtr(386), EndYear: intPtr(581)},
	"隋":   {Name: "隋", NameEn: "Sui", StartYear: intPtr(581), EndYear: intPtr(618)},
	"唐":   {Name: "唐", NameEn: "Tang", StartYear: intPtr(618), EndYear: intPtr(907)},
	"五代":  {Name: "五代", NameEn: "Five Dynasties", StartYear: intPtr(907), EndYear: intPtr(960)},
	"宋":   {Name: "宋", NameEn: "Song", StartYear: intPtr(960), EndYear: intPtr(1279)},
	"北宋":  {Name: "北宋", NameEn: "Northern Song", StartYear: intPtr(960), EndYear: intPtr(1127)},
	"南宋":  {Name: "南宋", NameEn: "Southern Song", StartYear: intPtr(1127), EndYear: intPtr(1279)},
	"辽":   {Name: "辽", NameEn: "Liao", StartYear: intPtr(916), EndYear: intPtr(1125)},
	"金":   {Name: "金", NameEn: "Jin (Jurchen)", StartYear: intPtr(1115), EndYear: intPtr(1234)},
	"元":   {Name: "元", NameEn: "Yuan", StartYear: intPtr(1271), EndYear: intPtr(1368)},
	"明":   {Name: "明", NameEn: "Ming", StartYear: intPtr(1368), EndYear: intPtr(1644)},
	"清":   {Name: "清", NameEn: "Qing", StartYear: intPtr(1644), EndYear: intPtr(1912)},
	"近代":  {Name: "近代", NameEn: "Modern", StartYear: intPtr(1840), EndYear: intPtr(1949)},
	"现代":  {Name: "现代", NameEn: "Contemporary", StartYear: intPtr(1919)},
}

// dynastyNames holds the keys of dynasties, longest first, for prefix matching
var dynastyNames = func() []string {
	names := make([]string, 0, len(dynasties))
	for name := range dynasties {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		li, lj := utf8.RuneCountInString(names[i]), utf8.RuneCountInString(names[j])
		if li != lj {
			return li > lj
		}
		return names[i] < names[j]
	})
	return names
}()

// dynastySuffixes may follow a dynasty name, as in 唐代 or 宋朝
var dynastySuffixes = []string{"代", "朝"}

// GetDynastyInfo returns information about a dynasty by name
func GetDynastyInfo(name string) DynastyInfo {
	if info, ok := LookupDynasty(name); ok {
		return info
	}

	return DynastyInfo{
		Name:   "其他",
		NameEn: "Other",
	}
}

// LookupDynasty resolves a dynasty token such as 唐, 唐代 or 南宋.
// The whole token must be consumed.
func LookupDynasty(token string) (DynastyInfo, bool) {
	name, rest, ok := cutDynastyPrefix(strings.TrimSpace(token))
	if !ok || rest != "" {
		return DynastyInfo{}, false
	}
	return dynasties[name], true
}

// cutDynastyPrefix strips the longest dynasty name (with optional 代/朝 suffix)
// from the start of s
func cutDynastyPrefix(s string) (name, rest string, ok bool) {
	for _, candidate := range dynastyNames {
		after, found := strings.CutPrefix(s, candidate)
		if !found {
			continue
		}
		for _, suffix := range dynastySuffixes {
			if trimmed, cut := strings.CutPrefix(after, suffix); cut {
				after = trimmed
				break
			}
		}
		return candidate, after, true
	}
	return "", s, false
}

func intPtr(i int) *int {
	return &i
}
