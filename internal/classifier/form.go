package classifier

// Verse form names
const (
	FormWuyanJueju = "五言绝句"
	FormQiyanJueju = "七言绝句"
	FormWuyanLvshi = "五言律诗"
	FormQiyanLvshi = "七言律诗"
	FormWuyanGushi = "五言古诗"
	FormQiyanGushi = "七言古诗"
	FormCi         = "词"
	FormOther      = "其他"

	JuejuLines = 4
	LvshiLines = 8
)

// FormInfo refines a poetry or lyrics classification into a named verse form
type FormInfo struct {
	Name         string `json:"name"`
	Lines        *int   `json:"lines,omitempty"`
	CharsPerLine *int   `json:"chars_per_line,omitempty"`
	Tune         string `json:"tune,omitempty"` // 词牌名
}

// DetectForm names the verse form of a classified text. Poetry is refined by line
// count and characters per line; lyrics carry the tune name when the title has
// one (水调歌头·明月几时有 → 水调歌头). Other genres yield FormOther.
func DetectForm(a TextAnalysis) FormInfo {
	switch a.Genre {
	case GenrePoetry:
		return poetryForm(a.PhraseInfo.Lengths())
	case GenreLyrics:
		info := FormInfo{Name: FormCi}
		if a.Metadata.HasTitle() {
			info.Tune = TuneOf(a.Metadata.Title)
		}
		return info
	default:
		return FormInfo{Name: FormOther}
	}
}

// poetryForm classifies poetry based on line count and characters per line
func poetryForm(lengths []int) FormInfo {
	if len(lengths) == 0 || !isUniform(lengths) {
		return FormInfo{Name: FormOther}
	}

	lines := len(lengths)
	chars := lengths[0]

	var name string
	switch {
	case lines == JuejuLines && chars == WuyanChars:
		name = FormWuyanJueju
	case lines == JuejuLines && chars == QiyanChars:
		name = FormQiyanJueju
	case lines == LvshiLines && chars == WuyanChars:
		name = FormWuyanLvshi
	case lines == LvshiLines && chars == QiyanChars:
		name = FormQiyanLvshi
	case chars == WuyanChars:
		name = FormWuyanGushi
	case chars == QiyanChars:
		name = FormQiyanGushi
	default:
		return FormInfo{Name: FormOther}
	}

	return FormInfo{Name: name, Lines: &lines, CharsPerLine: &chars}
}
