package classifier

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// DefaultMaxTitleLength bounds the rune length of a title line
	DefaultMaxTitleLength = 20

	// maxTitleLineIndex is the last line index a title may start on
	maxTitleLineIndex = 1

	// A name line without dynasty is accepted only within these rune bounds
	minBareAuthorLength = 2
	maxBareAuthorLength = 4
)

const (
	openBracket  = `[〔【\[［(（]`
	closeBracket = `[〕】\]］)）]`
	separator    = `[·・•‧:：]`
	authorName   = `(\p{Han}{1,4})`
)

// attributionPattern matches author lines such as 唐·李白, 〔唐〕李白, 李白（唐）,
// 唐代：李白 and 作者：李白
var attributionPattern = func() *regexp.Regexp {
	quoted := make([]string, len(dynastyNames))
	for i, name := range dynastyNames {
		quoted[i] = regexp.QuoteMeta(name)
	}
	dynasty := `(` + strings.Join(quoted, "|") + `)(?:代|朝)?`

	forms := []string{
		openBracket + `\s*` + dynasty + `\s*` + closeBracket + `\s*` + separator + `?\s*` + authorName,
		dynasty + `\s*` + separator + `\s*` + authorName,
		dynasty + `\s+` + authorName,
		authorName + `\s*` + openBracket + `\s*` + dynasty + `\s*` + closeBracket,
		`作者\s*[:：]\s*` + authorName,
	}
	return regexp.MustCompile(`^(?:` + strings.Join(forms, "|") + `)$`)
}()

// MetadataExtractor detects a title/author header at the start of a text
type MetadataExtractor struct {
	MaxTitleLength int
}

// NewMetadataExtractor creates an extractor with the given title length limit
func NewMetadataExtractor(maxTitleLength int) *MetadataExtractor {
	if maxTitleLength <= 0 {
		maxTitleLength = DefaultMaxTitleLength
	}
	return &MetadataExtractor{MaxTitleLength: maxTitleLength}
}

// ExtractMetadata runs the default extractor over lines
func ExtractMetadata(lines []string) (*Metadata, string) {
	return NewMetadataExtractor(DefaultMaxTitleLength).Extract(lines)
}

// Extract scans the leading lines for a title and attribution. Matched lines are
// removed from the returned content. Anything ambiguous yields nil metadata and
// the lines joined unchanged.
func (e *MetadataExtractor) Extract(lines []string) (*Metadata, string) {
	unchanged := strings.Join(lines, "\n")

	first := firstNonEmpty(lines)
	if first < 0 || first > maxTitleLineIndex {
		return nil, unchanged
	}
	head := strings.TrimSpace(lines[first])

	// Attribution on the first line with no title
	if author, dynasty, ok := parseAttribution(head); ok {
		meta := &Metadata{
			Author:          author,
			Dynasty:         dynasty,
			TitleLineIndex:  -1,
			AuthorLineIndex: first,
		}
		return e.strip(lines, meta, unchanged)
	}

	title, bracketed, ok := e.parseTitle(head)
	if !ok {
		return nil, unchanged
	}

	if next := first + 1; next < len(lines) {
		if author, dynasty, ok := parseAttribution(strings.TrimSpace(lines[next])); ok {
			meta := &Metadata{
				Title:           title,
				Author:          author,
				Dynasty:         dynasty,
				TitleLineIndex:  first,
				AuthorLineIndex: next,
			}
			return e.strip(lines, meta, unchanged)
		}
		if author, ok := parseBareAuthor(lines, next); ok {
			meta := &Metadata{
				Title:           title,
				Author:          author,
				TitleLineIndex:  first,
				AuthorLineIndex: next,
			}
			return e.strip(lines, meta, unchanged)
		}
	}

	if !bracketed {
		return nil, unchanged
	}

	meta := &Metadata{
		Title:           title,
		TitleLineIndex:  first,
		AuthorLineIndex: -1,
	}
	return e.strip(lines, meta, unchanged)
}

// parseTitle checks whether line can be a title. bracketed is true for 《》 titles.
func (e *MetadataExtractor) parseTitle(line string) (title string, bracketed bool, ok bool) {
	if line == "" || hasSentencePunctuation(line) {
		return "", false, false
	}
	if utf8.RuneCountInString(line) > e.MaxTitleLength {
		return "", false, false
	}

	if inner, found := strings.CutPrefix(line, "《"); found {
		if inner, found = strings.CutSuffix(inner, "》"); found {
			inner = strings.TrimSpace(inner)
			if inner != "" && !strings.ContainsAny(inner, "《》") && ContainsHan(inner) {
				return inner, true, true
			}
			return "", false, false
		}
	}

	if !ContainsHan(line) {
		return "", false, false
	}
	return line, false, true
}

// strip removes the matched lines. A header with no body left is not metadata.
func (e *MetadataExtractor) strip(lines []string, meta *Metadata, unchanged string) (*Metadata, string) {
	remaining := make([]string, 0, len(lines))
	for i, line := range lines {
		if i == meta.TitleLineIndex || i == meta.AuthorLineIndex {
			continue
		}
		remaining = append(remaining, line)
	}

	content := strings.Join(remaining, "\n")
	if strings.TrimSpace(content) == "" {
		return nil, unchanged
	}
	return meta, content
}

// parseAttribution extracts author and dynasty from an attribution line
func parseAttribution(line string) (author, dynasty string, ok bool) {
	if line == "" || utf8.RuneCountInString(line) > 16 {
		return "", "", false
	}

	m := attributionPattern.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}

	// Submatches come in (dynasty, author) pairs except for the reversed form and
	// the bare 作者 form
	switch {
	case m[2] != "":
		dynasty, author = m[1], m[2]
	case m[4] != "":
		dynasty, author = m[3], m[4]
	case m[6] != "":
		dynasty, author = m[5], m[6]
	case m[7] != "":
		author, dynasty = m[7], m[8]
	case m[9] != "":
		author = m[9]
	default:
		return "", "", false
	}

	if !isHanOnly(author) {
		return "", "", false
	}
	return author, dynasty, true
}

// parseBareAuthor accepts a line holding only a 2-4 character Han name when the
// line right after it is punctuated body text, as in 静夜思 / 李白 / 床前明月光，…
func parseBareAuthor(lines []string, i int) (string, bool) {
	name := strings.TrimSpace(lines[i])
	if n := utf8.RuneCountInString(name); n < minBareAuthorLength || n > maxBareAuthorLength || !isHanOnly(name) {
		return "", false
	}
	if i+1 >= len(lines) || !hasSentencePunctuation(lines[i+1]) {
		return "", false
	}
	return name, true
}

// firstNonEmpty returns the index of the first line with visible content
func firstNonEmpty(lines []string) int {
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			return i
		}
	}
	return -1
}
