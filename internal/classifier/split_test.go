package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		separators []string
		want       []string
	}{
		{
			name:  "empty input",
			input: "",
			want:  []string{""},
		},
		{
			name:  "newline separated",
			input: "两个黄鹂鸣翠柳，一行白鹭上青天。\n窗含西岭千秋雪，门泊东吴万里船。",
			want:  []string{"两个黄鹂鸣翠柳，一行白鹭上青天。", "窗含西岭千秋雪，门泊东吴万里船。"},
		},
		{
			name:  "blank lines kept when several lines exist",
			input: "春眠不觉晓\n\n处处闻啼鸟",
			want:  []string{"春眠不觉晓", "", "处处闻啼鸟"},
		},
		{
			name:  "single line resplit on full stop",
			input: "学而时习之，不亦说乎。有朋自远方来，不亦乐乎。人不知而不愠，不亦君子乎。",
			want:  []string{"学而时习之，不亦说乎", "有朋自远方来，不亦乐乎", "人不知而不愠，不亦君子乎"},
		},
		{
			name:  "single line without full stop",
			input: "床前明月光",
			want:  []string{"床前明月光"},
		},
		{
			name:  "single line among blank lines",
			input: "床前明月光\n\n",
			want:  []string{"床前明月光", "", ""},
		},
		{
			name:  "trailing newline keeps the empty display line",
			input: "床前明月光\n",
			want:  []string{"床前明月光", ""},
		},
		{
			name:  "leading blank line before a single line",
			input: "\n床前明月光",
			want:  []string{"", "床前明月光"},
		},
		{
			name:       "custom separators applied in turn",
			input:      "a|b;c",
			separators: []string{"|", ";"},
			want:       []string{"a", "b", "c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitLines(tt.input, tt.separators...))
		})
	}
}

func TestSplitIntoPhrases(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		omitEmpty bool
		want      []string
	}{
		{
			name:      "poem couplet",
			input:     "床前明月光，疑是地上霜。",
			omitEmpty: true,
			want:      []string{"床前明月光", "疑是地上霜"},
		},
		{
			name:      "keeps trailing empty phrase",
			input:     "床前明月光，疑是地上霜。",
			omitEmpty: false,
			want:      []string{"床前明月光", "疑是地上霜", ""},
		},
		{
			name:      "mixed width punctuation",
			input:     "知否,知否?应是绿肥红瘦!",
			omitEmpty: true,
			want:      []string{"知否", "知否", "应是绿肥红瘦"},
		},
		{
			name:      "phrases are trimmed",
			input:     " 春眠不觉晓 ；\n 处处闻啼鸟 ",
			omitEmpty: true,
			want:      []string{"春眠不觉晓", "处处闻啼鸟"},
		},
		{
			name:      "empty input",
			input:     "",
			omitEmpty: true,
			want:      []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitIntoPhrases(tt.input, tt.omitEmpty))
		})
	}
}

func TestCompoundSplitSkipsEmptySeparator(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, compoundSplit("a,b", []string{"", ","}))
}
