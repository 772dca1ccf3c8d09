package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "trim", input: "  床前明月光  ", want: "床前明月光"},
		{name: "collapse whitespace", input: "床前\t\t明月光\n\n疑是地上霜", want: "床前 明月光 疑是地上霜"},
		{name: "nfc composition", input: "e\u0301", want: "\u00e9"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeText(tt.input))
		})
	}
}

func TestNormalizeTextArray(t *testing.T) {
	got := NormalizeTextArray([]string{" 李白 ", "", "   ", "杜  甫"})
	assert.Equal(t, []string{"李白", "杜 甫"}, got)
}

func TestNormalizeInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "windows line endings", input: "静夜思\r\n唐·李白\r\n", want: "静夜思\n唐·李白\n"},
		{name: "old mac line endings", input: "静夜思\r唐·李白", want: "静夜思\n唐·李白"},
		{name: "unicode separators", input: "静夜思\u2028唐·李白\u2029床前", want: "静夜思\n唐·李白\n床前"},
		{name: "trailing spaces removed", input: "静夜思   \n唐·李白\t", want: "静夜思\n唐·李白"},
		{name: "leading spaces kept", input: "  静夜思", want: "  静夜思"},
		{name: "blank lines kept", input: "a\n\n\nb", want: "a\n\n\nb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeInput(tt.input))
		})
	}
}

func TestTrimAllWhitespace(t *testing.T) {
	assert.Equal(t, "床前明月光", TrimAllWhitespace(" 床前\t明月\n光 "))
}

func TestContainsHan(t *testing.T) {
	assert.True(t, ContainsHan("hello 中"))
	assert.True(t, ContainsHan("詩"))
	assert.False(t, ContainsHan("hello, world"))
	assert.False(t, ContainsHan("，。"))
	assert.False(t, ContainsHan(""))
}

func TestIsHanOnly(t *testing.T) {
	assert.True(t, isHanOnly("李白"))
	assert.False(t, isHanOnly("李 白"))
	assert.False(t, isHanOnly("Li"))
	assert.False(t, isHanOnly(""))
}
