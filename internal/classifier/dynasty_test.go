package classifier

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupDynasty(t *testing.T) {
	tests := []struct {
		token  string
		want   string
		wantOK bool
	}{
		{"唐", "唐", true},
		{"唐代", "唐", true},
		{"宋朝", "宋", true},
		{"南宋", "南宋", true},
		{"魏晋", "魏晋", true},
		{" 清 ", "清", true},
		{"唐诗", "", false},
		{"英国", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			info, ok := LookupDynasty(tt.token)
			require.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, info.Name)
		})
	}
}

func TestGetDynastyInfo(t *testing.T) {
	tang := GetDynastyInfo("唐")
	assert.Equal(t, "Tang", tang.NameEn)
	require.NotNil(t, tang.StartYear)
	require.NotNil(t, tang.EndYear)
	assert.Equal(t, 618, *tang.StartYear)
	assert.Equal(t, 907, *tang.EndYear)

	modern := GetDynastyInfo("现代")
	assert.Nil(t, modern.EndYear)

	unknown := GetDynastyInfo("未知")
	assert.Equal(t, "其他", unknown.Name)
	assert.Equal(t, "Other", unknown.NameEn)
	assert.Nil(t, unknown.StartYear)
}

func TestDynastyNamesLongestFirst(t *testing.T) {
	for i := 1; i < len(dynastyNames); i++ {
		assert.GreaterOrEqual(t,
			utf8.RuneCountInString(dynastyNames[i-1]),
			utf8.RuneCountInString(dynastyNames[i]),
		)
	}
	assert.Len(t, dynastyNames, len(dynasties))
}
