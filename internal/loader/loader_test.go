package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/chinese-genre-classifier/internal/classifier"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// setupCorpus writes a small corpus and returns the path of its datas.json
func setupCorpus(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	writeFile(t, filepath.Join(root, "data", "tang", "poet.tang.0.json"), `[
		{"id": "t1", "title": "静夜思", "author": "李白", "paragraphs": ["床前明月光，疑是地上霜。", "举头望明月，低头思故乡。"]},
		{"id": "t2", "title": "空", "author": "佚名", "paragraphs": []}
	]`)
	writeFile(t, filepath.Join(root, "data", "tang", "authors.tang.json"), `[{"name": "李白"}]`)
	writeFile(t, filepath.Join(root, "data", "tang", "broken.json"), `{not json`)
	writeFile(t, filepath.Join(root, "data", "songci.json"), `[
		{"rhythmic": "水调歌头", "author": "苏轼", "paragraphs": ["明月几时有？把酒问青天。"]}
	]`)
	writeFile(t, filepath.Join(root, "data", "lunyu", "xueer.json"), `[
		{"title": "学而", "para": ["学而时习之，不亦说乎。"]}
	]`)
	writeFile(t, filepath.Join(root, "data", "lunyu", "readme.txt"), "子曰：巧言令色，鲜矣仁。\n")
	writeFile(t, filepath.Join(root, "data", "modern", "news.json"), `[
		{"title": "新闻", "content": "今天上午我们的记者来到了这个城市。"}
	]`)

	writeFile(t, filepath.Join(root, "loader", "datas.json"), `{
		"cp_path": "../data",
		"datasets": {
			"tangsong": {"name": "全唐诗", "id": 1, "path": "tang", "tag": "paragraphs", "excludes": ["authors.tang.json"]},
			"songci": {"name": "宋词", "id": 2, "path": "songci.json", "tag": "paragraphs"},
			"lunyu": {"name": "论语", "id": 3, "path": "lunyu", "tag": "para"},
			"modern": {"name": "新闻", "id": 4, "path": "modern", "tag": "content", "genre": "plain", "dynasty": "现代"}
		}
	}`)

	return filepath.Join(root, "loader", "datas.json")
}

func TestNewJSONLoader(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := NewJSONLoader(filepath.Join(t.TempDir(), "datas.json"))
		assert.Error(t, err)
	})

	t.Run("invalid json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "datas.json")
		writeFile(t, path, "{")
		_, err := NewJSONLoader(path)
		assert.Error(t, err)
	})

	t.Run("unknown genre", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "datas.json")
		writeFile(t, path, `{"datasets": {"x": {"path": "x", "genre": "novel"}}}`)
		_, err := NewJSONLoader(path)
		assert.ErrorContains(t, err, "novel")
	})

	t.Run("dataset keys sorted", func(t *testing.T) {
		l, err := NewJSONLoader(setupCorpus(t))
		require.NoError(t, err)
		assert.Equal(t, []string{"lunyu", "modern", "songci", "tangsong"}, l.DatasetKeys())
	})
}

func TestLoadAll(t *testing.T) {
	l, err := NewJSONLoader(setupCorpus(t))
	require.NoError(t, err)

	docs, err := l.LoadAll()
	require.NoError(t, err)

	byKey := map[string][]Document{}
	for _, d := range docs {
		byKey[d.DatasetKey] = append(byKey[d.DatasetKey], d)
	}

	// Empty paragraphs, excluded files and broken files are skipped
	require.Len(t, byKey["tangsong"], 1)
	tang := byKey["tangsong"][0]
	assert.Equal(t, "静夜思", tang.Title)
	assert.Equal(t, "唐", tang.Dynasty)
	assert.Equal(t, classifier.GenrePoetry, tang.ExpectedGenre)
	assert.Equal(t, "静夜思\n唐·李白\n床前明月光，疑是地上霜。\n举头望明月，低头思故乡。", tang.Text())

	require.Len(t, byKey["songci"], 1)
	ci := byKey["songci"][0]
	assert.Equal(t, "水调歌头", ci.Heading())
	assert.Equal(t, classifier.GenreLyrics, ci.ExpectedGenre)
	assert.Equal(t, "水调歌头\n宋·苏轼\n明月几时有？把酒问青天。", ci.Text())

	require.Len(t, byKey["lunyu"], 2)
	for _, d := range byKey["lunyu"] {
		assert.Equal(t, classifier.GenreProse, d.ExpectedGenre)
		assert.Equal(t, "先秦", d.Dynasty)
	}

	require.Len(t, byKey["modern"], 1)
	news := byKey["modern"][0]
	assert.Equal(t, classifier.GenrePlain, news.ExpectedGenre)
	assert.Equal(t, "现代", news.Dynasty)
	assert.Equal(t, "今天上午我们的记者来到了这个城市。", news.Content)
	// Without an author there is no attribution header
	assert.Equal(t, "今天上午我们的记者来到了这个城市。", news.Text())
}

func TestLoadSelectedDatasets(t *testing.T) {
	l, err := NewJSONLoader(setupCorpus(t))
	require.NoError(t, err)

	docs, err := l.Load("songci")
	require.NoError(t, err)
	assert.Len(t, docs, 1)

	_, err = l.Load("missing")
	assert.ErrorContains(t, err, "unknown dataset")
}

func TestLoadMissingPath(t *testing.T) {
	root := t.TempDir()
	config := filepath.Join(root, "datas.json")
	writeFile(t, config, `{"datasets": {"gone": {"path": "nowhere"}}}`)

	l, err := NewJSONLoader(config)
	require.NoError(t, err)

	_, err = l.LoadAll()
	assert.ErrorContains(t, err, "gone")
}

func TestLoadBrokenSingleFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "broken.json"), "[{")
	config := filepath.Join(root, "datas.json")
	writeFile(t, config, `{"datasets": {"broken": {"path": "broken.json"}}}`)

	l, err := NewJSONLoader(config)
	require.NoError(t, err)

	_, err = l.LoadAll()
	assert.Error(t, err)
}

func TestDocumentLabelled(t *testing.T) {
	assert.True(t, Document{ExpectedGenre: classifier.GenreProse}.Labelled())
	assert.False(t, Document{}.Labelled())
}

func TestInferDynasty(t *testing.T) {
	tests := []struct {
		key, name, want string
	}{
		{"songci", "", "宋"},
		{"caocao", "", "魏晋"},
		{"custom", "明诗选", "明"},
		{"custom", "unknown", ""},
	}

	for _, tt := range tests {
		t.Run(tt.key+tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, inferDynasty(tt.key, tt.name))
		})
	}
}

func TestLoadNormalizesFields(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "tang.json"), `[
		{"title": "  静夜思 ", "author": "李 白", "paragraphs": ["床前明月光，  疑是地上霜。", "  ", "举头望明月，低头思故乡。　"]}
	]`)
	writeFile(t, filepath.Join(root, "news.json"), `[
		{"title": "新闻", "content": "第一段。\r\n\n  第二段。 "}
	]`)
	config := filepath.Join(root, "datas.json")
	writeFile(t, config, `{"datasets": {
		"tang": {"path": "tang.json", "tag": "paragraphs", "dynasty": "唐"},
		"news": {"path": "news.json", "tag": "content"}
	}}`)

	l, err := NewJSONLoader(config)
	require.NoError(t, err)

	docs, err := l.Load("tang")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "静夜思", docs[0].Title)
	assert.Equal(t, "李白", docs[0].Author)
	assert.Equal(t, []string{"床前明月光， 疑是地上霜。", "举头望明月，低头思故乡。"}, docs[0].Paragraphs)
	assert.Equal(t, classifier.GenrePoetry, classifier.Classify(docs[0].Text()).Genre)

	docs, err = l.Load("news")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, []string{"第一段。", "第二段。"}, docs[0].Paragraphs)
	assert.Equal(t, "第一段。\n第二段。", docs[0].Content)
}
