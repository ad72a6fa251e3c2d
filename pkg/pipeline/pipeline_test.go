package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"rss-urls/pkg/filter"
	"rss-urls/pkg/loader"
	"rss-urls/pkg/writer"

	log "github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const naverRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
	<title>NAVER D2</title>
	<link>https://d2.naver.com</link>
	<item>
		<title>Release notes</title>
		<link>https://d2.naver.com/news/3000</link>
	</item>
	<item>
		<title>Helloworld</title>
		<link>https://d2.naver.com/helloworld/1000</link>
	</item>
	<item>
		<title>Feed</title>
		<link>https://d2.naver.com/d2.atom.rss</link>
	</item>
	<item>
		<title>Helloworld 2</title>
		<link>https://d2.naver.com/helloworld/2000</link>
	</item>
</channel>
</rss>`

const daangnAtom = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
	<title>daangn</title>
	<entry>
		<title>English post</title>
		<link href="https://medium.com/daangn/english-post-1?source=rss" rel="alternate"/>
	</entry>
	<entry>
		<title>Korean post</title>
		<link rel="alternate" href="https://medium.com/daangn/%EB%8B%B9%EA%B7%BC-2"/>
	</entry>
</feed>`

const otherRSS = `<rss><channel>
<item><link>https://blog.example.com/b</link></item>
<item><link>https://blog.example.com/a</link></item>
<item><link>https://blog.example.com/b</link></item>
</channel></rss>`

const emptyRSS = `<rss><channel><title>nothing here</title></channel></rss>`

func setupInput(t *testing.T, files map[string][]byte) string {
	t.Helper()
	dir := t.TempDir()
	for name, data := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
	}
	return dir
}

func readOutput(t *testing.T, dir, feed string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, feed+".txt"))
	require.NoError(t, err)
	return string(data)
}

func newTestPipeline(cfg Config) (*Pipeline, *logtest.Hook) {
	logger, hook := logtest.NewNullLogger()
	p := NewPipeline(cfg)
	p.SetLogger(logger)
	return p, hook
}

func TestPipeline_Run(t *testing.T) {
	input := setupInput(t, map[string][]byte{
		"naver.xml":  []byte(naverRSS),
		"daangn.xml": []byte(daangnAtom),
		"other.xml":  []byte(otherRSS),
		"skip.txt":   []byte(otherRSS),
	})
	output := filepath.Join(t.TempDir(), "crawler", "data", "urls")

	p, _ := newTestPipeline(Config{InputDir: input, OutputDir: output})
	summary, err := p.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, summary.Processed())
	assert.Empty(t, summary.Failed())
	assert.Equal(t, 2+1+3, summary.TotalURLs())

	assert.Equal(t, "https://d2.naver.com/helloworld/1000\nhttps://d2.naver.com/helloworld/2000", readOutput(t, output, "naver"))
	assert.Equal(t, "https://medium.com/daangn/%EB%8B%B9%EA%B7%BC-2", readOutput(t, output, "daangn"))
	assert.Equal(t, "https://blog.example.com/b\nhttps://blog.example.com/a\nhttps://blog.example.com/b", readOutput(t, output, "other"))
	assert.NoFileExists(t, filepath.Join(output, "skip.txt"))

	names := make([]string, 0, len(summary.Results))
	for _, r := range summary.Results {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"daangn", "naver", "other"}, names)
	assert.Equal(t, "atom", summary.Results[0].Kind)
	assert.Equal(t, "rss", summary.Results[1].Kind)
}

func TestPipeline_Run_IsolatesUnreadableFeed(t *testing.T) {
	input := setupInput(t, map[string][]byte{
		"broken.xml": {0xFF, 0xFE, '<', 'r', 's', 's', '>', 0xC3},
		"naver.xml":  []byte(naverRSS),
		"other.xml":  []byte(otherRSS),
	})
	output := t.TempDir()

	p, hook := newTestPipeline(Config{InputDir: input, OutputDir: output})
	summary, err := p.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, summary.Processed())
	require.Len(t, summary.Failed(), 1)

	failed := summary.Failed()[0]
	assert.Equal(t, "broken", failed.Name)
	var readErr *loader.ReadError
	assert.True(t, errors.As(failed.Err, &readErr))

	assert.NoFileExists(t, filepath.Join(output, "broken.txt"))
	assert.Equal(t, "https://d2.naver.com/helloworld/1000\nhttps://d2.naver.com/helloworld/2000", readOutput(t, output, "naver"))
	assert.Equal(t, "https://blog.example.com/b\nhttps://blog.example.com/a\nhttps://blog.example.com/b", readOutput(t, output, "other"))

	var errorEntries []*log.Entry
	for _, entry := range hook.AllEntries() {
		if entry.Level == log.ErrorLevel {
			errorEntries = append(errorEntries, entry)
		}
	}
	require.Len(t, errorEntries, 1)
	assert.Equal(t, "Error processing feed", errorEntries[0].Message)
	assert.Equal(t, "broken", errorEntries[0].Data["feed"])
}

func TestPipeline_Run_IsolatesWriteFailure(t *testing.T) {
	input := setupInput(t, map[string][]byte{
		"naver.xml": []byte(naverRSS),
		"other.xml": []byte(otherRSS),
	})
	output := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(output, "naver.txt"), 0o755))

	p, _ := newTestPipeline(Config{InputDir: input, OutputDir: output})
	summary, err := p.Run(context.Background())

	require.NoError(t, err)
	require.Len(t, summary.Failed(), 1)
	var writeErr *writer.WriteError
	assert.True(t, errors.As(summary.Failed()[0].Err, &writeErr))
	assert.Equal(t, "https://blog.example.com/b\nhttps://blog.example.com/a\nhttps://blog.example.com/b", readOutput(t, output, "other"))
}

func TestPipeline_Run_Idempotent(t *testing.T) {
	input := setupInput(t, map[string][]byte{
		"naver.xml":  []byte(naverRSS),
		"daangn.xml": []byte(daangnAtom),
		"empty.xml":  []byte(emptyRSS),
	})
	output := t.TempDir()

	p, _ := newTestPipeline(Config{InputDir: input, OutputDir: output})

	_, err := p.Run(context.Background())
	require.NoError(t, err)
	first := map[string]string{}
	for _, feed := range []string{"naver", "daangn", "empty"} {
		first[feed] = readOutput(t, output, feed)
	}

	_, err = p.Run(context.Background())
	require.NoError(t, err)
	for feed, content := range first {
		assert.Equal(t, content, readOutput(t, output, feed), feed)
	}
}

func TestPipeline_Run_EmptyFeedWritesEmptyFile(t *testing.T) {
	input := setupInput(t, map[string][]byte{
		"empty.xml": []byte(emptyRSS),
	})
	output := t.TempDir()

	p, hook := newTestPipeline(Config{InputDir: input, OutputDir: output})
	summary, err := p.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, summary.Processed())
	assert.Equal(t, 0, summary.TotalURLs())
	assert.Equal(t, "", readOutput(t, output, "empty"))

	last := hook.LastEntry()
	require.NotNil(t, last)
	assert.Equal(t, "Done", last.Message)
	assert.Equal(t, 1, last.Data["processed"])
	assert.Equal(t, 0, last.Data["failed"])
	assert.Equal(t, 0, last.Data["total"])
}

func TestPipeline_Run_CustomRules(t *testing.T) {
	input := setupInput(t, map[string][]byte{
		"other.xml": []byte(otherRSS),
	})
	output := t.TempDir()

	rules := filter.DefaultRules().Merge(filter.Rules{
		"other": {filter.NewExcludeSubstringFilter("com/b")},
	})
	p, _ := newTestPipeline(Config{InputDir: input, OutputDir: output, Rules: rules})
	_, err := p.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "https://blog.example.com/a", readOutput(t, output, "other"))
}

func TestPipeline_Run_MissingInputDirectory(t *testing.T) {
	p, _ := newTestPipeline(Config{
		InputDir:  filepath.Join(t.TempDir(), "missing"),
		OutputDir: t.TempDir(),
	})

	_, err := p.Run(context.Background())

	assert.Error(t, err)
}

func TestPipeline_Run_UnwritableOutputLocation(t *testing.T) {
	file := filepath.Join(t.TempDir(), "occupied")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	input := setupInput(t, map[string][]byte{"other.xml": []byte(otherRSS)})

	p, _ := newTestPipeline(Config{InputDir: input, OutputDir: filepath.Join(file, "urls")})
	_, err := p.Run(context.Background())

	assert.Error(t, err)
}

func TestPipeline_Run_EmptyInputDirectory(t *testing.T) {
	p, hook := newTestPipeline(Config{InputDir: t.TempDir(), OutputDir: t.TempDir()})

	summary, err := p.Run(context.Background())

	require.NoError(t, err)
	assert.Empty(t, summary.Results)
	assert.Equal(t, log.WarnLevel, hook.AllEntries()[0].Level)
}

type fixedExtractor []string

func (e fixedExtractor) Extract(content string) []string {
	return e
}

func TestPipeline_Run_CustomExtractor(t *testing.T) {
	input := setupInput(t, map[string][]byte{
		"naver.xml": []byte(emptyRSS),
	})
	output := t.TempDir()

	p, hook := newTestPipeline(Config{InputDir: input, OutputDir: output})
	p.SetExtractor(fixedExtractor{"https://d2.naver.com/news/1", "https://d2.naver.com/helloworld/2"})
	summary, err := p.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalURLs())
	assert.Equal(t, "https://d2.naver.com/helloworld/2", readOutput(t, output, "naver"))
	assert.Equal(t, 1, hook.LastEntry().Data["total"])
}
