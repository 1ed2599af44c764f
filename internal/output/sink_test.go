package output

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xspect/internal/logger"
	"xspect/internal/scanner"
)

func TestMain(m *testing.M) {
	// Deterministic output regardless of whether the test runner is a TTY.
	color.NoColor = true
	os.Exit(m.Run())
}

func TestSinkAppendsToFile(t *testing.T) {
	outputFile := filepath.Join(t.TempDir(), "vulnerable.txt")
	require.NoError(t, os.WriteFile(outputFile, []byte("http://earlier.test/?q=1\n"), 0644))

	var buf bytes.Buffer
	sink := NewSinkWriter(logger.NewLogger(logger.ERROR), &buf, outputFile)

	sink.Report(scanner.Finding{URL: "http://a.test/?q=<x>"})
	sink.Report(scanner.Finding{URL: "http://b.test/?q=<y>"})

	data, err := os.ReadFile(outputFile)
	require.NoError(t, err)
	assert.Equal(t, "http://earlier.test/?q=1\nhttp://a.test/?q=<x>\nhttp://b.test/?q=<y>\n", string(data),
		"the file is appended to, never truncated")
	assert.Equal(t, "http://a.test/?q=<x>\nhttp://b.test/?q=<y>\n", buf.String())
}

func TestSinkNoDeduplication(t *testing.T) {
	var buf bytes.Buffer
	sink := NewSinkWriter(logger.NewLogger(logger.ERROR), &buf, "")

	f := scanner.Finding{URL: "http://dup.test/?q=1", Parameter: "q", Payload: "<x>"}
	sink.Report(f)
	sink.Report(f)

	assert.Equal(t, 2, strings.Count(buf.String(), f.URL))
	assert.Len(t, sink.Findings(), 2)
}

func TestSinkConcurrentReportsDoNotInterleave(t *testing.T) {
	outputFile := filepath.Join(t.TempDir(), "vulnerable.txt")
	var buf bytes.Buffer
	sink := NewSinkWriter(logger.NewLogger(logger.ERROR), &buf, outputFile)

	const reports = 50
	var wg sync.WaitGroup
	for i := 0; i < reports; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sink.Report(scanner.Finding{URL: fmt.Sprintf("http://site.test/?id=%d", i)})
		}(i)
	}
	wg.Wait()

	for _, out := range []string{buf.String(), readFile(t, outputFile)} {
		lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
		require.Len(t, lines, reports)
		for _, line := range lines {
			assert.Regexp(t, `^http://site\.test/\?id=\d+$`, line, "each report stays on its own line")
		}
	}
	assert.Len(t, sink.Findings(), reports)
}

func TestSinkMissingOutputDirIsNotFatal(t *testing.T) {
	var buf bytes.Buffer
	sink := NewSinkWriter(logger.NewLogger(logger.ERROR), &buf, filepath.Join(t.TempDir(), "no", "such", "dir.txt"))

	sink.Report(scanner.Finding{URL: "http://a.test/?q=1"})

	// The console line and the in-memory record survive the file failure.
	assert.Contains(t, buf.String(), "http://a.test/?q=1")
	assert.Len(t, sink.Findings(), 1)
}

func TestSinkFindingsReturnsCopy(t *testing.T) {
	sink := NewSinkWriter(logger.NewLogger(logger.ERROR), &bytes.Buffer{}, "")
	sink.Report(scanner.Finding{URL: "http://a.test/?q=1"})

	got := sink.Findings()
	got[0].URL = "mutated"
	assert.Equal(t, "http://a.test/?q=1", sink.Findings()[0].URL)
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
