package transform

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/fyrsmithlabs/sessiontrim/internal/session"
)

func TestAssembleClaude(t *testing.T) {
	entries := buildTurns(t, 2)
	sess := &session.Session{
		Format:  session.FormatClaudeJSONL,
		Path:    "/tmp/sess-1.jsonl",
		ID:      "sess-1",
		Entries: entries,
	}
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	newID, data, err := Assemble(sess, entries, now)
	require.NoError(t, err)
	assert.NotEmpty(t, newID)
	assert.NotEqual(t, "sess-1", newID)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, len(entries)+1, "summary record prepended")

	summary := gjson.Parse(lines[0])
	assert.Equal(t, session.EntryTypeSummary, summary.Get("type").String())
	assert.Equal(t, "question 0", summary.Get("summary").String())
	assert.Equal(t, "u0", summary.Get("leafUuid").String())
	assert.Equal(t, "2026-08-29T12:00:00Z", summary.Get("timestamp").String())

	for _, line := range lines[1:] {
		assert.Equal(t, newID, gjson.Get(line, "sessionId").String())
	}
}

func TestAssembleSummaryTruncated(t *testing.T) {
	long := strings.Repeat("w ", 300)
	entries := []session.Entry{userEntry(t, "u1", "", strings.TrimSpace(long))}
	sess := &session.Session{Format: session.FormatClaudeJSONL, ID: "old", Entries: entries}

	_, data, err := Assemble(sess, entries, time.Now())
	require.NoError(t, err)

	line := strings.SplitN(string(data), "\n", 2)[0]
	summary := gjson.Get(line, "summary").String()
	assert.LessOrEqual(t, len([]rune(summary)), maxSummaryChars+len([]rune(ellipsis)))
	assert.True(t, strings.HasSuffix(summary, ellipsis))
}

func TestAssembleNoHumanText(t *testing.T) {
	entries := []session.Entry{
		entryFromJSON(t, `{"type":"user","uuid":"r1","message":{"content":[{"type":"tool_result","tool_use_id":"t1","content":"only machinery"}]}}`),
	}
	sess := &session.Session{Format: session.FormatClaudeJSONL, ID: "old", Entries: entries}

	_, data, err := Assemble(sess, entries, time.Now())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	assert.Len(t, lines, 1, "no summary record without human text to summarize")
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.jsonl")

	require.NoError(t, WriteFileAtomic(path, []byte("hello\n")))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(got))

	// No temp file debris left behind.
	matches, err := filepath.Glob(filepath.Join(dir, ".*tmp*"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestWriteFileAtomicMissingDir(t *testing.T) {
	err := WriteFileAtomic(filepath.Join(t.TempDir(), "nope", "out.jsonl"), []byte("x"))
	assert.Error(t, err)
}
