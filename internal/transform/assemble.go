package transform

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/fyrsmithlabs/sessiontrim/internal/session"
)

// maxSummaryChars bounds the synthesized summary text.
const maxSummaryChars = 200

// summaryRecord is the leading summary entry synthesized for
// line-delimited output.
type summaryRecord struct {
	Type      string `json:"type"`
	Summary   string `json:"summary"`
	LeafUUID  string `json:"leafUuid,omitempty"`
	Timestamp string `json:"timestamp"`
}

// Assemble merges the transformed entries into a serialized derivative
// log under a freshly minted session identifier. For the line-delimited
// format it rewrites sessionId fields that held the old identifier and
// prepends one synthesized summary record derived from the first human
// message. Entry order is never altered beyond the deletions already
// applied upstream.
func Assemble(sess *session.Session, entries []session.Entry, now time.Time) (string, []byte, error) {
	newID := uuid.NewString()

	out := make([]session.Entry, len(entries))
	copy(out, entries)

	if sess.Format == session.FormatClaudeJSONL {
		for i := range out {
			if err := out[i].RewriteSessionID(sess.ID, newID); err != nil {
				return "", nil, err
			}
		}

		summary, err := buildSummary(out, now)
		if err != nil {
			return "", nil, err
		}
		if summary != nil {
			out = append([]session.Entry{*summary}, out...)
		}
	}

	data, err := sess.Serialize(out, newID)
	if err != nil {
		return "", nil, fmt.Errorf("serializing output: %w", err)
	}
	return newID, data, nil
}

func buildSummary(entries []session.Entry, now time.Time) (*session.Entry, error) {
	text := session.FirstUserText(entries)
	if text == "" {
		return nil, nil
	}
	if runes := []rune(text); len(runes) > maxSummaryChars {
		text = string(runes[:maxSummaryChars]) + ellipsis
	}

	record := summaryRecord{
		Type:      session.EntryTypeSummary,
		Summary:   text,
		LeafUUID:  firstUUID(entries),
		Timestamp: now.UTC().Format(time.RFC3339),
	}
	raw, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("encoding summary record: %w", err)
	}
	entry, err := session.DecodeEntry(raw)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// firstUUID returns the earliest surviving uuid in the sequence.
func firstUUID(entries []session.Entry) string {
	for _, entry := range entries {
		if entry.UUID != "" {
			return entry.UUID
		}
	}
	return ""
}

// WriteFileAtomic writes data to path through a temp file and rename,
// so a failure mid-write never leaves a partial output file behind.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp output: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing output: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("placing output: %w", err)
	}
	return nil
}
