package session

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrMalformedRecord reports a record that could not be decoded.
var ErrMalformedRecord = errors.New("malformed session record")

// Scanner buffer sized for large tool outputs embedded in single lines.
const maxScanTokenSize = 10 * 1024 * 1024

// ParseClaudeFile reads a Claude Code JSONL session file. Any malformed
// line is fatal: a record that cannot be decoded cannot be safely
// positioned in a rewritten chain.
func ParseClaudeFile(path string) (*Session, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening session file: %w", err)
	}
	defer f.Close()

	sess := &Session{
		Format: FormatClaudeJSONL,
		Path:   path,
		ID:     strings.TrimSuffix(filepath.Base(path), ".jsonl"),
	}

	scanner := bufio.NewScanner(f)
	buf := make([]byte, maxScanTokenSize)
	scanner.Buffer(buf, maxScanTokenSize)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		entry, err := DecodeEntry(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		sess.Entries = append(sess.Entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning session file: %w", err)
	}

	return sess, nil
}

// ScanClaudeFile reads a JSONL file leniently, invoking fn for each
// decodable entry. Malformed lines are skipped and reported as
// warnings. Used by listing paths where a bad record should not hide
// the rest of the session.
func ScanClaudeFile(path string, fn func(entry Entry) error) ([]error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening session file: %w", err)
	}
	defer f.Close()

	var warnings []error

	scanner := bufio.NewScanner(f)
	buf := make([]byte, maxScanTokenSize)
	scanner.Buffer(buf, maxScanTokenSize)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		entry, err := DecodeEntry(line)
		if err != nil {
			warnings = append(warnings, fmt.Errorf("line %d: %w", lineNum, err))
			continue
		}
		if err := fn(entry); err != nil {
			return warnings, err
		}
	}
	if err := scanner.Err(); err != nil {
		return warnings, fmt.Errorf("scanning session file: %w", err)
	}

	return warnings, nil
}

// DecodeEntry parses one JSONL line into an Entry. The source bytes are
// copied and retained on the entry.
func DecodeEntry(line []byte) (Entry, error) {
	if !gjson.ValidBytes(line) {
		return Entry{}, fmt.Errorf("%w: invalid JSON", ErrMalformedRecord)
	}
	root := gjson.ParseBytes(line)
	if !root.IsObject() {
		return Entry{}, fmt.Errorf("%w: not a JSON object", ErrMalformedRecord)
	}

	raw := make([]byte, len(line))
	copy(raw, line)

	entry := Entry{
		Raw:          raw,
		Type:         root.Get("type").String(),
		UUID:         root.Get("uuid").String(),
		SessionID:    root.Get("sessionId").String(),
		IsMeta:       root.Get("isMeta").Bool(),
		Timestamp:    root.Get("timestamp").String(),
		RequestIndex: -1,
		Editable:     true,
	}

	if parent := root.Get("parentUuid"); parent.Type == gjson.String {
		entry.ParentUUID = parent.String()
	}

	content := root.Get("message.content")
	switch {
	case content.Type == gjson.String:
		entry.Content = Content{Kind: ContentString, Text: content.String()}
	case content.IsArray():
		blocks, err := decodeBlocks(content)
		if err != nil {
			return Entry{}, err
		}
		entry.Content = Content{Kind: ContentBlocks, Blocks: blocks}
	}

	return entry, nil
}

func decodeBlocks(content gjson.Result) ([]Block, error) {
	var decodeErr error
	var blocks []Block
	content.ForEach(func(_, value gjson.Result) bool {
		if !value.IsObject() {
			decodeErr = fmt.Errorf("%w: content block is not an object", ErrMalformedRecord)
			return false
		}
		blocks = append(blocks, decodeBlock(value))
		return true
	})
	if decodeErr != nil {
		return nil, decodeErr
	}
	return blocks, nil
}

func decodeBlock(value gjson.Result) Block {
	block := Block{
		Raw:  []byte(value.Raw),
		Type: value.Get("type").String(),
	}
	switch block.Type {
	case BlockTypeText:
		block.Text = value.Get("text").String()
	case BlockTypeThinking:
		block.Thinking = value.Get("thinking").String()
	case BlockTypeToolUse:
		block.ToolID = value.Get("id").String()
		block.ToolName = value.Get("name").String()
		if input := value.Get("input"); input.Exists() {
			block.ToolInput = []byte(input.Raw)
		}
	case BlockTypeToolResult:
		block.ResultFor = value.Get("tool_use_id").String()
		if rc := value.Get("content"); rc.Exists() {
			block.ResultContent = []byte(rc.Raw)
		}
	}
	return block
}

// SerializeClaude renders entries as line-delimited JSON. Entries are
// emitted from their raw bytes, so untouched records come out
// byte-identical to the source.
func SerializeClaude(entries []Entry) []byte {
	var out bytes.Buffer
	for _, entry := range entries {
		out.Write(entry.Raw)
		out.WriteByte('\n')
	}
	return out.Bytes()
}
