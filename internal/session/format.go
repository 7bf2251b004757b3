package session

import (
	"fmt"
	"path/filepath"
)

// ParseFile loads a session, picking the parser from the file
// extension: .jsonl for the line-delimited format, .json for the
// single-document format.
func ParseFile(path string) (*Session, error) {
	switch filepath.Ext(path) {
	case ".jsonl":
		return ParseClaudeFile(path)
	case ".json":
		return ParseVSCodeFile(path)
	default:
		return nil, fmt.Errorf("unrecognized session file extension: %s", path)
	}
}

// Serialize renders entries in the session's source format under a new
// session identifier.
func (s *Session) Serialize(entries []Entry, newID string) ([]byte, error) {
	switch s.Format {
	case FormatVSCodeJSON:
		return SerializeVSCode(s, entries, newID)
	default:
		return SerializeClaude(entries), nil
	}
}

// OutputPath returns the path, beside the source, for a derivative log
// named by the new session identifier.
func (s *Session) OutputPath(newID string) string {
	ext := ".jsonl"
	if s.Format == FormatVSCodeJSON {
		ext = ".json"
	}
	return filepath.Join(filepath.Dir(s.Path), newID+ext)
}
