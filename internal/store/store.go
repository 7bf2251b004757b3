// Package store enumerates and resolves stored session logs.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fyrsmithlabs/sessiontrim/internal/session"
)

// ErrSessionNotFound reports a session id with no matching file.
var ErrSessionNotFound = errors.New("session not found")

var errStop = errors.New("stop iteration")

// Summary describes one stored session file.
type Summary struct {
	ID         string
	Path       string
	Format     session.Format
	Modified   time.Time
	EntryCount int
	// FirstUserText seeds display titles; possibly truncated.
	FirstUserText string
}

// ListOptions controls enumeration.
type ListOptions struct {
	// Limit caps the result count after sorting, 0 means unlimited.
	Limit int
	// MaxSummary truncates FirstUserText to at most this many runes,
	// 0 means untruncated.
	MaxSummary int
}

// ListResult contains session summaries and non-fatal warnings.
// A bad record or unreadable file never hides the rest of the tree.
type ListResult struct {
	Summaries []Summary
	Warnings  []error
}

// Store locates session files under the configured source roots.
type Store struct {
	claudeRoot string
	vscodeRoot string
}

// New creates a store over the two source trees. Either root may be
// empty; that source is then skipped.
func New(claudeRoot, vscodeRoot string) *Store {
	return &Store{claudeRoot: claudeRoot, vscodeRoot: vscodeRoot}
}

// Available reports whether at least one configured source root
// exists on disk.
func (s *Store) Available() bool {
	for _, root := range []string{s.claudeRoot, s.vscodeRoot} {
		if root == "" {
			continue
		}
		if info, err := os.Stat(root); err == nil && info.IsDir() {
			return true
		}
	}
	return false
}

// List enumerates every session file under the source roots, newest
// first.
func (s *Store) List(opts ListOptions) (ListResult, error) {
	var result ListResult

	if s.claudeRoot != "" {
		if err := s.listRoot(s.claudeRoot, ".jsonl", opts, &result); err != nil {
			return result, err
		}
	}
	if s.vscodeRoot != "" {
		if err := s.listRoot(s.vscodeRoot, ".json", opts, &result); err != nil {
			return result, err
		}
	}

	sort.Slice(result.Summaries, func(i, j int) bool {
		return result.Summaries[i].Modified.After(result.Summaries[j].Modified)
	})
	if opts.Limit > 0 && len(result.Summaries) > opts.Limit {
		result.Summaries = result.Summaries[:opts.Limit]
	}

	return result, nil
}

func (s *Store) listRoot(root, ext string, opts ListOptions, result *ListResult) error {
	if _, err := os.Stat(root); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("stat source root %s: %w", root, err)
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			result.Warnings = append(result.Warnings, fmt.Errorf("walk %s: %w", path, walkErr))
			return nil
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ext) {
			return nil
		}

		summary, warnings, err := summarize(path)
		result.Warnings = append(result.Warnings, warnings...)
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Errorf("reading %s: %w", path, err))
			return nil
		}

		if opts.MaxSummary > 0 {
			summary.FirstUserText = truncate(summary.FirstUserText, opts.MaxSummary)
		}
		result.Summaries = append(result.Summaries, summary)
		return nil
	})
}

// summarize builds a Summary without holding the whole session in
// memory for the line-delimited format.
func summarize(path string) (Summary, []error, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Summary{}, nil, err
	}

	summary := Summary{
		Path:     path,
		Modified: info.ModTime(),
	}

	switch filepath.Ext(path) {
	case ".jsonl":
		summary.Format = session.FormatClaudeJSONL
		summary.ID = strings.TrimSuffix(filepath.Base(path), ".jsonl")

		warnings, err := session.ScanClaudeFile(path, func(entry session.Entry) error {
			summary.EntryCount++
			if summary.FirstUserText == "" {
				summary.FirstUserText = session.FirstUserText([]session.Entry{entry})
			}
			return nil
		})
		if err != nil {
			return Summary{}, warnings, err
		}
		return summary, warnings, nil
	default:
		sess, err := session.ParseVSCodeFile(path)
		if err != nil {
			return Summary{}, nil, err
		}
		summary.Format = session.FormatVSCodeJSON
		summary.ID = sess.ID
		summary.EntryCount = len(sess.Entries)
		summary.FirstUserText = session.FirstUserText(sess.Entries)
		return summary, nil, nil
	}
}

// Resolve turns a session reference into a file path. A reference that
// names an existing file wins; otherwise it is treated as a session id
// and searched for under the source roots.
func (s *Store) Resolve(ref string) (string, error) {
	if ref == "" {
		return "", errors.New("session reference is required")
	}
	if info, err := os.Stat(ref); err == nil && !info.IsDir() {
		return ref, nil
	}
	return s.Find(ref)
}

// Find searches the source roots for a session file whose id matches.
func (s *Store) Find(id string) (string, error) {
	roots := []struct {
		root string
		ext  string
	}{
		{s.claudeRoot, ".jsonl"},
		{s.vscodeRoot, ".json"},
	}

	for _, r := range roots {
		if r.root == "" {
			continue
		}
		if _, err := os.Stat(r.root); err != nil {
			continue
		}

		var matched string
		err := filepath.WalkDir(r.root, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return nil
			}
			if d.IsDir() || !strings.HasSuffix(d.Name(), r.ext) {
				return nil
			}
			if strings.TrimSuffix(filepath.Base(path), r.ext) == id {
				matched = path
				return errStop
			}
			return nil
		})
		if err != nil && !errors.Is(err, errStop) {
			return "", err
		}
		if matched != "" {
			return matched, nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrSessionNotFound, id)
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "…"
}
