package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ParseVSCodeFile reads a single-document chat session: one JSON object
// with a requests array. Each non-canceled request yields a user entry
// and an assistant entry; canceled requests stay only in the retained
// document bytes and pass through serialization untouched.
func ParseVSCodeFile(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading session file: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid JSON document", ErrMalformedRecord)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() || !root.Get("requests").IsArray() {
		return nil, fmt.Errorf("%w: missing requests array", ErrMalformedRecord)
	}

	id := root.Get("sessionId").String()
	if id == "" {
		id = strings.TrimSuffix(filepath.Base(path), ".json")
	}

	sess := &Session{
		Format: FormatVSCodeJSON,
		Path:   path,
		ID:     id,
		DocRaw: data,
	}

	for i, req := range root.Get("requests").Array() {
		if req.Get("isCanceled").Bool() {
			continue
		}

		userText := req.Get("message.text").String()
		user := Entry{
			Raw:          syntheticRaw(EntryTypeUser, userText),
			Type:         EntryTypeUser,
			Timestamp:    req.Get("timestamp").String(),
			Content:      Content{Kind: ContentString, Text: userText},
			RequestIndex: i,
			Editable:     false,
		}
		sess.Entries = append(sess.Entries, user)

		response := req.Get("response")
		if !response.Exists() {
			continue
		}
		text, editable := responseText(response)
		assistant := Entry{
			Raw:          syntheticRaw(EntryTypeAssistant, text),
			Type:         EntryTypeAssistant,
			Timestamp:    req.Get("timestamp").String(),
			Content:      Content{Kind: ContentString, Text: text},
			RequestIndex: i,
			Editable:     editable,
		}
		sess.Entries = append(sess.Entries, assistant)
	}

	return sess, nil
}

// responseText flattens a request response to text. Plain string
// responses can be rewritten in place; structured responses are
// read-only because the serializer cannot address their parts.
func responseText(response gjson.Result) (string, bool) {
	if response.Type == gjson.String {
		return response.String(), true
	}
	if response.IsArray() {
		var parts []string
		response.ForEach(func(_, part gjson.Result) bool {
			if v := part.Get("value"); v.Type == gjson.String {
				parts = append(parts, v.String())
			}
			return true
		})
		return strings.Join(parts, "\n"), false
	}
	return "", false
}

// SerializeVSCode renders a transformed copy of the source document.
// Rewritten assistant responses are written back to their request
// positions; everything else passes through from the source bytes.
func SerializeVSCode(sess *Session, entries []Entry, newID string) ([]byte, error) {
	doc := sess.DocRaw
	var err error

	if gjson.GetBytes(doc, "sessionId").Exists() {
		doc, err = sjson.SetBytes(doc, "sessionId", newID)
		if err != nil {
			return nil, fmt.Errorf("rewriting sessionId: %w", err)
		}
	}

	for _, entry := range entries {
		if !entry.Dirty || entry.RequestIndex < 0 || !entry.Editable {
			continue
		}
		if entry.Type != EntryTypeAssistant {
			continue
		}
		path := fmt.Sprintf("requests.%d.response", entry.RequestIndex)
		doc, err = sjson.SetBytes(doc, path, entry.Content.Text)
		if err != nil {
			return nil, fmt.Errorf("rewriting request %d response: %w", entry.RequestIndex, err)
		}
	}

	return doc, nil
}

func syntheticRaw(entryType, text string) []byte {
	raw := []byte(`{}`)
	raw, _ = sjson.SetBytes(raw, "type", entryType)
	raw, _ = sjson.SetBytes(raw, "message.role", entryType)
	raw, _ = sjson.SetBytes(raw, "message.content", text)
	return raw
}
