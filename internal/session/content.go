package session

import (
	"bytes"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Mutation helpers. Every mutation rewrites the entry's raw bytes so
// serialization stays a plain emit of Raw.

// SetBlocks replaces the entry's content block array.
func (e *Entry) SetBlocks(blocks []Block) error {
	raw, err := sjson.SetRawBytes(e.Raw, "message.content", encodeBlocks(blocks))
	if err != nil {
		return fmt.Errorf("rewriting content blocks: %w", err)
	}
	e.Raw = raw
	e.Content = Content{Kind: ContentBlocks, Blocks: blocks}
	e.Dirty = true
	return nil
}

// SetText replaces string content. For single-document entries the raw
// bytes are synthetic and the serializer writes Text back into the
// source document instead.
func (e *Entry) SetText(text string) error {
	raw, err := sjson.SetBytes(e.Raw, "message.content", text)
	if err != nil {
		return fmt.Errorf("rewriting content text: %w", err)
	}
	e.Raw = raw
	e.Content = Content{Kind: ContentString, Text: text}
	e.Dirty = true
	return nil
}

// SetParentUUID rewrites the parentUuid field. An empty id writes null.
func (e *Entry) SetParentUUID(id string) error {
	var (
		raw []byte
		err error
	)
	if id == "" {
		raw, err = sjson.SetRawBytes(e.Raw, "parentUuid", []byte("null"))
	} else {
		raw, err = sjson.SetBytes(e.Raw, "parentUuid", id)
	}
	if err != nil {
		return fmt.Errorf("rewriting parentUuid: %w", err)
	}
	e.Raw = raw
	e.ParentUUID = id
	e.Dirty = true
	return nil
}

// RewriteSessionID replaces the sessionId field when it holds oldID.
// Entries without the field, or carrying a different id, are left alone.
func (e *Entry) RewriteSessionID(oldID, newID string) error {
	current := gjson.GetBytes(e.Raw, "sessionId")
	if !current.Exists() || current.String() != oldID {
		return nil
	}
	raw, err := sjson.SetBytes(e.Raw, "sessionId", newID)
	if err != nil {
		return fmt.Errorf("rewriting sessionId: %w", err)
	}
	e.Raw = raw
	e.SessionID = newID
	e.Dirty = true
	return nil
}

// WithText returns a copy of a text block carrying new text.
func (b Block) WithText(text string) (Block, error) {
	raw, err := sjson.SetBytes(b.Raw, "text", text)
	if err != nil {
		return Block{}, fmt.Errorf("rewriting block text: %w", err)
	}
	out := b
	out.Raw = raw
	out.Text = text
	return out, nil
}

// WithToolInput returns a copy of a tool_use block with replaced input.
func (b Block) WithToolInput(input []byte) (Block, error) {
	raw, err := sjson.SetRawBytes(b.Raw, "input", input)
	if err != nil {
		return Block{}, fmt.Errorf("rewriting tool input: %w", err)
	}
	out := b
	out.Raw = raw
	out.ToolInput = input
	return out, nil
}

// WithResultContent returns a copy of a tool_result block with replaced
// content.
func (b Block) WithResultContent(content []byte) (Block, error) {
	raw, err := sjson.SetRawBytes(b.Raw, "content", content)
	if err != nil {
		return Block{}, fmt.Errorf("rewriting tool result content: %w", err)
	}
	out := b
	out.Raw = raw
	out.ResultContent = content
	return out, nil
}

func encodeBlocks(blocks []Block) []byte {
	var out bytes.Buffer
	out.WriteByte('[')
	for i, block := range blocks {
		if i > 0 {
			out.WriteByte(',')
		}
		out.Write(block.Raw)
	}
	out.WriteByte(']')
	return out.Bytes()
}

// FirstUserText returns the text of the first non-meta user entry, the
// seed for synthesized summary records. Returns "" when no qualifying
// entry exists.
func FirstUserText(entries []Entry) string {
	for _, entry := range entries {
		if entry.Type != EntryTypeUser || entry.IsMeta {
			continue
		}
		switch entry.Content.Kind {
		case ContentString:
			return entry.Content.Text
		case ContentBlocks:
			for _, block := range entry.Content.Blocks {
				if block.Type == BlockTypeText && block.Text != "" {
					return block.Text
				}
			}
		}
	}
	return ""
}
