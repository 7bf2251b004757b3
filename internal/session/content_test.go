package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestSetBlocksRewritesRaw(t *testing.T) {
	line := []byte(`{"type":"assistant","uuid":"a1","extra":"kept","message":{"role":"assistant","content":[{"type":"text","text":"a"},{"type":"thinking","thinking":"b"}]}}`)
	entry, err := DecodeEntry(line)
	require.NoError(t, err)

	require.NoError(t, entry.SetBlocks(entry.Content.Blocks[:1]))

	assert.True(t, entry.Dirty)
	blocks := gjson.GetBytes(entry.Raw, "message.content").Array()
	require.Len(t, blocks, 1)
	assert.Equal(t, "text", blocks[0].Get("type").String())
	// Fields outside the edited path survive.
	assert.Equal(t, "kept", gjson.GetBytes(entry.Raw, "extra").String())
}

func TestSetParentUUID(t *testing.T) {
	entry, err := DecodeEntry([]byte(`{"type":"user","uuid":"u2","parentUuid":"gone","message":{"content":"hi"}}`))
	require.NoError(t, err)

	require.NoError(t, entry.SetParentUUID("u1"))
	assert.Equal(t, "u1", gjson.GetBytes(entry.Raw, "parentUuid").String())

	require.NoError(t, entry.SetParentUUID(""))
	result := gjson.GetBytes(entry.Raw, "parentUuid")
	assert.Equal(t, gjson.Null, result.Type)
	assert.Empty(t, entry.ParentUUID)
}

func TestRewriteSessionID(t *testing.T) {
	entry, err := DecodeEntry([]byte(`{"type":"user","sessionId":"old-id","uuid":"u1","message":{"content":"hi"}}`))
	require.NoError(t, err)

	require.NoError(t, entry.RewriteSessionID("old-id", "new-id"))
	assert.Equal(t, "new-id", gjson.GetBytes(entry.Raw, "sessionId").String())
	assert.Equal(t, "new-id", entry.SessionID)

	// A different id is left alone.
	other, err := DecodeEntry([]byte(`{"type":"user","sessionId":"unrelated","message":{"content":"hi"}}`))
	require.NoError(t, err)
	require.NoError(t, other.RewriteSessionID("old-id", "new-id"))
	assert.Equal(t, "unrelated", other.SessionID)
	assert.False(t, other.Dirty)
}

func TestBlockWithText(t *testing.T) {
	b := textBlock("before")
	after, err := b.WithText("after")
	require.NoError(t, err)
	assert.Equal(t, "after", after.Text)
	assert.Equal(t, "after", gjson.GetBytes(after.Raw, "text").String())
	assert.Equal(t, "before", b.Text, "original block is unchanged")
}

func TestFirstUserText(t *testing.T) {
	meta, err := DecodeEntry([]byte(`{"type":"user","isMeta":true,"message":{"content":"<command-name>init</command-name>"}}`))
	require.NoError(t, err)
	blockUser, err := DecodeEntry([]byte(`{"type":"user","message":{"content":[{"type":"text","text":"real question"}]}}`))
	require.NoError(t, err)

	assert.Equal(t, "real question", FirstUserText([]Entry{meta, blockUser}))
	assert.Empty(t, FirstUserText(nil))
}
