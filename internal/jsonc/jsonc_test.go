package jsonc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripComments_LineAndBlock(t *testing.T) {
	t.Parallel()
	src := []byte(`{
  "a": 1, // trailing comment
  /* block
     comment */
  "b": 2
}`)
	stripped := StripComments(src)
	assert.NotContains(t, string(stripped), "trailing comment")
	assert.NotContains(t, string(stripped), "block")
}

func TestStripComments_PreservesSlashInString(t *testing.T) {
	t.Parallel()
	src := []byte(`{"path": "C://not a comment"}`)
	stripped := StripComments(src)
	assert.Contains(t, string(stripped), `"C://not a comment"`)
}

func TestParse_ObjectPreservesKeyOrder(t *testing.T) {
	t.Parallel()
	src := []byte(`{"zebra": 1, "apple": 2, "mango": 3}`)
	v, err := Parse(src, "test.jsonc", 0)
	require.NoError(t, err)

	m, ok := v.(*Map)
	require.True(t, ok)
	assert.Equal(t, []string{"zebra", "apple", "mango"}, m.Keys())
}

func TestParse_TrailingComma(t *testing.T) {
	t.Parallel()
	src := []byte(`{"apps": [1, 2, 3,],}`)
	_, err := Parse(src, "test.jsonc", 0)
	require.NoError(t, err)
}

func TestParse_DepthLimitExceeded(t *testing.T) {
	t.Parallel()
	src := []byte(`{"a":{"b":{"c":1}}}`)
	_, err := Parse(src, "test.jsonc", 2)
	require.Error(t, err)
}

func TestParse_CommentInStringLiteralPreserved(t *testing.T) {
	t.Parallel()
	src := []byte(`{"note": "see // not a comment here"}`)
	v, err := Parse(src, "test.jsonc", 0)
	require.NoError(t, err)
	m := v.(*Map)
	note, _ := m.Get("note")
	assert.Equal(t, "see // not a comment here", note)
}
