package splitters

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/draycott/ingestkit/core"
)

func TestRecursiveCharacterShortTextSingleChunk(t *testing.T) {
	splitter := NewRecursiveCharacter(DefaultChunkSize, DefaultChunkOverlap)
	doc := core.NewDocument("This is a test file.", map[string]any{core.MetadataKeySource: "t.txt"})

	chunks, err := splitter.Split(doc)
	require.NoError(t, err)

	require.Len(t, chunks, 1)
	assert.Equal(t, "This is a test file.", chunks[0].PageContent)
	assert.Equal(t, "t.txt", chunks[0].Metadata[core.MetadataKeySource])
}

func TestRecursiveCharacterLongTextManyChunks(t *testing.T) {
	paragraphs := make([]string, 40)
	for i := range paragraphs {
		paragraphs[i] = strings.Repeat("some words in a sentence. ", 4)
	}
	text := strings.Join(paragraphs, "\n\n")

	splitter := NewRecursiveCharacter(200, 20)
	chunks, err := splitter.Split(core.NewDocument(text, map[string]any{core.MetadataKeySource: "long.txt"}))
	require.NoError(t, err)

	assert.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.NotEmpty(t, chunk.PageContent)
		assert.Equal(t, "long.txt", chunk.Metadata[core.MetadataKeySource], "metadata must reach every chunk")
	}
}

func TestChunkMetadataMapsAreIndependent(t *testing.T) {
	text := strings.Repeat("alpha beta gamma delta. ", 50)
	splitter := NewRecursiveCharacter(100, 0)

	chunks, err := splitter.Split(core.NewDocument(text, map[string]any{core.MetadataKeySource: "x"}))
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	chunks[0].Metadata[core.MetadataKeyNamespace] = "only-first"
	assert.Empty(t, chunks[1].Namespace(), "stamping one chunk must not leak into its siblings")
}

func TestNewRecursiveCharacterDefaults(t *testing.T) {
	splitter := NewRecursiveCharacter(0, -1)
	chunks, err := splitter.Split(core.NewDocument("tiny", nil))
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "tiny", chunks[0].PageContent)
}
