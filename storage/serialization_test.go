package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/draycott/ingestkit/core"
)

func TestEntryRoundTrip(t *testing.T) {
	entry := &Entry{
		ID: "f1c5a2d0",
		Document: core.NewDocument("chunk text", map[string]any{
			core.MetadataKeyNamespace: "test1",
			core.MetadataKeySource:    "report.pdf",
		}),
		Vector: []float32{0.25, -0.5, 1},
	}

	data, err := MarshalEntry(entry)
	require.NoError(t, err)

	got, err := UnmarshalEntry(data)
	require.NoError(t, err)

	assert.Equal(t, entry.ID, got.ID)
	assert.Equal(t, entry.Document.PageContent, got.Document.PageContent)
	assert.Equal(t, "test1", got.Document.Namespace())
	assert.Equal(t, entry.Vector, got.Vector)
}

func TestUnmarshalEntryInvalid(t *testing.T) {
	_, err := UnmarshalEntry([]byte("{not json"))
	require.ErrorIs(t, err, ErrSerializationFailed)
}
