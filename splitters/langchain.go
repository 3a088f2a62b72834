package splitters

import (
	lcschema "github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/textsplitter"

	"github.com/draycott/ingestkit/core"
)

// Default chunking parameters, in characters.
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// Splitter chunks one document into smaller documents, propagating the
// parent's metadata onto every chunk.
type Splitter interface {
	Split(doc core.Document) ([]core.Document, error)
}

// Langchain adapts any langchaingo text splitter to the Splitter interface.
type Langchain struct {
	inner textsplitter.TextSplitter
}

// NewLangchain wraps a langchaingo text splitter.
func NewLangchain(ts textsplitter.TextSplitter) *Langchain {
	return &Langchain{inner: ts}
}

// Split breaks the document into chunks. Each chunk gets its own metadata
// map seeded from the parent document.
func (s *Langchain) Split(doc core.Document) ([]core.Document, error) {
	split, err := textsplitter.SplitDocuments(s.inner, []lcschema.Document{doc.ToSchema()})
	if err != nil {
		return nil, err
	}

	chunks := make([]core.Document, len(split))
	for i, d := range split {
		chunks[i] = core.FromSchema(d).Clone()
	}
	return chunks, nil
}

// NewRecursiveCharacter returns a splitter that breaks text on paragraph,
// then line, then word boundaries until chunks fit chunkSize characters,
// with chunkOverlap characters repeated between consecutive chunks.
// Non-positive arguments fall back to the package defaults.
func NewRecursiveCharacter(chunkSize, chunkOverlap int) *Langchain {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkOverlap < 0 {
		chunkOverlap = DefaultChunkOverlap
	}
	return NewLangchain(textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(chunkSize),
		textsplitter.WithChunkOverlap(chunkOverlap),
	))
}

// NewToken returns a splitter that measures chunks in model tokens rather
// than characters, sized for embedding-model context windows.
func NewToken(chunkSize, chunkOverlap int) *Langchain {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkOverlap < 0 {
		chunkOverlap = DefaultChunkOverlap
	}
	return NewLangchain(textsplitter.NewTokenSplitter(
		textsplitter.WithChunkSize(chunkSize),
		textsplitter.WithChunkOverlap(chunkOverlap),
	))
}

var _ Splitter = (*Langchain)(nil)
