package parsers

import (
	"context"
	"iter"
	"unicode/utf8"

	"github.com/draycott/ingestkit/core"
)

// TextParser treats the whole payload as a single plain-text document.
type TextParser struct{}

// NewTextParser creates a TextParser.
func NewTextParser() *TextParser {
	return &TextParser{}
}

// Parse yields one document containing the payload verbatim. The payload
// must be valid UTF-8.
func (p *TextParser) Parse(ctx context.Context, blob core.Blob) iter.Seq2[core.Document, error] {
	data := blob.Bytes()
	if !utf8.Valid(data) {
		return errSeq(ErrNotPlainText)
	}

	doc := core.NewDocument(string(data), nil)
	if name := blob.Filename(); name != "" {
		doc.Metadata[core.MetadataKeySource] = name
	}
	return docSeq(doc)
}

var _ Parser = (*TextParser)(nil)
