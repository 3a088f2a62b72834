package parsers

import (
	"context"
	"iter"

	"github.com/draycott/ingestkit/core"
)

// Parser turns a blob into a stream of text documents.
//
// The returned sequence is lazy, finite and single-pass: parsing work happens
// as documents are pulled, so a consumer can bound its memory without
// materializing the whole parsed set. A non-nil error terminates the
// sequence; no documents follow it.
type Parser interface {
	Parse(ctx context.Context, blob core.Blob) iter.Seq2[core.Document, error]
}

// errSeq yields a single error and ends the sequence.
func errSeq(err error) iter.Seq2[core.Document, error] {
	return func(yield func(core.Document, error) bool) {
		yield(core.Document{}, err)
	}
}

// docSeq yields the given documents with no error.
func docSeq(docs ...core.Document) iter.Seq2[core.Document, error] {
	return func(yield func(core.Document, error) bool) {
		for _, doc := range docs {
			if !yield(doc, nil) {
				return
			}
		}
	}
}
