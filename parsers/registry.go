package parsers

import (
	"context"
	"fmt"
	"iter"

	"github.com/draycott/ingestkit/core"
)

// Mime types recognized by the default registry.
const (
	MimeTypePDF       = "application/pdf"
	MimeTypePlainText = "text/plain"
	MimeTypeHTML      = "text/html"
	MimeTypeWord      = "application/msword"
	MimeTypeWordOOXML = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// Registry selects a Parser by a blob's sniffed mime type.
//
// Lookup is an exact string match on the bare media type. When no handler
// matches, the fallback parser is used if one is configured; otherwise
// parsing fails with ErrUnsupportedType. Failing loudly, rather than
// silently ingesting nothing, is deliberate: an upload the caller cannot
// search for later is worse than a rejected one.
type Registry struct {
	handlers map[string]Parser
	fallback Parser
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithHandler registers parser for the given mime type, replacing any
// existing handler for that type.
func WithHandler(mimeType string, parser Parser) RegistryOption {
	return func(r *Registry) {
		r.handlers[mimeType] = parser
	}
}

// WithFallback sets the parser used when no handler matches the blob's mime
// type.
func WithFallback(parser Parser) RegistryOption {
	return func(r *Registry) {
		r.fallback = parser
	}
}

// NewRegistry creates an empty registry and applies the given options.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{handlers: make(map[string]Parser)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewDefaultRegistry returns a registry covering the formats the pipeline
// supports out of the box: PDF, plain text, HTML, and Word in both the
// legacy binary and OOXML flavors. No fallback is configured.
func NewDefaultRegistry() *Registry {
	word := NewWordParser()
	return NewRegistry(
		WithHandler(MimeTypePDF, NewPDFParser()),
		WithHandler(MimeTypePlainText, NewTextParser()),
		WithHandler(MimeTypeHTML, NewHTMLParser()),
		WithHandler(MimeTypeWord, word),
		WithHandler(MimeTypeWordOOXML, word),
	)
}

// Supports reports whether the registry can parse the given mime type,
// either through a registered handler or the fallback.
func (r *Registry) Supports(mimeType string) bool {
	if _, ok := r.handlers[mimeType]; ok {
		return true
	}
	return r.fallback != nil
}

// Parse dispatches the blob to the handler registered for its mime type.
func (r *Registry) Parse(ctx context.Context, blob core.Blob) iter.Seq2[core.Document, error] {
	parser, ok := r.handlers[blob.MimeType()]
	if !ok {
		parser = r.fallback
	}
	if parser == nil {
		return errSeq(fmt.Errorf("%w: %q", ErrUnsupportedType, blob.MimeType()))
	}
	return parser.Parse(ctx, blob)
}

var _ Parser = (*Registry)(nil)
