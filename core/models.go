package core

import (
	"bytes"
	"io"
	"maps"
	"path/filepath"

	lcschema "github.com/tmc/langchaingo/schema"
)

// Metadata keys attached to documents as they move through the pipeline.
const (
	// MetadataKeyNamespace scopes a chunk to the caller that ingested it.
	// Stamped by the batching ingester on every chunk before it is flushed.
	MetadataKeyNamespace = "namespace"
	// MetadataKeySource is the filename the payload was uploaded under.
	MetadataKeySource = "source"
	// MetadataKeyPage is the 1-based page number within the source document.
	MetadataKeyPage = "page"
	// MetadataKeyTotalPages is the page count of the source document.
	MetadataKeyTotalPages = "total_pages"
	// MetadataKeyTitle is the document title, when the format carries one.
	MetadataKeyTitle = "title"
)

// Blob is a raw byte payload together with its sniffed mime type and the
// optional filename it was uploaded under. It is the unit of work handed to
// a parser and is not modified after construction. The byte slice is shared,
// not copied; callers must not mutate it.
type Blob struct {
	data     []byte
	path     string
	mimeType string
}

// NewBlob constructs a Blob from decoded upload bytes. path may be empty when
// the upload carried no filename.
func NewBlob(data []byte, path, mimeType string) Blob {
	return Blob{data: data, path: path, mimeType: mimeType}
}

// Bytes returns the raw payload.
func (b Blob) Bytes() []byte { return b.data }

// Reader returns a fresh reader over the payload.
func (b Blob) Reader() io.Reader { return bytes.NewReader(b.data) }

// Size returns the payload length in bytes.
func (b Blob) Size() int64 { return int64(len(b.data)) }

// Path returns the filename the blob was uploaded under, or "".
func (b Blob) Path() string { return b.path }

// Filename returns the base name of the upload path, or "" when the upload
// carried no filename.
func (b Blob) Filename() string {
	if b.path == "" {
		return ""
	}
	return filepath.Base(b.path)
}

// MimeType returns the sniffed media type, e.g. "application/pdf".
func (b Blob) MimeType() string { return b.mimeType }

// Document is a piece of text and its associated metadata. Parsers emit one
// Document per logical unit (a page, a file); the splitter breaks each into
// smaller chunk Documents which the ingester owns exclusively until they are
// flushed to the vector store.
type Document struct {
	PageContent string         `json:"page_content"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// NewDocument creates a Document. A nil metadata map is replaced with an
// empty one so callers can always set keys without checking.
func NewDocument(content string, metadata map[string]any) Document {
	if metadata == nil {
		metadata = make(map[string]any)
	}
	return Document{PageContent: content, Metadata: metadata}
}

// Clone returns a copy of the document with its own metadata map.
func (d Document) Clone() Document {
	return Document{PageContent: d.PageContent, Metadata: maps.Clone(d.Metadata)}
}

// Namespace returns the namespace metadata value, or "" if the document has
// not been tagged yet.
func (d Document) Namespace() string {
	ns, _ := d.Metadata[MetadataKeyNamespace].(string)
	return ns
}

// ToSchema converts the document to its langchaingo representation for use
// with langchaingo text splitters.
func (d Document) ToSchema() lcschema.Document {
	return lcschema.Document{PageContent: d.PageContent, Metadata: d.Metadata}
}

// FromSchema converts a langchaingo document back into a Document.
func FromSchema(doc lcschema.Document) Document {
	return NewDocument(doc.PageContent, doc.Metadata)
}
