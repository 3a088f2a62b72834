// Package parsers turns uploaded blobs into streams of text documents.
//
// A Parser consumes a core.Blob and lazily yields core.Documents, one per
// logical unit of the source format (a PDF page, a whole text file). The
// Registry selects a parser by the blob's sniffed mime type; the default
// registry covers PDF, plain text, HTML and both legacy and OOXML Word
// documents. Parsing internals are delegated to format libraries — this
// package only adapts them to the streaming contract.
package parsers
