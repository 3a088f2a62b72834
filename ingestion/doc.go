// Package ingestion orchestrates the document ingestion workflow:
// parsing a blob into documents, splitting them into chunks, tagging
// each chunk with a namespace, and writing chunks to a vector store in
// batches.
//
// IngestBlob is the synchronous entrypoint. Pipeline wraps it with
// bound collaborators and adds asynchronous ingestion on a worker pool.
// Store errors fail the operation; chunks buffered but not yet flushed
// at that point are not written.
package ingestion
