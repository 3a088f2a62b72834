// Package reembed provides functionality for re-embedding stored chunks
// with new or updated embedding models.
//
// This package supports batch processing of stored entries, progress
// tracking, retry logic with exponential backoff, and vector
// normalization to ensure compatibility with cosine similarity search.
package reembed
