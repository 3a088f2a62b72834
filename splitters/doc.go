// Package splitters adapts langchaingo text splitters to the pipeline's
// document model. Splitting strategy and chunk boundaries are entirely the
// library's concern; the adapters only convert between document
// representations and make sure source metadata is carried onto every chunk.
package splitters
