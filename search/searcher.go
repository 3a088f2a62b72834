package search

import (
	"context"
	"log/slog"
	"slices"

	"github.com/draycott/ingestkit/ai"
	"github.com/draycott/ingestkit/storage"
)

// DefaultMinSimilarity is the similarity floor applied when none is set.
const DefaultMinSimilarity = 0.60

// Result is a single search hit.
type Result struct {
	Entry *storage.Entry
	Score float32
}

// Searcher ranks stored chunks by similarity to a query.
type Searcher struct {
	source        storage.EntrySource
	embedder      ai.Embedder
	minSimilarity float32
	namespace     string
	logger        *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithMinSimilarity sets the similarity floor for hits.
// Default is DefaultMinSimilarity.
func WithMinSimilarity(min float32) Option {
	return func(s *Searcher) error {
		s.minSimilarity = min
		return nil
	}
}

// WithNamespace restricts search to chunks tagged with the namespace.
// Default is all namespaces.
func WithNamespace(namespace string) Option {
	return func(s *Searcher) error {
		s.namespace = namespace
		return nil
	}
}

// NewSearcher creates a new searcher over the given entry source.
func NewSearcher(source storage.EntrySource, embedder ai.Embedder, opts ...Option) (*Searcher, error) {
	if source == nil {
		return nil, ErrSourceRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	s := &Searcher{
		source:        source,
		embedder:      embedder,
		minSimilarity: DefaultMinSimilarity,
		logger:        slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// FindSimilar searches for chunks similar to the query.
// Returns up to maxHits results, ranked by similarity descending.
func (s *Searcher) FindSimilar(ctx context.Context, query string, maxHits int) ([]*Result, error) {
	queryVector, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		s.logger.Error("error generating embedding for query", "query", query, "err", err)
		return nil, err
	}

	var results []*Result
	for entry, err := range s.source.Entries(ctx) {
		if err != nil {
			s.logger.Error("error scanning entries", "err", err)
			return nil, err
		}
		if len(entry.Vector) == 0 {
			continue
		}
		if s.namespace != "" && entry.Document.Namespace() != s.namespace {
			continue
		}

		score := cosineSimilarity(queryVector, entry.Vector)
		if score >= s.minSimilarity {
			results = append(results, &Result{Entry: entry, Score: score})
		}
	}

	slices.SortFunc(results, func(a, b *Result) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	if maxHits > 0 && len(results) > maxHits {
		results = results[:maxHits]
	}

	return results, nil
}
