package retrieval

import (
	"context"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Params are the shared controls for all four retrieval entry points
// (C6): count caps the number of results returned, fromEnd selects
// ascending (lowest score first) rather than descending order, and
// threshold is the inclusive lower bound a score must meet to be kept.
// Thresholding is standardized on >= across all four paths (spec
// section 9 resolves the source's >/>= inconsistency in favor of >=).
type Params struct {
	Count     int
	FromEnd   bool
	Threshold float64
}

// DefaultParams matches the external API defaults (spec section 6).
func DefaultParams() Params {
	return Params{Count: 10, FromEnd: false, Threshold: 0.001}
}

// RetrieveByQuery evaluates expression under the postings algebra to
// find candidates, then fans out across the index's worker pool to
// rescore each candidate under the histogram algebra, returning the
// thresholded, sorted, truncated result set.
func (idx *Index) RetrieveByQuery(ctx context.Context, expression []string, p Params) ([]Result, error) {
	candidates, err := idx.candidatesByQuery(expression)
	if err != nil {
		return nil, err
	}
	return idx.scoreByExpression(ctx, expression, candidates, p, true)
}

// RetrieveByQuerySingle is the single-threaded variant of
// RetrieveByQuery; it produces the same multiset of (doc-id, score)
// pairs, ordering and threshold semantics included.
func (idx *Index) RetrieveByQuerySingle(expression []string, p Params) ([]Result, error) {
	candidates, err := idx.candidatesByQuery(expression)
	if err != nil {
		return nil, err
	}
	return idx.scoreByExpression(context.Background(), expression, candidates, p, false)
}

func (idx *Index) candidatesByQuery(expression []string) ([]DocID, error) {
	posting, err := idx.evaluator.EvalExpression(expression, idx.postings)
	if err != nil {
		return nil, err
	}
	return posting.Docs.Slice(), nil
}

func (idx *Index) scoreByExpression(ctx context.Context, expression []string, candidates []DocID, p Params, parallel bool) ([]Result, error) {
	if !parallel {
		results := make([]Result, 0, len(candidates))
		for _, id := range candidates {
			hist := idx.histograms[id]
			scored, err := idx.evaluator.EvalHistogram(expression, hist)
			if err != nil {
				return nil, err
			}
			score := scored.Total()
			if score >= p.Threshold {
				results = append(results, Result{DocID: id, Score: score})
			}
		}
		return finalizeResults(results, p), nil
	}

	results := make([]Result, 0, len(candidates))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(idx.workers)
	for _, id := range candidates {
		id := id
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			hist := idx.histograms[id]
			scored, err := idx.evaluator.EvalHistogram(expression, hist)
			if err != nil {
				return err
			}
			score := scored.Total()
			if score >= p.Threshold {
				mu.Lock()
				results = append(results, Result{DocID: id, Score: score})
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return finalizeResults(results, p), nil
}

// RetrieveByHistogram scores every candidate sharing a term with probe
// by coincidence similarity, fanned out across the worker pool.
func (idx *Index) RetrieveByHistogram(ctx context.Context, probe Histogram, p Params) ([]Result, error) {
	candidates := idx.candidatesByHistogram(probe)

	results := make([]Result, 0, len(candidates))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(idx.workers)
	for _, id := range candidates {
		id := id
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			score := coincidence(probe, idx.histograms[id])
			if score >= p.Threshold {
				mu.Lock()
				results = append(results, Result{DocID: id, Score: score})
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "retrieve by histogram")
	}
	return finalizeResults(results, p), nil
}

// RetrieveByHistogramSingle is the single-threaded variant of
// RetrieveByHistogram. Threshold is >= here too (spec section 9
// standardizes away the source's strict > on this one path).
func (idx *Index) RetrieveByHistogramSingle(probe Histogram, p Params) []Result {
	candidates := idx.candidatesByHistogram(probe)
	results := make([]Result, 0, len(candidates))
	for _, id := range candidates {
		score := coincidence(probe, idx.histograms[id])
		if score >= p.Threshold {
			results = append(results, Result{DocID: id, Score: score})
		}
	}
	return finalizeResults(results, p)
}

func (idx *Index) candidatesByHistogram(probe Histogram) []DocID {
	docs := make(IDSet)
	for term := range probe {
		for id := range idx.postings[term] {
			docs[id] = struct{}{}
		}
	}
	return docs.Slice()
}

// coincidence computes sum(min(a[t], b[t])) over shared terms,
// iterating whichever histogram is smaller for a constant-factor win
// (matches the original InvertedIndex::documentsCoincidence).
func coincidence(a, b Histogram) float64 {
	small, large := a, b
	if len(large) < len(small) {
		small, large = large, small
	}
	var sum float64
	keys := make([]string, 0, len(small))
	for k := range small {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if lv, ok := large[k]; ok {
			sv := small[k]
			if sv < lv {
				sum += sv
			} else {
				sum += lv
			}
		}
	}
	return sum
}

// finalizeResults sorts by score (direction per p.FromEnd), breaking
// ties by ascending doc-id for reproducible output (spec section 5/9),
// then clamps and truncates to p.Count.
func finalizeResults(results []Result, p Params) []Result {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score == results[j].Score {
			return results[i].DocID < results[j].DocID
		}
		if p.FromEnd {
			return results[i].Score < results[j].Score
		}
		return results[i].Score > results[j].Score
	})

	count := p.Count
	if count < 0 {
		count = 0
	}
	if count > len(results) {
		count = len(results)
	}
	return results[:count]
}
