package retrieval

import (
	"fmt"
	"math"
	"runtime"

	"github.com/mitchellh/hashstructure"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
)

// Index owns the postings map (term -> doc-id set) and the histogram
// store (doc-id -> histogram), and exposes insertion plus the four
// retrieval entry points (C5). It is bound for its lifetime to an
// Evaluator; rules may be installed or replaced at any time and affect
// subsequent queries only.
type Index struct {
	postings   map[Term]IDSet
	histograms map[DocID]Histogram
	evaluator  *Evaluator
	workers    int
	log        *logrus.Entry
}

// Option configures an Index at construction time.
type Option func(*Index)

// WithWorkerCount overrides the default worker-pool size used by the
// parallel retrieval paths. n <= 0 is treated as 1.
func WithWorkerCount(n int) Option {
	return func(idx *Index) {
		if n <= 0 {
			n = 1
		}
		idx.workers = n
	}
}

// WithLogger attaches a logrus logger; the index writes structured
// debug fields about ingestion and rule changes. Defaults to
// logrus.StandardLogger().
func WithLogger(l *logrus.Logger) Option {
	return func(idx *Index) {
		idx.log = l.WithField("component", "retrieval.Index")
	}
}

// New constructs an empty Index with its own bound Evaluator.
func New(opts ...Option) *Index {
	idx := &Index{
		postings:   make(map[Term]IDSet),
		histograms: make(map[DocID]Histogram),
		evaluator:  NewEvaluator(NewResolver()),
		workers:    defaultWorkerCount(),
		log:        logrus.StandardLogger().WithField("component", "retrieval.Index"),
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

func defaultWorkerCount() int {
	n := runtime.GOMAXPROCS(0)
	if n < 1 {
		return 1
	}
	return n
}

// Evaluator returns the index's bound expression evaluator, e.g. to
// install rules via Evaluator().Resolver().
func (idx *Index) Evaluator() *Evaluator {
	return idx.evaluator
}

// AddOneDimensionalRules installs a flat HLE -> term-set table on the
// bound evaluator, switching it to one-dimensional mode.
func (idx *Index) AddOneDimensionalRules(rules map[string]Set) {
	idx.evaluator.Resolver().AddOneDimensionalRules(rules)
	idx.log.WithField("rules", len(rules)).Debug("installed one-dimensional rules")
}

// AddMultidimensionalRules installs an ordered sequence of dimensional
// HLE tables on the bound evaluator, switching it to multi-dimensional
// mode.
func (idx *Index) AddMultidimensionalRules(tables []map[string]Set) {
	idx.evaluator.Resolver().AddMultidimensionalRules(tables)
	idx.log.WithField("dimensions", len(tables)).Debug("installed multi-dimensional rules")
}

// validateHistogram rejects negative or non-finite weights at ingress
// (spec section 7, ErrInvalidWeight; Open Question resolved in favor
// of rejecting rather than passing through).
func validateHistogram(h Histogram) error {
	for term, w := range h {
		if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
			return ErrInvalidWeight.New(w, term)
		}
	}
	return nil
}

// AddDocument indexes a document under id, overwriting any existing
// histogram for that id. Per spec section 4.5, overwriting does not
// scrub the previous document's stale postings entries — re-adding an
// id is the caller's responsibility to avoid if that matters.
func (idx *Index) AddDocument(id DocID, h Histogram) error {
	if err := validateHistogram(h); err != nil {
		return err
	}

	cp := h.Clone()
	idx.histograms[id] = cp
	for term := range cp {
		ids, ok := idx.postings[term]
		if !ok {
			ids = make(IDSet, 1)
			idx.postings[term] = ids
		}
		ids[id] = struct{}{}
	}
	return nil
}

// AddDocuments indexes a batch of documents, equivalent to iterating
// AddDocument. It stops at the first invalid document; documents
// before it in the slice remain indexed. The error kind from the
// failing AddDocument call is returned unwrapped, per the no-wrap
// contract on ingress/pipeline error kinds (spec section 7).
func (idx *Index) AddDocuments(docs []Document) error {
	for _, doc := range docs {
		if err := idx.AddDocument(doc.ID, doc.Histogram); err != nil {
			return err
		}
	}
	idx.log.WithField("count", len(docs)).Debug("indexed documents")
	return nil
}

// AddDocumentsFromJSON ingests documents whose weights arrived as
// loosely-typed values (e.g. decoded from JSON into
// map[string]interface{}), coercing each value to float64 before
// running it through the same validation as AddDocument.
func (idx *Index) AddDocumentsFromJSON(docs map[DocID]map[string]interface{}) error {
	for id, raw := range docs {
		h := make(Histogram, len(raw))
		for term, v := range raw {
			w, err := cast.ToFloat64E(v)
			if err != nil {
				return errors.Wrapf(err, "add documents from JSON: doc %d, term %q", id, term)
			}
			h[term] = w
		}
		if err := idx.AddDocument(id, h); err != nil {
			return err
		}
	}
	return nil
}

// Postings exposes the raw term -> doc-id-set index for read access,
// primarily so EvalExpression can be driven directly without going
// through a retrieval entry point.
func (idx *Index) Postings() map[Term]IDSet {
	return idx.postings
}

// Histogram returns the stored histogram for id, if any.
func (idx *Index) Histogram(id DocID) (Histogram, bool) {
	h, ok := idx.histograms[id]
	return h, ok
}

// Fingerprint returns a stable hash of a histogram's contents, useful
// for callers that want to dedupe probes or cache scores keyed by
// histogram identity rather than by pointer.
func (h Histogram) Fingerprint() (uint64, error) {
	sum, err := hashstructure.Hash(h, nil)
	if err != nil {
		return 0, fmt.Errorf("fingerprint histogram: %w", err)
	}
	return sum, nil
}
