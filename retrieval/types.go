// Package retrieval implements an in-memory inverted index over
// weighted-term documents, with a postfix expression evaluator that
// operates in parallel over two algebras: one over posting lists
// (doc-id sets and term sets) used to prune candidates, and one over
// histograms (weighted term maps) used to rescore them.
package retrieval

import "sort"

// Term is a non-empty opaque string naming a position in a histogram.
type Term = string

// DocID is a client-chosen, signed document identifier. Uniqueness is
// the caller's responsibility; the index treats collisions as overwrite.
type DocID = int64

// Set is an unordered collection of terms.
type Set map[Term]struct{}

// NewSet builds a Set from the given terms.
func NewSet(terms ...Term) Set {
	s := make(Set, len(terms))
	for _, t := range terms {
		s[t] = struct{}{}
	}
	return s
}

// Clone returns a shallow copy of s.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for k := range s {
		out[k] = struct{}{}
	}
	return out
}

// Slice returns the set's members in ascending lexicographic order.
func (s Set) Slice() []Term {
	out := make([]Term, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// IDSet is an unordered collection of document ids.
type IDSet map[DocID]struct{}

// NewIDSet builds an IDSet from the given ids.
func NewIDSet(ids ...DocID) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Clone returns a shallow copy of s.
func (s IDSet) Clone() IDSet {
	out := make(IDSet, len(s))
	for k := range s {
		out[k] = struct{}{}
	}
	return out
}

// Slice returns the set's members in ascending order.
func (s IDSet) Slice() []DocID {
	out := make([]DocID, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Histogram maps a term to a non-negative weight. An absent term is
// equivalent to weight zero.
type Histogram map[Term]float64

// Clone returns a shallow copy of h.
func (h Histogram) Clone() Histogram {
	out := make(Histogram, len(h))
	for k, v := range h {
		out[k] = v
	}
	return out
}

// Total sums the histogram's weights in ascending key order, so that
// repeated calls are bit-for-bit reproducible regardless of map
// iteration order.
func (h Histogram) Total() float64 {
	var sum float64
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sum += h[k]
	}
	return sum
}

// Posting is the operand type of the postings algebra (C2): a set of
// document ids paired with the set of terms that produced it.
type Posting struct {
	Docs  IDSet
	Terms Set
}

// Document is a single (id, histogram) pair, used by AddDocuments.
type Document struct {
	ID        DocID
	Histogram Histogram
}

// Result is a single scored retrieval hit.
type Result struct {
	DocID DocID
	Score float64
}
