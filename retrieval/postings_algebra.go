package retrieval

// The postings algebra (C2) operates on Posting operands — a doc-id
// set paired with the term set that produced it — and drives candidate
// pruning ahead of per-document rescoring. It never inspects weights.

func postingUnion(a, b Posting) Posting {
	docs := make(IDSet, len(a.Docs)+len(b.Docs))
	for id := range a.Docs {
		docs[id] = struct{}{}
	}
	for id := range b.Docs {
		docs[id] = struct{}{}
	}
	return Posting{Docs: docs, Terms: unionSet(a.Terms, b.Terms)}
}

func postingIntersection(a, b Posting) Posting {
	terms := intersectSet(a.Terms, b.Terms)
	if len(terms) == 0 {
		return Posting{Docs: IDSet{}, Terms: Set{}}
	}
	docs := intersectIDSet(a.Docs, b.Docs)
	return Posting{Docs: docs, Terms: terms}
}

func postingSubtraction(a, b Posting) Posting {
	terms := subtractSet(a.Terms, b.Terms)
	return Posting{Docs: a.Docs, Terms: terms}
}

func postingAnd(a, b Posting) Posting {
	docs := intersectIDSet(a.Docs, b.Docs)
	terms := unionSet(a.Terms, b.Terms)
	return Posting{Docs: docs, Terms: terms}
}

func postingOr(a, b Posting) Posting {
	return postingUnion(a, b)
}

func postingXOr(a, b Posting) Posting {
	docs := symmetricDifferenceIDSet(a.Docs, b.Docs)
	terms := unionSet(a.Terms, b.Terms)
	return Posting{Docs: docs, Terms: terms}
}

func postingXSubtraction(a, b Posting) Posting {
	docs := subtractIDSet(a.Docs, b.Docs)
	terms := subtractSet(a.Terms, b.Terms)
	return Posting{Docs: docs, Terms: terms}
}

// postingOps dispatches the seven operator glyphs shared with the
// histogram algebra (C3); C4 uses this table to recognize operator
// tokens so that everything else is treated as a leaf.
var postingOps = map[string]func(a, b Posting) Posting{
	"+":  postingUnion,
	"*":  postingIntersection,
	"/":  postingSubtraction,
	"&":  postingAnd,
	"|":  postingOr,
	"#|": postingXOr,
	"#/": postingXSubtraction,
}

func unionSet(a, b Set) Set {
	out := make(Set, len(a)+len(b))
	for k := range a {
		out[k] = struct{}{}
	}
	for k := range b {
		out[k] = struct{}{}
	}
	return out
}

func intersectSet(a, b Set) Set {
	small, large := a, b
	if len(large) < len(small) {
		small, large = large, small
	}
	out := make(Set)
	for k := range small {
		if _, ok := large[k]; ok {
			out[k] = struct{}{}
		}
	}
	return out
}

func subtractSet(a, b Set) Set {
	out := make(Set, len(a))
	for k := range a {
		if _, ok := b[k]; !ok {
			out[k] = struct{}{}
		}
	}
	return out
}

func intersectIDSet(a, b IDSet) IDSet {
	small, large := a, b
	if len(large) < len(small) {
		small, large = large, small
	}
	out := make(IDSet)
	for id := range small {
		if _, ok := large[id]; ok {
			out[id] = struct{}{}
		}
	}
	return out
}

func subtractIDSet(a, b IDSet) IDSet {
	out := make(IDSet, len(a))
	for id := range a {
		if _, ok := b[id]; !ok {
			out[id] = struct{}{}
		}
	}
	return out
}

func symmetricDifferenceIDSet(a, b IDSet) IDSet {
	out := make(IDSet)
	for id := range a {
		if _, ok := b[id]; !ok {
			out[id] = struct{}{}
		}
	}
	for id := range b {
		if _, ok := a[id]; !ok {
			out[id] = struct{}{}
		}
	}
	return out
}
