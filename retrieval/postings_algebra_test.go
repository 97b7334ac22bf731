package retrieval

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func p(docs []DocID, terms ...Term) Posting {
	return Posting{Docs: NewIDSet(docs...), Terms: NewSet(terms...)}
}

func TestPostingUnionCommutativeAssociative(t *testing.T) {
	a := p([]DocID{1, 2}, "a")
	b := p([]DocID{2, 3}, "b")
	c := p([]DocID{3, 4}, "c")

	require.Equal(t, postingUnion(a, b), postingUnion(b, a))
	require.Equal(t, postingUnion(postingUnion(a, b), c), postingUnion(a, postingUnion(b, c)))

	idem := postingUnion(a, a)
	require.Equal(t, a, idem)
}

func TestPostingIntersectionCommutativeAssociative(t *testing.T) {
	a := p([]DocID{1, 2}, "a", "x")
	b := p([]DocID{2, 3}, "b", "x")
	c := p([]DocID{2, 4}, "c", "x")

	require.Equal(t, postingIntersection(a, b), postingIntersection(b, a))
	require.Equal(t, postingIntersection(postingIntersection(a, b), c), postingIntersection(a, postingIntersection(b, c)))
}

func TestPostingIntersectionEmptyWhenNoSharedTerms(t *testing.T) {
	a := p([]DocID{1, 2, 3}, "a")
	b := p([]DocID{2, 3}, "b")

	out := postingIntersection(a, b)
	require.Empty(t, out.Docs)
	require.Empty(t, out.Terms)
}

func TestPostingSubtractionSelf(t *testing.T) {
	a := p([]DocID{1, 2}, "a")
	out := postingSubtraction(a, a)
	// D1 remains unchanged by design, only K is emptied.
	require.Equal(t, a.Docs, out.Docs)
	require.Empty(t, out.Terms)
}

func TestPostingSubtractionByEmpty(t *testing.T) {
	a := p([]DocID{1, 2}, "a", "b")
	empty := Posting{Docs: IDSet{}, Terms: Set{}}
	out := postingSubtraction(a, empty)
	require.Equal(t, a.Docs, out.Docs)
	require.Equal(t, a.Terms, out.Terms)
}

func TestPostingXSubtractionSelf(t *testing.T) {
	a := p([]DocID{1, 2}, "a")
	out := postingXSubtraction(a, a)
	require.Empty(t, out.Docs)
	require.Empty(t, out.Terms)
}

func TestPostingXOrIsUnionMinusIntersection(t *testing.T) {
	a := p([]DocID{1, 2, 3}, "a")
	b := p([]DocID{2, 3, 4}, "b")

	xor := postingXOr(a, b)
	union := postingUnion(a, b)
	inter := postingIntersection(a, b)
	expected := subtractIDSet(union.Docs, inter.Docs)
	require.Equal(t, expected, xor.Docs)
}

func TestPostingOrAndUnionAreIdentical(t *testing.T) {
	a := p([]DocID{1, 2}, "a")
	b := p([]DocID{2, 3}, "b")
	require.Equal(t, postingUnion(a, b), postingOr(a, b))
}

func TestPostingAnd(t *testing.T) {
	a := p([]DocID{1, 2}, "a")
	b := p([]DocID{2, 3}, "b")
	out := postingAnd(a, b)
	require.Equal(t, NewIDSet(2), out.Docs)
	require.Equal(t, NewSet("a", "b"), out.Terms)
}
