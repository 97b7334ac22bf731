package retrieval

import "gopkg.in/src-d/go-errors.v1"

var (
	// ErrMalformedExpression is returned when a postfix expression
	// underflows its operand stack, or does not reduce to exactly one
	// operand.
	ErrMalformedExpression = errors.NewKind("malformed expression: %s")

	// ErrArityMismatch is returned when a tuple leaf's component count
	// does not match the number of installed dimensional rule tables.
	ErrArityMismatch = errors.NewKind("tuple %q has %d component(s), expected %d")

	// ErrInvalidWeight is returned when a document's histogram carries
	// a negative or non-finite weight.
	ErrInvalidWeight = errors.NewKind("invalid weight %v for term %q")
)
