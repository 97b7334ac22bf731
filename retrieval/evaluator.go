package retrieval

// Evaluator interprets a postfix token stream against the Resolver's
// installed rules and one of the two algebras (C4). Operator tokens
// are the closed set {+, *, /, &, |, #|, #/}; every other token is a
// leaf, resolved through the Resolver (C1).
type Evaluator struct {
	resolver *Resolver
}

// NewEvaluator binds an Evaluator to a Resolver for its lifetime.
func NewEvaluator(resolver *Resolver) *Evaluator {
	return &Evaluator{resolver: resolver}
}

// Resolver returns the evaluator's bound rule resolver.
func (e *Evaluator) Resolver() *Resolver {
	return e.resolver
}

// EvalExpression evaluates tokens under the postings algebra against
// postings, the term -> doc-id-set index. Evaluation is recursive and
// right-to-left: the last token is consumed first; if it is an
// operator, its two operands are obtained by recursing again before
// the operator is applied. tokens is read only — EvalExpression walks
// it by index rather than mutating the caller's slice, so the same
// expression can be reused across many calls (e.g. one per candidate
// document in the retrieval pipeline).
func (e *Evaluator) EvalExpression(tokens []string, postings map[string]IDSet) (Posting, error) {
	pos := len(tokens)
	result, newPos, err := e.evalExpressionAt(tokens, pos, postings)
	if err != nil {
		return Posting{}, err
	}
	if newPos != 0 {
		return Posting{}, ErrMalformedExpression.New("trailing tokens before expression start")
	}
	return result, nil
}

func (e *Evaluator) evalExpressionAt(tokens []string, pos int, postings map[string]IDSet) (Posting, int, error) {
	if pos == 0 {
		return Posting{}, 0, ErrMalformedExpression.New("operand stack exhausted")
	}
	pos--
	token := tokens[pos]

	if op, ok := postingOps[token]; ok {
		arg2, pos, err := e.evalExpressionAt(tokens, pos, postings)
		if err != nil {
			return Posting{}, 0, err
		}
		arg1, pos, err := e.evalExpressionAt(tokens, pos, postings)
		if err != nil {
			return Posting{}, 0, err
		}
		return op(arg1, arg2), pos, nil
	}

	terms, err := e.resolver.ExpandLeaf(token)
	if err != nil {
		return Posting{}, 0, err
	}
	docs := make(IDSet)
	for t := range terms {
		for id := range postings[t] {
			docs[id] = struct{}{}
		}
	}
	return Posting{Docs: docs, Terms: terms}, pos, nil
}

// EvalHistogram evaluates tokens under the histogram algebra against a
// single document's histogram, using a standard left-to-right postfix
// operand stack.
func (e *Evaluator) EvalHistogram(tokens []string, hist Histogram) (Histogram, error) {
	stack := make([]Histogram, 0, len(tokens))
	for _, token := range tokens {
		if op, ok := histOps[token]; ok {
			if len(stack) < 2 {
				return nil, ErrMalformedExpression.New("operator " + token + " on empty stack")
			}
			b := stack[len(stack)-1]
			a := stack[len(stack)-2]
			stack = stack[:len(stack)-2]
			stack = append(stack, op(a, b))
			continue
		}

		terms, err := e.resolver.ExpandLeaf(token)
		if err != nil {
			return nil, err
		}
		leaf := make(Histogram, len(terms))
		for t := range terms {
			if w, ok := hist[t]; ok {
				leaf[t] = w
			}
		}
		stack = append(stack, leaf)
	}

	if len(stack) != 1 {
		return nil, ErrMalformedExpression.New("expression did not reduce to a single operand")
	}
	return stack[0], nil
}
