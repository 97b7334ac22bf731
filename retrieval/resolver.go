package retrieval

import "strings"

// RuleMode selects how a Resolver interprets leaf tokens.
type RuleMode int

const (
	// RuleModeNone means no rules are installed; every leaf is a
	// literal term.
	RuleModeNone RuleMode = iota
	// RuleModeOneDimensional means leaves are looked up in a single
	// HLE -> term-set table.
	RuleModeOneDimensional
	// RuleModeMultiDimensional means tuple leaves "(s1, s2, ...)" are
	// resolved component-wise against an ordered list of tables and
	// combined via Cartesian product.
	RuleModeMultiDimensional
)

// Resolver expands high-level-element (HLE) symbols to concrete term
// sets. It is pure and stateless apart from its installed rule tables,
// and is safe for concurrent reads as long as no mutation
// (AddOneDimensionalRules / AddMultidimensionalRules) races with a
// query, per the data-race contract in spec section 5.
type Resolver struct {
	mode     RuleMode
	oneDim   map[string]Set
	multiDim []map[string]Set
}

// NewResolver returns a Resolver with no rules installed; every leaf
// token is treated as a literal term.
func NewResolver() *Resolver {
	return &Resolver{mode: RuleModeNone}
}

// Mode reports the resolver's current rule mode.
func (r *Resolver) Mode() RuleMode {
	return r.mode
}

// AddOneDimensionalRules installs a flat HLE -> term-set table,
// switching to one-dimensional mode and discarding any installed
// multi-dimensional tables (rule mode is exclusive, spec section 3).
func (r *Resolver) AddOneDimensionalRules(rules map[string]Set) {
	r.mode = RuleModeOneDimensional
	r.multiDim = nil
	r.oneDim = make(map[string]Set, len(rules))
	for k, v := range rules {
		r.oneDim[k] = v.Clone()
	}
}

// AddMultidimensionalRules installs an ordered sequence of
// dimensional HLE tables, switching to multi-dimensional mode and
// discarding any installed one-dimensional table.
func (r *Resolver) AddMultidimensionalRules(tables []map[string]Set) {
	r.mode = RuleModeMultiDimensional
	r.oneDim = nil
	r.multiDim = make([]map[string]Set, len(tables))
	for i, table := range tables {
		cp := make(map[string]Set, len(table))
		for k, v := range table {
			cp[k] = v.Clone()
		}
		r.multiDim[i] = cp
	}
}

// ExpandLeaf resolves a single leaf token to a concrete term set,
// per spec section 4.1.
func (r *Resolver) ExpandLeaf(token string) (Set, error) {
	switch r.mode {
	case RuleModeMultiDimensional:
		return r.expandTuple(token)
	case RuleModeOneDimensional:
		if terms, ok := r.oneDim[token]; ok {
			return terms.Clone(), nil
		}
		return NewSet(token), nil
	default:
		return NewSet(token), nil
	}
}

func (r *Resolver) expandTuple(token string) (Set, error) {
	parts := splitTuple(token)
	if len(parts) != len(r.multiDim) {
		return nil, ErrArityMismatch.New(token, len(parts), len(r.multiDim))
	}

	// product accumulates partial tuples as we fold in each dimension.
	product := [][]string{{}}
	for i, part := range parts {
		table := r.multiDim[i]
		var expansion []string
		if vals, ok := table[part]; ok {
			expansion = vals.Slice()
		} else {
			expansion = []string{part}
		}

		next := make([][]string, 0, len(product)*len(expansion))
		for _, vec := range product {
			for _, val := range expansion {
				tuple := make([]string, len(vec), len(vec)+1)
				copy(tuple, vec)
				tuple = append(tuple, val)
				next = append(next, tuple)
			}
		}
		product = next
	}

	result := make(Set, len(product))
	for _, vec := range product {
		result[strings.Join(vec, ", ")] = struct{}{}
	}
	return result, nil
}

// splitTuple strips the outer parentheses and all ASCII whitespace
// from a tuple leaf, then splits the remainder on commas.
func splitTuple(token string) []string {
	inner := token
	if strings.HasPrefix(inner, "(") && strings.HasSuffix(inner, ")") {
		inner = inner[1 : len(inner)-1]
	}
	inner = stripASCIISpace(inner)
	return strings.Split(inner, ",")
}

func stripASCIISpace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\v' || r == '\f' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
