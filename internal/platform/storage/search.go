package storage

// SearchQuery is the engine-independent full-text query tree. Engine
// implementations translate it to their native search DSL.
type SearchQuery interface {
	isSearchQuery()
}

// TermQuery matches a single analyzed term.
type TermQuery struct {
	Term string
}

// MatchPhraseQuery matches a phrase against one field.
type MatchPhraseQuery struct {
	Phrase string
	Field  string
}

// ConjunctionQuery requires every sub-query to match.
type ConjunctionQuery struct {
	Conjuncts []SearchQuery
}

// DisjunctionQuery requires at least one sub-query to match.
type DisjunctionQuery struct {
	Disjuncts []SearchQuery
}

func (TermQuery) isSearchQuery()        {}
func (MatchPhraseQuery) isSearchQuery() {}
func (ConjunctionQuery) isSearchQuery() {}
func (DisjunctionQuery) isSearchQuery() {}

func (q *ConjunctionQuery) And(sub SearchQuery) *ConjunctionQuery {
	q.Conjuncts = append(q.Conjuncts, sub)
	return q
}

func (q *DisjunctionQuery) Or(sub SearchQuery) *DisjunctionQuery {
	q.Disjuncts = append(q.Disjuncts, sub)
	return q
}
