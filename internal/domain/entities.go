package domain

// YearSpan is an inclusive year range resolved from a historical-period
// phrase ("dictadura militar", "década de los 70", "entre 1980 y 1985").
type YearSpan struct {
	From int
	To   int
}

// Entities are the structured hints extracted from free text. Slices are
// sorted and deduplicated; empty slices are valid output.
type Entities struct {
	Years    []int
	DocTypes []string
	Topics   []string
	// Period is supplemental context used only when building the effective
	// query. It does not count as an explicit year.
	Period *YearSpan
}

// Empty reports whether no entity of any kind was extracted.
func (e Entities) Empty() bool {
	return len(e.Years) == 0 && len(e.DocTypes) == 0 && len(e.Topics) == 0 && e.Period == nil
}

// MergeEntities folds turn entities into accumulated ones. A key already
// populated is overwritten only when the new value is non-empty.
func MergeEntities(acc, turn Entities) Entities {
	out := acc
	if len(turn.Years) > 0 {
		out.Years = turn.Years
	}
	if len(turn.DocTypes) > 0 {
		out.DocTypes = turn.DocTypes
	}
	if len(turn.Topics) > 0 {
		out.Topics = turn.Topics
	}
	if turn.Period != nil {
		out.Period = turn.Period
	}
	return out
}

// ContainsYear reports whether the given year was extracted.
func (e Entities) ContainsYear(year int) bool {
	for _, y := range e.Years {
		if y == year {
			return true
		}
	}
	return false
}

// ContainsTopic reports whether the given topic token was extracted.
func (e Entities) ContainsTopic(topic string) bool {
	for _, t := range e.Topics {
		if t == topic {
			return true
		}
	}
	return false
}

// HasNovelty reports whether e carries any entity absent from prev. Used by
// the intent classifier to distinguish refinement from a repeated topic.
func (e Entities) HasNovelty(prev Entities) bool {
	for _, y := range e.Years {
		if !prev.ContainsYear(y) {
			return true
		}
	}
	for _, t := range e.Topics {
		if !prev.ContainsTopic(t) {
			return true
		}
	}
	for _, d := range e.DocTypes {
		found := false
		for _, p := range prev.DocTypes {
			if p == d {
				found = true
				break
			}
		}
		if !found {
			return true
		}
	}
	return false
}
