package dialogue

import (
	"regexp"

	"github.com/archivio-cloud/archidex/internal/corpus"
	"github.com/archivio-cloud/archidex/internal/domain"
)

// Patterns are the satisfaction and dissatisfaction vocabularies, injectable
// so an alternative classifier can be swapped in without touching the rules.
type Patterns struct {
	Satisfied   []*regexp.Regexp
	Unsatisfied []*regexp.Regexp
}

// DefaultPatterns returns the built-in Spanish vocabularies. Patterns match
// against folded (lowercased, accent-stripped) text.
func DefaultPatterns() Patterns {
	return Patterns{
		// Satisfaction runs before dissatisfaction, so this vocabulary must
		// avoid words that also appear in negated phrases ("no me sirve",
		// "no está bien").
		Satisfied: compileAll(
			`\b(gracias|thank|perfecto|excelente|genial|justo|exacto)\b`,
			`\besto es\b`,
			`\b(listo|done)\b`,
		),
		Unsatisfied: compileAll(
			`\b(no encuentro|no esta|falta|no sirve|no es|otra cosa|diferente)\b`,
			`\bno\s+(son|me|es|esta|sirve)\b`,
			`\b(estos|esos|eso)\s+no\b`,
			`\b(en realidad|mas bien|en lugar de)\b`,
			`\b(hm|meh|nah|nope)\b`,
		),
	}
}

func compileAll(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, regexp.MustCompile(e))
	}
	return out
}

// EntityExtractor is the extraction capability the classifier consumes for
// its refinement rule.
type EntityExtractor interface {
	Extract(text string) domain.Entities
}

// Classifier labels conversational turns. Rule-based and deterministic: the
// rules apply in a fixed order and the first match wins.
type Classifier struct {
	patterns  Patterns
	extractor EntityExtractor
}

// NewClassifier builds a classifier with the default pattern vocabularies.
func NewClassifier(extractor EntityExtractor) *Classifier {
	return &Classifier{patterns: DefaultPatterns(), extractor: extractor}
}

// NewClassifierWithPatterns overrides the pattern vocabularies.
func NewClassifierWithPatterns(extractor EntityExtractor, patterns Patterns) *Classifier {
	return &Classifier{patterns: patterns, extractor: extractor}
}

// Classify labels text given the session's most recent turn (nil for a fresh
// session). Rules, first match wins:
//  1. no prior turn -> new topic
//  2. satisfaction vocabulary -> satisfied
//  3. dissatisfaction vocabulary -> unsatisfied
//  4. prior turn unsatisfied, or novel entities vs the prior turn -> refinement
//  5. otherwise -> new topic
func (c *Classifier) Classify(text string, prev *domain.ConversationTurn) domain.Intent {
	if prev == nil {
		return domain.IntentNewTopic
	}

	folded := corpus.Fold(text)
	if matchAny(c.patterns.Satisfied, folded) {
		return domain.IntentSatisfied
	}
	if matchAny(c.patterns.Unsatisfied, folded) {
		return domain.IntentUnsatisfied
	}

	if prev.Intent == domain.IntentUnsatisfied {
		return domain.IntentRefinement
	}
	if c.extractor.Extract(text).HasNovelty(prev.Entities) {
		return domain.IntentRefinement
	}
	return domain.IntentNewTopic
}

func matchAny(patterns []*regexp.Regexp, folded string) bool {
	for _, p := range patterns {
		if p.MatchString(folded) {
			return true
		}
	}
	return false
}
