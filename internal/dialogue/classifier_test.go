package dialogue

import (
	"testing"
	"time"

	"github.com/archivio-cloud/archidex/internal/domain"
)

func priorTurn(intent domain.Intent, entities domain.Entities) *domain.ConversationTurn {
	return &domain.ConversationTurn{
		RawText:   "derechos humanos",
		Intent:    intent,
		Entities:  entities,
		Timestamp: time.Now(),
	}
}

func TestClassify_NoPriorTurn(t *testing.T) {
	c := NewClassifier(NewExtractor())

	inputs := []string{"gracias", "no encuentro nada", "fotografías 1975", ""}
	for _, text := range inputs {
		if got := c.Classify(text, nil); got != domain.IntentNewTopic {
			t.Errorf("Classify(%q, nil) = %v, want new_topic", text, got)
		}
	}
}

func TestClassify_Satisfied(t *testing.T) {
	c := NewClassifier(NewExtractor())
	prev := priorTurn(domain.IntentNewTopic, domain.Entities{})

	for _, text := range []string{"gracias, perfecto", "excelente", "esto es justo lo que buscaba", "listo"} {
		if got := c.Classify(text, prev); got != domain.IntentSatisfied {
			t.Errorf("Classify(%q) = %v, want satisfied", text, got)
		}
	}
}

func TestClassify_Unsatisfied(t *testing.T) {
	c := NewClassifier(NewExtractor())
	prev := priorTurn(domain.IntentNewTopic, domain.Entities{})

	for _, text := range []string{"no encuentro lo que buscaba", "eso no me sirve", "en realidad quería otra cosa"} {
		if got := c.Classify(text, prev); got != domain.IntentUnsatisfied {
			t.Errorf("Classify(%q) = %v, want unsatisfied", text, got)
		}
	}
}

func TestClassify_RefinementAfterUnsatisfied(t *testing.T) {
	c := NewClassifier(NewExtractor())
	prev := priorTurn(domain.IntentUnsatisfied, domain.Entities{})

	if got := c.Classify("del periodo militar quizas", prev); got != domain.IntentRefinement {
		t.Errorf("expected refinement after unsatisfied turn, got %v", got)
	}
}

func TestClassify_RefinementOnNovelEntities(t *testing.T) {
	c := NewClassifier(NewExtractor())
	prev := priorTurn(domain.IntentNewTopic, domain.Entities{Topics: []string{"derecho", "humano"}})

	if got := c.Classify("con fecha 1976", prev); got != domain.IntentRefinement {
		t.Errorf("expected refinement for novel year, got %v", got)
	}
}

func TestClassify_RepeatedEntitiesIsNewTopic(t *testing.T) {
	c := NewClassifier(NewExtractor())
	prev := priorTurn(domain.IntentNewTopic, domain.Entities{Topics: []string{"derecho", "humano"}})

	// Same entities as before, no satisfaction signal either way.
	if got := c.Classify("derechos humanos", prev); got != domain.IntentNewTopic {
		t.Errorf("expected new_topic for repeated entities, got %v", got)
	}
}

func TestClassify_CustomPatterns(t *testing.T) {
	patterns := Patterns{
		Satisfied:   compileAll(`\bcerrar\b`),
		Unsatisfied: compileAll(`\brechazo\b`),
	}
	c := NewClassifierWithPatterns(NewExtractor(), patterns)
	prev := priorTurn(domain.IntentNewTopic, domain.Entities{})

	if got := c.Classify("cerrar", prev); got != domain.IntentSatisfied {
		t.Errorf("expected custom satisfied pattern to match, got %v", got)
	}
	if got := c.Classify("rechazo", prev); got != domain.IntentUnsatisfied {
		t.Errorf("expected custom unsatisfied pattern to match, got %v", got)
	}
	// Default vocabulary is replaced, not merged.
	if got := c.Classify("gracias", prev); got == domain.IntentSatisfied {
		t.Error("expected default patterns to be inactive")
	}
}
