// Package dialogue holds the conversational rule engines: entity extraction,
// intent classification, result-set comparison, and suggestion synthesis.
// Everything here is deterministic and side-effect free.
package dialogue

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/archivio-cloud/archidex/internal/corpus"
	"github.com/archivio-cloud/archidex/internal/domain"
)

const (
	minYear = 1800
	maxYear = 2100
)

var yearRe = regexp.MustCompile(`\b(1[89]\d{2}|20\d{2})\b`)

// defaultDocTypes maps a canonical document type to the keywords that signal
// it. Keywords are matched against folded text.
func defaultDocTypes() map[string][]string {
	return map[string][]string{
		"testimonio": {"testimonio", "testigo", "declaracion", "relato"},
		"fotografia": {"foto", "fotografia", "imagen", "pic", "visual"},
		"reporte":    {"reporte", "informe", "report", "documento"},
		"carta":      {"carta", "misiva"},
		"acta":       {"acta", "registro", "protocolo"},
		"comunicado": {"comunicado", "boletin", "aviso"},
	}
}

// periodSpans maps historical-period phrases to inclusive year ranges.
var periodSpans = []struct {
	phrase string
	span   domain.YearSpan
}{
	{"gobierno de pinochet", domain.YearSpan{From: 1973, To: 1990}},
	{"dictadura militar", domain.YearSpan{From: 1973, To: 1990}},
	{"regimen militar", domain.YearSpan{From: 1973, To: 1990}},
	{"dictadura", domain.YearSpan{From: 1973, To: 1990}},
	{"gobierno de aylwin", domain.YearSpan{From: 1990, To: 1994}},
	{"transicion", domain.YearSpan{From: 1990, To: 1994}},
	{"unidad popular", domain.YearSpan{From: 1970, To: 1973}},
	{"gobierno de allende", domain.YearSpan{From: 1970, To: 1973}},
	{"golpe de estado", domain.YearSpan{From: 1973, To: 1973}},
	{"11 de septiembre", domain.YearSpan{From: 1973, To: 1973}},
	{"golpe", domain.YearSpan{From: 1973, To: 1973}},
	{"plebiscito", domain.YearSpan{From: 1988, To: 1988}},
	{"campana del no", domain.YearSpan{From: 1988, To: 1988}},
}

var (
	betweenRe = regexp.MustCompile(`entre\s+(\d{4})\s+y\s+(\d{4})`)
	decadeRe  = regexp.MustCompile(`(?:decada\s+(?:de\s+)?(?:los\s+)?|anos\s+)(\d{2})\b`)
)

// Extractor pulls structured hints out of free text. Pure and stateless.
type Extractor struct {
	docTypes map[string][]string
}

// NewExtractor builds an extractor with the default document-type vocabulary.
func NewExtractor() *Extractor {
	return &Extractor{docTypes: defaultDocTypes()}
}

// NewExtractorWithDocTypes overrides the document-type vocabulary.
func NewExtractorWithDocTypes(docTypes map[string][]string) *Extractor {
	return &Extractor{docTypes: docTypes}
}

// Extract returns the years, document types, topics, and historical period
// found in text. Empty results are valid.
func (e *Extractor) Extract(text string) domain.Entities {
	folded := corpus.Fold(text)
	out := domain.Entities{
		Years:    extractYears(folded),
		DocTypes: e.extractDocTypes(folded),
		Period:   extractPeriod(folded),
	}
	out.Topics = e.extractTopics(folded, out.DocTypes)
	return out
}

func extractYears(folded string) []int {
	seen := make(map[int]struct{})
	var years []int
	for _, m := range yearRe.FindAllString(folded, -1) {
		y, err := strconv.Atoi(m)
		if err != nil || y < minYear || y > maxYear {
			continue
		}
		if _, dup := seen[y]; dup {
			continue
		}
		seen[y] = struct{}{}
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

func (e *Extractor) extractDocTypes(folded string) []string {
	var found []string
	for docType, keywords := range e.docTypes {
		for _, kw := range keywords {
			if strings.Contains(folded, kw) {
				found = append(found, docType)
				break
			}
		}
	}
	sort.Strings(found)
	return found
}

// extractTopics returns stemmed tokens longer than 3 characters that are not
// stopwords, years, or document-type keywords.
func (e *Extractor) extractTopics(folded string, docTypes []string) []string {
	typeWords := make(map[string]struct{})
	for _, dt := range docTypes {
		for _, kw := range e.docTypes[dt] {
			typeWords[corpus.Stem(kw)] = struct{}{}
		}
	}

	seen := make(map[string]struct{})
	var topics []string
	for _, tok := range corpus.Tokenize(folded) {
		if len([]rune(tok)) <= 3 || corpus.IsStopword(tok) {
			continue
		}
		if yearRe.MatchString(tok) {
			continue
		}
		stemmed := corpus.Stem(tok)
		if _, isType := typeWords[stemmed]; isType {
			continue
		}
		if _, dup := seen[stemmed]; dup {
			continue
		}
		seen[stemmed] = struct{}{}
		topics = append(topics, stemmed)
	}
	sort.Strings(topics)
	return topics
}

// extractPeriod resolves "entre X y Y" ranges, known historical periods, and
// decade phrases, in that order of precedence.
func extractPeriod(folded string) *domain.YearSpan {
	if m := betweenRe.FindStringSubmatch(folded); m != nil {
		from, _ := strconv.Atoi(m[1])
		to, _ := strconv.Atoi(m[2])
		if from <= to && from >= minYear && to <= maxYear {
			return &domain.YearSpan{From: from, To: to}
		}
	}
	for _, p := range periodSpans {
		if strings.Contains(folded, p.phrase) {
			span := p.span
			return &span
		}
	}
	if m := decadeRe.FindStringSubmatch(folded); m != nil {
		d, _ := strconv.Atoi(m[1])
		return &domain.YearSpan{From: 1900 + d, To: 1900 + d + 9}
	}
	return nil
}
