package corpus

import (
	"errors"
	"strings"
	"testing"

	"github.com/archivio-cloud/archidex/internal/domain"
)

const sampleCorpus = `[
	{
		"title": "Fotografías del programa Padres e Hijos",
		"href": "https://archivo.example.org/coleccion/padres-e-hijos-1975",
		"dc:subject": ["Educación", "Fotografía"],
		"dc:creator": ["Universidad Alberto Hurtado"],
		"dc:coverage": ["Santiago"],
		"dc:date": ["1975"]
	},
	{
		"title": "Carta abierta sobre derechos humanos",
		"href": "https://archivo.example.org/doc/carta-derechos-humanos",
		"dc:subject": "Derechos Humanos",
		"dc:creator": [],
		"dc:coverage": []
	},
	{
		"title": "Acta de la Vicaría de la Solidaridad",
		"href": "https://archivo.example.org/doc/acta-vicaria",
		"dc:subject": ["Derechos Humanos", "Iglesia"],
		"dc:creator": ["Vicaría de la Solidaridad"],
		"dc:coverage": ["Santiago"]
	}
]`

func loadSample(t *testing.T) []domain.Record {
	t.Helper()
	records, err := Parse([]byte(sampleCorpus))
	if err != nil {
		t.Fatalf("parse sample corpus: %v", err)
	}
	return records
}

func TestParse_AssignsLoadOrderIDs(t *testing.T) {
	records := loadSample(t)

	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	for i, r := range records {
		if want := []string{"0", "1", "2"}[i]; r.ID != want {
			t.Errorf("record %d: expected id %q, got %q", i, want, r.ID)
		}
	}
}

func TestParse_ScalarAndArrayFields(t *testing.T) {
	records := loadSample(t)

	if got := records[1].Subjects; len(got) != 1 || got[0] != "Derechos Humanos" {
		t.Errorf("expected scalar dc:subject promoted to list, got %v", got)
	}
	if records[0].Creator != "Universidad Alberto Hurtado" {
		t.Errorf("expected first creator, got %q", records[0].Creator)
	}
	if records[1].Creator != "" {
		t.Errorf("expected empty creator, got %q", records[1].Creator)
	}
	if records[0].Coverage != "Santiago" {
		t.Errorf("expected coverage Santiago, got %q", records[0].Coverage)
	}
}

func TestParse_BlobContainsWeightedFields(t *testing.T) {
	records := loadSample(t)
	blob := records[0].Blob

	// Title tokens are repeated for weight.
	if got := strings.Count(blob, "padre"); got < 3 {
		t.Errorf("expected title token repeated >=3 times in blob, got %d\nblob: %s", got, blob)
	}
	// URL slug words contribute.
	if !strings.Contains(blob, "1975") {
		t.Errorf("expected blob to contain slug year, blob: %s", blob)
	}
	// Metadata fields are normalized (folded, stemmed).
	if !strings.Contains(blob, "educacion") {
		t.Errorf("expected folded subject token, blob: %s", blob)
	}
	if strings.Contains(blob, "í") {
		t.Errorf("expected accents folded out of blob: %s", blob)
	}
}

func TestParse_EmptyCorpus(t *testing.T) {
	_, err := Parse([]byte(`[]`))
	if !errors.Is(err, domain.ErrEmptyCorpus) {
		t.Errorf("expected ErrEmptyCorpus, got %v", err)
	}
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte(`{not json`))
	if err == nil {
		t.Fatal("expected error for malformed corpus")
	}
}

func TestStore_Lookups(t *testing.T) {
	store := NewStore(loadSample(t))

	if store.Len() != 3 {
		t.Fatalf("expected 3 records, got %d", store.Len())
	}
	r, ok := store.ByID("1")
	if !ok {
		t.Fatal("expected record 1 to exist")
	}
	if r.Title != "Carta abierta sobre derechos humanos" {
		t.Errorf("unexpected title %q", r.Title)
	}
	if _, ok := store.ByID("99"); ok {
		t.Error("expected lookup miss for unknown id")
	}
	if got := store.TitleOf("99"); got != "" {
		t.Errorf("expected empty title for unknown id, got %q", got)
	}
}

func TestStore_DocFreq(t *testing.T) {
	store := NewStore(loadSample(t))

	// "derecho" appears in records 1 and 2 (stemmed blob token).
	if got := store.DocFreq("derecho"); got != 2 {
		t.Errorf("expected DocFreq(derecho)=2, got %d", got)
	}
	// Repetition inside one blob counts once.
	if got := store.DocFreq("padre"); got != 1 {
		t.Errorf("expected DocFreq(padre)=1, got %d", got)
	}
	if got := store.DocFreq("ausente"); got != 0 {
		t.Errorf("expected DocFreq(ausente)=0, got %d", got)
	}
}
