// Package corpus loads the archival-record corpus and derives the immutable
// in-memory structures the rest of the engine reads: the record store, the
// category index, and the normalized text blobs used for ranking.
package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/archivio-cloud/archidex/internal/domain"
)

// Field caps for the text blob, mirroring the weights of the source index:
// the title dominates, subjects matter more than creators, creators more
// than coverage.
const (
	blobTitleRepeat  = 3
	blobMaxSubjects  = 15
	blobMaxCreators  = 10
	blobMaxCoverages = 5
	blobMaxDates     = 3
)

// rawRecord is the on-disk shape: Dublin Core fields may appear as a single
// string or as an array.
type rawRecord struct {
	Title    string     `json:"title"`
	Href     string     `json:"href"`
	Subjects stringList `json:"dc:subject"`
	Creators stringList `json:"dc:creator"`
	Coverage stringList `json:"dc:coverage"`
	Dates    stringList `json:"dc:date"`
}

// stringList accepts either a JSON string or an array of strings.
type stringList []string

func (l *stringList) UnmarshalJSON(data []byte) error {
	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		*l = many
		return nil
	}
	var one string
	if err := json.Unmarshal(data, &one); err != nil {
		return fmt.Errorf("expected string or string array: %w", err)
	}
	if one != "" {
		*l = []string{one}
	}
	return nil
}

// Load reads the record corpus from a JSON file. Record IDs are assigned by
// load order and are stable for the process lifetime. Returns
// domain.ErrEmptyCorpus when the file holds no records.
func Load(path string) ([]domain.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a JSON array of raw records into domain records.
func Parse(data []byte) ([]domain.Record, error) {
	var raw []rawRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse corpus: %w", err)
	}
	if len(raw) == 0 {
		return nil, domain.ErrEmptyCorpus
	}

	records := make([]domain.Record, 0, len(raw))
	for i, r := range raw {
		rec := domain.Record{
			ID:       strconv.Itoa(i),
			Title:    strings.TrimSpace(r.Title),
			Subjects: trimAll(r.Subjects),
			Link:     r.Href,
		}
		if len(r.Creators) > 0 {
			rec.Creator = strings.TrimSpace(r.Creators[0])
		}
		if len(r.Coverage) > 0 {
			rec.Coverage = strings.TrimSpace(r.Coverage[0])
		}
		rec.Blob = buildBlob(r)
		records = append(records, rec)
	}
	return records, nil
}

// buildBlob assembles and normalizes the text used for embedding and keyword
// scoring. The title is repeated to weight it over the metadata fields; the
// last URL path segment contributes its slug words.
func buildBlob(r rawRecord) string {
	var parts []string
	for range blobTitleRepeat {
		parts = append(parts, r.Title)
	}
	if slug := linkSlug(r.Href); slug != "" {
		parts = append(parts, slug)
	}
	parts = append(parts, capped(r.Subjects, blobMaxSubjects)...)
	parts = append(parts, capped(r.Creators, blobMaxCreators)...)
	parts = append(parts, capped(r.Coverage, blobMaxCoverages)...)
	parts = append(parts, capped(r.Dates, blobMaxDates)...)
	return NormalizeBlob(strings.Join(parts, " "))
}

// linkSlug extracts keyword-bearing words from the last path segment of a URL.
func linkSlug(href string) string {
	if href == "" {
		return ""
	}
	seg := href
	if i := strings.LastIndex(seg, "/"); i >= 0 {
		seg = seg[i+1:]
	}
	seg = strings.ReplaceAll(seg, "-", " ")
	seg = strings.ReplaceAll(seg, "_", " ")
	return seg
}

func capped(vals []string, maxLen int) []string {
	if len(vals) > maxLen {
		vals = vals[:maxLen]
	}
	return vals
}

func trimAll(vals []string) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
