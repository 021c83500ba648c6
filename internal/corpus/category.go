package corpus

import (
	"sort"
	"strings"

	"github.com/archivio-cloud/archidex/internal/domain"
)

// Category kinds. The set is fixed: subjects, creators, and geographic
// coverage are the only faceted record fields.
const (
	KindSubject = "subject"
	KindCreator = "creator"
	KindPlace   = "place"
)

// Kinds lists the valid category kinds.
var Kinds = []string{KindSubject, KindCreator, KindPlace}

// CategoryEntry is one browsable group: a name under a kind with the number
// of records bearing it.
type CategoryEntry struct {
	Kind  string `json:"kind"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// CategoryIndex groups records by subject, creator, and place. Derived once
// from the store at load time; read-only afterward.
type CategoryIndex struct {
	store   *Store
	entries map[string][]CategoryEntry     // kind -> sorted entries
	members map[string]map[string][]string // kind -> lowercased name -> record ids
}

// NewCategoryIndex builds the grouping from the record store.
func NewCategoryIndex(store *Store) *CategoryIndex {
	idx := &CategoryIndex{
		store:   store,
		entries: make(map[string][]CategoryEntry, len(Kinds)),
		members: make(map[string]map[string][]string, len(Kinds)),
	}
	names := make(map[string]map[string]string, len(Kinds)) // kind -> folded -> display
	for _, kind := range Kinds {
		idx.members[kind] = make(map[string][]string)
		names[kind] = make(map[string]string)
	}

	add := func(kind, name, id string) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		key := strings.ToLower(name)
		if _, seen := names[kind][key]; !seen {
			names[kind][key] = name
		}
		idx.members[kind][key] = append(idx.members[kind][key], id)
	}

	for _, r := range store.Records() {
		for _, subj := range r.Subjects {
			add(KindSubject, subj, r.ID)
		}
		add(KindCreator, r.Creator, r.ID)
		add(KindPlace, r.Coverage, r.ID)
	}

	for _, kind := range Kinds {
		entries := make([]CategoryEntry, 0, len(idx.members[kind]))
		for key, ids := range idx.members[kind] {
			entries = append(entries, CategoryEntry{
				Kind:  kind,
				Name:  names[kind][key],
				Count: len(ids),
			})
		}
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].Count != entries[j].Count {
				return entries[i].Count > entries[j].Count
			}
			return entries[i].Name < entries[j].Name
		})
		idx.entries[kind] = entries
	}
	return idx
}

// List returns every kind's entries sorted by count descending, then name.
// The returned slices are shared; callers must not mutate.
func (x *CategoryIndex) List() map[string][]CategoryEntry {
	return x.entries
}

// RecordIDsFor returns the record ids under a category by exact
// case-insensitive name match, in load order.
func (x *CategoryIndex) RecordIDsFor(kind, name string) ([]string, bool) {
	byName, ok := x.members[kind]
	if !ok {
		return nil, false
	}
	ids, ok := byName[strings.ToLower(strings.TrimSpace(name))]
	return ids, ok
}

// RecordsFor resolves a category's members to full records.
func (x *CategoryIndex) RecordsFor(kind, name string) ([]domain.Record, error) {
	ids, ok := x.RecordIDsFor(kind, name)
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	out := make([]domain.Record, 0, len(ids))
	for _, id := range ids {
		if r, found := x.store.ByID(id); found {
			out = append(out, r)
		}
	}
	return out, nil
}
