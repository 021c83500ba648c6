package dialogue

import (
	"reflect"
	"testing"
)

// --- Mocks ---

type mockTitles map[string]string

func (m mockTitles) TitleOf(id string) string { return m[id] }

// --- Tests ---

func TestCompare_PartitionsRepeatedAndNovel(t *testing.T) {
	c := NewComparator(mockTitles{})

	cmp := c.Compare([]string{"1", "2", "3"}, []string{"2", "3", "4"})

	if !reflect.DeepEqual(cmp.Repeated, []string{"2", "3"}) {
		t.Errorf("expected repeated [2 3], got %v", cmp.Repeated)
	}
	if !reflect.DeepEqual(cmp.Novel, []string{"4"}) {
		t.Errorf("expected novel [4], got %v", cmp.Novel)
	}
}

func TestCompare_OverlapTopics(t *testing.T) {
	titles := mockTitles{
		"1": "Testimonios de la represión",
		"2": "Fotografías de Santiago",
		"3": "Cartas desde Santiago",
	}
	c := NewComparator(titles)

	cmp := c.Compare([]string{"1", "2"}, []string{"3"})

	// "santiago" appears in titles on both sides; short tokens are dropped.
	if !reflect.DeepEqual(cmp.OverlapTopics, []string{"santiago"}) {
		t.Errorf("expected overlap [santiago], got %v", cmp.OverlapTopics)
	}
}

func TestCompare_EmptyPrevious(t *testing.T) {
	c := NewComparator(mockTitles{})

	cmp := c.Compare(nil, []string{"1", "2"})

	if len(cmp.Repeated) != 0 {
		t.Errorf("expected no repeats, got %v", cmp.Repeated)
	}
	if !reflect.DeepEqual(cmp.Novel, []string{"1", "2"}) {
		t.Errorf("expected all novel, got %v", cmp.Novel)
	}
	if len(cmp.OverlapTopics) != 0 {
		t.Errorf("expected no overlap topics, got %v", cmp.OverlapTopics)
	}
}
