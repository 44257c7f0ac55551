package layar

import (
	"strconv"
	"testing"
)

func nItems(n int) Items {
	out := make(Items, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestPaginateMiddlePage(t *testing.T) {
	items, more, next := Paginate(nItems(47), 2, 15, 50)
	if len(items) != 15 {
		t.Fatalf("len = %d, want 15", len(items))
	}
	if items[0] != 30 || items[14] != 44 {
		t.Fatalf("window = [%v..%v]", items[0], items[14])
	}
	if !more {
		t.Fatal("morePages = false, want true")
	}
	if next != "3" {
		t.Fatalf("nextPageKey = %q, want \"3\"", next)
	}
}

func TestPaginateSinglePage(t *testing.T) {
	items, more, next := Paginate(nItems(10), 0, 15, 50)
	if len(items) != 10 || more || next != "" {
		t.Fatalf("got len=%d more=%v next=%q", len(items), more, next)
	}
}

func TestPaginateDisabled(t *testing.T) {
	items, more, next := Paginate(nItems(40), 3, 0, 50)
	if len(items) != 40 || more || next != "" {
		t.Fatalf("perPage=0 should return all: len=%d more=%v next=%q", len(items), more, next)
	}
}

func TestPaginateMaxResultsCapsFirst(t *testing.T) {
	// 200 raw items capped to 50, so page 3 (45..59) clips at the cap
	items, more, next := Paginate(nItems(200), 3, 15, 50)
	if len(items) != 5 {
		t.Fatalf("len = %d, want 5", len(items))
	}
	if more || next != "" {
		t.Fatalf("past the cap: more=%v next=%q", more, next)
	}
}

func TestPaginateOutOfRangePage(t *testing.T) {
	items, more, next := Paginate(nItems(10), 9, 15, 50)
	if len(items) != 0 || more || next != "" {
		t.Fatalf("out-of-range page: len=%d more=%v next=%q", len(items), more, next)
	}
	items, _, _ = Paginate(nItems(10), -1, 15, 50)
	if len(items) != 0 {
		t.Fatalf("negative page: len=%d, want 0", len(items))
	}
}

func TestPaginateBoundaryKeepsHistoricalCutoff(t *testing.T) {
	// end == count-1 reports no more pages even though one item remains
	_, more, _ := Paginate(nItems(16), 0, 15, 50)
	if more {
		t.Fatal("count=16 perPage=15 page=0: morePages should be false")
	}
	_, more, _ = Paginate(nItems(17), 0, 15, 50)
	if !more {
		t.Fatal("count=17 perPage=15 page=0: morePages should be true")
	}
}

func TestPaginateContinuationFormula(t *testing.T) {
	const perPage, maxResults = 15, 50
	for count := 0; count <= 60; count++ {
		capped := count
		if capped > maxResults {
			capped = maxResults
		}
		for page := 0; page <= 5; page++ {
			_, more, next := Paginate(nItems(count), page, perPage, maxResults)
			wantMore := perPage*page+perPage < capped-1
			if more != wantMore {
				t.Fatalf("count=%d page=%d: more=%v, want %v", count, page, more, wantMore)
			}
			wantNext := ""
			if wantMore {
				wantNext = strconv.Itoa(page + 1)
			}
			if next != wantNext {
				t.Fatalf("count=%d page=%d: next=%q, want %q", count, page, next, wantNext)
			}
		}
	}
}

func TestItemsSliceClamps(t *testing.T) {
	s := nItems(5)
	if got := s.Slice(-3, 2); len(got) != 2 {
		t.Fatalf("Slice(-3,2) len = %d", len(got))
	}
	if got := s.Slice(3, 99); len(got) != 2 {
		t.Fatalf("Slice(3,99) len = %d", len(got))
	}
	if got := s.Slice(7, 9); got != nil {
		t.Fatalf("Slice(7,9) = %v, want nil", got)
	}
}
