package layar

import "strconv"

// Item is one element of a layer's result collection. Its concrete type is
// private to the layer that produced it; only the layer's Adapt understands it.
type Item any

// Collection is an ordered, countable result set produced by a layer's Fetch.
// Slice must clamp out-of-range bounds rather than panic.
type Collection interface {
	Count() int
	Slice(start, end int) []Item
}

// Items is a slice-backed Collection.
type Items []Item

func (s Items) Count() int { return len(s) }

func (s Items) Slice(start, end int) []Item {
	if start < 0 {
		start = 0
	}
	if end > len(s) {
		end = len(s)
	}
	if start >= end {
		return nil
	}
	return s[start:end]
}

// Paginate caps the collection at maxResults, then cuts the window for the
// given page. perPage <= 0 disables pagination and returns the capped
// collection whole. Out-of-range pages are valid and yield zero items.
//
// The continuation test is end < count-1 on the capped collection: a page
// ending exactly one short of the last index still reports morePages=false.
// That matches what Layar clients have been served since protocol v1, so it
// stays.
func Paginate(c Collection, page, perPage, maxResults int) (items []Item, morePages bool, nextPageKey string) {
	capCount := c.Count()
	if maxResults > 0 && maxResults < capCount {
		capCount = maxResults
	}
	capped := Items(c.Slice(0, capCount))

	if perPage <= 0 {
		return capped, false, ""
	}

	start := perPage * page
	end := start + perPage

	if end < capped.Count()-1 {
		morePages = true
		nextPageKey = strconv.Itoa(page + 1)
	}

	return capped.Slice(start, end), morePages, nextPageKey
}
