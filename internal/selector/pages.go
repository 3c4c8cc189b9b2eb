package selector

// Page capacities match the original layout: the first page is shorter to
// leave room for the global "All" row above the entries.
const (
	firstPageCapacity = 12
	pageCapacity      = 15
)

// Page is a half-open slice [Start, End) over a DisplayList's entries.
type Page struct {
	Start int
	End   int
}

// Paginate splits n display entries into pages: page 0 holds up to
// firstPageCapacity entries, every later page up to pageCapacity. There is
// always at least one page, and concatenating all pages in order reproduces
// the entry sequence exactly.
func Paginate(n int) []Page {
	first := n
	if first > firstPageCapacity {
		first = firstPageCapacity
	}
	pages := []Page{{Start: 0, End: first}}
	for start := first; start < n; start += pageCapacity {
		end := start + pageCapacity
		if end > n {
			end = n
		}
		pages = append(pages, Page{Start: start, End: end})
	}
	return pages
}

// Len reports the number of entries on the page.
func (p Page) Len() int {
	return p.End - p.Start
}
