package pricing

import "fmt"

// PageRange returns the half-open range [start, end) of a 1-based page.
// ok is false when there is no active range to label, i.e. the page is
// before the first item or past the last one.
func PageRange(page, perPage, total int) (start, end int, ok bool) {
	// Checked before multiplying: huge pages must not wrap the offset.
	if page < 1 || perPage < 1 || total < 1 || page-1 > (total-1)/perPage {
		return 0, 0, false
	}
	start = (page - 1) * perPage
	end = start + min(perPage, total-start)
	return start, end, true
}

// Paginate returns the items of a page; out of range pages are empty.
func Paginate[T any](items []T, page, perPage int) []T {
	start, end, ok := PageRange(page, perPage, len(items))
	if !ok {
		return []T{}
	}
	return items[start:end]
}

// Page is one page of rows with its position in the full list.
type Page struct {
	Rows     []Row `json:"rows"`
	Total    int   `json:"total"`
	Page     int   `json:"page"`
	PerPage  int   `json:"per_page"`
	Start    int   `json:"start"`
	End      int   `json:"end"`
	HasRange bool  `json:"has_range"`
}

func PageOf(rows []Row, page, perPage int) Page {
	start, end, ok := PageRange(page, perPage, len(rows))
	p := Page{
		Rows:     Paginate(rows, page, perPage),
		Total:    len(rows),
		Page:     page,
		PerPage:  perPage,
		HasRange: ok,
	}
	if ok {
		p.Start, p.End = start, end
	}
	return p
}

// Label renders "start-end of total" with 1-based start, "" without a range.
func (p Page) Label() string {
	if !p.HasRange {
		return ""
	}
	return fmt.Sprintf("%d–%d of %d", p.Start+1, p.End, p.Total)
}
