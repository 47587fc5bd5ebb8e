// Package pagination describes the slice of the listings collection that is
// currently on screen.
package pagination

// Window is the (page, page size, total) triple of the displayed slice.
type Window struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Total    int `json:"total"`
}

// NewWindow returns the window for page 1 of an unknown-size collection.
func NewWindow(pageSize int) Window {
	if pageSize <= 0 {
		pageSize = 1
	}
	return Window{Page: 1, PageSize: pageSize}
}

// TotalPages is ceil(Total / PageSize), floored at 1 for display.
func (w Window) TotalPages() int {
	if w.PageSize <= 0 || w.Total <= 0 {
		return 1
	}
	return (w.Total + w.PageSize - 1) / w.PageSize
}

// Valid reports whether n addresses an existing page.
func (w Window) Valid(n int) bool {
	return n >= 1 && n <= w.TotalPages()
}

func (w Window) HasPrev() bool { return w.Page > 1 }

func (w Window) HasNext() bool { return w.Page < w.TotalPages() }

// Next returns the following page number, or 0 on the last page.
func (w Window) Next() int {
	if !w.HasNext() {
		return 0
	}
	return w.Page + 1
}

// Prev returns the preceding page number, or 0 on the first page.
func (w Window) Prev() int {
	if !w.HasPrev() {
		return 0
	}
	return w.Page - 1
}

// WithResult returns the window after a successful fetch of page.
func (w Window) WithResult(page, pageSize, total int) Window {
	if pageSize > 0 {
		w.PageSize = pageSize
	}
	if total < 0 {
		total = 0
	}
	w.Page = page
	w.Total = total
	return w
}
