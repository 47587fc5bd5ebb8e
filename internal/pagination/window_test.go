package pagination

import "testing"

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total, size, want int
	}{
		{95, 20, 5},
		{0, 20, 1},
		{45, 20, 3},
		{40, 20, 2},
		{1, 20, 1},
		{21, 10, 3},
	}

	for _, tt := range tests {
		w := Window{Page: 1, PageSize: tt.size, Total: tt.total}
		if got := w.TotalPages(); got != tt.want {
			t.Errorf("total=%d size=%d: TotalPages() = %d, want %d", tt.total, tt.size, got, tt.want)
		}
	}
}

func TestValid(t *testing.T) {
	w := Window{Page: 1, PageSize: 20, Total: 95}
	for n := 1; n <= 5; n++ {
		if !w.Valid(n) {
			t.Errorf("page %d should be valid", n)
		}
	}
	if w.Valid(0) {
		t.Error("page 0 should be invalid")
	}
	if w.Valid(6) {
		t.Error("page 6 should be invalid")
	}
}

func TestControls(t *testing.T) {
	w := Window{Page: 1, PageSize: 20, Total: 45}
	if w.HasPrev() {
		t.Error("prev should be disabled on page 1")
	}
	if !w.HasNext() || w.Next() != 2 {
		t.Error("next should lead to page 2")
	}

	w.Page = 3
	if w.HasNext() || w.Next() != 0 {
		t.Error("next should be disabled on the last page")
	}
	if !w.HasPrev() || w.Prev() != 2 {
		t.Error("prev should lead to page 2")
	}

	empty := NewWindow(20)
	if empty.HasPrev() || empty.HasNext() {
		t.Error("an empty collection has no navigation")
	}
}

func TestWithResult(t *testing.T) {
	w := NewWindow(20).WithResult(2, 0, 45)
	if w.Page != 2 || w.PageSize != 20 || w.Total != 45 {
		t.Errorf("unexpected window %+v", w)
	}
	if w := NewWindow(20).WithResult(1, 10, -5); w.Total != 0 || w.PageSize != 10 {
		t.Errorf("unexpected window %+v", w)
	}
}
