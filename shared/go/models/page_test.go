package models

import "testing"

func TestNormalizeDefaults(t *testing.T) {
	page := PageRequest{}.Normalize(20)
	if page.Page != 1 || page.PageSize != 20 {
		t.Fatalf("unexpected normalization: %+v", page)
	}

	page = PageRequest{Page: -3, PageSize: 0}.Normalize(10)
	if page.Page != 1 || page.PageSize != 10 {
		t.Fatalf("unexpected normalization: %+v", page)
	}

	page = PageRequest{Page: 4, PageSize: 25}.Normalize(10)
	if page.Page != 4 || page.PageSize != 25 {
		t.Fatalf("explicit values must survive: %+v", page)
	}
}

func TestOffset(t *testing.T) {
	page := PageRequest{Page: 3, PageSize: 10}
	if got := page.Offset(); got != 20 {
		t.Fatalf("expected offset 20, got %d", got)
	}
}

func TestNewPageMeta(t *testing.T) {
	tests := []struct {
		name      string
		page      PageRequest
		total     int64
		wantPages int64
	}{
		{"exact fit", PageRequest{Page: 1, PageSize: 10}, 30, 3},
		{"partial last page", PageRequest{Page: 3, PageSize: 10}, 23, 3},
		{"single page", PageRequest{Page: 1, PageSize: 20}, 5, 1},
		{"empty", PageRequest{Page: 1, PageSize: 10}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := NewPageMeta(tt.page, tt.total)
			if meta.TotalPages != tt.wantPages {
				t.Fatalf("expected %d pages, got %d", tt.wantPages, meta.TotalPages)
			}
			if meta.TotalCount != tt.total {
				t.Fatalf("expected total %d, got %d", tt.total, meta.TotalCount)
			}
		})
	}
}
