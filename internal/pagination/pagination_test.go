package pagination

import (
	"errors"
	"testing"

	"github.com/HadiaEL/CABINET-MEDICAL/internal/apperr"
)

func TestPageRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     PageRequest
		wantMsg string
	}{
		{"valid", PageRequest{Page: 0, Size: 10}, ""},
		{"valid max size", PageRequest{Page: 3, Size: 100}, ""},
		{"negative page", PageRequest{Page: -1, Size: 10}, "page number cannot be negative"},
		{"zero size", PageRequest{Page: 0, Size: 0}, "page size must be greater than 0"},
		{"negative size", PageRequest{Page: 0, Size: -5}, "page size must be greater than 0"},
		{"oversized", PageRequest{Page: 0, Size: 101}, "page size cannot exceed 100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantMsg == "" {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}

			var invalid *apperr.InvalidArgument
			if !errors.As(err, &invalid) {
				t.Fatalf("err = %v, want InvalidArgument", err)
			}
			if invalid.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", invalid.Message, tt.wantMsg)
			}
		})
	}
}

func TestPageRequestOffset(t *testing.T) {
	req := PageRequest{Page: 3, Size: 25}
	if got := req.Offset(); got != 75 {
		t.Errorf("Offset = %d, want 75", got)
	}
}

func TestPageRequestDescending(t *testing.T) {
	for _, dir := range []string{"desc", "DESC", "Desc"} {
		if !(PageRequest{SortDirection: dir}).Descending() {
			t.Errorf("Descending(%q) = false, want true", dir)
		}
	}
	for _, dir := range []string{"asc", "ASC", "", "descending", "down"} {
		if (PageRequest{SortDirection: dir}).Descending() {
			t.Errorf("Descending(%q) = true, want false", dir)
		}
	}
}

func TestNewPage(t *testing.T) {
	t.Run("middle page", func(t *testing.T) {
		page := NewPage([]int{1, 2}, PageRequest{Page: 1, Size: 2}, 5)

		if page.TotalPages != 3 {
			t.Errorf("TotalPages = %d, want 3", page.TotalPages)
		}
		if page.First {
			t.Error("First = true, want false")
		}
		if page.Last {
			t.Error("Last = true, want false")
		}
		if page.Empty {
			t.Error("Empty = true, want false")
		}
	})

	t.Run("last partial page", func(t *testing.T) {
		page := NewPage([]int{5}, PageRequest{Page: 2, Size: 2}, 5)

		if !page.Last {
			t.Error("Last = false, want true")
		}
		if page.First {
			t.Error("First = true, want false")
		}
	})

	t.Run("exact division", func(t *testing.T) {
		page := NewPage([]int{1, 2}, PageRequest{Page: 0, Size: 2}, 4)
		if page.TotalPages != 2 {
			t.Errorf("TotalPages = %d, want 2", page.TotalPages)
		}
	})

	t.Run("empty result", func(t *testing.T) {
		page := NewPage[int](nil, PageRequest{Page: 0, Size: 10}, 0)

		if page.Content == nil {
			t.Fatal("Content is nil, want empty slice")
		}
		if len(page.Content) != 0 {
			t.Errorf("len(Content) = %d, want 0", len(page.Content))
		}
		if !page.Empty || !page.First || !page.Last {
			t.Errorf("Empty/First/Last = %v/%v/%v, want all true", page.Empty, page.First, page.Last)
		}
		if page.TotalPages != 0 {
			t.Errorf("TotalPages = %d, want 0", page.TotalPages)
		}
	})
}
