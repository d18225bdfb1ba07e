package utils

import "testing"

func TestIsValidEmail(t *testing.T) {
	cases := []struct {
		in    string
		valid bool
	}{
		{"owner@shop.test", true},
		{"first.last+tag@example.co", true},
		{"no-at-sign", false},
		{"missing@tld", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := IsValidEmail(tc.in); got != tc.valid {
			t.Fatalf("IsValidEmail(%q) expected %v, got %v", tc.in, tc.valid, got)
		}
	}
}

func TestUniqueSlice(t *testing.T) {
	got := UniqueSlice([]int{3, 1, 3, 2, 1})
	expected := []int{3, 1, 2}
	if len(got) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, got)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Fatalf("expected %v, got %v", expected, got)
		}
	}
}

func TestNewPagination(t *testing.T) {
	cases := []struct {
		page  int
		limit int
		total int64
		pages int
	}{
		{1, 10, 0, 0},
		{1, 10, 10, 1},
		{2, 10, 11, 2},
		{1, 25, 100, 4},
	}
	for _, tc := range cases {
		p := NewPagination(tc.page, tc.limit, tc.total)
		if p.Current != tc.page || p.Pages != tc.pages || p.Total != tc.total {
			t.Fatalf("NewPagination(%d,%d,%d) got %+v", tc.page, tc.limit, tc.total, p)
		}
	}
}

func TestPageLimitOffset(t *testing.T) {
	page, limit, offset := PageLimitOffset(3, 20)
	if page != 3 || limit != 20 || offset != 40 {
		t.Fatalf("expected 3/20/40, got %d/%d/%d", page, limit, offset)
	}

	page, limit, offset = PageLimitOffset(0, 0)
	if page != 1 || limit < 1 || offset != 0 {
		t.Fatalf("defaults not applied: %d/%d/%d", page, limit, offset)
	}
}

func TestDereferencePtr(t *testing.T) {
	v := 7
	if got := DereferencePtr(&v, 0); got != 7 {
		t.Fatalf("expected 7, got %d", got)
	}
	if got := DereferencePtr[int](nil, 42); got != 42 {
		t.Fatalf("expected fallback 42, got %d", got)
	}
}
