package page

import (
	"math"
	"testing"
)

func TestNormalize_Defaults(t *testing.T) {
	r := Request{}.Normalize()
	if r.PageNumber != 0 || r.PageSize != DefaultPageSize || r.SortBy != "id" || r.SortDir != "asc" {
		t.Fatalf("unexpected defaults %+v", r)
	}
	if r.Desc() {
		t.Fatalf("expected ascending by default")
	}
}

func TestNormalize_ClampsAndTrims(t *testing.T) {
	r := Request{PageNumber: -3, PageSize: 5000, SortBy: " name ", SortDir: "DESC", SearchText: "  yard "}.Normalize()
	if r.PageNumber != 0 {
		t.Fatalf("expected page 0, got %d", r.PageNumber)
	}
	if r.PageSize != MaxPageSize {
		t.Fatalf("expected size clamp to %d, got %d", MaxPageSize, r.PageSize)
	}
	if r.SortBy != "name" || !r.Desc() || r.SearchText != "yard" {
		t.Fatalf("unexpected request %+v", r)
	}
}

func TestOffset(t *testing.T) {
	r := Request{PageNumber: 2, PageSize: 10}.Normalize()
	if r.Offset() != 20 {
		t.Fatalf("expected offset 20, got %d", r.Offset())
	}
}

func TestNormalize_BoundsOffset(t *testing.T) {
	r := Request{PageNumber: math.MaxInt64 / 10, PageSize: 20}.Normalize()
	if r.Offset() < 0 || r.Offset() > MaxOffset {
		t.Fatalf("offset %d out of range", r.Offset())
	}
	if r.PageNumber != MaxOffset/20 {
		t.Fatalf("expected page clamp to %d, got %d", MaxOffset/20, r.PageNumber)
	}
}
