package query

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/kailas-cloud/recipedex/internal/domain"
)

func TestNew_Defaults(t *testing.T) {
	q, err := New("tarte", "", "", 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Text() != "tarte" {
		t.Errorf("Text() = %q", q.Text())
	}
	if q.Page() != 1 {
		t.Errorf("Page() = %d, want 1", q.Page())
	}
	if q.Limit() != DefaultLimit {
		t.Errorf("Limit() = %d, want %d", q.Limit(), DefaultLimit)
	}
	if q.Offset() != 0 {
		t.Errorf("Offset() = %d, want 0", q.Offset())
	}
}

func TestNew_EmptyTextAllowed(t *testing.T) {
	if _, err := New("", "dessert", "", 1, 10); err != nil {
		t.Fatalf("empty text must be allowed: %v", err)
	}
}

func TestNew_ClampAndOffset(t *testing.T) {
	q, err := New("coq", "plat", "Bourgogne", 3, 500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Limit() != MaxLimit {
		t.Errorf("Limit() = %d, want %d", q.Limit(), MaxLimit)
	}
	if q.Offset() != 2*MaxLimit {
		t.Errorf("Offset() = %d, want %d", q.Offset(), 2*MaxLimit)
	}
	if q.Type() != "plat" || q.Region() != "Bourgogne" {
		t.Errorf("filters = %q/%q", q.Type(), q.Region())
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		page, limit int
	}{
		{"too long", strings.Repeat("x", MaxTextLength+1), 1, 10},
		{"negative page", "x", -1, 10},
		{"negative limit", "x", 1, -5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.text, "", "", tc.page, tc.limit)
			if !errors.Is(err, domain.ErrInvalidQuery) {
				t.Errorf("expected ErrInvalidQuery, got %v", err)
			}
		})
	}
}

func TestNew_PageOverflowRejected(t *testing.T) {
	_, err := New("tarte", "", "", math.MaxInt/50, MaxLimit)
	if !errors.Is(err, domain.ErrInvalidQuery) {
		t.Fatalf("expected ErrInvalidQuery, got %v", err)
	}

	q, err := New("tarte", "", "", MaxPage, MaxLimit)
	if err != nil {
		t.Fatalf("MaxPage must be accepted: %v", err)
	}
	if q.Offset() < 0 {
		t.Errorf("Offset() = %d, want non-negative", q.Offset())
	}
}
