package model

import (
	"reflect"
	"testing"
)

// TestRecordSet tests insertion-ordered accumulation semantics.
func TestRecordSet(t *testing.T) {
	t.Parallel()

	t.Run("preserves insertion order", func(t *testing.T) {
		t.Parallel()

		s := NewRecordSet[string]()
		s.Put("c", "1")
		s.Put("a", "2")
		s.Put("b", "3")

		want := []string{"c", "a", "b"}
		if got := s.Keys(); !reflect.DeepEqual(got, want) {
			t.Errorf("expected keys %v, got %v", want, got)
		}
		if got := s.Values(); !reflect.DeepEqual(got, []string{"1", "2", "3"}) {
			t.Errorf("unexpected values %v", got)
		}
	})

	t.Run("overwrite keeps original position", func(t *testing.T) {
		t.Parallel()

		s := NewRecordSet[string]()
		s.Put("first", "old")
		s.Put("second", "x")
		s.Put("first", "new")

		if got := s.Keys(); !reflect.DeepEqual(got, []string{"first", "second"}) {
			t.Errorf("unexpected key order %v", got)
		}
		if v, ok := s.Get("first"); !ok || v != "new" {
			t.Errorf("expected overwritten value 'new', got %q (ok=%v)", v, ok)
		}
		if s.Len() != 2 {
			t.Errorf("expected len 2, got %d", s.Len())
		}
	})

	t.Run("merge applies later page over earlier", func(t *testing.T) {
		t.Parallel()

		acc := NewRecordSet[int]()
		acc.Put("shipping", 1)
		acc.Put("returns", 2)

		page := NewRecordSet[int]()
		page.Put("returns", 20)
		page.Put("billing", 30)

		acc.Merge(page)

		if got := acc.Keys(); !reflect.DeepEqual(got, []string{"shipping", "returns", "billing"}) {
			t.Errorf("unexpected key order after merge: %v", got)
		}
		if v, _ := acc.Get("returns"); v != 20 {
			t.Errorf("expected last-write-wins value 20, got %d", v)
		}
	})

	t.Run("merge with nil is a no-op", func(t *testing.T) {
		t.Parallel()

		acc := NewRecordSet[int]()
		acc.Put("a", 1)
		acc.Merge(nil)

		if acc.Len() != 1 {
			t.Errorf("expected len 1, got %d", acc.Len())
		}
	})
}
