package ident

import (
	"sort"
	"testing"
)

func TestNewMap(t *testing.T) {
	m := NewMap[int]()
	if m == nil {
		t.Fatal("NewMap returned nil")
	}
	if m.Len() != 0 {
		t.Errorf("NewMap().Len() = %d, want 0", m.Len())
	}
}

func TestMapSetAndGet(t *testing.T) {
	m := NewMap[int]()
	m.Set("MyVar", 42)

	if val, ok := m.Get("MyVar"); !ok || val != 42 {
		t.Errorf("Get(MyVar) = %d, %v, want 42, true", val, ok)
	}
	if val, ok := m.Get("myvar"); !ok || val != 42 {
		t.Errorf("Get(myvar) = %d, %v, want 42, true", val, ok)
	}
	if val, ok := m.Get("MYVAR"); !ok || val != 42 {
		t.Errorf("Get(MYVAR) = %d, %v, want 42, true", val, ok)
	}
	if val, ok := m.Get("other"); ok || val != 0 {
		t.Errorf("Get(other) = %d, %v, want 0, false", val, ok)
	}
}

func TestMapSetOverwrite(t *testing.T) {
	m := NewMap[int]()
	m.Set("Total", 10)
	m.Set("TOTAL", 20)

	if m.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", m.Len())
	}
	if val, _ := m.Get("total"); val != 20 {
		t.Errorf("Get(total) = %d, want 20", val)
	}
	// Original spelling tracks the most recent Set.
	if orig := m.GetOriginalKey("total"); orig != "TOTAL" {
		t.Errorf("GetOriginalKey(total) = %q, want %q", orig, "TOTAL")
	}
}

func TestMapHasAndDelete(t *testing.T) {
	m := NewMap[string]()
	m.Set("Greeting", "hello")

	if !m.Has("GREETING") {
		t.Error("Has(GREETING) = false, want true")
	}
	m.Delete("greeting")
	if m.Has("Greeting") {
		t.Error("Has(Greeting) after Delete = true, want false")
	}
	if m.Len() != 0 {
		t.Errorf("Len() after Delete = %d, want 0", m.Len())
	}
}

func TestMapRange(t *testing.T) {
	m := NewMap[int]()
	m.Set("Alpha", 1)
	m.Set("Bravo", 2)
	m.Set("Charlie", 3)

	seen := map[string]int{}
	m.Range(func(key string, value int) bool {
		seen[key] = value
		return true
	})
	if len(seen) != 3 {
		t.Fatalf("Range visited %d entries, want 3", len(seen))
	}
	if seen["Bravo"] != 2 {
		t.Errorf("Range delivered Bravo = %d, want 2", seen["Bravo"])
	}

	// Early termination.
	count := 0
	m.Range(func(string, int) bool {
		count++
		return false
	})
	if count != 1 {
		t.Errorf("Range with early stop visited %d entries, want 1", count)
	}
}

func TestMapKeys(t *testing.T) {
	m := NewMap[bool]()
	m.Set("RC", true)
	m.Set("Result", true)
	m.Set("SIGL", true)

	keys := m.Keys()
	sort.Strings(keys)
	want := []string{"RC", "Result", "SIGL"}
	if len(keys) != len(want) {
		t.Fatalf("Keys() returned %d keys, want %d", len(keys), len(want))
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("Keys()[%d] = %q, want %q", i, keys[i], want[i])
		}
	}
}
