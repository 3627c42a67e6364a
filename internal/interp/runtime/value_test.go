package runtime

import (
	"testing"

	"github.com/cwbudde/go-rexx/internal/jsonvalue"
)

func TestStringValueNumCache(t *testing.T) {
	s := NewString("  42.5 ")
	for i := 0; i < 2; i++ {
		f, ok := s.Num()
		if !ok || f != 42.5 {
			t.Fatalf("Num() = %v, %v, want 42.5, true", f, ok)
		}
	}

	bad := NewString("not a number")
	if _, ok := bad.Num(); ok {
		t.Error("Num() on non-numeric string reported ok")
	}
	if _, ok := NewString("").Num(); ok {
		t.Error("Num() on empty string reported ok")
	}
}

func TestBooleanStringForm(t *testing.T) {
	if (&BooleanValue{Value: true}).String() != "1" {
		t.Error("true must render as 1")
	}
	if (&BooleanValue{Value: false}).String() != "0" {
		t.Error("false must render as 0")
	}
}

func TestAbsentValueStringForm(t *testing.T) {
	a := &AbsentValue{Name: "myVar"}
	if a.String() != "MYVAR" {
		t.Errorf("absent form = %q, want MYVAR", a.String())
	}
}

func TestMappingPreservesInsertionOrder(t *testing.T) {
	m := NewMapping()
	m.Set("zeta", NewString("1"))
	m.Set("alpha", NewString("2"))
	m.Set("mid", NewString("3"))

	keys := m.Keys()
	want := []string{"zeta", "alpha", "mid"}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("keys = %v, want %v", keys, want)
		}
	}
	if m.String() != `{"zeta":"1","alpha":"2","mid":"3"}` {
		t.Errorf("JSON form = %s", m.String())
	}
}

func TestJSONRoundTrip(t *testing.T) {
	parsed, err := jsonvalue.Parse(`{"name":"rexx","tags":["a","b"],"count":3,"ok":true}`)
	if err != nil {
		t.Fatal(err)
	}
	v := FromJSON(parsed)
	m, ok := v.(*MappingValue)
	if !ok {
		t.Fatalf("got %T, want *MappingValue", v)
	}
	name, _ := m.Get("name")
	if name.String() != "rexx" {
		t.Errorf("name = %q, want rexx", name.String())
	}
	tags, _ := m.Get("tags")
	seq, ok := tags.(*SequenceValue)
	if !ok || len(seq.Elements) != 2 {
		t.Fatalf("tags = %v, want 2-element sequence", tags)
	}

	if got := ToJSON(v).Compact(); got != `{"name":"rexx","tags":["a","b"],"count":3,"ok":true}` {
		t.Errorf("round trip = %s", got)
	}
}

func TestIterationItemsOneBasedMapping(t *testing.T) {
	m := NewMapping()
	m.Set("1", NewString("a"))
	m.Set("2", NewString("b"))
	m.Set("3", NewString("c"))

	items := IterationItems(m)
	if len(items) != 3 {
		t.Fatalf("len(items) = %d, want 3", len(items))
	}
	want := []string{"a", "b", "c"}
	for i := range want {
		if items[i].String() != want[i] {
			t.Errorf("item %d = %q, want %q", i, items[i].String(), want[i])
		}
	}
}

func TestIterationItemsZeroBasedMapping(t *testing.T) {
	m := NewMapping()
	m.Set("0", NewString("x"))
	m.Set("1", NewString("y"))

	items := IterationItems(m)
	if len(items) != 2 || items[0].String() != "x" {
		t.Fatalf("items = %v, want [x y] in key order", items)
	}
}

func TestIterationItemsString(t *testing.T) {
	items := IterationItems(NewString("abc"))
	if len(items) != 3 || items[1].String() != "b" {
		t.Fatalf("string iteration = %v, want per-character", items)
	}
}

func TestIterationItemsSequence(t *testing.T) {
	seq := &SequenceValue{Elements: []Value{NewString("p"), NewString("q")}}
	items := IterationItems(seq)
	if len(items) != 2 || items[0].String() != "p" {
		t.Fatalf("sequence iteration = %v", items)
	}
}
