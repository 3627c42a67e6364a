package jsonvalue

import "testing"

func TestParsePrimitives(t *testing.T) {
	tests := []struct {
		name string
		text string
		kind Kind
	}{
		{"null", "null", KindNull},
		{"true", "true", KindBoolean},
		{"number", "42.5", KindNumber},
		{"string", `"hi"`, KindString},
		{"array", "[1,2]", KindArray},
		{"object", `{"a":1}`, KindObject},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Parse(tt.text)
			if err != nil {
				t.Fatal(err)
			}
			if v.Kind() != tt.kind {
				t.Errorf("kind = %s, want %s", v.Kind(), tt.kind)
			}
		})
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	for _, text := range []string{"{", `{"a":}`, "[1,]", `{"a":1} trailing`} {
		if _, err := Parse(text); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", text)
		}
	}
}

func TestObjectKeyOrderPreserved(t *testing.T) {
	v, err := Parse(`{"z":1,"a":2,"m":3}`)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"z", "a", "m"}
	keys := v.ObjectKeys()
	if len(keys) != len(want) {
		t.Fatalf("keys = %v", keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("keys = %v, want %v", keys, want)
		}
	}
	if v.Compact() != `{"z":1,"a":2,"m":3}` {
		t.Errorf("Compact = %s", v.Compact())
	}
}

func TestNestedAccess(t *testing.T) {
	v, err := Parse(`{"rows":[{"id":1},{"id":2}]}`)
	if err != nil {
		t.Fatal(err)
	}
	rows := v.ObjectGet("rows")
	if rows.ArrayLen() != 2 {
		t.Fatalf("rows length = %d, want 2", rows.ArrayLen())
	}
	second := rows.ArrayGet(1)
	if second.ObjectGet("id").NumberValue() != 2 {
		t.Errorf("rows[1].id = %v, want 2", second.ObjectGet("id").NumberValue())
	}
	if rows.ArrayGet(5) != nil {
		t.Error("out-of-range ArrayGet must return nil")
	}
}

func TestLooksLikeJSON(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{`{"a":1}`, true},
		{"[1,2]", true},
		{"  {\"a\":1}  ", true},
		{"plain text", false},
		{"{unclosed", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := LooksLikeJSON(tt.text); got != tt.want {
			t.Errorf("LooksLikeJSON(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestCompactEscapes(t *testing.T) {
	v := NewObject()
	v.ObjectSet("msg", NewString(`say "hi"`))
	if v.Compact() != `{"msg":"say \"hi\""}` {
		t.Errorf("Compact = %s", v.Compact())
	}
}
