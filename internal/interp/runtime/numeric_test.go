package runtime

import "testing"

func TestNumericDefaults(t *testing.T) {
	s := NewNumericSettings()
	if s.Digits != 9 || s.Fuzz != 0 || s.Form != FormScientific {
		t.Fatalf("defaults = %d/%d/%s, want 9/0/SCIENTIFIC", s.Digits, s.Fuzz, s.Form)
	}
}

func TestNumericSettingValidation(t *testing.T) {
	s := NewNumericSettings()

	if err := s.SetDigits(0); err == nil {
		t.Error("SetDigits(0) must fail")
	}
	if err := s.SetDigits(3); err != nil {
		t.Errorf("SetDigits(3) failed: %v", err)
	}
	if err := s.SetFuzz(3); err == nil {
		t.Error("SetFuzz equal to digits must fail")
	}
	if err := s.SetFuzz(2); err != nil {
		t.Errorf("SetFuzz(2) failed: %v", err)
	}
	if err := s.SetDigits(2); err == nil {
		t.Error("SetDigits below fuzz must fail")
	}
	if err := s.SetForm("engineering"); err != nil {
		t.Errorf("SetForm(engineering) failed: %v", err)
	}
	if err := s.SetForm("WEIRD"); err == nil {
		t.Error("SetForm(WEIRD) must fail")
	}
}

func TestNumericFormat(t *testing.T) {
	s := NewNumericSettings()
	tests := []struct {
		digits int
		value  float64
		want   string
	}{
		{9, 42, "42"},
		{9, -7, "-7"},
		{3, 1.0 / 3.0, "0.333"},
		{9, 2.5, "2.5"},
		{3, 1234, "1.23e+03"}, // integral but wider than DIGITS: exponent form
	}
	for _, tt := range tests {
		s.Digits = tt.digits
		if got := s.Format(tt.value); got != tt.want {
			t.Errorf("Format(%v) with digits %d = %q, want %q", tt.value, tt.digits, got, tt.want)
		}
	}
}

func TestNumericCompareWithFuzz(t *testing.T) {
	s := NewNumericSettings()
	s.Digits = 5
	s.Fuzz = 0
	if s.Compare(1.0001, 1.0002) == 0 {
		t.Error("distinct values compared equal without fuzz")
	}
	s.Fuzz = 3
	if s.Compare(1.0001, 1.0002) != 0 {
		t.Error("fuzz of 3 digits must make 1.0001 and 1.0002 compare equal")
	}
	if s.Compare(1, 2) != -1 {
		t.Error("ordering lost under fuzz")
	}
}

func TestNumberRoundsToDigits(t *testing.T) {
	s := NewNumericSettings()
	s.Digits = 3
	n := s.Number(1.0 / 3.0)
	if n.String() != "0.333" {
		t.Errorf("Number(1/3).String() = %q, want 0.333", n.String())
	}
}
