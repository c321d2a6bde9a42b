package env

import (
	"errors"
	"testing"
)

func TestParseBool(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    bool
		wantErr bool
	}{
		{"1", "1", true, false},
		{"true mixedcase", "tRuE", true, false},
		{"yes uppercase", "YES", true, false},
		{"0", "0", false, false},
		{"false titlecase", "False", false, false},
		{"no", "no", false, false},
		{"empty", "", false, false},
		{"true with spaces", "  true  ", true, false},
		{"YES with tabs", "\tYES\n", true, false},
		{"on", "on", false, true},
		{"2", "2", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBool(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseBool(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidBool) {
				t.Errorf("ParseBool(%q) error = %v, want ErrInvalidBool", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseBool(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestToMap(t *testing.T) {
	got := ToMap([]string{"A=1", "B=x=y", "MALFORMED", "EMPTY="})

	want := map[string]string{"A": "1", "B": "x=y", "EMPTY": ""}
	if len(got) != len(want) {
		t.Fatalf("ToMap() = %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("ToMap()[%q] = %q, want %q", k, got[k], v)
		}
	}
}

func TestSnapshot_Assignments(t *testing.T) {
	s := Snapshot{"B": "2", "A": "1"}

	got := s.Assignments()
	if len(got) != 2 || got[0] != "A=1" || got[1] != "B=2" {
		t.Errorf("Assignments() = %v", got)
	}
}

func TestSnapshot_Lookup(t *testing.T) {
	s := Snapshot{"SET": "", "FULL": "v"}

	if v, ok := s.Lookup("SET"); !ok || v != "" {
		t.Errorf("Lookup(SET) = %q, %v", v, ok)
	}
	if _, ok := s.Lookup("MISSING"); ok {
		t.Error("Lookup(MISSING) should report unset")
	}
	if s.Get("FULL") != "v" {
		t.Errorf("Get(FULL) = %q", s.Get("FULL"))
	}
}

func TestSnapshot_FailsafeBool(t *testing.T) {
	s := Snapshot{"ON": "yes", "OFF": "0", "BAD": "maybe", "EMPTY": ""}

	tests := []struct {
		key  string
		def  bool
		want bool
	}{
		{"ON", false, true},
		{"OFF", true, false},
		{"BAD", true, true},
		{"BAD", false, false},
		{"EMPTY", true, true},
		{"MISSING", false, false},
	}
	for _, tt := range tests {
		if got := s.FailsafeBool(tt.key, tt.def); got != tt.want {
			t.Errorf("FailsafeBool(%q, %v) = %v, want %v", tt.key, tt.def, got, tt.want)
		}
	}
}

func TestCapture(t *testing.T) {
	t.Setenv("BRANCHTAG_ENV_TEST", "captured")

	if got := Capture().Get("BRANCHTAG_ENV_TEST"); got != "captured" {
		t.Errorf("Capture() missed variable, got %q", got)
	}
}
