package layout

import (
	"errors"
	"testing"
)

func TestLetters(t *testing.T) {
	tests := []struct {
		layout Layout
		want   string
	}{
		{QWERTY, "ASDFJKL;"},
		{Dvorak, "AOEUHTNS"},
	}
	for _, tt := range tests {
		if got := tt.layout.Letters(); got != tt.want {
			t.Errorf("%s.Letters() = %q, want %q", tt.layout, got, tt.want)
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Layout
		wantErr bool
	}{
		{"qwerty", QWERTY, false},
		{"QWERTY", QWERTY, false},
		{" Dvorak ", Dvorak, false},
		{"colemak", Default, true},
		{"", Default, true},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownLayout) {
				t.Errorf("Parse(%q) err = %v, want ErrUnknownLayout", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("Parse(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestLabelIsUpperCase(t *testing.T) {
	if got := Dvorak.Label(); got != "DVORAK" {
		t.Fatalf("Dvorak.Label() = %q, want DVORAK", got)
	}
	if got := QWERTY.Label(); got != "QWERTY" {
		t.Fatalf("QWERTY.Label() = %q, want QWERTY", got)
	}
}

func TestDefaultIsDvorak(t *testing.T) {
	if Default != Dvorak {
		t.Fatalf("Default = %s, want dvorak", Default)
	}
	var zero Layout
	if zero != Default {
		t.Fatalf("zero Layout = %s, want %s", zero, Default)
	}
}

func TestUnmarshalTextRejectsUnknown(t *testing.T) {
	var l Layout
	if err := l.UnmarshalText([]byte("azerty")); err == nil {
		t.Fatal("expected error for azerty")
	}
	if err := l.UnmarshalText([]byte("qwerty")); err != nil || l != QWERTY {
		t.Fatalf("UnmarshalText(qwerty) = %s, %v", l, err)
	}
}
