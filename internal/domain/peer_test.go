package domain

import (
	"strings"
	"testing"
)

func TestNormalizeName(t *testing.T) {
	cases := map[string]string{
		"":          DefaultPeerName,
		"   ":       DefaultPeerName,
		" Alice ":   "Alice",
		"Борис":     "Борис",
		"bob smith": "bob smith",
	}
	for in, want := range cases {
		if got := NormalizeName(in); got != want {
			t.Errorf("NormalizeName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeNameTruncates(t *testing.T) {
	long := strings.Repeat("я", MaxPeerNameLen+10)
	got := NormalizeName(long)
	if n := len([]rune(got)); n != MaxPeerNameLen {
		t.Errorf("expected %d runes, got %d", MaxPeerNameLen, n)
	}
}

func TestPeerNameUnsetUntilJoin(t *testing.T) {
	p := NewPeer()
	if p.Name() != "" {
		t.Errorf("expected empty name before join, got %q", p.Name())
	}
	p.SetName("")
	if p.Name() != DefaultPeerName {
		t.Errorf("expected %q, got %q", DefaultPeerName, p.Name())
	}
}
