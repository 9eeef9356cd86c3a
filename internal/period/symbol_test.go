package period

import "testing"

func TestDefaultNormalizer(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"INFY", "INFY.NS"},
		{"INFY.NS", "INFY.NS"},
		{"reliance", "RELIANCE.NS"},
		{" tcs ", "TCS.NS"},
		{"aapl", "AAPL"},
		{"MSFT", "MSFT"},
		{"Apple", "AAPL"},
		{"reliance industries", "RELIANCE.NS"},
		{"", ""},
		{"   ", ""},
	}

	n := DefaultNormalizer()
	for _, tt := range tests {
		if got := n.Normalize(tt.raw); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestDefaultNormalizer_NoDoubleSuffix(t *testing.T) {
	n := DefaultNormalizer()
	for _, s := range NSESymbols.Symbols() {
		once := n.Normalize(s)
		twice := n.Normalize(once)
		if once != twice {
			t.Errorf("re-normalizing %s: %s != %s", s, once, twice)
		}
		if once != s+NSESuffix {
			t.Errorf("expected %s%s, got %s", s, NSESuffix, once)
		}
	}
}

func TestDefaultNormalizer_Base(t *testing.T) {
	tests := []struct {
		symbol string
		want   string
	}{
		{"INFY.NS", "INFY"},
		{"AAPL", "AAPL"},
		{"HDFCBANK.NS", "HDFCBANK.NS"},
	}
	n := DefaultNormalizer()
	for _, tt := range tests {
		if got := n.Base(tt.symbol); got != tt.want {
			t.Errorf("Base(%q) = %q, want %q", tt.symbol, got, tt.want)
		}
	}
}

func TestNormalizer_Custom(t *testing.T) {
	n := NewNormalizer(".BO", NewSymbolSet("sbin"), nil)
	if got := n.Normalize("sbin"); got != "SBIN.BO" {
		t.Errorf("got %s, want SBIN.BO", got)
	}
	if got := n.Normalize("INFY"); got != "INFY" {
		t.Errorf("default set should not apply, got %s", got)
	}
	if got := n.Base("SBIN.BO"); got != "SBIN" {
		t.Errorf("Base = %s, want SBIN", got)
	}
}

func TestSymbolSet(t *testing.T) {
	s := NewSymbolSet("msft", "AAPL", " googl ")
	if s.Len() != 3 {
		t.Fatalf("expected 3 members, got %d", s.Len())
	}
	if !s.Contains("MSFT") || !s.Contains("GOOGL") {
		t.Error("expected upper-cased members")
	}
	if s.Contains("msft") {
		t.Error("membership check is exact")
	}
	got := s.Symbols()
	want := []string{"AAPL", "GOOGL", "MSFT"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Symbols()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}
