package protect

import "testing"

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"John Smith", "John Smith"},
		{"  John   Smith  ", "John Smith"},
		{"John\tSmith", "John Smith"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeName(tt.in); got != tt.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestKey(t *testing.T) {
	if Key("  John   SMITH ") != "john smith" {
		t.Errorf("Expected lower-cased collapsed key, got %q", Key("  John   SMITH "))
	}
	if Key("John Smith") != Key("JOHN  SMITH") {
		t.Error("Expected equivalent names to share one key")
	}
}

func TestMatchesLexicon(t *testing.T) {
	protected := []string{
		"Jane Doe",
		"JANE DOE",
		"jane   doe",
		"John Doe 42",
		"Alleged Victim 3",
		"Minor A",
		"trafficking victim",
		"Complainant One",
		"Survivor B",
	}
	for _, name := range protected {
		if !MatchesLexicon(name) {
			t.Errorf("Expected %q to match the protected lexicon", name)
		}
	}

	clear := []string{
		"John Smith",
		"Ghislaine Example",
		"Dorian Grey",
	}
	for _, name := range clear {
		if MatchesLexicon(name) {
			t.Errorf("Did not expect %q to match the protected lexicon", name)
		}
	}
}

func TestIsProtected(t *testing.T) {
	if !IsProtected("John Smith", true) {
		t.Error("Expected flagged name to be protected regardless of lexicon")
	}
	if !IsProtected("Jane Doe", false) {
		t.Error("Expected lexicon match to protect even without the flag")
	}
	if IsProtected("John Smith", false) {
		t.Error("Expected unflagged non-matching name to be clear")
	}
}
