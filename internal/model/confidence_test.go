package model

import "testing"

func TestParseConfidenceDegradesUnknown(t *testing.T) {
	tests := []struct {
		in   string
		want Confidence
	}{
		{"confirmed", ConfidenceConfirmed},
		{"CORROBORATED", ConfidenceCorroborated},
		{"  indicated ", ConfidenceIndicated},
		{"unverified", ConfidenceUnverified},
		{"plausible", ConfidenceUnverified},
		{"", ConfidenceUnverified},
	}

	for _, tt := range tests {
		if got := ParseConfidence(tt.in); got != tt.want {
			t.Errorf("ParseConfidence(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestConfidenceOrdering(t *testing.T) {
	ordered := []Confidence{ConfidenceUnverified, ConfidenceIndicated, ConfidenceCorroborated, ConfidenceConfirmed}
	for i := 1; i < len(ordered); i++ {
		if ordered[i].Rank() <= ordered[i-1].Rank() {
			t.Errorf("Expected %s to outrank %s", ordered[i], ordered[i-1])
		}
	}
}

func TestCorroborationScore(t *testing.T) {
	tests := []struct {
		in   Confidence
		want int
	}{
		{ConfidenceConfirmed, 90},
		{ConfidenceCorroborated, 70},
		{ConfidenceIndicated, 40},
		{ConfidenceUnverified, 15},
		{Confidence("garbage"), 15},
	}

	for _, tt := range tests {
		if got := CorroborationScore(tt.in); got != tt.want {
			t.Errorf("CorroborationScore(%s) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseEvidenceStrengthDefaultsWeak(t *testing.T) {
	if ParseEvidenceStrength("overwhelming") != StrengthWeak {
		t.Error("Expected unknown strength to default to weak")
	}
	if ParseEvidenceStrength("Strong") != StrengthStrong {
		t.Error("Expected case-insensitive parse")
	}
}
