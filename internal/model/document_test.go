package model

import (
	"strings"
	"testing"
)

func TestDocRefIsStableAndDistinct(t *testing.T) {
	a := DocRef("https://example.gov/doc-1.pdf")
	b := DocRef("https://example.gov/doc-1.pdf")
	c := DocRef("https://example.gov/doc-2.pdf")

	if a != b {
		t.Errorf("Expected stable reference, got %s and %s", a, b)
	}
	if a == c {
		t.Error("Expected distinct URLs to yield distinct references")
	}
	if !strings.HasPrefix(a, "DOC-") || len(a) != len("DOC-")+12 {
		t.Errorf("Unexpected reference format: %s", a)
	}
	if a != strings.ToUpper(a) {
		t.Errorf("Expected upper-case reference, got %s", a)
	}
}

func TestOCRQualityFromRatio(t *testing.T) {
	tests := []struct {
		ratio float64
		want  OCRQuality
	}{
		{0.99, OCRClean},
		{0.86, OCRClean},
		{0.80, OCRMinorArtifacts},
		{0.60, OCRDegraded},
		{0.30, OCRPoor},
		{0, OCRPoor},
	}

	for _, tt := range tests {
		if got := OCRQualityFromRatio(tt.ratio); got != tt.want {
			t.Errorf("OCRQualityFromRatio(%v) = %s, want %s", tt.ratio, got, tt.want)
		}
	}
}

func TestParseDocumentType(t *testing.T) {
	if ParseDocumentType("Flight_Manifest") != DocTypeFlightManifest {
		t.Error("Expected case-insensitive parse")
	}
	if ParseDocumentType("mystery_scroll") != DocTypeOther {
		t.Error("Expected unknown type to fall back to other")
	}
}
