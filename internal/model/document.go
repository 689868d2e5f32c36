package model

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// DocumentType classifies the kind of source document
type DocumentType string

const (
	DocTypeFlightManifest DocumentType = "flight_manifest"
	DocTypeEmail          DocumentType = "email"
	DocTypeFinancial      DocumentType = "financial_record"
	DocTypeFBIReport      DocumentType = "fbi_report"
	DocTypeCourtFiling    DocumentType = "court_filing"
	DocTypePhotograph     DocumentType = "photograph"
	DocTypeContactBook    DocumentType = "contact_book_entry"
	DocTypeOther          DocumentType = "other"
)

// ParseDocumentType normalizes a document type string to a known value
func ParseDocumentType(s string) DocumentType {
	switch DocumentType(strings.ToLower(strings.TrimSpace(s))) {
	case DocTypeFlightManifest, DocTypeEmail, DocTypeFinancial,
		DocTypeFBIReport, DocTypeCourtFiling, DocTypePhotograph, DocTypeContactBook:
		return DocumentType(strings.ToLower(strings.TrimSpace(s)))
	default:
		return DocTypeOther
	}
}

// DatePrecision qualifies how exact a document or event date is
type DatePrecision string

const (
	PrecisionExact       DatePrecision = "exact"
	PrecisionApproximate DatePrecision = "approximate"
	PrecisionRange       DatePrecision = "range"
	PrecisionYearOnly    DatePrecision = "year_only"
	PrecisionUnknown     DatePrecision = "unknown"
)

// ParseDatePrecision normalizes a date precision string to a known value
func ParseDatePrecision(s string) DatePrecision {
	switch DatePrecision(strings.ToLower(strings.TrimSpace(s))) {
	case PrecisionExact, PrecisionApproximate, PrecisionRange, PrecisionYearOnly:
		return DatePrecision(strings.ToLower(strings.TrimSpace(s)))
	default:
		return PrecisionUnknown
	}
}

// OCRQuality is the text extraction quality tier of a fetched document
type OCRQuality string

const (
	OCRClean          OCRQuality = "clean"
	OCRMinorArtifacts OCRQuality = "minor_artifacts"
	OCRDegraded       OCRQuality = "degraded"
	OCRPoor           OCRQuality = "poor"
)

// OCRQualityFromRatio maps a readable-character ratio to a quality tier
func OCRQualityFromRatio(ratio float64) OCRQuality {
	switch {
	case ratio > 0.85:
		return OCRClean
	case ratio > 0.70:
		return OCRMinorArtifacts
	case ratio > 0.50:
		return OCRDegraded
	default:
		return OCRPoor
	}
}

// NormalizedDocument is the output of the document normalizer: fetched,
// text-extracted, and quality-assessed, ready for the extraction stage.
type NormalizedDocument struct {
	URL                  string     `json:"url"`
	ContentType          string     `json:"content_type"`
	RawText              string     `json:"raw_text"`
	PageCount            int        `json:"page_count"`
	OCRQuality           OCRQuality `json:"ocr_quality"`
	HasEncodingArtifacts bool       `json:"has_encoding_artifacts"`
	FileSizeKB           int        `json:"file_size_kb"`
	FetchedAt            time.Time  `json:"fetched_at"`
}

// DocRef derives the stable content-addressed reference for a document URL.
// Reprocessing the same URL always yields the same reference, which is the
// natural key for document upserts.
func DocRef(url string) string {
	hash := sha256.Sum256([]byte(url))
	return "DOC-" + strings.ToUpper(hex.EncodeToString(hash[:])[:12])
}
