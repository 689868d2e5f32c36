package model

import "time"

// DocumentRecord is the durable row for a processed document, keyed by Ref
type DocumentRecord struct {
	Ref                  string
	URL                  string
	Type                 DocumentType
	Source               string
	Date                 string
	DatePrecision        DatePrecision
	Batch                string
	OCRQuality           OCRQuality
	HasEncodingArtifacts bool
	PageCount            int
	FileSizeKB           int
	Processed            bool
	ProcessedAt          time.Time
	Notes                string
}

// PersonRecord is the durable row for a person, keyed by normalized full name.
// VictimProtected is always false for persisted rows: protected names are
// diverted to conflict records and never reach the store.
type PersonRecord struct {
	ID               int64
	FullName         string
	Confidence       Confidence
	RedactionStatus  string
	NameRecovered    bool
	Power            *PowerIndex
	Category         string
	UpgradeGap       string
	FlaggedForReview bool
	VictimProtected  bool
}

// LocationRecord is the durable row for a location, keyed by normalized name
type LocationRecord struct {
	ID         int64
	Name       string
	Type       string
	Confidence Confidence
}

// EventRecord is a durable event observation. Events are append-only: each
// mention becomes a distinct row, never deduplicated.
type EventRecord struct {
	ID            int64
	Type          string
	Title         string
	Date          string
	DatePrecision DatePrecision
	LocationID    *int64
	Confidence    Confidence
	UpgradeGap    string
	Notes         string
}

// RelationshipRecord is the durable row for an unordered person pair
type RelationshipRecord struct {
	PersonAID         int64
	PersonBID         int64
	Type              string
	Strength          EvidenceStrength
	CoOccurrenceCount int
	Notes             string
	SourceDocRefs     []string
}

// ConflictRecord is an append-only audit entry for a contradiction or a
// victim-protection diversion
type ConflictRecord struct {
	EntityType string
	DocRef     string
	Field      string
	ClaimA     string
	ClaimB     string
	ForReview  bool
}

// ProcessingLogEntry is the append-only audit record for one document run
type ProcessingLogEntry struct {
	DocRef             string
	Batch              string
	Status             string
	PersonsWritten     int
	LocationsWritten   int
	EventsWritten      int
	ConflictsLogged    int
	VictimFlags        int
	TokensUsed         int
	ModelsUsed         string
	CompletedAt        time.Time
}

// PersonSummary is the compact read model the context assembler renders
type PersonSummary struct {
	FullName      string
	Confidence    Confidence
	DocumentCount int
	Category      string
}

// LocationSummary is the compact location read model for context assembly
type LocationSummary struct {
	Name         string
	Type         string
	MentionCount int
}
