package model

import "time"

// StageStats tracks oracle resource consumption for a single stage run
type StageStats struct {
	Model      string
	TokensUsed int
	Elapsed    time.Duration
}

// CandidatePerson is a person mention found by the extraction stage
type CandidatePerson struct {
	Name           string `json:"name"`
	NameAsWritten  string `json:"name_as_written"`
	Context        string `json:"context,omitempty"`
	IsRedacted     bool   `json:"is_redacted"`
	PossibleVictim bool   `json:"possible_victim"`
}

// CandidateLocation is a location mention found by the extraction stage
type CandidateLocation struct {
	Name         string `json:"name"`
	LocationType string `json:"location_type"`
	Context      string `json:"context,omitempty"`
}

// CandidateEvent is an event mention found by the extraction stage
type CandidateEvent struct {
	EventType       string   `json:"event_type"`
	Date            string   `json:"date,omitempty"`
	DatePrecision   string   `json:"date_precision,omitempty"`
	PersonsInvolved []string `json:"persons_involved,omitempty"`
	Location        string   `json:"location,omitempty"`
	Description     string   `json:"description,omitempty"`
}

// Extraction is the structured output of the extraction stage. A malformed
// oracle response never surfaces as an error; it degrades to an empty
// extraction with RequiresHumanReview set.
type Extraction struct {
	DocumentType  string `json:"document_type"`
	DocumentDate  string `json:"document_date,omitempty"`
	DatePrecision string `json:"date_precision,omitempty"`

	Persons       []CandidatePerson   `json:"persons_found"`
	Locations     []CandidateLocation `json:"locations_found"`
	Events        []CandidateEvent    `json:"events_found"`
	Organizations []string            `json:"organizations_found"`

	Notes               string `json:"notes,omitempty"`
	RequiresHumanReview bool   `json:"requires_human_review"`

	TruncatedInput bool       `json:"-"`
	Stats          StageStats `json:"-"`
}

// VerifiedPerson carries a person claim with its assigned confidence
type VerifiedPerson struct {
	Name          string `json:"name"`
	Confidence    string `json:"confidence"`
	Notes         string `json:"verification_notes,omitempty"`
	UpgradeGap    string `json:"upgrade_gap,omitempty"`
	IsRedacted    bool   `json:"is_redacted"`
	NameRecovered bool   `json:"name_recovered"`
}

// VerifiedLocation carries a location claim with its assigned confidence
type VerifiedLocation struct {
	Name         string `json:"name"`
	LocationType string `json:"location_type,omitempty"`
	Confidence   string `json:"confidence"`
	Notes        string `json:"verification_notes,omitempty"`
}

// VerifiedEvent carries an event claim with its assigned confidence
type VerifiedEvent struct {
	EventType      string   `json:"event_type"`
	Date           string   `json:"date,omitempty"`
	DatePrecision  string   `json:"date_precision,omitempty"`
	Confidence     string   `json:"confidence"`
	PersonsPresent []string `json:"persons_present,omitempty"`
	Location       string   `json:"location,omitempty"`
	UpgradeGap     string   `json:"upgrade_gap,omitempty"`
	Notes          string   `json:"verification_notes,omitempty"`
}

// Conflict describes a contradiction between a new claim and a prior one
type Conflict struct {
	Type             string `json:"conflict_type"`
	Description      string `json:"description"`
	DocumentClaim    string `json:"document_claim"`
	ConflictingClaim string `json:"conflicting_claim"`
}

// Verification is the structured output of the verification stage
type Verification struct {
	Summary            string `json:"verification_summary,omitempty"`
	DocumentConfidence string `json:"document_confidence"`
	OCRReliability     string `json:"ocr_reliability,omitempty"`

	Persons   []VerifiedPerson   `json:"verified_persons"`
	Locations []VerifiedLocation `json:"verified_locations"`
	Events    []VerifiedEvent    `json:"verified_events"`
	Conflicts []Conflict         `json:"conflicts_detected"`

	Anomalies           []string `json:"anomalies,omitempty"`
	Notes               string   `json:"verification_notes,omitempty"`
	RequiresHumanReview bool     `json:"requires_human_review"`
	HumanReviewReason   string   `json:"human_review_reason,omitempty"`

	Stats StageStats `json:"-"`
}

// PowerIndex holds the four 0-100 prominence sub-scores for a person
type PowerIndex struct {
	PublicProfile     int `json:"public_profile"`
	Institutional     int `json:"institutional"`
	NetworkCentrality int `json:"network_centrality"`
	Corroboration     int `json:"corroboration"`
}

// PersonIntelligence is the decision stage's final determination for a person
type PersonIntelligence struct {
	Name            string     `json:"name"`
	FinalConfidence string     `json:"final_confidence"`
	PowerIndex      PowerIndex `json:"power_index"`
	Category        string     `json:"category_inference,omitempty"`
	PatternFlags    []string   `json:"pattern_flags,omitempty"`
	UpgradeGap      string     `json:"upgrade_gap,omitempty"`
}

// RelationshipDetermination is an observed person-to-person connection
type RelationshipDetermination struct {
	PersonA           string `json:"person_a"`
	PersonB           string `json:"person_b"`
	RelationshipType  string `json:"relationship_type"`
	EvidenceStrength  string `json:"evidence_strength"`
	CoOccurrenceCount int    `json:"co_occurrence_count"`
	Notes             string `json:"notes,omitempty"`
}

// PatternFlag marks a suspicious pattern detected across the document
type PatternFlag struct {
	FlagType        string   `json:"flag_type"`
	Description     string   `json:"description"`
	PersonsInvolved []string `json:"persons_involved,omitempty"`
	Significance    string   `json:"significance"`
}

// Decision is the structured output of the decision stage
type Decision struct {
	IntelligenceValue string `json:"intelligence_value"`
	Summary           string `json:"intelligence_summary,omitempty"`

	Persons       []PersonIntelligence        `json:"persons_intelligence"`
	Relationships []RelationshipDetermination `json:"relationship_determinations"`
	PatternFlags  []PatternFlag               `json:"pattern_flags"`

	DecisionLog   []string `json:"decision_log,omitempty"`
	EvidenceChain string   `json:"evidence_chain,omitempty"`

	Stats StageStats `json:"-"`
}

// TotalTokens sums oracle token consumption across the three stages
func TotalTokens(ext *Extraction, ver *Verification, dec *Decision) int {
	total := 0
	if ext != nil {
		total += ext.Stats.TokensUsed
	}
	if ver != nil {
		total += ver.Stats.TokensUsed
	}
	if dec != nil {
		total += dec.Stats.TokensUsed
	}
	return total
}
