package model

import "strings"

// Confidence is the ordered evidentiary tier assigned to a verified claim.
// The ordering is unverified < indicated < corroborated < confirmed.
type Confidence string

const (
	ConfidenceUnverified   Confidence = "unverified"
	ConfidenceIndicated    Confidence = "indicated"
	ConfidenceCorroborated Confidence = "corroborated"
	ConfidenceConfirmed    Confidence = "confirmed"
)

// ParseConfidence normalizes a confidence string; anything unrecognized
// degrades to unverified, never upward.
func ParseConfidence(s string) Confidence {
	switch Confidence(strings.ToLower(strings.TrimSpace(s))) {
	case ConfidenceConfirmed:
		return ConfidenceConfirmed
	case ConfidenceCorroborated:
		return ConfidenceCorroborated
	case ConfidenceIndicated:
		return ConfidenceIndicated
	default:
		return ConfidenceUnverified
	}
}

// Rank returns the position of the confidence level in the lattice
func (c Confidence) Rank() int {
	switch c {
	case ConfidenceConfirmed:
		return 3
	case ConfidenceCorroborated:
		return 2
	case ConfidenceIndicated:
		return 1
	default:
		return 0
	}
}

// CorroborationScore is the deterministic projection of a confidence level
// onto the power-index corroboration sub-score. The mapping is fixed:
// confirmed=90, corroborated=70, indicated=40, unverified=15.
func CorroborationScore(c Confidence) int {
	switch c {
	case ConfidenceConfirmed:
		return 90
	case ConfidenceCorroborated:
		return 70
	case ConfidenceIndicated:
		return 40
	default:
		return 15
	}
}

// EvidenceStrength grades person-to-person relationship evidence
type EvidenceStrength string

const (
	StrengthStrong   EvidenceStrength = "strong"
	StrengthModerate EvidenceStrength = "moderate"
	StrengthWeak     EvidenceStrength = "weak"
)

// ParseEvidenceStrength normalizes a strength string, defaulting to weak
func ParseEvidenceStrength(s string) EvidenceStrength {
	switch EvidenceStrength(strings.ToLower(strings.TrimSpace(s))) {
	case StrengthStrong:
		return StrengthStrong
	case StrengthModerate:
		return StrengthModerate
	default:
		return StrengthWeak
	}
}

// IntelligenceValue is the decision stage's overall verdict for a document
type IntelligenceValue string

const (
	IntelHigh   IntelligenceValue = "high"
	IntelMedium IntelligenceValue = "medium"
	IntelLow    IntelligenceValue = "low"
)

// ParseIntelligenceValue normalizes a verdict string, defaulting to low
func ParseIntelligenceValue(s string) IntelligenceValue {
	switch IntelligenceValue(strings.ToLower(strings.TrimSpace(s))) {
	case IntelHigh:
		return IntelHigh
	case IntelMedium:
		return IntelMedium
	default:
		return IntelLow
	}
}
