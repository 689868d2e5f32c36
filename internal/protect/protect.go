// Package protect implements the victim-protection predicate. Any name that
// trips it is diverted to a human-review conflict record and must never be
// written to the durable store as a person, link, or relationship.
package protect

import "strings"

// protectedTerms trigger immediate diversion on a case-insensitive substring
// match against the normalized name. The list is fixed.
var protectedTerms = []string{
	"victim",
	"survivor",
	"minor",
	"underage",
	"trafficking victim",
	"jane doe",
	"john doe",
	"alleged victim",
	"complainant",
}

// NormalizeName collapses internal whitespace and trims the name. The result
// is the display form stored for a person.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// Key returns the natural-key form of a name: normalized and lower-cased.
// All dedup and lookup goes through this key, never a surrogate id.
func Key(name string) string {
	return strings.ToLower(NormalizeName(name))
}

// MatchesLexicon reports whether the name contains a protected term
func MatchesLexicon(name string) bool {
	lowered := Key(name)
	for _, term := range protectedTerms {
		if strings.Contains(lowered, term) {
			return true
		}
	}
	return false
}

// IsProtected combines the upstream possible-victim flag with the lexicon
// match. The flag is advisory and best-effort; the lexicon re-check runs
// regardless of what upstream stages reported.
func IsProtected(name string, flaggedPossibleVictim bool) bool {
	return flaggedPossibleVictim || MatchesLexicon(name)
}
