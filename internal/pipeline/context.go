package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/docintel/reckon/internal/model"
	"github.com/docintel/reckon/internal/store"
)

// noRecordsSentinel is what the verification stage sees when nothing in the
// store matches the extracted entities.
const noRecordsSentinel = "No existing records found for these entities."

// Context window limits: only the most relevant prior records are rendered.
const (
	maxContextPersons   = 20
	maxContextLocations = 10
)

// ContextAssembler renders prior store records into the plain-text context
// block the verification stage cross-references against.
type ContextAssembler struct {
	store store.Store
}

// NewContextAssembler creates a context assembler over a store
func NewContextAssembler(s store.Store) *ContextAssembler {
	return &ContextAssembler{store: s}
}

// Assemble looks up the extracted names and renders what is already known
func (a *ContextAssembler) Assemble(ctx context.Context, extraction *model.Extraction) (string, error) {
	personNames := make([]string, 0, len(extraction.Persons))
	for _, p := range extraction.Persons {
		if len(personNames) >= maxContextPersons {
			break
		}
		personNames = append(personNames, p.Name)
	}

	locationNames := make([]string, 0, len(extraction.Locations))
	for _, l := range extraction.Locations {
		if len(locationNames) >= maxContextLocations {
			break
		}
		locationNames = append(locationNames, l.Name)
	}

	var parts []string

	if len(personNames) > 0 {
		persons, err := a.store.PersonSummaries(ctx, personNames)
		if err != nil {
			return "", fmt.Errorf("person summaries: %w", err)
		}
		if len(persons) > 0 {
			parts = append(parts, "KNOWN PERSONS:")
			for _, p := range persons {
				category := p.Category
				if category == "" {
					category = "unknown"
				}
				parts = append(parts, fmt.Sprintf("  - %s | confidence: %s | docs: %d | category: %s",
					p.FullName, p.Confidence, p.DocumentCount, category))
			}
		}
	}

	if len(locationNames) > 0 {
		locations, err := a.store.LocationSummaries(ctx, locationNames)
		if err != nil {
			return "", fmt.Errorf("location summaries: %w", err)
		}
		if len(locations) > 0 {
			parts = append(parts, "KNOWN LOCATIONS:")
			for _, l := range locations {
				parts = append(parts, fmt.Sprintf("  - %s | type: %s", l.Name, l.Type))
			}
		}
	}

	if len(parts) == 0 {
		return noRecordsSentinel, nil
	}

	return strings.Join(parts, "\n"), nil
}
