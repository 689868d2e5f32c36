// Package store provides the durable record store behind the pipeline: keyed
// upserts over natural identities, plain inserts for append-only logs, and
// the lookups the context assembler reads.
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/docintel/reckon/internal/model"
)

// Store is the durable store capability. All upserts are keyed by natural
// identity (normalized names, derived document references), never by
// surrogate ids, so repeated writes converge instead of duplicating.
type Store interface {
	// UpsertDocument inserts or updates a document keyed by its derived reference
	UpsertDocument(ctx context.Context, doc *model.DocumentRecord) error

	// UpsertPerson inserts or updates a person keyed by normalized full name
	// and returns the row id. Confidence never moves down the lattice on update.
	UpsertPerson(ctx context.Context, p *model.PersonRecord) (int64, error)

	// LookupPerson resolves a person id by name; ok is false when absent
	LookupPerson(ctx context.Context, fullName string) (int64, bool, error)

	// UpsertPersonDocument links a person to a document, keyed by the pair
	UpsertPersonDocument(ctx context.Context, personID int64, docRef string, confidence model.Confidence) error

	// UpsertLocation inserts or updates a location keyed by normalized name
	UpsertLocation(ctx context.Context, loc *model.LocationRecord) (int64, error)

	// InsertEvent appends a new event row; events are never deduplicated
	InsertEvent(ctx context.Context, ev *model.EventRecord) (int64, error)

	// LinkEventDocument links an event to its supporting document
	LinkEventDocument(ctx context.Context, eventID int64, docRef, supportType string) error

	// UpsertEventPerson links an event to a present person, keyed by the pair
	UpsertEventPerson(ctx context.Context, eventID, personID int64, confidence model.Confidence) error

	// UpsertRelationship inserts or updates an unordered person pair,
	// accumulating co-occurrence counts and supporting document references
	UpsertRelationship(ctx context.Context, rel *model.RelationshipRecord) error

	// InsertConflict appends a conflict record; conflicts are never deduplicated
	InsertConflict(ctx context.Context, c *model.ConflictRecord) error

	// InsertProcessingLog appends one audit entry for a document run
	InsertProcessingLog(ctx context.Context, e *model.ProcessingLogEntry) error

	// PersonSummaries returns existing persons matching the given names exactly
	PersonSummaries(ctx context.Context, names []string) ([]model.PersonSummary, error)

	// LocationSummaries returns existing locations matching the given names exactly
	LocationSummaries(ctx context.Context, names []string) ([]model.LocationSummary, error)

	// Close releases the underlying resources
	Close()
}

// Open creates a store for the configured driver
func Open(ctx context.Context, cfg model.StoreConfig) (Store, error) {
	switch strings.ToLower(cfg.Driver) {
	case "postgres", "":
		return NewPostgresStore(ctx, cfg)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store driver: %s (supported: postgres, memory)", cfg.Driver)
	}
}
