// Package writer persists the combined stage outputs as durable records. It
// owns the dedup semantics and the victim-protection barrier: a protected
// name is diverted to the human-review queue and never written as a person.
package writer

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/docintel/reckon/internal/model"
	"github.com/docintel/reckon/internal/protect"
	"github.com/docintel/reckon/internal/store"
)

// Result counts what one document run wrote
type Result struct {
	DocRef           string
	PersonsWritten   int
	LocationsWritten int
	EventsWritten    int
	ConflictsLogged  int
	VictimFlags      int
}

// Writer persists stage outputs through the store
type Writer struct {
	store  store.Store
	logger *zap.Logger
}

// NewWriter creates a record writer over a store
func NewWriter(s store.Store, logger *zap.Logger) *Writer {
	return &Writer{store: s, logger: logger.Named("writer")}
}

// Write persists one document run: the document row, persons, locations,
// events with their links, relationships, conflicts, and the audit log entry.
// All writes are keyed by natural identity, so reprocessing converges.
func (w *Writer) Write(ctx context.Context, doc *model.NormalizedDocument, extraction *model.Extraction, verification *model.Verification, decision *model.Decision, batchID string) (*Result, error) {
	docRef := model.DocRef(doc.URL)
	result := &Result{DocRef: docRef}

	// 1. Document row.
	if err := w.store.UpsertDocument(ctx, &model.DocumentRecord{
		Ref:                  docRef,
		URL:                  doc.URL,
		Type:                 model.ParseDocumentType(extraction.DocumentType),
		Source:               "doj_release",
		Date:                 extraction.DocumentDate,
		DatePrecision:        model.ParseDatePrecision(extraction.DatePrecision),
		Batch:                batchID,
		OCRQuality:           doc.OCRQuality,
		HasEncodingArtifacts: doc.HasEncodingArtifacts,
		PageCount:            doc.PageCount,
		FileSizeKB:           doc.FileSizeKB,
		Processed:            true,
		ProcessedAt:          time.Now().UTC(),
		Notes:                verification.Summary,
	}); err != nil {
		return nil, fmt.Errorf("upsert document: %w", err)
	}

	// Extraction-stage victim flags, joined to verified persons by key.
	flagged := make(map[string]bool)
	for _, p := range extraction.Persons {
		if p.PossibleVictim {
			flagged[protect.Key(p.Name)] = true
		}
	}

	intel := make(map[string]model.PersonIntelligence)
	for _, p := range decision.Persons {
		intel[protect.Key(p.Name)] = p
	}

	// 2. Persons. Protected names never reach the persons table; the
	// diversion record is the human-review queue.
	for _, person := range verification.Persons {
		name := protect.NormalizeName(person.Name)
		if len(name) < 2 {
			continue
		}

		if protect.IsProtected(name, flagged[protect.Key(name)]) {
			result.VictimFlags++
			if err := w.store.InsertConflict(ctx, &model.ConflictRecord{
				EntityType: "person",
				DocRef:     docRef,
				Field:      "victim_flag",
				ClaimA:     fmt.Sprintf("Possible victim: %s", name),
				ClaimB:     "Requires human review before any record write",
				ForReview:  true,
			}); err != nil {
				return nil, fmt.Errorf("insert victim diversion: %w", err)
			}
			w.logger.Info("victim protection diversion", zap.String("doc_ref", docRef))
			continue
		}

		record := &model.PersonRecord{
			FullName:         name,
			Confidence:       model.ParseConfidence(person.Confidence),
			RedactionStatus:  "none",
			NameRecovered:    person.NameRecovered,
			UpgradeGap:       person.UpgradeGap,
			FlaggedForReview: verification.RequiresHumanReview,
		}
		if person.IsRedacted {
			record.RedactionStatus = "partial"
		}
		if pi, ok := intel[protect.Key(name)]; ok {
			power := pi.PowerIndex
			record.Power = &power
			record.Category = pi.Category
			if pi.UpgradeGap != "" {
				record.UpgradeGap = pi.UpgradeGap
			}
		}

		personID, err := w.store.UpsertPerson(ctx, record)
		if err != nil {
			return nil, fmt.Errorf("upsert person: %w", err)
		}
		if err := w.store.UpsertPersonDocument(ctx, personID, docRef, record.Confidence); err != nil {
			return nil, fmt.Errorf("link person document: %w", err)
		}
		result.PersonsWritten++
	}

	// 3. Locations.
	locationIDs := make(map[string]int64)
	for _, loc := range verification.Locations {
		name := protect.NormalizeName(loc.Name)
		if len(name) < 2 {
			continue
		}

		locType := loc.LocationType
		if locType == "" {
			locType = "other"
		}
		id, err := w.store.UpsertLocation(ctx, &model.LocationRecord{
			Name:       name,
			Type:       locType,
			Confidence: model.ParseConfidence(loc.Confidence),
		})
		if err != nil {
			return nil, fmt.Errorf("upsert location: %w", err)
		}
		locationIDs[protect.Key(name)] = id
		result.LocationsWritten++
	}

	// 4. Events, each mention its own row, linked back to the document and
	// to the persons present.
	for _, event := range verification.Events {
		record := &model.EventRecord{
			Type:          event.EventType,
			Title:         eventTitle(event),
			Date:          event.Date,
			DatePrecision: model.ParseDatePrecision(event.DatePrecision),
			Confidence:    model.ParseConfidence(event.Confidence),
			UpgradeGap:    event.UpgradeGap,
			Notes:         event.Notes,
		}
		if id, ok := locationIDs[protect.Key(event.Location)]; ok {
			record.LocationID = &id
		}

		eventID, err := w.store.InsertEvent(ctx, record)
		if err != nil {
			return nil, fmt.Errorf("insert event: %w", err)
		}
		if err := w.store.LinkEventDocument(ctx, eventID, docRef, "primary_proof"); err != nil {
			return nil, fmt.Errorf("link event document: %w", err)
		}
		result.EventsWritten++

		for _, name := range event.PersonsPresent {
			if protect.IsProtected(name, flagged[protect.Key(name)]) {
				continue
			}
			personID, ok, err := w.store.LookupPerson(ctx, name)
			if err != nil {
				return nil, fmt.Errorf("lookup event person: %w", err)
			}
			if !ok {
				continue
			}
			if err := w.store.UpsertEventPerson(ctx, eventID, personID, record.Confidence); err != nil {
				return nil, fmt.Errorf("link event person: %w", err)
			}
		}
	}

	// 5. Relationships. Pairs are unordered: normalize the ordering so the
	// same two people always land on one row.
	for _, rel := range decision.Relationships {
		nameA := protect.NormalizeName(rel.PersonA)
		nameB := protect.NormalizeName(rel.PersonB)
		if protect.Key(nameA) == protect.Key(nameB) {
			continue
		}
		if protect.IsProtected(nameA, flagged[protect.Key(nameA)]) ||
			protect.IsProtected(nameB, flagged[protect.Key(nameB)]) {
			continue
		}
		if protect.Key(nameA) > protect.Key(nameB) {
			nameA, nameB = nameB, nameA
		}

		idA, okA, err := w.store.LookupPerson(ctx, nameA)
		if err != nil {
			return nil, fmt.Errorf("lookup relationship person: %w", err)
		}
		idB, okB, err := w.store.LookupPerson(ctx, nameB)
		if err != nil {
			return nil, fmt.Errorf("lookup relationship person: %w", err)
		}
		if !okA || !okB {
			continue
		}

		count := rel.CoOccurrenceCount
		if count < 1 {
			count = 1
		}
		if err := w.store.UpsertRelationship(ctx, &model.RelationshipRecord{
			PersonAID:         idA,
			PersonBID:         idB,
			Type:              rel.RelationshipType,
			Strength:          model.ParseEvidenceStrength(rel.EvidenceStrength),
			CoOccurrenceCount: count,
			Notes:             rel.Notes,
			SourceDocRefs:     []string{docRef},
		}); err != nil {
			return nil, fmt.Errorf("upsert relationship: %w", err)
		}
	}

	// 6. Conflicts detected during verification.
	for _, conflict := range verification.Conflicts {
		if err := w.store.InsertConflict(ctx, &model.ConflictRecord{
			EntityType: conflict.Type,
			DocRef:     docRef,
			Field:      conflict.Description,
			ClaimA:     conflict.DocumentClaim,
			ClaimB:     conflict.ConflictingClaim,
			ForReview:  false,
		}); err != nil {
			return nil, fmt.Errorf("insert conflict: %w", err)
		}
		result.ConflictsLogged++
	}

	// 7. Audit entry.
	if err := w.store.InsertProcessingLog(ctx, &model.ProcessingLogEntry{
		DocRef:           docRef,
		Batch:            batchID,
		Status:           "complete",
		PersonsWritten:   result.PersonsWritten,
		LocationsWritten: result.LocationsWritten,
		EventsWritten:    result.EventsWritten,
		ConflictsLogged:  result.ConflictsLogged,
		VictimFlags:      result.VictimFlags,
		TokensUsed:       model.TotalTokens(extraction, verification, decision),
		ModelsUsed: fmt.Sprintf("extract:%s | verify:%s | decide:%s",
			extraction.Stats.Model, verification.Stats.Model, decision.Stats.Model),
		CompletedAt: time.Now().UTC(),
	}); err != nil {
		return nil, fmt.Errorf("insert processing log: %w", err)
	}

	w.logger.Info("record write complete",
		zap.String("doc_ref", docRef),
		zap.Int("persons", result.PersonsWritten),
		zap.Int("locations", result.LocationsWritten),
		zap.Int("events", result.EventsWritten),
		zap.Int("conflicts", result.ConflictsLogged),
		zap.Int("victim_flags", result.VictimFlags))

	return result, nil
}

// eventTitle builds a display title for an event row
func eventTitle(event model.VerifiedEvent) string {
	if event.Notes != "" {
		return event.Notes
	}
	date := event.Date
	if date == "" {
		date = "unknown date"
	}
	eventType := event.EventType
	if eventType == "" {
		eventType = "event"
	}
	return fmt.Sprintf("%s — %s", eventType, date)
}
