package store

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/docintel/reckon/internal/model"
	"github.com/docintel/reckon/internal/protect"
)

//go:embed schema.sql
var schemaSQL string

// PostgresStore implements Store on a pgx connection pool
type PostgresStore struct {
	pool *pgxpool.Pool
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore connects to Postgres and ensures the schema exists
func NewPostgresStore(ctx context.Context, cfg model.StoreConfig) (*PostgresStore, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	poolConfig.MaxConns = cfg.MaxConnections
	if poolConfig.MaxConns == 0 {
		poolConfig.MaxConns = 10
	}
	poolConfig.MaxConnLifetime = time.Hour

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close closes the connection pool
func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) UpsertDocument(ctx context.Context, doc *model.DocumentRecord) error {
	query := `
		INSERT INTO documents (
			doc_ref, source_url, document_type, source, document_date,
			date_precision, release_batch, ocr_quality, has_encoding_artifacts,
			page_count, file_size_kb, is_processed, processed_at, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (doc_ref) DO UPDATE SET
			document_type = EXCLUDED.document_type,
			document_date = EXCLUDED.document_date,
			date_precision = EXCLUDED.date_precision,
			release_batch = EXCLUDED.release_batch,
			ocr_quality = EXCLUDED.ocr_quality,
			has_encoding_artifacts = EXCLUDED.has_encoding_artifacts,
			page_count = EXCLUDED.page_count,
			file_size_kb = EXCLUDED.file_size_kb,
			is_processed = EXCLUDED.is_processed,
			processed_at = EXCLUDED.processed_at,
			notes = EXCLUDED.notes`

	var date any
	if doc.Date != "" {
		date = doc.Date
	}

	_, err := s.pool.Exec(ctx, query,
		doc.Ref, doc.URL, string(doc.Type), doc.Source, date,
		string(doc.DatePrecision), doc.Batch, string(doc.OCRQuality), doc.HasEncodingArtifacts,
		doc.PageCount, doc.FileSizeKB, doc.Processed, doc.ProcessedAt, doc.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert document: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpsertPerson(ctx context.Context, p *model.PersonRecord) (int64, error) {
	var pubProfile, institutional, network, corroboration any
	if p.Power != nil {
		pubProfile = p.Power.PublicProfile
		institutional = p.Power.Institutional
		network = p.Power.NetworkCentrality
		corroboration = p.Power.Corroboration
	}
	var category any
	if p.Category != "" {
		category = p.Category
	}

	query := `
		INSERT INTO persons (
			name_key, full_name, confidence, confidence_rank, redaction_status,
			name_recovered, power_public_profile, power_institutional,
			power_network, power_corroboration, category, upgrade_gap_note,
			flagged_for_review, victim_protected
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, FALSE)
		ON CONFLICT (name_key) DO UPDATE SET
			confidence = CASE WHEN EXCLUDED.confidence_rank > persons.confidence_rank
				THEN EXCLUDED.confidence ELSE persons.confidence END,
			confidence_rank = GREATEST(persons.confidence_rank, EXCLUDED.confidence_rank),
			redaction_status = EXCLUDED.redaction_status,
			name_recovered = persons.name_recovered OR EXCLUDED.name_recovered,
			power_public_profile = COALESCE(EXCLUDED.power_public_profile, persons.power_public_profile),
			power_institutional = COALESCE(EXCLUDED.power_institutional, persons.power_institutional),
			power_network = COALESCE(EXCLUDED.power_network, persons.power_network),
			power_corroboration = COALESCE(EXCLUDED.power_corroboration, persons.power_corroboration),
			category = COALESCE(EXCLUDED.category, persons.category),
			upgrade_gap_note = EXCLUDED.upgrade_gap_note,
			flagged_for_review = persons.flagged_for_review OR EXCLUDED.flagged_for_review
		RETURNING id`

	var id int64
	err := s.pool.QueryRow(ctx, query,
		protect.Key(p.FullName), protect.NormalizeName(p.FullName),
		string(p.Confidence), p.Confidence.Rank(), p.RedactionStatus,
		p.NameRecovered, pubProfile, institutional, network, corroboration,
		category, p.UpgradeGap, p.FlaggedForReview,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert person: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) LookupPerson(ctx context.Context, fullName string) (int64, bool, error) {
	var id int64
	err := s.pool.QueryRow(ctx,
		`SELECT id FROM persons WHERE name_key = $1`, protect.Key(fullName),
	).Scan(&id)
	if err == pgx.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to look up person: %w", err)
	}
	return id, true, nil
}

func (s *PostgresStore) UpsertPersonDocument(ctx context.Context, personID int64, docRef string, confidence model.Confidence) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO person_documents (person_id, doc_ref, confidence)
		VALUES ($1, $2, $3)
		ON CONFLICT (person_id, doc_ref) DO UPDATE SET confidence = EXCLUDED.confidence`,
		personID, docRef, string(confidence),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert person-document link: %w", err)
	}

	// Document count is derived from the link table, so re-runs converge.
	_, err = s.pool.Exec(ctx, `
		UPDATE persons SET total_document_count = (
			SELECT count(*) FROM person_documents WHERE person_id = $1
		) WHERE id = $1`, personID)
	if err != nil {
		return fmt.Errorf("failed to refresh person document count: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpsertLocation(ctx context.Context, loc *model.LocationRecord) (int64, error) {
	query := `
		INSERT INTO locations (name_key, name, location_type, confidence, mention_count)
		VALUES ($1, $2, $3, $4, 1)
		ON CONFLICT (name_key) DO UPDATE SET
			location_type = EXCLUDED.location_type,
			confidence = EXCLUDED.confidence,
			mention_count = locations.mention_count + 1
		RETURNING id`

	var id int64
	err := s.pool.QueryRow(ctx, query,
		protect.Key(loc.Name), protect.NormalizeName(loc.Name),
		loc.Type, string(loc.Confidence),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert location: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) InsertEvent(ctx context.Context, ev *model.EventRecord) (int64, error) {
	var date any
	if ev.Date != "" {
		date = ev.Date
	}

	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO events (event_type, title, event_date, date_precision,
			primary_location, confidence, upgrade_gap_note, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		ev.Type, ev.Title, date, string(ev.DatePrecision),
		ev.LocationID, string(ev.Confidence), ev.UpgradeGap, ev.Notes,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert event: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) LinkEventDocument(ctx context.Context, eventID int64, docRef, supportType string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO event_documents (event_id, doc_ref, support_type)
		VALUES ($1, $2, $3)
		ON CONFLICT (event_id, doc_ref) DO NOTHING`,
		eventID, docRef, supportType,
	)
	if err != nil {
		return fmt.Errorf("failed to link event to document: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpsertEventPerson(ctx context.Context, eventID, personID int64, confidence model.Confidence) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO event_persons (event_id, person_id, confidence)
		VALUES ($1, $2, $3)
		ON CONFLICT (event_id, person_id) DO UPDATE SET confidence = EXCLUDED.confidence`,
		eventID, personID, string(confidence),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert event-person link: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpsertRelationship(ctx context.Context, rel *model.RelationshipRecord) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO person_relationships (
			person_a_id, person_b_id, relationship_type, evidence_strength,
			co_occurrence_count, notes, source_doc_refs
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (person_a_id, person_b_id) DO UPDATE SET
			relationship_type = EXCLUDED.relationship_type,
			evidence_strength = EXCLUDED.evidence_strength,
			co_occurrence_count = person_relationships.co_occurrence_count + EXCLUDED.co_occurrence_count,
			notes = EXCLUDED.notes,
			source_doc_refs = (
				SELECT array_agg(DISTINCT r)
				FROM unnest(person_relationships.source_doc_refs || EXCLUDED.source_doc_refs) AS r
			)`,
		rel.PersonAID, rel.PersonBID, rel.Type, string(rel.Strength),
		rel.CoOccurrenceCount, rel.Notes, rel.SourceDocRefs,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert relationship: %w", err)
	}
	return nil
}

func (s *PostgresStore) InsertConflict(ctx context.Context, c *model.ConflictRecord) error {
	var docRef any
	if c.DocRef != "" {
		docRef = c.DocRef
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO conflict_records (entity_type, doc_ref, conflict_field, claim_a, claim_b, for_review)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		c.EntityType, docRef, c.Field, c.ClaimA, c.ClaimB, c.ForReview,
	)
	if err != nil {
		return fmt.Errorf("failed to insert conflict record: %w", err)
	}
	return nil
}

func (s *PostgresStore) InsertProcessingLog(ctx context.Context, e *model.ProcessingLogEntry) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO processing_log (
			doc_ref, batch_id, status, persons_written, locations_written,
			events_written, conflicts_logged, victim_flags, tokens_used,
			models_used, completed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		e.DocRef, e.Batch, e.Status, e.PersonsWritten, e.LocationsWritten,
		e.EventsWritten, e.ConflictsLogged, e.VictimFlags, e.TokensUsed,
		e.ModelsUsed, e.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert processing log entry: %w", err)
	}
	return nil
}

func (s *PostgresStore) PersonSummaries(ctx context.Context, names []string) ([]model.PersonSummary, error) {
	keys := make([]string, 0, len(names))
	for _, name := range names {
		keys = append(keys, protect.Key(name))
	}

	rows, err := s.pool.Query(ctx, `
		SELECT full_name, confidence, total_document_count, COALESCE(category, '')
		FROM persons WHERE name_key = ANY($1)
		ORDER BY full_name`, keys)
	if err != nil {
		return nil, fmt.Errorf("failed to query person summaries: %w", err)
	}
	defer rows.Close()

	var summaries []model.PersonSummary
	for rows.Next() {
		var sum model.PersonSummary
		var confidence string
		if err := rows.Scan(&sum.FullName, &confidence, &sum.DocumentCount, &sum.Category); err != nil {
			return nil, fmt.Errorf("failed to scan person summary: %w", err)
		}
		sum.Confidence = model.ParseConfidence(confidence)
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating person summaries: %w", err)
	}
	return summaries, nil
}

func (s *PostgresStore) LocationSummaries(ctx context.Context, names []string) ([]model.LocationSummary, error) {
	keys := make([]string, 0, len(names))
	for _, name := range names {
		keys = append(keys, protect.Key(name))
	}

	rows, err := s.pool.Query(ctx, `
		SELECT name, location_type, mention_count
		FROM locations WHERE name_key = ANY($1)
		ORDER BY name`, keys)
	if err != nil {
		return nil, fmt.Errorf("failed to query location summaries: %w", err)
	}
	defer rows.Close()

	var summaries []model.LocationSummary
	for rows.Next() {
		var sum model.LocationSummary
		if err := rows.Scan(&sum.Name, &sum.Type, &sum.MentionCount); err != nil {
			return nil, fmt.Errorf("failed to scan location summary: %w", err)
		}
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating location summaries: %w", err)
	}
	return summaries, nil
}
