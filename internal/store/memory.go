package store

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/docintel/reckon/internal/model"
	"github.com/docintel/reckon/internal/protect"
)

// MemoryStore implements Store in process memory. It backs the "memory"
// driver for dry runs and serves as the test double, mirroring the Postgres
// upsert semantics exactly.
type MemoryStore struct {
	mu sync.Mutex

	nextID int64

	Documents map[string]*model.DocumentRecord // doc_ref → record
	Persons   map[string]*model.PersonRecord   // name key → record
	Locations map[string]*model.LocationRecord // name key → record
	Events    []*model.EventRecord

	PersonDocs   map[[2]string]model.Confidence // (person key, doc_ref) → confidence
	EventDocs    map[[2]string]string           // (event id, doc_ref) → support type
	EventPersons map[[2]int64]model.Confidence  // (event id, person id) → confidence

	Relationships map[[2]int64]*model.RelationshipRecord
	Conflicts     []*model.ConflictRecord
	Log           []*model.ProcessingLogEntry

	LocationMentions map[string]int // name key → mention count

	personKeyByID map[int64]string
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		Documents:     make(map[string]*model.DocumentRecord),
		Persons:       make(map[string]*model.PersonRecord),
		Locations:     make(map[string]*model.LocationRecord),
		PersonDocs:    make(map[[2]string]model.Confidence),
		EventDocs:     make(map[[2]string]string),
		EventPersons:  make(map[[2]int64]model.Confidence),
		Relationships: make(map[[2]int64]*model.RelationshipRecord),
		personKeyByID: make(map[int64]string),

		LocationMentions: make(map[string]int),
	}
}

// Close is a no-op for the memory store
func (s *MemoryStore) Close() {}

func (s *MemoryStore) allocID() int64 {
	s.nextID++
	return s.nextID
}

func (s *MemoryStore) UpsertDocument(ctx context.Context, doc *model.DocumentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *doc
	s.Documents[doc.Ref] = &copied
	return nil
}

func (s *MemoryStore) UpsertPerson(ctx context.Context, p *model.PersonRecord) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := protect.Key(p.FullName)
	existing, ok := s.Persons[key]
	if !ok {
		copied := *p
		copied.ID = s.allocID()
		copied.FullName = protect.NormalizeName(p.FullName)
		copied.VictimProtected = false
		s.Persons[key] = &copied
		s.personKeyByID[copied.ID] = key
		return copied.ID, nil
	}

	if p.Confidence.Rank() > existing.Confidence.Rank() {
		existing.Confidence = p.Confidence
	}
	existing.RedactionStatus = p.RedactionStatus
	existing.NameRecovered = existing.NameRecovered || p.NameRecovered
	if p.Power != nil {
		power := *p.Power
		existing.Power = &power
	}
	if p.Category != "" {
		existing.Category = p.Category
	}
	existing.UpgradeGap = p.UpgradeGap
	existing.FlaggedForReview = existing.FlaggedForReview || p.FlaggedForReview
	return existing.ID, nil
}

func (s *MemoryStore) LookupPerson(ctx context.Context, fullName string) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.Persons[protect.Key(fullName)]; ok {
		return p.ID, true, nil
	}
	return 0, false, nil
}

func (s *MemoryStore) UpsertPersonDocument(ctx context.Context, personID int64, docRef string, confidence model.Confidence) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key, ok := s.personKeyByID[personID]
	if !ok {
		return nil
	}
	s.PersonDocs[[2]string{key, docRef}] = confidence
	return nil
}

func (s *MemoryStore) UpsertLocation(ctx context.Context, loc *model.LocationRecord) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := protect.Key(loc.Name)
	s.LocationMentions[key]++

	existing, ok := s.Locations[key]
	if !ok {
		copied := *loc
		copied.ID = s.allocID()
		copied.Name = protect.NormalizeName(loc.Name)
		s.Locations[key] = &copied
		return copied.ID, nil
	}

	existing.Type = loc.Type
	existing.Confidence = loc.Confidence
	return existing.ID, nil
}

func (s *MemoryStore) InsertEvent(ctx context.Context, ev *model.EventRecord) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *ev
	copied.ID = s.allocID()
	s.Events = append(s.Events, &copied)
	return copied.ID, nil
}

func (s *MemoryStore) LinkEventDocument(ctx context.Context, eventID int64, docRef, supportType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.EventDocs[[2]string{strconv.FormatInt(eventID, 10), docRef}] = supportType
	return nil
}

func (s *MemoryStore) UpsertEventPerson(ctx context.Context, eventID, personID int64, confidence model.Confidence) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.EventPersons[[2]int64{eventID, personID}] = confidence
	return nil
}

func (s *MemoryStore) UpsertRelationship(ctx context.Context, rel *model.RelationshipRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pair := [2]int64{rel.PersonAID, rel.PersonBID}
	existing, ok := s.Relationships[pair]
	if !ok {
		copied := *rel
		copied.SourceDocRefs = append([]string(nil), rel.SourceDocRefs...)
		s.Relationships[pair] = &copied
		return nil
	}

	existing.Type = rel.Type
	existing.Strength = rel.Strength
	existing.CoOccurrenceCount += rel.CoOccurrenceCount
	existing.Notes = rel.Notes
	for _, ref := range rel.SourceDocRefs {
		found := false
		for _, have := range existing.SourceDocRefs {
			if have == ref {
				found = true
				break
			}
		}
		if !found {
			existing.SourceDocRefs = append(existing.SourceDocRefs, ref)
		}
	}
	return nil
}

func (s *MemoryStore) InsertConflict(ctx context.Context, c *model.ConflictRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *c
	s.Conflicts = append(s.Conflicts, &copied)
	return nil
}

func (s *MemoryStore) InsertProcessingLog(ctx context.Context, e *model.ProcessingLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *e
	s.Log = append(s.Log, &copied)
	return nil
}

func (s *MemoryStore) PersonSummaries(ctx context.Context, names []string) ([]model.PersonSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var summaries []model.PersonSummary
	for _, name := range names {
		key := protect.Key(name)
		p, ok := s.Persons[key]
		if !ok {
			continue
		}
		summaries = append(summaries, model.PersonSummary{
			FullName:      p.FullName,
			Confidence:    p.Confidence,
			DocumentCount: s.personDocCountLocked(key),
			Category:      p.Category,
		})
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].FullName < summaries[j].FullName })
	return summaries, nil
}

func (s *MemoryStore) LocationSummaries(ctx context.Context, names []string) ([]model.LocationSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var summaries []model.LocationSummary
	for _, name := range names {
		loc, ok := s.Locations[protect.Key(name)]
		if !ok {
			continue
		}
		summaries = append(summaries, model.LocationSummary{
			Name:         loc.Name,
			Type:         loc.Type,
			MentionCount: s.LocationMentions[protect.Key(name)],
		})
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Name < summaries[j].Name })
	return summaries, nil
}

// PersonDocCount reports how many documents a person is linked to
func (s *MemoryStore) PersonDocCount(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.personDocCountLocked(protect.Key(name))
}

func (s *MemoryStore) personDocCountLocked(key string) int {
	count := 0
	for pair := range s.PersonDocs {
		if pair[0] == key {
			count++
		}
	}
	return count
}
