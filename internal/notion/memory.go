package notion

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/wikiport/wikiport/internal/models"
)

// MemoryStore is an in-memory Store used for dry-run imports and tests.
// It mirrors the destination's semantics where they matter to the pipeline:
// substring title queries, append-order children, idempotent archival.
type MemoryStore struct {
	mu          sync.Mutex
	nextID      int
	collections map[string]*memCollection
	records     map[string]*memRecord
}

type memCollection struct {
	name      string
	fieldKeys []string
	recordIDs []string
}

type memRecord struct {
	id          string
	displayName string
	fields      map[string]string
	children    []models.Block
	archived    bool
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]*memCollection),
		records:     make(map[string]*memRecord),
	}
}

func (s *MemoryStore) newID(prefix string) string {
	s.nextID++
	return fmt.Sprintf("%s-%d", prefix, s.nextID)
}

// CreateCollection registers a collection and returns its ID.
func (s *MemoryStore) CreateCollection(_ context.Context, name string, fieldKeys []string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.newID("col")
	s.collections[id] = &memCollection{name: name, fieldKeys: append([]string(nil), fieldKeys...)}
	return id, nil
}

// CreateRecord stores a record under the collection.
func (s *MemoryStore) CreateRecord(_ context.Context, collectionID, displayName string, fields map[string]string, children []models.Block) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	col, ok := s.collections[collectionID]
	if !ok {
		return "", fmt.Errorf("unknown collection: %s", collectionID)
	}
	rec := &memRecord{
		id:          s.newID("rec"),
		displayName: displayName,
		fields:      fields,
		children:    append([]models.Block(nil), children...),
	}
	s.records[rec.id] = rec
	col.recordIDs = append(col.recordIDs, rec.id)
	return rec.id, nil
}

// QueryByTitleContains returns records whose display name contains substring,
// archived ones included, as the destination does.
func (s *MemoryStore) QueryByTitleContains(_ context.Context, collectionID, substring string) ([]models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	col, ok := s.collections[collectionID]
	if !ok {
		return nil, fmt.Errorf("unknown collection: %s", collectionID)
	}
	var out []models.Record
	for _, id := range col.recordIDs {
		rec := s.records[id]
		if strings.Contains(rec.displayName, substring) {
			out = append(out, models.Record{ID: rec.id, DisplayName: rec.displayName, Archived: rec.archived})
		}
	}
	return out, nil
}

// GetChildren returns a copy of the record's children in stored order.
func (s *MemoryStore) GetChildren(_ context.Context, recordID string) ([]models.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[recordID]
	if !ok {
		return nil, fmt.Errorf("unknown record: %s", recordID)
	}
	return append([]models.Block(nil), rec.children...), nil
}

// AppendChildren appends blocks to the record's children.
func (s *MemoryStore) AppendChildren(_ context.Context, recordID string, blocks []models.Block) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[recordID]
	if !ok {
		return fmt.Errorf("unknown record: %s", recordID)
	}
	rec.children = append(rec.children, blocks...)
	return nil
}

// SetArchived sets the archived flag. Repeated archival is a no-op.
func (s *MemoryStore) SetArchived(_ context.Context, recordID string, archived bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[recordID]
	if !ok {
		return fmt.Errorf("unknown record: %s", recordID)
	}
	rec.archived = archived
	return nil
}

// CollectionName returns the name a collection was created with.
func (s *MemoryStore) CollectionName(collectionID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if col, ok := s.collections[collectionID]; ok {
		return col.name
	}
	return ""
}

// Fields returns a record's property values.
func (s *MemoryStore) Fields(recordID string) map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.records[recordID]; ok {
		return rec.fields
	}
	return nil
}
