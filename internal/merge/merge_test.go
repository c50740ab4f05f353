package merge

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/wikiport/wikiport/internal/models"
	"github.com/wikiport/wikiport/internal/notion"
)

// recordingStore wraps a MemoryStore to observe append batch sizes and to
// inject failures.
type recordingStore struct {
	*notion.MemoryStore
	appendSizes []int
	failAppend  int // fail the nth append call (1-based); 0 disables
	failArchive bool
}

func (s *recordingStore) AppendChildren(ctx context.Context, recordID string, blocks []models.Block) error {
	s.appendSizes = append(s.appendSizes, len(blocks))
	if s.failAppend > 0 && len(s.appendSizes) == s.failAppend {
		return errors.New("append rejected")
	}
	return s.MemoryStore.AppendChildren(ctx, recordID, blocks)
}

func (s *recordingStore) SetArchived(ctx context.Context, recordID string, archived bool) error {
	if s.failArchive {
		return errors.New("archive rejected")
	}
	return s.MemoryStore.SetArchived(ctx, recordID, archived)
}

func paragraphs(n int) []models.Block {
	out := make([]models.Block, n)
	for i := range out {
		out[i] = models.Paragraph(fmt.Sprintf("block %d", i))
	}
	return out
}

// seedGroup creates a collection with a primary record plus one auxiliary per
// entry of partBlocks, keyed by part number.
func seedGroup(t *testing.T, store notion.Store, title string, primaryBlocks []models.Block, partBlocks map[int][]models.Block) (collectionID, primaryID string) {
	t.Helper()
	ctx := context.Background()
	collectionID, err := store.CreateCollection(ctx, "Wikipedia: "+title, nil)
	if err != nil {
		t.Fatal(err)
	}
	primaryID, err = store.CreateRecord(ctx, collectionID, title, nil, primaryBlocks)
	if err != nil {
		t.Fatal(err)
	}
	for part, blocks := range partBlocks {
		if _, err := store.CreateRecord(ctx, collectionID, PartName(title, part), nil, blocks); err != nil {
			t.Fatal(err)
		}
	}
	return collectionID, primaryID
}

func TestMerge_appendsAuxiliariesInPartOrder(t *testing.T) {
	store := &recordingStore{MemoryStore: notion.NewMemoryStore()}
	// Lexicographic ordering would put Part 10 before Part 3; the merge
	// must sort numerically regardless of creation order.
	collectionID, primaryID := seedGroup(t, store, "Alan Turing",
		[]models.Block{models.Paragraph("primary")},
		map[int][]models.Block{
			2:  {models.Paragraph("from part 2")},
			10: {models.Paragraph("from part 10")},
			3:  {models.Paragraph("from part 3")},
		})

	gotID, err := NewMerger(store, 50).Merge(context.Background(), collectionID, "Alan Turing")
	if err != nil {
		t.Fatal(err)
	}
	if gotID != primaryID {
		t.Errorf("merged onto %s, want %s", gotID, primaryID)
	}

	children, err := store.GetChildren(context.Background(), primaryID)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"primary", "from part 2", "from part 3", "from part 10"}
	if len(children) != len(want) {
		t.Fatalf("primary has %d blocks, want %d", len(children), len(want))
	}
	for i, text := range want {
		if children[i].Text != text {
			t.Errorf("block %d = %q, want %q", i, children[i].Text, text)
		}
	}

	records, err := store.QueryByTitleContains(context.Background(), collectionID, "Alan Turing")
	if err != nil {
		t.Fatal(err)
	}
	for _, rec := range records {
		if rec.DisplayName == "Alan Turing" {
			if rec.Archived {
				t.Error("primary record must not be archived")
			}
		} else if !rec.Archived {
			t.Errorf("auxiliary %q not archived", rec.DisplayName)
		}
	}
}

func TestMerge_batchesAppends(t *testing.T) {
	store := &recordingStore{MemoryStore: notion.NewMemoryStore()}
	// 237 blocks spread over three auxiliaries.
	collectionID, _ := seedGroup(t, store, "World War II",
		[]models.Block{models.Paragraph("primary")},
		map[int][]models.Block{
			2: paragraphs(90),
			3: paragraphs(90),
			4: paragraphs(57),
		})

	if _, err := NewMerger(store, 50).Merge(context.Background(), collectionID, "World War II"); err != nil {
		t.Fatal(err)
	}
	want := []int{50, 50, 50, 50, 37}
	if len(store.appendSizes) != len(want) {
		t.Fatalf("issued %d append calls (%v), want %d", len(store.appendSizes), store.appendSizes, len(want))
	}
	for i, size := range want {
		if store.appendSizes[i] != size {
			t.Errorf("append call %d carried %d blocks, want %d", i+1, store.appendSizes[i], size)
		}
	}
}

func TestMerge_noRecords(t *testing.T) {
	store := notion.NewMemoryStore()
	collectionID, err := store.CreateCollection(context.Background(), "Wikipedia: X", nil)
	if err != nil {
		t.Fatal(err)
	}
	_, err = NewMerger(store, 50).Merge(context.Background(), collectionID, "X")
	if !errors.Is(err, ErrNoRecords) {
		t.Errorf("err = %v, want ErrNoRecords", err)
	}
}

func TestMerge_primaryMissing(t *testing.T) {
	store := notion.NewMemoryStore()
	ctx := context.Background()
	collectionID, err := store.CreateCollection(ctx, "Wikipedia: X", nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.CreateRecord(ctx, collectionID, PartName("X", 2), nil, paragraphs(1)); err != nil {
		t.Fatal(err)
	}
	_, err = NewMerger(store, 50).Merge(ctx, collectionID, "X")
	if !errors.Is(err, ErrPrimaryNotFound) {
		t.Errorf("err = %v, want ErrPrimaryNotFound", err)
	}
}

func TestMerge_skipsArchivedRecords(t *testing.T) {
	store := notion.NewMemoryStore()
	ctx := context.Background()
	collectionID, primaryID := seedGroup(t, store, "X",
		[]models.Block{models.Paragraph("primary")},
		map[int][]models.Block{2: paragraphs(3)})

	if _, err := NewMerger(store, 50).Merge(ctx, collectionID, "X"); err != nil {
		t.Fatal(err)
	}
	children, err := store.GetChildren(ctx, primaryID)
	if err != nil {
		t.Fatal(err)
	}
	first := len(children)

	// A second run sees only the primary and the archived auxiliary. It must
	// not move the archived auxiliary's blocks again.
	if _, err := NewMerger(store, 50).Merge(ctx, collectionID, "X"); err != nil {
		t.Fatal(err)
	}
	children, err = store.GetChildren(ctx, primaryID)
	if err != nil {
		t.Fatal(err)
	}
	if len(children) != first {
		t.Errorf("second merge grew the primary from %d to %d blocks", first, len(children))
	}
}

func TestMerge_appendFailureAborts(t *testing.T) {
	store := &recordingStore{MemoryStore: notion.NewMemoryStore(), failAppend: 2}
	collectionID, _ := seedGroup(t, store, "X",
		[]models.Block{models.Paragraph("primary")},
		map[int][]models.Block{2: paragraphs(80)})

	_, err := NewMerger(store, 50).Merge(context.Background(), collectionID, "X")
	if err == nil {
		t.Fatal("expected append failure to propagate")
	}

	// Auxiliaries stay in place so a re-run can retry the move.
	records, qerr := store.QueryByTitleContains(context.Background(), collectionID, "X")
	if qerr != nil {
		t.Fatal(qerr)
	}
	for _, rec := range records {
		if rec.Archived {
			t.Errorf("%q archived despite aborted merge", rec.DisplayName)
		}
	}
}

func TestMerge_archiveFailureTolerated(t *testing.T) {
	store := &recordingStore{MemoryStore: notion.NewMemoryStore(), failArchive: true}
	collectionID, primaryID := seedGroup(t, store, "X",
		[]models.Block{models.Paragraph("primary")},
		map[int][]models.Block{2: paragraphs(3)})

	gotID, err := NewMerger(store, 50).Merge(context.Background(), collectionID, "X")
	if err != nil {
		t.Fatalf("archive failure must not fail the merge: %v", err)
	}
	if gotID != primaryID {
		t.Errorf("merged onto %s, want %s", gotID, primaryID)
	}
	children, err := store.GetChildren(context.Background(), primaryID)
	if err != nil {
		t.Fatal(err)
	}
	if len(children) != 4 {
		t.Errorf("primary has %d blocks, want 4", len(children))
	}
}
