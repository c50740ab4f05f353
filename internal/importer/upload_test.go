package importer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/wikiport/wikiport/internal/config"
	"github.com/wikiport/wikiport/internal/merge"
	"github.com/wikiport/wikiport/internal/models"
	"github.com/wikiport/wikiport/internal/notion"
)

func testLimits() *config.LimitsConfig {
	return &config.LimitsConfig{
		MaxTextLen:       2000,
		ChunkStride:      1800,
		MaxBlocksPerPage: 90,
		AppendBatchSize:  50,
		MinParagraphLen:  50,
		MinListItemLen:   10,
		CalloutTextLimit: 1900,
	}
}

func TestUpload_createsRecordGroup(t *testing.T) {
	store := notion.NewMemoryStore()
	u := NewUploader(store, testLimits())

	article := &models.Article{
		Title:   "Alan Turing",
		Infobox: map[string]string{"Born": "1912", "Died": "1954"},
	}
	pages := []models.Page{
		{models.Paragraph("page one")},
		{models.Paragraph("page two")},
		{models.Paragraph("page three")},
	}

	collectionID, primaryID, err := u.Upload(context.Background(), article, pages)
	if err != nil {
		t.Fatal(err)
	}

	if name := store.CollectionName(collectionID); name != "Wikipedia: Alan Turing" {
		t.Errorf("collection name = %q", name)
	}
	if fields := store.Fields(primaryID); fields["Born"] != "1912" || fields["Died"] != "1954" {
		t.Errorf("primary fields = %v", fields)
	}

	records, err := store.QueryByTitleContains(context.Background(), collectionID, "Alan Turing")
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, rec := range records {
		names = append(names, rec.DisplayName)
	}
	want := []string{"Alan Turing", merge.PartName("Alan Turing", 2), merge.PartName("Alan Turing", 3)}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Errorf("records = %v, want %v", names, want)
	}
}

func TestUpload_noPages(t *testing.T) {
	u := NewUploader(notion.NewMemoryStore(), testLimits())
	if _, _, err := u.Upload(context.Background(), &models.Article{Title: "X"}, nil); err == nil {
		t.Error("expected error for empty page list")
	}
}

type failingStore struct {
	*notion.MemoryStore
	failAfter int // fail record creation after this many succeed
	created   int
}

func (s *failingStore) CreateRecord(ctx context.Context, collectionID, displayName string, fields map[string]string, children []models.Block) (string, error) {
	if s.created >= s.failAfter {
		return "", errors.New("record rejected")
	}
	s.created++
	return s.MemoryStore.CreateRecord(ctx, collectionID, displayName, fields, children)
}

func TestUpload_partialFailure(t *testing.T) {
	store := &failingStore{MemoryStore: notion.NewMemoryStore(), failAfter: 2}
	u := NewUploader(store, testLimits())

	pages := []models.Page{
		{models.Paragraph("p1")},
		{models.Paragraph("p2")},
		{models.Paragraph("p3")},
	}
	collectionID, primaryID, err := u.Upload(context.Background(), &models.Article{Title: "X"}, pages)

	var partial *PartialUploadError
	if !errors.As(err, &partial) {
		t.Fatalf("err = %v, want *PartialUploadError", err)
	}
	if partial.Created != 2 || partial.Total != 3 {
		t.Errorf("partial = %d/%d, want 2/3", partial.Created, partial.Total)
	}
	// Whatever was created stays reachable for cleanup.
	if collectionID == "" || primaryID == "" {
		t.Errorf("collection/primary IDs missing: %q, %q", collectionID, primaryID)
	}
}

func TestClampBlocks_truncatesOversizedText(t *testing.T) {
	limits := testLimits()
	u := NewUploader(notion.NewMemoryStore(), limits)

	page := models.Page{
		models.Paragraph(strings.Repeat("界", limits.MaxTextLen+10)),
		models.Paragraph("fine"),
	}
	out := u.clampBlocks(page)
	if got := utf8.RuneCountInString(out[0].Text); got != limits.MaxTextLen {
		t.Errorf("clamped length = %d, want %d", got, limits.MaxTextLen)
	}
	if !strings.HasSuffix(out[0].Text, "...") {
		t.Error("clamped text missing ellipsis")
	}
	if out[1].Text != "fine" {
		t.Errorf("in-range block changed: %q", out[1].Text)
	}
	// The input page is left alone.
	if utf8.RuneCountInString(page[0].Text) != limits.MaxTextLen+10 {
		t.Error("clamp mutated the input page")
	}
}

func TestClampBlocks_tinyLimit(t *testing.T) {
	limits := testLimits()
	limits.MaxTextLen = 2
	u := NewUploader(notion.NewMemoryStore(), limits)

	out := u.clampBlocks(models.Page{models.Paragraph("hello")})
	if out[0].Text != "he" {
		t.Errorf("clamped text = %q, want %q", out[0].Text, "he")
	}
}

func TestFieldKeys_sorted(t *testing.T) {
	got := fieldKeys(map[string]string{"Occupation": "x", "Born": "y", "Died": "z"})
	want := []string{"Born", "Died", "Occupation"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("fieldKeys = %v, want %v", got, want)
	}
}
