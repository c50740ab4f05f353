package encode

import (
	"testing"

	"github.com/wikiport/wikiport/internal/models"
)

func numberedBlocks(n int) []models.Block {
	blocks := make([]models.Block, n)
	for i := range blocks {
		blocks[i] = models.Paragraph(string(rune('a' + i%26)))
	}
	return blocks
}

func TestPaginate(t *testing.T) {
	blocks := numberedBlocks(200)
	pages := Paginate(blocks, 90)
	if len(pages) != 3 {
		t.Fatalf("200 blocks at 90 per page should yield 3 pages, got %d", len(pages))
	}
	sizes := []int{90, 90, 20}
	for i, p := range pages {
		if len(p) != sizes[i] {
			t.Errorf("page %d size = %d, want %d", i, len(p), sizes[i])
		}
	}
}

func TestPaginate_conservationAndOrder(t *testing.T) {
	blocks := numberedBlocks(137)
	pages := Paginate(blocks, 25)

	total := 0
	for _, p := range pages {
		if len(p) > 25 {
			t.Errorf("page exceeds ceiling: %d", len(p))
		}
		total += len(p)
	}
	if total != len(blocks) {
		t.Errorf("pages hold %d blocks, want %d", total, len(blocks))
	}

	// Round-trip law: concatenating pages reproduces the flat sequence.
	i := 0
	for _, p := range pages {
		for _, b := range p {
			if b != blocks[i] {
				t.Fatalf("block %d reordered", i)
			}
			i++
		}
	}
}

func TestPaginate_exactMultiple(t *testing.T) {
	pages := Paginate(numberedBlocks(180), 90)
	if len(pages) != 2 || len(pages[0]) != 90 || len(pages[1]) != 90 {
		t.Errorf("unexpected pages: %d", len(pages))
	}
}

func TestPaginate_empty(t *testing.T) {
	if pages := Paginate(nil, 90); pages != nil {
		t.Errorf("no blocks should yield zero pages, got %d", len(pages))
	}
}
