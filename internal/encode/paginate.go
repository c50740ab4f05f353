package encode

import "github.com/wikiport/wikiport/internal/models"

// Paginate slices blocks into contiguous Pages of at most maxPerPage blocks
// each. No reordering and no merging of small tail pages: the first Page is
// the primary record's content, the rest become auxiliary records in order.
// An empty block sequence yields zero Pages.
func Paginate(blocks []models.Block, maxPerPage int) []models.Page {
	if len(blocks) == 0 || maxPerPage <= 0 {
		return nil
	}
	pages := make([]models.Page, 0, (len(blocks)+maxPerPage-1)/maxPerPage)
	for i := 0; i < len(blocks); i += maxPerPage {
		end := i + maxPerPage
		if end > len(blocks) {
			end = len(blocks)
		}
		pages = append(pages, models.Page(blocks[i:end]))
	}
	return pages
}
