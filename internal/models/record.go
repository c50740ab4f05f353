package models

// Record is a persisted unit in the destination store (a Notion page in the
// destination's own terminology). Only identity and classification fields are
// carried here; children are fetched separately when needed.
type Record struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	// Archived is monotonic: once true, a record is retired and never
	// un-archived by this tool.
	Archived bool `json:"archived"`
}
