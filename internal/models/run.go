package models

import "time"

// Run statuses, in pipeline order. A run moves forward only; "failed" is
// terminal and records the error that stopped it.
const (
	RunUploading = "uploading"
	RunUploaded  = "uploaded"
	RunMerging   = "merging"
	RunMerged    = "merged"
	RunFailed    = "failed"
)

// Run is one import attempt of one article, tracked in the local ledger.
type Run struct {
	ID           string    `json:"id"`
	URL          string    `json:"url"`
	Title        string    `json:"title"`
	CollectionID string    `json:"collection_id,omitempty"`
	PrimaryID    string    `json:"primary_id,omitempty"`
	Status       string    `json:"status"`
	Blocks       int       `json:"blocks"`
	Pages        int       `json:"pages"`
	Error        string    `json:"error,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
