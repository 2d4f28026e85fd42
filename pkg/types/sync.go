package types

// SyncStatus is the outcome of syncing one file.
type SyncStatus string

const (
	SyncCreated   SyncStatus = "created"
	SyncUpdated   SyncStatus = "updated"
	SyncUnchanged SyncStatus = "unchanged"
)

// SyncResult records the status of one destination file, keyed by its
// slash-separated path relative to the destination root.
type SyncResult struct {
	Path   string     `json:"path"`
	Status SyncStatus `json:"status"`
}
