package entity

import "time"

// Sync operations, as recorded in results and the sync log.
const (
	SyncOperationCreate = "create"
	SyncOperationUpdate = "update"
	SyncOperationSkip   = "skip"
)

// SyncResult is the uniform outcome of every public sync operation. Failures
// are carried in Error; the sync layer never propagates provider errors past
// its boundary.
type SyncResult struct {
	Success   bool   `json:"success"`
	RemoteID  string `json:"remote_id,omitempty"`
	Operation string `json:"operation,omitempty"`
	Error     string `json:"error,omitempty"`
}

// FailedSync builds a failure result from an error message.
func FailedSync(message string) SyncResult {
	return SyncResult{Success: false, Error: message}
}

// ProviderSyncStatus reports whether a lead has been synced to one provider.
type ProviderSyncStatus struct {
	Synced       bool       `json:"synced"`
	LastSyncedAt *time.Time `json:"last_synced_at,omitempty"`
}
