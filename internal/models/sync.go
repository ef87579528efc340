package models

// SyncStatus is the lifecycle state reported through progress callbacks.
type SyncStatus string

const (
	SyncStatusIdle    SyncStatus = "idle"
	SyncStatusSyncing SyncStatus = "syncing"
	SyncStatusDone    SyncStatus = "done"
	SyncStatusError   SyncStatus = "error"
)

// SyncResult summarizes one synchronization run. It is always produced,
// even when the run failed partway through.
type SyncResult struct {
	TotalFetched      int      `json:"total_fetched"`
	NewTransactions   int      `json:"new_transactions"`
	DuplicatesSkipped int      `json:"duplicates_skipped"`
	ParseErrors       int      `json:"parse_errors"`
	Errors            []string `json:"errors"`
}

// SyncProgress is a transient progress snapshot emitted via callback while
// a run is in flight.
type SyncProgress struct {
	Current    int        `json:"current"`
	Total      int        `json:"total"`
	Percentage int        `json:"percentage"`
	Status     SyncStatus `json:"status"`
	Message    string     `json:"message"`
}
