package entity

// SyncResult is the per-run summary returned by the sync entry point.
type SyncResult struct {
	UpdatesApplied int
	NewCount       int
	MergedCount    int
	SkippedCount   int
}
