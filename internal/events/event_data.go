package events

// EventData is the interface that all event data types must implement
// This allows for type-safe event data while maintaining flexibility
type EventData interface {
	// EventType returns the event type this data is associated with
	EventType() EventType
}

// DatasetReloadedData contains data for DatasetReloaded events
type DatasetReloadedData struct {
	SnapshotID         string `json:"snapshot_id"`
	PreviousSnapshotID string `json:"previous_snapshot_id"`
	RateRows           int    `json:"rate_rows"`
	DemandRows         int    `json:"demand_rows"`
}

// EventType returns the event type for DatasetReloadedData
func (d *DatasetReloadedData) EventType() EventType {
	return DatasetReloaded
}

// ReloadFailedData contains data for ReloadFailed events
type ReloadFailedData struct {
	Error string `json:"error"`
}

// EventType returns the event type for ReloadFailedData
func (d *ReloadFailedData) EventType() EventType {
	return ReloadFailed
}

// BackupCompletedData contains data for BackupCompleted events
type BackupCompletedData struct {
	Archive   string `json:"archive"`
	SizeBytes int64  `json:"size_bytes"`
	Deleted   int    `json:"deleted"`
}

// EventType returns the event type for BackupCompletedData
func (d *BackupCompletedData) EventType() EventType {
	return BackupCompleted
}
