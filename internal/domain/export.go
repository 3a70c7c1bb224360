package domain

import "time"

type ExportStatus string

const (
	ExportStatusPending   ExportStatus = "pending"
	ExportStatusRunning   ExportStatus = "running"
	ExportStatusCompleted ExportStatus = "completed"
	ExportStatusFailed    ExportStatus = "failed"
)

// Export is a request to copy a user's times to object storage.
type Export struct {
	ID           int64
	UserRef      int64
	Status       ExportStatus
	Location     string
	RecordCount  int
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	CompletedAt  *time.Time
}

// ExportDocument is the JSON body written for a completed export.
type ExportDocument struct {
	UserID     string           `json:"user_id"`
	Username   string           `json:"username"`
	ExportedAt time.Time        `json:"exported_at"`
	Times      []ExportedRecord `json:"times"`
}

type ExportedRecord struct {
	ID         int64     `json:"id"`
	Track      Track     `json:"track"`
	Time       LapTime   `json:"time"`
	RecordedAt time.Time `json:"recorded_at"`
}
