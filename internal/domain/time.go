package domain

import "time"

// Time is a single recorded duration on a track.
type Time struct {
	ID         int64
	UserRef    int64
	UserID     string
	Username   string
	Track      Track
	Duration   LapTime
	RecordedAt time.Time
}

// TimeRequest is the validated input for recording a time.
type TimeRequest struct {
	UserID string  `json:"userId" binding:"required"`
	Track  Track   `json:"track" binding:"required,track"`
	Time   LapTime `json:"time" binding:"required,gt=0"`
}
