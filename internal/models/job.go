package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Job statuses. Only the converter webhook moves a job past "queued".
const (
	JobStatusQueued     = "queued"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

// Source types for a conversion job's manuscript.
const (
	SourceTypeUpload = "upload"
	SourceTypePaste  = "paste"
)

type Job struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	ConvertJobUUID  string
	Title           string
	SourceType      string
	Mode            string
	TTSProvider     string
	NarratorVoiceID string
	AudioFormat     string
	AudioBitrate    string
	ManuscriptPath  sql.NullString
	Status          string
	ErrorMessage    sql.NullString
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type JobFile struct {
	ID          uuid.UUID
	JobID       uuid.UUID
	UserID      uuid.UUID
	Filename    string
	StoragePath string
	StorageURL  string
	FileSize    sql.NullInt64
	MimeType    string
	CreatedAt   time.Time
}
