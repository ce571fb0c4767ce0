package models

import "time"

type JobResponse struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	SourceType      string    `json:"source_type"`
	Mode            string    `json:"mode"`
	TTSProvider     string    `json:"tts_provider"`
	NarratorVoiceID string    `json:"narrator_voice_id"`
	AudioFormat     string    `json:"audio_format"`
	AudioBitrate    string    `json:"audio_bitrate"`
	Status          string    `json:"status"`
	ErrorMessage    string    `json:"error_message,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type JobListResponse struct {
	Jobs []JobSummary `json:"jobs"`
}

type JobSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type JobFilesResponse struct {
	Files []JobFileResponse `json:"files"`
}

type JobFileResponse struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	StorageURL string    `json:"storage_url"`
	FileSize   int64     `json:"file_size"`
	MimeType   string    `json:"mime_type"`
	CreatedAt  time.Time `json:"created_at"`
}

type SignupResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type ContactResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type PortalSessionResponse struct {
	URL string `json:"url"`
}

type CheckoutSessionResponse struct {
	URL string `json:"url"`
}

// CheckoutConfirmResponse reports best-effort post-checkout settlement. The
// session id is echoed truncated for display only.
type CheckoutConfirmResponse struct {
	Status    string `json:"status"`
	SessionID string `json:"session_id,omitempty"`
}

type VoicesResponse struct {
	Providers []TTSProviderOption `json:"providers"`
	Formats   []AudioFormatOption `json:"formats"`
}

type TTSProviderOption struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Voices []VoiceOption `json:"voices"`
}

type VoiceOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type AudioFormatOption struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Bitrates []string `json:"bitrates"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
