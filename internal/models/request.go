package models

// CreateJobRequest carries the job-submission form fields. Exactly one of
// ManuscriptText or an attached manuscript file must be present; the handler
// enforces this before any collaborator call.
type CreateJobRequest struct {
	Title           string `json:"title" form:"title"`
	SourceType      string `json:"source_type" form:"source_type"`
	Mode            string `json:"mode" form:"mode"`
	TTSProvider     string `json:"tts_provider" form:"tts_provider"`
	NarratorVoiceID string `json:"narrator_voice_id" form:"narrator_voice_id"`
	AudioFormat     string `json:"audio_format" form:"audio_format"`
	AudioBitrate    string `json:"audio_bitrate" form:"audio_bitrate"`
	ManuscriptText  string `json:"manuscript_text,omitempty" form:"manuscript_text"`
}

type SignupRequest struct {
	DisplayName     string `json:"display_name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type CheckoutRequest struct {
	PlanID string `json:"plan_id"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
