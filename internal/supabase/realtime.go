package supabase

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/supabase-community/supabase-go"
)

type RealtimeClient struct {
	client *supabase.Client
}

func NewRealtimeClient(client *supabase.Client) *RealtimeClient {
	return &RealtimeClient{
		client: client,
	}
}

func (r *RealtimeClient) PublishEvent(channel string, event string, payload map[string]interface{}) error {
	// The Supabase Go client has no direct Realtime publish; dashboard
	// subscribers receive job row changes through Postgres change feeds, which
	// the database updates trigger automatically.
	return nil
}

func (r *RealtimeClient) PublishJobEvent(jobID uuid.UUID, event string, payload map[string]interface{}) error {
	channel := fmt.Sprintf("job:%s", jobID.String())
	return r.PublishEvent(channel, event, payload)
}

// Event payloads
func JobQueuedPayload(jobID uuid.UUID, title string) map[string]interface{} {
	return map[string]interface{}{
		"job_id": jobID.String(),
		"status": "queued",
		"title":  title,
	}
}

func JobProcessingPayload(jobID uuid.UUID) map[string]interface{} {
	return map[string]interface{}{
		"job_id": jobID.String(),
		"status": "processing",
	}
}

func JobCompletedPayload(jobID uuid.UUID, storageURLs []string) map[string]interface{} {
	return map[string]interface{}{
		"job_id":       jobID.String(),
		"status":       "completed",
		"storage_urls": storageURLs,
	}
}

func JobFailedPayload(jobID uuid.UUID, errorMsg string) map[string]interface{} {
	return map[string]interface{}{
		"job_id": jobID.String(),
		"status": "failed",
		"error":  errorMsg,
	}
}
