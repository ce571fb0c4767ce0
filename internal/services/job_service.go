package services

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"audiobook-backend/internal/convert"
	"audiobook-backend/internal/models"
	"audiobook-backend/internal/supabase"
)

// JobService finishes conversion jobs when the converter webhook fires:
// download the produced audio, persist it to storage, record file rows, and
// flip the job status.
type JobService struct {
	convertClient  *convert.Client
	dbClient       *supabase.DatabaseClient
	storageClient  *supabase.StorageClient
	realtimeClient *supabase.RealtimeClient
}

func NewJobService(
	convertClient *convert.Client,
	dbClient *supabase.DatabaseClient,
	storageClient *supabase.StorageClient,
	realtimeClient *supabase.RealtimeClient,
) *JobService {
	return &JobService{
		convertClient:  convertClient,
		dbClient:       dbClient,
		storageClient:  storageClient,
		realtimeClient: realtimeClient,
	}
}

func (s *JobService) HandleJobProcessing(convertJobUUID string) {
	job, err := s.dbClient.GetJobByConvertUUID(convertJobUUID)
	if err != nil {
		log.Printf("job service: unknown converter job %s: %v", convertJobUUID, err)
		return
	}

	if err := s.dbClient.UpdateJobStatus(job.ID, models.JobStatusProcessing); err != nil {
		log.Printf("job service: failed to mark job processing: %v", err)
		return
	}
	s.realtimeClient.PublishJobEvent(job.ID, "job_processing",
		supabase.JobProcessingPayload(job.ID))
}

func (s *JobService) HandleJobCompleted(convertJobUUID string) {
	job, err := s.dbClient.GetJobByConvertUUID(convertJobUUID)
	if err != nil {
		log.Printf("job service: unknown converter job %s: %v", convertJobUUID, err)
		return
	}

	outputs, err := s.convertClient.GetOutputFiles(convertJobUUID)
	if err != nil {
		s.dbClient.UpdateJobError(job.ID, fmt.Sprintf("failed to fetch output files: %v", err))
		return
	}
	if len(outputs) == 0 {
		s.dbClient.UpdateJobError(job.ID, "conversion completed with no output files")
		return
	}

	storageURLs := make([]string, 0)
	for _, output := range outputs {
		data, err := s.convertClient.DownloadFile(output.DownloadLink)
		if err != nil {
			log.Printf("job service: failed to download %s: %v", output.FileName, err)
			continue
		}

		mimeType := output.MimeType
		if mimeType == "" {
			mimeType = "audio/mpeg"
		}

		filename := output.FileName
		if filename == "" {
			filename = fmt.Sprintf("audio_%s.%s", time.Now().Format("20060102_150405"), job.AudioFormat)
		}

		storagePath, storageURL, err := s.storageClient.UploadJobFile(job.UserID, job.ID, filename, mimeType, data)
		if err != nil {
			s.dbClient.UpdateJobError(job.ID, fmt.Sprintf("failed to upload to storage: %v", err))
			continue
		}

		file := &models.JobFile{
			ID:          uuid.New(),
			JobID:       job.ID,
			UserID:      job.UserID,
			Filename:    filename,
			StoragePath: storagePath,
			StorageURL:  storageURL,
			FileSize:    sql.NullInt64{Int64: int64(len(data)), Valid: true},
			MimeType:    mimeType,
			CreatedAt:   time.Now(),
		}
		if err := s.dbClient.CreateJobFile(file); err != nil {
			log.Printf("job service: failed to record file row: %v", err)
		}

		storageURLs = append(storageURLs, storageURL)
	}

	if len(storageURLs) == 0 {
		s.dbClient.UpdateJobError(job.ID, "no output files could be stored")
		return
	}

	if err := s.dbClient.UpdateJobStatus(job.ID, models.JobStatusCompleted); err != nil {
		log.Printf("job service: failed to mark job completed: %v", err)
		return
	}

	s.realtimeClient.PublishJobEvent(job.ID, "job_completed",
		supabase.JobCompletedPayload(job.ID, storageURLs))
}

func (s *JobService) HandleJobFailed(convertJobUUID, errorMsg string) {
	job, err := s.dbClient.GetJobByConvertUUID(convertJobUUID)
	if err != nil {
		log.Printf("job service: unknown converter job %s: %v", convertJobUUID, err)
		return
	}

	if errorMsg == "" {
		errorMsg = "conversion failed"
	}
	s.dbClient.UpdateJobError(job.ID, errorMsg)
	s.realtimeClient.PublishJobEvent(job.ID, "job_failed",
		supabase.JobFailedPayload(job.ID, errorMsg))
}
