package handlers

import (
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"audiobook-backend/internal/billing"
	"audiobook-backend/internal/catalog"
	"audiobook-backend/internal/config"
	"audiobook-backend/internal/convert"
	"audiobook-backend/internal/middleware"
	"audiobook-backend/internal/models"
	"audiobook-backend/internal/supabase"
)

const (
	defaultJobListLimit = 5
	maxJobListLimit     = 50
	maxManuscriptBytes  = 32 << 20
)

// billingInfoProvider is the slice of the billing service the jobs handler
// uses for the entitlement gate.
type billingInfoProvider interface {
	Info(userID uuid.UUID) (billing.Info, error)
}

type JobsHandler struct {
	config         *config.Config
	convertClient  *convert.Client
	dbClient       *supabase.DatabaseClient
	storageClient  *supabase.StorageClient
	realtimeClient *supabase.RealtimeClient
	billingService billingInfoProvider
}

func NewJobsHandler(
	cfg *config.Config,
	convertClient *convert.Client,
	dbClient *supabase.DatabaseClient,
	storageClient *supabase.StorageClient,
	realtimeClient *supabase.RealtimeClient,
	billingService billingInfoProvider,
) *JobsHandler {
	return &JobsHandler{
		config:         cfg,
		convertClient:  convertClient,
		dbClient:       dbClient,
		storageClient:  storageClient,
		realtimeClient: realtimeClient,
		billingService: billingService,
	}
}

// CreateJob accepts the job-submission form either as multipart/form-data
// (source_type "upload", file field "manuscript") or as JSON (source_type
// "paste" with manuscript_text). Exactly one manuscript source must be
// present; all validation happens before any collaborator call.
func (h *JobsHandler) CreateJob(c *gin.Context) {
	if h.dbClient == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req models.CreateJobRequest
	var manuscriptData []byte
	var manuscriptFilename string

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		if err := c.Request.ParseMultipartForm(maxManuscriptBytes); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "failed to parse multipart form",
				Message: err.Error(),
			})
			return
		}
		if err := c.ShouldBind(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid form fields"})
			return
		}

		fileHeader, err := c.FormFile("manuscript")
		if err == nil && fileHeader != nil {
			src, err := fileHeader.Open()
			if err != nil {
				c.JSON(http.StatusBadRequest, models.ErrorResponse{
					Error:   "failed to open manuscript file",
					Message: err.Error(),
				})
				return
			}
			manuscriptData, err = io.ReadAll(src)
			src.Close()
			if err != nil {
				c.JSON(http.StatusBadRequest, models.ErrorResponse{
					Error:   "failed to read manuscript file",
					Message: err.Error(),
				})
				return
			}
			manuscriptFilename = fileHeader.Filename
		}
	} else {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body"})
			return
		}
	}

	if req.SourceType != models.SourceTypeUpload && req.SourceType != models.SourceTypePaste {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "source_type must be \"upload\" or \"paste\""})
		return
	}

	// Exactly one manuscript source, enforced per input mode.
	switch req.SourceType {
	case models.SourceTypeUpload:
		if len(manuscriptData) == 0 {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "no manuscript file attached"})
			return
		}
		req.ManuscriptText = ""
	case models.SourceTypePaste:
		if strings.TrimSpace(req.ManuscriptText) == "" {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "manuscript text is empty"})
			return
		}
		manuscriptData = []byte(req.ManuscriptText)
		manuscriptFilename = "manuscript.txt"
	}

	if req.Mode == "" {
		req.Mode = catalog.ModeSingleVoice
	}
	if !catalog.ValidMode(req.Mode) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "unknown conversion mode"})
		return
	}
	if !catalog.ValidVoice(req.TTSProvider, req.NarratorVoiceID) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "unknown narrator voice"})
		return
	}
	if !catalog.ValidFormat(req.AudioFormat, req.AudioBitrate) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "unknown audio format or bitrate"})
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		if req.SourceType == models.SourceTypeUpload {
			title = TitleFromFilename(manuscriptFilename)
		} else {
			title = "Untitled"
		}
	}

	// Monthly entitlement gate. Admins bypass the cap.
	info, err := h.billingService.Info(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to check plan limits",
			Message: err.Error(),
		})
		return
	}
	if billing.LimitReached(info) {
		c.JSON(http.StatusForbidden, models.ErrorResponse{
			Error: "monthly project limit reached",
		})
		return
	}

	job := &models.Job{
		ID:              uuid.New(),
		UserID:          userID,
		Title:           title,
		SourceType:      req.SourceType,
		Mode:            req.Mode,
		TTSProvider:     req.TTSProvider,
		NarratorVoiceID: req.NarratorVoiceID,
		AudioFormat:     req.AudioFormat,
		AudioBitrate:    req.AudioBitrate,
		Status:          models.JobStatusQueued,
	}

	created, err := h.dbClient.CreateJob(job)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to create job",
			Message: err.Error(),
		})
		return
	}

	storagePath, manuscriptURL, err := h.storageClient.UploadJobFile(
		userID, created.ID, manuscriptFilename, "text/plain", manuscriptData)
	if err != nil {
		h.dbClient.UpdateJobError(created.ID, "failed to store manuscript: "+err.Error())
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to store manuscript",
			Message: err.Error(),
		})
		return
	}
	if err := h.dbClient.SetJobManuscriptPath(created.ID, storagePath); err != nil {
		log.Printf("jobs: failed to record manuscript path: %v", err)
	}

	var convertJobUUID string
	err = h.convertClient.RetryWithBackoff(func() error {
		var err error
		convertJobUUID, err = h.convertClient.SubmitJob(convert.SubmitJobRequest{
			Title:           created.Title,
			Mode:            created.Mode,
			TTSProvider:     created.TTSProvider,
			NarratorVoiceID: created.NarratorVoiceID,
			AudioFormat:     created.AudioFormat,
			AudioBitrate:    created.AudioBitrate,
			ManuscriptURL:   manuscriptURL,
			CallbackURL:     h.config.WebhookCallbackURL,
		})
		return err
	}, 3)
	if err != nil {
		h.dbClient.UpdateJobError(created.ID, "failed to submit conversion: "+err.Error())
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   "failed to submit conversion job",
			Message: err.Error(),
		})
		return
	}

	if err := h.dbClient.SetJobConvertUUID(created.ID, convertJobUUID); err != nil {
		log.Printf("jobs: failed to record converter job id: %v", err)
	}

	h.realtimeClient.PublishJobEvent(created.ID, "job_queued",
		supabase.JobQueuedPayload(created.ID, created.Title))

	c.JSON(http.StatusOK, jobResponse(created))
}

func (h *JobsHandler) ListJobs(c *gin.Context) {
	if h.dbClient == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	limit := defaultJobListLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid limit"})
			return
		}
		limit = parsed
		if limit > maxJobListLimit {
			limit = maxJobListLimit
		}
	}

	jobs, err := h.dbClient.ListJobs(userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to list jobs",
			Message: err.Error(),
		})
		return
	}

	summaries := make([]models.JobSummary, len(jobs))
	for i, j := range jobs {
		summaries[i] = models.JobSummary{
			ID:        j.ID.String(),
			Title:     j.Title,
			Status:    j.Status,
			CreatedAt: j.CreatedAt,
		}
	}

	c.JSON(http.StatusOK, models.JobListResponse{Jobs: summaries})
}

func (h *JobsHandler) GetJob(c *gin.Context) {
	if h.dbClient == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	jobID, err := uuid.Parse(c.Param("job_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid job id"})
		return
	}

	job, err := h.dbClient.GetJob(jobID, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "job not found",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, jobResponse(job))
}

// DeleteJob removes a job, its stored files, and the converter-side job.
// Collaborator cleanup is best-effort; only the row delete can fail the
// request.
func (h *JobsHandler) DeleteJob(c *gin.Context) {
	if h.dbClient == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	jobID, err := uuid.Parse(c.Param("job_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid job id"})
		return
	}

	job, err := h.dbClient.GetJob(jobID, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "job not found",
			Message: err.Error(),
		})
		return
	}

	if job.ConvertJobUUID != "" {
		if err := h.convertClient.DeleteJob(job.ConvertJobUUID); err != nil {
			log.Printf("jobs: failed to delete converter job %s: %v", job.ConvertJobUUID, err)
		}
	}
	if err := h.storageClient.DeleteJobFiles(userID, jobID); err != nil {
		log.Printf("jobs: failed to delete stored files for job %s: %v", jobID, err)
	}

	if err := h.dbClient.DeleteJob(jobID, userID); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to delete job",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *JobsHandler) GetJobFiles(c *gin.Context) {
	if h.dbClient == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "database not available"})
		return
	}

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	jobID, err := uuid.Parse(c.Param("job_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid job id"})
		return
	}

	files, err := h.dbClient.GetJobFiles(jobID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to get job files",
			Message: err.Error(),
		})
		return
	}

	responses := make([]models.JobFileResponse, len(files))
	for i, f := range files {
		responses[i] = models.JobFileResponse{
			ID:         f.ID.String(),
			Filename:   f.Filename,
			StorageURL: f.StorageURL,
			FileSize:   f.FileSize.Int64,
			MimeType:   f.MimeType,
			CreatedAt:  f.CreatedAt,
		}
	}

	c.JSON(http.StatusOK, models.JobFilesResponse{Files: responses})
}

// TitleFromFilename derives a default title from the uploaded filename with
// its extension stripped, falling back to "Untitled".
func TitleFromFilename(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	base = strings.TrimSpace(base)
	if base == "" || base == "." {
		return "Untitled"
	}
	return base
}

func jobResponse(job *models.Job) models.JobResponse {
	resp := models.JobResponse{
		ID:              job.ID.String(),
		Title:           job.Title,
		SourceType:      job.SourceType,
		Mode:            job.Mode,
		TTSProvider:     job.TTSProvider,
		NarratorVoiceID: job.NarratorVoiceID,
		AudioFormat:     job.AudioFormat,
		AudioBitrate:    job.AudioBitrate,
		Status:          job.Status,
		CreatedAt:       job.CreatedAt,
		UpdatedAt:       job.UpdatedAt,
	}
	if job.ErrorMessage.Valid {
		resp.ErrorMessage = job.ErrorMessage.String
	}
	return resp
}

// requireUserID pulls the authenticated user id set by the auth middleware.
func requireUserID(c *gin.Context) (uuid.UUID, bool) {
	userIDStr, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "user id not found"})
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid user id"})
		return uuid.Nil, false
	}
	return userID, true
}
