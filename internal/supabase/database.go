package supabase

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"audiobook-backend/internal/models"
)

type DatabaseClient struct {
	db *sql.DB
}

func NewDatabaseClient(connectionString string) (*DatabaseClient, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DatabaseClient{db: db}, nil
}

func (d *DatabaseClient) CreateJob(job *models.Job) (*models.Job, error) {
	var created models.Job
	err := d.db.QueryRow(`
		INSERT INTO jobs (id, user_id, convert_job_uuid, title, source_type, mode, tts_provider, narrator_voice_id, audio_format, audio_bitrate, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, user_id, convert_job_uuid, title, source_type, mode, tts_provider, narrator_voice_id, audio_format, audio_bitrate, manuscript_path, status, error_message, created_at, updated_at
	`, job.ID, job.UserID, job.ConvertJobUUID, job.Title, job.SourceType, job.Mode,
		job.TTSProvider, job.NarratorVoiceID, job.AudioFormat, job.AudioBitrate, job.Status).Scan(
		&created.ID, &created.UserID, &created.ConvertJobUUID, &created.Title,
		&created.SourceType, &created.Mode, &created.TTSProvider, &created.NarratorVoiceID,
		&created.AudioFormat, &created.AudioBitrate, &created.ManuscriptPath,
		&created.Status, &created.ErrorMessage, &created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	return &created, nil
}

func (d *DatabaseClient) GetJob(jobID, userID uuid.UUID) (*models.Job, error) {
	var job models.Job
	err := d.db.QueryRow(`
		SELECT id, user_id, convert_job_uuid, title, source_type, mode, tts_provider, narrator_voice_id, audio_format, audio_bitrate, manuscript_path, status, error_message, created_at, updated_at
		FROM jobs
		WHERE id = $1 AND user_id = $2
	`, jobID, userID).Scan(
		&job.ID, &job.UserID, &job.ConvertJobUUID, &job.Title,
		&job.SourceType, &job.Mode, &job.TTSProvider, &job.NarratorVoiceID,
		&job.AudioFormat, &job.AudioBitrate, &job.ManuscriptPath,
		&job.Status, &job.ErrorMessage, &job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	return &job, nil
}

// GetJobByConvertUUID looks a job up by the conversion service's job id. Used
// by the converter webhook, so there is no user scoping.
func (d *DatabaseClient) GetJobByConvertUUID(convertJobUUID string) (*models.Job, error) {
	var job models.Job
	err := d.db.QueryRow(`
		SELECT id, user_id, convert_job_uuid, title, source_type, mode, tts_provider, narrator_voice_id, audio_format, audio_bitrate, manuscript_path, status, error_message, created_at, updated_at
		FROM jobs
		WHERE convert_job_uuid = $1
	`, convertJobUUID).Scan(
		&job.ID, &job.UserID, &job.ConvertJobUUID, &job.Title,
		&job.SourceType, &job.Mode, &job.TTSProvider, &job.NarratorVoiceID,
		&job.AudioFormat, &job.AudioBitrate, &job.ManuscriptPath,
		&job.Status, &job.ErrorMessage, &job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	return &job, nil
}

func (d *DatabaseClient) ListJobs(userID uuid.UUID, limit int) ([]models.Job, error) {
	rows, err := d.db.Query(`
		SELECT id, user_id, convert_job_uuid, title, source_type, mode, tts_provider, narrator_voice_id, audio_format, audio_bitrate, manuscript_path, status, error_message, created_at, updated_at
		FROM jobs
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []models.Job
	for rows.Next() {
		var job models.Job
		err := rows.Scan(
			&job.ID, &job.UserID, &job.ConvertJobUUID, &job.Title,
			&job.SourceType, &job.Mode, &job.TTSProvider, &job.NarratorVoiceID,
			&job.AudioFormat, &job.AudioBitrate, &job.ManuscriptPath,
			&job.Status, &job.ErrorMessage, &job.CreatedAt, &job.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, job)
	}

	return jobs, nil
}

func (d *DatabaseClient) UpdateJobStatus(jobID uuid.UUID, status string) error {
	_, err := d.db.Exec(`
		UPDATE jobs
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`, status, jobID)
	return err
}

func (d *DatabaseClient) UpdateJobError(jobID uuid.UUID, errorMsg string) error {
	_, err := d.db.Exec(`
		UPDATE jobs
		SET status = 'failed', error_message = $1, updated_at = NOW()
		WHERE id = $2
	`, errorMsg, jobID)
	return err
}

func (d *DatabaseClient) SetJobConvertUUID(jobID uuid.UUID, convertJobUUID string) error {
	_, err := d.db.Exec(`
		UPDATE jobs
		SET convert_job_uuid = $1, updated_at = NOW()
		WHERE id = $2
	`, convertJobUUID, jobID)
	return err
}

func (d *DatabaseClient) SetJobManuscriptPath(jobID uuid.UUID, storagePath string) error {
	_, err := d.db.Exec(`
		UPDATE jobs
		SET manuscript_path = $1, updated_at = NOW()
		WHERE id = $2
	`, storagePath, jobID)
	return err
}

// DeleteJob removes a job row; job_files rows cascade.
func (d *DatabaseClient) DeleteJob(jobID, userID uuid.UUID) error {
	_, err := d.db.Exec(`
		DELETE FROM jobs
		WHERE id = $1 AND user_id = $2
	`, jobID, userID)
	return err
}

// CountJobsCreatedSince counts a user's jobs created at or after the given
// instant. Feeds usage.projects_created and the monthly entitlement gate.
func (d *DatabaseClient) CountJobsCreatedSince(userID uuid.UUID, since time.Time) (int, error) {
	var count int
	err := d.db.QueryRow(`
		SELECT COUNT(*) FROM jobs
		WHERE user_id = $1 AND created_at >= $2
	`, userID, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count jobs: %w", err)
	}
	return count, nil
}

func (d *DatabaseClient) CreateJobFile(file *models.JobFile) error {
	_, err := d.db.Exec(`
		INSERT INTO job_files (id, job_id, user_id, filename, storage_path, storage_url, file_size, mime_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, file.ID, file.JobID, file.UserID, file.Filename, file.StoragePath,
		file.StorageURL, file.FileSize, file.MimeType)
	return err
}

func (d *DatabaseClient) GetJobFiles(jobID, userID uuid.UUID) ([]models.JobFile, error) {
	rows, err := d.db.Query(`
		SELECT id, job_id, user_id, filename, storage_path, storage_url, file_size, mime_type, created_at
		FROM job_files
		WHERE job_id = $1 AND user_id = $2
		ORDER BY created_at DESC
	`, jobID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get job files: %w", err)
	}
	defer rows.Close()

	var files []models.JobFile
	for rows.Next() {
		var file models.JobFile
		err := rows.Scan(
			&file.ID, &file.JobID, &file.UserID, &file.Filename,
			&file.StoragePath, &file.StorageURL, &file.FileSize,
			&file.MimeType, &file.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan file: %w", err)
		}
		files = append(files, file)
	}

	return files, nil
}

// GetBillingAccount returns the user's billing account row, or nil when the
// user has never subscribed (free tier).
func (d *DatabaseClient) GetBillingAccount(userID uuid.UUID) (*models.BillingAccount, error) {
	var account models.BillingAccount
	err := d.db.QueryRow(`
		SELECT id, user_id, plan_id, status, is_admin, cancel_at_period_end, current_period_end, stripe_customer_id, stripe_subscription_id, created_at, updated_at
		FROM billing_accounts
		WHERE user_id = $1
	`, userID).Scan(
		&account.ID, &account.UserID, &account.PlanID, &account.Status,
		&account.IsAdmin, &account.CancelAtPeriodEnd, &account.CurrentPeriodEnd,
		&account.StripeCustomerID, &account.StripeSubscriptionID,
		&account.CreatedAt, &account.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get billing account: %w", err)
	}

	return &account, nil
}

// GetBillingAccountByCustomerID resolves a Stripe customer back to a user.
// Used by webhook settlement, so there is no user scoping.
func (d *DatabaseClient) GetBillingAccountByCustomerID(customerID string) (*models.BillingAccount, error) {
	var account models.BillingAccount
	err := d.db.QueryRow(`
		SELECT id, user_id, plan_id, status, is_admin, cancel_at_period_end, current_period_end, stripe_customer_id, stripe_subscription_id, created_at, updated_at
		FROM billing_accounts
		WHERE stripe_customer_id = $1
	`, customerID).Scan(
		&account.ID, &account.UserID, &account.PlanID, &account.Status,
		&account.IsAdmin, &account.CancelAtPeriodEnd, &account.CurrentPeriodEnd,
		&account.StripeCustomerID, &account.StripeSubscriptionID,
		&account.CreatedAt, &account.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get billing account: %w", err)
	}

	return &account, nil
}

// EnsureBillingAccount creates a free-tier row for the user if none exists
// and records the Stripe customer id on it.
func (d *DatabaseClient) EnsureBillingAccount(userID uuid.UUID, stripeCustomerID string) error {
	_, err := d.db.Exec(`
		INSERT INTO billing_accounts (id, user_id, plan_id, status, stripe_customer_id)
		VALUES ($1, $2, 'free', 'inactive', $3)
		ON CONFLICT (user_id) DO UPDATE
		SET stripe_customer_id = COALESCE(billing_accounts.stripe_customer_id, EXCLUDED.stripe_customer_id),
		    updated_at = NOW()
	`, uuid.New(), userID, stripeCustomerID)
	if err != nil {
		return fmt.Errorf("failed to ensure billing account: %w", err)
	}
	return nil
}

// ApplySubscription settles webhook-delivered subscription state onto the
// user's billing account row.
func (d *DatabaseClient) ApplySubscription(userID uuid.UUID, planID, status string, cancelAtPeriodEnd bool, currentPeriodEnd *time.Time, stripeCustomerID, stripeSubscriptionID string) error {
	var periodEnd sql.NullTime
	if currentPeriodEnd != nil {
		periodEnd = sql.NullTime{Time: *currentPeriodEnd, Valid: true}
	}

	_, err := d.db.Exec(`
		INSERT INTO billing_accounts (id, user_id, plan_id, status, cancel_at_period_end, current_period_end, stripe_customer_id, stripe_subscription_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO UPDATE
		SET plan_id = EXCLUDED.plan_id,
		    status = EXCLUDED.status,
		    cancel_at_period_end = EXCLUDED.cancel_at_period_end,
		    current_period_end = EXCLUDED.current_period_end,
		    stripe_customer_id = EXCLUDED.stripe_customer_id,
		    stripe_subscription_id = EXCLUDED.stripe_subscription_id,
		    updated_at = NOW()
	`, uuid.New(), userID, planID, status, cancelAtPeriodEnd, periodEnd, stripeCustomerID, stripeSubscriptionID)
	if err != nil {
		return fmt.Errorf("failed to apply subscription: %w", err)
	}
	return nil
}

func (d *DatabaseClient) Close() error {
	return d.db.Close()
}
