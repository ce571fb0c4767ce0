package convert

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to the external manuscript-to-audio conversion service. The
// service owns all job state transitions past submission; this client only
// submits, polls, and downloads.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

type SubmitJobRequest struct {
	Title           string `json:"title"`
	Mode            string `json:"mode"`
	TTSProvider     string `json:"tts_provider"`
	NarratorVoiceID string `json:"narrator_voice_id"`
	AudioFormat     string `json:"audio_format"`
	AudioBitrate    string `json:"audio_bitrate"`
	ManuscriptURL   string `json:"manuscript_url,omitempty"`
	ManuscriptText  string `json:"manuscript_text,omitempty"`
	CallbackURL     string `json:"callback_url,omitempty"`
}

type SubmitJobResponse struct {
	Data struct {
		JobUUID string `json:"job_uuid"`
	} `json:"data"`
}

type OutputFile struct {
	FileName     string `json:"file_name"`
	DownloadLink string `json:"download_link"`
	MimeType     string `json:"mime_type"`
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) SubmitJob(jobReq SubmitJobRequest) (string, error) {
	jsonData, err := json.Marshal(jobReq)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := strings.TrimSuffix(c.baseURL, "/") + "/jobs"
	req, err := http.NewRequest("POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to submit job: status %d, body: %s", resp.StatusCode, string(body))
	}

	var result SubmitJobResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w, body: %s", err, string(body))
	}

	if result.Data.JobUUID == "" {
		return "", fmt.Errorf("job_uuid is empty in response, body: %s", string(body))
	}

	return result.Data.JobUUID, nil
}

// GetOutputFiles returns temporary download links for a completed job's audio
// output.
func (c *Client) GetOutputFiles(jobUUID string) ([]OutputFile, error) {
	url := strings.TrimSuffix(c.baseURL, "/") + "/jobs/" + jobUUID + "/outputs"
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to get output files: status %d, body: %s", resp.StatusCode, string(body))
	}

	var result struct {
		FilesList []OutputFile `json:"files_list"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return result.FilesList, nil
}

func (c *Client) DownloadFile(downloadURL string) ([]byte, error) {
	req, err := http.NewRequest("GET", downloadURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to download file: status %d, body: %s", resp.StatusCode, string(body))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}

func (c *Client) DeleteJob(jobUUID string) error {
	url := strings.TrimSuffix(c.baseURL, "/") + "/jobs/" + jobUUID
	req, err := http.NewRequest("DELETE", url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("failed to delete job: status %d, body: %s", resp.StatusCode, string(body))
	}

	return nil
}

// RetryWithBackoff executes a function with exponential backoff retry logic
func (c *Client) RetryWithBackoff(fn func() error, maxRetries int) error {
	backoffs := []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		err := fn()
		if err == nil {
			return nil
		}

		lastErr = err
		if i < len(backoffs) {
			time.Sleep(backoffs[i])
		}
	}

	return fmt.Errorf("failed after %d retries: %w", maxRetries, lastErr)
}
