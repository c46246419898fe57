// Package telemetry collects anonymous usage metrics and posts them to a
// configurable webhook. Every event is appended to a local jsonl backup
// before the send is attempted, so a failed delivery never loses data.
// Sending is best-effort and asynchronous; a review session works the same
// with telemetry unconfigured.
package telemetry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const defaultBackupDir = "telemetry_backup"

// Event carries the metrics collected during one session phase.
type Event struct {
	Timestamp  string `json:"timestamp"`
	AppVersion string `json:"app_version"`

	TranscribeBackend string `json:"transcribe_backend,omitempty"`
	WhisperModel      string `json:"whisper_model,omitempty"`

	AudioDurationSeconds         float64 `json:"audio_duration_seconds,omitempty"`
	TranscriptionDurationSeconds float64 `json:"transcription_duration_seconds,omitempty"`
	TranscriptLineCount          int     `json:"transcript_line_count,omitempty"`
	TranscriptCharCount          int     `json:"transcript_char_count,omitempty"`

	LLMModel                     string  `json:"llm_model,omitempty"`
	TopCount                     int     `json:"top_count,omitempty"`
	SummarizationDurationSeconds float64 `json:"summarization_duration_seconds,omitempty"`
	ProtocolCharCount            int     `json:"protocol_char_count,omitempty"`

	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Collector aggregates metrics over a session and sends them. All setters
// are meant to be called from the session's single event loop; Send posts a
// copy of the event, so the loop never blocks on the network.
type Collector struct {
	WebhookURL string
	AppVersion string
	BackupDir  string
	HTTP       *http.Client

	event Event
}

// NewFromEnv builds a collector from TELEMETRY_WEBHOOK_URL and APP_VERSION,
// falling back to the given version string. An empty webhook URL disables
// sending; backups are still written.
func NewFromEnv(version string) *Collector {
	if v := os.Getenv("APP_VERSION"); v != "" {
		version = v
	}
	return &Collector{
		WebhookURL: os.Getenv("TELEMETRY_WEBHOOK_URL"),
		AppVersion: version,
		BackupDir:  defaultBackupDir,
	}
}

// SetTranscribeConfig records which transcription backend and model ran.
func (c *Collector) SetTranscribeConfig(backend, model string) {
	c.event.TranscribeBackend = backend
	c.event.WhisperModel = model
}

// SetTranscriptionMetrics records the transcription phase's outcome.
func (c *Collector) SetTranscriptionMetrics(audioSeconds, transcriptionSeconds float64, lineCount, charCount int) {
	c.event.AudioDurationSeconds = audioSeconds
	c.event.TranscriptionDurationSeconds = transcriptionSeconds
	c.event.TranscriptLineCount = lineCount
	c.event.TranscriptCharCount = charCount
}

// SetSummarizationMetrics records a finished per-TOP summarization.
func (c *Collector) SetSummarizationMetrics(llmModel string, topCount int, seconds float64, charCount int) {
	c.event.LLMModel = llmModel
	c.event.TopCount = topCount
	c.event.SummarizationDurationSeconds = seconds
	c.event.ProtocolCharCount = charCount
}

// SetError marks the session phase as failed.
func (c *Collector) SetError(message string) {
	c.event.Error = message
}

// Send delivers the collected event in the background. Failures are
// swallowed: telemetry must never surface in the reviewer's session.
func (c *Collector) Send() {
	e := c.event
	e.Timestamp = time.Now().UTC().Format(time.RFC3339)
	e.AppVersion = c.AppVersion
	e.Success = e.Error == ""

	go c.deliver(e)
}

// deliver writes the backup, then attempts the webhook post.
func (c *Collector) deliver(e Event) error {
	backupErr := c.saveBackup(e)
	postErr := c.postWebhook(e)
	if backupErr != nil {
		return backupErr
	}
	return postErr
}

func (c *Collector) saveBackup(e Event) error {
	dir := c.BackupDir
	if dir == "" {
		dir = defaultBackupDir
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating telemetry backup dir: %w", err)
	}

	path := filepath.Join(dir, "telemetry_"+time.Now().Format("20060102")+".jsonl")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening telemetry backup: %w", err)
	}
	defer f.Close()

	line, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encoding telemetry event: %w", err)
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("writing telemetry backup: %w", err)
	}
	return nil
}

func (c *Collector) postWebhook(e Event) error {
	if c.WebhookURL == "" {
		return nil
	}

	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encoding telemetry event: %w", err)
	}

	client := c.HTTP
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	resp, err := client.Post(c.WebhookURL, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("posting telemetry: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telemetry webhook returned status %d", resp.StatusCode)
	}
	return nil
}
