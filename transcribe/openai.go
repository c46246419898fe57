package transcribe

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/mlenz/topreview/transcript"
)

const openaiTranscriptionsURL = "https://api.openai.com/v1/audio/transcriptions"

// OpenAIWhisper transcribes through the hosted Whisper API and parses the
// VTT response. Language and Prompt are optional; empty values are omitted
// from the request.
type OpenAIWhisper struct {
	APIKey   string
	Language string
	Prompt   string

	// BaseURL overrides the API endpoint, for tests.
	BaseURL string
}

var _ Transcriber = OpenAIWhisper{}

func (o OpenAIWhisper) Transcribe(ctx context.Context, audioFile string) (transcript.Transcript, error) {
	if o.APIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}

	file, err := os.Open(audioFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer file.Close()

	var b bytes.Buffer
	writer := multipart.NewWriter(&b)

	part, err := writer.CreateFormFile("file", filepath.Base(audioFile))
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}

	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to copy file: %w", err)
	}

	writer.WriteField("model", "whisper-1")
	writer.WriteField("response_format", "vtt")
	if o.Language != "" && o.Language != "auto" {
		writer.WriteField("language", o.Language)
	}
	if o.Prompt != "" {
		writer.WriteField("prompt", o.Prompt)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close writer: %w", err)
	}

	url := o.BaseURL
	if url == "" {
		url = openaiTranscriptionsURL
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, &b)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+o.APIKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return transcript.ParseVTT(string(body))
}
