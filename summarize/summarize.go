// Package summarize generates a per-TOP summary through an OpenAI-compatible
// chat-completions endpoint, defaulting to a local Ollama server.
package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/mlenz/topreview/transcript"
)

const (
	defaultBaseURL = "http://localhost:11434/v1"
	defaultModel   = "qwen3:8b"
)

const systemPrompt = `Du bist ein Experte für die Erstellung von Sitzungsprotokollen für deutsche Kommunalverwaltungen.

Deine Aufgabe ist es, aus einem Transkript eines Tagesordnungspunktes (TOP) eine prägnante Zusammenfassung zu erstellen.

Regeln:
- Schreibe in sachlichem, amtlichem Deutsch
- Fasse die wichtigsten Diskussionspunkte zusammen
- Erwähne getroffene Beschlüsse oder Abstimmungsergebnisse
- Nenne wichtige Positionen der Teilnehmer (ohne Namen, nur Funktionen wenn bekannt)
- Keine Einleitung, keine Schlussfloskel, nur die Zusammenfassung`

// Client talks to the summarization endpoint.
type Client struct {
	BaseURL string
	Model   string
	HTTP    *http.Client
}

// NewFromEnv builds a client from LLM_BASE_URL and LLM_MODEL, falling back
// to a local Ollama server.
func NewFromEnv() Client {
	baseURL := os.Getenv("LLM_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := os.Getenv("LLM_MODEL")
	if model == "" {
		model = defaultModel
	}
	return Client{BaseURL: baseURL, Model: model}
}

type (
	chatRequest struct {
		Model    string        `json:"model"`
		Messages []chatMessage `json:"messages"`
	}

	chatMessage struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}

	chatResponse struct {
		Choices []struct {
			Message chatMessage `json:"message"`
		} `json:"choices"`
	}
)

// Summarize produces a summary of the given topic's transcript lines.
func (c Client) Summarize(ctx context.Context, topTitle string, lines transcript.Transcript) (string, error) {
	if len(lines) == 0 {
		return "", fmt.Errorf("no lines to summarize")
	}

	var text strings.Builder
	for _, line := range lines {
		fmt.Fprintf(&text, "%s: %s\n", line.Speaker, line.Text)
	}

	payload, err := json.Marshal(chatRequest{
		Model: c.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: fmt.Sprintf("TOP: %s\n\nTranskript:\n%s", topTitle, text.String())},
		},
	})
	if err != nil {
		return "", fmt.Errorf("encoding summary request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer ollama")

	client := c.HTTP
	if client == nil {
		client = &http.Client{}
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("summary request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decoding summary response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("summary response contained no choices")
	}

	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}
