package transcribe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

const responseVTT = `WEBVTT

00:00.000 --> 00:04.000
<v SPEAKER_00>Guten Abend zusammen.

00:04.000 --> 00:07.500
<v SPEAKER_01>Guten Abend.
`

func TestOpenAIWhisperTranscribe(t *testing.T) {
	audioFile := filepath.Join(t.TempDir(), "sitzung.mp3")
	if err := os.WriteFile(audioFile, []byte("fake audio"), 0644); err != nil {
		t.Fatal(err)
	}

	var gotAuth, gotModel, gotFormat, gotLang string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parsing multipart form: %v", err)
		}
		gotModel = r.FormValue("model")
		gotFormat = r.FormValue("response_format")
		gotLang = r.FormValue("language")
		w.Write([]byte(responseVTT))
	}))
	defer srv.Close()

	o := OpenAIWhisper{APIKey: "sk-test", Language: "de", BaseURL: srv.URL}
	lines, err := o.Transcribe(context.Background(), audioFile)
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}

	if gotAuth != "Bearer sk-test" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotModel != "whisper-1" || gotFormat != "vtt" || gotLang != "de" {
		t.Errorf("form fields = %q, %q, %q", gotModel, gotFormat, gotLang)
	}

	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0].Speaker != "SPEAKER_00" || lines[0].Start != 0 || lines[0].End != 4 {
		t.Errorf("lines[0] = %+v", lines[0])
	}
	if lines[1].Text != "Guten Abend." || lines[1].End != 7.5 {
		t.Errorf("lines[1] = %+v", lines[1])
	}
}

func TestOpenAIWhisperMissingKey(t *testing.T) {
	o := OpenAIWhisper{}
	if _, err := o.Transcribe(context.Background(), "whatever.mp3"); err == nil {
		t.Fatal("expected an error without an API key")
	}
}

func TestOpenAIWhisperAPIError(t *testing.T) {
	audioFile := filepath.Join(t.TempDir(), "sitzung.mp3")
	if err := os.WriteFile(audioFile, []byte("fake audio"), 0644); err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "rate limited"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	o := OpenAIWhisper{APIKey: "sk-test", BaseURL: srv.URL}
	if _, err := o.Transcribe(context.Background(), audioFile); err == nil {
		t.Fatal("expected an error for a non-200 response")
	}
}
