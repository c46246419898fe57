// Package transcribe produces diarized transcripts from audio, either
// through the OpenAI Whisper API or a local whisperx install.
package transcribe

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/mlenz/topreview/transcript"
)

// Transcriber converts an audio file into a transcript.
type Transcriber interface {
	Transcribe(ctx context.Context, audioFile string) (transcript.Transcript, error)
}

// ExtractAudio pulls the audio track out of a video file with ffmpeg and
// returns the path of the resulting mp3, written next to the input.
func ExtractAudio(inputFile string) (string, error) {
	basename := strings.TrimSuffix(filepath.Base(inputFile), filepath.Ext(inputFile))
	audioFile := filepath.Join(filepath.Dir(inputFile), basename+".mp3")

	cmd := exec.Command("ffmpeg", "-y", "-i", inputFile, "-vn", audioFile)
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("failed to extract audio: %w", err)
	}

	return audioFile, nil
}

// CheckDependency reports whether an external command is on PATH.
func CheckDependency(command string) bool {
	_, err := exec.LookPath(command)
	return err == nil
}
