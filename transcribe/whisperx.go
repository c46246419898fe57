package transcribe

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/mlenz/topreview/transcript"
)

// Whisperx shells out to a local whisperx install, which writes its JSON
// result next to the audio input. With a HF_TOKEN in the environment
// whisperx also diarizes, so segments carry speaker labels. Progress lines
// from the process go to Log when set; stdout and stderr are drained
// either way so the child never blocks on a full pipe.
type Whisperx struct {
	Model    string
	Language string
	Log      func(line string)
}

var _ Transcriber = Whisperx{}

func (w Whisperx) Transcribe(ctx context.Context, audioFile string) (transcript.Transcript, error) {
	cmd := exec.CommandContext(ctx, "whisperx", w.args(audioFile)...)

	stderr, _ := cmd.StderrPipe()
	stdout, _ := cmd.StdoutPipe()
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting whisperx: %w", err)
	}

	go pumpLines(stderr, w.Log)
	go pumpLines(stdout, w.Log)

	if err := cmd.Wait(); err != nil {
		return nil, fmt.Errorf("transcribing with whisperx: %w", err)
	}

	resultFile, err := os.Open(resultPath(audioFile))
	if err != nil {
		return nil, fmt.Errorf("opening whisperx transcribe result: %w", err)
	}
	defer resultFile.Close()

	return transcript.ParseWhisperxJSON(resultFile)
}

func (w Whisperx) args(audioFile string) []string {
	args := []string{audioFile, "--output_format", "json", "--output_dir", filepath.Dir(audioFile)}
	if w.Model != "" {
		args = append(args, "--model", w.Model)
	}
	if w.Language != "" && w.Language != "auto" {
		args = append(args, "--language", w.Language)
	}
	if os.Getenv("HF_TOKEN") != "" {
		args = append(args, "--diarize", "--hf_token", os.Getenv("HF_TOKEN"))
	}
	return args
}

// resultPath is where whisperx drops its JSON output for the given input:
// same directory, same basename, .json extension.
func resultPath(audioFile string) string {
	basename := filepath.Base(audioFile)
	return filepath.Join(
		filepath.Dir(audioFile),
		basename[:len(basename)-len(filepath.Ext(basename))]+".json",
	)
}

func pumpLines(r io.Reader, logf func(string)) {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanLines)
	for scanner.Scan() {
		if logf == nil {
			continue
		}
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			logf(line)
		}
	}
}
