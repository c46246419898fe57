package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mlenz/topreview/agenda"
	"github.com/mlenz/topreview/review"
	"github.com/mlenz/topreview/store"
	"github.com/mlenz/topreview/summarize"
	"github.com/mlenz/topreview/transcribe"
	"github.com/mlenz/topreview/transcript"
)

// tickInterval is the playback surface's natural reporting rate, roughly
// what a browser media element would deliver.
const tickInterval = 250 * time.Millisecond

var (
	videoExtensions = []string{".mp4", ".avi", ".mov", ".mkv", ".m4v"}
	audioExtensions = []string{".mp3", ".wav", ".m4a"}
)

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func extractAudioCmd(inputFile string) tea.Cmd {
	return func() tea.Msg {
		// Audio inputs go straight to transcription.
		if slices.Contains(audioExtensions, strings.ToLower(filepath.Ext(inputFile))) {
			return audioExtractedMsg{audioFile: inputFile}
		}

		audioFile, err := transcribe.ExtractAudio(inputFile)
		if err != nil {
			return errorMsg{err: err}
		}
		return audioExtractedMsg{audioFile: audioFile}
	}
}

func transcribeCmd(backend transcribe.Transcriber, audioFile string, db *store.Store, recordingID int64) tea.Cmd {
	return func() tea.Msg {
		lines, err := backend.Transcribe(context.Background(), audioFile)
		if err != nil {
			return errorMsg{err: err}
		}

		if err := db.SaveTranscript(context.Background(), recordingID, lines); err != nil {
			return errorMsg{err: err}
		}

		return transcriptReadyMsg{lines: lines}
	}
}

func summarizeCmd(llm summarize.Client, topTitle string, lines transcript.Transcript) tea.Cmd {
	return func() tea.Msg {
		summary, err := llm.Summarize(context.Background(), topTitle, lines)
		if err != nil {
			return errorMsg{err: err}
		}
		return summaryDoneMsg{topic: topTitle, summary: summary}
	}
}

func previewRecording(inputFile string, start float64) {
	cmd := exec.Command("mpv", fmt.Sprintf("--start=%.3f", start), inputFile)
	cmd.Run()
}

// transcriptItems builds the list items for the session's filtered pane,
// tagging each line with its TOP and marking the active line.
func transcriptItems(session *review.Session, topics []agenda.Topic) []list.Item {
	filtered := session.Filtered()
	active := session.ActiveIndex()

	items := make([]list.Item, len(filtered))
	for i, line := range filtered {
		tag := ""
		if topic := session.Assignment().TopicOf(line.Pos); topic != agenda.Unassigned && topic < len(topics) {
			tag = fmt.Sprintf("TOP %d", topic+1)
		}
		items[i] = item{
			line:     line,
			topicTag: tag,
			active:   line.Pos == active,
		}
	}
	return items
}

func newTranscriptList(items []list.Item) list.Model {
	l := list.New(items, itemDelegate{}, 64, 16)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(true)
	l.SetShowPagination(false)

	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{
			key.NewBinding(
				key.WithKeys(" "),
				key.WithHelp("space", "play/pause"),
			),
			key.NewBinding(
				key.WithKeys("enter"),
				key.WithHelp("enter", "jump here"),
			),
			key.NewBinding(
				key.WithKeys("tab"),
				key.WithHelp("tab", "next TOP"),
			),
			key.NewBinding(
				key.WithKeys("a"),
				key.WithHelp("a", "auto-scroll"),
			),
			key.NewBinding(
				key.WithKeys("s"),
				key.WithHelp("s", "summarize TOP"),
			),
			key.NewBinding(
				key.WithKeys("p"),
				key.WithHelp("p", "preview"),
			),
		}
	}

	return l
}

func styleOutput(statuses []string) string {
	var styledStatuses []string
	for i, status := range statuses {
		bullet := "├"
		if i == len(statuses)-1 {
			bullet = "└"
		}
		styledStatuses = append(styledStatuses, BulletStyle.Render(bullet)+TextStyle.Render(status))
	}
	return strings.Join(styledStatuses, "\n") + "\n"
}

func getSystemUser() string {
	username := os.Getenv("USER")
	if username == "" {
		username = os.Getenv("USERNAME") // Windows fallback
	}
	if username == "" {
		username = "anon" // Default fallback
	}

	return username
}
