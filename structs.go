package main

import (
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"

	"github.com/mlenz/topreview/agenda"
	"github.com/mlenz/topreview/review"
	"github.com/mlenz/topreview/store"
	"github.com/mlenz/topreview/summarize"
	"github.com/mlenz/topreview/telemetry"
	"github.com/mlenz/topreview/transcribe"
	"github.com/mlenz/topreview/transcript"
)

type audioExtractedMsg struct {
	audioFile string
}

type transcriptReadyMsg struct {
	lines transcript.Transcript
}

type summaryDoneMsg struct {
	topic   string
	summary string
}

type transcribeLogMsg struct {
	line string
}

type errorMsg struct {
	err error
}

type tickMsg time.Time

type model struct {
	spinner     spinner.Model
	loading     bool
	loadingMsg  string
	list        list.Model
	quitting    bool
	inputFile   string
	errorMsg    string
	statuses    []string
	session     *review.Session
	topics      []agenda.Topic
	assign      agenda.Assignment
	topicIdx    int // -1 shows the full transcript
	playing     bool
	clock       float64
	summary     string
	summaryFor  string
	summarizing bool
	llm         summarize.Client
	db          *store.Store
	recordingID int64
	backend     transcribe.Transcriber

	metrics        *telemetry.Collector
	transcribeFrom time.Time
	summarizeFrom  time.Time
	logTrail       bool // last status line is transcriber output, roll it in place
}

type item struct {
	line     transcript.Line
	topicTag string
	active   bool
}

type itemDelegate struct{}
