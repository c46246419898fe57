package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/zalando/go-keyring"
	"golang.org/x/term"

	"github.com/mlenz/topreview/agenda"
	"github.com/mlenz/topreview/review"
	"github.com/mlenz/topreview/store"
	"github.com/mlenz/topreview/summarize"
	"github.com/mlenz/topreview/telemetry"
	"github.com/mlenz/topreview/transcribe"
	"github.com/mlenz/topreview/transcript"
)

const VERSION = "1.0.0"

func (i item) FilterValue() string { return i.line.Text }

func (d itemDelegate) Height() int                             { return 2 }
func (d itemDelegate) Spacing() int                            { return 0 }
func (d itemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(item)
	if !ok {
		return
	}

	meta := i.line.Timestamp()
	if i.line.Speaker != "" {
		meta += "  " + i.line.Speaker
	}
	if i.topicTag != "" {
		meta += "  " + TopicStyle.Render(i.topicTag)
	}
	timestampLine := TimestampStyle.Render(meta)

	marker := " "
	if i.active {
		marker = "▶"
	}
	str := fmt.Sprintf("%s %s", marker, i.line.Text)

	fn := ItemStyle.Render
	if i.active {
		fn = ActiveItemStyle.Render
	}
	if index == m.Index() {
		fn = func(s ...string) string {
			return SelectedItemStyle.Render("> " + strings.Join(s, " "))
		}
	}

	fmt.Fprintf(w, "%s\n%s\n", timestampLine, fn(str))
}

// refreshTranscript rebuilds the visible pane from the session's filtered
// sequence, picking up active-line and assignment changes.
func (m model) refreshTranscript() model {
	m.list.SetItems(transcriptItems(m.session, m.topics))
	return m
}

// applyTopic switches the pane to the current topic filter and lets
// auto-scroll re-center the active line if it belongs to the new filter.
func (m model) applyTopic() model {
	if m.topicIdx < 0 {
		m.session.ClearTopic()
	} else {
		m.session.SelectTopic(m.topicIdx)
	}

	m.list.ResetFilter()
	m = m.refreshTranscript()
	if pos, ok := m.session.ScrollTarget(); ok {
		m.list.Select(pos)
	} else {
		m.list.Select(0)
	}
	return m
}

func (m model) selectedLine() (transcript.Line, bool) {
	filtered := m.session.Filtered()
	i := m.list.Index()
	if i < 0 || i >= len(filtered) {
		return transcript.Line{}, false
	}
	return filtered[i], true
}

func (m model) Init() tea.Cmd {
	if m.loading {
		// Start the spinner and begin audio extraction
		return tea.Batch(
			m.spinner.Tick,
			extractAudioCmd(m.inputFile),
		)
	}
	// Transcript came from the cache; start the playback clock right away
	return tickCmd()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			if m.session != nil {
				m.session.Dispose()
			}
			return m, tea.Quit

		case " ":
			if m.session != nil {
				m.playing = !m.playing
			}
			return m, nil

		case "enter":
			if m.session != nil {
				if line, ok := m.selectedLine(); ok {
					if m.session.RequestSeek(line.Pos) {
						// The playback surface observes the asserted target
						// and repositions before the grace window clears it.
						if target, ok := m.session.SeekTarget(); ok {
							m.clock = target
						}
						m = m.refreshTranscript()
					}
				}
			}
			return m, nil

		case "tab":
			if m.session != nil && len(m.topics) > 0 {
				m.topicIdx++
				if m.topicIdx >= len(m.topics) {
					m.topicIdx = -1
				}
				m = m.applyTopic()
			}
			return m, nil

		case "shift+tab":
			if m.session != nil && len(m.topics) > 0 {
				m.topicIdx--
				if m.topicIdx < -1 {
					m.topicIdx = len(m.topics) - 1
				}
				m = m.applyTopic()
			}
			return m, nil

		case "a":
			if m.session != nil {
				enabled := !m.session.AutoScroll()
				m.session.SetAutoScroll(enabled)
				if enabled {
					if pos, ok := m.session.ScrollTarget(); ok {
						m.list.Select(pos)
					}
				}
			}
			return m, nil

		case "s":
			if m.session != nil && m.topicIdx >= 0 && !m.summarizing {
				topic := m.topics[m.topicIdx].Title
				lines := agenda.LinesFor(m.topicIdx, m.session.Transcript(), m.assign)
				if len(lines) > 0 {
					m.summarizing = true
					m.summaryFor = topic
					m.summarizeFrom = time.Now()
					return m, tea.Batch(
						m.spinner.Tick,
						summarizeCmd(m.llm, topic, lines),
					)
				}
			}
			return m, nil

		case "p":
			if m.session != nil {
				if line, ok := m.selectedLine(); ok {
					go previewRecording(m.inputFile, line.Start)
				}
			}
			return m, nil

		case "u":
			if m.session != nil {
				if line, ok := m.selectedLine(); ok {
					m.assign.Assign(line.Pos, agenda.Unassigned)
					m = m.refreshTranscript()
				}
			}
			return m, nil

		case "1", "2", "3", "4", "5", "6", "7", "8", "9":
			if m.session != nil {
				topic := int(msg.String()[0] - '1')
				if topic < len(m.topics) {
					if line, ok := m.selectedLine(); ok {
						m.assign.Assign(line.Pos, topic)
						m = m.refreshTranscript()
					}
				}
			}
			return m, nil
		}

		// If not loading, pass to list
		if !m.loading {
			var cmd tea.Cmd
			m.list, cmd = m.list.Update(msg)
			return m, cmd
		}

	case tickMsg:
		if m.session == nil {
			return m, nil
		}

		// The playback clock consumes a live seek target instead of
		// advancing on its own, so a seek is never raced by the clock.
		if target, ok := m.session.SeekTarget(); ok {
			m.clock = target
		} else if m.playing {
			m.clock += tickInterval.Seconds()
		}

		if m.session.UpdateTime(m.clock) {
			m = m.refreshTranscript()
			if pos, ok := m.session.ScrollTarget(); ok {
				m.list.Select(pos)
			}
		}
		return m, tickCmd()

	case audioExtractedMsg:
		m.statuses = append(m.statuses, "Audio ready for transcription.")
		m.logTrail = false
		m.loadingMsg = "Transcribing recording..."
		m.transcribeFrom = time.Now()
		return m, transcribeCmd(m.backend, msg.audioFile, m.db, m.recordingID)

	case transcribeLogMsg:
		if !m.loading {
			return m, nil
		}
		// Keep a single rolling line of transcriber output in the status
		// trail instead of one entry per progress line.
		if m.logTrail && len(m.statuses) > 0 {
			m.statuses[len(m.statuses)-1] = msg.line
		} else {
			m.statuses = append(m.statuses, msg.line)
			m.logTrail = true
		}
		return m, nil

	case transcriptReadyMsg:
		m.statuses = append(m.statuses, "Transcription finished and cached.")
		m.logTrail = false
		m.loading = false
		m.session = review.NewSession(msg.lines, m.assign)
		m.list = newTranscriptList(transcriptItems(m.session, m.topics))
		if m.metrics != nil && !m.transcribeFrom.IsZero() {
			m.metrics.SetTranscriptionMetrics(
				msg.lines.Duration(),
				time.Since(m.transcribeFrom).Seconds(),
				len(msg.lines),
				msg.lines.CharCount(),
			)
			m.metrics.Send()
		}
		return m, tickCmd()

	case summaryDoneMsg:
		m.summarizing = false
		m.summary = msg.summary
		m.summaryFor = msg.topic
		if m.metrics != nil && !m.summarizeFrom.IsZero() {
			m.metrics.SetSummarizationMetrics(
				m.llm.Model,
				len(m.topics),
				time.Since(m.summarizeFrom).Seconds(),
				len(msg.summary),
			)
			m.metrics.Send()
		}
		return m, nil

	case errorMsg:
		if m.metrics != nil && m.loading {
			m.metrics.SetError(msg.err.Error())
			m.metrics.Send()
		}
		m.statuses = append(m.statuses, msg.err.Error())
		m.logTrail = false
		m.loading = false
		m.summarizing = false
		m.errorMsg = msg.err.Error()
		return m, nil

	case spinner.TickMsg:
		if m.loading || m.summarizing {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	return m, nil
}

func (m model) View() string {
	if m.quitting {
		return styleOutput(m.statuses)
	}

	if m.errorMsg != "" {
		return styleOutput(m.statuses) + "\nPress 'q' to quit"
	} else if m.loading {
		loadingText := fmt.Sprintf("%s%s", m.spinner.View(), m.loadingMsg)
		if len(m.statuses) > 0 {
			return styleOutput(m.statuses) + loadingText
		}
		return loadingText
	}

	lines := m.session.Transcript()
	if len(lines) == 0 {
		return styleOutput(m.statuses) + "No transcript lines found"
	}

	playIcon := "⏸"
	if m.playing {
		playIcon = "▶"
	}

	topicLabel := "all lines"
	if m.topicIdx >= 0 {
		topicLabel = fmt.Sprintf("TOP %d/%d: %s", m.topicIdx+1, len(m.topics), m.topics[m.topicIdx].Title)
	}

	autoScroll := "off"
	if m.session.AutoScroll() {
		autoScroll = "on"
	}

	header := HeaderStyle.Render(fmt.Sprintf(
		"%s %s / %s | %s | auto-scroll %s",
		playIcon,
		transcript.FormatClock(m.clock),
		transcript.FormatClock(lines.Duration()),
		topicLabel,
		autoScroll,
	)) + "\n"

	out := styleOutput(m.statuses) + header + m.list.View()

	if m.summarizing {
		out += "\n" + m.spinner.View() + "Summarizing " + m.summaryFor + "..."
	} else if m.summary != "" {
		out += "\n" + TitleStyle.Render("Summary: "+m.summaryFor) + "\n" + SummaryStyle.Render(m.summary)
	}

	return out
}

func main() {
	fmt.Println(BulletStyle.Render("┌") + TitleStyle.Render("topreview"))

	var agendaFile string
	var lang string
	var prompt string
	var backendName string
	var whisperModel string
	var dbPath string
	var help bool
	var version bool

	flag.StringVar(&agendaFile, "agenda", "", "Agenda file with one TOP title per line")
	flag.StringVar(&lang, "lang", "auto", "Language for transcription (e.g. en, de, fr)")
	flag.StringVar(&prompt, "prompt", "", "Optional prompt used to create a more accurate transcription")
	flag.StringVar(&backendName, "backend", "openai", "Transcription backend: openai or whisperx")
	flag.StringVar(&whisperModel, "model", "", "Model for the whisperx backend (e.g. large-v2)")
	flag.StringVar(&dbPath, "db", "", "Path of the transcript cache database")
	flag.BoolVar(&help, "help", false, "Show usage info")
	flag.BoolVar(&version, "version", false, "Show version info")
	flag.Usage = func() {
		fmt.Println(BulletStyle.Render("├") + TextStyle.Render("Usage: topreview [options] <recording>"))
		fmt.Println(BulletStyle.Render("│"))
		fmt.Println(BulletStyle.Render("├") + TextStyle.Render("Options:"))
		fmt.Println(BulletStyle.Render("├────") + TextStyle.Render("--agenda") + DimTextStyle.Render("   agenda file with one TOP title per line"))
		fmt.Println(BulletStyle.Render("├────") + TextStyle.Render("--lang") + DimTextStyle.Render("     language for transcription (e.g. en, de, fr)"))
		fmt.Println(BulletStyle.Render("├────") + TextStyle.Render("--prompt") + DimTextStyle.Render("   optional prompt used to create a more accurate transcription"))
		fmt.Println(BulletStyle.Render("├────") + TextStyle.Render("--backend") + DimTextStyle.Render("  transcription backend: openai or whisperx"))
		fmt.Println(BulletStyle.Render("├────") + TextStyle.Render("--db") + DimTextStyle.Render("       path of the transcript cache database"))
		fmt.Println(BulletStyle.Render("│"))
		fmt.Println(BulletStyle.Render("├") + TextStyle.Render("Requirements:"))

		dependencies := []string{"ffmpeg", "mpv"}
		for _, dependency := range dependencies {
			status := "✔ installed"
			if !transcribe.CheckDependency(dependency) {
				status = "✗ missing"
			}
			spaces := strings.Repeat(" ", 10-len(dependency))
			fmt.Println(BulletStyle.Render("├────") + TextStyle.Render(dependency) + DimTextStyle.Render(spaces+status))
		}

		fmt.Println(BulletStyle.Render("│"))
		fmt.Println(BulletStyle.Render("└") + TextStyle.Render("Supported formats:") + DimTextStyle.Render(" .mp4, .avi, .mov, .mkv, .m4v, .mp3, .wav, .m4a"))
	}

	godotenv.Load()
	flag.Parse()

	if help {
		flag.Usage()
		os.Exit(0)
	}

	if version {
		fmt.Println(BulletStyle.Render("└") + TextStyle.Render(VERSION))
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) != 1 {
		flag.Usage()
		os.Exit(0)
	}

	// Validate the file exists
	inputFile := args[0]
	if inputFile == "help" {
		flag.Usage()
		os.Exit(0)
	}

	if _, err := os.Stat(inputFile); os.IsNotExist(err) {
		fmt.Printf(BulletStyle.Render("└")+TextStyle.Render("Error: file '%s' does not exist.")+"\n", inputFile)
		os.Exit(1)
	}

	fileExt := strings.ToLower(filepath.Ext(inputFile))
	if !slices.Contains(videoExtensions, fileExt) && !slices.Contains(audioExtensions, fileExt) {
		fmt.Printf(BulletStyle.Render("└")+TextStyle.Render("Error: file '%s' is not a supported recording.")+"\n", inputFile)
		os.Exit(1)
	}

	// The OpenAI backend needs an API key; check keyring, then prompt
	if backendName == "openai" {
		ensureAPIKey()
	}

	var topics []agenda.Topic
	if agendaFile != "" {
		var err error
		topics, err = agenda.LoadTopics(agendaFile)
		if err != nil {
			fmt.Println(BulletStyle.Render("└") + TextStyle.Render("Error reading agenda: "+err.Error()))
			os.Exit(1)
		}
	}

	if dbPath == "" {
		dbPath = os.Getenv("TOPREVIEW_DB")
	}
	if dbPath == "" {
		dbPath = "topreview.db"
	}

	db, err := store.Open(dbPath)
	if err != nil {
		fmt.Println(BulletStyle.Render("└") + TextStyle.Render("Error opening cache: "+err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	f, err := os.Open(inputFile)
	if err != nil {
		fmt.Println(BulletStyle.Render("└") + TextStyle.Render("Error reading recording: "+err.Error()))
		os.Exit(1)
	}
	hash, err := store.HashFile(f)
	f.Close()
	if err != nil {
		fmt.Println(BulletStyle.Render("└") + TextStyle.Render("Error hashing recording: "+err.Error()))
		os.Exit(1)
	}

	rec, err := db.CreateRecording(context.Background(), filepath.Base(inputFile), hash)
	if err != nil {
		fmt.Println(BulletStyle.Render("└") + TextStyle.Render("Error registering recording: "+err.Error()))
		os.Exit(1)
	}

	// Declared ahead of the backend so the whisperx log callback can feed
	// progress lines back into the running program.
	var p *tea.Program

	metrics := telemetry.NewFromEnv(VERSION)

	var backend transcribe.Transcriber
	switch backendName {
	case "whisperx":
		backend = transcribe.Whisperx{
			Model:    whisperModel,
			Language: lang,
			Log: func(line string) {
				if p != nil {
					p.Send(transcribeLogMsg{line: line})
				}
			},
		}
		metrics.SetTranscribeConfig("whisperx", whisperModel)
	default:
		backend = transcribe.OpenAIWhisper{
			APIKey:   os.Getenv("OPENAI_API_KEY"),
			Language: lang,
			Prompt:   prompt,
		}
		metrics.SetTranscribeConfig("openai", "whisper-1")
	}

	// Initialize spinner
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	assign := agenda.Assignment{}

	// Create initial model
	initialModel := model{
		spinner:     s,
		loading:     true,
		loadingMsg:  "Extracting audio with ffmpeg...",
		inputFile:   inputFile,
		topics:      topics,
		assign:      assign,
		topicIdx:    -1,
		llm:         summarize.NewFromEnv(),
		db:          db,
		recordingID: rec.ID,
		backend:     backend,
		metrics:     metrics,
	}

	// Check if a finished transcript is already cached for this content
	if rec.IsTranscribed {
		_, lines, err := db.LoadByHash(context.Background(), hash)
		if err != nil {
			fmt.Fprintf(os.Stderr, BulletStyle.Render("└")+TextStyle.Render("There was a problem loading the cached transcript: %v")+"\n", err)
			os.Exit(1)
		}

		initialModel.loading = false
		initialModel.session = review.NewSession(lines, assign)
		initialModel.list = newTranscriptList(transcriptItems(initialModel.session, topics))
		initialModel.statuses = append(initialModel.statuses, "Transcript already cached for this recording")
	}

	// Create and run the program
	p = tea.NewProgram(
		initialModel,
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running program: %v", err)
	}
}

// ensureAPIKey loads OPENAI_API_KEY from the system keyring, prompting once
// and remembering the key when none is stored.
func ensureAPIKey() {
	username := getSystemUser()

	apiKey, err := keyring.Get("topreview", username)
	if err != nil {
		if !strings.Contains(err.Error(), "secret not found") {
			fmt.Println("Error reading API key:", err)
			return
		}
	}

	if apiKey != "" {
		os.Setenv("OPENAI_API_KEY", apiKey)
		fmt.Println(BulletStyle.Render("├") + TextStyle.Render("API key set for this session."))
	}

	if os.Getenv("OPENAI_API_KEY") == "" {
		fmt.Print(BulletStyle.Render("├") + TextStyle.Render("OPENAI_API_KEY not found, enter one: "))

		byteApiKey, err := term.ReadPassword(int(syscall.Stdin))
		if err != nil {
			fmt.Println("Error reading API key:", err)
			return
		}

		fmt.Println()
		apiKey := strings.TrimSpace(string(byteApiKey))

		if apiKey == "" {
			fmt.Println(BulletStyle.Render("└") + TextStyle.Render("An OpenAI API key is required to proceed."))
			os.Exit(1)
		}

		err = keyring.Set("topreview", username, apiKey)
		if err != nil {
			fmt.Println("Error saving API key:", err)
			return
		}

		os.Setenv("OPENAI_API_KEY", apiKey)
		fmt.Println(BulletStyle.Render("├") + TextStyle.Render("API key set for this session."))
	}
}
