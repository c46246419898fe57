package review

import (
	"github.com/mlenz/topreview/agenda"
	"github.com/mlenz/topreview/transcript"
)

// State describes where the session's synchronization machine currently is.
type State int

const (
	// StateIdle: no active line and no pending seek.
	StateIdle State = iota
	// StateFollowing: the active line is driven by playback time updates.
	StateFollowing
	// StateSeeking: the active line is pinned by a user seek request and a
	// seek target is live until the grace window expires.
	StateSeeking
)

// Session owns the derived synchronization state for one review: the active
// line index, the selected topic filter, the auto-scroll preference, and the
// seek hand-off. The transcript and assignment map are read-only here; both
// can be replaced wholesale by their owners, after which all derived state is
// recomputed from scratch.
//
// All methods are meant to be driven from a single event loop (time updates,
// user input, and the grace-window timer); only the seek coordinator guards
// itself against its timer callback.
type Session struct {
	lines      transcript.Transcript
	assign     agenda.Assignment
	topic      int
	hasTopic   bool
	active     int
	autoScroll bool
	seek       *SeekCoordinator
}

// NewSession starts a session over a transcript and an assignment map.
// Auto-scroll starts enabled; no topic filter is selected.
func NewSession(t transcript.Transcript, a agenda.Assignment) *Session {
	return &Session{
		lines:      t,
		assign:     a,
		active:     NoLine,
		autoScroll: true,
		seek:       NewSeekCoordinator(DefaultGraceWindow),
	}
}

// State derives the machine state; it is never stored separately.
func (s *Session) State() State {
	switch {
	case s.seek.Pending():
		return StateSeeking
	case s.active == NoLine:
		return StateIdle
	default:
		return StateFollowing
	}
}

// UpdateTime feeds a playback time report into the session and returns
// whether the active line changed, so the host can skip redundant scroll and
// render churn. While a seek target is live the pinned index holds: a stale
// time report racing the seek must not unpin it. The first report after the
// grace window expires supersedes the pin again.
func (s *Session) UpdateTime(at float64) bool {
	if s.seek.Pending() {
		return false
	}
	idx := Locate(s.lines, at)
	if idx == s.active {
		return false
	}
	s.active = idx
	return true
}

// RequestSeek pins the line at pos as active immediately, without waiting
// for the next time report, and asserts the line's start as the seek target.
// A position that no longer exists in the transcript (a stale UI callback
// after wholesale replacement) is ignored.
func (s *Session) RequestSeek(pos int) bool {
	if pos < 0 || pos >= len(s.lines) {
		return false
	}
	s.active = pos
	s.seek.Request(s.lines[pos].Start)
	return true
}

// SeekTarget exposes the live seek target for the playback surface, which
// repositions itself whenever it observes a set value.
func (s *Session) SeekTarget() (float64, bool) {
	return s.seek.Target()
}

// ActiveIndex returns the active line's global position, or NoLine.
func (s *Session) ActiveIndex() int {
	return s.active
}

// ActiveLine returns the active line, if any.
func (s *Session) ActiveLine() (transcript.Line, bool) {
	if s.active == NoLine || s.active >= len(s.lines) {
		return transcript.Line{}, false
	}
	return s.lines[s.active], true
}

// SetTranscript replaces the transcript wholesale (e.g. after
// re-transcription) and recomputes derived state from scratch: the active
// index resets and any pending seek is cancelled rather than pointing into
// the old sequence.
func (s *Session) SetTranscript(t transcript.Transcript) {
	s.lines = t
	s.active = NoLine
	s.seek.Dispose()
}

// Transcript returns the full line sequence the session operates on.
func (s *Session) Transcript() transcript.Transcript {
	return s.lines
}

// SetAssignment swaps in a new assignment map.
func (s *Session) SetAssignment(a agenda.Assignment) {
	s.assign = a
}

// Assignment returns the assignment map the filter reads.
func (s *Session) Assignment() agenda.Assignment {
	return s.assign
}

// SelectTopic narrows the visible transcript pane to one topic's lines.
func (s *Session) SelectTopic(topic int) {
	s.topic = topic
	s.hasTopic = true
}

// ClearTopic shows the full transcript again.
func (s *Session) ClearTopic() {
	s.hasTopic = false
}

// Topic returns the selected topic filter, if one is active.
func (s *Session) Topic() (int, bool) {
	return s.topic, s.hasTopic
}

// Filtered returns the lines the transcript pane should show: the whole
// transcript without a topic filter, otherwise the selected topic's stable
// subsequence. Re-derived on every call, never cached.
func (s *Session) Filtered() transcript.Transcript {
	if !s.hasTopic {
		return s.lines
	}
	return agenda.LinesFor(s.topic, s.lines, s.assign)
}

// SetAutoScroll toggles the auto-scroll preference.
func (s *Session) SetAutoScroll(enabled bool) {
	s.autoScroll = enabled
}

// AutoScroll reports the auto-scroll preference.
func (s *Session) AutoScroll() bool {
	return s.autoScroll
}

// ScrollTarget resolves the active line to a position inside the filtered
// pane to center, honoring the auto-scroll preference.
func (s *Session) ScrollTarget() (int, bool) {
	return ScrollPosition(s.autoScroll, s.active, s.Filtered())
}

// Dispose releases the session's only owned resource, the grace-window
// timer. Safe to call more than once.
func (s *Session) Dispose() {
	s.seek.Dispose()
}
