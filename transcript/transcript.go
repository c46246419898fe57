package transcript

import "fmt"

// Line is a single diarized transcript segment. Start and End are seconds
// from the beginning of the recording; a line covers the half-open interval
// [Start, End). Pos is the line's stable position in the full transcript,
// stamped once at load time and carried through filtering and seeks.
type Line struct {
	Pos     int
	Speaker string
	Text    string
	Start   float64
	End     float64
}

// Transcript is an ordered sequence of lines, insertion order chronological.
// It is produced wholesale by a transcriber and treated as immutable for the
// duration of a review session.
type Transcript []Line

// Stamp assigns each line its position in the sequence. Loaders call this
// after building the slice so every downstream lookup can go by Pos instead
// of recovering the index by content identity.
func (t Transcript) Stamp() {
	for i := range t {
		t[i].Pos = i
	}
}

// Duration returns the end time of the last line, in seconds.
func (t Transcript) Duration() float64 {
	if len(t) == 0 {
		return 0
	}
	return t[len(t)-1].End
}

// CharCount returns the total length of all line texts.
func (t Transcript) CharCount() int {
	n := 0
	for _, line := range t {
		n += len(line.Text)
	}
	return n
}

// Timestamp renders the line's time range for display, e.g. "03:25 - 03:31".
func (l Line) Timestamp() string {
	return FormatClock(l.Start) + " - " + FormatClock(l.End)
}

// FormatClock renders seconds as MM:SS, or H:MM:SS past the hour mark.
func FormatClock(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
