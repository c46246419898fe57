// Package review keeps the playback clock, the transcript timeline, and
// user-initiated seeks consistent for a single review session.
package review

import "github.com/mlenz/topreview/transcript"

// NoLine is the active-index value when the playback time falls outside
// every transcript segment.
const NoLine = -1

// Locate returns the position of the first line whose interval contains
// the given time, under half-open semantics: a line is active for
// [Start, End), so a sample exactly at End belongs to the next line or to
// nobody. Times falling in a gap between segments return NoLine, which is
// a normal outcome rather than an error.
//
// The scan is linear on purpose: transcripts run tens to low hundreds of
// lines, and a first-match scan keeps the document-order tie-break for
// malformed, overlapping input without any extra machinery.
func Locate(t transcript.Transcript, at float64) int {
	for i, line := range t {
		if line.Start <= at && at < line.End {
			return i
		}
	}
	return NoLine
}
