package review

import (
	"github.com/mlenz/topreview/agenda"
	"github.com/mlenz/topreview/transcript"
)

// ScrollPosition decides whether the rendered transcript pane should bring
// a line into view, and which filtered-view index to center. It is a no-op
// (false) when auto-scroll is disabled, when no line is active, or when the
// active line does not belong to the currently filtered sequence — the
// reviewer's manual scrolling is never fought.
func ScrollPosition(enabled bool, active int, filtered transcript.Transcript) (int, bool) {
	if !enabled || active == NoLine {
		return 0, false
	}
	i := agenda.FilteredIndexOf(filtered, active)
	if i < 0 {
		return 0, false
	}
	return i, true
}
