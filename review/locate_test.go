package review

import (
	"fmt"
	"testing"

	"github.com/mlenz/topreview/transcript"
)

func makeTranscript(spans ...[2]float64) transcript.Transcript {
	t := make(transcript.Transcript, len(spans))
	for i, s := range spans {
		t[i] = transcript.Line{
			Speaker: fmt.Sprintf("SPEAKER_%02d", i%2),
			Text:    fmt.Sprintf("line %d", i),
			Start:   s[0],
			End:     s[1],
		}
	}
	t.Stamp()
	return t
}

func TestLocate(t *testing.T) {
	gapped := makeTranscript([2]float64{0, 5}, [2]float64{5, 9}, [2]float64{12, 15})

	tests := []struct {
		name string
		t    transcript.Transcript
		at   float64
		want int
	}{
		{"inside first line", gapped, 2, 0},
		{"inside second line", gapped, 6, 1},
		{"in a gap", gapped, 10, NoLine},
		{"inside line after gap", gapped, 13, 2},
		{"exactly at a start", gapped, 5, 1},
		{"exactly at a gapped end", gapped, 9, NoLine},
		{"exactly at the last end", gapped, 15, NoLine},
		{"before everything", gapped, -1, NoLine},
		{"after everything", gapped, 100, NoLine},
		{"empty transcript", makeTranscript(), 3, NoLine},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Locate(tt.t, tt.at); got != tt.want {
				t.Errorf("Locate(%v) = %d, want %d", tt.at, got, tt.want)
			}
		})
	}
}

func TestLocateOverlapFirstMatchWins(t *testing.T) {
	// Overlapping segments are malformed input; document order breaks the tie.
	overlapping := makeTranscript([2]float64{0, 10}, [2]float64{5, 15})

	if got := Locate(overlapping, 7); got != 0 {
		t.Errorf("Locate(7) = %d, want first matching line 0", got)
	}
	if got := Locate(overlapping, 12); got != 1 {
		t.Errorf("Locate(12) = %d, want 1", got)
	}
}

func TestLocateIdempotent(t *testing.T) {
	tr := makeTranscript([2]float64{0, 5}, [2]float64{5, 9})

	first := Locate(tr, 6)
	for i := 0; i < 5; i++ {
		if got := Locate(tr, 6); got != first {
			t.Fatalf("repeated Locate(6) = %d, want %d", got, first)
		}
	}
}
