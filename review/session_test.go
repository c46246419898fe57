package review

import (
	"testing"
	"time"

	"github.com/mlenz/topreview/agenda"
)

func newTestSession() *Session {
	s := NewSession(
		makeTranscript([2]float64{0, 5}, [2]float64{5, 9}, [2]float64{12, 15}),
		agenda.Assignment{},
	)
	s.seek = NewSeekCoordinator(testGrace)
	return s
}

func TestSessionFollowsPlayback(t *testing.T) {
	s := newTestSession()
	defer s.Dispose()

	if s.State() != StateIdle {
		t.Fatalf("initial state = %v, want StateIdle", s.State())
	}

	steps := []struct {
		at   float64
		want int
	}{
		{2, 0},
		{6, 1},
		{10, NoLine},
		{13, 2},
	}
	for _, step := range steps {
		s.UpdateTime(step.at)
		if got := s.ActiveIndex(); got != step.want {
			t.Fatalf("ActiveIndex() after UpdateTime(%v) = %d, want %d", step.at, got, step.want)
		}
	}

	if s.State() != StateFollowing {
		t.Fatalf("state = %v, want StateFollowing", s.State())
	}
}

func TestSessionUpdateTimeReportsChangesOnly(t *testing.T) {
	s := newTestSession()
	defer s.Dispose()

	if !s.UpdateTime(2) {
		t.Fatal("first UpdateTime(2) reported no change")
	}
	if s.UpdateTime(3) {
		t.Fatal("UpdateTime(3) reported a change while line 0 stayed active")
	}
	if !s.UpdateTime(6) {
		t.Fatal("UpdateTime(6) did not report the change to line 1")
	}
}

func TestSessionSeekPinsImmediately(t *testing.T) {
	s := newTestSession()
	defer s.Dispose()

	s.UpdateTime(6)

	if !s.RequestSeek(2) {
		t.Fatal("RequestSeek(2) rejected")
	}

	// Pinned synchronously, before any timer can have fired.
	if got := s.ActiveIndex(); got != 2 {
		t.Fatalf("ActiveIndex() = %d immediately after seek, want 2", got)
	}
	target, set := s.SeekTarget()
	if !set || target != 12 {
		t.Fatalf("SeekTarget() = %v, %v, want 12, true", target, set)
	}
	if s.State() != StateSeeking {
		t.Fatalf("state = %v, want StateSeeking", s.State())
	}

	// A stale time report must not unpin the index while the target is live.
	s.UpdateTime(6)
	if got := s.ActiveIndex(); got != 2 {
		t.Fatalf("ActiveIndex() = %d after stale time report, want pinned 2", got)
	}

	time.Sleep(testGrace * 2)

	if _, set := s.SeekTarget(); set {
		t.Fatal("seek target still asserted after the grace window")
	}
	if got := s.ActiveIndex(); got != 2 {
		t.Fatalf("ActiveIndex() = %d after retraction, want 2 until the next report", got)
	}
	if s.State() != StateFollowing {
		t.Fatalf("state = %v after retraction, want StateFollowing", s.State())
	}

	// The next time report supersedes the pin again.
	s.UpdateTime(6)
	if got := s.ActiveIndex(); got != 1 {
		t.Fatalf("ActiveIndex() = %d after post-seek report, want 1", got)
	}
}

func TestSessionStaleSeekIsNoOp(t *testing.T) {
	s := newTestSession()
	defer s.Dispose()

	s.UpdateTime(2)

	if s.RequestSeek(99) {
		t.Fatal("RequestSeek(99) accepted an out-of-range position")
	}
	if got := s.ActiveIndex(); got != 0 {
		t.Fatalf("ActiveIndex() = %d after rejected seek, want 0", got)
	}
	if _, set := s.SeekTarget(); set {
		t.Fatal("rejected seek asserted a target")
	}
}

func TestSessionTranscriptReplacement(t *testing.T) {
	s := newTestSession()
	defer s.Dispose()

	s.UpdateTime(13)
	s.RequestSeek(2)

	replacement := makeTranscript([2]float64{0, 3})
	s.SetTranscript(replacement)

	if got := s.ActiveIndex(); got != NoLine {
		t.Fatalf("ActiveIndex() = %d after replacement, want NoLine", got)
	}
	if _, set := s.SeekTarget(); set {
		t.Fatal("seek target survived transcript replacement")
	}

	// Derived state recomputes against the new sequence.
	s.UpdateTime(1)
	if got := s.ActiveIndex(); got != 0 {
		t.Fatalf("ActiveIndex() = %d against replacement transcript, want 0", got)
	}
	if s.RequestSeek(2) {
		t.Fatal("seek to a position beyond the replacement transcript accepted")
	}
}

func TestSessionTopicFilter(t *testing.T) {
	s := newTestSession()
	defer s.Dispose()

	s.SetAssignment(agenda.Assignment{0: 0, 2: 0, 1: 1})

	if got := len(s.Filtered()); got != 3 {
		t.Fatalf("unfiltered pane has %d lines, want 3", got)
	}

	s.SelectTopic(0)
	filtered := s.Filtered()
	if len(filtered) != 2 || filtered[0].Pos != 0 || filtered[1].Pos != 2 {
		t.Fatalf("filtered pane = %+v, want lines 0 and 2 in order", filtered)
	}

	s.ClearTopic()
	if got := len(s.Filtered()); got != 3 {
		t.Fatalf("pane after ClearTopic has %d lines, want 3", got)
	}
}
