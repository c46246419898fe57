package agenda

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mlenz/topreview/transcript"
)

func makeTranscript(n int) transcript.Transcript {
	t := make(transcript.Transcript, n)
	for i := range t {
		t[i] = transcript.Line{
			Speaker: "SPEAKER_00",
			Text:    string(rune('a' + i)),
			Start:   float64(i),
			End:     float64(i + 1),
		}
	}
	t.Stamp()
	return t
}

func TestLinesForStablePartition(t *testing.T) {
	tr := makeTranscript(6)
	assign := Assignment{0: 1, 1: 0, 3: 1, 4: 0}

	// Concatenating every topic's subsequence plus the unassigned lines and
	// re-sorting by position must reproduce the transcript exactly.
	seen := map[int]int{}
	for _, topic := range []int{0, 1, Unassigned} {
		prev := -1
		for _, line := range LinesFor(topic, tr, assign) {
			if line.Pos <= prev {
				t.Fatalf("topic %d subsequence out of order at pos %d", topic, line.Pos)
			}
			prev = line.Pos
			seen[line.Pos]++
		}
	}

	if len(seen) != len(tr) {
		t.Fatalf("partition covered %d lines, want %d", len(seen), len(tr))
	}
	for pos, count := range seen {
		if count != 1 {
			t.Fatalf("line %d appeared %d times across the partition", pos, count)
		}
	}
}

func TestLinesForEmptyTopic(t *testing.T) {
	tr := makeTranscript(3)

	if got := LinesFor(4, tr, Assignment{}); len(got) != 0 {
		t.Fatalf("LinesFor(4) = %d lines, want empty subsequence", len(got))
	}
}

func TestFilteredIndexOf(t *testing.T) {
	tr := makeTranscript(5)
	assign := Assignment{1: 0, 3: 0}
	filtered := LinesFor(0, tr, assign)

	if got := FilteredIndexOf(filtered, 3); got != 1 {
		t.Errorf("FilteredIndexOf(3) = %d, want 1", got)
	}
	if got := FilteredIndexOf(filtered, 2); got != -1 {
		t.Errorf("FilteredIndexOf(2) = %d, want -1 for a line outside the filter", got)
	}
}

func TestAssignmentMutation(t *testing.T) {
	a := Assignment{}

	if got := a.TopicOf(0); got != Unassigned {
		t.Fatalf("TopicOf on empty map = %d, want Unassigned", got)
	}

	a.Assign(0, 2)
	if got := a.TopicOf(0); got != 2 {
		t.Fatalf("TopicOf(0) = %d after Assign, want 2", got)
	}

	a.Assign(0, Unassigned)
	if got := a.TopicOf(0); got != Unassigned {
		t.Fatalf("TopicOf(0) = %d after clearing, want Unassigned", got)
	}
	if len(a) != 0 {
		t.Fatal("clearing an assignment left an entry behind")
	}
}

func TestLoadTopics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agenda.txt")
	content := "# Tagesordnung\nTOP 1 Haushalt\n\nTOP 2 Bebauungsplan\n   \nTOP 3 Verschiedenes\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	topics, err := LoadTopics(path)
	if err != nil {
		t.Fatalf("LoadTopics: %v", err)
	}

	want := []string{"TOP 1 Haushalt", "TOP 2 Bebauungsplan", "TOP 3 Verschiedenes"}
	if len(topics) != len(want) {
		t.Fatalf("got %d topics, want %d", len(topics), len(want))
	}
	for i, title := range want {
		if topics[i].Title != title {
			t.Errorf("topics[%d] = %q, want %q", i, topics[i].Title, title)
		}
	}
}

func TestLoadTopicsMissingFile(t *testing.T) {
	if _, err := LoadTopics(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Fatal("expected an error for a missing agenda file")
	}
}
