// Package agenda models the meeting's agenda topics (TOPs) and the
// assignment of transcript lines to them.
package agenda

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/mlenz/topreview/transcript"
)

// Unassigned marks a line that belongs to no topic.
const Unassigned = -1

// Topic is a single agenda item.
type Topic struct {
	Title string
}

// Assignment maps a transcript line's position to a topic index. Lines
// absent from the map are unassigned. The map is owned by the review
// session and mutated by the assignment UI; the filter only reads it.
type Assignment map[int]int

// TopicOf returns the topic index assigned to the line at pos, or
// Unassigned.
func (a Assignment) TopicOf(pos int) int {
	if topic, ok := a[pos]; ok {
		return topic
	}
	return Unassigned
}

// Assign binds the line at pos to a topic. Assigning Unassigned clears the
// binding.
func (a Assignment) Assign(pos, topic int) {
	if topic == Unassigned {
		delete(a, pos)
		return
	}
	a[pos] = topic
}

// LoadTopics reads an agenda file with one topic title per line. Blank
// lines and lines starting with # are skipped.
func LoadTopics(path string) ([]Topic, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening agenda file: %w", err)
	}
	defer f.Close()

	var topics []Topic
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		title := strings.TrimSpace(scanner.Text())
		if title == "" || strings.HasPrefix(title, "#") {
			continue
		}
		topics = append(topics, Topic{Title: title})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading agenda file: %w", err)
	}

	return topics, nil
}

// LinesFor returns the lines assigned to topic, in original transcript
// order, no line duplicated or reordered. Pass Unassigned to get the lines
// belonging to no topic. The result is a pure view over the two inputs and
// must be re-derived whenever either changes.
func LinesFor(topic int, t transcript.Transcript, a Assignment) transcript.Transcript {
	var filtered transcript.Transcript
	for _, line := range t {
		if a.TopicOf(line.Pos) == topic {
			filtered = append(filtered, line)
		}
	}
	return filtered
}

// FilteredIndexOf resolves a global line position to its index within a
// filtered subsequence, or -1 when the line is not part of it.
func FilteredIndexOf(filtered transcript.Transcript, pos int) int {
	for i, line := range filtered {
		if line.Pos == pos {
			return i
		}
	}
	return -1
}
