package transcript

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	timestampRegex = regexp.MustCompile(`^(\d{2}:)?(\d{2}):(\d{2}\.\d{3}) --> (\d{2}:)?(\d{2}):(\d{2}\.\d{3})`)
	voiceTagRegex  = regexp.MustCompile(`^<v\s+([^>]+)>\s*(.*?)(?:</v>)?$`)
)

// ParseVTT converts WebVTT content into a transcript. Cue text may carry a
// voice tag (<v Speaker>text) for diarized output; lines without one get an
// empty speaker. Both MM:SS.mmm and HH:MM:SS.mmm timestamps are accepted.
// A cue's payload runs until the next blank line; payload lines after the
// first are folded into the same transcript line.
func ParseVTT(content string) (Transcript, error) {
	var (
		t            Transcript
		start, end   float64
		haveInterval bool
		emitted      bool
	)

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)

		if matches := timestampRegex.FindStringSubmatch(line); matches != nil {
			var err error
			start, err = parseCueTime(matches[1], matches[2], matches[3])
			if err != nil {
				return nil, fmt.Errorf("parsing cue start %q: %w", line, err)
			}
			end, err = parseCueTime(matches[4], matches[5], matches[6])
			if err != nil {
				return nil, fmt.Errorf("parsing cue end %q: %w", line, err)
			}
			haveInterval = true
			emitted = false
			continue
		}

		if line == "" {
			haveInterval = false
			emitted = false
			continue
		}

		if strings.HasPrefix(line, "WEBVTT") || strings.HasPrefix(line, "NOTE") {
			continue
		}

		if haveInterval {
			speaker, text := splitVoiceTag(line)
			if text == "" {
				continue
			}
			if emitted {
				t[len(t)-1].Text += " " + text
				continue
			}
			t = append(t, Line{
				Speaker: speaker,
				Text:    text,
				Start:   start,
				End:     end,
			})
			emitted = true
		}
	}

	t.Stamp()
	return t, nil
}

func parseCueTime(hoursPart, minutes, seconds string) (float64, error) {
	hours := 0
	if hoursPart != "" {
		if _, err := fmt.Sscanf(hoursPart, "%d:", &hours); err != nil {
			return 0, err
		}
	}

	var m int
	var s float64
	if _, err := fmt.Sscanf(minutes+":"+seconds, "%d:%f", &m, &s); err != nil {
		return 0, err
	}

	return float64(hours*3600) + float64(m*60) + s, nil
}

func splitVoiceTag(line string) (speaker, text string) {
	if matches := voiceTagRegex.FindStringSubmatch(line); matches != nil {
		return strings.TrimSpace(matches[1]), strings.TrimSpace(matches[2])
	}
	return "", line
}
