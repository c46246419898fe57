package transcript

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

type (
	whisperxResult struct {
		Segments []whisperxSegment `json:"segments"`
	}

	whisperxSegment struct {
		Speaker string          `json:"speaker"`
		Text    string          `json:"text"`
		Start   decimal.Decimal `json:"start"`
		End     decimal.Decimal `json:"end"`
	}
)

// ParseWhisperxJSON decodes the JSON result file whisperx writes next to the
// audio input. Timestamps come in as decimal seconds and are kept exact until
// the final float conversion. Segments with empty text are dropped.
func ParseWhisperxJSON(r io.Reader) (Transcript, error) {
	var result whisperxResult
	if err := json.NewDecoder(r).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding whisperx json result: %w", err)
	}

	t := make(Transcript, 0, len(result.Segments))
	for _, s := range result.Segments {
		text := strings.TrimSpace(s.Text)
		if text == "" {
			continue
		}
		speaker := s.Speaker
		if speaker == "" {
			speaker = "UNKNOWN"
		}
		t = append(t, Line{
			Speaker: speaker,
			Text:    text,
			Start:   s.Start.InexactFloat64(),
			End:     s.End.InexactFloat64(),
		})
	}

	t.Stamp()
	return t, nil
}
