package transcript

import "testing"

const sampleVTT = `WEBVTT

00:00.000 --> 00:05.000
<v SPEAKER_00>Ich eröffne die Sitzung.

00:05.000 --> 00:09.000
<v SPEAKER_01>Danke, zur Tagesordnung.

NOTE internal cue comment

00:00:12.000 --> 00:00:15.000
Ohne Sprecherangabe.
`

func TestParseVTT(t *testing.T) {
	lines, err := ParseVTT(sampleVTT)
	if err != nil {
		t.Fatalf("ParseVTT: %v", err)
	}

	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}

	want := []Line{
		{Pos: 0, Speaker: "SPEAKER_00", Text: "Ich eröffne die Sitzung.", Start: 0, End: 5},
		{Pos: 1, Speaker: "SPEAKER_01", Text: "Danke, zur Tagesordnung.", Start: 5, End: 9},
		{Pos: 2, Speaker: "", Text: "Ohne Sprecherangabe.", Start: 12, End: 15},
	}
	for i, w := range want {
		if lines[i] != w {
			t.Errorf("lines[%d] = %+v, want %+v", i, lines[i], w)
		}
	}
}

func TestParseVTTMultilineCue(t *testing.T) {
	const vtt = `WEBVTT

00:00.000 --> 00:06.000
<v SPEAKER_00>Der Haushaltsplan wurde geprüft
und ohne Einwände angenommen.

00:06.000 --> 00:09.000
<v SPEAKER_01>Weiter mit TOP zwei.
`

	lines, err := ParseVTT(vtt)
	if err != nil {
		t.Fatalf("ParseVTT: %v", err)
	}

	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}

	want := Line{
		Pos:     0,
		Speaker: "SPEAKER_00",
		Text:    "Der Haushaltsplan wurde geprüft und ohne Einwände angenommen.",
		Start:   0,
		End:     6,
	}
	if lines[0] != want {
		t.Errorf("lines[0] = %+v, want %+v", lines[0], want)
	}
	if lines[1].Text != "Weiter mit TOP zwei." {
		t.Errorf("lines[1].Text = %q, continuation leaked into the next cue", lines[1].Text)
	}
}

func TestParseVTTEmpty(t *testing.T) {
	lines, err := ParseVTT("WEBVTT\n")
	if err != nil {
		t.Fatalf("ParseVTT: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("got %d lines from an empty file, want 0", len(lines))
	}
}

func TestParseVTTHourTimestamps(t *testing.T) {
	lines, err := ParseVTT("WEBVTT\n\n01:02:03.500 --> 01:02:08.250\nSpät in der Sitzung.\n")
	if err != nil {
		t.Fatalf("ParseVTT: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	if lines[0].Start != 3723.5 || lines[0].End != 3728.25 {
		t.Errorf("interval = [%v, %v), want [3723.5, 3728.25)", lines[0].Start, lines[0].End)
	}
}
