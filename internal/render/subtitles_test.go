package render

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/autoreels/autoreels/internal/models"
)

func TestBuildCuesCoversFullDuration(t *testing.T) {
	script := models.Script{
		Hook:      "The hook",
		BodyLines: []string{"Line one", "Line two", "Line three"},
		CTA:       "Follow for more",
	}

	cues, err := BuildCues(script, 30)
	if err != nil {
		t.Fatalf("BuildCues returned error: %v", err)
	}

	if len(cues) != 5 {
		t.Fatalf("expected 5 cues, got %d", len(cues))
	}

	if cues[0].StartSec != 0 {
		t.Errorf("first cue starts at %g, want 0", cues[0].StartSec)
	}
	if cues[len(cues)-1].EndSec != 30 {
		t.Errorf("last cue ends at %g, want 30", cues[len(cues)-1].EndSec)
	}

	// Cues must be contiguous: each start equals the previous end
	for i := 1; i < len(cues); i++ {
		if math.Abs(cues[i].StartSec-cues[i-1].EndSec) > 1e-9 {
			t.Errorf("cue %d starts at %g but cue %d ends at %g", i+1, cues[i].StartSec, i, cues[i-1].EndSec)
		}
	}

	for i, cue := range cues {
		if cue.Index != i+1 {
			t.Errorf("cue %d has index %d", i, cue.Index)
		}
		if cue.EndSec <= cue.StartSec {
			t.Errorf("cue %d has non-positive span: %g -> %g", i+1, cue.StartSec, cue.EndSec)
		}
	}
}

func TestBuildCuesSkipsBlankLines(t *testing.T) {
	script := models.Script{
		Hook:      "Only the hook",
		BodyLines: []string{"", "   "},
		CTA:       "",
	}

	cues, err := BuildCues(script, 10)
	if err != nil {
		t.Fatalf("BuildCues returned error: %v", err)
	}

	if len(cues) != 1 {
		t.Fatalf("expected 1 cue, got %d", len(cues))
	}
	if cues[0].StartSec != 0 || cues[0].EndSec != 10 {
		t.Errorf("single cue should span the full duration, got %g -> %g", cues[0].StartSec, cues[0].EndSec)
	}
}

func TestBuildCuesEmptyScript(t *testing.T) {
	script := models.Script{BodyLines: []string{"  ", ""}}

	_, err := BuildCues(script, 30)
	if !errors.Is(err, ErrEmptyScript) {
		t.Fatalf("expected ErrEmptyScript, got %v", err)
	}
}

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00,000"},
		{1.5, "00:00:01,500"},
		{59.999, "00:00:59,999"},
		{60, "00:01:00,000"},
		{3661.25, "01:01:01,250"},
		{-5, "00:00:00,000"},
	}

	for _, tt := range tests {
		if got := FormatTimestamp(tt.seconds); got != tt.want {
			t.Errorf("FormatTimestamp(%g) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestSerializeSRT(t *testing.T) {
	cues := []Cue{
		{Index: 1, StartSec: 0, EndSec: 2.5, Text: "First line"},
		{Index: 2, StartSec: 2.5, EndSec: 5, Text: "Second line"},
	}

	out := SerializeSRT(cues)

	want := "1\n00:00:00,000 --> 00:00:02,500\nFirst line\n\n" +
		"2\n00:00:02,500 --> 00:00:05,000\nSecond line\n\n"
	if out != want {
		t.Errorf("SerializeSRT mismatch:\ngot:\n%s\nwant:\n%s", out, want)
	}

	if !strings.HasSuffix(out, "\n\n") {
		t.Error("SRT output must end with a blank-line separator")
	}
}
