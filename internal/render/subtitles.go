package render

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/autoreels/autoreels/internal/models"
)

// ---------------------------------------------------------------------------
// SRT subtitle generation
//
// The script is split into its non-empty lines (hook, body, cta) and each
// line gets an equal slice of the target duration. No transcription is
// involved — the same text drives both the narration and the captions, so
// equal slicing keeps them roughly aligned without a second API round trip.
// ---------------------------------------------------------------------------

// Cue is a single timed caption entry.
type Cue struct {
	Index    int // 1-based, per SRT convention
	StartSec float64
	EndSec   float64
	Text     string
}

// BuildCues converts a script into contiguous cues covering [0, durationSec].
// Returns ErrEmptyScript when the script has no non-empty lines.
func BuildCues(script models.Script, durationSec float64) ([]Cue, error) {
	lines := script.Lines()
	if len(lines) == 0 {
		return nil, ErrEmptyScript
	}

	lineDuration := durationSec / float64(len(lines))

	cues := make([]Cue, len(lines))
	for i, line := range lines {
		cues[i] = Cue{
			Index:    i + 1,
			StartSec: float64(i) * lineDuration,
			EndSec:   float64(i+1) * lineDuration,
			Text:     line,
		}
	}

	// Pin the last cue to the exact duration so float accumulation can't
	// leave a gap at the end of the track.
	cues[len(cues)-1].EndSec = durationSec

	return cues, nil
}

// FormatTimestamp converts seconds to the SRT timestamp format
// HH:MM:SS,mmm. Seconds past 60 carry into minutes and hours; all fields
// are zero-padded.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}

	totalMs := int(math.Round(seconds * 1000))
	hours := totalMs / 3600000
	minutes := (totalMs % 3600000) / 60000
	secs := (totalMs % 60000) / 1000
	millis := totalMs % 1000

	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}

// SerializeSRT renders cues as an SRT track: sequence number, timestamp
// pair, caption text, blank-line separator.
func SerializeSRT(cues []Cue) string {
	var sb strings.Builder

	for _, cue := range cues {
		sb.WriteString(fmt.Sprintf("%d\n", cue.Index))
		sb.WriteString(fmt.Sprintf("%s --> %s\n", FormatTimestamp(cue.StartSec), FormatTimestamp(cue.EndSec)))
		sb.WriteString(cue.Text)
		sb.WriteString("\n\n")
	}

	return sb.String()
}

// WriteSRT serializes cues and writes them to path. The caller owns the
// file's lifetime — it is removed on every render exit path.
func WriteSRT(cues []Cue, path string) error {
	if err := os.WriteFile(path, []byte(SerializeSRT(cues)), 0644); err != nil {
		return fmt.Errorf("failed to write subtitle file: %w", err)
	}
	return nil
}
