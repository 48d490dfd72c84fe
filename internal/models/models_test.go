package models

import (
	"encoding/json"
	"testing"
)

func TestScriptLines(t *testing.T) {
	s := Script{
		Hook:      "Stop scrolling!",
		BodyLines: []string{"Fact one.", "   ", "Fact two."},
		CTA:       "Follow us!",
	}

	lines := s.Lines()
	if len(lines) != 4 {
		t.Fatalf("expected 4 non-empty lines, got %d: %v", len(lines), lines)
	}

	if lines[0] != "Stop scrolling!" || lines[3] != "Follow us!" {
		t.Errorf("lines out of order: %v", lines)
	}
}

func TestScriptFullText(t *testing.T) {
	s := Script{Hook: "Hello.", BodyLines: []string{"World."}, CTA: ""}

	if got := s.FullText(); got != "Hello. World." {
		t.Errorf("expected %q, got %q", "Hello. World.", got)
	}
}

func TestScriptFullTextEmpty(t *testing.T) {
	s := Script{Hook: "  ", BodyLines: []string{"", "\t"}, CTA: ""}

	if got := s.FullText(); got != "" {
		t.Errorf("expected empty full text, got %q", got)
	}
}

func TestScriptJSONRoundTrip(t *testing.T) {
	raw := `{"hook":"Stop scrolling!","body_lines":["Fact one.","Fact two."],"cta":"Follow us!"}`

	var s Script
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		t.Fatalf("failed to unmarshal script: %v", err)
	}

	if s.Hook != "Stop scrolling!" {
		t.Errorf("unexpected hook: %q", s.Hook)
	}
	if len(s.BodyLines) != 2 {
		t.Errorf("expected 2 body lines, got %d", len(s.BodyLines))
	}
}

func TestProjectStatus(t *testing.T) {
	statuses := []ProjectStatus{
		ProjectStatusQueued,
		ProjectStatusRendering,
		ProjectStatusReady,
		ProjectStatusFailed,
	}

	for _, status := range statuses {
		if status == "" {
			t.Errorf("empty status found")
		}
	}
}

func TestPostStatus(t *testing.T) {
	statuses := []PostStatus{
		PostStatusScheduled,
		PostStatusProcessing,
		PostStatusPosted,
		PostStatusFailed,
	}

	for _, status := range statuses {
		if status == "" {
			t.Errorf("empty status found")
		}
	}
}
