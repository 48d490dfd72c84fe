package worker

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/autoreels/autoreels/internal/services"
)

func TestScriptProviderDispatch(t *testing.T) {
	w := &Worker{
		openai: services.NewOpenAIService("key", "alloy"),
		groq:   services.NewGroqService("key"),
	}

	// Default and unknown names resolve to openai
	for _, name := range []string{"", "openai", "something-else"} {
		sp, err := w.scriptProvider(name)
		if err != nil {
			t.Fatalf("scriptProvider(%q) returned error: %v", name, err)
		}
		if sp != services.ScriptProvider(w.openai) {
			t.Errorf("scriptProvider(%q) did not return the openai backend", name)
		}
	}

	sp, err := w.scriptProvider("groq")
	if err != nil {
		t.Fatalf("scriptProvider(groq) returned error: %v", err)
	}
	if sp != services.ScriptProvider(w.groq) {
		t.Error("scriptProvider(groq) did not return the groq backend")
	}
}

func TestScriptProviderUnconfigured(t *testing.T) {
	w := &Worker{openai: services.NewOpenAIService("key", "alloy")}

	for _, name := range []string{"gemini", "groq"} {
		_, err := w.scriptProvider(name)
		if err == nil {
			t.Errorf("scriptProvider(%q) should fail when the backend has no key", name)
		} else if !strings.Contains(err.Error(), "not configured") {
			t.Errorf("scriptProvider(%q) error = %v", name, err)
		}
	}
}

func TestAcquireRespectsCancellation(t *testing.T) {
	sem := make(chan struct{}, 1)
	sem <- struct{}{} // fill the only slot

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan bool, 1)
	go func() { done <- acquire(ctx, sem) }()

	select {
	case got := <-done:
		if got {
			t.Error("acquire succeeded against a full semaphore and cancelled context")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("acquire blocked despite cancelled context")
	}
}

func TestAcquireTakesFreeSlot(t *testing.T) {
	sem := make(chan struct{}, 1)

	if !acquire(context.Background(), sem) {
		t.Fatal("acquire failed with a free slot")
	}
	if len(sem) != 1 {
		t.Errorf("semaphore length = %d, want 1", len(sem))
	}
}

func TestParseManualScriptJSON(t *testing.T) {
	raw := `{"hook": "Big opener", "body_lines": ["One", "Two"], "cta": "Follow"}`

	script := parseManualScript(raw)

	if script.Hook != "Big opener" {
		t.Errorf("hook = %q", script.Hook)
	}
	if len(script.BodyLines) != 2 {
		t.Errorf("body lines = %v", script.BodyLines)
	}
	if script.CTA != "Follow" {
		t.Errorf("cta = %q", script.CTA)
	}
}

func TestParseManualScriptRawText(t *testing.T) {
	raw := "First line is the hook\n\nSecond line\n  Third line  \n"

	script := parseManualScript(raw)

	if script.Hook != "First line is the hook" {
		t.Errorf("hook = %q", script.Hook)
	}
	want := []string{"Second line", "Third line"}
	if len(script.BodyLines) != len(want) {
		t.Fatalf("body lines = %v, want %v", script.BodyLines, want)
	}
	for i := range want {
		if script.BodyLines[i] != want[i] {
			t.Errorf("body line %d = %q, want %q", i, script.BodyLines[i], want[i])
		}
	}
	if script.CTA != "" {
		t.Errorf("raw text script should have no cta, got %q", script.CTA)
	}
}

func TestParseManualScriptSingleLine(t *testing.T) {
	script := parseManualScript("Just one line")

	if script.Hook != "Just one line" {
		t.Errorf("hook = %q", script.Hook)
	}
	if len(script.BodyLines) != 0 {
		t.Errorf("body lines = %v", script.BodyLines)
	}
}

func TestParseManualScriptEmpty(t *testing.T) {
	script := parseManualScript("   \n  \n")

	if len(script.Lines()) != 0 {
		t.Errorf("expected empty script, got lines %v", script.Lines())
	}
}

func TestParseManualScriptInvalidJSONFallsBackToText(t *testing.T) {
	// Looks like JSON but is not the script schema; treat as raw text
	raw := `{"unrelated": true}`

	script := parseManualScript(raw)
	if script.Hook != raw {
		t.Errorf("hook = %q, want the raw text", script.Hook)
	}
}
