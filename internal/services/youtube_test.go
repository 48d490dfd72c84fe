package services

import (
	"strings"
	"testing"

	"github.com/autoreels/autoreels/internal/models"
)

func TestTruncateTitle(t *testing.T) {
	if got := truncateTitle(""); got != "Untitled Short" {
		t.Errorf("empty title = %q", got)
	}

	short := "A normal title"
	if got := truncateTitle(short); got != short {
		t.Errorf("short title changed to %q", got)
	}

	long := strings.Repeat("x", 150)
	got := truncateTitle(long)
	if len(got) != maxTitleLength {
		t.Errorf("truncated title has length %d, want %d", len(got), maxTitleLength)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncated title missing ellipsis: %q", got)
	}
}

func TestBuildDescriptionAppendsShortsTag(t *testing.T) {
	desc := buildDescription(models.Metadata{
		Caption:  "A caption.",
		Hashtags: "#fitness #health",
	})

	if !strings.Contains(desc, "#shorts") {
		t.Errorf("description missing #shorts marker: %q", desc)
	}
	if !strings.HasPrefix(desc, "A caption.") {
		t.Errorf("caption should lead the description: %q", desc)
	}
}

func TestBuildDescriptionKeepsExistingShortsTag(t *testing.T) {
	desc := buildDescription(models.Metadata{
		Caption:  "A caption.",
		Hashtags: "#Shorts #fitness",
	})

	if strings.Count(strings.ToLower(desc), "#shorts") != 1 {
		t.Errorf("#shorts duplicated: %q", desc)
	}
}

func TestSplitHashtags(t *testing.T) {
	got := splitHashtags("#fitness  #health plain #")
	want := []string{"fitness", "health", "plain"}

	if len(got) != len(want) {
		t.Fatalf("splitHashtags = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("tag %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSplitHashtagsEmpty(t *testing.T) {
	if got := splitHashtags(""); len(got) != 0 {
		t.Errorf("splitHashtags(\"\") = %v", got)
	}
}
