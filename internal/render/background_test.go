package render

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFixture(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("fixture"), 0644); err != nil {
		t.Fatalf("failed to write fixture %s: %v", name, err)
	}
	return path
}

func TestResolveBackgroundPrefersVideo(t *testing.T) {
	dir := t.TempDir()
	videoPath := writeFixture(t, dir, "default.mp4")
	writeFixture(t, dir, "default.jpg")

	bg, err := ResolveBackground(dir, 30, false)
	if err != nil {
		t.Fatalf("ResolveBackground returned error: %v", err)
	}
	if bg.Kind != BackgroundVideo {
		t.Errorf("expected video background, got %s", bg.Kind)
	}
	if bg.Path != videoPath {
		t.Errorf("expected path %q, got %q", videoPath, bg.Path)
	}
}

func TestResolveBackgroundFallsBackToImage(t *testing.T) {
	dir := t.TempDir()
	imagePath := writeFixture(t, dir, "default.jpg")

	bg, err := ResolveBackground(dir, 30, false)
	if err != nil {
		t.Fatalf("ResolveBackground returned error: %v", err)
	}
	if bg.Kind != BackgroundImage {
		t.Errorf("expected image background, got %s", bg.Kind)
	}
	if bg.Path != imagePath {
		t.Errorf("expected path %q, got %q", imagePath, bg.Path)
	}
}

func TestResolveBackgroundGenerated(t *testing.T) {
	dir := t.TempDir()

	bg, err := ResolveBackground(dir, 25, true)
	if err != nil {
		t.Fatalf("ResolveBackground returned error: %v", err)
	}
	if bg.Kind != BackgroundGenerated {
		t.Errorf("expected generated background, got %s", bg.Kind)
	}
	if bg.ColorSpec != "color=c=black:s=1080x1920:d=25" {
		t.Errorf("unexpected color spec %q", bg.ColorSpec)
	}
	if bg.Path != "" {
		t.Errorf("generated background should have no path, got %q", bg.Path)
	}
}

func TestResolveBackgroundMissing(t *testing.T) {
	dir := t.TempDir()

	_, err := ResolveBackground(dir, 30, false)
	if !errors.Is(err, ErrBackgroundMissing) {
		t.Fatalf("expected ErrBackgroundMissing, got %v", err)
	}
}

func TestResolveBackgroundIgnoresDirectories(t *testing.T) {
	dir := t.TempDir()
	// A directory named like the asset must not count as a usable file
	if err := os.Mkdir(filepath.Join(dir, "default.mp4"), 0755); err != nil {
		t.Fatal(err)
	}

	_, err := ResolveBackground(dir, 30, false)
	if !errors.Is(err, ErrBackgroundMissing) {
		t.Fatalf("expected ErrBackgroundMissing, got %v", err)
	}
}
