package storage

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
)

func TestEnsureBucketAlreadyExists(t *testing.T) {
	var created atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case "GET":
			json.NewEncoder(w).Encode([]map[string]string{{"id": "videos"}})
		case "POST":
			created.Store(true)
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer srv.Close()

	s := New(srv.URL, "test-key", "videos")
	if err := s.EnsureBucket(context.Background()); err != nil {
		t.Fatalf("EnsureBucket returned error: %v", err)
	}
	if created.Load() {
		t.Error("bucket was created even though it already existed")
	}
}

func TestEnsureBucketCreates(t *testing.T) {
	var created atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case "GET":
			json.NewEncoder(w).Encode([]map[string]string{})
		case "POST":
			created.Store(true)
			w.WriteHeader(http.StatusCreated)
		}
	}))
	defer srv.Close()

	s := New(srv.URL, "test-key", "videos")
	if err := s.EnsureBucket(context.Background()); err != nil {
		t.Fatalf("EnsureBucket returned error: %v", err)
	}
	if !created.Load() {
		t.Error("bucket was never created")
	}
}

func TestEnsureBucketConflictIsSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case "GET":
			json.NewEncoder(w).Encode([]map[string]string{})
		case "POST":
			w.WriteHeader(http.StatusConflict)
		}
	}))
	defer srv.Close()

	s := New(srv.URL, "test-key", "videos")
	if err := s.EnsureBucket(context.Background()); err != nil {
		t.Fatalf("conflict on create must not be an error, got: %v", err)
	}
}

func TestUploadSetsUpsertAndRetries(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-upsert") != "true" {
			t.Errorf("missing x-upsert header")
		}
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := New(srv.URL, "test-key", "videos")
	err := s.Upload(context.Background(), "proj/out.mp4", []byte("data"), "video/mp4")
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if attempts.Load() != 2 {
		t.Errorf("expected 2 attempts, got %d", attempts.Load())
	}
}

func TestUploadNonRetryableStatus(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	s := New(srv.URL, "test-key", "videos")
	err := s.Upload(context.Background(), "proj/out.mp4", []byte("data"), "video/mp4")
	if err == nil {
		t.Fatal("expected error for 403 response")
	}
	if attempts.Load() != 1 {
		t.Errorf("403 must not be retried, got %d attempts", attempts.Load())
	}
}

func TestGetPublicURL(t *testing.T) {
	s := New("https://proj.supabase.co", "key", "videos")
	got := s.GetPublicURL("abc/out.mp4")
	want := "https://proj.supabase.co/storage/v1/object/public/videos/abc/out.mp4"
	if got != want {
		t.Errorf("GetPublicURL = %q, want %q", got, want)
	}
}

func TestGenerateStoragePath(t *testing.T) {
	s := New("https://proj.supabase.co", "key", "videos")
	id := uuid.New()
	got := s.GenerateStoragePath(id, "out.mp4")
	if !strings.HasPrefix(got, id.String()) || !strings.HasSuffix(got, "out.mp4") {
		t.Errorf("unexpected storage path %q", got)
	}
}
