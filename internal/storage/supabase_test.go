package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestUploadReturnsPublicURL(t *testing.T) {
	var gotPath, gotAuth, gotType string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	s := NewSupabaseStorage(srv.URL, "service-key", "responses")
	url, err := s.Upload(context.Background(), "tts_1.mp3", "audio/mpeg", []byte("mp3 bytes"))
	if err != nil {
		t.Fatal(err)
	}

	if gotPath != "/storage/v1/object/responses/tts_1.mp3" {
		t.Errorf("upload path = %q", gotPath)
	}
	if gotAuth != "Bearer service-key" {
		t.Errorf("auth = %q", gotAuth)
	}
	if gotType != "audio/mpeg" {
		t.Errorf("content type = %q", gotType)
	}
	if string(gotBody) != "mp3 bytes" {
		t.Errorf("body = %q", gotBody)
	}
	want := srv.URL + "/storage/v1/object/public/responses/tts_1.mp3"
	if url != want {
		t.Errorf("public url = %q, want %q", url, want)
	}
}

func TestUploadMissingConfig(t *testing.T) {
	s := NewSupabaseStorage("", "", "responses")
	if _, err := s.Upload(context.Background(), "k", "audio/mpeg", nil); err == nil {
		t.Fatal("expected error for missing configuration")
	}
}

func TestUploadErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	s := NewSupabaseStorage(srv.URL, "k", "responses")
	if _, err := s.Upload(context.Background(), "k.mp3", "audio/mpeg", []byte("x")); err == nil {
		t.Fatal("expected error for 403 response")
	}
}
