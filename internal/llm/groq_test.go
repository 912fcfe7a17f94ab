package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestChatParsesReply(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"  hello there  "}}]}`))
	}))
	defer srv.Close()

	c := NewGroqClient("test-key", srv.URL, 5*time.Second)
	got, err := c.Chat(context.Background(), "llama-3.1-8b-instant", 0.7, []Message{{Role: "user", Content: "hi"}})
	if err != nil {
		t.Fatal(err)
	}
	if got != "hello there" {
		t.Errorf("reply = %q", got)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("auth header = %q", gotAuth)
	}
}

func TestChatJSONSetsResponseFormat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatal(err)
		}
		rf, ok := body["response_format"].(map[string]any)
		if !ok || rf["type"] != "json_object" {
			t.Errorf("response_format missing or wrong: %v", body["response_format"])
		}
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{}"}}]}`))
	}))
	defer srv.Close()

	c := NewGroqClient("k", srv.URL, 5*time.Second)
	if _, err := c.ChatJSON(context.Background(), "m", 0, []Message{{Role: "user", Content: "x"}}); err != nil {
		t.Fatal(err)
	}
}

func TestChatErrors(t *testing.T) {
	t.Run("missing key", func(t *testing.T) {
		c := NewGroqClient("", "http://localhost", time.Second)
		if _, err := c.Chat(context.Background(), "m", 0, nil); err == nil {
			t.Fatal("expected error when api key missing")
		}
	})

	t.Run("http error status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		}))
		defer srv.Close()
		c := NewGroqClient("k", srv.URL, time.Second)
		_, err := c.Chat(context.Background(), "m", 0, nil)
		if err == nil || !strings.Contains(err.Error(), "status=429") {
			t.Fatalf("expected status error, got %v", err)
		}
	})

	t.Run("empty choices", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"choices":[]}`))
		}))
		defer srv.Close()
		c := NewGroqClient("k", srv.URL, time.Second)
		if _, err := c.Chat(context.Background(), "m", 0, nil); err == nil {
			t.Fatal("expected error for empty choices")
		}
	})
}
