package oracle

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(url string) *Client {
	c := NewClientWithBaseURL("test-key", "test-model", url)
	c.backoffFunc = func(int) time.Duration { return 0 }
	return c
}

func chatReply(t *testing.T, w http.ResponseWriter, content string) {
	t.Helper()
	resp := ChatResponse{Choices: []Choice{{Message: Message{Role: "assistant", Content: content}}}}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		t.Fatalf("encode reply: %v", err)
	}
}

func TestQueryParsesReasoningBlock(t *testing.T) {
	var gotReq ChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		chatReply(t, w, "<reasoning>\nBob is lying about the seer.\n</reasoning>\nI think Bob is the werewolf.")
	}))
	defer server.Close()

	resp, err := newTestClient(server.URL).Query(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != "I think Bob is the werewolf." {
		t.Errorf("unexpected text %q", resp.Text)
	}
	if resp.Rationale != "Bob is lying about the seer." {
		t.Errorf("unexpected rationale %q", resp.Rationale)
	}

	if gotReq.Model != "test-model" {
		t.Errorf("unexpected model %q", gotReq.Model)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" {
		t.Fatalf("unexpected messages %+v", gotReq.Messages)
	}
	if !strings.Contains(gotReq.Messages[1].Content, "<reasoning>") {
		t.Error("user prompt should instruct a reasoning block")
	}
	if gotReq.ResponseFormat != nil {
		t.Error("freeform query must not set a response format")
	}
}

func TestQueryWithoutReasoningBlock(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		chatReply(t, w, "  Just a plain answer.  ")
	}))
	defer server.Close()

	resp, err := newTestClient(server.URL).Query(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != "Just a plain answer." {
		t.Errorf("unexpected text %q", resp.Text)
	}
	if resp.Rationale != "" {
		t.Errorf("expected empty rationale, got %q", resp.Rationale)
	}
}

func TestQueryStructuredInjectsAndStripsReasoning(t *testing.T) {
	var gotReq ChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		chatReply(t, w, `{"reasoning":"private plan","vote":"Bob"}`)
	}))
	defer server.Close()

	schema := &Schema{
		Type: "object",
		Properties: map[string]Property{
			"vote": {Type: "string", Enum: []string{"Alice", "Bob"}},
		},
		Required: []string{"vote"},
	}
	resp, err := newTestClient(server.URL).QueryStructured(context.Background(), "system", "user", schema)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Rationale != "private plan" {
		t.Errorf("unexpected rationale %q", resp.Rationale)
	}
	if _, ok := resp.Fields["reasoning"]; ok {
		t.Error("reasoning should be stripped from fields")
	}
	if resp.StringField("vote") != "Bob" {
		t.Errorf("unexpected vote %v", resp.Fields["vote"])
	}

	rf := gotReq.ResponseFormat
	if rf == nil || rf.Type != "json_schema" || rf.JSONSchema == nil {
		t.Fatalf("expected a json_schema response format, got %+v", rf)
	}
	sent := rf.JSONSchema.Schema
	if _, ok := sent.Properties["reasoning"]; !ok {
		t.Error("reasoning property should be injected into the schema")
	}
	if len(sent.Required) == 0 || sent.Required[0] != "reasoning" {
		t.Errorf("reasoning should lead the required list, got %v", sent.Required)
	}
	// The caller's schema stays untouched.
	if _, ok := schema.Properties["reasoning"]; ok {
		t.Error("caller schema was mutated")
	}
}

func TestQueryStructuredMalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		chatReply(t, w, "not json at all")
	}))
	defer server.Close()

	schema := &Schema{Type: "object", Properties: map[string]Property{}}
	if _, err := newTestClient(server.URL).QueryStructured(context.Background(), "s", "u", schema); err == nil {
		t.Fatal("expected an error for malformed structured content")
	}
}

func TestRetryOnServerError(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
			return
		}
		chatReply(t, w, "recovered")
	}))
	defer server.Close()

	resp, err := newTestClient(server.URL).Query(context.Background(), "s", "u")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != "recovered" {
		t.Errorf("unexpected text %q", resp.Text)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("expected 3 attempts, got %d", got)
	}
}

func TestRetryGivesUpAfterMaxAttempts(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Query(context.Background(), "s", "u")
	if err == nil {
		t.Fatal("expected an error after exhausting retries")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Errorf("error should carry the status: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != maxRetries+1 {
		t.Errorf("expected %d attempts, got %d", maxRetries+1, got)
	}
}

func TestNoRetryOnClientError(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Query(context.Background(), "s", "u")
	if err == nil {
		t.Fatal("expected an error")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("client errors must not be retried, got %d attempts", got)
	}
}

func TestQueryCancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClientWithBaseURL("k", "m", server.URL)
	client.backoffFunc = func(int) time.Duration { return time.Minute }

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := client.Query(ctx, "s", "u"); err == nil {
		t.Fatal("expected an error with a cancelled context")
	}
}
