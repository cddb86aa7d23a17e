package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/voicerelay/voice-relay/internal/conversation"
	"github.com/voicerelay/voice-relay/internal/provider"
)

func newTestGemini(serverURL string) *GeminiClient {
	c := NewGeminiClient("test-key", "test-model")
	c.baseURL = serverURL
	return c
}

func geminiReply(text string) map[string]any {
	return map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]string{{"text": text}}}},
		},
	}
}

func TestGenerate_ReturnsTrimmedReply(t *testing.T) {
	var gotPath string
	var gotPrompt string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if r.Header.Get("x-goog-api-key") != "test-key" {
			t.Errorf("Expected api key header, got %q", r.Header.Get("x-goog-api-key"))
		}
		var req geminiRequest
		json.NewDecoder(r.Body).Decode(&req)
		if len(req.Contents) == 1 && len(req.Contents[0].Parts) == 1 {
			gotPrompt = req.Contents[0].Parts[0].Text
		}
		json.NewEncoder(w).Encode(geminiReply("  Hi there!  \n"))
	}))
	defer srv.Close()

	c := newTestGemini(srv.URL)
	reply, err := c.Generate(context.Background(), "Hello", nil, conversation.ModeCoach)
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}

	if reply != "Hi there!" {
		t.Errorf("Expected trimmed reply 'Hi there!', got %q", reply)
	}
	if gotPath != "/models/test-model:generateContent" {
		t.Errorf("Unexpected request path %q", gotPath)
	}
	if !strings.Contains(gotPrompt, "User (new): Hello") {
		t.Errorf("Expected combined prompt in request, got %q", gotPrompt)
	}
}

func TestGenerate_EmptyCandidatesYieldEmptyString(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	}))
	defer srv.Close()

	c := newTestGemini(srv.URL)
	reply, err := c.Generate(context.Background(), "Hello", nil, conversation.ModeAssistant)
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}
	if reply != "" {
		t.Errorf("Expected empty reply, got %q", reply)
	}
}

func TestGenerate_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"invalid key"}}`, http.StatusForbidden)
	}))
	defer srv.Close()

	c := newTestGemini(srv.URL)
	_, err := c.Generate(context.Background(), "Hello", nil, conversation.ModeAssistant)

	var vendorErr *provider.VendorError
	if !errors.As(err, &vendorErr) {
		t.Fatalf("Expected VendorError, got %v", err)
	}
	if vendorErr.Status != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", vendorErr.Status)
	}
	if !strings.Contains(vendorErr.Detail, "invalid key") {
		t.Errorf("Expected vendor body in detail, got %q", vendorErr.Detail)
	}
}

func TestGenerate_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NewServeMux())
	srv.Close()

	c := newTestGemini(srv.URL)
	_, err := c.Generate(context.Background(), "Hello", nil, conversation.ModeAssistant)

	var transportErr *provider.TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("Expected TransportError, got %v", err)
	}
}

func TestGenerate_HistoryInPrompt(t *testing.T) {
	var gotPrompt string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req geminiRequest
		json.NewDecoder(r.Body).Decode(&req)
		gotPrompt = req.Contents[0].Parts[0].Text
		json.NewEncoder(w).Encode(geminiReply("ok"))
	}))
	defer srv.Close()

	history := []conversation.Message{
		{Role: conversation.RoleUser, Content: "earlier question"},
		{Role: conversation.RoleAssistant, Content: "earlier answer"},
	}

	c := newTestGemini(srv.URL)
	if _, err := c.Generate(context.Background(), "Hello", history, conversation.ModeAssistant); err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}

	if !strings.Contains(gotPrompt, "User: earlier question\nAssistant: earlier answer") {
		t.Errorf("Expected rendered history in prompt, got %q", gotPrompt)
	}
}
