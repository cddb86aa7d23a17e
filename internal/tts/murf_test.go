package tts

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/voicerelay/voice-relay/internal/provider"
)

func newTestClient(serverURL, defaultVoice string) *MurfClient {
	c := NewMurfClient("test-key", defaultVoice)
	c.apiURL = serverURL
	return c
}

func TestSynthesize_DecodesAudio(t *testing.T) {
	wantAudio := []byte("mp3-bytes")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("api-key") != "test-key" {
			t.Errorf("Expected api-key header, got %q", r.Header.Get("api-key"))
		}
		var req map[string]any
		json.NewDecoder(r.Body).Decode(&req)
		if req["format"] != "MP3" {
			t.Errorf("Expected MP3 format, got %v", req["format"])
		}
		if req["encodeAsBase64"] != true {
			t.Errorf("Expected encodeAsBase64 true, got %v", req["encodeAsBase64"])
		}
		json.NewEncoder(w).Encode(map[string]string{
			"encodedAudio": base64.StdEncoding.EncodeToString(wantAudio),
		})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, "voice-default")
	audio, err := c.Synthesize(context.Background(), "hello", "")
	if err != nil {
		t.Fatalf("Synthesize() failed: %v", err)
	}
	if string(audio) != string(wantAudio) {
		t.Errorf("Expected decoded audio %q, got %q", wantAudio, audio)
	}
}

func TestSynthesize_VoiceSelection(t *testing.T) {
	var gotVoice string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		json.NewDecoder(r.Body).Decode(&req)
		gotVoice, _ = req["voiceId"].(string)
		json.NewEncoder(w).Encode(map[string]string{
			"encodedAudio": base64.StdEncoding.EncodeToString([]byte("x")),
		})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, "voice-default")

	if _, err := c.Synthesize(context.Background(), "hello", ""); err != nil {
		t.Fatalf("Synthesize() failed: %v", err)
	}
	if gotVoice != "voice-default" {
		t.Errorf("Expected configured default voice, got %q", gotVoice)
	}

	if _, err := c.Synthesize(context.Background(), "hello", "voice-override"); err != nil {
		t.Fatalf("Synthesize() failed: %v", err)
	}
	if gotVoice != "voice-override" {
		t.Errorf("Expected per-call voice override, got %q", gotVoice)
	}
}

func TestSynthesize_MissingEncodedAudio(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"somethingElse": "oops"})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, "")
	_, err := c.Synthesize(context.Background(), "hello", "")

	var vendorErr *provider.VendorError
	if !errors.As(err, &vendorErr) {
		t.Fatalf("Expected VendorError, got %v", err)
	}
	if vendorErr.Detail == "" {
		t.Error("Expected raw body carried in error detail")
	}
}

func TestSynthesize_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"quota exceeded"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, "")
	_, err := c.Synthesize(context.Background(), "hello", "")

	var vendorErr *provider.VendorError
	if !errors.As(err, &vendorErr) {
		t.Fatalf("Expected VendorError, got %v", err)
	}
	if vendorErr.Status != http.StatusTooManyRequests {
		t.Errorf("Expected status 429, got %d", vendorErr.Status)
	}
}

func TestSynthesize_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NewServeMux())
	srv.Close()

	c := newTestClient(srv.URL, "")
	_, err := c.Synthesize(context.Background(), "hello", "")

	var transportErr *provider.TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("Expected TransportError, got %v", err)
	}
}
