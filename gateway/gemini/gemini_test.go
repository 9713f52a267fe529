package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/LoohanZinho/joraps/gateway"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p, err := NewProvider(gateway.Config{
		Dialect: ProviderName,
		APIKey:  "test-key",
		BaseURL: srv.URL,
		Safety:  gateway.DefaultSafetySettings(),
	})
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	return p.(*Provider)
}

func candidateResponse(text string) string {
	quoted, _ := json.Marshal(text)
	return `{"candidates":[{"content":{"parts":[{"text":` + string(quoted) + `}]}}]}`
}

func TestNewProvider_RequiresAPIKey(t *testing.T) {
	_, err := NewProvider(gateway.Config{Dialect: ProviderName})
	if err == nil {
		t.Fatal("expected error for missing api key")
	}
}

func TestGenerate_SendsPromptAndKey(t *testing.T) {
	var gotPath, gotKey string
	var gotBody generateContentRequest

	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(candidateResponse("resposta gerada")))
	})

	text, err := p.Generate(context.Background(), "gemini-1.5-flash", "expanda isto")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "resposta gerada" {
		t.Errorf("expected candidate text, got %q", text)
	}
	if !strings.HasSuffix(gotPath, "/models/gemini-1.5-flash:generateContent") {
		t.Errorf("unexpected path %q", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("expected api key in query, got %q", gotKey)
	}
	if len(gotBody.Contents) != 1 || gotBody.Contents[0].Parts[0].Text != "expanda isto" {
		t.Errorf("unexpected request contents: %+v", gotBody.Contents)
	}
	if len(gotBody.SafetySettings) != 4 {
		t.Errorf("expected 4 safety settings, got %d", len(gotBody.SafetySettings))
	}
}

func TestTranscribe_SendsInlineMedia(t *testing.T) {
	var gotBody generateContentRequest

	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(candidateResponse("transcrição")))
	})

	text, err := p.Transcribe(context.Background(), "gemini-1.5-pro", gateway.TranscribeRequest{
		MIMEType:         "audio/webm",
		AudioData:        "YWJjZGVm",
		NoiseSuppression: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "transcrição" {
		t.Errorf("expected transcription, got %q", text)
	}

	parts := gotBody.Contents[0].Parts
	if len(parts) != 2 {
		t.Fatalf("expected prompt and media parts, got %d", len(parts))
	}
	if !strings.Contains(parts[0].Text, "Ignore ruídos de fundo") {
		t.Errorf("expected noise suppression clause in prompt, got %q", parts[0].Text)
	}
	if parts[1].InlineData == nil || parts[1].InlineData.MIMEType != "audio/webm" || parts[1].InlineData.Data != "YWJjZGVm" {
		t.Errorf("unexpected inline data: %+v", parts[1].InlineData)
	}
}

func TestTranscribe_NoNoiseClauseWhenDisabled(t *testing.T) {
	var gotBody generateContentRequest

	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(candidateResponse("ok")))
	})

	_, err := p.Transcribe(context.Background(), "gemini-1.5-flash", gateway.TranscribeRequest{
		MIMEType:  "audio/webm",
		AudioData: "YWJj",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(gotBody.Contents[0].Parts[0].Text, "Ignore ruídos") {
		t.Error("noise suppression clause present with suppression disabled")
	}
}

func TestGenerate_SurfacesAPIErrorMessage(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"API key not valid. Please pass a valid API key.","status":"INVALID_ARGUMENT"}}`))
	})

	_, err := p.Generate(context.Background(), "gemini-1.5-flash", "texto")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "API key not valid") {
		t.Errorf("expected API error message to surface, got %v", err)
	}
}

func TestGenerate_NoCandidates(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	})

	_, err := p.Generate(context.Background(), "gemini-1.5-flash", "texto")
	if err == nil || !strings.Contains(err.Error(), "no candidates") {
		t.Fatalf("expected no-candidates error, got %v", err)
	}
}

func TestIsAvailable(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/models") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"models":[{"name":"models/gemini-1.5-flash"}]}`))
	})

	if !p.IsAvailable(context.Background()) {
		t.Error("expected provider to be available")
	}
}

func TestRegisteredDialect(t *testing.T) {
	found := false
	for _, name := range gateway.Providers() {
		if name == ProviderName {
			found = true
		}
	}
	if !found {
		t.Errorf("expected %q in registered providers %v", ProviderName, gateway.Providers())
	}
}
