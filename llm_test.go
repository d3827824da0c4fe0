package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestGroqClient(url string, retries int) *GroqClient {
	return &GroqClient{
		apiKey:   "test-key",
		model:    "llama3-8b-8192",
		endpoint: url,
		retries:  retries,
		backoff:  0,
		httpc:    http.DefaultClient,
	}
}

func groqReply(content string) string {
	return `{"choices":[{"message":{"content":` + mustJSON(content) + `}}]}`
}

func mustJSON(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func TestGroqPropose_Success(t *testing.T) {
	var gotAuth string
	var gotBody groqRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		w.Write([]byte(groqReply("  NurseCost \n")))
	}))
	defer srv.Close()

	client := newTestGroqClient(srv.URL, 3)
	got, err := client.Propose("◦ Nurse staffing cost", "NurseCost: 1000")
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if got != "NurseCost" {
		t.Errorf("Propose = %q, want trimmed %q", got, "NurseCost")
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q, want bearer credential", gotAuth)
	}
	if gotBody.Temperature != 0.2 {
		t.Errorf("temperature = %v, want 0.2", gotBody.Temperature)
	}
	if len(gotBody.Messages) != 2 || gotBody.Messages[0].Role != "system" || gotBody.Messages[1].Role != "user" {
		t.Fatalf("unexpected messages: %+v", gotBody.Messages)
	}
	if !strings.Contains(gotBody.Messages[1].Content, "◦ Nurse staffing cost") {
		t.Errorf("user prompt missing placeholder: %q", gotBody.Messages[1].Content)
	}
	if !strings.Contains(gotBody.Messages[1].Content, "NurseCost: 1000") {
		t.Errorf("user prompt missing lookup summary: %q", gotBody.Messages[1].Content)
	}
}

func TestGroqPropose_RetriesOn429ThenSucceeds(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(groqReply("BedDayRate")))
	}))
	defer srv.Close()

	client := newTestGroqClient(srv.URL, 3)
	got, err := client.Propose("◦ Bed day rate", "BedDayRate: 42")
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}
	if got != "BedDayRate" {
		t.Errorf("Propose = %q, want %q", got, "BedDayRate")
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestGroqPropose_RateLimitExhausted(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := newTestGroqClient(srv.URL, 3)
	_, err := client.Propose("◦ Bed day rate", "")
	if !errors.Is(err, ErrRateLimitExhausted) {
		t.Fatalf("err = %v, want ErrRateLimitExhausted", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestGroqPropose_NonRateLimitErrorNotRetried(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}))
	defer srv.Close()

	client := newTestGroqClient(srv.URL, 3)
	_, err := client.Propose("◦ Anything", "")
	if err == nil {
		t.Fatal("expected error for HTTP 500")
	}
	if errors.Is(err, ErrRateLimitExhausted) {
		t.Fatalf("500 must not surface as retries exhausted: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (no retry)", calls)
	}
}

func TestGroqPropose_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	client := newTestGroqClient(srv.URL, 3)
	if _, err := client.Propose("◦ Anything", ""); err == nil {
		t.Fatal("expected error for empty choices")
	}
}

func TestNewProposer_ProviderSwitch(t *testing.T) {
	groq, err := NewProposer(Config{LLMProvider: "groq", GroqAPIKey: "k", LLMRetries: 3})
	if err != nil {
		t.Fatalf("NewProposer(groq): %v", err)
	}
	if _, ok := groq.(*GroqClient); !ok {
		t.Errorf("groq provider built %T", groq)
	}

	anth, err := NewProposer(Config{LLMProvider: "anthropic", AnthropicAPIKey: "k"})
	if err != nil {
		t.Fatalf("NewProposer(anthropic): %v", err)
	}
	if _, ok := anth.(*AnthropicClient); !ok {
		t.Errorf("anthropic provider built %T", anth)
	}

	if _, err := NewProposer(Config{LLMProvider: "other"}); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestBuildMatchPrompt(t *testing.T) {
	prompt := buildMatchPrompt("◦ Nurse staffing cost", "NurseCost: 1000\nOccupiedBedDays: 500")
	if !strings.Contains(prompt, `"◦ Nurse staffing cost"`) {
		t.Errorf("prompt missing quoted placeholder: %q", prompt)
	}
	if !strings.Contains(prompt, "NurseCost: 1000\nOccupiedBedDays: 500") {
		t.Errorf("prompt missing summary block: %q", prompt)
	}
	if !strings.Contains(prompt, "Respond with just the exact field name or role") {
		t.Errorf("prompt missing answer instruction: %q", prompt)
	}
}
