package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultGroqModel = "llama3-8b-8192"
const defaultAnthropicModel = "claude-sonnet-4-5-20250929"
const groqEndpoint = "https://api.groq.com/openai/v1/chat/completions"

const matchSystemPrompt = "You are a smart assistant that maps data labels to their closest matches."

// ErrRateLimitExhausted is returned when every retry attempt was answered
// with HTTP 429.
var ErrRateLimitExhausted = errors.New("rate limit exceeded after retries")

// Proposer proposes a lookup key for a placeholder. The returned key is free
// text from the model and is not guaranteed to exist in the lookup table;
// callers must validate it.
type Proposer interface {
	Propose(placeholder, summary string) (string, error)
}

// NewProposer builds the configured provider's client. Credentials come from
// the config, not from ambient process state.
func NewProposer(cfg Config) (Proposer, error) {
	switch cfg.LLMProvider {
	case "groq":
		return NewGroqClient(cfg), nil
	case "anthropic":
		return NewAnthropicClient(cfg), nil
	default:
		return nil, fmt.Errorf("unknown llm_provider '%s'", cfg.LLMProvider)
	}
}

func buildMatchPrompt(placeholder, summary string) string {
	return fmt.Sprintf(`Given this placeholder from an Excel template: %q

And this summary of available source data fields:

%s

Which field (or role) from the source data most likely corresponds to the placeholder?

Respond with just the exact field name or role, nothing else.`, placeholder, summary)
}

// --- Groq (OpenAI-compatible chat completions) ---

type groqRequest struct {
	Model       string        `json:"model"`
	Messages    []groqMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type groqMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type groqResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

type GroqClient struct {
	apiKey   string
	model    string
	endpoint string
	retries  int
	backoff  time.Duration
	httpc    *http.Client
}

func NewGroqClient(cfg Config) *GroqClient {
	model := cfg.LLMModel
	if model == "" {
		model = defaultGroqModel
	}
	return &GroqClient{
		apiKey:   cfg.GroqAPIKey,
		model:    model,
		endpoint: groqEndpoint,
		retries:  cfg.LLMRetries,
		backoff:  time.Duration(cfg.LLMBackoffSeconds) * time.Second,
		httpc:    externalHTTPClient,
	}
}

// Propose sends the match prompt and returns the model's trimmed answer.
// HTTP 429 is retried with linear backoff (backoff × attempt number) up to
// the retry budget; any other non-2xx status fails immediately.
func (c *GroqClient) Propose(placeholder, summary string) (string, error) {
	reqBody := groqRequest{
		Model: c.model,
		Messages: []groqMessage{
			{Role: "system", Content: matchSystemPrompt},
			{Role: "user", Content: buildMatchPrompt(placeholder, summary)},
		},
		Temperature: 0.2,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	for attempt := 1; attempt <= c.retries; attempt++ {
		req, err := http.NewRequest("POST", c.endpoint, bytes.NewReader(bodyBytes))
		if err != nil {
			return "", fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.httpc.Do(req)
		if err != nil {
			return "", fmt.Errorf("Groq API error: %w", err)
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return "", fmt.Errorf("reading response: %w", err)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			wait := c.backoff * time.Duration(attempt)
			log.Printf("llm groq rate limited attempt=%d wait=%s", attempt, wait)
			time.Sleep(wait)
			continue
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return "", fmt.Errorf("Groq API returned %d: %s", resp.StatusCode, string(respBody))
		}

		var parsed groqResponse
		if err := json.Unmarshal(respBody, &parsed); err != nil {
			return "", fmt.Errorf("parsing Groq response: %w", err)
		}
		if parsed.Error != nil {
			return "", fmt.Errorf("Groq API error: %s", parsed.Error.Message)
		}
		if len(parsed.Choices) == 0 {
			return "", fmt.Errorf("no choices in Groq response")
		}

		answer := strings.TrimSpace(parsed.Choices[0].Message.Content)
		log.Printf("llm groq response model=%s size=%d", c.model, len(answer))
		return answer, nil
	}

	return "", ErrRateLimitExhausted
}

// --- Anthropic ---

type AnthropicClient struct {
	client anthropic.Client
	model  string
}

func NewAnthropicClient(cfg Config) *AnthropicClient {
	model := cfg.LLMModel
	if model == "" {
		model = defaultAnthropicModel
	}
	return &AnthropicClient{
		client: anthropic.NewClient(option.WithAPIKey(cfg.AnthropicAPIKey)),
		model:  model,
	}
}

func (c *AnthropicClient) Propose(placeholder, summary string) (string, error) {
	message, err := c.client.Messages.New(context.Background(), anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: 256,
		System: []anthropic.TextBlockParam{
			{Text: matchSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildMatchPrompt(placeholder, summary))),
		},
	})
	if err != nil {
		return "", fmt.Errorf("Anthropic API error: %w", err)
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			answer := strings.TrimSpace(block.Text)
			log.Printf("llm anthropic response model=%s size=%d", c.model, len(answer))
			return answer, nil
		}
	}
	return "", fmt.Errorf("no text content in Anthropic response")
}
