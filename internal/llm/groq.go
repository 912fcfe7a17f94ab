package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Message is one chat turn sent to the model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Index        int     `json:"index"`
		FinishReason string  `json:"finish_reason"`
		Message      Message `json:"message"`
	} `json:"choices"`
}

// GroqClient talks to the Groq OpenAI-compatible chat completions API.
type GroqClient struct {
	HTTPClient *http.Client
	APIKey     string
	BaseURL    string
}

// NewGroqClient constructs a chat client. baseURL is the API root,
// e.g. https://api.groq.com/openai/v1.
func NewGroqClient(apiKey, baseURL string, timeout time.Duration) *GroqClient {
	return &GroqClient{
		HTTPClient: &http.Client{Timeout: timeout},
		APIKey:     apiKey,
		BaseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// Chat sends the messages to the given model and returns the reply text.
func (c *GroqClient) Chat(ctx context.Context, model string, temperature float64, messages []Message) (string, error) {
	return c.complete(ctx, chatRequest{Model: model, Messages: messages, Temperature: temperature})
}

// ChatJSON is Chat constrained to JSON output (response_format json_object).
func (c *GroqClient) ChatJSON(ctx context.Context, model string, temperature float64, messages []Message) (string, error) {
	return c.complete(ctx, chatRequest{
		Model:          model,
		Messages:       messages,
		Temperature:    temperature,
		ResponseFormat: &responseFormat{Type: "json_object"},
	})
}

func (c *GroqClient) complete(ctx context.Context, body chatRequest) (string, error) {
	if c.APIKey == "" {
		return "", fmt.Errorf("groq api key missing")
	}

	reqBody, _ := json.Marshal(body)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/chat/completions", bytes.NewReader(reqBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("groq error: status=%d body=%s", resp.StatusCode, string(b))
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", err
	}
	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("groq: empty choices")
	}
	return strings.TrimSpace(cr.Choices[0].Message.Content), nil
}
