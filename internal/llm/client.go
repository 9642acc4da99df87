package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"naarad-gateway/internal/config"
)

// Completer is the narrow boundary to the completion provider.
type Completer interface {
	Complete(prompt string) (string, error)
}

// GenerationError wraps any provider failure so callers can tell it apart
// from delivery problems.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return "generation failed: " + e.Err.Error()
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

const defaultBaseURL = "https://api.groq.com/openai/v1"

// Client talks to the Groq chat-completions API.
type Client struct {
	Config     *config.Config
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		Config:  cfg,
		BaseURL: defaultBaseURL,
		// The completion call is the cycle's longest blocking external call,
		// so it gets a hard timeout.
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Complete sends the composed prompt and returns the reply text. When the
// response exposes no textual content the raw body is returned instead of an
// error.
func (c *Client) Complete(prompt string) (string, error) {
	reqBody := chatRequest{
		Model:       c.Config.LLMModel,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: c.Config.LLMTemperature,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", &GenerationError{Err: err}
	}

	req, err := http.NewRequest("POST", c.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", &GenerationError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.Config.GroqAPIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", &GenerationError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &GenerationError{Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &GenerationError{Err: fmt.Errorf("provider returned status %d: %s", resp.StatusCode, string(respBody))}
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil || len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return string(respBody), nil
	}
	return parsed.Choices[0].Message.Content, nil
}
