// Package llm is the generation client: one chat-completion request per
// instruction against an OpenAI-compatible endpoint. There are no retries;
// a failed generation ends the turn and the user rephrases or tries again.
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

// Failure kinds, as recorded in the session log.
const (
	KindTransport = "transport"
	KindAuth      = "auth"
	KindService   = "service"
)

// TransportError means the request never produced a response: connection
// refused, DNS failure, or the request timeout elapsed.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("generation service unreachable: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// AuthError means the service rejected the credential.
type AuthError struct {
	StatusCode int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("generation service rejected the credential (HTTP %d)", e.StatusCode)
}

// ServiceError covers every other failed response, including a response
// with no usable completion in it.
type ServiceError struct {
	StatusCode int
	Body       string
}

func (e *ServiceError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("generation service returned no completion: %s", e.Body)
	}
	return fmt.Sprintf("generation service error (HTTP %d): %s", e.StatusCode, e.Body)
}

// Kind classifies an error from Generate for logging.
func Kind(err error) string {
	switch err.(type) {
	case *AuthError:
		return KindAuth
	case *ServiceError:
		return KindService
	default:
		return KindTransport
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

const systemPrompt = "You are a code generator. Reply with a single Go program and nothing else. " +
	"The program must be package main with one func main, use only the operation " +
	"library described in the prompt, and print a short summary of what it did."

// Client talks to one OpenAI-compatible chat endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey, model string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Generate sends one prompt and returns the extracted script source.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.httpClient.Timeout)
		defer cancel()
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.1,
	})
	if err != nil {
		return "", fmt.Errorf("marshal generation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build generation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &TransportError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", &TransportError{Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", &AuthError{StatusCode: resp.StatusCode}
	case resp.StatusCode != http.StatusOK:
		return "", &ServiceError{StatusCode: resp.StatusCode, Body: truncate(string(respBody), 500)}
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", &ServiceError{Body: fmt.Sprintf("unparseable response: %v", err)}
	}
	if parsed.Error != nil {
		return "", &ServiceError{StatusCode: resp.StatusCode, Body: parsed.Error.Message}
	}
	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return "", &ServiceError{Body: "empty completion"}
	}

	return ExtractScript(parsed.Choices[0].Message.Content), nil
}

// ExtractScript pulls the script out of a completion. Models wrap code in
// fences even when told not to, so a fenced block wins over the raw text.
func ExtractScript(completion string) string {
	text := strings.TrimSpace(completion)
	for _, fence := range []string{"```go\n", "```go\r\n", "```\n"} {
		start := strings.Index(text, fence)
		if start < 0 {
			continue
		}
		rest := text[start+len(fence):]
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end])
		}
	}
	return text
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
