package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sebastianschieke/interviewline/internal/convo"
)

// Client streams chat completions from an OpenAI-compatible endpoint.
type Client struct {
	HTTPClient *http.Client
	BaseURL    string
	APIKey     string
	Model      string
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionsRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatDelta struct {
	Content string `json:"content"`
}

type chatStreamChoice struct {
	Index        int       `json:"index"`
	FinishReason string    `json:"finish_reason"`
	Delta        chatDelta `json:"delta"`
}

type chatStreamChunk struct {
	ID      string             `json:"id"`
	Object  string             `json:"object"`
	Model   string             `json:"model"`
	Choices []chatStreamChoice `json:"choices"`
}

// NewClient builds a streaming client. No request timeout is set on
// the HTTP client; streams are bounded by the caller's context.
func NewClient(baseURL, apiKey, model string) *Client {
	return &Client{
		HTTPClient: &http.Client{},
		BaseURL:    strings.TrimRight(baseURL, "/"),
		APIKey:     apiKey,
		Model:      model,
	}
}

// Stream sends the ordered history and yields content fragments in
// arrival order. The fragment channel closes at end of reply; a
// terminal error, if any, is delivered on the error channel before
// both close.
func (c *Client) Stream(ctx context.Context, history []convo.Message) (<-chan string, <-chan error) {
	frags := make(chan string, 16)
	errs := make(chan error, 1)

	go func() {
		defer close(frags)
		defer close(errs)

		if c.APIKey == "" {
			errs <- fmt.Errorf("llm: api key missing")
			return
		}

		messages := make([]chatMessage, 0, len(history))
		for _, m := range history {
			messages = append(messages, chatMessage{Role: m.Role, Content: m.Content})
		}
		reqBody, _ := json.Marshal(chatCompletionsRequest{Model: c.Model, Messages: messages, Stream: true})

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/chat/completions", bytes.NewReader(reqBody))
		if err != nil {
			errs <- err
			return
		}
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "text/event-stream")

		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			errs <- err
			return
		}
		defer resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			b, _ := io.ReadAll(resp.Body)
			errs <- fmt.Errorf("llm: status=%d body=%s", resp.StatusCode, string(b))
			return
		}

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if !strings.HasPrefix(line, "data:") {
				continue
			}
			payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if payload == "" || payload == "[DONE]" {
				continue
			}
			var chunk chatStreamChunk
			if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
				errs <- fmt.Errorf("llm: decode stream chunk: %w", err)
				return
			}
			for _, choice := range chunk.Choices {
				if choice.Delta.Content == "" {
					continue
				}
				select {
				case frags <- choice.Delta.Content:
				case <-ctx.Done():
					errs <- ctx.Err()
					return
				}
			}
		}
		if err := scanner.Err(); err != nil {
			errs <- fmt.Errorf("llm: read stream: %w", err)
		}
	}()

	return frags, errs
}
