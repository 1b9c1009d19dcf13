package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	maxRetries     = 3
)

var reasoningBlock = regexp.MustCompile(`(?s)<reasoning>(.*?)</reasoning>`)

// Client talks to an OpenAI-compatible chat completions API.
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	model       string
	backoffFunc func(attempt int) time.Duration
}

func defaultBackoff(attempt int) time.Duration {
	return time.Duration(1<<uint(attempt)) * time.Second
}

// NewClient creates a Client against the default OpenAI base URL.
func NewClient(apiKey, model string) *Client {
	return NewClientWithBaseURL(apiKey, model, defaultBaseURL)
}

// NewClientWithBaseURL creates a Client with a custom base URL (for
// proxies and tests).
func NewClientWithBaseURL(apiKey, model, baseURL string) *Client {
	return &Client{
		httpClient:  &http.Client{},
		apiKey:      apiKey,
		baseURL:     strings.TrimRight(baseURL, "/"),
		model:       model,
		backoffFunc: defaultBackoff,
	}
}

// Query asks for freeform text. The prompt instructs the model to put
// its private strategy in a <reasoning> block, which is parsed out and
// returned separately from the visible text.
func (c *Client) Query(ctx context.Context, systemPrompt, userPrompt string) (*Response, error) {
	enhanced := userPrompt + `

Before your response, think through your strategy step by step in a <reasoning> block. Then provide your actual response.

Format:
<reasoning>
Your strategic thinking here...
</reasoning>

Your actual response here (1-3 sentences)`

	chatResp, err := c.chatCompletion(ctx, systemPrompt, enhanced, nil)
	if err != nil {
		return nil, err
	}
	full := chatResp.Choices[0].Message.Content

	resp := &Response{Text: strings.TrimSpace(full)}
	if m := reasoningBlock.FindStringSubmatch(full); m != nil {
		resp.Rationale = strings.TrimSpace(m[1])
		resp.Text = strings.TrimSpace(reasoningBlock.ReplaceAllString(full, ""))
	}
	return resp, nil
}

// QueryStructured asks for an answer matching the given schema. A
// leading private-reasoning field is injected into the schema and
// stripped from the returned fields.
func (c *Client) QueryStructured(ctx context.Context, systemPrompt, userPrompt string, schema *Schema) (*StructuredResponse, error) {
	chatResp, err := c.chatCompletion(ctx, systemPrompt, userPrompt, withReasoning(schema))
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if err := json.Unmarshal([]byte(chatResp.Choices[0].Message.Content), &fields); err != nil {
		return nil, fmt.Errorf("oracle: malformed structured response: %w", err)
	}

	resp := &StructuredResponse{Fields: fields}
	if reasoning, ok := fields["reasoning"].(string); ok {
		resp.Rationale = reasoning
	}
	delete(fields, "reasoning")
	return resp, nil
}

// withReasoning returns a copy of the schema with a required reasoning
// property added, unless the caller already declared one.
func withReasoning(schema *Schema) *Schema {
	if _, ok := schema.Properties["reasoning"]; ok {
		return schema
	}
	props := make(map[string]Property, len(schema.Properties)+1)
	for k, v := range schema.Properties {
		props[k] = v
	}
	props["reasoning"] = Property{
		Type: "string",
		Description: "Your private strategic thinking process. Think step by step about the situation, " +
			"what you know, what others might know, and what the best move is.",
	}
	return &Schema{
		Type:                 schema.Type,
		Properties:           props,
		Required:             append([]string{"reasoning"}, schema.Required...),
		AdditionalProperties: schema.AdditionalProperties,
	}
}

func (c *Client) chatCompletion(ctx context.Context, systemPrompt, userPrompt string, schema *Schema) (*ChatResponse, error) {
	reqBody := ChatRequest{
		Model:       c.model,
		Temperature: 1,
		Messages: []Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	}
	if schema != nil {
		reqBody.ResponseFormat = &ResponseFormat{
			Type:       "json_schema",
			JSONSchema: &JSONSchemaSpec{Name: "response", Strict: true, Schema: schema},
		}
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("oracle: %w", err)
	}

	resp, err := c.doWithRetry(ctx, func(ctx context.Context) (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Content-Type", "application/json")
		return c.httpClient.Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("oracle: %w", err)
	}
	defer resp.Body.Close()

	var chatResp ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("oracle: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("oracle: response contained no choices")
	}
	return &chatResp, nil
}

func isRetryable(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || statusCode >= 500
}

func (c *Client) doWithRetry(ctx context.Context, do func(context.Context) (*http.Response, error)) (*http.Response, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.backoffFunc(attempt - 1)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		resp, err := do(ctx)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode == http.StatusOK {
			return resp, nil
		}

		respBody, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if !isRetryable(resp.StatusCode) {
			return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(respBody))
		}

		// Respect Retry-After on 429 (additional wait on top of backoff)
		if resp.StatusCode == http.StatusTooManyRequests {
			if ra := resp.Header.Get("Retry-After"); ra != "" {
				if secs, parseErr := strconv.Atoi(ra); parseErr == nil {
					raDelay := time.Duration(secs) * time.Second
					if raDelay > 0 && c.backoffFunc(0) > 0 {
						select {
						case <-ctx.Done():
							return nil, ctx.Err()
						case <-time.After(raDelay):
						}
					}
				}
			}
		}

		lastErr = fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(respBody))
	}
	return nil, lastErr
}
