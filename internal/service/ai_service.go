package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"feedbacknexus/internal/models"
	"feedbacknexus/internal/observability"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// AIMessageOptions steer the generated text. Zero values fall back to the
// defaults (friendly, medium, direct).
type AIMessageOptions struct {
	Tone   string `json:"tone"`
	Length string `json:"length"`
	Style  string `json:"style"`
}

func (o AIMessageOptions) withDefaults() AIMessageOptions {
	if o.Tone == "" {
		o.Tone = "friendly"
	}
	if o.Length == "" {
		o.Length = "medium"
	}
	if o.Style == "" {
		o.Style = "direct"
	}
	return o
}

// AIService calls an OpenAI-compatible chat completions endpoint to help
// users compose and answer feedback.
type AIService struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

var replySplitPattern = regexp.MustCompile(`\d+\.\s+`)

// NewAIService returns an AIService talking to the given OpenAI-compatible
// endpoint.
func NewAIService(apiKey, baseURL, model string) *AIService {
	return &AIService{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Enabled reports whether an API key is configured.
func (s *AIService) Enabled() bool {
	return s.apiKey != ""
}

func (s *AIService) complete(ctx context.Context, operation, systemPrompt, userPrompt string, temperature float64, maxTokens int) (string, error) {
	span, ctx := observability.NewSpan(ctx, "ai."+operation,
		trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.AddAttributes(
		attribute.String("ai.operation", operation),
		attribute.String("ai.model", s.model),
	)

	content, err := s.doComplete(ctx, operation, systemPrompt, userPrompt, temperature, maxTokens)
	if err != nil {
		span.SetError(err)
	}
	return content, err
}

func (s *AIService) doComplete(ctx context.Context, operation, systemPrompt, userPrompt string, temperature float64, maxTokens int) (string, error) {
	if !s.Enabled() {
		return "", models.NewUpstreamError("AI provider", fmt.Errorf("no API key configured"))
	}

	payload := chatCompletionRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", models.NewInternalError(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", models.NewInternalError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	start := time.Now()
	resp, err := s.client.Do(req)
	observability.AIRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		observability.AIRequests.WithLabelValues(operation, "error").Inc()
		return "", models.NewUpstreamError("AI provider", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		observability.AIRequests.WithLabelValues(operation, "error").Inc()
		return "", models.NewUpstreamError("AI provider", err)
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		observability.AIRequests.WithLabelValues(operation, "error").Inc()
		return "", models.NewUpstreamError("AI provider", err)
	}

	if resp.StatusCode != http.StatusOK {
		observability.AIRequests.WithLabelValues(operation, "error").Inc()
		detail := fmt.Errorf("status %d", resp.StatusCode)
		if parsed.Error != nil && parsed.Error.Message != "" {
			detail = fmt.Errorf("status %d: %s", resp.StatusCode, parsed.Error.Message)
		}
		return "", models.NewUpstreamError("AI provider", detail)
	}

	if len(parsed.Choices) == 0 {
		observability.AIRequests.WithLabelValues(operation, "error").Inc()
		return "", models.NewUpstreamError("AI provider", fmt.Errorf("empty completion"))
	}

	observability.AIRequests.WithLabelValues(operation, "success").Inc()
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

// GenerateMessage drafts a new message from a prompt.
func (s *AIService) GenerateMessage(ctx context.Context, prompt string, opts AIMessageOptions) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", models.NewValidationError("Prompt is required")
	}
	opts = opts.withDefaults()

	systemPrompt := fmt.Sprintf(
		"You are a helpful AI assistant that helps users write messages. "+
			"Create a %s message in a %s tone with a %s style. "+
			"The message should be well-written, engaging, and appropriate for the context.",
		opts.Length, opts.Tone, opts.Style,
	)
	return s.complete(ctx, "generate", systemPrompt, prompt, 0.7, 500)
}

// ImproveMessage rewrites an existing message per the requested options
// while keeping its intent.
func (s *AIService) ImproveMessage(ctx context.Context, message string, opts AIMessageOptions) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", models.NewValidationError("Message is required")
	}
	opts = opts.withDefaults()

	systemPrompt := fmt.Sprintf(
		"You are a helpful AI assistant that improves messages. "+
			"Improve the following message to be more %s, %s, and %s. "+
			"Fix any grammar or style issues while maintaining the original intent.",
		opts.Tone, opts.Length, opts.Style,
	)
	return s.complete(ctx, "improve", systemPrompt, message, 0.7, 500)
}

// ReplySuggestions proposes distinct replies to a received message. The
// model returns a numbered list which is split into individual suggestions.
func (s *AIService) ReplySuggestions(ctx context.Context, message string, count int) ([]string, error) {
	if strings.TrimSpace(message) == "" {
		return nil, models.NewValidationError("Message is required")
	}
	if count <= 0 {
		count = 3
	}

	systemPrompt := fmt.Sprintf(
		"You are a helpful AI assistant that generates reply suggestions. "+
			"Generate %d different reply options for the following message. "+
			"Each reply should be unique in tone and approach while being appropriate for the context.",
		count,
	)
	content, err := s.complete(ctx, "replies", systemPrompt, message, 0.8, 1000)
	if err != nil {
		return nil, err
	}

	var replies []string
	for _, part := range replySplitPattern.Split(content, -1) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			replies = append(replies, trimmed)
		}
	}
	if len(replies) == 0 {
		return nil, models.NewUpstreamError("AI provider", fmt.Errorf("no suggestions in completion"))
	}
	return replies, nil
}
