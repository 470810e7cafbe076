// Package gemini is the typed client for the Gemini generateContent API.
// It covers the three request shapes the gateway needs: plain text, vision
// (inline image + instruction) and image generation.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const baseURL = "https://generativelanguage.googleapis.com/v1beta"

// ErrNoAPIKey is returned when no API key is configured. Callers map it
// to their "fallback:no-key" payloads rather than failing the request.
var ErrNoAPIKey = errors.New("gemini api key not configured")

// Client talks to the Gemini REST API.
type Client struct {
	config *config.Config
	rest   *resty.Client
}

// NewClient creates a Gemini client from config.
func NewClient(cfg *config.Config) *Client {
	rest := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(cfg.Gemini.Timeout).
		SetHeader("Content-Type", "application/json")

	return &Client{
		config: cfg,
		rest:   rest,
	}
}

// Part is one piece of request or response content.
type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inlineData,omitempty"`
}

// InlineData carries an inline binary payload, base64 encoded.
type InlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

// Content is a role-tagged list of parts.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// GenerationConfig tunes a generateContent call.
type GenerationConfig struct {
	ResponseModalities []string `json:"responseModalities,omitempty"`
	MaxOutputTokens    int      `json:"maxOutputTokens,omitempty"`
	Temperature        float64  `json:"temperature,omitempty"`
}

// GenerateRequest is the generateContent request body.
type GenerateRequest struct {
	Contents         []Content         `json:"contents"`
	GenerationConfig *GenerationConfig `json:"generationConfig,omitempty"`
}

// Candidate is one model completion.
type Candidate struct {
	Content       Content         `json:"content"`
	FinishReason  string          `json:"finishReason,omitempty"`
	SafetyRatings json.RawMessage `json:"safetyRatings,omitempty"`
}

// GenerateResponse is the generateContent response body.
type GenerateResponse struct {
	Candidates     []Candidate     `json:"candidates"`
	PromptFeedback json.RawMessage `json:"promptFeedback,omitempty"`
}

// apiError is the Gemini error envelope.
type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// generate posts a request against the given model and returns the decoded
// response plus the raw body for structural fallback scans.
func (c *Client) generate(ctx context.Context, model string, req *GenerateRequest) (*GenerateResponse, []byte, error) {
	if c.config.Gemini.APIKey == "" {
		return nil, nil, ErrNoAPIKey
	}

	resp, err := c.rest.R().
		SetContext(ctx).
		SetQueryParam("key", c.config.Gemini.APIKey).
		SetBody(req).
		Post(fmt.Sprintf("/models/%s:generateContent", model))
	if err != nil {
		common.LogError("gemini request failed",
			zap.Error(err),
			zap.String("model", model),
		)
		return nil, nil, fmt.Errorf("failed to send request: %w", err)
	}

	body := resp.Body()
	if resp.StatusCode() != http.StatusOK {
		var apiErr apiError
		msg := resp.Status()
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
			msg = apiErr.Error.Message
		}
		common.LogError("gemini returned error status",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("model", model),
			zap.String("message", msg),
		)
		return nil, body, fmt.Errorf("gemini error (status %d): %s", resp.StatusCode(), msg)
	}

	var out GenerateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, body, fmt.Errorf("failed to parse response: %w", err)
	}

	return &out, body, nil
}

// Text concatenates the text parts of the first candidate.
func (r *GenerateResponse) Text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var out string
	for _, part := range r.Candidates[0].Content.Parts {
		out += part.Text
	}
	return out
}

// GenerateText runs a plain text prompt against the text model.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	req := &GenerateRequest{
		Contents: []Content{
			{Parts: []Part{{Text: prompt}}},
		},
	}
	resp, _, err := c.generate(ctx, c.config.Gemini.TextModel, req)
	if err != nil {
		return "", err
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty content in response")
	}

	common.LogInfo("gemini text response",
		zap.String("model", c.config.Gemini.TextModel),
		zap.Int("content_length", len(text)),
	)
	return text, nil
}

// GenerateVision sends an inline image plus an instruction prompt to the
// vision model and returns the raw text reply.
func (c *Client) GenerateVision(ctx context.Context, prompt string, image []byte, mimeType string) (string, error) {
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	req := &GenerateRequest{
		Contents: []Content{
			{Parts: []Part{
				{InlineData: &InlineData{MimeType: mimeType, Data: encodeBase64(image)}},
				{Text: prompt},
			}},
		},
	}
	resp, _, err := c.generate(ctx, c.config.Gemini.VisionModel, req)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}
