// Package extractor turns receipt photos into structured expense fields via
// an OpenAI-compatible multimodal chat-completions endpoint.
package extractor

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/gsantin/spesebot/internal/errors"
	"github.com/gsantin/spesebot/internal/expense"
)

// Extractor is the receipt-understanding boundary consumed by the flow
// engine.
type Extractor interface {
	// Extract returns a fully validated expense record for the receipt
	// image, or an error when the service fails or returns fields that do
	// not validate. There is no retry and no partial result.
	Extract(ctx context.Context, image []byte) (expense.Record, error)
}

// Config holds extractor settings.
type Config struct {
	APIKey    string
	BaseURL   string
	Model     string
	Timeout   int // seconds
	MaxTokens int
}

// Client calls the inference endpoint over HTTP.
type Client struct {
	cfg    Config
	client *http.Client
	logger *zap.Logger
}

var _ Extractor = (*Client)(nil)

const systemPrompt = `You read photos of retail receipts. Reply with a single JSON object and nothing else:
{"name": "<merchant or short description>", "day": <day of month 1-31>, "price": <total as number>, "primary_category": "<one of: Housing, Health, Groceries, Transport, Out, Travel, Clothing, Leisure, Gifts, Fees, OtherExpenses>", "secondary_category": "<short free-form subcategory>"}`

func NewClient(cfg Config, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60
	}

	return &Client{
		cfg: cfg,
		client: &http.Client{
			Timeout: time.Duration(timeout) * time.Second,
		},
		logger: logger,
	}
}

// fields is the wire shape the model is asked to produce.
type fields struct {
	Name              string      `json:"name"`
	Day               looseNumber `json:"day"`
	Price             looseNumber `json:"price"`
	PrimaryCategory   string      `json:"primary_category"`
	SecondaryCategory string      `json:"secondary_category"`
}

// looseNumber accepts both bare and quoted numbers. Models do not reliably
// emit one or the other, and quoted prices may even carry a comma separator;
// the draft validators do the real checking.
type looseNumber string

func (n *looseNumber) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = looseNumber(s)
		return nil
	}
	*n = looseNumber(b)
	return nil
}

func (n looseNumber) String() string { return string(n) }

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type message struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []message       `json:"messages"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

func (c *Client) Extract(ctx context.Context, image []byte) (expense.Record, error) {
	raw, err := c.complete(ctx, image)
	if err != nil {
		return expense.Record{}, err
	}

	var f fields
	if err := json.Unmarshal([]byte(raw), &f); err != nil {
		return expense.Record{}, apperrors.Wrap(err, apperrors.ErrExtractionFailed.Code, "response is not valid JSON")
	}

	// Every extracted field goes through the same validators as manual
	// input; a single bad field fails the whole extraction.
	draft := expense.NewDraft()
	for _, step := range []struct {
		field string
		set   func() error
	}{
		{"name", func() error { return draft.SetName(f.Name) }},
		{"day", func() error { return draft.SetDay(f.Day.String()) }},
		{"price", func() error { return draft.SetPrice(f.Price.String()) }},
		{"primary_category", func() error { return draft.SetPrimary(f.PrimaryCategory) }},
		{"secondary_category", func() error { return draft.SetSecondary(f.SecondaryCategory) }},
	} {
		if err := step.set(); err != nil {
			return expense.Record{}, apperrors.Wrap(err, apperrors.ErrExtractionFailed.Code,
				fmt.Sprintf("extracted field %q is invalid", step.field))
		}
	}

	rec, err := draft.Complete()
	if err != nil {
		return expense.Record{}, apperrors.Wrap(err, apperrors.ErrExtractionFailed.Code, "incomplete extraction")
	}
	return rec, nil
}

func (c *Client) complete(ctx context.Context, image []byte) (string, error) {
	dataURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(image)

	reqBody := chatRequest{
		Model: c.cfg.Model,
		Messages: []message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: []contentPart{
				{Type: "text", Text: "Extract the expense from this receipt."},
				{Type: "image_url", ImageURL: &imageURL{URL: dataURL}},
			}},
		},
		MaxTokens:      c.cfg.MaxTokens,
		Temperature:    0,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrExtractorUnavailable.Code, "marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrExtractorUnavailable.Code, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrExtractorUnavailable.Code, "call inference service")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrExtractorUnavailable.Code, "read response")
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("inference service error",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return "", apperrors.Wrap(nil, apperrors.ErrExtractorUnavailable.Code,
			fmt.Sprintf("inference service returned %d", resp.StatusCode))
	}

	var chat chatResponse
	if err := json.Unmarshal(body, &chat); err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrExtractionFailed.Code, "decode response")
	}
	if len(chat.Choices) == 0 {
		return "", apperrors.Wrap(nil, apperrors.ErrExtractionFailed.Code, "response has no choices")
	}

	return chat.Choices[0].Message.Content, nil
}
