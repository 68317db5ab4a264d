// Package openai implements the Narrator interface against an
// OpenAI-compatible chat completion endpoint in JSON mode.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"itinero/config"
	"itinero/internal/domain/service"

	"github.com/pkg/errors"
)

const (
	defaultBaseURL     = "https://api.openai.com/v1"
	defaultModel       = "gpt-4o-mini"
	defaultTemperature = 0.7
	defaultTimeout     = 60 * time.Second
)

// systemPrompt pins the model to a strict JSON contract: one result per
// input address, in input order.
const systemPrompt = `You are a knowledgeable travel guide. The user sends a list of addresses, one per line, each prefixed with "- ".
For every address, in the same order, produce one result object with:
- "address": the input address, echoed back;
- "introduction": a short engaging introduction to the location (2-3 sentences);
- "creationDate": when the place was established or built, or an empty string if unknown;
- "placesToVisit": an array of notable nearby places, each with "name", "address" (full postal address), "context" (one sentence on why it is worth visiting), and "paid" ("yes", "no", or the admission price if known).
Respond with a single JSON object of the form {"results": [...]} and nothing else. The results array must contain exactly one entry per input address.`

type client struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	httpClient  *http.Client
	logger      *slog.Logger
}

// New creates an OpenAI-backed Narrator.
func New(cfg *config.EnrichmentConfig, logger *slog.Logger) service.Narrator {
	baseURL := defaultBaseURL
	model := defaultModel
	temperature := defaultTemperature
	timeout := defaultTimeout
	apiKey := ""

	if cfg != nil {
		if cfg.BaseURL != "" {
			baseURL = cfg.BaseURL
		}
		if cfg.Model != "" {
			model = cfg.Model
		}
		if cfg.Temperature > 0 {
			temperature = cfg.Temperature
		}
		if cfg.Timeout > 0 {
			timeout = cfg.Timeout
		}
		apiKey = cfg.APIKey
	}

	return &client{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		apiKey:      apiKey,
		model:       model,
		temperature: temperature,
		httpClient:  &http.Client{Timeout: timeout},
		logger:      logger,
	}
}

type chatRequest struct {
	Model          string        `json:"model"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat formatSpec    `json:"response_format"`
	Messages       []chatMessage `json:"messages"`
}

type formatSpec struct {
	Type string `json:"type"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type narrativePayload struct {
	Results []service.NarrativeSketch `json:"results"`
}

// Describe asks the model for one narrative sketch per address. The
// response count is not checked here; callers own the mismatch policy.
func (c *client) Describe(ctx context.Context, addresses []string) ([]service.NarrativeSketch, error) {
	if len(addresses) == 0 {
		return nil, errors.New("no addresses to describe")
	}

	var prompt strings.Builder
	for _, address := range addresses {
		prompt.WriteString("- ")
		prompt.WriteString(address)
		prompt.WriteString("\n")
	}

	body, err := json.Marshal(chatRequest{
		Model:          c.model,
		Temperature:    c.temperature,
		ResponseFormat: formatSpec{Type: "json_object"},
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt.String()},
		},
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "narrative backend unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.Errorf("narrative backend returned status %d", resp.StatusCode)
	}

	var completion chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return nil, errors.Wrap(err, "decode completion response")
	}

	if len(completion.Choices) == 0 {
		return nil, errors.WithStack(service.ErrMalformedNarrative)
	}

	var payload narrativePayload
	if err := json.Unmarshal([]byte(completion.Choices[0].Message.Content), &payload); err != nil {
		c.logger.Warn("narrative content is not valid JSON", slog.Any("error", err))

		return nil, errors.WithStack(service.ErrMalformedNarrative)
	}

	if payload.Results == nil {
		return nil, errors.WithStack(service.ErrMalformedNarrative)
	}

	return payload.Results, nil
}
