package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/siamtext/docrank/internal/domain"
)

const expansionSystemPrompt = `You expand search queries for a bilingual Thai/English document search engine.
Given a user query, return up to 5 related terms a relevant document might
contain instead of the query's own words: synonyms, close translations and
domain terms. Respond with JSON only:
{"terms": ["..."], "contextual": false, "confidence": 0.0}
Set "contextual" to true when the terms broaden the topic rather than
restate it. "confidence" is your confidence in the expansion, 0 to 1.`

// Expander generates related query terms via a chat completion model.
type Expander struct {
	client   *openai.Client
	model    string
	maxTerms int
	timeout  time.Duration
	logger   *zap.Logger
}

// ExpanderConfig holds the query expansion provider settings.
type ExpanderConfig struct {
	APIKey   string
	BaseURL  string
	Model    string
	MaxTerms int
	Timeout  time.Duration
	Logger   *zap.Logger
}

// NewExpander creates an OpenAI-compatible query expansion provider.
func NewExpander(cfg *ExpanderConfig) *Expander {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	maxTerms := cfg.MaxTerms
	if maxTerms <= 0 {
		maxTerms = 5
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	return &Expander{
		client:   openai.NewClientWithConfig(clientCfg),
		model:    cfg.Model,
		maxTerms: maxTerms,
		timeout:  timeout,
		logger:   cfg.Logger,
	}
}

// Expand asks the model for related terms. All failures wrap
// domain.ErrExpansionUnavailable so the caller can degrade instead of fail.
func (e *Expander) Expand(ctx context.Context, query string) (domain.Expansion, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: expansionSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: query},
		},
		Temperature: 0.2,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return domain.Expansion{}, fmt.Errorf("expansion request: %w: %w", domain.ErrExpansionUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return domain.Expansion{}, fmt.Errorf("empty expansion response: %w", domain.ErrExpansionUnavailable)
	}

	exp, err := parseExpansion(resp.Choices[0].Message.Content, e.maxTerms)
	if err != nil {
		return domain.Expansion{}, fmt.Errorf("parse expansion: %w: %w", domain.ErrExpansionUnavailable, err)
	}
	return exp, nil
}

func parseExpansion(content string, maxTerms int) (domain.Expansion, error) {
	var parsed struct {
		Terms      []string `json:"terms"`
		Contextual bool     `json:"contextual"`
		Confidence float64  `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return domain.Expansion{}, err
	}

	terms := make([]string, 0, len(parsed.Terms))
	for _, t := range parsed.Terms {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		terms = append(terms, t)
		if len(terms) == maxTerms {
			break
		}
	}

	conf := parsed.Confidence
	if conf < 0 {
		conf = 0
	} else if conf > 1 {
		conf = 1
	}

	return domain.Expansion{Terms: terms, Contextual: parsed.Contextual, Confidence: conf}, nil
}
