package brandfit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"regexp"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// DefaultModel is the Claude model used for content analysis.
const DefaultModel = "claude-sonnet-4-5"

const maxTokens = 500

const promptTemplate = `Analyze this Instagram creator's content for GoFundMe brand partnership potential:

Creator: @%s
Recent posts:
%s

Score each category 0-100:
1. Cause Alignment: How often do they mention charitable causes, fundraising, helping others?
2. Brand Safety: Absence of controversial, political, or inappropriate content
3. Audience Authenticity: Quality engagement vs follower count

Return JSON format:
{
  "causeAlignment": 85,
  "brandSafety": 92,
  "audienceAuthenticity": 78,
  "insights": "Brief analysis of why these scores were given"
}`

type sendFunc func(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)

// ClaudeAnalyzer analyzes captions with the Anthropic Messages API.
type ClaudeAnalyzer struct {
	send  sendFunc
	model string
}

// ClaudeOption configures a ClaudeAnalyzer.
type ClaudeOption func(*claudeConfig)

type claudeConfig struct {
	httpClient *http.Client
	baseURL    string
	model      string
}

// WithModel overrides the model.
func WithModel(model string) ClaudeOption {
	return func(c *claudeConfig) { c.model = model }
}

// WithBaseURL overrides the API root.
func WithBaseURL(u string) ClaudeOption {
	return func(c *claudeConfig) { c.baseURL = u }
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(hc *http.Client) ClaudeOption {
	return func(c *claudeConfig) { c.httpClient = hc }
}

// NewClaudeAnalyzer creates an analyzer authenticated with apiKey. SDK retries are
// disabled: a failed call falls back to the heuristic immediately.
func NewClaudeAnalyzer(apiKey string, opts ...ClaudeOption) (*ClaudeAnalyzer, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("anthropic api key required")
	}
	cfg := &claudeConfig{model: DefaultModel}
	for _, opt := range opts {
		opt(cfg)
	}

	reqOpts := []option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}
	if cfg.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.baseURL))
	}
	if cfg.httpClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(cfg.httpClient))
	}

	client := anthropic.NewClient(reqOpts...)
	return &ClaudeAnalyzer{send: client.Messages.New, model: cfg.model}, nil
}

// Analyze sends the captions for scoring and parses the JSON the model returns.
func (c *ClaudeAnalyzer) Analyze(ctx context.Context, handle string, captions []string) (Analysis, error) {
	prompt := fmt.Sprintf(promptTemplate, handle, strings.Join(captions, "\n\n"))

	msg, err := c.send(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   maxTokens,
		Temperature: anthropic.Float(0.3),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return Analysis{}, fmt.Errorf("messages api: %w", err)
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return parseAnalysis(text.String())
}

type analysisResponse struct {
	CauseAlignment       *float64 `json:"causeAlignment"`
	BrandSafety          *float64 `json:"brandSafety"`
	AudienceAuthenticity *float64 `json:"audienceAuthenticity"`
	Insights             *string  `json:"insights"`
}

func parseAnalysis(text string) (Analysis, error) {
	var r analysisResponse
	if err := json.Unmarshal([]byte(extractJSON(text)), &r); err != nil {
		return Analysis{}, fmt.Errorf("decode analysis: %w", err)
	}

	switch {
	case r.CauseAlignment == nil:
		return Analysis{}, fmt.Errorf("%w: causeAlignment", ErrIncomplete)
	case r.BrandSafety == nil:
		return Analysis{}, fmt.Errorf("%w: brandSafety", ErrIncomplete)
	case r.AudienceAuthenticity == nil:
		return Analysis{}, fmt.Errorf("%w: audienceAuthenticity", ErrIncomplete)
	case r.Insights == nil:
		return Analysis{}, fmt.Errorf("%w: insights", ErrIncomplete)
	}
	for _, v := range []float64{*r.CauseAlignment, *r.BrandSafety, *r.AudienceAuthenticity} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Analysis{}, fmt.Errorf("%w: non-finite score", ErrIncomplete)
		}
	}

	return Analysis{
		CauseAlignment:       *r.CauseAlignment,
		BrandSafety:          *r.BrandSafety,
		AudienceAuthenticity: *r.AudienceAuthenticity,
		Insights:             *r.Insights,
	}, nil
}

var fencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(.*?)\\n?```")

// extractJSON pulls a JSON object out of model output, with or without a markdown fence.
func extractJSON(s string) string {
	if m := fencedJSON.FindStringSubmatch(s); len(m) > 1 {
		return strings.TrimSpace(m[1])
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start != -1 && end > start {
		return s[start : end+1]
	}
	return s
}
