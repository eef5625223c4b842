package remote

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"hourlog/internal/logging"
	"hourlog/worklog"
)

const GeminiStrategyName = "gemini"

const candidateTextPath = "candidates.0.content.parts.0.text"

type GeminiConfig struct {
	APIKey     string
	URL        string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Gemini extracts records through a content generation endpoint.
type Gemini struct {
	cfg      GeminiConfig
	taxonomy TaxonomyContext
	client   *resty.Client
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

func NewGemini(cfg GeminiConfig, taxonomy TaxonomyContext) *Gemini {
	var client *resty.Client
	if cfg.HTTPClient != nil {
		client = resty.NewWithClient(cfg.HTTPClient)
	} else {
		client = resty.New()
	}
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	client.SetHeader("Content-Type", "application/json")

	return &Gemini{cfg: cfg, taxonomy: taxonomy, client: client}
}

func (g *Gemini) Name() string {
	return GeminiStrategyName
}

func (g *Gemini) Fields() worklog.FieldMap {
	return worklog.FieldMap{
		Employee:    []string{"Employee"},
		Date:        []string{"Date"},
		Time:        []string{"Time"},
		Description: []string{"Description"},
		Subtask:     []string{"Subtask"},
	}
}

func (g *Gemini) Extract(ctx context.Context, text string) (worklog.Extraction, error) {
	log := logging.FromContext(ctx).With("strategy", GeminiStrategyName)

	if strings.TrimSpace(g.cfg.URL) == "" {
		return worklog.Extraction{}, fail("Gemini", ErrMissingURL)
	}
	if strings.TrimSpace(g.cfg.APIKey) == "" {
		return worklog.Extraction{}, fail("Gemini", ErrMissingAPIKey)
	}

	payload := geminiRequest{
		Contents: []geminiContent{{
			Role:  "user",
			Parts: []geminiPart{{Text: ContentPrompt(text, g.taxonomy)}},
		}},
	}

	log.Debug("sending content request")
	resp, err := g.client.R().
		SetContext(ctx).
		SetQueryParam("key", g.cfg.APIKey).
		SetBody(payload).
		Post(g.cfg.URL)
	if err != nil {
		return worklog.Extraction{}, fail("Gemini", fmt.Errorf("request failed: %w", err))
	}

	status := resp.StatusCode()
	body := resp.Body()
	if status < 200 || status >= 300 {
		return worklog.Extraction{}, fail("Gemini", fmt.Errorf(
			"request failed with status %d: %s",
			status,
			strings.TrimSpace(truncate(string(body), 4096)),
		))
	}
	if !gjson.ValidBytes(body) {
		return worklog.Extraction{}, fail("Gemini", fmt.Errorf("decode response: invalid JSON body"))
	}

	candidate := gjson.GetBytes(body, candidateTextPath)
	if !candidate.Exists() || candidate.Type != gjson.String {
		return worklog.Extraction{}, fail("Gemini", ErrEmptyResponse)
	}
	log.Debug("content response received", "response_chars", len(candidate.String()))

	records, err := ParseRecords(candidate.String())
	if err != nil {
		return worklog.Extraction{}, fail("Gemini", err)
	}
	return worklog.Extraction{Records: records}, nil
}

func truncate(value string, limit int) string {
	if len(value) <= limit {
		return value
	}
	for limit > 0 && !utf8.RuneStart(value[limit]) {
		limit--
	}
	return value[:limit]
}
