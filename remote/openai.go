package remote

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"hourlog/internal/logging"
	"hourlog/worklog"
)

const (
	OpenAIStrategyName = "openai"
	DefaultOpenAIModel = "gpt-3.5-turbo"
)

type OpenAIConfig struct {
	APIKey      string
	Model       string
	BaseURL     string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
	// LLM replaces the langchaingo OpenAI client, mainly for tests.
	LLM llms.Model
}

// OpenAI extracts records through a chat completion endpoint.
type OpenAI struct {
	cfg      OpenAIConfig
	taxonomy TaxonomyContext
}

func NewOpenAI(cfg OpenAIConfig, taxonomy TaxonomyContext) *OpenAI {
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = DefaultOpenAIModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 2048
	}
	return &OpenAI{cfg: cfg, taxonomy: taxonomy}
}

func (o *OpenAI) Name() string {
	return OpenAIStrategyName
}

func (o *OpenAI) Fields() worklog.FieldMap {
	return worklog.FieldMap{
		Employee:    []string{"name"},
		Date:        []string{"date"},
		StartTime:   []string{"start_time"},
		EndTime:     []string{"end_time"},
		Description: []string{"description"},
	}
}

func (o *OpenAI) Extract(ctx context.Context, text string) (worklog.Extraction, error) {
	log := logging.FromContext(ctx).With("strategy", OpenAIStrategyName)

	model, err := o.model()
	if err != nil {
		return worklog.Extraction{}, fail("OpenAI", err)
	}

	prompt := ChatPrompt(text)
	log.Debug("sending chat completion", "model", o.cfg.Model, "prompt_chars", len(prompt))

	response, err := model.GenerateContent(ctx,
		[]llms.MessageContent{
			llms.TextParts(llms.ChatMessageTypeHuman, prompt),
			llms.TextParts(llms.ChatMessageTypeSystem, ChatSystemContext(o.taxonomy)),
		},
		llms.WithTemperature(o.cfg.Temperature),
		llms.WithMaxTokens(o.cfg.MaxTokens),
	)
	if err != nil {
		return worklog.Extraction{}, fail("OpenAI", err)
	}
	if response == nil || len(response.Choices) == 0 || response.Choices[0] == nil {
		return worklog.Extraction{}, fail("OpenAI", ErrEmptyResponse)
	}

	content := response.Choices[0].Content
	log.Debug("chat completion received", "response_chars", len(content))

	records, err := ParseRecords(content)
	if err != nil {
		return worklog.Extraction{}, fail("OpenAI", err)
	}
	return worklog.Extraction{Records: records}, nil
}

func (o *OpenAI) model() (llms.Model, error) {
	if o.cfg.LLM != nil {
		return o.cfg.LLM, nil
	}
	if strings.TrimSpace(o.cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}

	opts := []openai.Option{
		openai.WithToken(o.cfg.APIKey),
		openai.WithModel(o.cfg.Model),
	}
	if o.cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(o.cfg.BaseURL))
	}
	if o.cfg.Timeout > 0 {
		opts = append(opts, openai.WithHTTPClient(&http.Client{Timeout: o.cfg.Timeout}))
	}
	return openai.New(opts...)
}
