package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

type fakeTaxonomy string

func (f fakeTaxonomy) JSON() string { return string(f) }

type fakeLLM struct {
	reply    string
	err      error
	messages []llms.MessageContent
}

func (f *fakeLLM) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	f.messages = messages
	if f.err != nil {
		return nil, f.err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: f.reply}}}, nil
}

func (f *fakeLLM) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, options...)
}

func TestParseRecords(t *testing.T) {
	t.Parallel()

	text := "Here you go:\n```json\n[{\"name\": \"Anna\", \"date\": null, \"hours\": 2.5}]\n```\nDone [really]."
	records, err := ParseRecords(text)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Anna", records[0].Get("name"))
	assert.Equal(t, "", records[0].Get("date"))
	assert.Equal(t, "2.5", records[0].Get("hours"))
}

func TestParseRecordsFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want error
	}{
		{name: "no array", text: "I could not find anything.", want: ErrNoJSONArray},
		{name: "broken array", text: "[{\"name\": ", want: ErrNoJSONArray},
		{name: "scalar elements", text: "[1, 2]", want: ErrNotRecordArray},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseRecords(tc.text)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestParseRecordsSkipsBracketedProse(t *testing.T) {
	t.Parallel()

	records, err := ParseRecords("Note [see below]: [{\"name\": \"A\"}] and [done]")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "A", records[0].Get("name"))
}

func TestTruncateKeepsRuneBoundary(t *testing.T) {
	t.Parallel()

	got := truncate("ab€cd", 3)
	assert.Equal(t, "ab", got)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "ab€", truncate("ab€cd", 5))
	assert.Equal(t, "short", truncate("short", 10))
}

func TestFindJSONArrayPrefersLongestValidSpan(t *testing.T) {
	t.Parallel()

	got, err := findJSONArray(`prefix [{"a": [1]}, {"b": 2}] trailing ] noise`)
	require.NoError(t, err)
	assert.Equal(t, `[{"a": [1]}, {"b": 2}]`, got)
}

func TestOpenAIExtract(t *testing.T) {
	t.Parallel()

	llm := &fakeLLM{reply: `[{"name": "Markus", "description": "task X", "date": "02.04.2025", "start_time": "09:00", "end_time": "17:00"}]`}
	strategy := NewOpenAI(OpenAIConfig{LLM: llm}, fakeTaxonomy(`{"projects":[]}`))

	extraction, err := strategy.Extract(context.Background(), "Markus worked on task X")
	require.NoError(t, err)
	require.Len(t, extraction.Records, 1)
	assert.Equal(t, "Markus", extraction.Records[0].Get(strategy.Fields().Employee...))
	assert.Equal(t, "09:00", extraction.Records[0].Get(strategy.Fields().StartTime...))

	require.Len(t, llm.messages, 2)
	assert.Equal(t, llms.ChatMessageTypeHuman, llm.messages[0].Role)
	assert.Equal(t, llms.ChatMessageTypeSystem, llm.messages[1].Role)
	system, ok := llm.messages[1].Parts[0].(llms.TextContent)
	require.True(t, ok)
	assert.Equal(t, `Project/task definitions: {"projects":[]}`, system.Text)
}

func TestOpenAIExtractFailures(t *testing.T) {
	t.Parallel()

	t.Run("missing key", func(t *testing.T) {
		t.Parallel()
		_, err := NewOpenAI(OpenAIConfig{}, nil).Extract(context.Background(), "x")
		var remoteErr *Error
		require.ErrorAs(t, err, &remoteErr)
		assert.Equal(t, "OpenAI", remoteErr.Strategy)
		assert.ErrorIs(t, err, ErrMissingAPIKey)
	})

	t.Run("transport error", func(t *testing.T) {
		t.Parallel()
		llm := &fakeLLM{err: errors.New("quota exceeded")}
		_, err := NewOpenAI(OpenAIConfig{LLM: llm}, nil).Extract(context.Background(), "x")
		require.Error(t, err)
		assert.Equal(t, "OpenAI LLM parsing failed: quota exceeded", err.Error())
	})

	t.Run("no array in reply", func(t *testing.T) {
		t.Parallel()
		llm := &fakeLLM{reply: "Sorry, nothing here."}
		_, err := NewOpenAI(OpenAIConfig{LLM: llm}, nil).Extract(context.Background(), "x")
		assert.ErrorIs(t, err, ErrNoJSONArray)
	})
}

func TestGeminiExtract(t *testing.T) {
	t.Parallel()

	var gotKey string
	var gotPrompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("key")
		body, _ := io.ReadAll(r.Body)
		var req geminiRequest
		_ = json.Unmarshal(body, &req)
		if len(req.Contents) == 1 && len(req.Contents[0].Parts) == 1 {
			gotPrompt = req.Contents[0].Parts[0].Text
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"parts":[{"text":"[{\"Employee\":\"Anna\",\"Date\":\"04:01:2025\",\"Time\":\"9:00-11:00\",\"Description\":\"Docs\",\"Subtask\":\"Hotline\"}]"}]}}]}`)
	}))
	defer server.Close()

	strategy := NewGemini(GeminiConfig{APIKey: "secret", URL: server.URL, Timeout: time.Second}, fakeTaxonomy(`{"projects":[]}`))
	extraction, err := strategy.Extract(context.Background(), "Anna did docs")
	require.NoError(t, err)
	assert.Equal(t, "secret", gotKey)
	assert.Contains(t, gotPrompt, "Anna did docs")
	assert.Contains(t, gotPrompt, `{"projects":[]}`)

	require.Len(t, extraction.Records, 1)
	fields := strategy.Fields()
	assert.Equal(t, "Anna", extraction.Records[0].Get(fields.Employee...))
	assert.Equal(t, "9:00-11:00", extraction.Records[0].Get(fields.Time...))
	assert.Equal(t, "Hotline", extraction.Records[0].Get(fields.Subtask...))
}

func TestGeminiExtractFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
		wantMsg string
	}{
		{name: "http error", status: http.StatusTooManyRequests, body: "slow down", wantMsg: "status 429"},
		{name: "no candidates", status: http.StatusOK, body: `{"candidates":[]}`, wantErr: ErrEmptyResponse},
		{name: "no array", status: http.StatusOK, body: `{"candidates":[{"content":{"parts":[{"text":"nothing"}]}}]}`, wantErr: ErrNoJSONArray},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			}))
			defer server.Close()

			_, err := NewGemini(GeminiConfig{APIKey: "k", URL: server.URL}, nil).Extract(context.Background(), "x")
			require.Error(t, err)
			assert.True(t, strings.HasPrefix(err.Error(), "Gemini LLM parsing failed: "), err.Error())
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			}
			if tc.wantMsg != "" {
				assert.Contains(t, err.Error(), tc.wantMsg)
			}
		})
	}
}

func TestGeminiRequiresConfiguration(t *testing.T) {
	t.Parallel()

	_, err := NewGemini(GeminiConfig{APIKey: "k"}, nil).Extract(context.Background(), "x")
	assert.ErrorIs(t, err, ErrMissingURL)

	_, err = NewGemini(GeminiConfig{URL: "http://127.0.0.1:1"}, nil).Extract(context.Background(), "x")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestPromptsEmbedInputAndTaxonomy(t *testing.T) {
	t.Parallel()

	assert.Contains(t, ChatPrompt("my log text"), "my log text")
	assert.Equal(t, "Project/task definitions: {}", ChatSystemContext(nil))
	assert.Contains(t, ContentPrompt("my log text", fakeTaxonomy(`{"x":1}`)), `{"x":1}`)
}
