// Package remote implements the language-model backed extraction strategies.
// Each strategy makes exactly one request per call and reports every failure
// as an *Error so callers can fall through to the next strategy.
package remote

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"hourlog/worklog"
)

var (
	ErrMissingAPIKey  = errors.New("missing API key")
	ErrMissingURL     = errors.New("missing API URL")
	ErrNoJSONArray    = errors.New("response contains no JSON array")
	ErrEmptyResponse  = errors.New("response contains no completion text")
	ErrNotRecordArray = errors.New("JSON array element is not an object")
)

// Error is the failure of one remote strategy.
type Error struct {
	Strategy string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s LLM parsing failed: %v", e.Strategy, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func fail(strategy string, err error) error {
	return &Error{Strategy: strategy, Err: err}
}

// TaxonomyContext supplies the serialized taxonomy sent alongside prompts.
type TaxonomyContext interface {
	JSON() string
}

// ParseRecords pulls the first well-formed JSON array out of a completion
// text and returns its objects as raw records. Non-string values are kept in
// their JSON form; null becomes an empty string.
func ParseRecords(text string) ([]worklog.RawRecord, error) {
	array, err := findJSONArray(text)
	if err != nil {
		return nil, err
	}

	elements := gjson.Parse(array).Array()
	records := make([]worklog.RawRecord, 0, len(elements))
	for i, element := range elements {
		if !element.IsObject() {
			return nil, fmt.Errorf("element %d: %w", i, ErrNotRecordArray)
		}
		values := make(map[string]string)
		element.ForEach(func(key, value gjson.Result) bool {
			values[key.String()] = renderValue(value)
			return true
		})
		records = append(records, worklog.NewRawRecord(i, values))
	}
	return records, nil
}

// findJSONArray returns the first well-formed JSON array in text: for each
// '[' in order, the longest valid array beginning there.
func findJSONArray(text string) (string, error) {
	start := strings.Index(text, "[")
	if start < 0 {
		return "", ErrNoJSONArray
	}
	for start < len(text) {
		candidate := text[start:]
		for end := strings.LastIndex(candidate, "]"); end >= 0; end = strings.LastIndex(candidate[:end], "]") {
			span := candidate[:end+1]
			if gjson.Valid(span) && gjson.Parse(span).IsArray() {
				return span, nil
			}
		}
		next := strings.Index(text[start+1:], "[")
		if next < 0 {
			break
		}
		start += next + 1
	}
	return "", fmt.Errorf("decode JSON array: %w", ErrNoJSONArray)
}

func renderValue(value gjson.Result) string {
	switch value.Type {
	case gjson.Null:
		return ""
	case gjson.String:
		return value.String()
	default:
		return value.Raw
	}
}
