package linescan

import (
	"context"

	"hourlog/internal/logging"
	"hourlog/worklog"
)

// StrategyName identifies the deterministic extractor in strategy chains.
const StrategyName = "regex"

func (s *Scanner) Name() string {
	return StrategyName
}

// Fields reports canonical names only; the scanner emits canonical keys.
func (s *Scanner) Fields() worklog.FieldMap {
	return worklog.FieldMap{}
}

// Extract runs Scan and exposes its records under canonical keys.
func (s *Scanner) Extract(ctx context.Context, text string) (worklog.Extraction, error) {
	if err := ctx.Err(); err != nil {
		return worklog.Extraction{}, err
	}

	result := s.Scan(text)
	logger := logging.FromContext(ctx)
	for _, message := range result.Errors {
		logger.Debug("rejected value", "strategy", StrategyName, "reason", message)
	}
	records := make([]worklog.RawRecord, 0, len(result.Records))
	for i, record := range result.Records {
		raw := record.Raw()
		raw.Index = i
		records = append(records, raw)
	}
	return worklog.Extraction{Records: records, Warnings: result.Errors}, nil
}
