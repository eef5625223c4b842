// Package extract runs the ordered chain of extraction strategies and maps
// whatever the winning strategy produced onto canonical records.
package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hourlog/internal/logging"
	"hourlog/remote"
	"hourlog/worklog"
)

var (
	ErrEmptyInput          = errors.New("input text cannot be empty")
	ErrAllStrategiesFailed = errors.New("all parsing methods failed")
	ErrNoStrategies        = errors.New("no extraction strategies configured")
)

// Strategy is one self-contained way of turning text into records.
type Strategy interface {
	Name() string
	// Fields lists the strategy's own key names for the canonical fields.
	Fields() worklog.FieldMap
	Extract(ctx context.Context, text string) (worklog.Extraction, error)
}

// Outcome is the result of one orchestrated extraction.
type Outcome struct {
	Records []worklog.Record
	// Errors holds one diagnostic per strategy that failed before the
	// winning one, or every failure when no strategy succeeded.
	Errors []string
	// Warnings are non-fatal diagnostics reported by the winning strategy.
	Warnings []string
	// Strategy names the strategy whose output was used; empty when all failed.
	Strategy string
}

// Orchestrator tries its strategies strictly in order and stops at the first
// one that returns without error.
type Orchestrator struct {
	strategies   []Strategy
	reportErrors bool
}

type Option func(*Orchestrator)

// WithErrorReporting makes total failure return an empty Outcome carrying all
// diagnostics instead of an error.
func WithErrorReporting(enabled bool) Option {
	return func(o *Orchestrator) {
		o.reportErrors = enabled
	}
}

func NewOrchestrator(strategies []Strategy, opts ...Option) *Orchestrator {
	o := &Orchestrator{strategies: append([]Strategy(nil), strategies...)}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Strategies returns the strategy names in priority order.
func (o *Orchestrator) Strategies() []string {
	names := make([]string, 0, len(o.strategies))
	for _, strategy := range o.strategies {
		names = append(names, strategy.Name())
	}
	return names
}

func (o *Orchestrator) Extract(ctx context.Context, text string) (Outcome, error) {
	if len(o.strategies) == 0 {
		return Outcome{}, ErrNoStrategies
	}
	log := logging.FromContext(ctx)

	failures := make([]string, 0, len(o.strategies))
	for _, strategy := range o.strategies {
		name := strategy.Name()
		log.Debug("trying extraction strategy", "strategy", name)

		extraction, err := strategy.Extract(ctx, text)
		if err != nil {
			message := failureMessage(name, err)
			log.Warn("extraction strategy failed", "strategy", name, "error", message)
			failures = append(failures, message)
			continue
		}

		records := Standardize(strategy.Fields(), extraction.Records)
		for _, warning := range extraction.Warnings {
			log.Debug("extraction warning", "strategy", name, "warning", warning)
		}
		log.Info("extraction succeeded", "strategy", name, "records", len(records), "failed_strategies", len(failures))
		return Outcome{
			Records:  records,
			Errors:   failures,
			Warnings: append([]string(nil), extraction.Warnings...),
			Strategy: name,
		}, nil
	}

	log.Error("all extraction strategies failed", "attempts", len(failures))
	if o.reportErrors {
		return Outcome{Records: []worklog.Record{}, Errors: failures}, nil
	}
	return Outcome{}, fmt.Errorf("%w: %s", ErrAllStrategiesFailed, strings.Join(failures, "; "))
}

// Standardize maps strategy-native records onto canonical records.
func Standardize(fields worklog.FieldMap, raw []worklog.RawRecord) []worklog.Record {
	records := make([]worklog.Record, 0, len(raw))
	for _, record := range raw {
		records = append(records, fields.Standardize(record))
	}
	return records
}

// failureMessage keeps the message of a remote failure, which already names
// its strategy, and prefixes anything else with the strategy name.
func failureMessage(name string, err error) string {
	var remoteErr *remote.Error
	if errors.As(err, &remoteErr) {
		return remoteErr.Error()
	}
	return fmt.Sprintf("%s parsing failed: %v", name, err)
}
