package extract

import (
	"context"
	"fmt"
	"strings"

	"hourlog/linescan"
	"hourlog/remote"
	"hourlog/taxonomy"
)

// DefaultStrategyOrder is the priority order used when none is configured.
var DefaultStrategyOrder = []string{remote.OpenAIStrategyName, remote.GeminiStrategyName, linescan.StrategyName}

// Dependencies carries what the known strategies need to be built.
type Dependencies struct {
	Taxonomy *taxonomy.Index
	OpenAI   remote.OpenAIConfig
	Gemini   remote.GeminiConfig
}

// BuildStrategies creates the named strategies in the given order.
func BuildStrategies(names []string, deps Dependencies) ([]Strategy, error) {
	if len(names) == 0 {
		names = DefaultStrategyOrder
	}

	strategies := make([]Strategy, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if seen[key] {
			return nil, fmt.Errorf("strategy %q listed twice", name)
		}
		seen[key] = true

		switch key {
		case remote.OpenAIStrategyName:
			strategies = append(strategies, remote.NewOpenAI(deps.OpenAI, taxonomyContext(deps.Taxonomy)))
		case remote.GeminiStrategyName:
			strategies = append(strategies, remote.NewGemini(deps.Gemini, taxonomyContext(deps.Taxonomy)))
		case linescan.StrategyName:
			strategies = append(strategies, linescan.New(subtaskFinder(deps.Taxonomy)))
		default:
			return nil, fmt.Errorf("unknown strategy %q", name)
		}
	}
	return strategies, nil
}

// A nil *taxonomy.Index must reach the strategies as a nil interface.
func taxonomyContext(index *taxonomy.Index) remote.TaxonomyContext {
	if index == nil {
		return nil
	}
	return index
}

func subtaskFinder(index *taxonomy.Index) linescan.SubtaskFinder {
	if index == nil {
		return nil
	}
	return index
}

// Service is the core entry point used by the CLI and the HTTP API.
type Service struct {
	orchestrator *Orchestrator
}

func NewService(orchestrator *Orchestrator) *Service {
	return &Service{orchestrator: orchestrator}
}

// Parse validates text, runs the strategy chain and, when override is not
// blank, replaces every record's subtask with it.
func (s *Service) Parse(ctx context.Context, text string, override string) (Outcome, error) {
	if strings.TrimSpace(text) == "" {
		return Outcome{}, ErrEmptyInput
	}

	outcome, err := s.orchestrator.Extract(ctx, text)
	if err != nil {
		return Outcome{}, err
	}

	if override = strings.TrimSpace(override); override != "" {
		for i := range outcome.Records {
			outcome.Records[i] = outcome.Records[i].WithSubtask(override)
		}
	}
	return outcome, nil
}

// OverrideFromPath returns the last non-blank element of a task path.
func OverrideFromPath(path []string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if segment := strings.TrimSpace(path[i]); segment != "" {
			return segment
		}
	}
	return ""
}
