package proxy

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/jessearmand/chatproxy/pkg/config"
	"github.com/jessearmand/chatproxy/pkg/llm/provider"
)

// Strategy names.
const (
	StrategySingleSearch = "single-search"
	StrategyDualChained  = "dual-chained"

	// DefaultStrategy is used when the configured name is empty or unknown.
	DefaultStrategy = StrategySingleSearch
)

// strategyAliases maps accepted names, including the names used by earlier
// deployments, to canonical strategy names.
var strategyAliases = map[string]string{
	StrategySingleSearch: StrategySingleSearch,
	StrategyDualChained:  StrategyDualChained,
	"openai_web_search":  StrategySingleSearch,
	"openrouter_xai":     StrategyDualChained,
}

// NormalizeStrategy returns the canonical name for s and whether s is known.
func NormalizeStrategy(s string) (string, bool) {
	name, ok := strategyAliases[strings.ToLower(strings.TrimSpace(s))]
	return name, ok
}

// Step is one upstream call in a Plan.
type Step struct {
	Provider provider.Provider

	// Optional steps degrade silently: a missing key or failed call ends
	// the response without an error.
	Optional bool
}

// Plan is the ordered list of upstream calls made for each question.
type Plan struct {
	Strategy string
	Steps    []Step
}

// Selector holds the plan of every strategy. It is built once at startup and
// read-only afterwards.
type Selector struct {
	plans  map[string]Plan
	logger *slog.Logger
}

// NewSelector builds the plans for every strategy from cfg.
func NewSelector(cfg *config.Config, vectorStoreIDs []string, logger *slog.Logger) (*Selector, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	build := func(name string) (provider.Provider, error) {
		p, err := provider.New(name, cfg, vectorStoreIDs)
		if err != nil {
			return nil, fmt.Errorf("building %s provider: %w", name, err)
		}
		return p, nil
	}

	openaiProv, err := build(provider.OpenAI)
	if err != nil {
		return nil, err
	}
	openrouterProv, err := build(provider.OpenRouter)
	if err != nil {
		return nil, err
	}
	xaiProv, err := build(provider.XAI)
	if err != nil {
		return nil, err
	}

	return &Selector{
		plans: map[string]Plan{
			StrategySingleSearch: {
				Strategy: StrategySingleSearch,
				Steps:    []Step{{Provider: openaiProv}},
			},
			StrategyDualChained: {
				Strategy: StrategyDualChained,
				Steps: []Step{
					{Provider: openrouterProv},
					{Provider: xaiProv, Optional: true},
				},
			},
		},
		logger: logger,
	}, nil
}

// Select returns the plan for name, falling back to DefaultStrategy with a
// warning when name is not recognised. It does no I/O.
func (s *Selector) Select(name string) Plan {
	canonical, ok := NormalizeStrategy(name)
	if !ok {
		s.logger.Warn("unknown strategy, using default",
			"strategy", name,
			"default", DefaultStrategy,
		)
		canonical = DefaultStrategy
	}
	return s.plans[canonical]
}
