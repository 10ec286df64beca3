package condition

import (
	"errors"
	"time"
)

// ErrEvaluationTimeout is returned when a JS expression outlives its budget.
var ErrEvaluationTimeout = errors.New("condition: evaluation timed out")

// DefaultJSTimeout bounds a single JS evaluation. Pointer conditions run on
// every event, so a runaway script must not stall input handling.
const DefaultJSTimeout = 50 * time.Millisecond

// JSEvaluatorOption configures the JS evaluator.
type JSEvaluatorOption func(*jsSettings)

type jsSettings struct {
	cache    ProgramCache
	registry *FunctionRegistry
	timeout  time.Duration
}

// JSWithProgramCache shares compiled scripts through cache.
func JSWithProgramCache(cache ProgramCache) JSEvaluatorOption {
	return func(s *jsSettings) {
		s.cache = cache
	}
}

// JSWithFunctionRegistry exposes the registry functions by name and through
// call(name, ...args).
func JSWithFunctionRegistry(registry *FunctionRegistry) JSEvaluatorOption {
	return func(s *jsSettings) {
		if registry != nil {
			s.registry = registry.Clone()
		}
	}
}

// JSWithTimeout interrupts evaluations running longer than d. Zero disables
// the limit.
func JSWithTimeout(d time.Duration) JSEvaluatorOption {
	return func(s *jsSettings) {
		if d >= 0 {
			s.timeout = d
		}
	}
}

func newJSSettings(opts []JSEvaluatorOption) jsSettings {
	s := jsSettings{timeout: DefaultJSTimeout}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	return s
}
