package condition

import (
	"fmt"
	"maps"

	canvas "github.com/goliatone/go-canvas"
	"github.com/goliatone/go-canvas/engine"
)

// ExpressionOption configures Expression.
type ExpressionOption func(*expressionConfig)

type expressionConfig struct {
	evaluator Evaluator
	keys      *KeyState
	logger    canvas.Logger
	args      map[string]any
}

// WithEvaluator selects the engine compiling the expression. The default is
// NewExprEvaluator.
func WithEvaluator(e Evaluator) ExpressionOption {
	return func(cfg *expressionConfig) {
		if e != nil {
			cfg.evaluator = e
		}
	}
}

// WithKeys binds the held keys of state to the keys variable.
func WithKeys(state *KeyState) ExpressionOption {
	return func(cfg *expressionConfig) {
		cfg.keys = state
	}
}

// WithLogger receives evaluation failures.
func WithLogger(logger canvas.Logger) ExpressionOption {
	return func(cfg *expressionConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithArgs binds args to the args variable.
func WithArgs(args map[string]any) ExpressionOption {
	return func(cfg *expressionConfig) {
		cfg.args = maps.Clone(args)
	}
}

// Expression compiles expr once and returns a condition evaluating it for each
// event. Compilation errors are returned. At evaluation time, errors and
// non-boolean results are logged and the condition does not hold.
func Expression(expr string, opts ...ExpressionOption) (engine.Condition, error) {
	cfg := expressionConfig{
		evaluator: NewExprEvaluator(),
		logger:    canvas.GlogLogger(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	rule, err := cfg.evaluator.Compile(expr)
	if err != nil {
		return nil, err
	}
	engineName := EngineName(cfg.evaluator)
	return func(e *engine.PointerEvent) bool {
		ctx := Context{Event: e, Args: cfg.args}
		if cfg.keys != nil {
			ctx.Keys = cfg.keys.Held()
		}
		value, err := rule.Evaluate(ctx)
		if err != nil {
			cfg.logger.LogDiagnostic(canvas.Diagnostic{
				Component: "condition",
				Op:        "evaluate",
				Target:    engineName,
				Severity:  canvas.SeverityWarning,
				Err:       err,
			})
			return false
		}
		holds, ok := value.(bool)
		if !ok {
			cfg.logger.LogDiagnostic(canvas.Diagnostic{
				Component: "condition",
				Op:        "evaluate",
				Target:    engineName,
				Severity:  canvas.SeverityWarning,
				Message:   fmt.Sprintf("expression %q returned %T, want bool", expr, value),
			})
			return false
		}
		return holds
	}, nil
}
