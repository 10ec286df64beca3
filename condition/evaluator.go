package condition

import (
	"errors"
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/goliatone/go-canvas/engine"
)

// ErrNoEvaluator is returned when an expression engine is unavailable.
var ErrNoEvaluator = errors.New("condition: evaluator not configured")

// Context carries the inputs bound to an expression.
type Context struct {
	Event *engine.PointerEvent
	Keys  map[string]bool
	Args  map[string]any
	Now   time.Time
}

func (ctx Context) withDefaults() Context {
	if ctx.Now.IsZero() {
		if ctx.Event != nil && ctx.Event.Map != nil && !ctx.Event.Map.Now().IsZero() {
			ctx.Now = ctx.Event.Map.Now()
		} else {
			ctx.Now = time.Now()
		}
	}
	if ctx.Keys == nil {
		ctx.Keys = map[string]bool{}
	}
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	return ctx
}

// Bindings returns the variables visible to expressions: type (also bound as
// kind), primary, keys, x, y, shift, ctrl, alt, meta, now and args.
func (ctx Context) Bindings() map[string]any {
	ctx = ctx.withDefaults()
	bindings := map[string]any{
		"type":    "",
		"kind":    "",
		"primary": false,
		"keys":    maps.Clone(ctx.Keys),
		"x":       0.0,
		"y":       0.0,
		"shift":   false,
		"ctrl":    false,
		"alt":     false,
		"meta":    false,
		"now":     ctx.Now,
		"args":    ctx.Args,
	}
	if e := ctx.Event; e != nil {
		bindings["type"] = e.Type
		bindings["kind"] = e.Type
		bindings["primary"] = e.Primary()
		bindings["x"] = e.Coordinate.X
		bindings["y"] = e.Coordinate.Y
		bindings["shift"] = e.Shift
		bindings["ctrl"] = e.Ctrl
		bindings["alt"] = e.Alt
		bindings["meta"] = e.Meta
	}
	return bindings
}

// Evaluator runs expressions against a Context.
type Evaluator interface {
	Evaluate(ctx Context, expr string) (any, error)
	Compile(expr string) (CompiledRule, error)
}

// CompiledRule is a reusable expression program.
type CompiledRule interface {
	Evaluate(ctx Context) (any, error)
}

// EvaluationError captures evaluator metadata alongside the originating error.
type EvaluationError struct {
	Engine string
	Expr   string
	Err    error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("condition: %s evaluator %s: %v", e.Engine, describeExpression(e.Expr), e.Err)
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func describeExpression(expr string) string {
	if expr == "" {
		return "expr=<empty>"
	}
	return fmt.Sprintf("expr=%q", expr)
}

func wrapEvaluationError(engineName, expr string, err error) error {
	if err == nil {
		return nil
	}
	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		if evalErr.Engine == "" {
			evalErr.Engine = engineName
		}
		if evalErr.Expr == "" {
			evalErr.Expr = expr
		}
		return evalErr
	}
	return &EvaluationError{Engine: engineName, Expr: expr, Err: err}
}

var errEmptyExpression = errors.New("expression must not be empty")

func checkExpression(engineName, expr string) error {
	if strings.TrimSpace(expr) == "" {
		return wrapEvaluationError(engineName, expr, errEmptyExpression)
	}
	return nil
}

// EngineName reports which built-in engine backs e.
func EngineName(e Evaluator) string {
	switch e.(type) {
	case nil:
		return "unknown"
	case *exprEvaluator:
		return "expr"
	case *celEvaluator:
		return "cel"
	default:
		if named, ok := e.(interface{ Engine() string }); ok {
			return named.Engine()
		}
		return "custom"
	}
}
