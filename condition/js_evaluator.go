//go:build js_eval

package condition

import (
	"errors"
	"fmt"
	"time"

	"github.com/dop251/goja"
)

type jsEvaluator struct {
	cache    ProgramCache
	registry *FunctionRegistry
	timeout  time.Duration
}

// NewJSEvaluator constructs an Evaluator backed by goja. Each evaluation runs
// in a fresh runtime, interrupted after DefaultJSTimeout unless JSWithTimeout
// says otherwise.
func NewJSEvaluator(opts ...JSEvaluatorOption) Evaluator {
	s := newJSSettings(opts)
	return &jsEvaluator{
		cache:    s.cache,
		registry: s.registry,
		timeout:  s.timeout,
	}
}

// JSAvailable reports whether the binary was built with the js_eval tag.
func JSAvailable() bool {
	return true
}

func (e *jsEvaluator) Engine() string {
	return "js"
}

func (e *jsEvaluator) Evaluate(ctx Context, expression string) (any, error) {
	program, err := e.loadOrCompile(expression)
	if err != nil {
		return nil, err
	}
	return e.run(program, expression, ctx)
}

func (e *jsEvaluator) Compile(expression string) (CompiledRule, error) {
	program, err := e.loadOrCompile(expression)
	if err != nil {
		return nil, err
	}
	return &jsCompiledRule{evaluator: e, expression: expression, program: program}, nil
}

func (e *jsEvaluator) loadOrCompile(expression string) (*goja.Program, error) {
	if err := checkExpression("js", expression); err != nil {
		return nil, err
	}
	key := cacheKey("js", expression)
	if e.cache != nil {
		if cached, ok := e.cache.Get(key); ok {
			if program, ok := cached.(*goja.Program); ok {
				return program, nil
			}
		}
	}
	program, err := goja.Compile("", wrapExpression(expression), false)
	if err != nil {
		return nil, wrapEvaluationError("js", expression, err)
	}
	if e.cache != nil {
		e.cache.Set(key, program)
	}
	return program, nil
}

func (e *jsEvaluator) run(program *goja.Program, expression string, ctx Context) (any, error) {
	vm := goja.New()
	for key, value := range ctx.Bindings() {
		if err := vm.Set(key, value); err != nil {
			return nil, wrapEvaluationError("js", expression, err)
		}
	}
	if e.registry != nil {
		call := func(name string, arguments ...any) (any, error) {
			return e.registry.Call(name, arguments...)
		}
		if err := vm.Set("call", call); err != nil {
			return nil, wrapEvaluationError("js", expression, err)
		}
		for _, name := range e.registry.Names() {
			fn := name
			if err := vm.Set(fn, func(arguments ...any) (any, error) {
				return e.registry.Call(fn, arguments...)
			}); err != nil {
				return nil, wrapEvaluationError("js", expression, err)
			}
		}
	}
	if e.timeout > 0 {
		timer := time.AfterFunc(e.timeout, func() {
			vm.Interrupt(ErrEvaluationTimeout)
		})
		defer timer.Stop()
	}
	value, err := vm.RunProgram(program)
	if err != nil {
		var interrupted *goja.InterruptedError
		if errors.As(err, &interrupted) {
			err = ErrEvaluationTimeout
		}
		return nil, wrapEvaluationError("js", expression, err)
	}
	return value.Export(), nil
}

func wrapExpression(expression string) string {
	return fmt.Sprintf("(function(){ return (%s); })()", expression)
}

type jsCompiledRule struct {
	evaluator  *jsEvaluator
	expression string
	program    *goja.Program
}

func (r *jsCompiledRule) Evaluate(ctx Context) (any, error) {
	return r.evaluator.run(r.program, r.expression, ctx)
}
