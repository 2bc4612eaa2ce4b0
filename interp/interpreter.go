// Package interp implements the sandboxed ECMAScript interpreter: the
// tree-walking evaluator with its synchronous and cooperative-asynchronous
// drivers, and the embedding facade.
package interp

import (
	"context"
	"time"

	ierr "github.com/cwbudde/go-sandjs/errors"
	"github.com/cwbudde/go-sandjs/internal/builtins"
	"github.com/cwbudde/go-sandjs/internal/lexer"
	"github.com/cwbudde/go-sandjs/internal/parser"
	"github.com/cwbudde/go-sandjs/internal/runtime"
	"github.com/cwbudde/go-sandjs/internal/sandbox"
	"github.com/cwbudde/go-sandjs/pkg/ast"
)

// Interpreter executes sandboxed programs against a fixed set of globals.
// It is safe for concurrent use: evaluations serialize on an internal
// semaphore, and waiting callers honor context cancellation.
type Interpreter struct {
	sem      chan struct{}
	boundary *sandbox.Boundary

	// globalEnv holds built-ins and constructor globals; userEnv holds
	// everything sandbox code declares and survives across evaluations.
	globalEnv *runtime.Environment
	userEnv   *runtime.Environment

	ctorGlobals  map[string]any
	validator    Validator
	preset       Preset
	security     SecurityOptions
	tracker      *ResourceTracker
	timeout      time.Duration
	maxCallDepth int

	stats Stats
}

// New creates an interpreter with the given options.
func New(opts ...Option) *Interpreter {
	i := &Interpreter{
		sem:          make(chan struct{}, 1),
		ctorGlobals:  make(map[string]any),
		preset:       ES2024,
		security:     SecurityOptions{HideHostErrorMessages: true},
		maxCallDepth: 1024,
	}
	for _, opt := range opts {
		opt(i)
	}

	i.boundary = sandbox.NewBoundary(i.security.HideHostErrorMessages)
	i.boundary.Call = func(fn runtime.Value, args []runtime.Value) (runtime.Value, error) {
		// Host-initiated callbacks run in a detached async-capable frame.
		ctx := i.newExecCtx(context.Background(), true)
		return i.callValue(ctx, fn, runtime.Undefined, args)
	}

	i.globalEnv = runtime.NewEnvironment()
	builtins.Install(i.globalEnv, i.boundary, i.preset)
	for name, v := range i.ctorGlobals {
		_ = i.globalEnv.Declare(name, runtime.BindGlobal, i.boundary.ToSandbox(v, name))
	}
	i.userEnv = runtime.NewEnclosedEnvironment(i.globalEnv)
	return i
}

// Parse parses source without evaluating it.
func (i *Interpreter) Parse(source string) (*ast.Program, error) {
	p := parser.New(lexer.New(source))
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		first := errs[0]
		return nil, ierr.NewParseError(first.Msg, first.Pos.Line, first.Pos.Column)
	}
	return program, nil
}

// Evaluate runs a source string or pre-parsed program synchronously and
// returns its completion value converted for the host. Async constructs
// fail with an AsyncInSync error.
func (i *Interpreter) Evaluate(source any, opts ...CallOption) (any, error) {
	return i.run(context.Background(), source, false, opts)
}

// EvaluateAsync runs a source string or pre-parsed program under the
// cooperative async driver: awaits suspend on host promises and the
// provided context cancels between suspension points.
func (i *Interpreter) EvaluateAsync(ctx context.Context, source any, opts ...CallOption) (any, error) {
	return i.run(ctx, source, true, opts)
}

// run is the shared driver behind Evaluate and EvaluateAsync.
func (i *Interpreter) run(goctx context.Context, source any, async bool, opts []CallOption) (any, error) {
	var co callOptions
	for _, opt := range opts {
		opt(&co)
	}

	program, err := i.toProgram(source)
	if err != nil {
		return nil, err
	}

	validator := i.validator
	if co.hasValidator {
		validator = co.validator
	}
	if validator != nil {
		ok, verr := validator(program)
		if verr != nil {
			return nil, verr
		}
		if !ok {
			return nil, ierr.NewValidationError("")
		}
	}

	if i.tracker != nil {
		if err := i.tracker.CheckBudget(); err != nil {
			return nil, err
		}
	}

	// Serialize evaluations; waiting honors cancellation.
	select {
	case i.sem <- struct{}{}:
	case <-goctx.Done():
		return nil, ierr.NewCancelledError("cancelled while waiting for the interpreter")
	}
	defer func() { <-i.sem }()

	if i.timeout > 0 {
		var cancel context.CancelFunc
		goctx, cancel = context.WithTimeout(goctx, i.timeout)
		defer cancel()
	}

	// Splice per-call globals between the constructor globals and the
	// persistent user scope for the duration of this call.
	if len(co.globals) > 0 {
		perCall := runtime.NewEnclosedEnvironment(i.globalEnv)
		for name, v := range co.globals {
			_ = perCall.Declare(name, runtime.BindGlobal, i.boundary.ToSandbox(v, name))
		}
		i.userEnv.SetOuter(perCall)
		defer i.userEnv.SetOuter(i.globalEnv)
	}

	i.stats = Stats{StartTime: time.Now()}
	ctx := i.newExecCtx(goctx, async)

	value, evalErr := i.evalProgram(ctx, program)

	i.stats.Duration = time.Since(i.stats.StartTime)
	if i.tracker != nil {
		i.tracker.Record(i.stats)
	}

	if evalErr != nil {
		return nil, i.surfaceError(evalErr)
	}
	return i.boundary.ToHost(value), nil
}

// toProgram accepts a source string or an already-parsed program.
func (i *Interpreter) toProgram(source any) (*ast.Program, error) {
	switch src := source.(type) {
	case string:
		return i.Parse(src)
	case *ast.Program:
		return src, nil
	default:
		return nil, ierr.NewTypeErrorf("evaluate expects a source string or *ast.Program, got %T", source)
	}
}

// surfaceError translates evaluator failures for the host: sandbox throws
// become base interpreter errors, context failures become Cancelled.
func (i *Interpreter) surfaceError(err error) error {
	switch e := err.(type) {
	case *runtime.Thrown:
		return &ierr.InterpreterError{Kind: ierr.KindError, Message: e.Error()}
	case *ierr.InterpreterError:
		return e
	}
	switch err {
	case context.Canceled:
		return ierr.NewCancelledError("evaluation aborted")
	case context.DeadlineExceeded:
		return ierr.NewCancelledError("evaluation timed out")
	}
	return err
}

// GetScope returns the currently visible bindings (user declarations plus
// globals) converted for the host.
func (i *Interpreter) GetScope() map[string]any {
	out := make(map[string]any)
	collect := func(env *runtime.Environment) {
		env.Range(func(name string, value runtime.Value, _ runtime.BindingKind) bool {
			if _, seen := out[name]; !seen {
				out[name] = i.boundary.ToHost(value)
			}
			return true
		})
	}
	collect(i.userEnv)
	collect(i.globalEnv)
	return out
}

// ClearGlobals drops user-declared bindings while retaining constructor
// globals and built-ins.
func (i *Interpreter) ClearGlobals() {
	i.userEnv = runtime.NewEnclosedEnvironment(i.globalEnv)
}

// GetStats returns the counters of the most recent (or current)
// evaluation.
func (i *Interpreter) GetStats() Stats {
	return i.stats
}
