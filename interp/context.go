package interp

import (
	"context"

	"github.com/cwbudde/go-sandjs/internal/runtime"
)

// execCtx carries the per-frame evaluation state: the current scope, the
// control-flow signal channel, `this`, the enclosing class (for super and
// private access), and the async capability flag.
type execCtx struct {
	goctx context.Context
	// env is the current lexical scope.
	env *runtime.Environment
	// varEnv is the nearest function (or program) scope, the target of
	// var declarations.
	varEnv *runtime.Environment
	// flow is shared by all statements of one function frame.
	flow *runtime.ControlFlow
	// thisVal is the current `this`; Undefined at the program top.
	thisVal runtime.Value
	// class is the class whose method body is executing, nil elsewhere.
	class *runtime.ClassValue
	// asyncMode marks frames driven by EvaluateAsync.
	asyncMode bool
	// yieldFn is non-nil inside a generator body.
	yieldFn func(runtime.Value) error
	// superHook runs the parent construction when `super(...)` is called
	// inside a derived class constructor.
	superHook func(args []runtime.Value) error
	// depth is the sandbox call depth for recursion limiting.
	depth int
	// pendingLabel is the label wrapping the next loop/switch statement.
	pendingLabel string
}

// newExecCtx builds the top frame of an evaluation.
func (i *Interpreter) newExecCtx(goctx context.Context, async bool) *execCtx {
	return &execCtx{
		goctx:     goctx,
		env:       i.userEnv,
		varEnv:    i.userEnv,
		flow:      runtime.NewControlFlow(),
		thisVal:   runtime.Undefined,
		asyncMode: async,
	}
}

// withEnv returns a frame identical to ctx but scoped to env.
func (ctx *execCtx) withEnv(env *runtime.Environment) *execCtx {
	child := *ctx
	child.env = env
	child.pendingLabel = ""
	return &child
}

// childScope returns a frame scoped to a fresh child of the current scope.
func (ctx *execCtx) childScope() *execCtx {
	return ctx.withEnv(runtime.NewEnclosedEnvironment(ctx.env))
}

// takeLabel consumes the pending statement label.
func (ctx *execCtx) takeLabel() string {
	label := ctx.pendingLabel
	ctx.pendingLabel = ""
	return label
}

// checkCancelled observes the evaluation context at loop-iteration and
// call boundaries.
func (ctx *execCtx) checkCancelled() error {
	select {
	case <-ctx.goctx.Done():
		return ctx.goctx.Err()
	default:
		return nil
	}
}
