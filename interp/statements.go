package interp

import (
	ierr "github.com/cwbudde/go-sandjs/errors"
	"github.com/cwbudde/go-sandjs/internal/runtime"
	"github.com/cwbudde/go-sandjs/pkg/ast"
)

func (i *Interpreter) evalIfStatement(ctx *execCtx, stmt *ast.IfStatement) (runtime.Value, error) {
	test, err := i.evalNode(ctx, stmt.Test)
	if err != nil {
		return nil, err
	}
	if runtime.ToBoolean(test) {
		return i.evalNode(ctx, stmt.Consequent)
	}
	if stmt.Alternate != nil {
		return i.evalNode(ctx, stmt.Alternate)
	}
	return runtime.Undefined, nil
}

// handleLoopFlow resolves a pending break/continue against this loop's
// label. It reports whether the loop should stop.
func handleLoopFlow(ctx *execCtx, label string) (stop bool) {
	switch {
	case ctx.flow.IsBreak():
		target := ctx.flow.Label()
		if target == "" || target == label {
			ctx.flow.Clear()
		}
		return true
	case ctx.flow.IsContinue():
		target := ctx.flow.Label()
		if target == "" || target == label {
			ctx.flow.Clear()
			return false
		}
		return true
	case ctx.flow.IsReturn():
		return true
	default:
		return false
	}
}

func (i *Interpreter) evalWhileStatement(ctx *execCtx, stmt *ast.WhileStatement) (runtime.Value, error) {
	label := ctx.takeLabel()
	for {
		if err := ctx.checkCancelled(); err != nil {
			return nil, err
		}
		test, err := i.evalNode(ctx, stmt.Test)
		if err != nil {
			return nil, err
		}
		if !runtime.ToBoolean(test) {
			return runtime.Undefined, nil
		}
		i.stats.LoopIterations++
		if _, err := i.evalNode(ctx.childScope(), stmt.Body); err != nil {
			return nil, err
		}
		if handleLoopFlow(ctx, label) {
			return runtime.Undefined, nil
		}
	}
}

func (i *Interpreter) evalDoWhileStatement(ctx *execCtx, stmt *ast.DoWhileStatement) (runtime.Value, error) {
	label := ctx.takeLabel()
	for {
		if err := ctx.checkCancelled(); err != nil {
			return nil, err
		}
		i.stats.LoopIterations++
		if _, err := i.evalNode(ctx.childScope(), stmt.Body); err != nil {
			return nil, err
		}
		if handleLoopFlow(ctx, label) {
			return runtime.Undefined, nil
		}
		test, err := i.evalNode(ctx, stmt.Test)
		if err != nil {
			return nil, err
		}
		if !runtime.ToBoolean(test) {
			return runtime.Undefined, nil
		}
	}
}

// evalForStatement runs the classic three-clause loop. A let/const init
// gets a fresh binding per iteration so closures created in the body
// observe distinct values.
func (i *Interpreter) evalForStatement(ctx *execCtx, stmt *ast.ForStatement) (runtime.Value, error) {
	label := ctx.takeLabel()
	loopCtx := ctx.childScope()

	var letNames []string
	if decl, ok := stmt.Init.(*ast.VariableDeclaration); ok && decl.DeclKind != "var" {
		for _, d := range decl.Declarations {
			if ident, ok := d.ID.(*ast.Identifier); ok {
				letNames = append(letNames, ident.Value)
			}
		}
	}

	if stmt.Init != nil {
		if _, err := i.evalNode(loopCtx, stmt.Init); err != nil {
			return nil, err
		}
	}

	// copyLoopVars snapshots the let bindings into a fresh scope, so each
	// iteration's body closes over its own copies.
	copyLoopVars := func(from *execCtx) (*execCtx, error) {
		if len(letNames) == 0 {
			return from, nil
		}
		next := loopCtx.childScope()
		for _, name := range letNames {
			v, err := from.env.Get(name)
			if err != nil {
				return nil, ierr.NewReferenceErrorf("%s is not defined", name)
			}
			_ = next.env.Declare(name, runtime.BindLet, v)
		}
		return next, nil
	}

	iterCtx, err := copyLoopVars(loopCtx)
	if err != nil {
		return nil, err
	}
	for {
		if err := ctx.checkCancelled(); err != nil {
			return nil, err
		}
		if stmt.Test != nil {
			test, err := i.evalNode(iterCtx, stmt.Test)
			if err != nil {
				return nil, err
			}
			if !runtime.ToBoolean(test) {
				return runtime.Undefined, nil
			}
		}

		i.stats.LoopIterations++
		if _, err := i.evalNode(iterCtx.childScope(), stmt.Body); err != nil {
			return nil, err
		}
		if handleLoopFlow(ctx, label) {
			return runtime.Undefined, nil
		}

		// The update runs in the next iteration's copy, leaving the
		// bindings the body captured untouched.
		next, err := copyLoopVars(iterCtx)
		if err != nil {
			return nil, err
		}
		iterCtx = next
		if stmt.Update != nil {
			if _, err := i.evalNode(iterCtx, stmt.Update); err != nil {
				return nil, err
			}
		}
	}
}

func (i *Interpreter) evalForInStatement(ctx *execCtx, stmt *ast.ForInStatement) (runtime.Value, error) {
	label := ctx.takeLabel()
	right, err := i.evalNode(ctx, stmt.Right)
	if err != nil {
		return nil, err
	}

	var keys []string
	switch obj := right.(type) {
	case *runtime.ObjectValue:
		keys = obj.Keys()
	case *runtime.InstanceValue:
		keys = obj.Fields.Keys()
	case *runtime.ArrayValue:
		keys = make([]string, obj.Length())
		for idx := range keys {
			keys[idx] = runtime.FormatNumber(float64(idx))
		}
	case *runtime.HostValue:
		return nil, ierr.NewSecurityErrorf("cannot enumerate host value '%s'", obj.Path)
	case *runtime.UndefinedValue, *runtime.NullValue:
		return runtime.Undefined, nil
	default:
		return runtime.Undefined, nil
	}

	for _, key := range keys {
		if err := ctx.checkCancelled(); err != nil {
			return nil, err
		}
		i.stats.LoopIterations++
		iterCtx := ctx.childScope()
		if err := i.bindForTarget(iterCtx, stmt.Left, runtime.NewString(key)); err != nil {
			return nil, err
		}
		if _, err := i.evalNode(iterCtx.childScope(), stmt.Body); err != nil {
			return nil, err
		}
		if handleLoopFlow(ctx, label) {
			return runtime.Undefined, nil
		}
	}
	return runtime.Undefined, nil
}

func (i *Interpreter) evalForOfStatement(ctx *execCtx, stmt *ast.ForOfStatement) (runtime.Value, error) {
	label := ctx.takeLabel()
	right, err := i.evalNode(ctx, stmt.Right)
	if err != nil {
		return nil, err
	}

	if stmt.Await && !ctx.asyncMode {
		return nil, ierr.NewAsyncInSyncError("'for await'")
	}

	// Async generators are drained one collected value at a time through
	// Next; everything else materializes.
	if gen, ok := right.(*runtime.AsyncGeneratorValue); ok {
		if !stmt.Await {
			return nil, ierr.NewTypeErrorf("async generators require 'for await'")
		}
		for {
			if err := ctx.checkCancelled(); err != nil {
				return nil, err
			}
			v, done, err := gen.Next(ctx.goctx)
			if err != nil {
				return nil, err
			}
			if done {
				return runtime.Undefined, nil
			}
			i.stats.LoopIterations++
			stop, err := i.runForOfBody(ctx, stmt, v, label)
			if err != nil {
				return nil, err
			}
			if stop {
				return runtime.Undefined, nil
			}
		}
	}

	elements, err := i.forOfElements(ctx, right)
	if err != nil {
		return nil, err
	}
	for _, el := range elements {
		if err := ctx.checkCancelled(); err != nil {
			return nil, err
		}
		if stmt.Await {
			if p, ok := el.(*runtime.PromiseValue); ok {
				v, err := p.Await(ctx.goctx)
				if err != nil {
					return nil, err
				}
				el = v
			}
		}
		i.stats.LoopIterations++
		stop, err := i.runForOfBody(ctx, stmt, el, label)
		if err != nil {
			return nil, err
		}
		if stop {
			return runtime.Undefined, nil
		}
	}
	return runtime.Undefined, nil
}

// runForOfBody binds one iteration value and runs the body.
func (i *Interpreter) runForOfBody(ctx *execCtx, stmt *ast.ForOfStatement, value runtime.Value, label string) (stop bool, err error) {
	iterCtx := ctx.childScope()
	if err := i.bindForTarget(iterCtx, stmt.Left, value); err != nil {
		return true, err
	}
	if _, err := i.evalNode(iterCtx.childScope(), stmt.Body); err != nil {
		return true, err
	}
	return handleLoopFlow(ctx, label), nil
}

// bindForTarget binds a for-in/of left-hand clause: a declaration creates
// the per-iteration binding, anything else assigns.
func (i *Interpreter) bindForTarget(ctx *execCtx, left ast.Node, value runtime.Value) error {
	if decl, ok := left.(*ast.VariableDeclaration); ok {
		if len(decl.Declarations) != 1 {
			return ierr.NewSyntaxErrorf("for loop declaration must bind exactly one target")
		}
		return i.bindPattern(ctx, decl.Declarations[0].ID, value, declareBinder(ctx, decl.DeclKind))
	}
	return i.assignToTarget(ctx, left, value)
}

// forOfElements materializes the iterables for-of accepts.
func (i *Interpreter) forOfElements(ctx *execCtx, v runtime.Value) ([]runtime.Value, error) {
	switch val := v.(type) {
	case *runtime.ArrayValue:
		out := make([]runtime.Value, val.Length())
		for idx := range out {
			out[idx] = val.Get(idx)
		}
		return out, nil
	case *runtime.StringValue:
		runes := val.Runes()
		out := make([]runtime.Value, len(runes))
		for idx, r := range runes {
			out[idx] = runtime.NewString(string(r))
		}
		return out, nil
	case *runtime.HostValue:
		if elements, ok := i.boundary.HostElements(val); ok {
			return elements, nil
		}
		return i.collectionElements(val)
	default:
		return nil, ierr.NewTypeErrorf("%s is not iterable", v.Type())
	}
}

func (i *Interpreter) evalSwitchStatement(ctx *execCtx, stmt *ast.SwitchStatement) (runtime.Value, error) {
	label := ctx.takeLabel()
	disc, err := i.evalNode(ctx, stmt.Discriminant)
	if err != nil {
		return nil, err
	}

	switchCtx := ctx.childScope()
	matched := -1
	for idx, c := range stmt.Cases {
		if c.Test == nil {
			continue
		}
		test, err := i.evalNode(switchCtx, c.Test)
		if err != nil {
			return nil, err
		}
		if runtime.StrictEquals(disc, test) {
			matched = idx
			break
		}
	}
	if matched < 0 {
		for idx, c := range stmt.Cases {
			if c.Test == nil {
				matched = idx
				break
			}
		}
	}
	if matched < 0 {
		return runtime.Undefined, nil
	}

	// Fall through from the matched case until a break.
	for idx := matched; idx < len(stmt.Cases); idx++ {
		if _, err := i.evalStatements(switchCtx, stmt.Cases[idx].Body); err != nil {
			return nil, err
		}
		if ctx.flow.IsActive() {
			if ctx.flow.IsBreak() {
				target := ctx.flow.Label()
				if target == "" || target == label {
					ctx.flow.Clear()
				}
			}
			return runtime.Undefined, nil
		}
	}
	return runtime.Undefined, nil
}

// evalTryStatement implements try/catch/finally. The finally block always
// runs; a completion (signal or error) produced inside finally overrides
// any pending completion from the try or catch body.
func (i *Interpreter) evalTryStatement(ctx *execCtx, stmt *ast.TryStatement) (runtime.Value, error) {
	_, tryErr := i.evalNode(ctx, stmt.Block)

	if tryErr != nil && stmt.Handler != nil && catchable(tryErr) {
		catchCtx := ctx.childScope()
		if stmt.Handler.Param != nil {
			if err := i.bindCatchParam(catchCtx, stmt.Handler.Param, tryErr); err != nil {
				return nil, err
			}
		}
		_, tryErr = i.evalBlock(catchCtx, stmt.Handler.Body)
	}

	if stmt.Finalizer != nil {
		saved := ctx.flow.Save()
		_, finErr := i.evalNode(ctx, stmt.Finalizer)
		if finErr != nil {
			// finally's failure overrides the pending completion
			ctx.flow.Clear()
			return nil, finErr
		}
		if ctx.flow.IsActive() {
			// finally's own signal overrides; drop the pending error too
			return runtime.Undefined, nil
		}
		ctx.flow.Restore(saved)
	}

	if tryErr != nil {
		return nil, tryErr
	}
	return runtime.Undefined, nil
}

// catchable reports whether sandbox code may handle the error.
func catchable(err error) bool {
	switch e := err.(type) {
	case *runtime.Thrown:
		return true
	case *ierr.InterpreterError:
		return ierr.Catchable(e.Kind)
	default:
		return false
	}
}

// bindCatchParam binds the catch clause parameter. A simple identifier
// receives the wrapped error object; a destructuring pattern receives the
// raw thrown value.
func (i *Interpreter) bindCatchParam(ctx *execCtx, param ast.Node, thrown error) error {
	binder := declareBinder(ctx, "let")
	if ident, ok := param.(*ast.Identifier); ok {
		return binder(ident.Value, caughtErrorObject(thrown))
	}
	return i.bindPattern(ctx, param, caughtRawValue(thrown), binder)
}

// caughtErrorObject wraps the failure for a simple identifier binding.
func caughtErrorObject(err error) runtime.Value {
	switch e := err.(type) {
	case *runtime.Thrown:
		return runtime.WrapThrown(e.Value)
	case *ierr.InterpreterError:
		return runtime.NewErrorValue(string(e.Kind)+"Error", e.Message)
	default:
		return runtime.NewErrorValue("Error", err.Error())
	}
}

// caughtRawValue is the raw thrown value for pattern bindings.
func caughtRawValue(err error) runtime.Value {
	switch e := err.(type) {
	case *runtime.Thrown:
		return e.Value
	default:
		return caughtErrorObject(err)
	}
}

func (i *Interpreter) evalLabeledStatement(ctx *execCtx, stmt *ast.LabeledStatement) (runtime.Value, error) {
	switch stmt.Body.(type) {
	case *ast.ForStatement, *ast.ForInStatement, *ast.ForOfStatement,
		*ast.WhileStatement, *ast.DoWhileStatement, *ast.SwitchStatement:
		ctx.pendingLabel = stmt.Label.Value
		v, err := i.evalNodeInner(ctx, stmt.Body)
		ctx.pendingLabel = ""
		return v, err
	default:
		v, err := i.evalNode(ctx, stmt.Body)
		if err != nil {
			return nil, err
		}
		if ctx.flow.IsBreak() && ctx.flow.Label() == stmt.Label.Value {
			ctx.flow.Clear()
		}
		return v, nil
	}
}
