package interp

import (
	ierr "github.com/cwbudde/go-sandjs/errors"
	"github.com/cwbudde/go-sandjs/internal/runtime"
	"github.com/cwbudde/go-sandjs/pkg/ast"
)

// evalNode dispatches one AST node. Every failure carries the node's
// position by the time it leaves this function.
func (i *Interpreter) evalNode(ctx *execCtx, node ast.Node) (runtime.Value, error) {
	i.stats.NodeCount++

	v, err := i.evalNodeInner(ctx, node)
	if err != nil {
		if ie, ok := err.(*ierr.InterpreterError); ok {
			pos := node.Pos()
			ie.WithPos(pos.Line, pos.Column)
		}
		return nil, err
	}
	if v == nil {
		v = runtime.Undefined
	}
	return v, nil
}

func (i *Interpreter) evalNodeInner(ctx *execCtx, node ast.Node) (runtime.Value, error) {
	switch n := node.(type) {
	// Statements
	case *ast.ExpressionStatement:
		return i.evalNode(ctx, n.Expression)
	case *ast.VariableDeclaration:
		return i.evalVariableDeclaration(ctx, n)
	case *ast.FunctionDeclaration:
		return i.evalFunctionDeclaration(ctx, n)
	case *ast.ClassDeclaration:
		return i.evalClassDeclaration(ctx, n)
	case *ast.BlockStatement:
		return i.evalBlock(ctx.childScope(), n)
	case *ast.IfStatement:
		return i.evalIfStatement(ctx, n)
	case *ast.WhileStatement:
		return i.evalWhileStatement(ctx, n)
	case *ast.DoWhileStatement:
		return i.evalDoWhileStatement(ctx, n)
	case *ast.ForStatement:
		return i.evalForStatement(ctx, n)
	case *ast.ForInStatement:
		return i.evalForInStatement(ctx, n)
	case *ast.ForOfStatement:
		return i.evalForOfStatement(ctx, n)
	case *ast.SwitchStatement:
		return i.evalSwitchStatement(ctx, n)
	case *ast.TryStatement:
		return i.evalTryStatement(ctx, n)
	case *ast.ThrowStatement:
		return i.evalThrowStatement(ctx, n)
	case *ast.ReturnStatement:
		return i.evalReturnStatement(ctx, n)
	case *ast.BreakStatement:
		ctx.flow.SetBreak(labelName(n.Label))
		return runtime.Undefined, nil
	case *ast.ContinueStatement:
		ctx.flow.SetContinue(labelName(n.Label))
		return runtime.Undefined, nil
	case *ast.LabeledStatement:
		return i.evalLabeledStatement(ctx, n)

	// Expressions
	case *ast.NumberLiteral:
		return runtime.Number(n.Value), nil
	case *ast.StringLiteral:
		return runtime.NewString(n.Value), nil
	case *ast.BooleanLiteral:
		return runtime.Boolean(n.Value), nil
	case *ast.NullLiteral:
		return runtime.Null, nil
	case *ast.UndefinedLiteral:
		return runtime.Undefined, nil
	case *ast.RegexLiteral:
		return i.evalRegexLiteral(n)
	case *ast.TemplateLiteral:
		return i.evalTemplateLiteral(ctx, n)
	case *ast.Identifier:
		return i.evalIdentifier(ctx, n)
	case *ast.ThisExpression:
		return ctx.thisVal, nil
	case *ast.ArrayLiteral:
		return i.evalArrayLiteral(ctx, n)
	case *ast.ObjectLiteral:
		return i.evalObjectLiteral(ctx, n)
	case *ast.FunctionLiteral:
		return i.makeFunction(ctx, n), nil
	case *ast.ClassLiteral:
		return i.evalClassLiteral(ctx, n)
	case *ast.UnaryExpression:
		return i.evalUnaryExpression(ctx, n)
	case *ast.UpdateExpression:
		return i.evalUpdateExpression(ctx, n)
	case *ast.BinaryExpression:
		return i.evalBinaryExpression(ctx, n)
	case *ast.LogicalExpression:
		return i.evalLogicalExpression(ctx, n)
	case *ast.ConditionalExpression:
		return i.evalConditionalExpression(ctx, n)
	case *ast.SequenceExpression:
		return i.evalSequenceExpression(ctx, n)
	case *ast.AssignmentExpression:
		return i.evalAssignmentExpression(ctx, n)
	case *ast.MemberExpression:
		v, _, err := i.evalMaybeOptional(ctx, n)
		return v, err
	case *ast.CallExpression:
		v, _, err := i.evalMaybeOptional(ctx, n)
		return v, err
	case *ast.ChainExpression:
		v, _, err := i.evalMaybeOptional(ctx, n.Expression)
		return v, err
	case *ast.NewExpression:
		return i.evalNewExpression(ctx, n)
	case *ast.AwaitExpression:
		return i.evalAwaitExpression(ctx, n)
	case *ast.YieldExpression:
		return i.evalYieldExpression(ctx, n)
	case *ast.SpreadElement:
		return nil, ierr.NewSyntaxErrorf("unexpected spread element")
	case *ast.SuperExpression:
		return nil, ierr.NewSyntaxErrorf("'super' is only valid inside class methods")
	case *ast.PrivateName:
		return nil, ierr.NewSyntaxErrorf("unexpected private name #%s", n.Name)

	default:
		return nil, ierr.NewSyntaxErrorf("unsupported syntax node %s", node.Kind())
	}
}

func labelName(label *ast.Identifier) string {
	if label == nil {
		return ""
	}
	return label.Value
}

// evalProgram runs the top-level statements. Function declarations hoist;
// the completion value is the value of the last expression statement.
func (i *Interpreter) evalProgram(ctx *execCtx, program *ast.Program) (runtime.Value, error) {
	if err := i.hoistFunctions(ctx, program.Statements); err != nil {
		return nil, err
	}

	last := runtime.Value(runtime.Undefined)
	for _, stmt := range program.Statements {
		v, err := i.evalNode(ctx, stmt)
		if err != nil {
			return nil, err
		}
		if ctx.flow.IsActive() {
			switch ctx.flow.Kind() {
			case runtime.FlowReturn:
				return nil, ierr.NewSyntaxErrorf("'return' outside of function")
			default:
				return nil, ierr.NewSyntaxErrorf("'%s' outside of loop", ctx.flow.Kind())
			}
		}
		if _, ok := stmt.(*ast.ExpressionStatement); ok {
			last = v
		}
	}
	return last, nil
}

// evalBlock runs a statement list in the given (already-scoped) frame.
func (i *Interpreter) evalBlock(ctx *execCtx, block *ast.BlockStatement) (runtime.Value, error) {
	return i.evalStatements(ctx, block.Statements)
}

func (i *Interpreter) evalStatements(ctx *execCtx, stmts []ast.Statement) (runtime.Value, error) {
	if err := i.hoistFunctions(ctx, stmts); err != nil {
		return nil, err
	}
	last := runtime.Value(runtime.Undefined)
	for _, stmt := range stmts {
		v, err := i.evalNode(ctx, stmt)
		if err != nil {
			return nil, err
		}
		if ctx.flow.IsActive() {
			return runtime.Undefined, nil
		}
		if _, ok := stmt.(*ast.ExpressionStatement); ok {
			last = v
		}
	}
	return last, nil
}

// hoistFunctions pre-declares function declarations (so mutual recursion
// works regardless of source order) and registers let/const names as
// uninitialized, giving reads before the declaration a dead-zone error.
func (i *Interpreter) hoistFunctions(ctx *execCtx, stmts []ast.Statement) error {
	for _, stmt := range stmts {
		switch decl := stmt.(type) {
		case *ast.FunctionDeclaration:
			fn := i.makeFunction(ctx, decl.Function)
			if err := ctx.env.Declare(decl.Name.Value, runtime.BindVar, fn); err != nil {
				return ierr.NewTypeErrorf("identifier '%s' has already been declared", decl.Name.Value)
			}
		case *ast.VariableDeclaration:
			if decl.DeclKind == "var" {
				continue
			}
			kind := runtime.BindLet
			if decl.DeclKind == "const" {
				kind = runtime.BindConst
			}
			for _, d := range decl.Declarations {
				ident, ok := d.ID.(*ast.Identifier)
				if !ok {
					continue
				}
				if err := ctx.env.DeclareUninitialized(ident.Value, kind); err != nil {
					return ierr.NewTypeErrorf("identifier '%s' has already been declared", ident.Value)
				}
			}
		}
	}
	return nil
}

func (i *Interpreter) evalFunctionDeclaration(ctx *execCtx, decl *ast.FunctionDeclaration) (runtime.Value, error) {
	// The binding was installed during hoisting; re-declaration here is a
	// no-op so the statement itself evaluates to undefined.
	if !ctx.env.HasLocal(decl.Name.Value) {
		fn := i.makeFunction(ctx, decl.Function)
		_ = ctx.env.Declare(decl.Name.Value, runtime.BindVar, fn)
	}
	return runtime.Undefined, nil
}

// makeFunction closes a function literal over the current scope. Arrow
// functions capture `this` and the enclosing class at creation time.
func (i *Interpreter) makeFunction(ctx *execCtx, lit *ast.FunctionLiteral) *runtime.FunctionValue {
	fn := &runtime.FunctionValue{
		Name:           lit.Name,
		Params:         lit.Params,
		Body:           lit.Body,
		ExpressionBody: lit.ExpressionBody,
		Env:            ctx.env,
		IsArrow:        lit.IsArrow,
		IsAsync:        lit.IsAsync,
		IsGenerator:    lit.IsGenerator,
	}
	if lit.IsArrow {
		fn.ThisValue = ctx.thisVal
		fn.HomeClass = ctx.class
	}
	return fn
}

func (i *Interpreter) evalVariableDeclaration(ctx *execCtx, decl *ast.VariableDeclaration) (runtime.Value, error) {
	for _, d := range decl.Declarations {
		var value runtime.Value = runtime.Undefined
		if d.Init != nil {
			v, err := i.evalNode(ctx, d.Init)
			if err != nil {
				return nil, err
			}
			value = v
		} else if decl.DeclKind == "const" {
			return nil, ierr.NewSyntaxErrorf("missing initializer in const declaration")
		}
		if err := i.bindPattern(ctx, d.ID, value, declareBinder(ctx, decl.DeclKind)); err != nil {
			return nil, err
		}
	}
	return runtime.Undefined, nil
}

// declareBinder returns the binding function for a declaration kind,
// targeting the var scope for `var` and the lexical scope otherwise.
func declareBinder(ctx *execCtx, kind string) bindFunc {
	return func(name string, v runtime.Value) error {
		switch kind {
		case "var":
			if err := ctx.varEnv.Declare(name, runtime.BindVar, v); err != nil {
				return ierr.NewTypeErrorf("identifier '%s' has already been declared", name)
			}
		case "const":
			if ctx.env.HasLocal(name) {
				ctx.env.Initialize(name, v) // hoisted dead-zone binding
				return nil
			}
			if err := ctx.env.Declare(name, runtime.BindConst, v); err != nil {
				return ierr.NewTypeErrorf("identifier '%s' has already been declared", name)
			}
		default:
			if ctx.env.HasLocal(name) {
				ctx.env.Initialize(name, v)
				return nil
			}
			if err := ctx.env.Declare(name, runtime.BindLet, v); err != nil {
				return ierr.NewTypeErrorf("identifier '%s' has already been declared", name)
			}
		}
		return nil
	}
}

func (i *Interpreter) evalReturnStatement(ctx *execCtx, stmt *ast.ReturnStatement) (runtime.Value, error) {
	var value runtime.Value = runtime.Undefined
	if stmt.Argument != nil {
		v, err := i.evalNode(ctx, stmt.Argument)
		if err != nil {
			return nil, err
		}
		value = v
	}
	ctx.flow.SetReturn(value)
	return runtime.Undefined, nil
}

func (i *Interpreter) evalThrowStatement(ctx *execCtx, stmt *ast.ThrowStatement) (runtime.Value, error) {
	v, err := i.evalNode(ctx, stmt.Argument)
	if err != nil {
		return nil, err
	}
	return nil, runtime.Throw(v)
}

func (i *Interpreter) evalIdentifier(ctx *execCtx, ident *ast.Identifier) (runtime.Value, error) {
	v, err := ctx.env.Get(ident.Value)
	switch err {
	case nil:
		return v, nil
	case runtime.ErrUninitialized:
		return nil, ierr.NewReferenceErrorf("cannot access '%s' before initialization", ident.Value)
	default:
		return nil, ierr.NewReferenceErrorf("%s is not defined", ident.Value)
	}
}
