package interp

import (
	ierr "github.com/cwbudde/go-sandjs/errors"
	"github.com/cwbudde/go-sandjs/internal/runtime"
	"github.com/cwbudde/go-sandjs/internal/sandbox"
	"github.com/cwbudde/go-sandjs/pkg/ast"
)

// bindFunc receives each (name, value) pair a pattern produces.
type bindFunc func(name string, v runtime.Value) error

// bindPattern destructures value against a binding pattern, calling bind
// for identifiers and recursing for nested patterns. Member-expression
// targets (assignment destructuring) write through the member path.
func (i *Interpreter) bindPattern(ctx *execCtx, pattern ast.Node, value runtime.Value, bind bindFunc) error {
	switch p := pattern.(type) {
	case *ast.Identifier:
		return bind(p.Value, value)

	case *ast.MemberExpression:
		name, err := i.memberName(ctx, p)
		if err != nil {
			return err
		}
		obj, err := i.evalNode(ctx, p.Object)
		if err != nil {
			return err
		}
		return i.setMember(ctx, obj, name, value)

	case *ast.AssignmentPattern:
		if _, isUndef := value.(*runtime.UndefinedValue); isUndef {
			def, err := i.evalNode(ctx, p.Right)
			if err != nil {
				return err
			}
			value = def
		}
		return i.bindPattern(ctx, p.Left, value, bind)

	case *ast.ArrayPattern:
		return i.bindArrayPattern(ctx, p, value, bind)

	case *ast.ObjectPattern:
		return i.bindObjectPattern(ctx, p, value, bind)

	case *ast.RestElement:
		return i.bindPattern(ctx, p.Argument, value, bind)

	default:
		return ierr.NewSyntaxErrorf("invalid binding pattern %s", pattern.Kind())
	}
}

func (i *Interpreter) bindArrayPattern(ctx *execCtx, pattern *ast.ArrayPattern, value runtime.Value, bind bindFunc) error {
	elements, err := i.destructurableElements(ctx, value)
	if err != nil {
		return err
	}
	for idx, target := range pattern.Elements {
		if target == nil {
			continue // elision
		}
		if rest, ok := target.(*ast.RestElement); ok {
			tail := make([]runtime.Value, 0)
			if idx < len(elements) {
				tail = append(tail, elements[idx:]...)
			}
			return i.bindPattern(ctx, rest.Argument, runtime.NewArray(tail), bind)
		}
		var el runtime.Value = runtime.Undefined
		if idx < len(elements) {
			el = elements[idx]
		}
		if err := i.bindPattern(ctx, target, el, bind); err != nil {
			return err
		}
	}
	return nil
}

// destructurableElements materializes an array-destructuring source.
func (i *Interpreter) destructurableElements(ctx *execCtx, value runtime.Value) ([]runtime.Value, error) {
	switch v := value.(type) {
	case *runtime.ArrayValue:
		out := make([]runtime.Value, v.Length())
		for idx := range out {
			out[idx] = v.Get(idx)
		}
		return out, nil
	case *runtime.StringValue:
		runes := v.Runes()
		out := make([]runtime.Value, len(runes))
		for idx, r := range runes {
			out[idx] = runtime.NewString(string(r))
		}
		return out, nil
	case *runtime.HostValue:
		if elements, ok := i.boundary.HostElements(v); ok {
			return elements, nil
		}
		return nil, ierr.NewTypeErrorf("host value '%s' is not array-destructurable", v.Path)
	default:
		return nil, ierr.NewTypeErrorf("%s is not iterable", value.Type())
	}
}

func (i *Interpreter) bindObjectPattern(ctx *execCtx, pattern *ast.ObjectPattern, value runtime.Value, bind bindFunc) error {
	if runtime.IsNullish(value) {
		return ierr.NewTypeErrorf("cannot destructure %s", value.Type())
	}

	taken := make(map[string]bool)
	for _, prop := range pattern.Properties {
		key, err := i.patternKey(ctx, prop)
		if err != nil {
			return err
		}
		taken[key] = true
		v, err := i.getMember(ctx, value, key)
		if err != nil {
			return err
		}
		if err := i.bindPattern(ctx, prop.Value, v, bind); err != nil {
			return err
		}
	}

	if pattern.Rest != nil {
		rest := runtime.NewObject()
		for _, key := range i.enumerableKeys(value) {
			if taken[key] || sandbox.IsForbidden(key) {
				continue
			}
			v, err := i.getMember(ctx, value, key)
			if err != nil {
				return err
			}
			rest.Set(key, v)
		}
		return i.bindPattern(ctx, pattern.Rest, rest, bind)
	}
	return nil
}

// patternKey resolves an object-pattern property key.
func (i *Interpreter) patternKey(ctx *execCtx, prop *ast.ObjectPatternProperty) (string, error) {
	if prop.Computed {
		v, err := i.evalNode(ctx, prop.Key)
		if err != nil {
			return "", err
		}
		return runtime.ToPropertyKey(v), nil
	}
	switch key := prop.Key.(type) {
	case *ast.Identifier:
		return key.Value, nil
	case *ast.StringLiteral:
		return key.Value, nil
	case *ast.NumberLiteral:
		return runtime.FormatNumber(key.Value), nil
	default:
		return "", ierr.NewSyntaxErrorf("invalid pattern key")
	}
}

// enumerableKeys lists the own keys rest collection may copy.
func (i *Interpreter) enumerableKeys(value runtime.Value) []string {
	switch v := value.(type) {
	case *runtime.ObjectValue:
		return v.Keys()
	case *runtime.InstanceValue:
		return v.Fields.Keys()
	case *runtime.HostValue:
		return i.boundary.HostKeys(v)
	default:
		return nil
	}
}
