package runtime

import (
	"errors"
)

// Binding errors returned by Environment operations. The evaluator maps
// them onto the public error taxonomy with source positions attached.
var (
	// ErrNotDeclared is returned when a name is missing from the chain.
	ErrNotDeclared = errors.New("not declared")
	// ErrConstAssign is returned on assignment to a const binding.
	ErrConstAssign = errors.New("assignment to constant")
	// ErrRedeclared is returned when a let/const name is declared twice in
	// the same scope.
	ErrRedeclared = errors.New("already declared")
	// ErrUninitialized is returned when a binding is read inside its
	// temporal dead zone.
	ErrUninitialized = errors.New("not initialized")
)

// BindingKind is the declaration form of a binding.
type BindingKind int

const (
	// BindVar is `var`-like: redeclaration in the same scope is allowed.
	BindVar BindingKind = iota
	// BindLet is `let`: block-scoped, no redeclaration.
	BindLet
	// BindConst is `const`: block-scoped, no redeclaration, no assignment.
	BindConst
	// BindGlobal marks host-provided globals and built-ins; they behave
	// like var bindings but survive ClearGlobals.
	BindGlobal
)

// binding is one environment slot.
type binding struct {
	value       Value
	kind        BindingKind
	initialized bool
}

// Environment is a lexical scope: a mapping from names to bindings plus a
// parent pointer. A scope is created for the program, each block, each
// function call, each catch clause and each loop iteration, so `let` per
// iteration is fresh. Closures keep their defining environment alive.
type Environment struct {
	store map[string]*binding
	outer *Environment
}

// NewEnvironment creates a root environment with no outer scope.
func NewEnvironment() *Environment {
	return &Environment{store: make(map[string]*binding)}
}

// NewEnclosedEnvironment creates a child scope of outer.
func NewEnclosedEnvironment(outer *Environment) *Environment {
	return &Environment{store: make(map[string]*binding), outer: outer}
}

// Declare creates a binding in this scope. Let/const redeclaration in the
// same scope fails with ErrRedeclared; var redeclaration overwrites.
func (e *Environment) Declare(name string, kind BindingKind, value Value) error {
	if existing, ok := e.store[name]; ok {
		if kind == BindLet || kind == BindConst ||
			existing.kind == BindLet || existing.kind == BindConst {
			return ErrRedeclared
		}
		existing.value = value
		existing.kind = kind
		existing.initialized = value != nil
		return nil
	}
	e.store[name] = &binding{value: value, kind: kind, initialized: value != nil}
	return nil
}

// DeclareUninitialized creates a let/const binding in its temporal dead
// zone; Initialize completes it.
func (e *Environment) DeclareUninitialized(name string, kind BindingKind) error {
	if _, ok := e.store[name]; ok {
		return ErrRedeclared
	}
	e.store[name] = &binding{kind: kind}
	return nil
}

// Initialize sets the first value of an uninitialized binding in this
// scope, ending its dead zone. Used for let/const declarations.
func (e *Environment) Initialize(name string, value Value) {
	if b, ok := e.store[name]; ok {
		b.value = value
		b.initialized = true
	}
}

// Get resolves a name through the scope chain.
func (e *Environment) Get(name string) (Value, error) {
	for env := e; env != nil; env = env.outer {
		if b, ok := env.store[name]; ok {
			if !b.initialized {
				return nil, ErrUninitialized
			}
			if b.value == nil {
				return Undefined, nil
			}
			return b.value, nil
		}
	}
	return nil, ErrNotDeclared
}

// Assign updates the nearest binding of name. Fails with ErrNotDeclared
// when no scope declares it and with ErrConstAssign on const bindings.
func (e *Environment) Assign(name string, value Value) error {
	for env := e; env != nil; env = env.outer {
		if b, ok := env.store[name]; ok {
			if b.kind == BindConst && b.initialized {
				return ErrConstAssign
			}
			b.value = value
			b.initialized = true
			return nil
		}
	}
	return ErrNotDeclared
}

// Has reports whether name resolves anywhere in the chain.
func (e *Environment) Has(name string) bool {
	for env := e; env != nil; env = env.outer {
		if _, ok := env.store[name]; ok {
			return true
		}
	}
	return false
}

// HasLocal reports whether name is bound in this scope only.
func (e *Environment) HasLocal(name string) bool {
	_, ok := e.store[name]
	return ok
}

// Delete removes a binding from this scope. Reports whether it existed.
func (e *Environment) Delete(name string) bool {
	if _, ok := e.store[name]; !ok {
		return false
	}
	delete(e.store, name)
	return true
}

// Outer returns the parent scope, or nil at the root.
func (e *Environment) Outer() *Environment {
	return e.outer
}

// SetOuter relinks the parent scope. The facade uses this to splice a
// per-call globals layer into the chain for the duration of one call.
func (e *Environment) SetOuter(outer *Environment) {
	e.outer = outer
}

// Range iterates the bindings of this scope only. Iteration stops when f
// returns false.
func (e *Environment) Range(f func(name string, value Value, kind BindingKind) bool) {
	for name, b := range e.store {
		v := b.value
		if v == nil {
			v = Undefined
		}
		if !f(name, v, b.kind) {
			return
		}
	}
}

// ClearUserBindings drops every binding that is not a global, restoring
// the scope to its constructor-provided contents.
func (e *Environment) ClearUserBindings() {
	for name, b := range e.store {
		if b.kind != BindGlobal {
			delete(e.store, name)
		}
	}
}
