package interp

import (
	"time"

	"github.com/cwbudde/go-sandjs/internal/builtins"
	"github.com/cwbudde/go-sandjs/pkg/ast"
)

// Preset selects the built-in surface by language era.
type Preset = builtins.Preset

// Presets re-exported for embedders.
const (
	ES5    = builtins.ES5
	ES2015 = builtins.ES2015
	ES2017 = builtins.ES2017
	ES2020 = builtins.ES2020
	ES2024 = builtins.ES2024
)

// Validator inspects a parsed program before execution. Returning false
// fails the evaluation with a Validation error; returning an error bubbles
// it out directly.
type Validator func(program *ast.Program) (bool, error)

// SecurityOptions tunes the host boundary policy.
type SecurityOptions struct {
	// HideHostErrorMessages redacts messages of errors thrown by host
	// functions. Default true; the error kind is preserved either way.
	HideHostErrorMessages bool
}

// Option configures an Interpreter at construction.
type Option func(*Interpreter)

// WithGlobals injects host values as sandbox globals. Values are wrapped
// by the security boundary when the interpreter is built.
func WithGlobals(globals map[string]any) Option {
	return func(i *Interpreter) {
		for name, v := range globals {
			i.ctorGlobals[name] = v
		}
	}
}

// WithValidator installs the program validator.
func WithValidator(v Validator) Option {
	return func(i *Interpreter) { i.validator = v }
}

// WithPreset selects which built-ins are exposed.
func WithPreset(p Preset) Option {
	return func(i *Interpreter) { i.preset = p }
}

// WithSecurity replaces the default security options.
func WithSecurity(s SecurityOptions) Option {
	return func(i *Interpreter) { i.security = s }
}

// WithTracker attaches a cumulative resource tracker consulted before
// every evaluation.
func WithTracker(t *ResourceTracker) Option {
	return func(i *Interpreter) { i.tracker = t }
}

// WithTimeout bounds the wall-clock time of each evaluation. Zero means
// no limit.
func WithTimeout(d time.Duration) Option {
	return func(i *Interpreter) { i.timeout = d }
}

// WithMaxCallDepth bounds sandbox recursion. The default is 1024.
func WithMaxCallDepth(depth int) Option {
	return func(i *Interpreter) { i.maxCallDepth = depth }
}

// CallOption overrides constructor options for a single call.
type CallOption func(*callOptions)

type callOptions struct {
	globals   map[string]any
	validator Validator
	hasValidator bool
}

// CallGlobals injects additional globals for one call only. They shadow
// constructor globals during the call and are removed afterwards.
func CallGlobals(globals map[string]any) CallOption {
	return func(o *callOptions) { o.globals = globals }
}

// CallValidator overrides the validator for one call only.
func CallValidator(v Validator) CallOption {
	return func(o *callOptions) {
		o.validator = v
		o.hasValidator = true
	}
}
