package interp

import (
	"context"

	ierr "github.com/cwbudde/go-sandjs/errors"
	"github.com/cwbudde/go-sandjs/internal/runtime"
	"github.com/cwbudde/go-sandjs/pkg/ast"
)

// Step is one unit of stepped evaluation: the statement just executed, or
// the final completion step.
type Step struct {
	// Kind is the ES-tree node kind of the executed statement, empty on
	// the final step.
	Kind string
	// Line is the statement's source line when known.
	Line int
	// Done is true on the final step only.
	Done bool
	// Value carries the program completion value on the final step,
	// converted for the host.
	Value any
}

// Stepper evaluates a program one top-level statement at a time. Scope is
// observable between steps through GetScope. A stepper is finite; create
// a new one to restart.
type Stepper struct {
	interp  *Interpreter
	program *ast.Program
	ctx     *execCtx
	idx     int
	last    runtime.Value
	done    bool
	hoisted bool
}

// EvaluateSteps prepares stepped evaluation of a source string or parsed
// program. The program runs under the synchronous driver.
func (i *Interpreter) EvaluateSteps(source any, opts ...CallOption) (*Stepper, error) {
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
	return &Stepper{
		interp:  i,
		program: program,
		ctx:     i.newExecCtx(context.Background(), false),
		last:    runtime.Undefined,
	}, nil
}

// Next executes the next top-level statement and reports it. The final
// call returns Done=true with the completion value and no statement.
func (s *Stepper) Next() (*Step, error) {
	if s.done {
		return &Step{Done: true, Value: s.interp.boundary.ToHost(s.last)}, nil
	}
	if !s.hoisted {
		if err := s.interp.hoistFunctions(s.ctx, s.program.Statements); err != nil {
			s.done = true
			return nil, s.interp.surfaceError(err)
		}
		s.hoisted = true
	}
	if s.idx >= len(s.program.Statements) {
		s.done = true
		return &Step{Done: true, Value: s.interp.boundary.ToHost(s.last)}, nil
	}

	stmt := s.program.Statements[s.idx]
	s.idx++

	v, err := s.interp.evalNode(s.ctx, stmt)
	if err != nil {
		s.done = true
		return nil, s.interp.surfaceError(err)
	}
	if s.ctx.flow.IsActive() {
		s.done = true
		return nil, ierr.NewSyntaxErrorf("'%s' outside of loop or function", s.ctx.flow.Kind())
	}
	if _, ok := stmt.(*ast.ExpressionStatement); ok {
		s.last = v
	}
	return &Step{Kind: stmt.Kind(), Line: stmt.Pos().Line}, nil
}
