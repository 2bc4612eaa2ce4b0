package interp

import (
	"testing"
	"time"

	ierr "github.com/cwbudde/go-sandjs/errors"
)

func TestTrackerCumulativeIterations(t *testing.T) {
	tracker := NewResourceTracker(ResourceLimits{MaxTotalIterations: 15}, 0)
	ip := New(WithTracker(tracker))

	// Each call runs 10 iterations: below the limit individually, above
	// it cumulatively.
	loop := "let s = 0; for (let i = 0; i < 10; i++) { s += 1; } s"
	if _, err := ip.Evaluate(loop); err != nil {
		t.Fatalf("first evaluation should pass: %v", err)
	}
	_, err := ip.Evaluate(loop)
	if !ierr.IsKind(err, ierr.KindResourceExhausted) {
		t.Fatalf("second evaluation should exhaust the tracker, got %v", err)
	}
}

func TestTrackerMaxEvaluations(t *testing.T) {
	tracker := NewResourceTracker(ResourceLimits{MaxEvaluations: 2}, 0)
	ip := New(WithTracker(tracker))
	for range 2 {
		if _, err := ip.Evaluate("1"); err != nil {
			t.Fatal(err)
		}
	}
	_, err := ip.Evaluate("1")
	if !ierr.IsKind(err, ierr.KindResourceExhausted) {
		t.Fatalf("expected ResourceExhausted, got %v", err)
	}
}

func TestTrackerMaxFunctionCalls(t *testing.T) {
	tracker := NewResourceTracker(ResourceLimits{MaxFunctionCalls: 5}, 0)
	ip := New(WithTracker(tracker))
	src := "function f() { return 1; } f(); f(); f()"
	if _, err := ip.Evaluate(src); err != nil {
		t.Fatal(err)
	}
	if _, err := ip.Evaluate(src); err != nil {
		t.Fatal(err) // 3 + 3 calls, checked before the second run (3 < 5)
	}
	_, err := ip.Evaluate(src)
	if !ierr.IsKind(err, ierr.KindResourceExhausted) {
		t.Fatalf("expected ResourceExhausted, got %v", err)
	}
}

func TestTrackerSharedAcrossInterpreters(t *testing.T) {
	tracker := NewResourceTracker(ResourceLimits{MaxEvaluations: 1}, 0)
	a := New(WithTracker(tracker))
	b := New(WithTracker(tracker))
	if _, err := a.Evaluate("1"); err != nil {
		t.Fatal(err)
	}
	_, err := b.Evaluate("1")
	if !ierr.IsKind(err, ierr.KindResourceExhausted) {
		t.Fatalf("tracker should span interpreters, got %v", err)
	}
}

func TestTrackerHistoryIsBounded(t *testing.T) {
	tracker := NewResourceTracker(ResourceLimits{}, 3)
	ip := New(WithTracker(tracker))
	for range 5 {
		if _, err := ip.Evaluate("1 + 1"); err != nil {
			t.Fatal(err)
		}
	}
	history := tracker.History()
	if len(history) != 3 {
		t.Fatalf("expected history capped at 3, got %d", len(history))
	}
	for _, rec := range history {
		if rec.Stats.NodeCount == 0 {
			t.Error("history entry missing node count")
		}
		if rec.When.After(time.Now()) {
			t.Error("history entry timestamp in the future")
		}
	}
	if tracker.Evaluations() != 5 {
		t.Errorf("expected 5 recorded evaluations, got %d", tracker.Evaluations())
	}
}

func TestSteps(t *testing.T) {
	ip := New()
	stepper, err := ip.EvaluateSteps("let a = 1;\nlet b = 2;\na + b")
	if err != nil {
		t.Fatal(err)
	}

	step1, err := stepper.Next()
	if err != nil {
		t.Fatal(err)
	}
	if step1.Done || step1.Kind != "VariableDeclaration" || step1.Line != 1 {
		t.Errorf("unexpected first step: %+v", step1)
	}

	// scope is observable between steps
	if v := ip.GetScope()["a"]; v != 1.0 {
		t.Errorf("expected a=1 visible after step 1, got %v", v)
	}

	if _, err := stepper.Next(); err != nil {
		t.Fatal(err)
	}
	step3, err := stepper.Next()
	if err != nil {
		t.Fatal(err)
	}
	if step3.Kind != "ExpressionStatement" || step3.Line != 3 {
		t.Errorf("unexpected third step: %+v", step3)
	}

	final, err := stepper.Next()
	if err != nil {
		t.Fatal(err)
	}
	if !final.Done || final.Value != 3.0 {
		t.Errorf("unexpected final step: %+v", final)
	}

	// the sequence stays finished
	again, err := stepper.Next()
	if err != nil || !again.Done {
		t.Errorf("stepper should stay done: %+v, %v", again, err)
	}
}

func TestStepsRestartable(t *testing.T) {
	ip := New()
	src := "let n = (typeof n0 === 'undefined') ? 1 : n0; 2"
	first, err := ip.EvaluateSteps(src)
	if err != nil {
		t.Fatal(err)
	}
	for {
		step, err := first.Next()
		if err != nil {
			t.Fatal(err)
		}
		if step.Done {
			break
		}
	}

	// a fresh stepper restarts from the beginning
	ip2 := New()
	second, err := ip2.EvaluateSteps("5; 6")
	if err != nil {
		t.Fatal(err)
	}
	count := 0
	for {
		step, err := second.Next()
		if err != nil {
			t.Fatal(err)
		}
		if step.Done {
			if step.Value != 6.0 {
				t.Errorf("expected completion value 6, got %v", step.Value)
			}
			break
		}
		count++
	}
	if count != 2 {
		t.Errorf("expected 2 statement steps, got %d", count)
	}
}

func TestStepError(t *testing.T) {
	ip := New()
	stepper, err := ip.EvaluateSteps("let ok = 1;\nmissingName;")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := stepper.Next(); err != nil {
		t.Fatal(err)
	}
	if _, err := stepper.Next(); !ierr.IsKind(err, ierr.KindReference) {
		t.Fatalf("expected Reference error from step 2, got %v", err)
	}
}
