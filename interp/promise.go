package interp

import (
	"github.com/cwbudde/go-sandjs/internal/runtime"
)

// Promise is the awaitable handle crossing the host boundary: host
// functions return one to suspend an async evaluation, and settle it from
// any goroutine. Inside the sandbox it awaits like a native promise.
type Promise = runtime.PromiseValue

// NewPromise creates an unsettled promise the host resolves or rejects
// later.
func NewPromise() *Promise {
	return runtime.NewPromise()
}

// ResolveWith returns a promise already settled with the given host
// value.
func (i *Interpreter) ResolveWith(v any) *Promise {
	return runtime.ResolvedPromise(i.boundary.ToSandbox(v, ""))
}

// RejectWith returns a promise already rejected with an error value built
// from the given message.
func RejectWith(message string) *Promise {
	return runtime.RejectedPromise(runtime.Throw(runtime.NewErrorValue("Error", message)))
}
