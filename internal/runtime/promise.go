package runtime

import (
	"context"
	"sync"
)

// PromiseValue is an awaitable settled by the host or by the async driver.
// Settlement is one-shot; later calls are ignored, per promise semantics.
type PromiseValue struct {
	done    chan struct{}
	once    sync.Once
	result  Value
	failure error
}

// NewPromise creates an unsettled promise.
func NewPromise() *PromiseValue {
	return &PromiseValue{done: make(chan struct{})}
}

// ResolvedPromise returns a promise already settled with v.
func ResolvedPromise(v Value) *PromiseValue {
	p := NewPromise()
	p.Resolve(v)
	return p
}

// RejectedPromise returns a promise already rejected with err.
func RejectedPromise(err error) *PromiseValue {
	p := NewPromise()
	p.Reject(err)
	return p
}

func (p *PromiseValue) Type() string   { return "object" }
func (p *PromiseValue) String() string { return "[object Promise]" }

// Resolve settles the promise with a value. If v is itself a promise the
// settlement is adopted, matching promise resolution.
func (p *PromiseValue) Resolve(v Value) {
	if inner, ok := v.(*PromiseValue); ok && inner != p {
		go func() {
			<-inner.done
			p.once.Do(func() {
				p.result = inner.result
				p.failure = inner.failure
				close(p.done)
			})
		}()
		return
	}
	p.once.Do(func() {
		if v == nil {
			v = Undefined
		}
		p.result = v
		close(p.done)
	})
}

// Reject settles the promise with a failure. Sandbox rejection values are
// carried as *Thrown so catch clauses see the original value.
func (p *PromiseValue) Reject(err error) {
	p.once.Do(func() {
		p.failure = err
		close(p.done)
	})
}

// Await blocks until the promise settles or the context is cancelled.
func (p *PromiseValue) Await(ctx context.Context) (Value, error) {
	select {
	case <-p.done:
		if p.failure != nil {
			return nil, p.failure
		}
		return p.result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Settled reports whether the promise has been resolved or rejected.
func (p *PromiseValue) Settled() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// genItem is one yield of an async generator.
type genItem struct {
	value Value
	err   error
}

// AsyncGeneratorValue iterates values produced by an `async function*`
// body. NewAsyncGenerator backs it with an unbuffered channel whose
// producer blocks at each yield until `for await` asks for the next item;
// NewCollectedAsyncGenerator backs it with the values a body already
// yielded while running to completion, which the interpreter uses.
type AsyncGeneratorValue struct {
	items chan genItem
}

// NewAsyncGenerator creates the generator handle and returns the yield and
// finish functions the driver wires into the generator body.
func NewAsyncGenerator() (*AsyncGeneratorValue, func(ctx context.Context, v Value) error, func(err error)) {
	g := &AsyncGeneratorValue{items: make(chan genItem)}
	yield := func(ctx context.Context, v Value) error {
		select {
		case g.items <- genItem{value: v}:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	finish := func(err error) {
		if err != nil {
			g.items <- genItem{err: err}
		}
		close(g.items)
	}
	return g, yield, finish
}

// NewCollectedAsyncGenerator builds a generator over an already-produced
// value sequence, optionally ending with a failure. The synchronous-body
// driver uses it: the generator body runs to completion at call time, so
// side-effect order stays the source order with no extra goroutine.
func NewCollectedAsyncGenerator(values []Value, err error) *AsyncGeneratorValue {
	g := &AsyncGeneratorValue{items: make(chan genItem, len(values)+1)}
	for _, v := range values {
		g.items <- genItem{value: v}
	}
	if err != nil {
		g.items <- genItem{err: err}
	}
	close(g.items)
	return g
}

func (g *AsyncGeneratorValue) Type() string   { return "object" }
func (g *AsyncGeneratorValue) String() string { return "[object AsyncGenerator]" }

// Next returns the next yielded value. done is true when the generator
// completed; err carries a failure raised inside the body.
func (g *AsyncGeneratorValue) Next(ctx context.Context) (v Value, done bool, err error) {
	select {
	case item, ok := <-g.items:
		if !ok {
			return nil, true, nil
		}
		if item.err != nil {
			return nil, true, item.err
		}
		return item.value, false, nil
	case <-ctx.Done():
		return nil, true, ctx.Err()
	}
}
