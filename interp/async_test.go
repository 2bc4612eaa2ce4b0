package interp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ierr "github.com/cwbudde/go-sandjs/errors"
)

func TestAsyncFunctions(t *testing.T) {
	ip := New()
	v, err := ip.EvaluateAsync(context.Background(),
		"let asyncDouble = async x => x * 2; asyncDouble(5) + asyncDouble(10)")
	require.NoError(t, err)
	assert.Equal(t, 30.0, v)
}

func TestAwaitHostPromise(t *testing.T) {
	ip := New(WithGlobals(map[string]any{
		"fetchValue": func() *Promise {
			p := NewPromise()
			go func() {
				time.Sleep(5 * time.Millisecond)
				p.Resolve(nil)
			}()
			return p
		},
	}))
	// The call suspends until the host settles the promise.
	v, err := ip.EvaluateAsync(context.Background(),
		"async function run() { await fetchValue(); return 'settled'; } run()")
	require.NoError(t, err)
	assert.Equal(t, "settled", v)
}

func TestAwaitPlainValue(t *testing.T) {
	ip := New()
	v, err := ip.EvaluateAsync(context.Background(), "await 41 + 1")
	require.NoError(t, err)
	assert.Equal(t, 42.0, v)
}

func TestAsyncInSyncMode(t *testing.T) {
	ip := New()
	_, err := ip.Evaluate("let f = async () => 1; f()")
	require.Error(t, err)
	assert.True(t, ierr.IsKind(err, ierr.KindAsyncInSync), "got %v", err)

	_, err = ip.Evaluate("async function g() { return 1; } g()")
	require.Error(t, err)
	assert.True(t, ierr.IsKind(err, ierr.KindAsyncInSync), "got %v", err)
}

func TestPromiseRejectionIsCatchable(t *testing.T) {
	ip := New()
	v, err := ip.EvaluateAsync(context.Background(), `
		async function risky() { await Promise.reject("nope"); return "unreachable"; }
		async function run() {
			try { return await risky(); }
			catch (e) { return "caught:" + e.message; }
		}
		run()
	`)
	require.NoError(t, err)
	assert.Equal(t, "caught:nope", v)
}

func TestPromiseCombinators(t *testing.T) {
	ip := New()
	v, err := ip.EvaluateAsync(context.Background(), `
		let ps = [Promise.resolve(1), Promise.resolve(2), Promise.resolve(3)];
		let all = await Promise.all(ps);
		all.reduce((a, b) => a + b, 0)
	`)
	require.NoError(t, err)
	assert.Equal(t, 6.0, v)

	v, err = ip.EvaluateAsync(context.Background(), `
		let settled = await Promise.allSettled([Promise.resolve(1), Promise.reject("x")]);
		settled[0].status + "," + settled[1].status
	`)
	require.NoError(t, err)
	assert.Equal(t, "fulfilled,rejected", v)

	v, err = ip.EvaluateAsync(context.Background(), `
		let { promise, resolve } = Promise.withResolvers();
		resolve(9);
		await promise
	`)
	require.NoError(t, err)
	assert.Equal(t, 9.0, v)
}

func TestPromiseExecutor(t *testing.T) {
	ip := New()
	v, err := ip.EvaluateAsync(context.Background(), `
		let p = new Promise((resolve, reject) => { resolve(7); });
		await p
	`)
	require.NoError(t, err)
	assert.Equal(t, 7.0, v)
}

func TestForAwaitOverAsyncGenerator(t *testing.T) {
	ip := New()
	v, err := ip.EvaluateAsync(context.Background(), `
		async function* g() { yield 1; yield 2; }
		async function r() {
			let s = 0;
			for await (const v of g()) s += v;
			return s;
		}
		r()
	`)
	require.NoError(t, err)
	assert.Equal(t, 3.0, v)
}

func TestForAwaitOverPromiseArray(t *testing.T) {
	ip := New()
	v, err := ip.EvaluateAsync(context.Background(), `
		async function r() {
			let s = 0;
			for await (const v of [Promise.resolve(2), Promise.resolve(3)]) s += v;
			return s;
		}
		r()
	`)
	require.NoError(t, err)
	assert.Equal(t, 5.0, v)
}

func TestTopLevelAwait(t *testing.T) {
	ip := New()
	v, err := ip.EvaluateAsync(context.Background(), "await Promise.resolve('top')")
	require.NoError(t, err)
	assert.Equal(t, "top", v)
}

func TestCancellationAtSuspensionPoint(t *testing.T) {
	never := func() *Promise { return NewPromise() } // never settles
	ip := New(WithGlobals(map[string]any{"hang": never}))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	_, err := ip.EvaluateAsync(ctx, "await hang()")
	require.Error(t, err)
	assert.True(t, ierr.IsKind(err, ierr.KindCancelled), "got %v", err)
}

func TestTimeoutInSyncLoop(t *testing.T) {
	ip := New(WithTimeout(20 * time.Millisecond))
	_, err := ip.Evaluate("while (true) {}")
	require.Error(t, err)
	assert.True(t, ierr.IsKind(err, ierr.KindCancelled), "got %v", err)
}

func TestConcurrentEvaluationsSerialize(t *testing.T) {
	ip := New(WithGlobals(map[string]any{
		"nap": func() *Promise {
			p := NewPromise()
			go func() {
				time.Sleep(10 * time.Millisecond)
				p.Resolve(nil)
			}()
			return p
		},
	}))

	done := make(chan error, 2)
	for range 2 {
		go func() {
			_, err := ip.EvaluateAsync(context.Background(), "await nap(); 1")
			done <- err
		}()
	}
	require.NoError(t, <-done)
	require.NoError(t, <-done)
}

func TestQueuedEvaluationHonorsCancellation(t *testing.T) {
	block := NewPromise()
	ip := New(WithGlobals(map[string]any{
		"block": func() *Promise { return block },
	}))

	started := make(chan struct{})
	go func() {
		close(started)
		_, _ = ip.EvaluateAsync(context.Background(), "await block()")
	}()
	<-started
	time.Sleep(5 * time.Millisecond) // let the first call take the slot

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := ip.EvaluateAsync(ctx, "1")
	require.Error(t, err)
	assert.True(t, ierr.IsKind(err, ierr.KindCancelled), "got %v", err)

	block.Resolve(nil)
}
