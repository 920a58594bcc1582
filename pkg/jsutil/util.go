//go:build js && wasm

// Package jsutil provides general functionality for any application running on wasm.
package jsutil

import (
	"context"
	"sync"
	"sync/atomic"
	"syscall/js"
)

// ConsoleLog console.log
func ConsoleLog(args ...interface{}) {
	js.Global().Get("console").Call("log", args...)
}

// Listen adds an event listener and returns a function removing it.
func Listen(target js.Value, event string, fn func(e js.Value)) (remove func()) {
	cb := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		var e js.Value
		if len(args) > 0 {
			e = args[0]
		}
		fn(e)
		return nil
	})
	target.Call("addEventListener", event, cb)

	return func() {
		target.Call("removeEventListener", event, cb)
		cb.Release()
	}
}

// ListenOnce returns a channel receiving the first event of the given type.
// The listener is removed after the first event; later events are ignored.
func ListenOnce(target js.Value, event string) <-chan js.Value {
	ch := make(chan js.Value, 1)
	var once sync.Once
	var remove func()
	remove = Listen(target, event, func(e js.Value) {
		once.Do(func() {
			ch <- e
			// Remove outside the running callback.
			go remove()
		})
	})
	return ch
}

// Await blocks until promise settles or ctx is done.
// A rejected promise is returned as a js.Error.
// Must not be called from inside a js.Func callback.
func Await(ctx context.Context, promise js.Value) (js.Value, error) {
	type result struct {
		value js.Value
		err   error
	}

	done := make(chan result, 1)
	var then, catch js.Func
	var once sync.Once
	release := func() {
		once.Do(func() {
			then.Release()
			catch.Release()
		})
	}

	then = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		var v js.Value
		if len(args) > 0 {
			v = args[0]
		}
		done <- result{value: v}
		release()
		return nil
	})
	catch = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		reason := js.Undefined()
		if len(args) > 0 {
			reason = args[0]
		}
		done <- result{err: js.Error{Value: reason}}
		release()
		return nil
	})

	promise.Call("then", then, catch)

	select {
	case <-ctx.Done():
		return js.Value{}, ctx.Err()
	case r := <-done:
		return r.value, r.err
	}
}

// RequestAnimationFrames calls fn with the refresh timestamp in
// milliseconds on every display refresh until the returned stop is called.
func RequestAnimationFrames(fn func(ms float64)) (stop func()) {
	var frame js.Func
	var stopped atomic.Bool

	frame = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		if stopped.Load() {
			frame.Release()
			return nil
		}
		fn(args[0].Float())
		js.Global().Call("requestAnimationFrame", frame)
		return nil
	})

	js.Global().Call("requestAnimationFrame", frame)

	return func() {
		stopped.Store(true)
	}
}

// AnimationFrames delivers refresh timestamps until ctx is done.
// Timestamps arriving while the previous one is still unread are dropped.
func AnimationFrames(ctx context.Context) <-chan float64 {
	frames := make(chan float64, 1)

	stop := RequestAnimationFrames(func(ms float64) {
		select {
		case frames <- ms:
		default:
		}
	})

	go func() {
		<-ctx.Done()
		stop()
	}()

	return frames
}
