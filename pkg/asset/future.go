package asset

import (
	"context"
	"net/http"
	"sync"
)

// State of a Future.
type State int

// Future states.
const (
	Loading State = iota
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Future is a model that may still be loading.
type Future struct {
	once  sync.Once
	done  chan struct{}
	model *Model
	err   error
}

// NewFuture creates an unresolved future.
func NewFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// Resolve completes the future. Only the first call has an effect.
func (f *Future) Resolve(m *Model, err error) {
	f.once.Do(func() {
		f.model, f.err = m, err
		close(f.done)
	})
}

// Done is closed once the future is resolved.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Poll returns the state without blocking. The model is set when Ready
// and the error when Failed.
func (f *Future) Poll() (State, *Model, error) {
	select {
	case <-f.done:
	default:
		return Loading, nil, nil
	}

	if f.err != nil {
		return Failed, nil, f.err
	}
	return Ready, f.model, nil
}

// Wait blocks until the future resolves or ctx is done.
func (f *Future) Wait(ctx context.Context) (*Model, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-f.done:
		return f.model, f.err
	}
}

// Load fetches and decodes the model at url in the background.
func Load(ctx context.Context, client *http.Client, url string) *Future {
	f := NewFuture()

	go func() {
		data, err := Fetch(ctx, client, url)
		if err != nil {
			f.Resolve(nil, err)
			return
		}
		f.Resolve(DecodeBytes(data))
	}()

	return f
}
