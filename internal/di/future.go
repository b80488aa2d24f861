package di

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Future is the handle of a deferred resolution. It completes exactly once.
type Future struct {
	done  chan struct{}
	value any
	err   error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// Completed returns a future that is already resolved to value.
func Completed(value any) *Future {
	f := newFuture()
	f.complete(value, nil)
	return f
}

// Failed returns a future that is already resolved to err.
func Failed(err error) *Future {
	f := newFuture()
	f.complete(nil, err)
	return f
}

// goFuture runs fn in its own goroutine. A panic in fn fails the future.
func goFuture(fn func() (any, error)) *Future {
	f := newFuture()
	go func() {
		var (
			value any
			err   error
		)
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
				value = nil
			}
			f.complete(value, err)
		}()
		value, err = fn()
	}()
	return f
}

func (f *Future) complete(value any, err error) {
	f.value, f.err = value, err
	close(f.done)
}

// Done is closed once the future has completed.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Ready reports whether the future has completed.
func (f *Future) Ready() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Await blocks until the future completes or ctx is done.
func (f *Future) Await(ctx context.Context) (any, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// then returns a future completed with fn applied to f's result.
func (f *Future) then(fn func(any, error) (any, error)) *Future {
	return goFuture(func() (any, error) {
		<-f.done
		return fn(f.value, f.err)
	})
}

// joinFutures waits for every future, failing on the first error.
func joinFutures(ctx context.Context, futures []*Future) ([]any, error) {
	values := make([]any, len(futures))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range futures {
		g.Go(func() error {
			v, err := f.Await(gctx)
			if err != nil {
				return err
			}
			values[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return values, nil
}
