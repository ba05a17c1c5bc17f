package render

import "context"

// Future is the pending result of RenderAsync. It is resolved exactly once.
type Future struct {
	done chan struct{}
	out  []byte
	err  error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

func (f *Future) resolve(out []byte, err error) {
	f.out, f.err = out, err
	close(f.done)
}

// Done is closed when the result is available.
func (f *Future) Done() <-chan struct{} { return f.done }

// Wait blocks until the result is available or ctx ends. Giving up on the
// wait does not stop the render.
func (f *Future) Wait(ctx context.Context) ([]byte, error) {
	select {
	case <-f.done:
		return f.out, f.err
	default:
	}
	select {
	case <-f.done:
		return f.out, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Result returns the result without blocking, or ErrPending while the
// render is still running.
func (f *Future) Result() ([]byte, error) {
	select {
	case <-f.done:
		return f.out, f.err
	default:
		return nil, ErrPending
	}
}
