// Package dispatch provides a single-threaded execution loop bound to one OS
// thread.
//
// A Dispatcher owns one goroutine that is locked to its OS thread for its
// whole life. Work queued with Invoke or BeginInvoke runs on that goroutine
// in submission order, one item at a time. Objects that must only be touched
// from the thread that created them are created and used inside queued work.
//
// InvokeShutdown stops the loop once the running item returns. The loop
// goroutine then exits without unlocking its thread, which makes the Go
// runtime terminate the thread instead of returning it to the scheduler pool.
// A Dispatcher cannot be restarted.
package dispatch

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
)

// ErrShutdown is returned when work is submitted to a stopped dispatcher.
var ErrShutdown = errors.New("dispatcher has been shut down")

// Dispatcher is a single-use execution loop. The zero value is not usable;
// create one with Start.
type Dispatcher struct {
	queue chan func()
	quit  chan struct{}
	done  chan struct{}

	mu       sync.Mutex
	stopping bool
}

// Start launches the dispatcher's loop on a new goroutine locked to a
// dedicated OS thread.
func Start() *Dispatcher {
	d := &Dispatcher{
		queue: make(chan func()),
		quit:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	ready := make(chan struct{})
	go d.loop(ready)
	<-ready
	return d
}

func (d *Dispatcher) loop(ready chan<- struct{}) {
	// Never unlocked: the thread dies with this goroutine.
	runtime.LockOSThread()
	defer close(d.done)
	close(ready)

	for {
		select {
		case <-d.quit:
			return
		case fn := <-d.queue:
			fn()
		}
	}
}

// Invoke runs fn on the dispatcher's thread and waits for it to return.
// A panic in fn is recovered and returned as an error.
//
// Invoke must not be called from inside queued work; use a direct call
// instead, since the loop is already running on the right thread.
func (d *Dispatcher) Invoke(fn func()) error {
	result := make(chan error, 1)
	err := d.BeginInvoke(func() {
		defer func() {
			if r := recover(); r != nil {
				result <- fmt.Errorf("dispatched operation panicked: %v", r)
			}
		}()
		fn()
		result <- nil
	})
	if err != nil {
		return err
	}
	select {
	case err := <-result:
		return err
	case <-d.done:
		// The loop may have exited right after running fn.
		select {
		case err := <-result:
			return err
		default:
			return ErrShutdown
		}
	}
}

// BeginInvoke queues fn and returns once the loop has accepted it, without
// waiting for fn to run to completion.
func (d *Dispatcher) BeginInvoke(fn func()) error {
	if d.isStopping() {
		return ErrShutdown
	}
	select {
	case d.queue <- fn:
		return nil
	case <-d.quit:
		return ErrShutdown
	}
}

// InvokeShutdown asks the loop to stop. Work that is running finishes; work
// submitted afterwards fails with ErrShutdown. It is safe to call from
// inside queued work and more than once.
func (d *Dispatcher) InvokeShutdown() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopping {
		return
	}
	d.stopping = true
	close(d.quit)
}

// HasShutdownStarted reports whether InvokeShutdown has been called.
func (d *Dispatcher) HasShutdownStarted() bool {
	return d.isStopping()
}

// Done is closed as the loop goroutine exits. Its OS thread terminates
// immediately afterwards.
func (d *Dispatcher) Done() <-chan struct{} {
	return d.done
}

func (d *Dispatcher) isStopping() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stopping
}
