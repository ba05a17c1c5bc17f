package dispatch

import (
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestInvoke_RunsInOrder(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := Start()
	var got []int
	for i := 0; i < 5; i++ {
		i := i
		if err := d.Invoke(func() { got = append(got, i) }); err != nil {
			t.Fatalf("Invoke %d failed: %v", i, err)
		}
	}
	d.InvokeShutdown()
	<-d.Done()

	for i, v := range got {
		if v != i {
			t.Fatalf("order: got %v, want 0..4", got)
		}
	}
}

func TestInvoke_RecoversPanic(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := Start()
	defer func() {
		d.InvokeShutdown()
		<-d.Done()
	}()

	err := d.Invoke(func() { panic("boom") })
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected panic error, got %v", err)
	}

	// The loop keeps serving after a recovered panic.
	ran := false
	if err := d.Invoke(func() { ran = true }); err != nil || !ran {
		t.Fatalf("Invoke after panic: ran=%v err=%v", ran, err)
	}
}

func TestInvokeShutdown_FromInsideLoop(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := Start()
	err := d.Invoke(func() {
		d.InvokeShutdown()
	})
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}

	select {
	case <-d.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("dispatcher did not stop after InvokeShutdown")
	}

	if !d.HasShutdownStarted() {
		t.Error("HasShutdownStarted should report true")
	}
}

func TestInvoke_AfterShutdown(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := Start()
	d.InvokeShutdown()
	d.InvokeShutdown() // idempotent
	<-d.Done()

	if err := d.Invoke(func() {}); !errors.Is(err, ErrShutdown) {
		t.Errorf("Invoke after shutdown: got %v, want ErrShutdown", err)
	}
	if err := d.BeginInvoke(func() {}); !errors.Is(err, ErrShutdown) {
		t.Errorf("BeginInvoke after shutdown: got %v, want ErrShutdown", err)
	}
}

func TestDispatchers_AreIndependent(t *testing.T) {
	defer goleak.VerifyNone(t)

	a, b := Start(), Start()
	block := make(chan struct{})

	if err := a.BeginInvoke(func() { <-block }); err != nil {
		t.Fatal(err)
	}

	// b must make progress while a is busy.
	done := make(chan error, 1)
	go func() { done <- b.Invoke(func() {}) }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("dispatcher b blocked by dispatcher a")
	}

	close(block)
	a.InvokeShutdown()
	b.InvokeShutdown()
	<-a.Done()
	<-b.Done()
}
