package shutdown

import (
	"context"
	"errors"
	"sync"
	"syscall"
	"testing"
	"time"
)

// recorder collects hook names in call order.
type recorder struct {
	mu    sync.Mutex
	order []string
}

func (r *recorder) hook(name string, err error) Hook {
	return func(context.Context) error {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.order = append(r.order, name)
		return err
	}
}

func (r *recorder) calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.order...)
}

func waitResult(t *testing.T, errCh <-chan error) error {
	t.Helper()
	select {
	case err := <-errCh:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("Wait() did not complete in time")
		return nil
	}
}

func TestNewHandler(t *testing.T) {
	h := NewHandler(5 * time.Second)
	if h == nil {
		t.Fatal("NewHandler returned nil")
	}
	if h.timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", h.timeout)
	}
	if h.done == nil {
		t.Error("done channel should be initialized")
	}

	select {
	case <-h.Done():
		t.Error("Done channel should not be closed initially")
	default:
	}
}

func TestHandler_Trigger_ReverseOrder(t *testing.T) {
	h := NewHandler(5 * time.Second)
	rec := &recorder{}
	h.OnShutdown("first", rec.hook("first", nil))
	h.OnShutdown("second", rec.hook("second", nil))
	h.OnShutdown("third", rec.hook("third", nil))

	errCh := make(chan error, 1)
	go func() { errCh <- h.Wait() }()

	h.Trigger()
	h.Trigger()

	if err := waitResult(t, errCh); err != nil {
		t.Errorf("Wait() error = %v", err)
	}

	got := rec.calls()
	want := []string{"third", "second", "first"}
	if len(got) != len(want) {
		t.Fatalf("calls = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("calls = %v, want %v", got, want)
		}
	}

	select {
	case <-h.Done():
	default:
		t.Error("Done channel should be closed after Wait completes")
	}
}

func TestHandler_Wait_WithSignal(t *testing.T) {
	h := NewHandler(5 * time.Second)
	rec := &recorder{}
	h.OnShutdown("only", rec.hook("only", nil))

	errCh := make(chan error, 1)
	go func() { errCh <- h.Wait() }()

	// Give Wait time to set up signal handler
	time.Sleep(50 * time.Millisecond)
	if err := syscall.Kill(syscall.Getpid(), syscall.SIGINT); err != nil {
		t.Fatalf("Kill() error = %v", err)
	}

	if err := waitResult(t, errCh); err != nil {
		t.Errorf("Wait() error = %v", err)
	}
	if len(rec.calls()) != 1 {
		t.Errorf("hook calls = %v, want one", rec.calls())
	}
}

func TestHandler_WaitContext_Cancel(t *testing.T) {
	h := NewHandler(5 * time.Second)
	rec := &recorder{}
	h.OnShutdown("server", rec.hook("server", nil))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- h.WaitContext(ctx) }()

	cancel()

	if err := waitResult(t, errCh); err != nil {
		t.Errorf("WaitContext() error = %v", err)
	}
	if len(rec.calls()) != 1 {
		t.Errorf("hook calls = %v, want one", rec.calls())
	}
}

func TestHandler_HookErrorsJoined(t *testing.T) {
	h := NewHandler(5 * time.Second)
	rec := &recorder{}
	errA := errors.New("a failed")
	errB := errors.New("b failed")

	h.OnShutdown("a", rec.hook("a", errA))
	h.OnShutdown("ok", rec.hook("ok", nil))
	h.OnShutdown("b", rec.hook("b", errB))

	errCh := make(chan error, 1)
	go func() { errCh <- h.Wait() }()
	h.Trigger()

	err := waitResult(t, errCh)
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Errorf("Wait() error = %v, want both hook errors", err)
	}
	if len(rec.calls()) != 3 {
		t.Errorf("a failing hook must not stop the rest: calls = %v", rec.calls())
	}
}

func TestHandler_HookTimeout(t *testing.T) {
	h := NewHandler(50 * time.Millisecond)
	h.OnShutdown("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	errCh := make(chan error, 1)
	go func() { errCh <- h.Wait() }()
	h.Trigger()

	if err := waitResult(t, errCh); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Wait() error = %v, want DeadlineExceeded", err)
	}
}
