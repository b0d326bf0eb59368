package safego

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestRun_NoPanic(t *testing.T) {
	var called bool
	Run("test", func() {
		called = true
	})
	if !called {
		t.Error("function was not called")
	}
}

func TestRun_RecoversPanic(t *testing.T) {
	// Should not panic the test
	Run("test-panic", func() {
		panic("test panic")
	})
}

func TestRun_NotifiesOnPanic(t *testing.T) {
	var (
		mu       sync.Mutex
		notified bool
		gotName  string
		gotValue any
	)

	SetOnPanic(func(name string, recovered any, stack []byte) {
		mu.Lock()
		notified = true
		gotName = name
		gotValue = recovered
		mu.Unlock()
	})
	defer SetOnPanic(nil)

	Run("event-pump", func() {
		panic("oops")
	})

	mu.Lock()
	defer mu.Unlock()

	if !notified {
		t.Error("panic notification was not delivered")
	}
	if gotName != "event-pump" {
		t.Errorf("expected name 'event-pump', got %q", gotName)
	}
	if gotValue != "oops" {
		t.Errorf("expected recovered value 'oops', got %v", gotValue)
	}
}

func TestRun_NotificationPanicIsRecovered(t *testing.T) {
	SetOnPanic(func(name string, recovered any, stack []byte) {
		panic("notification panic")
	})
	defer SetOnPanic(nil)

	// Should not panic the test even if the notification panics
	Run("test", func() {
		panic("original panic")
	})
}

func TestRun_EmptyName(t *testing.T) {
	var (
		mu      sync.Mutex
		gotName string
	)

	SetOnPanic(func(name string, recovered any, stack []byte) {
		mu.Lock()
		gotName = name
		mu.Unlock()
	})
	defer SetOnPanic(nil)

	Run("", func() {
		panic("test")
	})

	mu.Lock()
	defer mu.Unlock()

	if gotName != "goroutine" {
		t.Errorf("expected default name 'goroutine', got %q", gotName)
	}
}

func TestGo_RunsInGoroutine(t *testing.T) {
	var wg sync.WaitGroup
	var called int32

	wg.Add(1)
	Go("test", func() {
		atomic.StoreInt32(&called, 1)
		wg.Done()
	})

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		if atomic.LoadInt32(&called) != 1 {
			t.Error("function was not called")
		}
	case <-time.After(time.Second):
		t.Error("timed out waiting for goroutine")
	}
}

func TestGo_RecoversPanic(t *testing.T) {
	var wg sync.WaitGroup
	var notified int32

	SetOnPanic(func(name string, recovered any, stack []byte) {
		atomic.StoreInt32(&notified, 1)
		wg.Done()
	})
	defer SetOnPanic(nil)

	wg.Add(1)
	Go("test-panic", func() {
		panic("goroutine panic")
	})

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		if atomic.LoadInt32(&notified) != 1 {
			t.Error("panic notification was not delivered")
		}
	case <-time.After(time.Second):
		t.Error("timed out waiting for panic notification")
	}
}
