package app

import (
	"context"
	"testing"
	"time"
)

func (l *stubLoader) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loadedCount
}

func TestReloadScheduler_ZeroIntervalLoadsOnce(t *testing.T) {
	loader := &stubLoader{result: sampleResult()}
	s := NewSession(loader, nil)

	done := make(chan struct{})
	go func() {
		s.StartReloadScheduler(context.Background(), 0)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler with zero interval did not return")
	}
	if n := loader.count(); n != 1 {
		t.Errorf("loads = %d, want 1", n)
	}
	if !s.Snapshot().Loaded() {
		t.Error("session not loaded")
	}
}

func TestReloadScheduler_ReloadsUntilCancelled(t *testing.T) {
	loader := &stubLoader{result: sampleResult()}
	s := NewSession(loader, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.StartReloadScheduler(ctx, 5*time.Millisecond)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for loader.count() < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("loads = %d after 2s, want >= 3", loader.count())
		}
		time.Sleep(time.Millisecond)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}
}

func TestReloadScheduler_ContinuesAfterFailure(t *testing.T) {
	loader := &stubLoader{err: context.DeadlineExceeded}
	s := NewSession(loader, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.StartReloadScheduler(ctx, 5*time.Millisecond)

	deadline := time.Now().Add(2 * time.Second)
	for loader.count() < 2 {
		if time.Now().After(deadline) {
			t.Fatal("scheduler stopped after a failed load")
		}
		time.Sleep(time.Millisecond)
	}
	if f := s.Snapshot().Failure; f == nil || f.Code != "SRC006" {
		t.Errorf("Failure = %+v, want SRC006", f)
	}
}
