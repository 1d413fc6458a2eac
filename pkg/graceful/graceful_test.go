package graceful

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestWaitTimeout(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(1)
	release := make(chan struct{})
	go func() {
		defer wg.Done()
		<-release
	}()

	if WaitTimeout(&wg, 20*time.Millisecond) {
		t.Fatal("expected timeout while goroutine is blocked")
	}
	close(release)
	if !WaitTimeout(&wg, time.Second) {
		t.Fatal("expected wait to finish")
	}
}

func TestNotifyContext_Stop(t *testing.T) {
	ctx, stop := NotifyContext(context.Background())
	stop()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context not cancelled by stop")
	}
}
