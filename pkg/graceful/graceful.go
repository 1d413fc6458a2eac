package graceful

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"dompet/pkg/logger"

	"github.com/jpillora/overseer"
)

const RestartSignal = syscall.SIGUSR2

// shutdownSignals are the OS signals plus the ones overseer forwards to the
// child on restart.
var shutdownSignals = []os.Signal{
	RestartSignal,
	syscall.SIGHUP,
	syscall.SIGTSTP,
	os.Interrupt,
	overseer.SIGTERM,
	overseer.SIGUSR1,
	overseer.SIGUSR2,
	syscall.SIGINT,
}

// NotifyContext returns a context that is cancelled on the first shutdown
// signal. stop releases the handler.
func NotifyContext(parent context.Context) (ctx context.Context, stop context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, shutdownSignals...)

	go func() {
		defer signal.Stop(sigCh)
		select {
		case sig := <-sigCh:
			logger.Warnf("🔴 Received signal %v. Initiating shutdown...", sig)
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

// WaitTimeout waits for wg, giving up after d. It reports whether every
// goroutine finished in time.
func WaitTimeout(wg *sync.WaitGroup, d time.Duration) bool {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(d):
		return false
	}
}
