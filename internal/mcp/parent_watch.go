package mcp

import (
	"context"
	"os"
	"time"

	"failsafe/internal/logging"
)

// WatchInterval is how often WatchParent polls the parent PID.
var WatchInterval = 2 * time.Second

// WatchParent cancels the server when the process that launched it goes
// away, so an orphaned stdio server does not linger.
//
// It must not read from stdin: the SDK's StdioTransport owns it.
// The goroutine exits when ctx is canceled or the parent changes.
func WatchParent(ctx context.Context, cancel context.CancelFunc) {
	watchParent(ctx, cancel, os.Getppid)
}

func watchParent(ctx context.Context, cancel context.CancelFunc, getppid func() int) {
	ppid := getppid()
	go func() {
		t := time.NewTicker(WatchInterval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				if getppid() != ppid {
					logging.New("mcp").Warn("parent process exited, shutting down", "ppid", ppid)
					cancel()
					return
				}
			}
		}
	}()
}
