package app

import (
	"context"
	"os/signal"
	"syscall"
)

// ContextWithSignals derives a context that cancels on SIGINT or
// SIGTERM, so an interrupted sync stops between records instead of
// being killed mid-write.
func ContextWithSignals(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

// Context is ContextWithSignals rooted at context.Background().
func Context() (context.Context, context.CancelFunc) {
	return ContextWithSignals(context.Background())
}
