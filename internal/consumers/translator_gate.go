package consumers

import (
	"context"
	"sync/atomic"
	"time"
)

// TranslatorGate pauses feedback consumption while a translation backend is
// down. Records consumed during an outage would all fail the translation
// stage, so the consumer waits for recovery instead of burning them.
type TranslatorGate struct {
	flags []*atomic.Bool
}

func NewTranslatorGate(flags ...*atomic.Bool) *TranslatorGate {
	return &TranslatorGate{flags: flags}
}

// Healthy reports whether every tracked backend is up. A nil gate never
// blocks consumption.
func (g *TranslatorGate) Healthy() bool {
	if g == nil {
		return true
	}
	for _, flag := range g.flags {
		if flag != nil && !flag.Load() {
			return false
		}
	}
	return true
}

// WaitHealthy blocks until the backends recover or ctx is canceled.
func (g *TranslatorGate) WaitHealthy(ctx context.Context) {
	for !g.Healthy() {
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Second):
		}
	}
}
