package monitoring

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/spacesedan/feedsync/internal/translate"
)

const HEALTHCHECK_TIMER = 15

// MonitorTranslatorHealth probes the LibreTranslate endpoint and flips the
// shared flag so the feedback consumer pauses while translation is down.
func MonitorTranslatorHealth(ctx context.Context, healthy *atomic.Bool) {
	ticker := time.NewTicker(time.Second * HEALTHCHECK_TIMER)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			isHealthy := translate.GetLibreTranslator().HealthCheck(ctx)
			healthy.Store(isHealthy)
			if !isHealthy {
				slog.Warn("[HealthCheck] Translator is unhealthy")
			}
		}
	}
}
