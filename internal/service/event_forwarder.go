package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"flockwatch/internal/config"
	"flockwatch/internal/domain"
	"flockwatch/pkg/e"
)

// EventForwarder drains report events from the queue and POSTs each one to the
// configured webhook so an external notifier can tell walkers and farmers.
type EventForwarder struct {
	logger     *slog.Logger
	cfg        config.WebhookConfig
	source     EventSource
	http       *http.Client
	maxRetries int
	backoff    time.Duration
	popTimeout time.Duration
}

func NewEventForwarder(logger *slog.Logger, cfg config.WebhookConfig, source EventSource) *EventForwarder {
	return &EventForwarder{
		logger:     logger,
		cfg:        cfg,
		source:     source,
		http:       &http.Client{Timeout: 5 * time.Second},
		maxRetries: 3,
		backoff:    time.Second,
		popTimeout: 5 * time.Second,
	}
}

func (f *EventForwarder) Run(ctx context.Context) {
	f.logger.Info("eventForwarder STARTED", slog.String("url", f.cfg.URL))

	for {
		select {
		case <-ctx.Done():
			f.logger.Info("eventForwarder STOPPED", slog.String("reason", ctx.Err().Error()))
			return
		default:
		}

		ev, err := f.source.BRPop(ctx, f.popTimeout)
		if err != nil {
			if errors.Is(err, e.ErrQueueEmpty) || ctx.Err() != nil {
				continue
			}
			f.logger.Error("BRPop failed", slog.Any("error", err))
			sleepCtx(ctx, 500*time.Millisecond)
			continue
		}

		f.logger.Debug("forwarding event",
			slog.String("report_id", ev.ReportID.String()),
			slog.String("to", string(ev.To)),
		)
		f.sendWithRetry(ctx, ev)
	}
}

// sendWithRetry reports whether the webhook accepted the event.
func (f *EventForwarder) sendWithRetry(ctx context.Context, ev domain.ReportEvent) bool {
	body, err := json.Marshal(ev)
	if err != nil {
		f.logger.Error("marshal report event failed", slog.String("error", err.Error()))
		return false
	}

	for attempt := 1; attempt <= f.maxRetries; attempt++ {
		if ctx.Err() != nil {
			f.logger.Info("stop retries due to context cancel")
			return false
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.cfg.URL, bytes.NewReader(body))
		if err != nil {
			f.logger.Error("create webhook request failed", slog.String("error", err.Error()))
			return false
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := f.http.Do(req)
		if err == nil && resp.StatusCode >= 200 && resp.StatusCode < 300 {
			_ = resp.Body.Close()
			return true
		}
		if resp != nil {
			_ = resp.Body.Close()
		}

		reason := "unknown"
		if err != nil {
			reason = err.Error()
		} else if resp != nil {
			reason = resp.Status
		}

		f.logger.Warn("webhook failed",
			slog.Int("attempt", attempt),
			slog.String("url", f.cfg.URL),
			slog.String("reason", reason),
		)

		if attempt < f.maxRetries && !sleepCtx(ctx, time.Duration(attempt)*f.backoff) {
			return false
		}
	}

	f.logger.Error("webhook dropped event", slog.String("report_id", ev.ReportID.String()))
	return false
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
