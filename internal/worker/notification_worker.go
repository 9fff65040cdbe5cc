package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/complaint-desk/internal/domain"
	"github.com/spec-kit/complaint-desk/internal/observability"
	"github.com/spec-kit/complaint-desk/internal/service"
)

const defaultDeliveryTimeout = 5 * time.Second

// NotificationWorker hands queued notifications to every configured sink.
type NotificationWorker struct {
	deliveries <-chan domain.NotificationRequest
	sinks      []service.NotificationSink
	logger     *zap.Logger
	metrics    *observability.Metrics
	timeout    time.Duration
}

// NewNotificationWorker wires the worker to the notification queue.
func NewNotificationWorker(deliveries <-chan domain.NotificationRequest, sinks []service.NotificationSink, logger *zap.Logger, metrics *observability.Metrics) *NotificationWorker {
	return &NotificationWorker{
		deliveries: deliveries,
		sinks:      sinks,
		logger:     logger,
		metrics:    metrics,
		timeout:    defaultDeliveryTimeout,
	}
}

// Run delivers until the queue is closed and drained, or ctx is done.
func (w *NotificationWorker) Run(ctx context.Context) {
	if w.deliveries == nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("notification worker stopped", zap.Int("pending", len(w.deliveries)))
			return
		case req, ok := <-w.deliveries:
			if !ok {
				w.logger.Info("notification queue drained")
				return
			}
			w.deliver(ctx, req)
		}
	}
}

func (w *NotificationWorker) deliver(ctx context.Context, req domain.NotificationRequest) {
	for _, sink := range w.sinks {
		sinkCtx, cancel := context.WithTimeout(ctx, w.timeout)
		err := sink.Deliver(sinkCtx, req)
		cancel()
		if err != nil {
			w.metrics.RecordNotification(string(req.Kind), "failed")
			w.logger.Error("notification delivery failed",
				zap.String("sink", sink.Name()),
				zap.String("complaint_id", req.ComplaintID),
				zap.Error(err))
			continue
		}
		w.metrics.RecordNotification(string(req.Kind), "delivered")
		w.logger.Debug("notification delivered",
			zap.String("sink", sink.Name()),
			zap.String("complaint_id", req.ComplaintID))
	}
}
