package service

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/complaint-desk/internal/config"
	"github.com/spec-kit/complaint-desk/internal/domain"
	"github.com/spec-kit/complaint-desk/internal/observability"
)

// ErrNotificationQueueFull is returned when delivery cannot keep up.
var ErrNotificationQueueFull = errors.New("notification queue full")

// NotificationSink delivers a notification to a downstream system.
type NotificationSink interface {
	Name() string
	Deliver(ctx context.Context, req domain.NotificationRequest) error
}

// NotificationService is the registry's Notifier. Every request is logged;
// requests with a recipient are queued for the delivery worker when one runs.
type NotificationService struct {
	logger  *zap.Logger
	metrics *observability.Metrics
	cfg     config.NotificationConfig

	mu     sync.RWMutex
	queue  chan domain.NotificationRequest
	closed bool
}

// NewNotificationService creates the service. With queued=false requests are
// only logged.
func NewNotificationService(logger *zap.Logger, metrics *observability.Metrics, cfg config.NotificationConfig, queued bool) *NotificationService {
	n := &NotificationService{logger: logger, metrics: metrics, cfg: cfg}
	if queued {
		size := cfg.QueueSize
		if size <= 0 {
			size = 1
		}
		n.queue = make(chan domain.NotificationRequest, size)
	}
	return n
}

// Notify implements Notifier.
func (n *NotificationService) Notify(ctx context.Context, req domain.NotificationRequest) error {
	kind := string(req.Kind)
	if !req.Deliverable() {
		n.logger.Info("notification (local only)",
			zap.String("complaint_id", req.ComplaintID),
			zap.String("kind", kind),
			zap.String("notice", req.Notice))
		n.metrics.RecordNotification(kind, "local")
		return nil
	}

	n.logger.Info("e-mail notification",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("to", req.RecipientEmail),
		zap.String("subject", req.Subject),
		zap.String("body", req.Body),
		zap.String("complaint_id", req.ComplaintID))

	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.queue == nil || n.closed {
		n.metrics.RecordNotification(kind, "logged")
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case n.queue <- req:
		n.metrics.RecordNotification(kind, "queued")
		return nil
	default:
		n.metrics.RecordNotification(kind, "dropped")
		return ErrNotificationQueueFull
	}
}

// Deliveries exposes queued requests to the delivery worker. It is nil when
// the service only logs.
func (n *NotificationService) Deliveries() <-chan domain.NotificationRequest {
	return n.queue
}

// Close stops accepting queued requests and lets the worker drain.
func (n *NotificationService) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.queue == nil || n.closed {
		return
	}
	n.closed = true
	close(n.queue)
}
