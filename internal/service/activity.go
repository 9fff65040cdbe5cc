package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/complaint-desk/internal/events"
	"github.com/spec-kit/complaint-desk/internal/observability"
)

// ActivityRecorder logs and counts registry events.
type ActivityRecorder struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// NewActivityRecorder creates the recorder.
func NewActivityRecorder(dispatcher events.Dispatcher, logger *zap.Logger, metrics *observability.Metrics) *ActivityRecorder {
	return &ActivityRecorder{dispatcher: dispatcher, logger: logger, metrics: metrics}
}

// RegisterHandlers subscribes to events.
func (a *ActivityRecorder) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	for _, t := range []events.EventType{
		events.EventComplaintCreated,
		events.EventComplaintActionAdded,
		events.EventComplaintStatusChanged,
		events.EventDepartmentAdded,
	} {
		a.dispatcher.Subscribe(t, a.handle)
	}
}

func (a *ActivityRecorder) handle(_ context.Context, event events.Event) error {
	a.metrics.RecordEvent(string(event.Type))
	a.logger.Info(string(event.Type),
		zap.String("event_id", event.ID),
		zap.String("complaint_id", event.ComplaintID),
		zap.String("actor", event.Actor),
		zap.Any("payload", event.Payload))
	return nil
}
