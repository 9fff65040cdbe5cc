package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-desk/internal/domain"
	"github.com/spec-kit/complaint-desk/internal/events"
	apperrors "github.com/spec-kit/complaint-desk/pkg/errorutil"
)

// Notifier consumes composed notification requests.
type Notifier interface {
	Notify(ctx context.Context, req domain.NotificationRequest) error
}

// Registry owns the department and complaint collections and is the only
// writer of either. Notifications and events leave in the same order as the
// mutations that produced them; event handlers must not call back into the
// registry.
type Registry struct {
	mu          sync.RWMutex
	dispatchMu  sync.Mutex
	departments []domain.Department
	complaints  []*domain.Complaint
	byID        map[string]*domain.Complaint

	notifier   Notifier
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
	newID      func() string
}

// RegistryDependencies bundles collaborators for the registry.
type RegistryDependencies struct {
	Notifier   Notifier
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	// Clock and IDGenerator default to time.Now and generateComplaintKey.
	Clock       func() time.Time
	IDGenerator func() string
}

// ComplaintChange is the outcome of a complaint mutation. Notification is nil
// when the operation changed nothing.
type ComplaintChange struct {
	Complaint    domain.Complaint
	Notification *domain.NotificationRequest
	Changed      bool
}

// NewRegistry constructs an empty registry.
func NewRegistry(deps RegistryDependencies) *Registry {
	r := &Registry{
		byID:       make(map[string]*domain.Complaint),
		notifier:   deps.Notifier,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		now:        deps.Clock,
		newID:      deps.IDGenerator,
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	if r.now == nil {
		r.now = time.Now
	}
	if r.newID == nil {
		r.newID = generateComplaintKey
	}
	return r
}

// Departments returns departments oldest first.
func (r *Registry) Departments() []domain.Department {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Department, len(r.departments))
	copy(out, r.departments)
	return out
}

// Department looks up a department by id.
func (r *Registry) Department(id string) (domain.Department, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	dept, ok := r.findDepartment(id)
	if !ok {
		return domain.Department{}, apperrors.NewNotFound("department", map[string]any{"department_id": id})
	}
	return dept, nil
}

// Complaints returns complaints newest first.
func (r *Registry) Complaints() []domain.Complaint {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Complaint, 0, len(r.complaints))
	for _, c := range r.complaints {
		out = append(out, c.Clone())
	}
	return out
}

// Complaint looks up a complaint by id.
func (r *Registry) Complaint(id string) (domain.Complaint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byID[id]
	if !ok {
		return domain.Complaint{}, complaintNotFound(id)
	}
	return c.Clone(), nil
}

// Seed loads pre-existing records. Departments are appended in the given
// order; complaints are given newest first, matching the display order.
// Nothing is loaded when any record breaks an invariant.
func (r *Registry) Seed(departments []domain.Department, complaints []domain.Complaint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	deptIDs := make(map[string]struct{}, len(r.departments)+len(departments))
	for _, d := range r.departments {
		deptIDs[d.ID] = struct{}{}
	}
	accepted := append([]domain.Department(nil), r.departments...)
	for _, d := range departments {
		if strings.TrimSpace(d.Name) == "" || d.ID == "" {
			return apperrors.NewValidationError("seed department requires id and name", map[string]any{"department_id": d.ID})
		}
		if existing, dup := findConflict(accepted, d); dup {
			return apperrors.NewDuplicate("seed department already exists", map[string]any{
				"department_id":  d.ID,
				"conflicts_with": existing.ID,
			})
		}
		accepted = append(accepted, d)
		deptIDs[d.ID] = struct{}{}
	}

	complaintIDs := make(map[string]struct{}, len(complaints))
	for i := range complaints {
		c := &complaints[i]
		if err := validateSeedComplaint(c, deptIDs); err != nil {
			return err
		}
		if _, dup := r.byID[c.ID]; dup {
			return apperrors.NewDuplicate("seed complaint already exists", map[string]any{"complaint_id": c.ID})
		}
		if _, dup := complaintIDs[c.ID]; dup {
			return apperrors.NewDuplicate("seed complaint already exists", map[string]any{"complaint_id": c.ID})
		}
		complaintIDs[c.ID] = struct{}{}
	}

	r.departments = append(r.departments, departments...)
	for i := range complaints {
		c := complaints[i].Clone()
		r.complaints = append(r.complaints, &c)
		r.byID[c.ID] = &c
	}
	return nil
}

func validateSeedComplaint(c *domain.Complaint, deptIDs map[string]struct{}) error {
	details := map[string]any{"complaint_id": c.ID}
	if c.ID == "" {
		return apperrors.NewValidationError("seed complaint requires id", details)
	}
	if !c.Status.Valid() {
		return apperrors.NewValidationError("seed complaint has unknown status", details)
	}
	if _, ok := deptIDs[c.DepartmentID]; !ok {
		return apperrors.NewNotFound("department", map[string]any{"complaint_id": c.ID, "department_id": c.DepartmentID})
	}
	if len(c.History) == 0 || c.History[0].Description != domain.CreatedActionDescription {
		return apperrors.NewValidationError("seed complaint requires a creation entry", details)
	}
	for i := 1; i < len(c.History); i++ {
		if c.History[i].Timestamp.Before(c.History[i-1].Timestamp) {
			return apperrors.NewValidationError("seed complaint history out of order", details)
		}
	}
	return nil
}

func (r *Registry) findDepartment(id string) (domain.Department, bool) {
	for _, d := range r.departments {
		if d.ID == id {
			return d, true
		}
	}
	return domain.Department{}, false
}

// stamp returns the current instant, never earlier than the last history entry.
func (r *Registry) stamp(c *domain.Complaint) time.Time {
	now := r.now()
	if last, ok := c.LastAction(); ok && now.Before(last.Timestamp) {
		return last.Timestamp
	}
	return now
}

func (r *Registry) uniqueComplaintID() string {
	for {
		id := r.newID()
		if _, taken := r.byID[id]; !taken {
			return id
		}
	}
}

// handoff trades the state lock for the dispatch lock, so the next mutation
// cannot dispatch before this one does. It must be followed by dispatch.
func (r *Registry) handoff() {
	r.dispatchMu.Lock()
	r.mu.Unlock()
}

// dispatch runs outside the state lock and releases the dispatch lock.
func (r *Registry) dispatch(ctx context.Context, req *domain.NotificationRequest, event events.Event) {
	defer r.dispatchMu.Unlock()
	if req != nil && r.notifier != nil {
		if err := r.notifier.Notify(ctx, *req); err != nil {
			r.logger.Warn("notification dispatch failed",
				zap.String("complaint_id", req.ComplaintID),
				zap.String("kind", string(req.Kind)),
				zap.Error(err))
		}
	}
	r.publishEvent(ctx, event)
}

func (r *Registry) publishEvent(ctx context.Context, event events.Event) {
	if r.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = r.now()
	}
	if err := r.dispatcher.Publish(ctx, event); err != nil {
		r.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func generateComplaintKey() string {
	return "S-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func complaintNotFound(id string) error {
	return apperrors.NewNotFound("complaint", map[string]any{"complaint_id": id})
}
