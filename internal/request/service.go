package request

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/linnemanlabs/go-core/log"
	"github.com/linnemanlabs/go-core/xerrors"
	"github.com/oklog/ulid/v2"
)

// ErrInvalid marks submissions rejected before they reach the store.
var ErrInvalid = xerrors.New("invalid request")

// Outcome is the result of a resolution attempt.
type Outcome string

const (
	// OutcomeResolved means the request existed and was removed.
	OutcomeResolved Outcome = "resolved"

	// OutcomeNotFound means there was nothing to do: the id was already
	// resolved or never existed. Informational, not a fault.
	OutcomeNotFound Outcome = "not_found"
)

// SubmitInput carries the raw, untrusted fields of a patient submission.
// Type and criticality are normalized once here; nothing downstream
// re-interprets casing.
type SubmitInput struct {
	PatientID   string
	PatientName string
	Reason      string
	Criticality string
	Type        string
}

// Notifier pushes a newly submitted SOS alert to an external channel.
type Notifier interface {
	Send(ctx context.Context, r *Request) error
}

// Service is the business boundary for doctor-request operations.
type Service struct {
	store    Store
	logger   log.Logger
	metrics  *Metrics
	notifier Notifier
	now      func() time.Time
}

// NewService creates a new request service. metrics and notifier may be nil.
func NewService(store Store, logger log.Logger, metrics *Metrics, notifier Notifier) *Service {
	if logger == nil {
		logger = log.Nop()
	}
	return &Service{
		store:    store,
		logger:   logger,
		metrics:  metrics,
		notifier: notifier,
		now:      time.Now,
	}
}

// Submit validates and normalizes a patient submission, assigns an id and
// creation time, and appends it to the live set. Duplicate submissions are
// allowed; they become separate requests.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*Request, error) {
	name := strings.TrimSpace(in.PatientName)
	if name == "" {
		s.metrics.ObserveSubmit(NormalizeType(in.Type), "invalid")
		return nil, fmt.Errorf("%w: patient name is required", ErrInvalid)
	}

	r := &Request{
		ID:          ulid.Make().String(),
		PatientID:   strings.TrimSpace(in.PatientID),
		PatientName: name,
		Reason:      strings.TrimSpace(in.Reason),
		Type:        NormalizeType(in.Type),
		Criticality: NormalizeCriticality(in.Criticality),
		CreatedAt:   s.now().UTC(),
	}

	if err := s.store.Insert(ctx, r); err != nil {
		s.metrics.ObserveSubmit(r.Type, "error")
		return nil, fmt.Errorf("insert request: %w", err)
	}
	s.metrics.ObserveSubmit(r.Type, "accepted")

	s.logger.Info(ctx, "request submitted",
		"request_id", r.ID,
		"type", r.Type,
		"criticality", r.Criticality,
	)

	if r.Type == TypeSOS && s.notifier != nil {
		// Notification must not delay or fail the submission; detach from
		// the request lifetime.
		cp := *r
		go func() {
			nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 15*time.Second)
			defer cancel()
			if err := s.notifier.Send(nctx, &cp); err != nil {
				s.logger.Error(nctx, err, "sos notification failed", "request_id", cp.ID)
			}
		}()
	}

	return r, nil
}

// Triaged fetches the current pending snapshot and runs the triage pass over
// it. Every staff poll goes through here.
func (s *Service) Triaged(ctx context.Context) (sosAlerts, queued []Request, err error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list requests: %w", err)
	}
	s.metrics.SetPending(len(all))
	sosAlerts, queued = Triage(all)
	return sosAlerts, queued, nil
}

// Resolve removes the request with the given id. The store's delete is the
// single atomic step: of two concurrent attempts on one id, exactly one
// observes OutcomeResolved.
func (s *Service) Resolve(ctx context.Context, id string) (Outcome, error) {
	existed, err := s.store.Delete(ctx, id)
	if err != nil {
		return "", fmt.Errorf("delete request: %w", err)
	}
	if !existed {
		s.metrics.ObserveResolve(OutcomeNotFound)
		return OutcomeNotFound, nil
	}
	s.metrics.ObserveResolve(OutcomeResolved)
	s.logger.Info(ctx, "request resolved", "request_id", id)
	return OutcomeResolved, nil
}
