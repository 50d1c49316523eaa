// Package wardapi exposes the hospital operations HTTP API: the doctor
// request queue for patients, the triaged staff view, patient records, and
// the dashboard.
package wardapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/linnemanlabs/go-core/log"
	"github.com/linnemanlabs/go-core/xerrors"
	"github.com/linnemanlabs/wardline/internal/records"
	"github.com/linnemanlabs/wardline/internal/request"
)

// RequestService defines the queue operations wardapi needs.
type RequestService interface {
	Submit(ctx context.Context, in request.SubmitInput) (*request.Request, error)
	Triaged(ctx context.Context) (sosAlerts, queued []request.Request, err error)
	Resolve(ctx context.Context, id string) (request.Outcome, error)
}

// API holds dependencies for HTTP handlers.
type API struct {
	logger  log.Logger
	reqs    RequestService
	records records.Store

	// now is the render-time clock for age labels.
	now func() time.Time
}

// New creates a new API handler.
func New(logger log.Logger, reqs RequestService, recs records.Store) *API {
	if logger == nil {
		logger = log.Nop()
	}
	if reqs == nil {
		panic(xerrors.New("request service is required"))
	}
	if recs == nil {
		panic(xerrors.New("records store is required"))
	}
	return &API{
		logger:  logger,
		reqs:    reqs,
		records: recs,
		now:     time.Now,
	}
}

// RegisterRoutes attaches API endpoints to the router. patientAuth guards the
// patient-facing endpoints and may be nil to leave them open; staffAuth
// guards the staff console endpoints and may also be nil.
func (a *API) RegisterRoutes(r chi.Router, patientAuth, staffAuth func(http.Handler) http.Handler) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if patientAuth != nil {
				r.Use(patientAuth)
			}
			r.Post("/requests", a.handleSubmitRequest)
			r.Get("/patients/{id}/goals", a.handleGetGoals)
			r.Put("/patients/{id}/goals", a.handleUpdateGoals)
			r.Post("/bmi", a.handleBMI)
		})

		r.Group(func(r chi.Router) {
			if staffAuth != nil {
				r.Use(staffAuth)
			}
			r.Get("/requests", a.handleGetRequests)
			r.Put("/requests/{id}/resolve", a.handleResolveRequest)
			r.Get("/patients", a.handleListPatients)
			r.Post("/patients", a.handleAdmitPatient)
			r.Get("/patients/{id}", a.handleGetPatient)
			r.Get("/staff", a.handleListStaff)
			r.Get("/staff/summary", a.handleStaffSummary)
			r.Get("/dashboard", a.handleDashboard)
		})
	})
}
