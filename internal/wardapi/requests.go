package wardapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/go-chi/chi/v5"
	"github.com/linnemanlabs/wardline/internal/request"
)

// Display defaults applied at render time. The queue keeps the sort-rank
// default while SOS alerts escalate to HIGH; the two paths stay separate.
const (
	defaultSOSReason   = "Immediate Assistance Required"
	defaultQueueReason = "Standard Consultation"
)

type submitRequestPayload struct {
	PatientID   string `json:"patient_id"`
	PatientName string `json:"patient_name"`
	Reason      string `json:"reason"`
	Criticality string `json:"criticality"`
	Type        string `json:"type"`
}

func (a *API) handleSubmitRequest(w http.ResponseWriter, r *http.Request) {
	var payload submitRequestPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, `{"error":"invalid payload"}`, http.StatusBadRequest)
		return
	}

	created, err := a.reqs.Submit(r.Context(), request.SubmitInput{
		PatientID:   payload.PatientID,
		PatientName: payload.PatientName,
		Reason:      payload.Reason,
		Criticality: payload.Criticality,
		Type:        payload.Type,
	})
	if err != nil {
		if errors.Is(err, request.ErrInvalid) {
			http.Error(w, `{"error":"patient name is required"}`, http.StatusBadRequest)
			return
		}
		a.logger.Error(r.Context(), err, "failed to submit request")
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(
		attribute.String("wardline.request.id", created.ID),
		attribute.String("wardline.request.type", string(created.Type)),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(created)
}

// sosAlertView is an SOS entry as the staff console renders it.
type sosAlertView struct {
	ID          string    `json:"id"`
	PatientID   string    `json:"patient_id,omitempty"`
	PatientName string    `json:"patient_name"`
	Reason      string    `json:"reason"`
	Criticality string    `json:"criticality"`
	Age         string    `json:"age"`
	CreatedAt   time.Time `json:"created_at"`
}

// queueEntryView is a queued consultation as the staff console renders it.
// Position is 1-based.
type queueEntryView struct {
	Position    int       `json:"position"`
	ID          string    `json:"id"`
	PatientID   string    `json:"patient_id,omitempty"`
	PatientName string    `json:"patient_name"`
	Reason      string    `json:"reason"`
	Criticality string    `json:"criticality"`
	Age         string    `json:"age"`
	CreatedAt   time.Time `json:"created_at"`
}

type triagedView struct {
	SOSAlerts []sosAlertView   `json:"sos_alerts"`
	Queue     []queueEntryView `json:"queue"`
}

func (a *API) handleGetRequests(w http.ResponseWriter, r *http.Request) {
	sos, queued, err := a.reqs.Triaged(r.Context())
	if err != nil {
		a.logger.Error(r.Context(), err, "failed to load triaged requests")
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(
		attribute.Int("wardline.requests.sos", len(sos)),
		attribute.Int("wardline.requests.queued", len(queued)),
	)

	now := a.now()
	view := triagedView{
		SOSAlerts: make([]sosAlertView, 0, len(sos)),
		Queue:     make([]queueEntryView, 0, len(queued)),
	}
	for _, req := range sos {
		view.SOSAlerts = append(view.SOSAlerts, renderSOSAlert(req, now))
	}
	for i, req := range queued {
		view.Queue = append(view.Queue, renderQueueEntry(req, i+1, now))
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(view)
}

func renderSOSAlert(r request.Request, now time.Time) sosAlertView {
	criticality := r.Criticality
	if criticality == "" {
		criticality = request.CriticalityHigh
	}
	reason := r.Reason
	if reason == "" {
		reason = defaultSOSReason
	}
	return sosAlertView{
		ID:          r.ID,
		PatientID:   r.PatientID,
		PatientName: r.PatientName,
		Reason:      reason,
		Criticality: string(criticality),
		Age:         request.FormatAge(r.CreatedAt, now),
		CreatedAt:   r.CreatedAt,
	}
}

func renderQueueEntry(r request.Request, position int, now time.Time) queueEntryView {
	criticality := r.Criticality
	if criticality == "" {
		criticality = request.CriticalityLow
	}
	reason := r.Reason
	if reason == "" {
		reason = defaultQueueReason
	}
	return queueEntryView{
		Position:    position,
		ID:          r.ID,
		PatientID:   r.PatientID,
		PatientName: r.PatientName,
		Reason:      reason,
		Criticality: string(criticality),
		Age:         request.FormatAge(r.CreatedAt, now),
		CreatedAt:   r.CreatedAt,
	}
}

func (a *API) handleResolveRequest(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(attribute.String("wardline.request.id", id))

	outcome, err := a.reqs.Resolve(r.Context(), id)
	if err != nil {
		a.logger.Error(r.Context(), err, "failed to resolve request", "id", id)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	span.SetAttributes(attribute.String("wardline.resolve.outcome", string(outcome)))

	if outcome == request.OutcomeNotFound {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":      id,
		"outcome": outcome,
	})
}
