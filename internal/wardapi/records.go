package wardapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/go-chi/chi/v5"
	"github.com/linnemanlabs/wardline/internal/records"
)

type admitPatientPayload struct {
	PatientID string `json:"patient_id"`
	Name      string `json:"name"`
	Ward      string `json:"ward"`
	Condition string `json:"condition"`
	Age       int    `json:"age"`
}

func (a *API) handleAdmitPatient(w http.ResponseWriter, r *http.Request) {
	var payload admitPatientPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, `{"error":"invalid payload"}`, http.StatusBadRequest)
		return
	}

	payload.PatientID = strings.TrimSpace(payload.PatientID)
	payload.Name = strings.TrimSpace(payload.Name)
	if payload.PatientID == "" || payload.Name == "" {
		http.Error(w, `{"error":"patient_id and name are required"}`, http.StatusBadRequest)
		return
	}

	p := &records.Patient{
		PatientID:  payload.PatientID,
		Name:       payload.Name,
		Ward:       payload.Ward,
		Condition:  payload.Condition,
		Age:        payload.Age,
		Goals:      records.DefaultGoals(),
		AdmittedAt: time.Now().UTC(),
	}

	if err := a.records.CreatePatient(r.Context(), p); err != nil {
		if errors.Is(err, records.ErrDuplicate) {
			http.Error(w, `{"error":"patient id already exists"}`, http.StatusBadRequest)
			return
		}
		a.logger.Error(r.Context(), err, "failed to admit patient", "patient_id", p.PatientID)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(attribute.String("wardline.patient.id", p.PatientID))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(p)
}

func (a *API) handleListPatients(w http.ResponseWriter, r *http.Request) {
	patients, err := a.records.ListPatients(r.Context())
	if err != nil {
		a.logger.Error(r.Context(), err, "failed to list patients")
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if patients == nil {
		patients = []records.Patient{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(patients)
}

func (a *API) handleGetPatient(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(attribute.String("wardline.patient.id", id))

	p, ok, err := a.records.GetPatient(r.Context(), id)
	if err != nil {
		a.logger.Error(r.Context(), err, "failed to get patient", "patient_id", id)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(p)
}

func (a *API) handleGetGoals(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, ok, err := a.records.GetPatient(r.Context(), id)
	if err != nil {
		a.logger.Error(r.Context(), err, "failed to get goals", "patient_id", id)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(p.Goals)
}

func (a *API) handleUpdateGoals(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var goals records.Goals
	if err := json.NewDecoder(r.Body).Decode(&goals); err != nil {
		http.Error(w, `{"error":"invalid payload"}`, http.StatusBadRequest)
		return
	}
	if goals.Steps < 0 || goals.Water < 0 || goals.Sleep < 0 {
		http.Error(w, `{"error":"goals must not be negative"}`, http.StatusBadRequest)
		return
	}

	ok, err := a.records.UpdateGoals(r.Context(), id, goals)
	if err != nil {
		a.logger.Error(r.Context(), err, "failed to update goals", "patient_id", id)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(goals)
}

type bmiPayload struct {
	WeightKg float64 `json:"weight_kg"`
	HeightCm float64 `json:"height_cm"`
}

func (a *API) handleBMI(w http.ResponseWriter, r *http.Request) {
	var payload bmiPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, `{"error":"invalid payload"}`, http.StatusBadRequest)
		return
	}

	value, category, err := records.BMI(payload.WeightKg, payload.HeightCm)
	if err != nil {
		http.Error(w, `{"error":"weight and height must be positive"}`, http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"bmi":      value,
		"category": category,
	})
}

func (a *API) handleListStaff(w http.ResponseWriter, r *http.Request) {
	staff, err := a.records.ListStaff(r.Context())
	if err != nil {
		a.logger.Error(r.Context(), err, "failed to list staff")
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if staff == nil {
		staff = []records.StaffMember{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(staff)
}

func (a *API) handleStaffSummary(w http.ResponseWriter, r *http.Request) {
	staff, err := a.records.ListStaff(r.Context())
	if err != nil {
		a.logger.Error(r.Context(), err, "failed to summarize staff")
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(records.Summarize(staff))
}

// dashboardView is the staff landing snapshot. Critical counts SOS alerts
// plus patients in Critical condition; Stable and Fair patients both count
// as stable.
type dashboardView struct {
	TotalPatients   int `json:"total_patients"`
	CriticalCount   int `json:"critical_count"`
	StablePatients  int `json:"stable_patients"`
	QueueDepth      int `json:"queue_depth"`
	PendingRequests int `json:"pending_requests"`
}

func (a *API) handleDashboard(w http.ResponseWriter, r *http.Request) {
	patients, err := a.records.ListPatients(r.Context())
	if err != nil {
		a.logger.Error(r.Context(), err, "failed to load dashboard patients")
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	sos, queued, err := a.reqs.Triaged(r.Context())
	if err != nil {
		a.logger.Error(r.Context(), err, "failed to load dashboard requests")
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	view := dashboardView{
		TotalPatients:   len(patients),
		CriticalCount:   len(sos),
		QueueDepth:      len(queued),
		PendingRequests: len(sos) + len(queued),
	}
	for _, p := range patients {
		switch {
		case strings.EqualFold(p.Condition, "Critical"):
			view.CriticalCount++
		case strings.EqualFold(p.Condition, "Stable"), strings.EqualFold(p.Condition, "Fair"):
			view.StablePatients++
		}
	}

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(
		attribute.Int("wardline.dashboard.patients", view.TotalPatients),
		attribute.Int("wardline.dashboard.pending", view.PendingRequests),
	)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(view)
}
