package wardapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/linnemanlabs/go-core/log"
	"github.com/linnemanlabs/wardline/internal/authmw"
	"github.com/linnemanlabs/wardline/internal/records"
	recmem "github.com/linnemanlabs/wardline/internal/records/memstore"
	"github.com/linnemanlabs/wardline/internal/request"
	reqmem "github.com/linnemanlabs/wardline/internal/request/memstore"
)

func newTestAPI(t *testing.T) (*API, records.Store) {
	t.Helper()
	svc := request.NewService(reqmem.New(), nil, nil, nil)
	recs := recmem.New()
	api := New(nil, svc, recs)
	return api, recs
}

func newTestRouter(t *testing.T) (chi.Router, *API) {
	t.Helper()
	api, _ := newTestAPI(t)
	r := chi.NewRouter()
	api.RegisterRoutes(r, nil, nil)
	return r, api
}

func doJSON(t *testing.T, r chi.Router, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

//  New / constructor

func TestNew_NilLogger(t *testing.T) {
	t.Parallel()

	svc := request.NewService(reqmem.New(), nil, nil, nil)
	api := New(nil, svc, recmem.New())
	if api == nil {
		t.Fatal("New(nil, svc, recs) returned nil API")
	}
	if api.logger == nil {
		t.Fatal("New(nil, svc, recs) left logger nil; expected Nop logger")
	}
}

func TestNew_NilRequestService_Panics(t *testing.T) {
	t.Parallel()

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("New with nil request service did not panic")
		}
	}()
	New(log.Nop(), nil, recmem.New())
}

func TestNew_NilRecordsStore_Panics(t *testing.T) {
	t.Parallel()

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("New with nil records store did not panic")
		}
	}()
	New(log.Nop(), request.NewService(reqmem.New(), nil, nil, nil), nil)
}

// Routing

func TestRegisterRoutes_Requests(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{"POST valid request", http.MethodPost, "/api/v1/requests", `{"patient_name":"Karan S.","type":"SOS"}`, http.StatusCreated},
		{"POST invalid JSON", http.MethodPost, "/api/v1/requests", `{bad`, http.StatusBadRequest},
		{"GET triaged view", http.MethodGet, "/api/v1/requests", "", http.StatusOK},
		{"DELETE not allowed", http.MethodDelete, "/api/v1/requests", "", http.StatusMethodNotAllowed},
		{"PATCH not allowed", http.MethodPatch, "/api/v1/requests", "", http.StatusMethodNotAllowed},
		{"PUT resolve unknown id", http.MethodPut, "/api/v1/requests/unknown/resolve", "", http.StatusNotFound},
		{"POST resolve not allowed", http.MethodPost, "/api/v1/requests/abc/resolve", "", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := doJSON(t, r, tt.method, tt.path, tt.body)
			if rec.Code != tt.wantStatus {
				t.Errorf("%s %s = %d, want %d", tt.method, tt.path, rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestRegisterRoutes_NotFound(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t)

	paths := []string{
		"/",
		"/api/v1",
		"/api/v2/requests",
		"/api/v1/unknown",
	}

	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != http.StatusNotFound {
				t.Errorf("GET %s = %d, want %d", path, rec.Code, http.StatusNotFound)
			}
		})
	}
}

// Auth wiring

func TestRegisterRoutes_StaffAuthRequired(t *testing.T) {
	t.Parallel()

	api, _ := newTestAPI(t)
	r := chi.NewRouter()
	api.RegisterRoutes(r, nil, authmw.Bearer(authmw.RoleStaff, "staff-token"))

	// Patient endpoint stays open
	rec := doJSON(t, r, http.MethodPost, "/api/v1/requests", `{"patient_name":"Ria V."}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("open patient endpoint = %d, want %d", rec.Code, http.StatusCreated)
	}

	// Staff endpoint rejects missing bearer
	rec = doJSON(t, r, http.MethodGet, "/api/v1/requests", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("staff endpoint without token = %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	// And accepts the right one
	req := httptest.NewRequest(http.MethodGet, "/api/v1/requests", http.NoBody)
	req.Header.Set("Authorization", "Bearer staff-token")
	rec2 := httptest.NewRecorder()
	r.ServeHTTP(rec2, req)
	if rec2.Code != http.StatusOK {
		t.Fatalf("staff endpoint with token = %d, want %d", rec2.Code, http.StatusOK)
	}
}

func TestRegisterRoutes_PatientAuth(t *testing.T) {
	t.Parallel()

	api, _ := newTestAPI(t)
	r := chi.NewRouter()
	api.RegisterRoutes(r, authmw.Bearer(authmw.RolePatient, "patient-token"), nil)

	rec := doJSON(t, r, http.MethodPost, "/api/v1/requests", `{"patient_name":"Ria V."}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("guarded patient endpoint without token = %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/requests", strings.NewReader(`{"patient_name":"Ria V."}`))
	req.Header.Set("Authorization", "Bearer patient-token")
	rec2 := httptest.NewRecorder()
	r.ServeHTTP(rec2, req)
	if rec2.Code != http.StatusCreated {
		t.Fatalf("guarded patient endpoint with token = %d, want %d", rec2.Code, http.StatusCreated)
	}
}

// Submission

func TestHandleSubmitRequest_Valid(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/v1/requests",
		`{"patient_id":"P1001","patient_name":"Karan S.","reason":"chest pain","criticality":"high","type":"sos"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var created request.Request
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.ID == "" {
		t.Error("expected assigned id")
	}
	if created.Type != request.TypeSOS {
		t.Errorf("type = %q, want %q", created.Type, request.TypeSOS)
	}
	if created.Criticality != request.CriticalityHigh {
		t.Errorf("criticality = %q, want %q", created.Criticality, request.CriticalityHigh)
	}
	if created.CreatedAt.IsZero() {
		t.Error("expected assigned created_at")
	}
}

func TestHandleSubmitRequest_MissingName(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/v1/requests", `{"reason":"help"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

// Triaged view

func TestHandleGetRequests_TriagedScenario(t *testing.T) {
	t.Parallel()

	r, api := newTestRouter(t)

	submit := func(body string) {
		t.Helper()
		rec := doJSON(t, r, http.MethodPost, "/api/v1/requests", body)
		if rec.Code != http.StatusCreated {
			t.Fatalf("submit = %d: %s", rec.Code, rec.Body.String())
		}
	}

	submit(`{"patient_name":"Karan S.","criticality":"HIGH","type":"SOS"}`)
	submit(`{"patient_name":"Ria V.","criticality":"LOW","type":"BOOK_NOW"}`)
	submit(`{"patient_name":"Manish R.","criticality":"HIGH","type":"BOOK_NOW"}`)

	// Freeze render time well past submission for stable age labels
	api.now = func() time.Time { return time.Now().UTC().Add(2 * time.Hour) }

	rec := doJSON(t, r, http.MethodGet, "/api/v1/requests", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var view triagedView
	if err := json.NewDecoder(rec.Body).Decode(&view); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if len(view.SOSAlerts) != 1 || view.SOSAlerts[0].PatientName != "Karan S." {
		t.Fatalf("sos_alerts = %+v, want exactly Karan S.", view.SOSAlerts)
	}
	if len(view.Queue) != 2 {
		t.Fatalf("queue length = %d, want 2", len(view.Queue))
	}
	// HIGH outranks LOW regardless of arrival order
	if view.Queue[0].PatientName != "Manish R." {
		t.Errorf("queue[0] = %q, want Manish R.", view.Queue[0].PatientName)
	}
	if view.Queue[1].PatientName != "Ria V." {
		t.Errorf("queue[1] = %q, want Ria V.", view.Queue[1].PatientName)
	}
	if view.Queue[0].Position != 1 || view.Queue[1].Position != 2 {
		t.Errorf("positions = %d, %d, want 1, 2", view.Queue[0].Position, view.Queue[1].Position)
	}
	if view.SOSAlerts[0].Age != "2 hrs ago" {
		t.Errorf("sos age = %q, want %q", view.SOSAlerts[0].Age, "2 hrs ago")
	}
}

func TestHandleGetRequests_DisplayDefaults(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/v1/requests", `{"patient_name":"Karan S.","type":"SOS"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit sos = %d", rec.Code)
	}
	rec = doJSON(t, r, http.MethodPost, "/api/v1/requests", `{"patient_name":"Ria V."}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit queue = %d", rec.Code)
	}

	rec = doJSON(t, r, http.MethodGet, "/api/v1/requests", "")
	var view triagedView
	if err := json.NewDecoder(rec.Body).Decode(&view); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if len(view.SOSAlerts) != 1 || len(view.Queue) != 1 {
		t.Fatalf("got %d sos / %d queued, want 1 / 1", len(view.SOSAlerts), len(view.Queue))
	}

	sos := view.SOSAlerts[0]
	if sos.Criticality != "HIGH" {
		t.Errorf("sos criticality = %q, want HIGH", sos.Criticality)
	}
	if sos.Reason != defaultSOSReason {
		t.Errorf("sos reason = %q, want %q", sos.Reason, defaultSOSReason)
	}

	q := view.Queue[0]
	if q.Criticality != "LOW" {
		t.Errorf("queue criticality = %q, want LOW", q.Criticality)
	}
	if q.Reason != defaultQueueReason {
		t.Errorf("queue reason = %q, want %q", q.Reason, defaultQueueReason)
	}
	if q.Age != "just now" {
		t.Errorf("queue age = %q, want %q", q.Age, "just now")
	}
}

func TestHandleGetRequests_Empty(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodGet, "/api/v1/requests", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	body := rec.Body.String()

	var view triagedView
	if err := json.NewDecoder(strings.NewReader(body)).Decode(&view); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(view.SOSAlerts) != 0 || len(view.Queue) != 0 {
		t.Errorf("expected empty view, got %+v", view)
	}
	// Empty arrays, not nulls, so the console can iterate blindly
	if !strings.Contains(body, `"sos_alerts":[]`) || !strings.Contains(body, `"queue":[]`) {
		t.Errorf("body = %s, want empty sos_alerts and queue arrays", body)
	}
}

// Resolution

func TestHandleResolveRequest_ResolveThenNotFound(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/v1/requests", `{"patient_name":"Manish R."}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit = %d", rec.Code)
	}
	var created request.Request
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	rec = doJSON(t, r, http.MethodPut, "/api/v1/requests/"+created.ID+"/resolve", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("first resolve = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["outcome"] != string(request.OutcomeResolved) {
		t.Errorf("outcome = %v, want %q", resp["outcome"], request.OutcomeResolved)
	}

	// Second resolve of the same id is informational, not an error
	rec = doJSON(t, r, http.MethodPut, "/api/v1/requests/"+created.ID+"/resolve", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second resolve = %d, want %d", rec.Code, http.StatusNotFound)
	}

	// And the triaged view no longer contains it
	rec = doJSON(t, r, http.MethodGet, "/api/v1/requests", "")
	var view triagedView
	if err := json.NewDecoder(rec.Body).Decode(&view); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(view.SOSAlerts) != 0 || len(view.Queue) != 0 {
		t.Errorf("resolved request still visible: %+v", view)
	}
}

// Fuzz

func FuzzRequestIngestion(f *testing.F) {
	svc := request.NewService(reqmem.New(), nil, nil, nil)
	api := New(nil, svc, recmem.New())
	r := chi.NewRouter()
	api.RegisterRoutes(r, nil, nil)

	seeds := []string{
		``,
		`{}`,
		`{"patient_name":"Karan S.","type":"SOS"}`,
		`{"patient_name":"Ria V.","criticality":"medium"}`,
		`{bad json`,
		`{"patient_name":"   "}`,
		`{"patient_name":"` + strings.Repeat("a", 10000) + `"}`,
		"\x00\x01\x02\xff",
	}
	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, body string) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/requests", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		// Must not panic
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated && rec.Code != http.StatusBadRequest {
			t.Errorf("POST /api/v1/requests with body len=%d = %d, want 201 or 400", len(body), rec.Code)
		}
	})
}
