// Package records holds the form-over-data side of wardline: patient
// admission records, health goals, and the staff roster. No triage logic
// lives here; the doctor-request queue is internal/request.
package records

import "time"

// Goals are a patient's daily health targets.
type Goals struct {
	Steps int     `json:"steps"`
	Water float64 `json:"water"`
	Sleep float64 `json:"sleep"`
}

// DefaultGoals returns the targets assigned to a newly admitted patient.
func DefaultGoals() Goals {
	return Goals{Steps: 7500, Water: 6, Sleep: 7}
}

// Patient is an admitted patient record, looked up by PatientID.
type Patient struct {
	PatientID  string    `json:"patient_id"`
	Name       string    `json:"name"`
	Ward       string    `json:"ward"`
	Condition  string    `json:"condition"`
	Age        int       `json:"age"`
	Goals      Goals     `json:"goals"`
	AdmittedAt time.Time `json:"admitted_at"`
}

// StaffMember is a roster entry.
type StaffMember struct {
	StaffID string `json:"staff_id"`
	Name    string `json:"name"`
	Role    string `json:"role"`
	Shift   string `json:"shift"`
	Contact string `json:"contact"`
}
