package request

import (
	"strings"
	"time"
)

// Type classifies a pending request. Anything that is not SOS is handled
// through the consultation queue.
type Type string

const (
	// TypeSOS is an emergency alert. Always maximal priority, never ranked
	// against the consultation queue.
	TypeSOS Type = "SOS"

	// TypeBookNow is a routine "book a doctor now" consultation request.
	TypeBookNow Type = "BOOK_NOW"

	// TypeDoctorConnect is the legacy alias some patient clients still send
	// for a consultation request. Queued exactly like BOOK_NOW.
	TypeDoctorConnect Type = "DOCTOR_CONNECT"
)

// NormalizeType folds case and fills the default. An unset type means a
// routine consultation; unknown values are preserved uppercased so the
// triage partition can still queue them.
func NormalizeType(s string) Type {
	t := Type(strings.ToUpper(strings.TrimSpace(s)))
	if t == "" {
		return TypeBookNow
	}
	return t
}

// Criticality is the three-level urgency classification for queued requests.
// It may be empty: the sort path and the display path apply different
// defaults, and those defaults are deliberately kept at their call sites.
type Criticality string

const (
	CriticalityHigh   Criticality = "HIGH"
	CriticalityMedium Criticality = "MEDIUM"
	CriticalityLow    Criticality = "LOW"
)

// NormalizeCriticality folds case once at ingestion. Empty stays empty;
// unrecognized values are preserved uppercased and rank below LOW.
func NormalizeCriticality(s string) Criticality {
	return Criticality(strings.ToUpper(strings.TrimSpace(s)))
}

// Rank maps a criticality to its sort weight. Absent defaults to LOW for
// ordering purposes; unrecognized values sort below everything.
func (c Criticality) Rank() int {
	switch c {
	case CriticalityHigh:
		return 3
	case CriticalityMedium:
		return 2
	case CriticalityLow, "":
		return 1
	default:
		return 0
	}
}

// Request is a pending doctor request. ID and CreatedAt are assigned once at
// submission and never change; resolution removes the request entirely.
type Request struct {
	ID          string      `json:"id"`
	PatientID   string      `json:"patient_id,omitempty"`
	PatientName string      `json:"patient_name"`
	Reason      string      `json:"reason,omitempty"`
	Type        Type        `json:"type"`
	Criticality Criticality `json:"criticality,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}
