package records

import "strings"

// StaffSummary counts roster members by broad role group for the staffing
// report.
type StaffSummary struct {
	Doctors int `json:"doctors"`
	Nurses  int `json:"nurses"`
	Admins  int `json:"admins"`
	Total   int `json:"total"`
}

// Summarize groups staff the way the staffing report displays them:
// doctors (Doctor/Physician/Surgeon), nurses, and administrative staff
// (Admin/Admissions). Roles outside those groups count only toward Total.
func Summarize(staff []StaffMember) StaffSummary {
	var s StaffSummary
	for _, m := range staff {
		s.Total++
		switch {
		case containsAny(m.Role, "Doctor", "Physician", "Surgeon"):
			s.Doctors++
		case strings.Contains(m.Role, "Nurse"):
			s.Nurses++
		case containsAny(m.Role, "Admin", "Admissions"):
			s.Admins++
		}
	}
	return s
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
