// Package authmw provides HTTP middleware for bearer token authentication.
// Wardline runs two credential classes: a staff token for the hospital
// dashboard and a patient token for the patient dashboard.
package authmw

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
)

// Role identifies the actor class behind a bearer credential.
type Role string

const (
	// RoleStaff gates the triage queue, patient records, and roster.
	RoleStaff Role = "staff"

	// RolePatient gates request submission and the patient's own goals.
	RolePatient Role = "patient"
)

type roleKey struct{}

// Bearer returns middleware that validates the Authorization header contains
// a Bearer token matching the expected value, and stamps the role into the
// request context on success. Comparison uses constant-time equality to
// prevent timing side-channel attacks.
func Bearer(role Role, token string) func(http.Handler) http.Handler {
	expected := []byte(token)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")

			if !strings.HasPrefix(auth, "Bearer ") {
				http.Error(w, `{"error":"missing or malformed authorization header"}`, http.StatusUnauthorized)
				return
			}

			got := []byte(auth[len("Bearer "):])

			if subtle.ConstantTimeCompare(got, expected) != 1 {
				http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(withRole(r.Context(), role)))
		})
	}
}

func withRole(ctx context.Context, role Role) context.Context {
	return context.WithValue(ctx, roleKey{}, role)
}

// RoleFromContext returns the authenticated role, if any.
func RoleFromContext(ctx context.Context) (Role, bool) {
	role, ok := ctx.Value(roleKey{}).(Role)
	return role, ok
}
