// Package request provides the business boundary for wardline's doctor-request
// queue. It defines the Service (validation, ingestion normalization, resolve
// lifecycle), the pure Triage partition/sort, the Store interface
// (persistence), and domain models.
package request
