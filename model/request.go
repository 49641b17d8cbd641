/*
Copyright 2025 Carelane Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	StatusAwaitingSample  = "AWAITING_SAMPLE"
	StatusSampleCollected = "SAMPLE_COLLECTED"
	StatusProcessing      = "PROCESSING"
	StatusResultReady     = "RESULT_READY"
	StatusCompleted       = "COMPLETED"
	StatusCancelled       = "CANCELLED"
)

const (
	PriorityRoutine  = "routine"
	PriorityPriority = "priority"
)

// requestIDPrefix is the prefix for monotonically assigned request identifiers.
const requestIDPrefix = "LAB-"

// AuditEntry is an immutable record of a single mutation to a service request.
// Entries are prepended, so a request's audit list is always newest first.
type AuditEntry struct {
	At     time.Time `json:"at"`
	Action string    `json:"action"`
}

// ServiceRequest represents one requested diagnostic test and its lifecycle
// state. Requests are never hard-deleted; they terminate in COMPLETED or
// CANCELLED.
type ServiceRequest struct {
	RequestID      string       `json:"request_id"`
	PatientName    string       `json:"patient_name"`
	PatientContact string       `json:"patient_contact"`
	TestID         string       `json:"test_id"`
	Status         string       `json:"status"`
	ScheduledFor   string       `json:"scheduled_for"`
	PaymentStatus  string       `json:"payment_status"`
	Priority       string       `json:"priority"`
	Channel        string       `json:"channel"`
	ClinicianNote  string       `json:"clinician_note,omitempty"`
	Notes          string       `json:"notes,omitempty"`
	TechnicianName string       `json:"technician_name,omitempty"`
	TechnicianID   string       `json:"technician_id,omitempty"`
	PartnerID      string       `json:"partner_id,omitempty"`
	PartnerName    string       `json:"partner_name,omitempty"`
	ResultID       string       `json:"result_id,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	Audit          []AuditEntry `json:"audit"`
}

// transitions is the canonical status table. A transition is permitted only if
// the target appears in the slice keyed by the current status. Terminal
// statuses have no entries.
var transitions = map[string][]string{
	StatusAwaitingSample:  {StatusSampleCollected, StatusCancelled},
	StatusSampleCollected: {StatusProcessing, StatusCancelled},
	StatusProcessing:      {StatusResultReady, StatusCancelled},
	StatusResultReady:     {StatusCompleted},
	StatusCompleted:       {},
	StatusCancelled:       {},
}

// CanTransition reports whether the status table permits moving from one
// status to another. A same-status "move" is never permitted.
func CanTransition(from, to string) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// NextStatus returns the single canonical advance target for a status, or an
// empty string when the status is terminal. RESULT_READY is deliberately
// excluded: completing a request from there goes through the mark-received
// path, not the generic advance.
func NextStatus(status string) string {
	switch status {
	case StatusAwaitingSample:
		return StatusSampleCollected
	case StatusSampleCollected:
		return StatusProcessing
	case StatusProcessing:
		return StatusResultReady
	default:
		return ""
	}
}

// IsActiveStatus reports whether a request in this status can still be
// cancelled.
func IsActiveStatus(status string) bool {
	return status == StatusAwaitingSample || status == StatusSampleCollected || status == StatusProcessing
}

// NextRequestID computes the next monotonic request identifier from the
// current collection. Identifiers are of the form LAB-<n> with n strictly
// increasing across the collection's lifetime.
func NextRequestID(requests []ServiceRequest) string {
	max := 0
	for _, r := range requests {
		n, err := strconv.Atoi(strings.TrimPrefix(r.RequestID, requestIDPrefix))
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return fmt.Sprintf("%s%d", requestIDPrefix, max+1)
}

// AppendAudit prepends a new audit entry so the newest record is always first.
func (r *ServiceRequest) AppendAudit(at time.Time, action string) {
	r.Audit = append([]AuditEntry{{At: at, Action: action}}, r.Audit...)
}
