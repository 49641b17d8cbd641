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

import "time"

// Consultation is a read-only record from the consultation domain. Only the
// fields payout derivation needs are modeled here; the consultation screens
// own everything else.
type Consultation struct {
	ConsultationID string    `json:"consultation_id"`
	DoctorID       string    `json:"doctor_id"`
	DoctorName     string    `json:"doctor_name"`
	DoctorType     string    `json:"doctor_type"`
	Status         string    `json:"status"`
	ScheduledAt    time.Time `json:"scheduled_at"`
	LastMessageAt  time.Time `json:"last_message_at,omitempty"`
}

// PrescriptionRecord is a read-only record from the pharmacy domain.
type PrescriptionRecord struct {
	PrescriptionID string    `json:"prescription_id"`
	Status         string    `json:"status"`
	DispatchStatus string    `json:"dispatch_status"`
	Pharmacist     string    `json:"pharmacist"`
	PharmacistID   string    `json:"pharmacist_id,omitempty"`
	Submitted      time.Time `json:"submitted"`
}

const (
	ConsultationCompleted = "completed"
	DoctorTypePediatric   = "pediatrician"

	PrescriptionApproved  = "approved"
	PrescriptionDelivered = "delivered"
)

// EffectiveTime returns the consultation's scheduled time, falling back to the
// last message time when no schedule was recorded.
func (c Consultation) EffectiveTime() time.Time {
	if !c.ScheduledAt.IsZero() {
		return c.ScheduledAt
	}
	return c.LastMessageAt
}

// PayoutRole maps a consultation's doctor type onto a payout-rule role.
func (c Consultation) PayoutRole() string {
	if c.DoctorType == DoctorTypePediatric {
		return RolePediatrician
	}
	return RoleDoctor
}

// QualifiesForPayout reports whether a prescription has been both approved and
// delivered, the trigger condition for a pharmacist payout.
func (p PrescriptionRecord) QualifiesForPayout() bool {
	return p.Status == PrescriptionApproved && p.DispatchStatus == PrescriptionDelivered
}
