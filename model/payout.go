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
	"time"

	"github.com/shopspring/decimal"
)

const (
	RoleDoctor        = "Doctor"
	RolePediatrician  = "Pediatrician"
	RoleLabTechnician = "Lab Technician"
	RoleLabPartner    = "Lab Partner"
	RolePharmacist    = "Pharmacist"
)

const (
	PayoutPending = "pending"
	PayoutPaid    = "paid"
	PayoutFailed  = "failed"
)

const (
	PayoutSourceAutomatic = "automatic"
	PayoutSourceManual    = "manual"
)

// Task types identify the upstream domain that triggered an automatic payout.
const (
	TaskTypeConsultation = "consultation"
	TaskTypeLabRequest   = "lab_request"
	TaskTypeLabPartner   = "lab_partner"
	TaskTypePrescription = "prescription"
)

// PayoutRule is read-only reference data: the flat amount paid per completed
// unit of work for a role. Inactive rules produce no candidates during
// derivation.
type PayoutRule struct {
	Role     string          `json:"role"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	Active   bool            `json:"active"`
}

// LedgerEntry is one row of the derived payout ledger. Automatic rows carry a
// deterministic identity computed from their upstream trigger, which is what
// makes re-derivation idempotent. Manual rows are operator-entered and are
// never touched by derivation.
type LedgerEntry struct {
	PayoutID      string          `json:"payout_id"`
	RecipientID   string          `json:"recipient_id,omitempty"`
	RecipientName string          `json:"recipient_name"`
	Role          string          `json:"role"`
	Period        string          `json:"period"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Method        string          `json:"method,omitempty"`
	Reference     string          `json:"reference,omitempty"`
	Status        string          `json:"status"`
	RequestedAt   time.Time       `json:"requested_at"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	Source        string          `json:"source"`
	TaskType      string          `json:"task_type,omitempty"`
	TaskID        string          `json:"task_id,omitempty"`
}

// AutomaticPayoutID builds the deterministic identity for an automatic ledger
// row. The same upstream trigger always yields the same identity.
func AutomaticPayoutID(prefix, sourceID string) string {
	return fmt.Sprintf("%s-%s", prefix, sourceID)
}

// refreshFrom recomputes an automatic row's derived fields from a fresh
// candidate while keeping every field an operator may have edited. Status,
// paid timestamp, notes, method, reference and the original requested
// timestamp all survive re-derivation once set.
func (e LedgerEntry) refreshFrom(candidate LedgerEntry) LedgerEntry {
	refreshed := candidate
	if e.Status != "" {
		refreshed.Status = e.Status
	}
	if e.PaidAt != nil {
		refreshed.PaidAt = e.PaidAt
	}
	if e.Notes != "" {
		refreshed.Notes = e.Notes
	}
	if e.Method != "" {
		refreshed.Method = e.Method
	}
	if e.Reference != "" {
		refreshed.Reference = e.Reference
	}
	if !e.RequestedAt.IsZero() {
		refreshed.RequestedAt = e.RequestedAt
	}
	return refreshed
}

// MergeLedger reconciles freshly derived candidates against the persisted
// ledger. Manual rows pass through untouched, matched automatic rows are
// refreshed from their candidate, and unmatched candidates are prepended as
// new rows. Rows are never removed: once a payout has materialized it stays in
// the ledger even if its upstream qualifying condition stops holding.
//
// The merge is idempotent: running it twice against the same candidates
// produces an identical ledger.
func MergeLedger(existing, candidates []LedgerEntry) []LedgerEntry {
	byID := make(map[string]LedgerEntry, len(candidates))
	for _, c := range candidates {
		byID[c.PayoutID] = c
	}

	merged := make([]LedgerEntry, 0, len(existing)+len(candidates))
	matched := make(map[string]bool, len(existing))

	for _, row := range existing {
		candidate, ok := byID[row.PayoutID]
		if !ok {
			merged = append(merged, row)
			continue
		}
		matched[row.PayoutID] = true
		if row.Source == PayoutSourceManual {
			// A manual row claims its identity: the colliding candidate is
			// swallowed, never applied.
			merged = append(merged, row)
			continue
		}
		merged = append(merged, row.refreshFrom(candidate))
	}

	var fresh []LedgerEntry
	for _, c := range candidates {
		if !matched[c.PayoutID] {
			fresh = append(fresh, c)
		}
	}

	return append(fresh, merged...)
}
