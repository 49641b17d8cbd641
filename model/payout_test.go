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
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func automaticCandidate(id, name string, amount int64) LedgerEntry {
	return LedgerEntry{
		PayoutID:      id,
		RecipientName: name,
		Role:          RoleLabTechnician,
		Period:        "February 2026",
		Amount:        decimal.NewFromInt(amount),
		Currency:      "USD",
		Status:        PayoutPending,
		RequestedAt:   time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC),
		Source:        PayoutSourceAutomatic,
		TaskType:      TaskTypeLabRequest,
		TaskID:        "LAB-1",
	}
}

func TestMergeLedgerPrependsNewCandidates(t *testing.T) {
	existing := []LedgerEntry{automaticCandidate("lab-LAB-1", "Jane", 700)}
	candidates := []LedgerEntry{
		automaticCandidate("lab-LAB-1", "Jane", 700),
		automaticCandidate("lab-LAB-2", "Amara", 700),
	}

	merged := MergeLedger(existing, candidates)

	assert.Len(t, merged, 2)
	assert.Equal(t, "lab-LAB-2", merged[0].PayoutID, "new candidates come first")
	assert.Equal(t, "lab-LAB-1", merged[1].PayoutID)
}

func TestMergeLedgerIsIdempotent(t *testing.T) {
	existing := []LedgerEntry{automaticCandidate("lab-LAB-9", "Jane", 500)}
	candidates := []LedgerEntry{
		automaticCandidate("lab-LAB-9", "Jane", 500),
		automaticCandidate("lab-LAB-10", "Amara", 500),
	}

	once := MergeLedger(existing, candidates)
	twice := MergeLedger(once, candidates)

	assert.Equal(t, once, twice, "merging the same candidates twice must be a no-op")
}

func TestMergeLedgerPreservesManualRows(t *testing.T) {
	manual := LedgerEntry{
		PayoutID:      "payout_manual-1",
		RecipientName: "Dr. Okafor",
		Role:          RoleDoctor,
		Amount:        decimal.NewFromInt(1200),
		Status:        PayoutPaid,
		Source:        PayoutSourceManual,
	}
	candidates := []LedgerEntry{automaticCandidate("lab-LAB-4", "Jane", 700)}

	merged := MergeLedger([]LedgerEntry{manual}, candidates)

	assert.Len(t, merged, 2)
	assert.Equal(t, manual, merged[1], "manual rows are invariant under re-derivation")
}

func TestMergeLedgerManualRowClaimsIdentity(t *testing.T) {
	manual := automaticCandidate("lab-LAB-5", "Jane", 700)
	manual.Source = PayoutSourceManual
	manual.Amount = decimal.NewFromInt(950)

	candidates := []LedgerEntry{automaticCandidate("lab-LAB-5", "Jane", 700)}
	merged := MergeLedger([]LedgerEntry{manual}, candidates)

	assert.Len(t, merged, 1, "a colliding candidate must not duplicate a manual row")
	assert.True(t, decimal.NewFromInt(950).Equal(merged[0].Amount))
}

func TestMergeLedgerPreservesOperatorEdits(t *testing.T) {
	paidAt := time.Date(2026, 2, 20, 12, 0, 0, 0, time.UTC)
	edited := automaticCandidate("lab-LAB-7", "Jane", 700)
	edited.Status = PayoutPaid
	edited.PaidAt = &paidAt
	edited.Method = "bank_transfer"
	edited.Reference = "TRF-8831"
	edited.Notes = "paid early"

	// Upstream changed: the technician's on-file name was corrected.
	fresh := automaticCandidate("lab-LAB-7", "Jane A. Doe", 700)

	merged := MergeLedger([]LedgerEntry{edited}, []LedgerEntry{fresh})

	assert.Len(t, merged, 1)
	row := merged[0]
	assert.Equal(t, "Jane A. Doe", row.RecipientName, "computed fields refresh from the candidate")
	assert.Equal(t, PayoutPaid, row.Status)
	assert.Equal(t, &paidAt, row.PaidAt)
	assert.Equal(t, "bank_transfer", row.Method)
	assert.Equal(t, "TRF-8831", row.Reference)
	assert.Equal(t, "paid early", row.Notes)
	assert.Equal(t, edited.RequestedAt, row.RequestedAt)
}

func TestMergeLedgerNeverDeletes(t *testing.T) {
	// The rule behind this row was deactivated after it materialized; the
	// fresh derivation produces no candidate for it.
	stale := automaticCandidate("lab-LAB-2", "Jane", 700)

	merged := MergeLedger([]LedgerEntry{stale}, nil)

	assert.Len(t, merged, 1)
	assert.Equal(t, stale, merged[0])
}

func TestAutomaticPayoutID(t *testing.T) {
	assert.Equal(t, "lab-LAB-42", AutomaticPayoutID("lab", "LAB-42"))
	assert.Equal(t, "consult-c90", AutomaticPayoutID("consult", "c90"))
}
