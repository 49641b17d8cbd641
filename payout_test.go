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
package labops

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carelane/labops/database"
	"github.com/carelane/labops/model"
)

// seedCollection writes an upstream collection straight into the store. The
// consultation and prescription collections are read-only to the engine, so
// tests populate them at the wire level.
func seedCollection(t *testing.T, client *redis.Client, key string, v interface{}) {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, client.Set(context.Background(), key, data, 0).Err())
}

func TestDerivePayoutsForLabRequest(t *testing.T) {
	l, _ := newTestLabops(t)
	ctx := context.Background()

	_, err := l.UpsertPayoutRule(ctx, model.PayoutRule{
		Role: model.RoleLabTechnician, Amount: decimal.NewFromInt(700), Currency: "USD", Active: true,
	})
	require.NoError(t, err)

	request := createTestRequest(t, l)
	_, err = l.AssignTechnician(ctx, request.RequestID, "Jane", "tech_1", "")
	require.NoError(t, err)
	_, err = l.UpsertResult(ctx, request.RequestID, ResultPayload{Summary: "Normal", ReviewedBy: "Dr. T"})
	require.NoError(t, err)
	_, _, err = l.MarkResultReceived(ctx, request.RequestID)
	require.NoError(t, err)

	ledger, err := l.DerivePayouts(ctx)
	require.NoError(t, err)

	require.Len(t, ledger, 1)
	row := ledger[0]
	assert.Equal(t, "lab-LAB-1", row.PayoutID)
	assert.Equal(t, "Jane", row.RecipientName)
	assert.Equal(t, "tech_1", row.RecipientID)
	assert.Equal(t, model.RoleLabTechnician, row.Role)
	assert.True(t, decimal.NewFromInt(700).Equal(row.Amount))
	assert.Equal(t, model.PayoutPending, row.Status)
	assert.Equal(t, model.PayoutSourceAutomatic, row.Source)
	assert.Equal(t, request.RequestID, row.TaskID)
}

func TestDerivePayoutsIsIdempotent(t *testing.T) {
	l, _ := newTestLabops(t)
	ctx := context.Background()

	_, err := l.UpsertPayoutRule(ctx, model.PayoutRule{
		Role: model.RoleLabTechnician, Amount: decimal.NewFromInt(700), Currency: "USD", Active: true,
	})
	require.NoError(t, err)

	request := createTestRequest(t, l)
	_, err = l.AssignTechnician(ctx, request.RequestID, "Jane", "tech_1", "")
	require.NoError(t, err)
	_, err = l.UpsertResult(ctx, request.RequestID, ResultPayload{Summary: "Normal", ReviewedBy: "Dr. T"})
	require.NoError(t, err)

	first, err := l.DerivePayouts(ctx)
	require.NoError(t, err)
	second, err := l.DerivePayouts(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second, "re-derivation against unchanged upstream state changes nothing")
}

func TestDerivePayoutsPreservesOperatorEdits(t *testing.T) {
	l, _ := newTestLabops(t)
	ctx := context.Background()

	_, err := l.UpsertPayoutRule(ctx, model.PayoutRule{
		Role: model.RoleLabTechnician, Amount: decimal.NewFromInt(700), Currency: "USD", Active: true,
	})
	require.NoError(t, err)

	request := createTestRequest(t, l)
	_, err = l.AssignTechnician(ctx, request.RequestID, "Jane", "tech_1", "")
	require.NoError(t, err)
	_, err = l.UpsertResult(ctx, request.RequestID, ResultPayload{Summary: "Normal", ReviewedBy: "Dr. T"})
	require.NoError(t, err)

	ledger, err := l.DerivePayouts(ctx)
	require.NoError(t, err)
	require.Len(t, ledger, 1)

	paid := model.PayoutPaid
	method := "bank transfer"
	updated, err := l.UpdatePayout(ctx, ledger[0].PayoutID, PayoutEdits{Status: &paid, Method: &method})
	require.NoError(t, err)
	require.NotNil(t, updated.PaidAt)

	// The upstream record changes, the operator's edits do not.
	_, err = l.AssignTechnician(ctx, request.RequestID, "Jane A. Doe", "tech_1", "")
	require.NoError(t, err)

	ledger, err = l.DerivePayouts(ctx)
	require.NoError(t, err)
	require.Len(t, ledger, 1)
	row := ledger[0]
	assert.Equal(t, "Jane A. Doe", row.RecipientName, "upstream fields refresh")
	assert.Equal(t, model.PayoutPaid, row.Status, "operator status survives")
	assert.Equal(t, "bank transfer", row.Method)
	assert.NotNil(t, row.PaidAt)
}

func TestDerivePayoutsLeavesManualRowsAlone(t *testing.T) {
	l, _ := newTestLabops(t)
	ctx := context.Background()

	manual, err := l.CreateManualPayout(ctx, model.LedgerEntry{
		RecipientName: "Locum Courier",
		Role:          model.RoleLabPartner,
		Amount:        decimal.NewFromInt(50),
		Currency:      "USD",
		Notes:         "one-off delivery bonus",
	})
	require.NoError(t, err)

	ledger, err := l.DerivePayouts(ctx)
	require.NoError(t, err)

	require.Len(t, ledger, 1)
	assert.Equal(t, manual.PayoutID, ledger[0].PayoutID)
	assert.Equal(t, model.PayoutSourceManual, ledger[0].Source)
	assert.Equal(t, "one-off delivery bonus", ledger[0].Notes)
}

func TestDerivePayoutsFromUpstreamDomains(t *testing.T) {
	l, client := newTestLabops(t)
	ctx := context.Background()

	require.NoError(t, l.SeedPayoutRules(ctx))

	when := time.Date(2026, time.March, 4, 10, 0, 0, 0, time.UTC)
	seedCollection(t, client, database.KeyConsultations, []model.Consultation{
		{ConsultationID: "cons_1", DoctorID: "doc_1", DoctorName: "Dr. Ade", Status: model.ConsultationCompleted, ScheduledAt: when},
		{ConsultationID: "cons_2", DoctorID: "doc_2", DoctorName: "Dr. Bisi", DoctorType: model.DoctorTypePediatric, Status: model.ConsultationCompleted, ScheduledAt: when},
		{ConsultationID: "cons_3", DoctorID: "doc_3", DoctorName: "Dr. Chi", Status: "scheduled", ScheduledAt: when},
	})
	seedCollection(t, client, database.KeyPrescriptions, []model.PrescriptionRecord{
		{PrescriptionID: "rx_1", Status: model.PrescriptionApproved, DispatchStatus: model.PrescriptionDelivered, Pharmacist: "Ugo", PharmacistID: "ph_1", Submitted: when},
		{PrescriptionID: "rx_2", Status: model.PrescriptionApproved, DispatchStatus: "in_transit", Pharmacist: "Ugo", PharmacistID: "ph_1", Submitted: when},
	})

	ledger, err := l.DerivePayouts(ctx)
	require.NoError(t, err)
	require.Len(t, ledger, 3, "one per completed consultation plus the delivered prescription")

	byID := make(map[string]model.LedgerEntry, len(ledger))
	for _, row := range ledger {
		byID[row.PayoutID] = row
	}

	doctor := byID["consult-cons_1"]
	assert.Equal(t, model.RoleDoctor, doctor.Role)
	assert.True(t, decimal.NewFromInt(1000).Equal(doctor.Amount))
	assert.Equal(t, "March 2026", doctor.Period)

	pediatrician := byID["consult-cons_2"]
	assert.Equal(t, model.RolePediatrician, pediatrician.Role)
	assert.True(t, decimal.NewFromInt(1200).Equal(pediatrician.Amount))

	pharmacist := byID["rx-rx_1"]
	assert.Equal(t, model.RolePharmacist, pharmacist.Role)
	assert.True(t, decimal.NewFromInt(300).Equal(pharmacist.Amount))
	assert.Equal(t, "Ugo", pharmacist.RecipientName)
}

func TestDerivePayoutsSkipsRolesWithoutActiveRule(t *testing.T) {
	l, _ := newTestLabops(t)
	ctx := context.Background()

	_, err := l.UpsertPayoutRule(ctx, model.PayoutRule{
		Role: model.RoleLabTechnician, Amount: decimal.NewFromInt(700), Currency: "USD", Active: false,
	})
	require.NoError(t, err)

	request := createTestRequest(t, l)
	_, err = l.AssignTechnician(ctx, request.RequestID, "Jane", "tech_1", "")
	require.NoError(t, err)
	_, err = l.UpsertResult(ctx, request.RequestID, ResultPayload{Summary: "Normal", ReviewedBy: "Dr. T"})
	require.NoError(t, err)

	ledger, err := l.DerivePayouts(ctx)
	require.NoError(t, err)
	assert.Empty(t, ledger, "an inactive rule produces no candidate")
}

func TestCreateManualPayoutValidation(t *testing.T) {
	l, _ := newTestLabops(t)
	ctx := context.Background()

	_, err := l.CreateManualPayout(ctx, model.LedgerEntry{Amount: decimal.NewFromInt(10)})
	assert.Error(t, err, "recipient name is required")

	_, err = l.CreateManualPayout(ctx, model.LedgerEntry{RecipientName: "X", Amount: decimal.Zero})
	assert.Error(t, err, "amount must be positive")
}

func TestUpsertPayoutRuleReplacesByRole(t *testing.T) {
	l, _ := newTestLabops(t)
	ctx := context.Background()

	_, err := l.UpsertPayoutRule(ctx, model.PayoutRule{Role: model.RoleDoctor, Amount: decimal.NewFromInt(1000), Currency: "USD", Active: true})
	require.NoError(t, err)
	_, err = l.UpsertPayoutRule(ctx, model.PayoutRule{Role: model.RoleDoctor, Amount: decimal.NewFromInt(1500), Currency: "USD", Active: true})
	require.NoError(t, err)

	rules, err := l.GetPayoutRules(ctx)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.True(t, decimal.NewFromInt(1500).Equal(rules[0].Amount))
}

func TestSeedPayoutRulesIsIdempotent(t *testing.T) {
	l, _ := newTestLabops(t)
	ctx := context.Background()

	require.NoError(t, l.SeedPayoutRules(ctx))
	rules, err := l.GetPayoutRules(ctx)
	require.NoError(t, err)
	require.Len(t, rules, 5)

	// A custom edit survives a second seeding pass.
	rules[0].Amount = decimal.NewFromInt(9999)
	_, err = l.UpsertPayoutRule(ctx, rules[0])
	require.NoError(t, err)

	require.NoError(t, l.SeedPayoutRules(ctx))
	after, err := l.GetPayoutRules(ctx)
	require.NoError(t, err)
	require.Len(t, after, 5)
	for _, rule := range after {
		if rule.Role == rules[0].Role {
			assert.True(t, decimal.NewFromInt(9999).Equal(rule.Amount))
		}
	}
}
