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
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/carelane/labops/config"
	"github.com/carelane/labops/database"
	"github.com/carelane/labops/internal/apierror"
	"github.com/carelane/labops/model"
)

// Deterministic identity prefixes, one per upstream domain.
const (
	payoutPrefixConsultation = "consult"
	payoutPrefixLabRequest   = "lab"
	payoutPrefixLabPartner   = "labpartner"
	payoutPrefixPrescription = "rx"
)

const rulesCacheKey = "labops:payout_rules:active"
const rulesCacheTTL = 1 * time.Minute

// DerivePayouts recomputes candidate ledger rows from the current state of
// every upstream domain and reconciles them with the persisted ledger. The
// merge only adds and refreshes; manual rows and operator edits survive, and
// repeated derivation against unchanged upstream state is a no-op.
func (l *Labops) DerivePayouts(ctx context.Context) ([]model.LedgerEntry, error) {
	ctx, span := tracer.Start(ctx, "Derive payout ledger")
	defer span.End()

	rules, err := l.activePayoutRules(ctx)
	if err != nil {
		return nil, err
	}

	candidates, err := l.deriveCandidates(ctx, rules)
	if err != nil {
		return nil, err
	}

	var merged []model.LedgerEntry
	var freshRows int
	err = l.withCollectionLock(ctx, database.KeyPayouts, func() error {
		existing, err := l.datasource.LoadPayouts(ctx)
		if err != nil {
			return err
		}
		merged = model.MergeLedger(existing, candidates)
		freshRows = len(merged) - len(existing)
		return l.datasource.SavePayouts(ctx, merged)
	})
	if err != nil {
		return nil, err
	}

	if freshRows > 0 {
		logrus.Infof("payout derivation materialized %d new rows", freshRows)
		l.postPayoutActions(merged[:freshRows])
	}
	return merged, nil
}

// deriveCandidates enumerates qualifying records across the upstream domains
// and builds one candidate row per record. Records whose role has no active
// rule are skipped, not errored.
func (l *Labops) deriveCandidates(ctx context.Context, rules map[string]model.PayoutRule) ([]model.LedgerEntry, error) {
	conf, err := config.Fetch()
	if err != nil {
		return nil, err
	}

	var candidates []model.LedgerEntry

	consultations, err := l.datasource.LoadConsultations(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range consultations {
		if c.Status != model.ConsultationCompleted {
			continue
		}
		role := c.PayoutRole()
		rule, ok := rules[role]
		if !ok {
			continue
		}
		candidates = append(candidates, buildCandidate(
			model.AutomaticPayoutID(payoutPrefixConsultation, c.ConsultationID),
			c.DoctorID, c.DoctorName, role, rule,
			model.TaskTypeConsultation, c.ConsultationID,
			c.EffectiveTime(), conf.Payout.PeriodLayout,
		))
	}

	requests, err := l.datasource.LoadRequests(ctx)
	if err != nil {
		return nil, err
	}
	for _, r := range requests {
		if r.Status == model.StatusResultReady || r.Status == model.StatusCompleted {
			if rule, ok := rules[model.RoleLabTechnician]; ok && r.TechnicianName != "" {
				candidates = append(candidates, buildCandidate(
					model.AutomaticPayoutID(payoutPrefixLabRequest, r.RequestID),
					r.TechnicianID, r.TechnicianName, model.RoleLabTechnician, rule,
					model.TaskTypeLabRequest, r.RequestID,
					r.CreatedAt, conf.Payout.PeriodLayout,
				))
			}
		}
		if r.Status == model.StatusCompleted && r.PartnerID != "" {
			if rule, ok := rules[model.RoleLabPartner]; ok {
				partnerName := r.PartnerName
				if partnerName == "" {
					partnerName = r.PartnerID
				}
				candidates = append(candidates, buildCandidate(
					model.AutomaticPayoutID(payoutPrefixLabPartner, r.RequestID),
					r.PartnerID, partnerName, model.RoleLabPartner, rule,
					model.TaskTypeLabPartner, r.RequestID,
					r.CreatedAt, conf.Payout.PeriodLayout,
				))
			}
		}
	}

	prescriptions, err := l.datasource.LoadPrescriptions(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range prescriptions {
		if !p.QualifiesForPayout() {
			continue
		}
		rule, ok := rules[model.RolePharmacist]
		if !ok {
			continue
		}
		candidates = append(candidates, buildCandidate(
			model.AutomaticPayoutID(payoutPrefixPrescription, p.PrescriptionID),
			p.PharmacistID, p.Pharmacist, model.RolePharmacist, rule,
			model.TaskTypePrescription, p.PrescriptionID,
			p.Submitted, conf.Payout.PeriodLayout,
		))
	}

	return candidates, nil
}

// buildCandidate assembles one automatic ledger row. Every field is a pure
// function of the source record and its rule, which is what keeps repeated
// derivation byte-identical.
func buildCandidate(payoutID, recipientID, recipientName, role string, rule model.PayoutRule, taskType, taskID string, sourceTime time.Time, periodLayout string) model.LedgerEntry {
	return model.LedgerEntry{
		PayoutID:      payoutID,
		RecipientID:   recipientID,
		RecipientName: recipientName,
		Role:          role,
		Period:        sourceTime.Format(periodLayout),
		Amount:        rule.Amount,
		Currency:      rule.Currency,
		Status:        model.PayoutPending,
		RequestedAt:   sourceTime,
		Source:        model.PayoutSourceAutomatic,
		TaskType:      taskType,
		TaskID:        taskID,
	}
}

// activePayoutRules returns the active rules keyed by role, read through the
// rules cache when one is configured.
func (l *Labops) activePayoutRules(ctx context.Context) (map[string]model.PayoutRule, error) {
	var rules []model.PayoutRule
	if l.cache != nil {
		if err := l.cache.Get(ctx, rulesCacheKey, &rules); err != nil {
			logrus.Warnf("rules cache read failed, falling back to store: %v", err)
		}
	}
	if rules == nil {
		loaded, err := l.datasource.LoadPayoutRules(ctx)
		if err != nil {
			return nil, err
		}
		rules = loaded
		if l.cache != nil && rules != nil {
			if err := l.cache.Set(ctx, rulesCacheKey, rules, rulesCacheTTL); err != nil {
				logrus.Warnf("rules cache write failed: %v", err)
			}
		}
	}

	active := make(map[string]model.PayoutRule, len(rules))
	for _, rule := range rules {
		if rule.Active {
			active[rule.Role] = rule
		}
	}
	return active, nil
}

// PayoutEdits carries an operator's adjustments to one ledger row. Nil fields
// are left alone.
type PayoutEdits struct {
	Status    *string
	Method    *string
	Reference *string
	Notes     *string
}

// UpdatePayout applies operator edits to one ledger row. Edited fields on
// automatic rows survive subsequent derivation passes.
func (l *Labops) UpdatePayout(ctx context.Context, payoutID string, edits PayoutEdits) (*model.LedgerEntry, error) {
	var updated *model.LedgerEntry
	err := l.withCollectionLock(ctx, database.KeyPayouts, func() error {
		payouts, err := l.datasource.LoadPayouts(ctx)
		if err != nil {
			return err
		}
		for i := range payouts {
			if payouts[i].PayoutID != payoutID {
				continue
			}
			if edits.Status != nil {
				payouts[i].Status = *edits.Status
				if *edits.Status == model.PayoutPaid && payouts[i].PaidAt == nil {
					now := time.Now()
					payouts[i].PaidAt = &now
				}
			}
			if edits.Method != nil {
				payouts[i].Method = *edits.Method
			}
			if edits.Reference != nil {
				payouts[i].Reference = *edits.Reference
			}
			if edits.Notes != nil {
				payouts[i].Notes = *edits.Notes
			}
			updated = &payouts[i]
			return l.datasource.SavePayouts(ctx, payouts)
		}
		return apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("payout %s not found", payoutID), nil)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// CreateManualPayout records an operator-entered ledger row. Manual rows are
// invisible to derivation: they are never refreshed and never removed.
func (l *Labops) CreateManualPayout(ctx context.Context, entry model.LedgerEntry) (*model.LedgerEntry, error) {
	if strings.TrimSpace(entry.RecipientName) == "" {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "recipient name is required", nil)
	}
	if entry.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "amount must be positive", nil)
	}

	entry.PayoutID = model.GenerateUUIDWithSuffix("payout")
	entry.Source = model.PayoutSourceManual
	if entry.Status == "" {
		entry.Status = model.PayoutPending
	}
	if entry.RequestedAt.IsZero() {
		entry.RequestedAt = time.Now()
	}

	var created *model.LedgerEntry
	err := l.withCollectionLock(ctx, database.KeyPayouts, func() error {
		payouts, err := l.datasource.LoadPayouts(ctx)
		if err != nil {
			return err
		}
		payouts = append([]model.LedgerEntry{entry}, payouts...)
		created = &payouts[0]
		return l.datasource.SavePayouts(ctx, payouts)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetPayoutRules returns the persisted rule reference data, active or not.
func (l *Labops) GetPayoutRules(ctx context.Context) ([]model.PayoutRule, error) {
	return l.datasource.LoadPayoutRules(ctx)
}

// UpsertPayoutRule replaces the rule for one role and invalidates the rules
// cache so the next derivation sees it.
func (l *Labops) UpsertPayoutRule(ctx context.Context, rule model.PayoutRule) (*model.PayoutRule, error) {
	if strings.TrimSpace(rule.Role) == "" {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "role is required", nil)
	}

	var saved *model.PayoutRule
	err := l.withCollectionLock(ctx, database.KeyPayoutRules, func() error {
		rules, err := l.datasource.LoadPayoutRules(ctx)
		if err != nil {
			return err
		}
		replaced := false
		for i := range rules {
			if rules[i].Role == rule.Role {
				rules[i] = rule
				saved = &rules[i]
				replaced = true
				break
			}
		}
		if !replaced {
			rules = append(rules, rule)
			saved = &rules[len(rules)-1]
		}
		return l.datasource.SavePayoutRules(ctx, rules)
	})
	if err != nil {
		return nil, err
	}

	if l.cache != nil {
		if err := l.cache.Delete(ctx, rulesCacheKey); err != nil {
			logrus.Warnf("rules cache invalidation failed: %v", err)
		}
	}
	return saved, nil
}

// SeedPayoutRules installs the default rule set when none exists yet. Used by
// the server command on first boot.
func (l *Labops) SeedPayoutRules(ctx context.Context) error {
	conf, err := config.Fetch()
	if err != nil {
		return err
	}

	return l.withCollectionLock(ctx, database.KeyPayoutRules, func() error {
		rules, err := l.datasource.LoadPayoutRules(ctx)
		if err != nil {
			return err
		}
		if len(rules) > 0 {
			return nil
		}
		defaults := []model.PayoutRule{
			{Role: model.RoleDoctor, Amount: decimal.NewFromInt(1000), Currency: conf.Payout.Currency, Active: true},
			{Role: model.RolePediatrician, Amount: decimal.NewFromInt(1200), Currency: conf.Payout.Currency, Active: true},
			{Role: model.RoleLabTechnician, Amount: decimal.NewFromInt(700), Currency: conf.Payout.Currency, Active: true},
			{Role: model.RoleLabPartner, Amount: decimal.NewFromInt(900), Currency: conf.Payout.Currency, Active: true},
			{Role: model.RolePharmacist, Amount: decimal.NewFromInt(300), Currency: conf.Payout.Currency, Active: true},
		}
		return l.datasource.SavePayoutRules(ctx, defaults)
	})
}
