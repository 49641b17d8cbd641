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
package database

import (
	"context"

	"github.com/carelane/labops/model"
)

// LoadPayouts returns the whole payout ledger, new rows first.
func (d *Datasource) LoadPayouts(ctx context.Context) ([]model.LedgerEntry, error) {
	var payouts []model.LedgerEntry
	if err := d.loadCollection(ctx, KeyPayouts, &payouts); err != nil {
		return nil, err
	}
	return payouts, nil
}

// SavePayouts replaces the persisted payout ledger.
func (d *Datasource) SavePayouts(ctx context.Context, payouts []model.LedgerEntry) error {
	return d.saveCollection(ctx, KeyPayouts, payouts)
}

// LoadPayoutRules returns the payout-rule reference data.
func (d *Datasource) LoadPayoutRules(ctx context.Context) ([]model.PayoutRule, error) {
	var rules []model.PayoutRule
	if err := d.loadCollection(ctx, KeyPayoutRules, &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

// SavePayoutRules replaces the payout-rule reference data.
func (d *Datasource) SavePayoutRules(ctx context.Context, rules []model.PayoutRule) error {
	return d.saveCollection(ctx, KeyPayoutRules, rules)
}

// LoadConsultations reads the consultation collection. The storefront owns the
// writes; derivation only ever reads it.
func (d *Datasource) LoadConsultations(ctx context.Context) ([]model.Consultation, error) {
	var consultations []model.Consultation
	if err := d.loadCollection(ctx, KeyConsultations, &consultations); err != nil {
		return nil, err
	}
	return consultations, nil
}

// LoadPrescriptions reads the prescription collection, also storefront-owned.
func (d *Datasource) LoadPrescriptions(ctx context.Context) ([]model.PrescriptionRecord, error) {
	var prescriptions []model.PrescriptionRecord
	if err := d.loadCollection(ctx, KeyPrescriptions, &prescriptions); err != nil {
		return nil, err
	}
	return prescriptions, nil
}
