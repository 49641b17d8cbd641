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
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"

	"github.com/carelane/labops/model"
)

func (r *CreateRequest) ValidateCreateRequest() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.PatientName, validation.Required),
		validation.Field(&r.PatientContact, validation.Required),
		validation.Field(&r.ScheduledFor, validation.Required),
		validation.Field(&r.Priority, validation.In("", model.PriorityRoutine, model.PriorityPriority)),
	)
}

func (t *TransitionRequest) ValidateTransitionRequest() error {
	return validation.ValidateStruct(t,
		validation.Field(&t.Status, validation.Required),
		validation.Field(&t.Actor, validation.Required),
	)
}

func (a *AssignTechnician) ValidateAssignTechnician() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.TechnicianName, validation.Required),
	)
}

func (a *AssignPartner) ValidateAssignPartner() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.PartnerName, validation.Required),
		validation.Field(&a.PartnerID, validation.Required),
	)
}

func (u *UpsertResult) ValidateUpsertResult() error {
	return validation.ValidateStruct(u,
		validation.Field(&u.Summary, validation.Required),
		validation.Field(&u.ReviewedBy, validation.Required),
	)
}

func (p *CreateManualPayout) ValidateCreateManualPayout() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.RecipientName, validation.Required),
		validation.Field(&p.Amount, validation.Required, validation.By(positiveAmount)),
	)
}

func (u *UpdatePayout) ValidateUpdatePayout() error {
	return validation.ValidateStruct(u,
		validation.Field(&u.Status, validation.By(func(value interface{}) error {
			status, ok := value.(*string)
			if !ok || status == nil {
				return nil
			}
			switch *status {
			case model.PayoutPending, model.PayoutPaid, model.PayoutFailed:
				return nil
			}
			return errors.New("status must be one of pending, paid, failed")
		})),
	)
}

func (r *UpsertPayoutRule) ValidateUpsertPayoutRule() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Amount, validation.Required, validation.By(positiveAmount)),
	)
}

func positiveAmount(value interface{}) error {
	amount, ok := value.(decimal.Decimal)
	if !ok {
		return errors.New("invalid amount")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return errors.New("amount must be greater than zero")
	}
	return nil
}

func (p *CreateManualPayout) ToLedgerEntry() model.LedgerEntry {
	return model.LedgerEntry{
		RecipientID:   p.RecipientID,
		RecipientName: p.RecipientName,
		Role:          p.Role,
		Period:        p.Period,
		Amount:        p.Amount,
		Currency:      p.Currency,
		Method:        p.Method,
		Reference:     p.Reference,
		Notes:         p.Notes,
	}
}

func (r *UpsertPayoutRule) ToPayoutRule(role string) model.PayoutRule {
	return model.PayoutRule{
		Role:     role,
		Amount:   r.Amount,
		Currency: r.Currency,
		Active:   r.Active,
	}
}
