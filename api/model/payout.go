package model

import "github.com/shopspring/decimal"

// CreateManualPayout is an operator-entered ledger row.
type CreateManualPayout struct {
	RecipientID   string          `json:"recipient_id"`
	RecipientName string          `json:"recipient_name"`
	Role          string          `json:"role"`
	Period        string          `json:"period"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Method        string          `json:"method"`
	Reference     string          `json:"reference"`
	Notes         string          `json:"notes"`
}

// UpdatePayout carries operator edits to one ledger row. Absent fields are
// left alone.
type UpdatePayout struct {
	Status    *string `json:"status"`
	Method    *string `json:"method"`
	Reference *string `json:"reference"`
	Notes     *string `json:"notes"`
}

// UpsertPayoutRule replaces the payout rule for one role.
type UpsertPayoutRule struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	Active   bool            `json:"active"`
}
