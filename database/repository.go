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

// IDataSource defines the interface for data source operations, grouping related functionalities.
// Every collection is loaded and saved whole; the engine mutates an in-memory
// snapshot between the two calls.
type IDataSource interface {
	request  // Interface for service-request collection operations
	result   // Interface for result collection operations
	payout   // Interface for payout ledger and rule operations
	external // Interface for read-only upstream collections
}

// request defines methods for the service-request collection. The lifecycle
// engine is the sole writer.
type request interface {
	LoadRequests(ctx context.Context) ([]model.ServiceRequest, error) // Loads the whole request collection, newest first
	SaveRequests(ctx context.Context, requests []model.ServiceRequest) error
}

// result defines methods for the result collection. The result publication
// service is the sole writer.
type result interface {
	LoadResults(ctx context.Context) ([]model.Result, error)
	SaveResults(ctx context.Context, results []model.Result) error
}

// payout defines methods for the payout ledger and the payout-rule reference
// data.
type payout interface {
	LoadPayouts(ctx context.Context) ([]model.LedgerEntry, error)
	SavePayouts(ctx context.Context, payouts []model.LedgerEntry) error
	LoadPayoutRules(ctx context.Context) ([]model.PayoutRule, error)
	SavePayoutRules(ctx context.Context, rules []model.PayoutRule) error
}

// external defines read-only access to sibling domains consumed during payout
// derivation. Those collections are written by the storefront, never by this
// core.
type external interface {
	LoadConsultations(ctx context.Context) ([]model.Consultation, error)
	LoadPrescriptions(ctx context.Context) ([]model.PrescriptionRecord, error)
}
