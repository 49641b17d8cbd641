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
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/carelane/labops/model"
)

// MockDataSource is a mock implementation of the IDataSource interface
type MockDataSource struct {
	mock.Mock
}

// Request collection methods

func (m *MockDataSource) LoadRequests(ctx context.Context) ([]model.ServiceRequest, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.ServiceRequest), args.Error(1)
}

func (m *MockDataSource) SaveRequests(ctx context.Context, requests []model.ServiceRequest) error {
	args := m.Called(ctx, requests)
	return args.Error(0)
}

// Result collection methods

func (m *MockDataSource) LoadResults(ctx context.Context) ([]model.Result, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Result), args.Error(1)
}

func (m *MockDataSource) SaveResults(ctx context.Context, results []model.Result) error {
	args := m.Called(ctx, results)
	return args.Error(0)
}

// Payout ledger and rule methods

func (m *MockDataSource) LoadPayouts(ctx context.Context) ([]model.LedgerEntry, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.LedgerEntry), args.Error(1)
}

func (m *MockDataSource) SavePayouts(ctx context.Context, payouts []model.LedgerEntry) error {
	args := m.Called(ctx, payouts)
	return args.Error(0)
}

func (m *MockDataSource) LoadPayoutRules(ctx context.Context) ([]model.PayoutRule, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.PayoutRule), args.Error(1)
}

func (m *MockDataSource) SavePayoutRules(ctx context.Context, rules []model.PayoutRule) error {
	args := m.Called(ctx, rules)
	return args.Error(0)
}

// Read-only upstream collections

func (m *MockDataSource) LoadConsultations(ctx context.Context) ([]model.Consultation, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Consultation), args.Error(1)
}

func (m *MockDataSource) LoadPrescriptions(ctx context.Context) ([]model.PrescriptionRecord, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.PrescriptionRecord), args.Error(1)
}
