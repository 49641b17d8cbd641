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

// LoadRequests returns the whole service-request collection in its persisted
// order (newest first).
func (d *Datasource) LoadRequests(ctx context.Context) ([]model.ServiceRequest, error) {
	var requests []model.ServiceRequest
	if err := d.loadCollection(ctx, KeyRequests, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// SaveRequests replaces the persisted service-request collection.
func (d *Datasource) SaveRequests(ctx context.Context, requests []model.ServiceRequest) error {
	return d.saveCollection(ctx, KeyRequests, requests)
}

// LoadResults returns the whole result collection.
func (d *Datasource) LoadResults(ctx context.Context) ([]model.Result, error) {
	var results []model.Result
	if err := d.loadCollection(ctx, KeyResults, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// SaveResults replaces the persisted result collection.
func (d *Datasource) SaveResults(ctx context.Context, results []model.Result) error {
	return d.saveCollection(ctx, KeyResults, results)
}
