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

	"github.com/carelane/labops/database"
	"github.com/carelane/labops/internal/apierror"
	"github.com/carelane/labops/model"
)

// ResultPayload is the reviewer's submission for a request's result artifact.
// Flags is raw comma-separated input, parsed on the way in.
type ResultPayload struct {
	Summary        string
	FileName       string
	Flags          string
	Abnormal       bool
	Recommendation string
	ReviewedBy     string
}

// UpsertResult attaches a result to a request, or replaces the existing one
// in place when the request already has a result (same identity, latest
// fields). As a side effect the owning request is forced to RESULT_READY and
// its result reference is set.
func (l *Labops) UpsertResult(ctx context.Context, requestID string, payload ResultPayload) (*model.Result, error) {
	if strings.TrimSpace(payload.Summary) == "" {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "result summary is required", nil)
	}

	var published *model.Result
	var owning model.ServiceRequest

	// Publication touches two collections: the result itself and the owning
	// request's status. Both locks are held for the whole cycle.
	err := l.withCollectionLock(ctx, database.KeyRequests, func() error {
		return l.withCollectionLock(ctx, database.KeyResults, func() error {
			return l.publishResult(ctx, requestID, payload, &published, &owning)
		})
	})
	if err != nil {
		return nil, err
	}

	l.postRequestActions("result.published", owning)
	return published, nil
}

func (l *Labops) publishResult(ctx context.Context, requestID string, payload ResultPayload, published **model.Result, owning *model.ServiceRequest) error {
	requests, err := l.datasource.LoadRequests(ctx)
	if err != nil {
		return err
	}
	requestIdx := -1
	for i := range requests {
		if requests[i].RequestID == requestID {
			requestIdx = i
			break
		}
	}
	if requestIdx < 0 {
		return apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("request %s not found", requestID), nil)
	}

	results, err := l.datasource.LoadResults(ctx)
	if err != nil {
		return err
	}

	fileName := payload.FileName
	if fileName == "" {
		fileName = model.DefaultResultFileName(requestID)
	}

	result := model.Result{
		RequestID:      requestID,
		Summary:        payload.Summary,
		FileName:       fileName,
		UploadedAt:     time.Now(),
		Flags:          model.ParseFlags(payload.Flags),
		Abnormal:       payload.Abnormal,
		Recommendation: payload.Recommendation,
		ReviewedBy:     payload.ReviewedBy,
	}

	updated := false
	for i := range results {
		if results[i].RequestID == requestID {
			// Update path: the identity survives, the fields do not.
			result.ResultID = results[i].ResultID
			results[i] = result
			*published = &results[i]
			updated = true
			break
		}
	}
	if !updated {
		result.ResultID = model.GenerateUUIDWithSuffix("res")
		results = append([]model.Result{result}, results...)
		*published = &results[0]
	}

	if err := l.datasource.SaveResults(ctx, results); err != nil {
		return err
	}

	action := fmt.Sprintf("result uploaded by %s", payload.ReviewedBy)
	if updated {
		action = fmt.Sprintf("result updated by %s", payload.ReviewedBy)
	}
	requests[requestIdx].Status = model.StatusResultReady
	requests[requestIdx].ResultID = (*published).ResultID
	requests[requestIdx].AppendAudit(time.Now(), action)
	*owning = requests[requestIdx]

	return l.datasource.SaveRequests(ctx, requests)
}

// GetResultForRequest returns the result attached to a request, if any.
func (l *Labops) GetResultForRequest(ctx context.Context, requestID string) (*model.Result, error) {
	results, err := l.datasource.LoadResults(ctx)
	if err != nil {
		return nil, err
	}
	for i := range results {
		if results[i].RequestID == requestID {
			return &results[i], nil
		}
	}
	return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("no result for request %s", requestID), nil)
}
