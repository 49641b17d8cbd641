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

	"github.com/sirupsen/logrus"

	"github.com/carelane/labops/database"
	"github.com/carelane/labops/internal/apierror"
	"github.com/carelane/labops/model"
)

// TransitionOutcome tells a caller what a guarded transition actually did.
// Guard failures are absorbed, not raised: the request comes back unchanged
// and the outcome is the only way to observe the rejection.
type TransitionOutcome string

const (
	TransitionApplied        TransitionOutcome = "applied"
	TransitionAlreadyInState TransitionOutcome = "already_in_state"
	TransitionRejected       TransitionOutcome = "rejected"
	TransitionNotFound       TransitionOutcome = "not_found"
)

// CreateRequestPayload carries the intake form for a new service request.
type CreateRequestPayload struct {
	PatientName    string
	PatientContact string
	TestID         string
	ScheduledFor   string
	PaymentStatus  string
	Priority       string
	Channel        string
	ClinicianNote  string
	Notes          string
}

// CreateRequest validates the intake payload, assigns the next monotonic
// identifier and prepends the new request to the collection, so the canonical
// list order stays most-recent-first.
func (l *Labops) CreateRequest(ctx context.Context, payload CreateRequestPayload) (*model.ServiceRequest, error) {
	if strings.TrimSpace(payload.PatientName) == "" {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "patient name is required", nil)
	}
	if strings.TrimSpace(payload.PatientContact) == "" {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "patient contact is required", nil)
	}
	if strings.TrimSpace(payload.ScheduledFor) == "" {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "schedule time is required", nil)
	}

	priority := payload.Priority
	if priority == "" {
		priority = model.PriorityRoutine
	}

	var created *model.ServiceRequest
	err := l.withCollectionLock(ctx, database.KeyRequests, func() error {
		requests, err := l.datasource.LoadRequests(ctx)
		if err != nil {
			return err
		}

		request := model.ServiceRequest{
			RequestID:      model.NextRequestID(requests),
			PatientName:    strings.TrimSpace(payload.PatientName),
			PatientContact: strings.TrimSpace(payload.PatientContact),
			TestID:         payload.TestID,
			Status:         model.StatusAwaitingSample,
			ScheduledFor:   payload.ScheduledFor,
			PaymentStatus:  payload.PaymentStatus,
			Priority:       priority,
			Channel:        payload.Channel,
			ClinicianNote:  payload.ClinicianNote,
			Notes:          payload.Notes,
			CreatedAt:      time.Now(),
		}
		request.AppendAudit(request.CreatedAt, "request created")

		requests = append([]model.ServiceRequest{request}, requests...)
		if err := l.datasource.SaveRequests(ctx, requests); err != nil {
			return err
		}
		created = &requests[0]
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.postRequestActions("request.created", *created)
	return created, nil
}

// GetRequest fetches one request by identifier.
func (l *Labops) GetRequest(ctx context.Context, requestID string) (*model.ServiceRequest, error) {
	requests, err := l.datasource.LoadRequests(ctx)
	if err != nil {
		return nil, err
	}
	for i := range requests {
		if requests[i].RequestID == requestID {
			return &requests[i], nil
		}
	}
	return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("request %s not found", requestID), nil)
}

// GetAllRequests returns the collection in canonical order, newest first.
func (l *Labops) GetAllRequests(ctx context.Context) ([]model.ServiceRequest, error) {
	return l.datasource.LoadRequests(ctx)
}

// TransitionRequest moves a request along the status table. It is a guarded,
// total function: an unknown identifier, a same-status target or a disallowed
// move all leave the collection untouched and report the outcome instead of
// erroring. Only persistence failures surface as errors.
func (l *Labops) TransitionRequest(ctx context.Context, requestID, targetStatus, actor, note string) (*model.ServiceRequest, TransitionOutcome, error) {
	ctx, span := tracer.Start(ctx, "Transition service request")
	defer span.End()

	var request *model.ServiceRequest
	outcome := TransitionNotFound

	err := l.withCollectionLock(ctx, database.KeyRequests, func() error {
		requests, err := l.datasource.LoadRequests(ctx)
		if err != nil {
			return err
		}

		for i := range requests {
			if requests[i].RequestID != requestID {
				continue
			}
			request = &requests[i]
			if requests[i].Status == targetStatus {
				outcome = TransitionAlreadyInState
				return nil
			}
			if !model.CanTransition(requests[i].Status, targetStatus) {
				outcome = TransitionRejected
				return nil
			}

			requests[i].Status = targetStatus
			requests[i].AppendAudit(time.Now(), transitionAuditAction(targetStatus, actor, note))
			outcome = TransitionApplied
			return l.datasource.SaveRequests(ctx, requests)
		}
		return nil
	})
	if err != nil {
		return nil, outcome, err
	}

	if outcome == TransitionApplied {
		l.postRequestActions(statusChangeEvent(targetStatus), *request)
	} else if outcome != TransitionAlreadyInState {
		logrus.Infof("transition of %s to %s ignored: %s", requestID, targetStatus, outcome)
	}
	return request, outcome, nil
}

func transitionAuditAction(targetStatus, actor, note string) string {
	action := fmt.Sprintf("status changed to %s by %s", targetStatus, actor)
	if note != "" {
		action = fmt.Sprintf("%s: %s", action, note)
	}
	return action
}

// AssignTechnician records the technician working a request, and optionally
// the partner organization the sample was routed through. Assignment never
// changes the request status.
func (l *Labops) AssignTechnician(ctx context.Context, requestID, technicianName, technicianID, partnerID string) (*model.ServiceRequest, error) {
	return l.updateRequest(ctx, requestID, func(r *model.ServiceRequest) {
		r.TechnicianName = technicianName
		r.TechnicianID = technicianID
		if partnerID != "" {
			r.PartnerID = partnerID
		}
		r.AppendAudit(time.Now(), fmt.Sprintf("technician %s assigned", technicianName))
	})
}

// AssignPartner records the partner organization handling a request.
func (l *Labops) AssignPartner(ctx context.Context, requestID, partnerName, partnerID string) (*model.ServiceRequest, error) {
	return l.updateRequest(ctx, requestID, func(r *model.ServiceRequest) {
		r.PartnerName = partnerName
		r.PartnerID = partnerID
		r.AppendAudit(time.Now(), fmt.Sprintf("partner %s assigned", partnerName))
	})
}

// CancelRequest is the transition to CANCELLED, gated by the same table:
// only the three active states can be cancelled.
func (l *Labops) CancelRequest(ctx context.Context, requestID, actor string) (*model.ServiceRequest, TransitionOutcome, error) {
	return l.TransitionRequest(ctx, requestID, model.StatusCancelled, actor, "")
}

// MarkResultReceived completes a request once its result is ready. The audit
// entry attributes the acknowledgement to the requester themselves.
func (l *Labops) MarkResultReceived(ctx context.Context, requestID string) (*model.ServiceRequest, TransitionOutcome, error) {
	var request *model.ServiceRequest
	outcome := TransitionNotFound

	err := l.withCollectionLock(ctx, database.KeyRequests, func() error {
		requests, err := l.datasource.LoadRequests(ctx)
		if err != nil {
			return err
		}
		for i := range requests {
			if requests[i].RequestID != requestID {
				continue
			}
			request = &requests[i]
			if requests[i].Status != model.StatusResultReady {
				outcome = TransitionRejected
				return nil
			}
			requests[i].Status = model.StatusCompleted
			requests[i].AppendAudit(time.Now(), fmt.Sprintf("result received by %s", requests[i].PatientName))
			outcome = TransitionApplied
			return l.datasource.SaveRequests(ctx, requests)
		}
		return nil
	})
	if err != nil {
		return nil, outcome, err
	}

	if outcome == TransitionApplied {
		l.postRequestActions(statusChangeEvent(model.StatusCompleted), *request)
	}
	return request, outcome, nil
}

// updateRequest applies an in-place mutation to one request and persists the
// collection. Unknown identifiers are a caller-visible error here, unlike the
// guarded transitions.
func (l *Labops) updateRequest(ctx context.Context, requestID string, mutate func(*model.ServiceRequest)) (*model.ServiceRequest, error) {
	var updated *model.ServiceRequest
	err := l.withCollectionLock(ctx, database.KeyRequests, func() error {
		requests, err := l.datasource.LoadRequests(ctx)
		if err != nil {
			return err
		}
		for i := range requests {
			if requests[i].RequestID == requestID {
				mutate(&requests[i])
				updated = &requests[i]
				return l.datasource.SaveRequests(ctx, requests)
			}
		}
		return apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("request %s not found", requestID), nil)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
