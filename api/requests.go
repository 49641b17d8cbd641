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
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/carelane/labops"
	model2 "github.com/carelane/labops/api/model"
	"github.com/carelane/labops/internal/apierror"
)

func (a Api) CreateRequest(c *gin.Context) {
	var newRequest model2.CreateRequest
	if err := c.ShouldBindJSON(&newRequest); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	if err := newRequest.ValidateCreateRequest(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	resp, err := a.labops.CreateRequest(c.Request.Context(), labops.CreateRequestPayload{
		PatientName:    newRequest.PatientName,
		PatientContact: newRequest.PatientContact,
		TestID:         newRequest.TestID,
		ScheduledFor:   newRequest.ScheduledFor,
		PaymentStatus:  newRequest.PaymentStatus,
		Priority:       newRequest.Priority,
		Channel:        newRequest.Channel,
		ClinicianNote:  newRequest.ClinicianNote,
		Notes:          newRequest.Notes,
	})
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (a Api) GetRequest(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	resp, err := a.labops.GetRequest(c.Request.Context(), id)
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (a Api) GetAllRequests(c *gin.Context) {
	resp, err := a.labops.GetAllRequests(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// TransitionRequest exposes the guarded status move. Guard rejections are not
// errors: the response reports the outcome alongside the unchanged request.
func (a Api) TransitionRequest(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	var transition model2.TransitionRequest
	if err := c.ShouldBindJSON(&transition); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	if err := transition.ValidateTransitionRequest(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	request, outcome, err := a.labops.TransitionRequest(c.Request.Context(), id, transition.Status, transition.Actor, transition.Note)
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	if outcome == labops.TransitionNotFound {
		c.JSON(http.StatusNotFound, gin.H{"outcome": outcome})
		return
	}

	c.JSON(http.StatusOK, gin.H{"outcome": outcome, "request": request})
}

func (a Api) AssignTechnician(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	var assign model2.AssignTechnician
	if err := c.ShouldBindJSON(&assign); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	if err := assign.ValidateAssignTechnician(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	resp, err := a.labops.AssignTechnician(c.Request.Context(), id, assign.TechnicianName, assign.TechnicianID, assign.PartnerID)
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (a Api) AssignPartner(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	var assign model2.AssignPartner
	if err := c.ShouldBindJSON(&assign); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	if err := assign.ValidateAssignPartner(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	resp, err := a.labops.AssignPartner(c.Request.Context(), id, assign.PartnerName, assign.PartnerID)
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (a Api) CancelRequest(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	var cancel model2.CancelRequest
	if err := c.ShouldBindJSON(&cancel); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	request, outcome, err := a.labops.CancelRequest(c.Request.Context(), id, cancel.Actor)
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	if outcome == labops.TransitionNotFound {
		c.JSON(http.StatusNotFound, gin.H{"outcome": outcome})
		return
	}

	c.JSON(http.StatusOK, gin.H{"outcome": outcome, "request": request})
}

func (a Api) MarkResultReceived(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	request, outcome, err := a.labops.MarkResultReceived(c.Request.Context(), id)
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	if outcome == labops.TransitionNotFound {
		c.JSON(http.StatusNotFound, gin.H{"outcome": outcome})
		return
	}

	c.JSON(http.StatusOK, gin.H{"outcome": outcome, "request": request})
}

func (a Api) UpsertResult(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	var upsert model2.UpsertResult
	if err := c.ShouldBindJSON(&upsert); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	if err := upsert.ValidateUpsertResult(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	resp, err := a.labops.UpsertResult(c.Request.Context(), id, labops.ResultPayload{
		Summary:        upsert.Summary,
		FileName:       upsert.FileName,
		Flags:          upsert.Flags,
		Abnormal:       upsert.Abnormal,
		Recommendation: upsert.Recommendation,
		ReviewedBy:     upsert.ReviewedBy,
	})
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (a Api) GetResult(c *gin.Context) {
	requestID, passed := c.Params.Get("request_id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request_id is required. pass id in the route /:request_id"})
		return
	}

	resp, err := a.labops.GetResultForRequest(c.Request.Context(), requestID)
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}
