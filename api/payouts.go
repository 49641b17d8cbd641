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

// GetPayouts returns the payout ledger. Every read re-derives first, so the
// ledger the dashboard sees is always reconciled against current upstream
// state.
func (a Api) GetPayouts(c *gin.Context) {
	resp, err := a.labops.DerivePayouts(c.Request.Context())
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (a Api) CreateManualPayout(c *gin.Context) {
	var newPayout model2.CreateManualPayout
	if err := c.ShouldBindJSON(&newPayout); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	if err := newPayout.ValidateCreateManualPayout(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	resp, err := a.labops.CreateManualPayout(c.Request.Context(), newPayout.ToLedgerEntry())
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (a Api) UpdatePayout(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	var edits model2.UpdatePayout
	if err := c.ShouldBindJSON(&edits); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	if err := edits.ValidateUpdatePayout(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	resp, err := a.labops.UpdatePayout(c.Request.Context(), id, labops.PayoutEdits{
		Status:    edits.Status,
		Method:    edits.Method,
		Reference: edits.Reference,
		Notes:     edits.Notes,
	})
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (a Api) GetPayoutRules(c *gin.Context) {
	resp, err := a.labops.GetPayoutRules(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (a Api) UpsertPayoutRule(c *gin.Context) {
	role, passed := c.Params.Get("role")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "role is required. pass role in the route /:role"})
		return
	}

	var rule model2.UpsertPayoutRule
	if err := c.ShouldBindJSON(&rule); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	if err := rule.ValidateUpsertPayoutRule(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	resp, err := a.labops.UpsertPayoutRule(c.Request.Context(), rule.ToPayoutRule(role))
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}
