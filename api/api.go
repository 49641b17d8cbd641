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
	"github.com/gin-gonic/gin"

	"github.com/carelane/labops"
	"github.com/carelane/labops/api/middleware"
	"github.com/carelane/labops/config"
)

type Api struct {
	labops *labops.Labops
	router *gin.Engine
}

func (a Api) Router() *gin.Engine {
	router := a.router
	router.POST("/requests", a.CreateRequest)
	router.GET("/requests", a.GetAllRequests)
	router.GET("/requests/:id", a.GetRequest)
	router.POST("/requests/:id/transition", a.TransitionRequest)
	router.POST("/requests/:id/assign-technician", a.AssignTechnician)
	router.POST("/requests/:id/assign-partner", a.AssignPartner)
	router.POST("/requests/:id/cancel", a.CancelRequest)
	router.POST("/requests/:id/mark-received", a.MarkResultReceived)
	router.POST("/requests/:id/result", a.UpsertResult)
	router.GET("/results/:request_id", a.GetResult)

	router.GET("/payouts", a.GetPayouts)
	router.POST("/payouts", a.CreateManualPayout)
	router.PUT("/payouts/:id", a.UpdatePayout)

	router.GET("/payout-rules", a.GetPayoutRules)
	router.PUT("/payout-rules/:role", a.UpsertPayoutRule)

	return a.router
}

func NewAPI(l *labops.Labops) *Api {
	gin.SetMode(gin.ReleaseMode)
	conf, err := config.Fetch()
	if err != nil {
		return nil
	}
	r := gin.Default()
	r.Use(middleware.RateLimitMiddleware(conf))
	if conf.Server.Secure {
		r.Use(middleware.SecretKeyAuthMiddleware())
	}

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, "server running...")
	})

	return &Api{labops: l, router: r}
}
