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
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carelane/labops"
	model2 "github.com/carelane/labops/api/model"
	"github.com/carelane/labops/config"
	"github.com/carelane/labops/database"
	"github.com/carelane/labops/internal/request"
	"github.com/carelane/labops/model"
)

type TestRequest struct {
	Payload  io.Reader
	Router   *gin.Engine
	Response interface{}
	Method   string
	Route    string
	Header   map[string]string
}

func SetUpTestRequest(s TestRequest) (*httptest.ResponseRecorder, error) {
	req := httptest.NewRequest(s.Method, s.Route, s.Payload)
	for key, value := range s.Header {
		req.Header.Set(key, value)
	}
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	s.Router.ServeHTTP(resp, req)

	err := json.NewDecoder(resp.Body).Decode(&s.Response)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func setupRouter(t *testing.T) (*gin.Engine, *labops.Labops) {
	t.Helper()
	mr := miniredis.RunT(t)
	config.MockConfig(&config.Configuration{
		Redis: config.RedisConfig{Dns: mr.Addr()},
	})
	// Bypass the datasource singleton so every test gets its own store.
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	newLabops, err := labops.NewLabops(database.NewDataSourceFromClient(client))
	require.NoError(t, err)
	router := NewAPI(newLabops).Router()

	return router, newLabops
}

func TestCreateRequestAPI(t *testing.T) {
	router, l := setupRouter(t)

	tests := []struct {
		name         string
		payload      model2.CreateRequest
		expectedCode int
	}{
		{
			name: "Valid Request",
			payload: model2.CreateRequest{
				PatientName:    gofakeit.Name(),
				PatientContact: gofakeit.Email(),
				TestID:         "cbc-panel",
				ScheduledFor:   "2026-02-10 09:00",
			},
			expectedCode: http.StatusCreated,
		},
		{
			name: "Missing Patient Name",
			payload: model2.CreateRequest{
				PatientContact: gofakeit.Email(),
				ScheduledFor:   "2026-02-10 09:00",
			},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "Missing Schedule",
			payload: model2.CreateRequest{
				PatientName:    gofakeit.Name(),
				PatientContact: gofakeit.Email(),
			},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payloadBytes, _ := request.ToJsonReq(&tt.payload)
			var response model.ServiceRequest
			testRequest := TestRequest{
				Payload:  payloadBytes,
				Response: &response,
				Method:   "POST",
				Route:    "/requests",
				Router:   router,
			}

			resp, err := SetUpTestRequest(testRequest)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedCode, resp.Code)

			if tt.expectedCode == http.StatusCreated {
				fromStore, err := l.GetRequest(context.Background(), response.RequestID)
				require.NoError(t, err)
				assert.Equal(t, tt.payload.PatientName, fromStore.PatientName)
				assert.Equal(t, model.StatusAwaitingSample, fromStore.Status)
			}
		})
	}
}

func TestTransitionRequestAPI(t *testing.T) {
	router, l := setupRouter(t)

	created, err := l.CreateRequest(context.Background(), labops.CreateRequestPayload{
		PatientName:    gofakeit.Name(),
		PatientContact: gofakeit.Email(),
		ScheduledFor:   "2026-02-10 09:00",
	})
	require.NoError(t, err)

	tests := []struct {
		name            string
		route           string
		payload         model2.TransitionRequest
		expectedCode    int
		expectedOutcome string
	}{
		{
			name:            "Allowed Move",
			route:           fmt.Sprintf("/requests/%s/transition", created.RequestID),
			payload:         model2.TransitionRequest{Status: model.StatusSampleCollected, Actor: "Tech A"},
			expectedCode:    http.StatusOK,
			expectedOutcome: "applied",
		},
		{
			name:            "Skipped State",
			route:           fmt.Sprintf("/requests/%s/transition", created.RequestID),
			payload:         model2.TransitionRequest{Status: model.StatusCompleted, Actor: "Tech A"},
			expectedCode:    http.StatusOK,
			expectedOutcome: "rejected",
		},
		{
			name:            "Unknown Request",
			route:           "/requests/LAB-999/transition",
			payload:         model2.TransitionRequest{Status: model.StatusSampleCollected, Actor: "Tech A"},
			expectedCode:    http.StatusNotFound,
			expectedOutcome: "not_found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payloadBytes, _ := request.ToJsonReq(&tt.payload)
			var response map[string]interface{}
			testRequest := TestRequest{
				Payload:  payloadBytes,
				Response: &response,
				Method:   "POST",
				Route:    tt.route,
				Router:   router,
			}

			resp, err := SetUpTestRequest(testRequest)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedCode, resp.Code)
			assert.Equal(t, tt.expectedOutcome, response["outcome"])
		})
	}
}

func TestUpsertResultAPI(t *testing.T) {
	router, l := setupRouter(t)

	created, err := l.CreateRequest(context.Background(), labops.CreateRequestPayload{
		PatientName:    gofakeit.Name(),
		PatientContact: gofakeit.Email(),
		ScheduledFor:   "2026-02-10 09:00",
	})
	require.NoError(t, err)

	payload := model2.UpsertResult{
		Summary:    "All markers within range",
		Flags:      "fasting",
		ReviewedBy: "Dr. Tunde",
	}
	payloadBytes, _ := request.ToJsonReq(&payload)
	var response model.Result
	resp, err := SetUpTestRequest(TestRequest{
		Payload:  payloadBytes,
		Response: &response,
		Method:   "POST",
		Route:    fmt.Sprintf("/requests/%s/result", created.RequestID),
		Router:   router,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.Code)
	assert.NotEmpty(t, response.ResultID)

	// The result is readable back and the owning request moved on.
	var fetched model.Result
	resp, err = SetUpTestRequest(TestRequest{
		Response: &fetched,
		Method:   "GET",
		Route:    fmt.Sprintf("/results/%s", created.RequestID),
		Router:   router,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, response.ResultID, fetched.ResultID)

	fromStore, err := l.GetRequest(context.Background(), created.RequestID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusResultReady, fromStore.Status)
}

func TestSecretKeyAuth(t *testing.T) {
	mr := miniredis.RunT(t)
	config.MockConfig(&config.Configuration{
		Redis:  config.RedisConfig{Dns: mr.Addr()},
		Server: config.ServerConfig{Secure: true, SecretKey: "test-key"},
	})
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	newLabops, err := labops.NewLabops(database.NewDataSourceFromClient(client))
	require.NoError(t, err)
	router := NewAPI(newLabops).Router()

	var response interface{}
	resp, err := SetUpTestRequest(TestRequest{
		Response: &response,
		Method:   "GET",
		Route:    "/requests",
		Router:   router,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp, err = SetUpTestRequest(TestRequest{
		Response: &response,
		Method:   "GET",
		Route:    "/requests",
		Router:   router,
		Header:   map[string]string{"X-Labops-Key": "test-key"},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Code)
}
