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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/carelane/labops/config"
	"github.com/carelane/labops/model"
)

func TestStatusChangeEvent(t *testing.T) {
	assert.Equal(t, "request.sample_collected", statusChangeEvent(model.StatusSampleCollected))
	assert.Equal(t, "request.processing", statusChangeEvent(model.StatusProcessing))
	assert.Equal(t, "request.result_ready", statusChangeEvent(model.StatusResultReady))
	assert.Equal(t, "request.completed", statusChangeEvent(model.StatusCompleted))
	assert.Equal(t, "request.cancelled", statusChangeEvent(model.StatusCancelled))
	assert.Equal(t, "request.status_changed", statusChangeEvent("SOMETHING_ELSE"))
}

func TestSendWebhookDisabledWithoutURL(t *testing.T) {
	config.MockConfig(&config.Configuration{})

	err := SendWebhook(NewWebhook{Event: "request.created"})
	assert.NoError(t, err, "no webhook URL means delivery is a no-op")
}
