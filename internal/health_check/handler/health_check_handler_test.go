/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wso2/user-profile-service/internal/health_check/service"
	"github.com/wso2/user-profile-service/internal/system/config"
)

type fixedReadiness service.Readiness

func (f fixedReadiness) CheckReadiness(context.Context) service.Readiness {
	return service.Readiness(f)
}

var info = config.ServiceConfig{Name: "user-profile-service", Version: "1.0.0"}

func call(t *testing.T, handlerFunc http.HandlerFunc) (int, map[string]string) {
	t.Helper()
	rec := httptest.NewRecorder()
	handlerFunc(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestHandleHealth(t *testing.T) {
	h := NewHealthHandler(fixedReadiness{}, info)

	code, body := call(t, h.HandleHealth)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]string{"status": "healthy", "service": "user-profile-service", "version": "1.0.0"}, body)
}

func TestHandleLiveness(t *testing.T) {
	h := NewHealthHandler(fixedReadiness{}, info)

	code, body := call(t, h.HandleLiveness)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "alive", body["status"])
}

func TestHandleReadiness_Ready(t *testing.T) {
	h := NewHealthHandler(fixedReadiness{Ready: true, MongoDB: service.StatusConnected, Broker: service.StatusConnected}, info)

	code, body := call(t, h.HandleReadiness)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ready", body["status"])
	assert.Equal(t, service.StatusConnected, body["mongodb"])
}

func TestHandleReadiness_NotReady(t *testing.T) {
	h := NewHealthHandler(fixedReadiness{MongoDB: service.StatusConnected, Broker: service.StatusDisconnected}, info)

	code, body := call(t, h.HandleReadiness)

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, service.StatusDisconnected, body["broker"])
}
