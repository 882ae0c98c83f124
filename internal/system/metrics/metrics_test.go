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

package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_RecordsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordPublish("profile.created", nil)
	c.RecordPublish("profile.created", errors.New("down"))
	c.RecordConsumed("user_registered", OutcomeMaterialized)
	c.RecordCacheLookup(ResultHit)
	c.RecordHTTPRequest(http.MethodGet, "/api/v1/profiles/{userId}", http.StatusOK, 5*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.eventsPublished.WithLabelValues("profile.created", ResultSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.eventsPublished.WithLabelValues("profile.created", ResultFailure)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.eventsConsumed.WithLabelValues("user_registered", OutcomeMaterialized)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.cacheLookups.WithLabelValues(ResultHit)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.httpRequests.WithLabelValues(http.MethodGet, "/api/v1/profiles/{userId}", "200")))
}

func TestCollector_NilIsNoop(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.RecordPublish("profile.deleted", nil)
		c.RecordConsumed("unrecognized", OutcomeIgnored)
		c.RecordCacheLookup(ResultMiss)
		c.RecordHTTPRequest(http.MethodGet, "/health", http.StatusOK, time.Millisecond)
	})
}

func TestHandler_ExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordPublish("profile.updated", nil)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ups_events_published_total")
}
