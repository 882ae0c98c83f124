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
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcomes recorded for consumed events.
const (
	OutcomeMaterialized = "materialized"
	OutcomeIgnored      = "ignored"
	OutcomeMalformed    = "malformed"
)

// Results recorded for published events and cache lookups.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultHit     = "hit"
	ResultMiss    = "miss"
	ResultError   = "error"
)

// Collector holds the Prometheus metrics of the profile service. A nil *Collector
// is valid and records nothing.
type Collector struct {
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	eventsPublished *prometheus.CounterVec
	eventsConsumed  *prometheus.CounterVec
	cacheLookups    *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ups_http_requests_total",
			Help: "HTTP requests served, by method, route and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ups_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		eventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ups_events_published_total",
			Help: "Profile events published, by subject and result.",
		}, []string{"subject", "result"}),
		eventsConsumed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ups_events_consumed_total",
			Help: "Inbound identity events processed, by kind and outcome.",
		}, []string{"kind", "outcome"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ups_profile_cache_lookups_total",
			Help: "Profile cache lookups, by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpDuration,
		c.eventsPublished,
		c.eventsConsumed,
		c.cacheLookups,
	)
	return c
}

func (c *Collector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if c == nil {
		return
	}
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (c *Collector) RecordPublish(subject string, err error) {
	if c == nil {
		return
	}
	result := ResultSuccess
	if err != nil {
		result = ResultFailure
	}
	c.eventsPublished.WithLabelValues(subject, result).Inc()
}

func (c *Collector) RecordConsumed(kind, outcome string) {
	if c == nil {
		return
	}
	c.eventsConsumed.WithLabelValues(kind, outcome).Inc()
}

func (c *Collector) RecordCacheLookup(result string) {
	if c == nil {
		return
	}
	c.cacheLookups.WithLabelValues(result).Inc()
}

// Handler returns the HTTP handler for Prometheus scraping.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
