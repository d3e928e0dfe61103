// Copyright 2023 LiveKit, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/atomic"
)

const (
	TokenKindService = "service"
	TokenKindCLI     = "cli"
	TokenKindWebhook = "webhook"
)

var (
	tokensIssued atomic.Uint64
	apiRequests  atomic.Uint64

	promTokenIssued = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: livekitNamespace,
		Subsystem: "token",
		Name:      "issued_total",
	}, []string{"kind"})
	promAPIRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: livekitNamespace,
		Subsystem: "api",
		Name:      "requests_total",
	}, []string{"service", "method", "status"})
	promAPIRequestTime = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: livekitNamespace,
		Subsystem: "api",
		Name:      "request_ms",
		Buckets:   prometheus.ExponentialBucketsRange(5, 10000, 12),
	}, []string{"service", "method"})
)

func TokenIssued(kind string) {
	tokensIssued.Inc()
	promTokenIssued.WithLabelValues(kind).Inc()
}

// APIRequest records a completed room service call, status is the http status family.
func APIRequest(service, method, status string, d time.Duration) {
	apiRequests.Inc()
	promAPIRequests.WithLabelValues(service, method, status).Inc()
	promAPIRequestTime.WithLabelValues(service, method).Observe(float64(d.Milliseconds()))
}

func TokensIssued() uint64 {
	return tokensIssued.Load()
}

func APIRequests() uint64 {
	return apiRequests.Load()
}
