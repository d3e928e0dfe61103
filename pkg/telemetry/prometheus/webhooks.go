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

var (
	webhooksReceived atomic.Uint64
	webhooksRejected atomic.Uint64

	promWebhookReceived = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: livekitNamespace,
		Subsystem: "webhook",
		Name:      "received_total",
	}, []string{"event"})
	promWebhookRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: livekitNamespace,
		Subsystem: "webhook",
		Name:      "rejected_total",
	}, []string{"reason"})
	promWebhookHandleTime = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: livekitNamespace,
		Subsystem: "webhook",
		Name:      "handle_ms",
		Buckets:   []float64{1, 5, 10, 50, 100, 500, 1000, 5000},
	})
)

func WebhookReceived(event string, d time.Duration) {
	webhooksReceived.Inc()
	promWebhookReceived.WithLabelValues(event).Inc()
	promWebhookHandleTime.Observe(float64(d.Milliseconds()))
}

// WebhookRejected counts a delivery that was not dispatched, reason is a short error class.
func WebhookRejected(reason string) {
	webhooksRejected.Inc()
	promWebhookRejected.WithLabelValues(reason).Inc()
}

func WebhooksReceived() uint64 {
	return webhooksReceived.Load()
}

func WebhooksRejected() uint64 {
	return webhooksRejected.Load()
}
