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
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const livekitNamespace = "livekit"

var initOnce sync.Once

// Init registers all collectors with the default registry, labelled with nodeID.
// Calls after the first are no-ops.
func Init(nodeID string) {
	initOnce.Do(func() {
		reg := prometheus.WrapRegistererWith(prometheus.Labels{"node_id": nodeID}, prometheus.DefaultRegisterer)
		reg.MustRegister(
			promWebhookReceived,
			promWebhookRejected,
			promWebhookHandleTime,
			promTokenIssued,
			promAPIRequests,
			promAPIRequestTime,
		)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}
