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
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestWebhookCounters(t *testing.T) {
	received := WebhooksReceived()
	rejected := WebhooksRejected()

	WebhookReceived("room_started", 3*time.Millisecond)
	WebhookReceived("room_started", time.Millisecond)
	WebhookRejected("integrity")

	require.Equal(t, received+2, WebhooksReceived())
	require.Equal(t, rejected+1, WebhooksRejected())
	require.GreaterOrEqual(t, testutil.ToFloat64(promWebhookReceived.WithLabelValues("room_started")), float64(2))
	require.GreaterOrEqual(t, testutil.ToFloat64(promWebhookRejected.WithLabelValues("integrity")), float64(1))
}

func TestTokenCounters(t *testing.T) {
	issued := TokensIssued()
	TokenIssued(TokenKindService)
	require.Equal(t, issued+1, TokensIssued())

	requests := APIRequests()
	APIRequest("RoomService", "DeleteRoom", "200", 10*time.Millisecond)
	require.Equal(t, requests+1, APIRequests())
}

func TestHandlerExportsCollectors(t *testing.T) {
	Init("test-node")
	// second call must not panic on duplicate registration
	Init("test-node")

	WebhookReceived("participant_joined", time.Millisecond)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.True(t, strings.Contains(body, "livekit_webhook_received_total"))
	require.True(t, strings.Contains(body, `node_id="test-node"`))
}
