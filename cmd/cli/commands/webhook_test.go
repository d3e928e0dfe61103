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

package commands

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/livekit/protocol/livekit"

	"github.com/livekit/livekit-server-sdk/pkg/webhook"
)

func TestSendWebhook(t *testing.T) {
	const (
		apiKey    = "APIcli"
		apiSecret = "clisecret"
	)
	receiver := webhook.NewReceiver(apiKey, apiSecret)

	var (
		lock     sync.Mutex
		received []*livekit.WebhookEvent
	)
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d, err := receiver.ReceiveRequest(r, false)
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		lock.Lock()
		received = append(received, d.Event)
		lock.Unlock()
	}))
	t.Cleanup(s.Close)

	out := &bytes.Buffer{}
	app := &cli.App{
		Name:     "test",
		Writer:   out,
		Commands: WebhookCommands,
	}

	err := app.Run([]string{"test", "send-webhook",
		"--api-key", apiKey, "--api-secret", apiSecret,
		"--url", s.URL, "--event", webhook.EventParticipantJoined,
		"--room", "myroom", "--participant", "p1",
	})
	require.NoError(t, err)
	require.Contains(t, out.String(), "delivered participant_joined")

	lock.Lock()
	defer lock.Unlock()
	require.Len(t, received, 1)
	require.Equal(t, "myroom", received[0].Room.Name)
	require.Equal(t, "p1", received[0].Participant.Identity)

	err = app.Run([]string{"test", "send-webhook",
		"--api-key", apiKey, "--api-secret", "wrong",
		"--url", s.URL,
	})
	require.Error(t, err)

	err = app.Run([]string{"test", "send-webhook",
		"--api-key", apiKey, "--api-secret", apiSecret,
		"--url", s.URL, "--event", "room_exploded",
	})
	require.Error(t, err)
}
