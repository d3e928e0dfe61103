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

package webhook

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/gammazero/workerpool"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"google.golang.org/protobuf/encoding/protojson"

	"github.com/livekit/protocol/livekit"
	"github.com/livekit/protocol/logger"

	"github.com/livekit/livekit-server-sdk/pkg/auth"
	"github.com/livekit/livekit-server-sdk/pkg/telemetry/prometheus"
	"github.com/livekit/livekit-server-sdk/pkg/utils"
)

const (
	ContentType = "application/webhook+json"

	DefaultTokenTTL   = 5 * time.Minute
	defaultTimeout    = 10 * time.Second
	defaultNumWorkers = 4
)

type URLNotifierParams struct {
	URLs      []string
	APIKey    string
	APISecret string
	// Timeout bounds a single POST, 10s when zero
	Timeout time.Duration
	Workers int
	Logger  logger.Logger
}

// URLNotifier signs events and POSTs them to every configured URL.
type URLNotifier struct {
	params URLNotifierParams
	client *http.Client
	pool   *workerpool.WorkerPool
	logger logger.Logger
}

func NewURLNotifier(params URLNotifierParams) *URLNotifier {
	if params.Timeout == 0 {
		params.Timeout = defaultTimeout
	}
	if params.Workers <= 0 {
		params.Workers = defaultNumWorkers
	}
	l := params.Logger
	if l == nil {
		l = logger.GetLogger()
	}
	return &URLNotifier{
		params: params,
		client: &http.Client{Timeout: params.Timeout},
		pool:   workerpool.New(params.Workers),
		logger: l.WithValues("component", "webhook-notifier"),
	}
}

// Notify delivers event to all URLs and waits for them. The first failure is returned.
func (n *URLNotifier) Notify(ctx context.Context, event *livekit.WebhookEvent) error {
	if len(n.params.URLs) == 0 {
		return ErrNoURLs
	}
	body, token, err := n.prepare(event)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, url := range n.params.URLs {
		url := url
		g.Go(func() error {
			return n.send(ctx, url, body, token)
		})
	}
	return g.Wait()
}

// QueueNotify delivers event in the background. Failures are logged.
func (n *URLNotifier) QueueNotify(ctx context.Context, event *livekit.WebhookEvent) error {
	if len(n.params.URLs) == 0 {
		return ErrNoURLs
	}
	body, token, err := n.prepare(event)
	if err != nil {
		return err
	}

	ctx = context.WithoutCancel(ctx)
	for _, url := range n.params.URLs {
		url := url
		n.pool.Submit(func() {
			if err := n.send(ctx, url, body, token); err != nil {
				n.logger.Warnw("failed to send webhook", err, "url", url, "event", event.Event)
			}
		})
	}
	return nil
}

// Stop waits for queued deliveries unless force is set.
func (n *URLNotifier) Stop(force bool) {
	if force {
		n.pool.Stop()
	} else {
		n.pool.StopWait()
	}
}

func (n *URLNotifier) prepare(event *livekit.WebhookEvent) ([]byte, string, error) {
	if event.Id == "" {
		event.Id = utils.NewGuid(utils.EventPrefix)
	}
	if event.CreatedAt == 0 {
		event.CreatedAt = time.Now().Unix()
	}

	body, err := protojson.Marshal(event)
	if err != nil {
		return nil, "", errors.Wrap(err, "could not encode webhook event")
	}

	token, err := auth.NewAccessToken(n.params.APIKey, n.params.APISecret).
		SetValidFor(DefaultTokenTTL).
		SetSha256(BodySha256(body)).
		ToJWT()
	if err != nil {
		return nil, "", err
	}
	prometheus.TokenIssued(prometheus.TokenKindWebhook)
	return body, token, nil
}

func (n *URLNotifier) send(ctx context.Context, url string, body []byte, token string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set(authorizationHeader, token)
	req.Header.Set("Content-Type", ContentType)

	res, err := n.client.Do(req)
	if err != nil {
		return err
	}
	_ = res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return errors.Errorf("webhook %s returned status %d", url, res.StatusCode)
	}
	n.logger.Debugw("sent webhook", "url", url, "status", res.StatusCode)
	return nil
}
