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

package service

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/twitchtv/twirp"

	"github.com/livekit/livekit-server-sdk/pkg/telemetry/prometheus"
	"github.com/livekit/livekit-server-sdk/pkg/utils"
)

type twirpRequestFields struct {
	service   string
	method    string
	startedAt time.Time
}

type twirpRequestKey struct{}

// TwirpClientHooks logs every room service call and records its outcome.
func TwirpClientHooks() *twirp.ClientHooks {
	return &twirp.ClientHooks{
		RequestPrepared:  clientRequestPrepared,
		ResponseReceived: clientResponseReceived,
		Error:            clientErrorReceived,
	}
}

func clientRequestPrepared(ctx context.Context, _ *http.Request) (context.Context, error) {
	r := &twirpRequestFields{startedAt: time.Now()}
	if svc, ok := twirp.ServiceName(ctx); ok {
		r.service = svc
	}
	if meth, ok := twirp.MethodName(ctx); ok {
		r.method = meth
	}
	return context.WithValue(ctx, twirpRequestKey{}, r), nil
}

func clientResponseReceived(ctx context.Context) {
	r, ok := ctx.Value(twirpRequestKey{}).(*twirpRequestFields)
	if !ok || r == nil {
		return
	}

	d := time.Since(r.startedAt)
	prometheus.APIRequest(r.service, r.method, "2xx", d)
	utils.GetLogger(ctx).Debugw("API "+r.service+"."+r.method, "duration", d)
}

func clientErrorReceived(ctx context.Context, e twirp.Error) {
	r, ok := ctx.Value(twirpRequestKey{}).(*twirpRequestFields)
	if !ok || r == nil {
		r = &twirpRequestFields{startedAt: time.Now()}
		r.service, _ = twirp.ServiceName(ctx)
		r.method, _ = twirp.MethodName(ctx)
	}

	status := twirp.ServerHTTPStatusFromErrorCode(e.Code())
	var statusFamily string
	switch {
	case status >= 400 && status <= 499:
		statusFamily = "4xx"
	case status >= 500 && status <= 599:
		statusFamily = "5xx"
	default:
		statusFamily = strconv.Itoa(status)
	}

	d := time.Since(r.startedAt)
	prometheus.APIRequest(r.service, r.method, statusFamily, d)
	utils.GetLogger(ctx).Infow("API "+r.service+"."+r.method+" failed",
		"duration", d,
		"status", status,
		"code", e.Code(),
		"error", e.Msg(),
	)
}
