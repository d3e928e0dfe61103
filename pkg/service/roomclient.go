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
	"time"

	"github.com/pkg/errors"
	"github.com/twitchtv/twirp"

	"github.com/livekit/protocol/livekit"

	"github.com/livekit/livekit-server-sdk/pkg/auth"
	"github.com/livekit/livekit-server-sdk/pkg/config"
	"github.com/livekit/livekit-server-sdk/pkg/telemetry/prometheus"
)

const (
	DefaultClientTokenTTL = 10 * time.Minute
	defaultClientTimeout  = 10 * time.Second
)

type RoomServiceClientParams struct {
	URL       string
	APIKey    string
	APISecret string
	// TokenTTL is the validity of the token minted for each call
	TokenTTL time.Duration
	Timeout  time.Duration
	// JSON selects the JSON transport instead of protobuf
	JSON bool
}

// RoomServiceClient calls the room service with a fresh token per call that carries
// only the grants the method needs. The service exposes DeleteRoom, RemoveParticipant
// and MutePublishedTrack.
type RoomServiceClient struct {
	rs        livekit.RoomService
	apiKey    string
	apiSecret string
	tokenTTL  time.Duration
}

func NewRoomServiceClient(params RoomServiceClientParams) (*RoomServiceClient, error) {
	if params.APIKey == "" || params.APISecret == "" {
		return nil, ErrKeysMissing
	}
	if params.TokenTTL <= 0 {
		params.TokenTTL = DefaultClientTokenTTL
	}
	if params.Timeout <= 0 {
		params.Timeout = defaultClientTimeout
	}

	url := ToHTTPURL(params.URL)
	httpClient := &http.Client{Timeout: params.Timeout}
	hooks := twirp.WithClientHooks(TwirpClientHooks())

	var rs livekit.RoomService
	if params.JSON {
		rs = livekit.NewRoomServiceJSONClient(url, httpClient, hooks)
	} else {
		rs = livekit.NewRoomServiceProtobufClient(url, httpClient, hooks)
	}

	return &RoomServiceClient{
		rs:        rs,
		apiKey:    params.APIKey,
		apiSecret: params.APISecret,
		tokenTTL:  params.TokenTTL,
	}, nil
}

func NewRoomServiceClientFromConfig(conf *config.Config) (*RoomServiceClient, error) {
	key, secret := conf.FirstKey()
	return NewRoomServiceClient(RoomServiceClientParams{
		URL:       conf.Room.URL,
		APIKey:    key,
		APISecret: secret,
		TokenTTL:  conf.Token.ClientTTL,
		Timeout:   conf.Room.Timeout,
	})
}

func (c *RoomServiceClient) DeleteRoom(ctx context.Context, req *livekit.DeleteRoomRequest) (*livekit.DeleteRoomResponse, error) {
	if req.Room == "" {
		return nil, ErrRoomNameRequired
	}
	ctx, err := c.withAuth(ctx, auth.RoomCreate(true))
	if err != nil {
		return nil, err
	}
	return c.rs.DeleteRoom(ctx, req)
}

func (c *RoomServiceClient) RemoveParticipant(ctx context.Context, req *livekit.RoomParticipantIdentity) (*livekit.RemoveParticipantResponse, error) {
	if req.Identity == "" {
		return nil, ErrIdentityEmpty
	}
	ctx, err := c.withAdmin(ctx, req.Room)
	if err != nil {
		return nil, err
	}
	return c.rs.RemoveParticipant(ctx, req)
}

func (c *RoomServiceClient) MutePublishedTrack(ctx context.Context, req *livekit.MuteRoomTrackRequest) (*livekit.MuteRoomTrackResponse, error) {
	if req.Identity == "" {
		return nil, ErrIdentityEmpty
	}
	if req.TrackSid == "" {
		return nil, ErrTrackSidEmpty
	}
	ctx, err := c.withAdmin(ctx, req.Room)
	if err != nil {
		return nil, err
	}
	return c.rs.MutePublishedTrack(ctx, req)
}

// CreateToken returns a token signed with the client's key, for handing to participants.
func (c *RoomServiceClient) CreateToken() *auth.AccessToken {
	return auth.NewAccessToken(c.apiKey, c.apiSecret)
}

func (c *RoomServiceClient) withAdmin(ctx context.Context, room string) (context.Context, error) {
	if room == "" {
		return nil, ErrRoomNameRequired
	}
	return c.withAuth(ctx, auth.RoomAdmin(true), auth.RoomName(room))
}

func (c *RoomServiceClient) withAuth(ctx context.Context, grants ...auth.Grant) (context.Context, error) {
	token, err := auth.NewAccessToken(c.apiKey, c.apiSecret).
		SetValidFor(c.tokenTTL).
		AddGrants(grants...).
		ToJWT()
	if err != nil {
		return nil, err
	}
	prometheus.TokenIssued(prometheus.TokenKindService)

	header := make(http.Header)
	header.Set(authorizationHeader, bearerPrefix+token)
	tctx, err := twirp.WithHTTPRequestHeaders(ctx, header)
	if err != nil {
		return nil, errors.Wrap(err, "could not set authorization header")
	}
	return tctx, nil
}
