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

package service_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/livekit/livekit-server-sdk/pkg/auth"
	"github.com/livekit/livekit-server-sdk/pkg/auth/authfakes"
	"github.com/livekit/livekit-server-sdk/pkg/service"
)

func TestAuthMiddleware(t *testing.T) {
	api := "APIabcdefg"
	secret := "somesecretencodedinbase62"
	provider := &authfakes.FakeKeyProvider{}
	provider.GetSecretReturns(secret)

	m := service.NewAPIKeyAuthMiddleware(provider)
	var grants *auth.ClaimGrants
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		grants = service.GetGrants(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	// ensure that the original claim could be retrieved
	token, err := auth.NewAccessToken(api, secret).
		SetIdentity("me").
		AddGrants(auth.RoomName("abcdefg"), auth.RoomJoin(true), auth.CanPublish(false)).
		ToJWT()
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	service.SetAuthorizationToken(r, token)
	m.ServeHTTP(w, r, handler)

	require.NotNil(t, grants)
	require.Equal(t, "me", grants.Identity)
	require.Equal(t, "abcdefg", grants.Video.Room)
	require.True(t, grants.Video.RoomJoin)
	require.False(t, grants.Video.GetCanPublish())
	require.Equal(t, api, provider.GetSecretArgsForCall(0))

	// token passed as query parameter
	grants = nil
	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodGet, "/?access_token="+token, nil)
	m.ServeHTTP(w, r, handler)
	require.NotNil(t, grants)

	// no authorization == no claims
	grants = nil
	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	m.ServeHTTP(w, r, handler)
	require.Nil(t, grants)
	require.Equal(t, http.StatusOK, w.Code)

	// incorrect authorization: error
	grants = nil
	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	service.SetAuthorizationToken(r, "invalid token")
	m.ServeHTTP(w, r, handler)
	require.Nil(t, grants)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// header without bearer prefix
	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", token)
	m.ServeHTTP(w, r, handler)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// unknown key
	provider.GetSecretReturns("")
	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	service.SetAuthorizationToken(r, token)
	m.ServeHTTP(w, r, handler)
	require.Nil(t, grants)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// wrong secret
	provider.GetSecretReturns("anothersecret")
	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	service.SetAuthorizationToken(r, token)
	m.ServeHTTP(w, r, handler)
	require.Nil(t, grants)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestEnsurePermissions(t *testing.T) {
	ctx := context.Background()
	require.ErrorIs(t, service.EnsureCreatePermission(ctx), service.ErrPermissionDenied)

	grants := &auth.ClaimGrants{
		Video: &auth.VideoGrants{RoomCreate: true, RoomAdmin: true, Room: "room1", RoomJoin: true},
		SIP:   &auth.SIPGrants{Call: true},
	}
	ctx = service.WithGrants(ctx, grants)

	require.NoError(t, service.EnsureCreatePermission(ctx))
	require.ErrorIs(t, service.EnsureListPermission(ctx), service.ErrPermissionDenied)
	require.ErrorIs(t, service.EnsureRecordPermission(ctx), service.ErrPermissionDenied)
	require.NoError(t, service.EnsureAdminPermission(ctx, "room1"))
	require.ErrorIs(t, service.EnsureAdminPermission(ctx, "room2"), service.ErrPermissionDenied)
	require.NoError(t, service.EnsureSIPCallPermission(ctx))
	require.ErrorIs(t, service.EnsureSIPAdminPermission(ctx), service.ErrPermissionDenied)

	room, err := service.EnsureJoinPermission(ctx)
	require.NoError(t, err)
	require.Equal(t, "room1", room)
	require.Equal(t, 403, service.HTTPStatus(service.ErrPermissionDenied))
}
