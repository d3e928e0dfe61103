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

package auth_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-jose/go-jose/v3/jwt"
	"github.com/stretchr/testify/require"

	"github.com/livekit/livekit-server-sdk/pkg/auth"
	"github.com/livekit/livekit-server-sdk/pkg/utils"
)

const (
	testKey    = "abcdefg"
	testSecret = "abababa"
)

func TestAccessToken(t *testing.T) {
	t.Run("keys must be set", func(t *testing.T) {
		token := auth.NewAccessToken("", "")
		_, err := token.ToJWT()
		require.Equal(t, auth.ErrKeysMissing, err)
	})

	t.Run("token without grants serializes", func(t *testing.T) {
		value, err := auth.NewAccessToken(testKey, testSecret).ToJWT()
		require.NoError(t, err)
		require.NotEmpty(t, value)

		claims := decodeRaw(t, value)
		require.Equal(t, testKey, claims["iss"])
		require.Equal(t, map[string]interface{}{}, claims["video"])
	})

	t.Run("generates a decodeable key", func(t *testing.T) {
		apiKey, secret := apiKeypair()
		at := auth.NewAccessToken(apiKey, secret).
			AddGrants(auth.RoomJoin(true), auth.RoomName("myroom")).
			SetValidFor(time.Minute * 5).
			SetIdentity("user")
		value, err := at.ToJWT()
		require.NoError(t, err)

		require.Len(t, strings.Split(value, "."), 3)

		token, err := jwt.ParseSigned(value)
		require.NoError(t, err)

		decoded := auth.ClaimGrants{}
		require.NoError(t, token.UnsafeClaimsWithoutVerification(&decoded))
		require.True(t, decoded.Video.RoomJoin)
		require.Equal(t, "myroom", decoded.Video.Room)
	})

	t.Run("creates token with claims", func(t *testing.T) {
		expiration := time.Unix(33254282804, 0) // 10/15/3023
		at := auth.NewAccessToken(testKey, testSecret).
			SetExpiration(expiration).
			SetName("name").
			SetIdentity("identity").
			SetMetadata("metadata").
			SetSha256("gfedcba").
			AddGrant(auth.RoomName("room_name")).
			AddGrant(auth.CanPublishSources([]string{"camera", "microphone"}))
		value, err := at.ToJWT()
		require.NoError(t, err)

		claims := decodeRaw(t, value)
		require.Equal(t, testKey, claims["iss"])
		require.Equal(t, "name", claims["name"])
		require.Equal(t, "identity", claims["jti"])
		require.Equal(t, "identity", claims["sub"])
		require.Equal(t, "metadata", claims["metadata"])
		require.Equal(t, "gfedcba", claims["sha256"])
		require.EqualValues(t, expiration.Unix(), claims["exp"])
		require.NotContains(t, claims, "nbf")

		video, ok := claims["video"].(map[string]interface{})
		require.True(t, ok)
		require.Equal(t, "room_name", video["room"])
		require.Equal(t, []interface{}{"camera", "microphone"}, video["canPublishSources"])

		v, err := auth.ParseAPIToken(value)
		require.NoError(t, err)
		grants, err := v.Verify(testSecret)
		require.NoError(t, err)
		require.Equal(t, "identity", grants.ID)
		require.Equal(t, []string{"camera", "microphone"}, grants.Video.CanPublishSources)
		require.Equal(t, expiration.Unix(), grants.ExpiresAt.Unix())
	})

	t.Run("omits unset optional claims", func(t *testing.T) {
		value, err := auth.NewAccessToken(testKey, testSecret).
			AddGrant(auth.RoomList(true)).
			ToJWT()
		require.NoError(t, err)

		claims := decodeRaw(t, value)
		for _, key := range []string{"name", "metadata", "sha256", "roomPreset", "roomConfig", "attributes", "sub", "jti", "nbf"} {
			require.NotContains(t, claims, key)
		}
		require.Equal(t, map[string]interface{}{}, claims["sip"])
		require.Equal(t, map[string]interface{}{"roomList": true}, claims["video"])
	})

	t.Run("empty sip claim can be omitted", func(t *testing.T) {
		value, err := auth.NewAccessToken(testKey, testSecret).
			SetEmitEmptySIP(false).
			ToJWT()
		require.NoError(t, err)
		claims := decodeRaw(t, value)
		require.NotContains(t, claims, "sip")
		require.Contains(t, claims, "video")

		value, err = auth.NewAccessToken(testKey, testSecret).
			SetEmitEmptySIP(false).
			AddGrant(auth.SIPCall(true)).
			ToJWT()
		require.NoError(t, err)
		require.Equal(t, map[string]interface{}{"call": true}, decodeRaw(t, value)["sip"])
	})

	t.Run("default expiration is six hours", func(t *testing.T) {
		before := time.Now()
		value, err := auth.NewAccessToken(testKey, testSecret).ToJWT()
		require.NoError(t, err)

		exp := int64(decodeRaw(t, value)["exp"].(float64))
		require.InDelta(t, before.Add(6*time.Hour).Unix(), exp, 2)
	})

	t.Run("expiration overrides ttl", func(t *testing.T) {
		exp := time.Now().Add(time.Hour).Truncate(time.Second)
		value, err := auth.NewAccessToken(testKey, testSecret).
			SetValidFor(time.Minute).
			SetExpiration(exp).
			ToJWT()
		require.NoError(t, err)
		require.EqualValues(t, exp.Unix(), decodeRaw(t, value)["exp"])
	})

	t.Run("not before is set when provided", func(t *testing.T) {
		nbf := time.Now().Add(-time.Minute).Truncate(time.Second)
		value, err := auth.NewAccessToken(testKey, testSecret).SetNotBefore(nbf).ToJWT()
		require.NoError(t, err)
		require.EqualValues(t, nbf.Unix(), decodeRaw(t, value)["nbf"])
	})

	t.Run("attributes, preset and room config", func(t *testing.T) {
		value, err := auth.NewAccessToken(testKey, testSecret).
			SetIdentity("agent-1").
			SetAttributes(map[string]string{"b": "2", "a": "1"}).
			SetRoomPreset("small").
			SetRoomConfig(&auth.RoomConfiguration{
				Name:            "room",
				EmptyTimeout:    300,
				MaxParticipants: 10,
				Agents:          []*auth.RoomAgentDispatch{{AgentName: "assistant"}},
			}).
			ToJWT()
		require.NoError(t, err)

		claims := decodeRaw(t, value)
		require.Equal(t, "small", claims["roomPreset"])
		require.Equal(t, map[string]interface{}{"a": "1", "b": "2"}, claims["attributes"])
		require.Equal(t, map[string]interface{}{
			"name":             "room",
			"empty_timeout":    float64(300),
			"max_participants": float64(10),
			"agents": []interface{}{
				map[string]interface{}{"agent_name": "assistant"},
			},
		}, claims["roomConfig"])
	})
}

func TestAccessTokenGrants(t *testing.T) {
	t.Run("adding the same grant replaces it", func(t *testing.T) {
		at := auth.NewAccessToken(testKey, testSecret).
			AddGrant(auth.RoomName("first")).
			AddGrant(auth.RoomName("second")).
			AddGrant(auth.SIPAdmin(false)).
			AddGrant(auth.SIPAdmin(true))
		require.Equal(t, 1, at.VideoGrants().Len())
		require.Equal(t, 1, at.SIPGrants().Len())

		claims := decodeRaw(t, mustJWT(t, at))
		require.Equal(t, map[string]interface{}{"room": "second"}, claims["video"])
		require.Equal(t, map[string]interface{}{"admin": true}, claims["sip"])
	})

	t.Run("grants go to their own namespace", func(t *testing.T) {
		at := auth.NewAccessToken(testKey, testSecret).
			AddGrants(auth.RoomAdmin(true), auth.SIPCall(true), auth.IngressAdmin(true))

		claims := decodeRaw(t, mustJWT(t, at))
		require.Equal(t, map[string]interface{}{"roomAdmin": true, "ingressAdmin": true}, claims["video"])
		require.Equal(t, map[string]interface{}{"call": true}, claims["sip"])
	})

	t.Run("clearing grants", func(t *testing.T) {
		at := auth.NewAccessToken(testKey, testSecret).
			AddGrants(auth.RoomCreate(true), auth.SIPAdmin(true))
		at.ClearGrants()
		claims := decodeRaw(t, mustJWT(t, at))
		require.Equal(t, map[string]interface{}{}, claims["video"])
		require.Equal(t, map[string]interface{}{"admin": true}, claims["sip"])

		at.ClearSIPGrants()
		claims = decodeRaw(t, mustJWT(t, at))
		require.Equal(t, map[string]interface{}{}, claims["sip"])
	})
}

func TestJoinRequiresIdentity(t *testing.T) {
	at := auth.NewAccessToken(testKey, testSecret).
		AddGrants(auth.RoomJoin(true), auth.RoomName("room"))
	_, err := at.ToJWT()
	require.True(t, errors.Is(err, auth.ErrIdentityRequired))

	at.SetIdentity("me")
	_, err = at.ToJWT()
	require.NoError(t, err)

	// a false join grant does not need an identity
	_, err = auth.NewAccessToken(testKey, testSecret).AddGrant(auth.RoomJoin(false)).ToJWT()
	require.NoError(t, err)
}

func TestRoundTrip(t *testing.T) {
	grantSets := [][]auth.Grant{
		{},
		{auth.RoomCreate(true)},
		{auth.RoomJoin(false), auth.CanSubscribe(true), auth.CanPublishData(false)},
		{auth.RoomAdmin(true), auth.RoomName("r"), auth.DestinationRoomName("d"), auth.Hidden(true), auth.Recorder(true)},
		{auth.CanPublishSources([]string{"screen_share"}), auth.CanUpdateOwnMetadata(true), auth.Agent(true), auth.SIPCall(true), auth.SIPAdmin(false)},
	}
	for _, grants := range grantSets {
		at := auth.NewAccessToken(testKey, testSecret).AddGrants(grants...)
		claims := decodeRaw(t, mustJWT(t, at))

		expectedVideo := map[string]interface{}{}
		expectedSIP := map[string]interface{}{}
		for _, g := range grants {
			if g.Namespace() == auth.NamespaceSIP {
				expectedSIP[g.Key()] = g.Value().Interface()
			} else {
				expectedVideo[g.Key()] = g.Value().Interface()
			}
		}
		require.Equal(t, testKey, claims["iss"])
		require.Equal(t, expectedVideo, claims["video"])
		require.Equal(t, expectedSIP, claims["sip"])
	}
}

func mustJWT(t *testing.T, at *auth.AccessToken) string {
	value, err := at.ToJWT()
	require.NoError(t, err)
	return value
}

func decodeRaw(t *testing.T, value string) map[string]interface{} {
	token, err := jwt.ParseSigned(value)
	require.NoError(t, err)
	claims := map[string]interface{}{}
	require.NoError(t, token.Claims([]byte(testSecret), &claims))
	return claims
}

func apiKeypair() (string, string) {
	return utils.NewGuid(utils.APIKeyPrefix), utils.RandomSecret()
}
