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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/livekit/livekit-server-sdk/pkg/auth"
	"github.com/livekit/livekit-server-sdk/pkg/auth/authfakes"
)

func TestVerifyWithProvider(t *testing.T) {
	t.Run("uses issuer secret", func(t *testing.T) {
		v := &authfakes.FakeTokenVerifier{}
		v.APIKeyReturns("key1")
		v.VerifyReturns(&auth.ClaimGrants{Identity: "me"}, nil)
		provider := &authfakes.FakeKeyProvider{}
		provider.GetSecretReturns("secret1")

		grants, err := auth.VerifyWithProvider(v, provider)
		require.NoError(t, err)
		require.Equal(t, "me", grants.Identity)
		require.Equal(t, "key1", provider.GetSecretArgsForCall(0))
		require.Equal(t, "secret1", v.VerifyArgsForCall(0))
	})

	t.Run("unknown key is not verified", func(t *testing.T) {
		v := &authfakes.FakeTokenVerifier{}
		v.APIKeyReturns("nobody")
		provider := &authfakes.FakeKeyProvider{}

		_, err := auth.VerifyWithProvider(v, provider)
		require.ErrorIs(t, err, auth.ErrUnknownAPIKey)
		require.Zero(t, v.VerifyCallCount())
	})

	t.Run("real token", func(t *testing.T) {
		token, err := auth.NewAccessToken("key1", "secret1").SetIdentity("me").ToJWT()
		require.NoError(t, err)
		v, err := auth.ParseAPIToken(token)
		require.NoError(t, err)

		grants, err := auth.VerifyWithProvider(v, auth.NewSimpleKeyProvider("key1", "secret1"))
		require.NoError(t, err)
		require.Equal(t, "me", grants.Identity)

		_, err = auth.VerifyWithProvider(v, auth.NewSimpleKeyProvider("key1", "other"))
		require.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}
