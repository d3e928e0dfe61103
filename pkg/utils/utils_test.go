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

package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRandomSecret(t *testing.T) {
	a := RandomSecret()
	b := RandomSecret()
	require.NotEqual(t, a, b)
	// 32 bytes encode to at least 43 base62 characters
	require.GreaterOrEqual(t, len(a), 43)
	for _, c := range a {
		require.True(t, strings.ContainsRune("0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz", c))
	}
}

func TestNewGuid(t *testing.T) {
	id := NewGuid(APIKeyPrefix)
	require.True(t, strings.HasPrefix(id, APIKeyPrefix))
	require.Greater(t, len(id), len(APIKeyPrefix))
	require.NotEqual(t, id, NewGuid(APIKeyPrefix))
}

func TestStopwatch(t *testing.T) {
	sw := NewStopwatch()
	time.Sleep(2 * time.Millisecond)
	sw.Mark("verify")
	sw.Mark("decode")

	laps := sw.Laps()
	require.Len(t, laps, 2)
	require.Equal(t, "verify", laps[0].Label)
	require.Equal(t, "decode", laps[1].Label)
	require.GreaterOrEqual(t, laps[0].Duration, 2*time.Millisecond)
	require.Equal(t, laps[0].Duration+laps[1].Duration, sw.Total())
}
