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
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/livekit/livekit-server-sdk/pkg/auth"
)

type opaque struct {
	A int
}

type stringer struct{}

func (stringer) String() string { return "stringer" }

func TestCanonicalize(t *testing.T) {
	t.Run("primitives", func(t *testing.T) {
		require.Equal(t, auth.KindBool, auth.Canonicalize(true).Kind())
		require.Equal(t, auth.KindNumber, auth.Canonicalize(3).Kind())
		require.Equal(t, auth.KindNumber, auth.Canonicalize(uint32(3)).Kind())
		require.Equal(t, auth.KindString, auth.Canonicalize("x").Kind())
		require.True(t, auth.Canonicalize(nil).IsNull())

		n, ok := auth.Canonicalize(int64(42)).AsNumber()
		require.True(t, ok)
		require.Equal(t, float64(42), n)
	})

	t.Run("unsupported values are stringified", func(t *testing.T) {
		s, ok := auth.Canonicalize(opaque{A: 1}).AsString()
		require.True(t, ok)
		require.Equal(t, "{1}", s)

		s, ok = auth.Canonicalize(stringer{}).AsString()
		require.True(t, ok)
		require.Equal(t, "stringer", s)
	})

	t.Run("nested lists and maps", func(t *testing.T) {
		in := map[string]interface{}{
			"list": []interface{}{
				map[string]interface{}{"x": 1.5},
				"s",
				[]interface{}{true},
			},
			"map": map[string]interface{}{"k": "v"},
		}
		out := auth.Canonicalize(in)
		require.Equal(t, auth.KindMap, out.Kind())
		require.Equal(t, []string{"list", "map"}, out.Keys())
		require.Equal(t, in, out.Interface())
	})

	t.Run("idempotent on canonical input", func(t *testing.T) {
		inputs := []interface{}{
			true,
			2.5,
			"str",
			[]interface{}{"a", false, 1.0},
			map[string]interface{}{
				"b": map[string]interface{}{"c": []interface{}{1.0, "d"}},
				"a": "x",
			},
		}
		for _, in := range inputs {
			once := auth.Canonicalize(in)
			twice := auth.Canonicalize(once.Interface())
			require.True(t, once.Equal(twice), "%v", in)
			require.True(t, once.Equal(auth.Canonicalize(once)))
			require.Equal(t, in, once.Interface())
		}
	})

	t.Run("claim maps keep insertion order", func(t *testing.T) {
		cm := auth.NewClaimMap().
			Set("zeta", auth.Number(1)).
			Set("alpha", auth.Bool(false)).
			Set("mid", auth.StringList([]string{"a"}))
		v := cm.Value()
		require.Equal(t, []string{"zeta", "alpha", "mid"}, v.Keys())

		b, err := json.Marshal(v)
		require.NoError(t, err)
		require.Equal(t, `{"zeta":1,"alpha":false,"mid":["a"]}`, string(b))

		cm.Set("zeta", auth.String("replaced"))
		require.Equal(t, []string{"zeta", "alpha", "mid"}, cm.Keys())
		f, ok := cm.Get("zeta")
		require.True(t, ok)
		require.Equal(t, auth.String("replaced"), f)
	})

	t.Run("equality", func(t *testing.T) {
		a := auth.NewClaimMap().Set("x", auth.Number(1)).Set("y", auth.Number(2)).Value()
		b := auth.NewClaimMap().Set("y", auth.Number(2)).Set("x", auth.Number(1)).Value()
		require.False(t, a.Equal(b))
		require.True(t, auth.List(auth.Bool(true)).Equal(auth.List(auth.Bool(true))))
		require.False(t, auth.String("1").Equal(auth.Number(1)))
	})

	t.Run("typed lists and maps are canonicalized per element", func(t *testing.T) {
		out := auth.Canonicalize(map[string]interface{}{
			"agents": []*auth.RoomAgentDispatch{{AgentName: "a"}, nil},
			"dicts":  []map[string]interface{}{{"k": "v"}},
			"nums":   []int{1, 2},
			"m":      map[string]int{"y": 2, "x": 1},
		})

		b, err := json.Marshal(out)
		require.NoError(t, err)
		require.JSONEq(t, `{
			"agents": [{"agent_name": "a"}, null],
			"dicts": [{"k": "v"}],
			"m": {"x": 1, "y": 2},
			"nums": [1, 2]
		}`, string(b))

		m, ok := out.Field("m")
		require.True(t, ok)
		require.Equal(t, []string{"x", "y"}, m.Keys())

		require.True(t, out.Equal(auth.Canonicalize(out.Interface())))
	})

	t.Run("nil structured value is null", func(t *testing.T) {
		var agent *auth.RoomAgentDispatch
		require.True(t, auth.Canonicalize(agent).IsNull())
	})

	t.Run("empty list marshals as array", func(t *testing.T) {
		b, err := json.Marshal(auth.StringList(nil))
		require.NoError(t, err)
		require.Equal(t, "[]", string(b))
	})
}

func TestRoomConfigurationClaim(t *testing.T) {
	conf := &auth.RoomConfiguration{
		Name:             "room",
		EmptyTimeout:     10,
		DepartureTimeout: 20,
		MaxParticipants:  3,
		Egress: &auth.RoomEgress{
			Room: &auth.RoomCompositeEgress{
				Layout: "grid",
				FileOutputs: []*auth.EncodedFileOutput{
					{FileType: auth.EncodedFileTypeMP4, Filepath: "out.mp4"},
				},
			},
			Tracks: &auth.AutoTrackEgress{Filepath: "tracks/"},
		},
		MinPlayoutDelay: 100,
		MaxPlayoutDelay: 2000,
		SyncStreams:     true,
		Agents: []*auth.RoomAgentDispatch{
			{AgentName: "a", Metadata: "m"},
			{AgentName: "b"},
		},
	}

	v := conf.ClaimValue()
	require.Equal(t, []string{
		"name",
		"empty_timeout",
		"departure_timeout",
		"max_participants",
		"egress",
		"min_playout_delay",
		"max_playout_delay",
		"sync_streams",
		"agents",
	}, v.Keys())

	egress, ok := v.Field("egress")
	require.True(t, ok)
	require.Equal(t, []string{"room", "tracks"}, egress.Keys())

	require.Equal(t, map[string]interface{}{
		"room": map[string]interface{}{
			"layout": "grid",
			"file_outputs": []interface{}{
				map[string]interface{}{"file_type": "MP4", "filepath": "out.mp4"},
			},
		},
		"tracks": map[string]interface{}{"filepath": "tracks/"},
	}, egress.Interface())

	agents, ok := v.Field("agents")
	require.True(t, ok)
	list, ok := agents.AsList()
	require.True(t, ok)
	require.Len(t, list, 2)
	require.Equal(t, []string{"agent_name"}, list[1].Keys())

	// zero values are not emitted
	require.Empty(t, (&auth.RoomConfiguration{}).ClaimValue().Keys())

	// canonicalizing again is a no-op
	require.True(t, v.Equal(auth.Canonicalize(conf)))
}

func TestRoomConfigurationSkipsNilEntries(t *testing.T) {
	conf := &auth.RoomConfiguration{
		Agents: []*auth.RoomAgentDispatch{nil, {AgentName: "a"}},
		Egress: &auth.RoomEgress{
			Room: &auth.RoomCompositeEgress{FileOutputs: []*auth.EncodedFileOutput{nil}},
		},
	}

	var v auth.ClaimValue
	require.NotPanics(t, func() { v = conf.ClaimValue() })
	require.Equal(t, map[string]interface{}{
		"egress": map[string]interface{}{
			"room": map[string]interface{}{"file_outputs": []interface{}{}},
		},
		"agents": []interface{}{map[string]interface{}{"agent_name": "a"}},
	}, v.Interface())

	token := auth.NewAccessToken("abcdefg", "abababa").
		SetIdentity("identity").
		SetRoomConfig(&auth.RoomConfiguration{Agents: []*auth.RoomAgentDispatch{nil}})
	require.NotPanics(t, func() {
		_, err := token.ToJWT()
		require.NoError(t, err)
	})
}
