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

package auth

// RoomConfiguration is applied by the server when a room is created by the token holder.
// It is embedded in the "roomConfig" claim using protobuf field names; unset fields are omitted.
type RoomConfiguration struct {
	Name             string
	EmptyTimeout     uint32
	DepartureTimeout uint32
	MaxParticipants  uint32
	Egress           *RoomEgress
	MinPlayoutDelay  uint32
	MaxPlayoutDelay  uint32
	SyncStreams      bool
	Agents           []*RoomAgentDispatch
}

type RoomEgress struct {
	Room        *RoomCompositeEgress
	Participant *AutoParticipantEgress
	Tracks      *AutoTrackEgress
}

type RoomCompositeEgress struct {
	Layout        string
	AudioOnly     bool
	VideoOnly     bool
	CustomBaseURL string
	FileOutputs   []*EncodedFileOutput
}

type AutoParticipantEgress struct {
	Preset      EncodingOptionsPreset
	FileOutputs []*EncodedFileOutput
}

type AutoTrackEgress struct {
	Filepath        string
	DisableManifest bool
}

type EncodedFileOutput struct {
	FileType        EncodedFileType
	Filepath        string
	DisableManifest bool
}

type RoomAgentDispatch struct {
	AgentName string
	Metadata  string
}

// EncodedFileType mirrors the protobuf enum; enums are embedded by name.
type EncodedFileType int32

const (
	EncodedFileTypeDefault EncodedFileType = iota
	EncodedFileTypeMP4
	EncodedFileTypeOGG
)

func (t EncodedFileType) String() string {
	switch t {
	case EncodedFileTypeMP4:
		return "MP4"
	case EncodedFileTypeOGG:
		return "OGG"
	default:
		return "DEFAULT_FILETYPE"
	}
}

type EncodingOptionsPreset int32

const (
	PresetH264_720P_30 EncodingOptionsPreset = iota
	PresetH264_720P_60
	PresetH264_1080P_30
	PresetH264_1080P_60
)

func (p EncodingOptionsPreset) String() string {
	switch p {
	case PresetH264_720P_60:
		return "H264_720P_60"
	case PresetH264_1080P_30:
		return "H264_1080P_30"
	case PresetH264_1080P_60:
		return "H264_1080P_60"
	default:
		return "H264_720P_30"
	}
}

func (c *RoomConfiguration) ClaimValue() ClaimValue {
	cm := NewClaimMap()
	setString(cm, "name", c.Name)
	setUint(cm, "empty_timeout", c.EmptyTimeout)
	setUint(cm, "departure_timeout", c.DepartureTimeout)
	setUint(cm, "max_participants", c.MaxParticipants)
	if c.Egress != nil {
		cm.Set("egress", c.Egress.ClaimValue())
	}
	setUint(cm, "min_playout_delay", c.MinPlayoutDelay)
	setUint(cm, "max_playout_delay", c.MaxPlayoutDelay)
	setBool(cm, "sync_streams", c.SyncStreams)
	if len(c.Agents) > 0 {
		agents := make([]ClaimValue, 0, len(c.Agents))
		for _, a := range c.Agents {
			if a == nil {
				continue
			}
			agents = append(agents, a.ClaimValue())
		}
		cm.Set("agents", List(agents...))
	}
	return cm.Value()
}

func (e *RoomEgress) ClaimValue() ClaimValue {
	cm := NewClaimMap()
	if e.Room != nil {
		cm.Set("room", e.Room.ClaimValue())
	}
	if e.Participant != nil {
		cm.Set("participant", e.Participant.ClaimValue())
	}
	if e.Tracks != nil {
		cm.Set("tracks", e.Tracks.ClaimValue())
	}
	return cm.Value()
}

func (r *RoomCompositeEgress) ClaimValue() ClaimValue {
	cm := NewClaimMap()
	setString(cm, "layout", r.Layout)
	setBool(cm, "audio_only", r.AudioOnly)
	setBool(cm, "video_only", r.VideoOnly)
	setString(cm, "custom_base_url", r.CustomBaseURL)
	setFileOutputs(cm, r.FileOutputs)
	return cm.Value()
}

func (p *AutoParticipantEgress) ClaimValue() ClaimValue {
	cm := NewClaimMap()
	if p.Preset != PresetH264_720P_30 {
		cm.Set("preset", Canonicalize(p.Preset))
	}
	setFileOutputs(cm, p.FileOutputs)
	return cm.Value()
}

func (t *AutoTrackEgress) ClaimValue() ClaimValue {
	cm := NewClaimMap()
	setString(cm, "filepath", t.Filepath)
	setBool(cm, "disable_manifest", t.DisableManifest)
	return cm.Value()
}

func (f *EncodedFileOutput) ClaimValue() ClaimValue {
	cm := NewClaimMap()
	if f.FileType != EncodedFileTypeDefault {
		cm.Set("file_type", Canonicalize(f.FileType))
	}
	setString(cm, "filepath", f.Filepath)
	setBool(cm, "disable_manifest", f.DisableManifest)
	return cm.Value()
}

func (a *RoomAgentDispatch) ClaimValue() ClaimValue {
	cm := NewClaimMap()
	setString(cm, "agent_name", a.AgentName)
	setString(cm, "metadata", a.Metadata)
	return cm.Value()
}

func setFileOutputs(cm *ClaimMap, outputs []*EncodedFileOutput) {
	if len(outputs) == 0 {
		return
	}
	items := make([]ClaimValue, 0, len(outputs))
	for _, o := range outputs {
		if o == nil {
			continue
		}
		items = append(items, o.ClaimValue())
	}
	cm.Set("file_outputs", List(items...))
}

func setString(cm *ClaimMap, key, v string) {
	if v != "" {
		cm.Set(key, String(v))
	}
}

func setUint(cm *ClaimMap, key string, v uint32) {
	if v != 0 {
		cm.Set(key, Number(float64(v)))
	}
}

func setBool(cm *ClaimMap, key string, v bool) {
	if v {
		cm.Set(key, Bool(v))
	}
}
