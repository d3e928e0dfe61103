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

import (
	"time"

	"github.com/elliotchance/orderedmap/v2"
)

type Namespace string

const (
	NamespaceVideo Namespace = "video"
	NamespaceSIP   Namespace = "sip"
)

// video grant keys
const (
	GrantRoomCreate           = "roomCreate"
	GrantRoomList             = "roomList"
	GrantRoomRecord           = "roomRecord"
	GrantRoomAdmin            = "roomAdmin"
	GrantRoomJoin             = "roomJoin"
	GrantRoom                 = "room"
	GrantDestinationRoom      = "destinationRoom"
	GrantCanPublish           = "canPublish"
	GrantCanSubscribe         = "canSubscribe"
	GrantCanPublishData       = "canPublishData"
	GrantCanPublishSources    = "canPublishSources"
	GrantCanUpdateOwnMetadata = "canUpdateOwnMetadata"
	GrantIngressAdmin         = "ingressAdmin"
	GrantHidden               = "hidden"
	GrantRecorder             = "recorder"
	GrantAgent                = "agent"
)

// sip grant keys
const (
	GrantSIPAdmin = "admin"
	GrantSIPCall  = "call"
)

// Grant is a single named permission attached to a token.
type Grant interface {
	Namespace() Namespace
	Key() string
	Value() ClaimValue
}

type grant struct {
	ns    Namespace
	key   string
	value ClaimValue
}

func (g grant) Namespace() Namespace { return g.ns }
func (g grant) Key() string          { return g.key }
func (g grant) Value() ClaimValue    { return g.value }

func videoGrant(key string, value ClaimValue) Grant {
	return grant{ns: NamespaceVideo, key: key, value: value}
}

func sipGrant(key string, value ClaimValue) Grant {
	return grant{ns: NamespaceSIP, key: key, value: value}
}

// permission to create or delete rooms
func RoomCreate(v bool) Grant { return videoGrant(GrantRoomCreate, Bool(v)) }

// permission to list available rooms
func RoomList(v bool) Grant { return videoGrant(GrantRoomList, Bool(v)) }

// permission to use the egress service
func RoomRecord(v bool) Grant { return videoGrant(GrantRoomRecord, Bool(v)) }

// permission to moderate a room, requires RoomName
func RoomAdmin(v bool) Grant { return videoGrant(GrantRoomAdmin, Bool(v)) }

// permission to join a room, the token must carry an identity
func RoomJoin(v bool) Grant { return videoGrant(GrantRoomJoin, Bool(v)) }

// RoomName limits join and admin grants to a single room.
func RoomName(name string) Grant { return videoGrant(GrantRoom, String(name)) }

func DestinationRoomName(name string) Grant { return videoGrant(GrantDestinationRoom, String(name)) }

func CanPublish(v bool) Grant { return videoGrant(GrantCanPublish, Bool(v)) }

func CanSubscribe(v bool) Grant { return videoGrant(GrantCanSubscribe, Bool(v)) }

func CanPublishData(v bool) Grant { return videoGrant(GrantCanPublishData, Bool(v)) }

// CanPublishSources restricts publishing to the given track sources
// ("camera", "microphone", "screen_share", "screen_share_audio"). It supersedes CanPublish.
func CanPublishSources(sources []string) Grant {
	return videoGrant(GrantCanPublishSources, StringList(sources))
}

func CanUpdateOwnMetadata(v bool) Grant { return videoGrant(GrantCanUpdateOwnMetadata, Bool(v)) }

func IngressAdmin(v bool) Grant { return videoGrant(GrantIngressAdmin, Bool(v)) }

// hide participant from others
func Hidden(v bool) Grant { return videoGrant(GrantHidden, Bool(v)) }

func Recorder(v bool) Grant { return videoGrant(GrantRecorder, Bool(v)) }

// Agent allows connecting as an agent framework worker.
func Agent(v bool) Grant { return videoGrant(GrantAgent, Bool(v)) }

// SIPAdmin allows managing SIP trunks and dispatch rules.
func SIPAdmin(v bool) Grant { return sipGrant(GrantSIPAdmin, Bool(v)) }

// SIPCall allows placing outbound calls.
func SIPCall(v bool) Grant { return sipGrant(GrantSIPCall, Bool(v)) }

// GrantSet holds the grants of one namespace keyed by grant name.
type GrantSet struct {
	ns     Namespace
	grants *orderedmap.OrderedMap[string, ClaimValue]
}

func NewGrantSet(ns Namespace) *GrantSet {
	return &GrantSet{
		ns:     ns,
		grants: orderedmap.NewOrderedMap[string, ClaimValue](),
	}
}

func (s *GrantSet) Namespace() Namespace {
	return s.ns
}

// Add replaces any grant with the same key.
func (s *GrantSet) Add(g Grant) {
	s.grants.Set(g.Key(), g.Value())
}

func (s *GrantSet) Get(key string) (ClaimValue, bool) {
	return s.grants.Get(key)
}

func (s *GrantSet) Len() int {
	return s.grants.Len()
}

func (s *GrantSet) Clear() {
	s.grants = orderedmap.NewOrderedMap[string, ClaimValue]()
}

// IsTrue reports whether key is present with a boolean true value.
func (s *GrantSet) IsTrue(key string) bool {
	v, ok := s.grants.Get(key)
	if !ok {
		return false
	}
	b, ok := v.AsBool()
	return ok && b
}

func (s *GrantSet) ClaimValue() ClaimValue {
	cm := NewClaimMap()
	for el := s.grants.Front(); el != nil; el = el.Next() {
		cm.Set(el.Key, el.Value)
	}
	return cm.Value()
}

// VideoGrants is the decoded form of the "video" claim.
type VideoGrants struct {
	RoomCreate           bool     `json:"roomCreate,omitempty"`
	RoomList             bool     `json:"roomList,omitempty"`
	RoomRecord           bool     `json:"roomRecord,omitempty"`
	RoomAdmin            bool     `json:"roomAdmin,omitempty"`
	RoomJoin             bool     `json:"roomJoin,omitempty"`
	Room                 string   `json:"room,omitempty"`
	DestinationRoom      string   `json:"destinationRoom,omitempty"`
	CanPublish           *bool    `json:"canPublish,omitempty"`
	CanSubscribe         *bool    `json:"canSubscribe,omitempty"`
	CanPublishData       *bool    `json:"canPublishData,omitempty"`
	CanPublishSources    []string `json:"canPublishSources,omitempty"`
	CanUpdateOwnMetadata *bool    `json:"canUpdateOwnMetadata,omitempty"`
	IngressAdmin         bool     `json:"ingressAdmin,omitempty"`
	Hidden               bool     `json:"hidden,omitempty"`
	Recorder             bool     `json:"recorder,omitempty"`
	Agent                bool     `json:"agent,omitempty"`
}

// GetCanPublish defaults to true when unset, matching the server.
func (v *VideoGrants) GetCanPublish() bool {
	if v.CanPublish == nil {
		return true
	}
	return *v.CanPublish
}

func (v *VideoGrants) GetCanSubscribe() bool {
	if v.CanSubscribe == nil {
		return true
	}
	return *v.CanSubscribe
}

func (v *VideoGrants) GetCanPublishData() bool {
	if v.CanPublishData == nil {
		return v.GetCanPublish()
	}
	return *v.CanPublishData
}

type SIPGrants struct {
	Admin bool `json:"admin,omitempty"`
	Call  bool `json:"call,omitempty"`
}

// ClaimGrants is the verified content of a token.
type ClaimGrants struct {
	Identity   string                 `json:"-"`
	ID         string                 `json:"-"`
	Issuer     string                 `json:"-"`
	ExpiresAt  time.Time              `json:"-"`
	Name       string                 `json:"name,omitempty"`
	Metadata   string                 `json:"metadata,omitempty"`
	Sha256     string                 `json:"sha256,omitempty"`
	RoomPreset string                 `json:"roomPreset,omitempty"`
	RoomConfig map[string]interface{} `json:"roomConfig,omitempty"`
	Attributes map[string]string      `json:"attributes,omitempty"`
	Video      *VideoGrants           `json:"video,omitempty"`
	SIP        *SIPGrants             `json:"sip,omitempty"`
}
