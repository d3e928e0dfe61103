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

	"github.com/go-jose/go-jose/v3"
	"github.com/go-jose/go-jose/v3/jwt"
	"github.com/pkg/errors"
)

const (
	DefaultValidDuration = 6 * time.Hour

	claimName       = "name"
	claimMetadata   = "metadata"
	claimSha256     = "sha256"
	claimRoomPreset = "roomPreset"
	claimRoomConfig = "roomConfig"
	claimAttributes = "attributes"
	claimVideo      = "video"
	claimSIP        = "sip"
)

// AccessToken produces a token signed with an API key and secret.
// Set fields, add grants, then call ToJWT.
type AccessToken struct {
	apiKey     string
	secret     string
	validFor   time.Duration
	expiration time.Time
	notBefore  time.Time
	identity   string
	name       string
	metadata   string
	sha256     string
	roomPreset string
	roomConfig *RoomConfiguration
	attributes map[string]string
	video      *GrantSet
	sip        *GrantSet
	// emitEmptySIP keeps the "sip" claim present when no sip grants were added
	emitEmptySIP bool
}

func NewAccessToken(key string, secret string) *AccessToken {
	return &AccessToken{
		apiKey:       key,
		secret:       secret,
		validFor:     DefaultValidDuration,
		attributes:   make(map[string]string),
		video:        NewGrantSet(NamespaceVideo),
		sip:          NewGrantSet(NamespaceSIP),
		emitEmptySIP: true,
	}
}

// SetValidFor sets the token lifetime. Ignored when an explicit expiration is set.
func (t *AccessToken) SetValidFor(duration time.Duration) *AccessToken {
	t.validFor = duration
	return t
}

func (t *AccessToken) SetExpiration(at time.Time) *AccessToken {
	t.expiration = at
	return t
}

func (t *AccessToken) SetNotBefore(at time.Time) *AccessToken {
	t.notBefore = at
	return t
}

// SetIdentity sets the participant identity, required for join tokens.
func (t *AccessToken) SetIdentity(identity string) *AccessToken {
	t.identity = identity
	return t
}

func (t *AccessToken) SetName(name string) *AccessToken {
	t.name = name
	return t
}

func (t *AccessToken) SetMetadata(md string) *AccessToken {
	t.metadata = md
	return t
}

// SetSha256 binds the token to a payload, base64 encoded SHA-256 digest.
func (t *AccessToken) SetSha256(sha string) *AccessToken {
	t.sha256 = sha
	return t
}

func (t *AccessToken) SetAttributes(attrs map[string]string) *AccessToken {
	for k, v := range attrs {
		t.attributes[k] = v
	}
	return t
}

func (t *AccessToken) SetRoomPreset(preset string) *AccessToken {
	t.roomPreset = preset
	return t
}

func (t *AccessToken) SetRoomConfig(conf *RoomConfiguration) *AccessToken {
	t.roomConfig = conf
	return t
}

// SetEmitEmptySIP controls whether an empty "sip" claim is written.
func (t *AccessToken) SetEmitEmptySIP(emit bool) *AccessToken {
	t.emitEmptySIP = emit
	return t
}

func (t *AccessToken) AddGrant(g Grant) *AccessToken {
	switch g.Namespace() {
	case NamespaceSIP:
		t.sip.Add(g)
	default:
		t.video.Add(g)
	}
	return t
}

func (t *AccessToken) AddGrants(grants ...Grant) *AccessToken {
	for _, g := range grants {
		t.AddGrant(g)
	}
	return t
}

func (t *AccessToken) ClearGrants() *AccessToken {
	t.video.Clear()
	return t
}

func (t *AccessToken) ClearSIPGrants() *AccessToken {
	t.sip.Clear()
	return t
}

func (t *AccessToken) VideoGrants() *GrantSet {
	return t.video
}

func (t *AccessToken) SIPGrants() *GrantSet {
	return t.sip
}

func (t *AccessToken) ToJWT() (string, error) {
	if t.apiKey == "" || t.secret == "" {
		return "", ErrKeysMissing
	}

	now := time.Now()
	cl := jwt.Claims{
		Issuer: t.apiKey,
	}
	if !t.expiration.IsZero() {
		cl.Expiry = jwt.NewNumericDate(t.expiration)
	} else {
		cl.Expiry = jwt.NewNumericDate(now.Add(t.validFor))
	}
	if !t.notBefore.IsZero() {
		cl.NotBefore = jwt.NewNumericDate(t.notBefore)
	}

	if t.identity != "" {
		// identity doubles as the token id so consumers can track single use
		cl.Subject = t.identity
		cl.ID = t.identity
	} else if t.video.IsTrue(GrantRoomJoin) {
		return "", ErrIdentityRequired
	}

	sig, err := jose.NewSigner(jose.SigningKey{Algorithm: jose.HS256, Key: []byte(t.secret)},
		(&jose.SignerOptions{}).WithType("JWT"))
	if err != nil {
		return "", errors.Wrap(err, "could not create signer")
	}

	token, err := jwt.Signed(sig).Claims(cl).Claims(t.claims()).CompactSerialize()
	if err != nil {
		return "", errors.Wrap(err, "could not serialize token")
	}
	return token, nil
}

// claims is a plain map since the jwt builder only merges maps of this type or structs.
func (t *AccessToken) claims() map[string]interface{} {
	claims := make(map[string]interface{})
	if t.name != "" {
		claims[claimName] = String(t.name)
	}
	if t.metadata != "" {
		claims[claimMetadata] = String(t.metadata)
	}
	if t.sha256 != "" {
		claims[claimSha256] = String(t.sha256)
	}
	if t.roomPreset != "" {
		claims[claimRoomPreset] = String(t.roomPreset)
	}
	if len(t.attributes) != 0 {
		claims[claimAttributes] = Canonicalize(t.attributes)
	}
	if t.roomConfig != nil {
		claims[claimRoomConfig] = t.roomConfig.ClaimValue()
	}
	claims[claimVideo] = t.video.ClaimValue()
	if t.sip.Len() != 0 || t.emitEmptySIP {
		claims[claimSIP] = t.sip.ClaimValue()
	}
	return claims
}
