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

package webhook

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protojson"

	"github.com/livekit/protocol/livekit"

	"github.com/livekit/livekit-server-sdk/pkg/auth"
)

const (
	authorizationHeader = "Authorization"
	bearerPrefix        = "Bearer "

	// MaxBodySize caps the request body read by ReceiveRequest.
	MaxBodySize = 1 << 20
)

var unmarshalOptions = protojson.UnmarshalOptions{
	DiscardUnknown: true,
}

// Receiver authenticates and decodes webhook deliveries.
// It holds no mutable state and is safe for concurrent use.
type Receiver struct {
	provider auth.KeyProvider
	// expected issuer, any key known to provider when empty
	apiKey string
}

func NewReceiver(apiKey, apiSecret string) *Receiver {
	return &Receiver{
		provider: auth.NewSimpleKeyProvider(apiKey, apiSecret),
		apiKey:   apiKey,
	}
}

// NewKeyProviderReceiver accepts deliveries signed by any key the provider knows.
func NewKeyProviderReceiver(provider auth.KeyProvider) *Receiver {
	return &Receiver{provider: provider}
}

// WithAPIKey restricts accepted deliveries to tokens issued by apiKey.
func (r *Receiver) WithAPIKey(apiKey string) *Receiver {
	return &Receiver{provider: r.provider, apiKey: apiKey}
}

// Delivery is an accepted webhook request.
type Delivery struct {
	Event *livekit.WebhookEvent
	// Grants is nil when authentication was skipped
	Grants *auth.ClaimGrants
	// ReplayKey identifies the token for single use enforcement
	ReplayKey string
}

// Receive verifies body against authToken and decodes it.
// With skipAuth the token is ignored entirely.
func (r *Receiver) Receive(body []byte, authToken string, skipAuth bool) (*livekit.WebhookEvent, error) {
	d, err := r.receive(body, authToken, skipAuth)
	if err != nil {
		return nil, err
	}
	return d.Event, nil
}

// ReceiveRequest reads the body and Authorization header of an incoming delivery.
// A "Bearer " prefix on the header is accepted but not required. Bodies larger than
// MaxBodySize are rejected with ErrBodyTooLarge.
func (r *Receiver) ReceiveRequest(req *http.Request, skipAuth bool) (*Delivery, error) {
	body, err := io.ReadAll(io.LimitReader(req.Body, MaxBodySize+1))
	if err != nil {
		return nil, errors.Wrap(err, "could not read request body")
	}
	if len(body) > MaxBodySize {
		return nil, ErrBodyTooLarge
	}
	token := strings.TrimPrefix(req.Header.Get(authorizationHeader), bearerPrefix)
	return r.receive(body, token, skipAuth)
}

func (r *Receiver) receive(body []byte, authToken string, skipAuth bool) (*Delivery, error) {
	d := &Delivery{}
	if !skipAuth {
		v, grants, err := r.verify(body, authToken)
		if err != nil {
			return nil, err
		}
		d.Grants = grants
		d.ReplayKey = grants.ID
		if d.ReplayKey == "" {
			d.ReplayKey = v.Signature()
		}
	}

	event, err := Decode(body)
	if err != nil {
		return nil, err
	}
	d.Event = event
	return d, nil
}

// Verify checks the token and that it carries the digest of body.
func (r *Receiver) Verify(body []byte, authToken string) (*auth.ClaimGrants, error) {
	_, grants, err := r.verify(body, authToken)
	return grants, err
}

func (r *Receiver) verify(body []byte, authToken string) (*auth.APIKeyTokenVerifier, *auth.ClaimGrants, error) {
	authToken = strings.TrimSpace(authToken)
	if authToken == "" {
		return nil, nil, ErrMissingCredential
	}

	v, err := auth.ParseAPIToken(authToken)
	if err != nil {
		return nil, nil, errors.Wrap(ErrAuthentication, err.Error())
	}
	if r.apiKey != "" && v.APIKey() != r.apiKey {
		return nil, nil, errors.Wrapf(ErrAuthentication, "unexpected issuer %s", v.APIKey())
	}

	secret := r.provider.GetSecret(v.APIKey())
	if secret == "" {
		return nil, nil, errors.Wrapf(ErrAuthentication, "unknown api key %s", v.APIKey())
	}

	grants, err := v.Verify(secret)
	if err != nil {
		return nil, nil, errors.Wrap(ErrAuthentication, err.Error())
	}

	if subtle.ConstantTimeCompare([]byte(BodySha256(body)), []byte(grants.Sha256)) != 1 {
		return nil, nil, ErrIntegrity
	}
	return v, grants, nil
}

// Decode parses a webhook event, ignoring fields it does not know.
func Decode(body []byte) (*livekit.WebhookEvent, error) {
	event := &livekit.WebhookEvent{}
	if err := unmarshalOptions.Unmarshal(body, event); err != nil {
		return nil, errors.Wrap(ErrDecode, err.Error())
	}
	return event, nil
}

// BodySha256 returns the base64 encoded SHA-256 digest carried in the sha256 claim.
func BodySha256(body []byte) string {
	sum := sha256.Sum256(body)
	return base64.StdEncoding.EncodeToString(sum[:])
}
