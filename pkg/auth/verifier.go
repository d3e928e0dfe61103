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
	"strings"
	"time"

	"github.com/go-jose/go-jose/v3"
	"github.com/go-jose/go-jose/v3/jwt"
	"github.com/pkg/errors"
)

type APIKeyTokenVerifier struct {
	raw      string
	token    *jwt.JSONWebToken
	apiKey   string
	identity string
}

// ParseAPIToken parses a compact token without checking its signature.
// Call Verify before trusting any claim.
func ParseAPIToken(raw string) (*APIKeyTokenVerifier, error) {
	tok, err := jwt.ParseSigned(raw)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidToken, err.Error())
	}
	if len(tok.Headers) != 1 || tok.Headers[0].Algorithm != string(jose.HS256) {
		return nil, errors.Wrap(ErrInvalidToken, "unsupported signing algorithm")
	}

	out := jwt.Claims{}
	if err := tok.UnsafeClaimsWithoutVerification(&out); err != nil {
		return nil, errors.Wrap(ErrInvalidToken, err.Error())
	}

	return &APIKeyTokenVerifier{
		raw:      raw,
		token:    tok,
		apiKey:   out.Issuer,
		identity: out.Subject,
	}, nil
}

// APIKey returns the API key this token claims to be signed with
func (v *APIKeyTokenVerifier) APIKey() string {
	return v.apiKey
}

func (v *APIKeyTokenVerifier) Identity() string {
	return v.identity
}

// Signature returns the signature segment of the compact token.
func (v *APIKeyTokenVerifier) Signature() string {
	if i := strings.LastIndexByte(v.raw, '.'); i >= 0 {
		return v.raw[i+1:]
	}
	return ""
}

func (v *APIKeyTokenVerifier) Verify(secret string) (*ClaimGrants, error) {
	if secret == "" {
		return nil, ErrKeysMissing
	}

	out := jwt.Claims{}
	claims := ClaimGrants{}
	if err := v.token.Claims([]byte(secret), &out, &claims); err != nil {
		return nil, errors.Wrap(ErrInvalidToken, err.Error())
	}
	if err := out.Validate(jwt.Expected{Issuer: v.apiKey, Time: time.Now()}); err != nil {
		return nil, errors.Wrap(ErrInvalidToken, err.Error())
	}

	claims.Identity = out.Subject
	claims.ID = out.ID
	claims.Issuer = out.Issuer
	if out.Expiry != nil {
		claims.ExpiresAt = out.Expiry.Time()
	}
	return &claims, nil
}

// VerifyWithProvider verifies v with the secret of the key it was issued by.
func VerifyWithProvider(v TokenVerifier, provider KeyProvider) (*ClaimGrants, error) {
	secret := provider.GetSecret(v.APIKey())
	if secret == "" {
		return nil, errors.Wrap(ErrUnknownAPIKey, v.APIKey())
	}
	return v.Verify(secret)
}
