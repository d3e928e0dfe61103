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
	"github.com/livekit/psrpc"
)

var (
	ErrMissingCredential = psrpc.NewErrorf(psrpc.Unauthenticated, "authorization header could not be found")
	ErrAuthentication    = psrpc.NewErrorf(psrpc.Unauthenticated, "could not verify authenticity of message")
	ErrIntegrity         = psrpc.NewErrorf(psrpc.PermissionDenied, "sha256 checksum of body does not match")
	ErrDecode            = psrpc.NewErrorf(psrpc.InvalidArgument, "could not decode webhook event")
	ErrReplayed          = psrpc.NewErrorf(psrpc.AlreadyExists, "webhook token has already been used")
	ErrBodyTooLarge      = psrpc.NewErrorf(psrpc.ResourceExhausted, "webhook body exceeds %d bytes", MaxBodySize)
	ErrNoURLs            = psrpc.NewErrorf(psrpc.FailedPrecondition, "no webhook urls configured")
)
