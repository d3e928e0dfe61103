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
	"github.com/livekit/psrpc"
)

var (
	ErrKeysMissing      = psrpc.NewErrorf(psrpc.InvalidArgument, "missing API key or secret key")
	ErrIdentityRequired = psrpc.NewErrorf(psrpc.FailedPrecondition, "identity is required for join but is not set")
	ErrInvalidToken     = psrpc.NewErrorf(psrpc.Unauthenticated, "invalid token")
	ErrUnknownAPIKey    = psrpc.NewErrorf(psrpc.Unauthenticated, "api key not found")
)
