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

package service

import (
	"errors"
	"net/http"

	"github.com/livekit/psrpc"
)

var (
	ErrPermissionDenied          = psrpc.NewErrorf(psrpc.PermissionDenied, "permissions denied")
	ErrMissingAuthorization      = psrpc.NewErrorf(psrpc.Unauthenticated, "invalid authorization header. Must start with %s", bearerPrefix)
	ErrInvalidAuthorizationToken = psrpc.NewErrorf(psrpc.Unauthenticated, "invalid authorization token")
	ErrRoomNameRequired          = psrpc.NewErrorf(psrpc.InvalidArgument, "room name is required")
	ErrIdentityEmpty             = psrpc.NewErrorf(psrpc.InvalidArgument, "identity cannot be empty")
	ErrTrackSidEmpty             = psrpc.NewErrorf(psrpc.InvalidArgument, "track sid cannot be empty")
	ErrKeysMissing               = psrpc.NewErrorf(psrpc.FailedPrecondition, "api key and secret are required")
	ErrAlreadyRunning            = psrpc.NewErrorf(psrpc.FailedPrecondition, "server is already running")
	ErrMethodNotAllowed          = psrpc.NewErrorf(psrpc.InvalidArgument, "webhooks must be delivered with POST")
)

// HTTPStatus maps an error to the response code of its class.
func HTTPStatus(err error) int {
	var perr psrpc.Error
	if !errors.As(err, &perr) {
		return http.StatusInternalServerError
	}
	switch perr.Code() {
	case psrpc.Unauthenticated:
		return http.StatusUnauthorized
	case psrpc.PermissionDenied:
		return http.StatusForbidden
	case psrpc.InvalidArgument:
		return http.StatusBadRequest
	case psrpc.NotFound:
		return http.StatusNotFound
	case psrpc.AlreadyExists:
		return http.StatusConflict
	case psrpc.FailedPrecondition:
		return http.StatusPreconditionFailed
	case psrpc.ResourceExhausted:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// errorReason is a short label for metrics.
func errorReason(err error) string {
	var perr psrpc.Error
	if !errors.As(err, &perr) {
		return "internal"
	}
	return string(perr.Code())
}
