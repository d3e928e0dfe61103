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

package testutils

import (
	"testing"
	"time"
)

var (
	WaitTimeout = 5 * time.Second
)

// WithTimeout polls f until it returns an empty string, failing t with the last
// returned message once WaitTimeout has passed.
func WithTimeout(t *testing.T, f func() string) {
	t.Helper()
	deadline := time.After(WaitTimeout)
	lastErr := ""
	for {
		select {
		case <-deadline:
			t.Fatalf("did not reach expected state after %v: %s", WaitTimeout, lastErr)
		case <-time.After(10 * time.Millisecond):
			lastErr = f()
			if lastErr == "" {
				return
			}
		}
	}
}
