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

package configtest

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type inner struct {
	Name  string `yaml:"name,omitempty"`
	Flag  bool   `yaml:"flag"`
	Count int    `yaml:"count"`
}

type outer struct {
	Inner inner  `yaml:"inner,omitempty"`
	Camel string `yaml:"camelCase,omitempty"`
	Skip  string `yaml:"-"`
}

func TestCheckYAMLTags(t *testing.T) {
	err := CheckYAMLTags(&outer{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "inner.Count missing omitempty tag")
	require.Contains(t, err.Error(), "snake_case")
	require.NotContains(t, err.Error(), "Flag")
	require.NotContains(t, err.Error(), "Skip")
}
