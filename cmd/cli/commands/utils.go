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

package commands

import (
	"github.com/urfave/cli/v2"
)

var (
	hostFlag = &cli.StringFlag{
		Name:    "host",
		Usage:   "url of the server hosting the room service",
		EnvVars: []string{"LIVEKIT_URL"},
		Value:   "http://localhost:7880",
	}
	apiKeyFlag = &cli.StringFlag{
		Name:     "api-key",
		EnvVars:  []string{"LIVEKIT_API_KEY"},
		Required: true,
	}
	secretFlag = &cli.StringFlag{
		Name:     "api-secret",
		EnvVars:  []string{"LIVEKIT_API_SECRET"},
		Required: true,
	}
	jsonFlag = &cli.BoolFlag{
		Name:  "json",
		Usage: "use the JSON transport instead of protobuf",
	}
	roomFlag = &cli.StringFlag{
		Name:     "room",
		Usage:    "name of the room",
		Required: true,
	}
	timeoutFlag = &cli.DurationFlag{
		Name:  "timeout",
		Usage: "request timeout",
	}
)

func withClientFlags(flags ...cli.Flag) []cli.Flag {
	return append([]cli.Flag{hostFlag, apiKeyFlag, secretFlag}, flags...)
}
