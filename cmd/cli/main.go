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

package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/livekit/protocol/logger"

	"github.com/livekit/livekit-server-sdk/cmd/cli/commands"
	"github.com/livekit/livekit-server-sdk/version"
)

func main() {
	app := &cli.App{
		Name:    "livekit-sdk-cli",
		Usage:   "call the room service and send webhooks with scoped tokens",
		Version: version.Version,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "log requests",
			},
		},
		Before: func(c *cli.Context) error {
			level := "info"
			if c.Bool("verbose") {
				level = "debug"
			}
			logger.InitFromConfig(logger.Config{Level: level}, "livekit-sdk-cli")
			return nil
		},
	}

	app.Commands = append(app.Commands, commands.RoomCommands...)
	app.Commands = append(app.Commands, commands.WebhookCommands...)

	if err := app.Run(os.Args); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
