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
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/livekit/protocol/livekit"

	"github.com/livekit/livekit-server-sdk/pkg/service"
)

var (
	identityFlag = &cli.StringFlag{
		Name:     "identity",
		Usage:    "identity of the participant",
		Required: true,
	}

	RoomCommands = []*cli.Command{
		{
			Name:   "delete-room",
			Usage:  "close a room and disconnect its participants",
			Action: deleteRoom,
			Flags:  withClientFlags(jsonFlag, timeoutFlag, roomFlag),
		},
		{
			Name:   "remove-participant",
			Usage:  "disconnect a participant from a room",
			Action: removeParticipant,
			Flags:  withClientFlags(jsonFlag, timeoutFlag, roomFlag, identityFlag),
		},
		{
			Name:   "mute-track",
			Usage:  "mute or unmute a track published by a participant",
			Action: muteTrack,
			Flags: withClientFlags(
				jsonFlag,
				timeoutFlag,
				roomFlag,
				identityFlag,
				&cli.StringFlag{
					Name:     "track",
					Usage:    "sid of the track",
					Required: true,
				},
				&cli.BoolFlag{
					Name:  "unmute",
					Usage: "unmute the track instead",
				},
				&cli.BoolFlag{
					Name:  "raw",
					Usage: "print the response as JSON",
				},
			),
		},
	}
)

func createClient(c *cli.Context) (*service.RoomServiceClient, error) {
	return service.NewRoomServiceClient(service.RoomServiceClientParams{
		URL:       c.String("host"),
		APIKey:    c.String("api-key"),
		APISecret: c.String("api-secret"),
		Timeout:   c.Duration("timeout"),
		JSON:      c.Bool("json"),
	})
}

func deleteRoom(c *cli.Context) error {
	client, err := createClient(c)
	if err != nil {
		return err
	}
	_, err = client.DeleteRoom(context.Background(), &livekit.DeleteRoomRequest{
		Room: c.String("room"),
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "deleted room %s\n", c.String("room"))
	return nil
}

func removeParticipant(c *cli.Context) error {
	client, err := createClient(c)
	if err != nil {
		return err
	}
	_, err = client.RemoveParticipant(context.Background(), &livekit.RoomParticipantIdentity{
		Room:     c.String("room"),
		Identity: c.String("identity"),
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "removed %s from %s\n", c.String("identity"), c.String("room"))
	return nil
}

func muteTrack(c *cli.Context) error {
	client, err := createClient(c)
	if err != nil {
		return err
	}
	res, err := client.MutePublishedTrack(context.Background(), &livekit.MuteRoomTrackRequest{
		Room:     c.String("room"),
		Identity: c.String("identity"),
		TrackSid: c.String("track"),
		Muted:    !c.Bool("unmute"),
	})
	if err != nil {
		return err
	}

	if c.Bool("raw") {
		PrintJSON(c.App.Writer, res)
	} else if res.Track != nil {
		printTracks(c.App.Writer, []*livekit.TrackInfo{res.Track})
	}
	return nil
}
