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
	"slices"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/livekit/protocol/livekit"

	"github.com/livekit/livekit-server-sdk/pkg/utils"
	"github.com/livekit/livekit-server-sdk/pkg/webhook"
)

var (
	WebhookCommands = []*cli.Command{
		{
			Name:   "send-webhook",
			Usage:  "sign and deliver a webhook event, useful to test receivers",
			Action: sendWebhook,
			Flags: []cli.Flag{
				apiKeyFlag,
				secretFlag,
				timeoutFlag,
				&cli.StringSliceFlag{
					Name:     "url",
					Usage:    "receiver url, use flag multiple times for more",
					Required: true,
				},
				&cli.StringFlag{
					Name:  "event",
					Usage: "event name",
					Value: webhook.EventRoomStarted,
				},
				&cli.StringFlag{
					Name:  "room",
					Usage: "name of the room the event is about",
				},
				&cli.StringFlag{
					Name:  "participant",
					Usage: "identity of the participant the event is about",
				},
			},
		},
	}
)

func buildEvent(c *cli.Context) (*livekit.WebhookEvent, error) {
	name := c.String("event")
	if !slices.Contains(webhook.KnownEvents, name) {
		return nil, errors.Errorf("unknown event %q", name)
	}

	event := &livekit.WebhookEvent{Event: name}
	if room := c.String("room"); room != "" {
		event.Room = &livekit.Room{
			Sid:  utils.NewGuid(utils.RoomPrefix),
			Name: room,
		}
	}
	if identity := c.String("participant"); identity != "" {
		event.Participant = &livekit.ParticipantInfo{Identity: identity}
	}
	return event, nil
}

func sendWebhook(c *cli.Context) error {
	event, err := buildEvent(c)
	if err != nil {
		return err
	}

	notifier := webhook.NewURLNotifier(webhook.URLNotifierParams{
		URLs:      c.StringSlice("url"),
		APIKey:    c.String("api-key"),
		APISecret: c.String("api-secret"),
		Timeout:   c.Duration("timeout"),
	})
	defer notifier.Stop(false)

	if err = notifier.Notify(context.Background(), event); err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "delivered %s %s to %d receiver(s), created %s\n",
		event.Event, event.Id, len(c.StringSlice("url")), humanize.Time(time.Unix(event.CreatedAt, 0)))
	return nil
}
