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
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/livekit/livekit-server-sdk/pkg/auth"
	"github.com/livekit/livekit-server-sdk/pkg/config"
	"github.com/livekit/livekit-server-sdk/pkg/service"
	"github.com/livekit/livekit-server-sdk/pkg/telemetry/prometheus"
	"github.com/livekit/livekit-server-sdk/pkg/utils"
	"github.com/livekit/livekit-server-sdk/pkg/webhook"
)

var tokenFlags = []cli.Flag{
	&cli.StringFlag{
		Name:  "identity",
		Usage: "identity of participant that holds the token, required with --join",
	},
	&cli.StringFlag{
		Name:  "room",
		Usage: "name of room the token is limited to",
	},
	&cli.StringFlag{
		Name:  "name",
		Usage: "display name of the participant",
	},
	&cli.StringFlag{
		Name:  "metadata",
		Usage: "participant metadata",
	},
	&cli.StringSliceFlag{
		Name:  "attribute",
		Usage: "participant attribute as key=value, use flag multiple times for more",
	},
	&cli.StringFlag{
		Name:  "room-preset",
		Usage: "name of the room preset applied when the room is created",
	},
	&cli.BoolFlag{Name: "join", Usage: "allow joining the room"},
	&cli.BoolFlag{Name: "admin", Usage: "allow moderating the room"},
	&cli.BoolFlag{Name: "create", Usage: "allow creating and deleting rooms"},
	&cli.BoolFlag{Name: "list", Usage: "allow listing rooms"},
	&cli.BoolFlag{Name: "record", Usage: "allow using egress"},
	&cli.BoolFlag{Name: "ingress-admin", Usage: "allow managing ingress"},
	&cli.BoolFlag{Name: "hidden", Usage: "hide participant from others"},
	&cli.BoolFlag{Name: "recorder", Usage: "creates a hidden participant that can only subscribe"},
	&cli.BoolFlag{Name: "agent", Usage: "join as an agent worker"},
	&cli.BoolFlag{Name: "can-publish", Value: true, Usage: "allow publishing tracks"},
	&cli.BoolFlag{Name: "can-subscribe", Value: true, Usage: "allow subscribing to tracks"},
	&cli.BoolFlag{Name: "can-publish-data", Value: true, Usage: "allow publishing data messages"},
	&cli.StringSliceFlag{
		Name:  "can-publish-source",
		Usage: "limit publishing to a source (camera, microphone, screen_share, screen_share_audio)",
	},
	&cli.BoolFlag{Name: "sip-admin", Usage: "allow managing SIP trunks and dispatch rules"},
	&cli.BoolFlag{Name: "sip-call", Usage: "allow placing SIP calls"},
	&cli.DurationFlag{
		Name:  "valid-for",
		Usage: "token lifetime, defaults to token.ttl",
	},
}

func generateKeys(_ *cli.Context) error {
	apiKey := utils.NewGuid(utils.APIKeyPrefix)
	secret := utils.RandomSecret()
	fmt.Println("API Key: ", apiKey)
	fmt.Println("API Secret: ", secret)
	return nil
}

func helpVerbose(c *cli.Context) error {
	generatedFlags, err := config.GenerateCLIFlags(baseFlags, false)
	if err != nil {
		return err
	}

	c.App.Flags = append(baseFlags, generatedFlags...)
	return cli.ShowAppHelp(c)
}

func createToken(c *cli.Context) error {
	conf, err := getConfig(c)
	if err != nil {
		return err
	}
	if err = conf.ValidateKeys(); err != nil {
		return err
	}
	apiKey, apiSecret := conf.FirstKey()

	at, err := buildToken(c, auth.NewAccessToken(apiKey, apiSecret))
	if err != nil {
		return err
	}
	validFor := conf.Token.TTL
	if c.IsSet("valid-for") {
		validFor = c.Duration("valid-for")
	}
	at.SetValidFor(validFor)

	token, err := at.ToJWT()
	if err != nil {
		return err
	}
	prometheus.TokenIssued(prometheus.TokenKindCLI)

	fmt.Println("API Key:", apiKey)
	fmt.Println("Expires:", humanize.Time(time.Now().Add(validFor)))
	fmt.Println("Token:", token)
	return nil
}

func buildToken(c *cli.Context, at *auth.AccessToken) (*auth.AccessToken, error) {
	at.SetIdentity(c.String("identity")).
		SetName(c.String("name")).
		SetMetadata(c.String("metadata")).
		SetRoomPreset(c.String("room-preset"))

	attrs := make(map[string]string)
	for _, kv := range c.StringSlice("attribute") {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			return nil, errors.Errorf("invalid attribute %q, expected key=value", kv)
		}
		attrs[k] = v
	}
	at.SetAttributes(attrs)

	if room := c.String("room"); room != "" {
		at.AddGrant(auth.RoomName(room))
	}
	boolGrants := map[string]func(bool) auth.Grant{
		"join":          auth.RoomJoin,
		"admin":         auth.RoomAdmin,
		"create":        auth.RoomCreate,
		"list":          auth.RoomList,
		"record":        auth.RoomRecord,
		"ingress-admin": auth.IngressAdmin,
		"hidden":        auth.Hidden,
		"recorder":      auth.Recorder,
		"agent":         auth.Agent,
		"sip-admin":     auth.SIPAdmin,
		"sip-call":      auth.SIPCall,
	}
	for _, name := range sortedKeys(boolGrants) {
		if c.Bool(name) {
			at.AddGrant(boolGrants[name](true))
		}
	}

	// publish permissions are only written when they differ from the server default
	if c.Bool("recorder") {
		at.AddGrants(auth.CanPublish(false), auth.CanPublishData(false))
	}
	for name, g := range map[string]func(bool) auth.Grant{
		"can-publish":      auth.CanPublish,
		"can-subscribe":    auth.CanSubscribe,
		"can-publish-data": auth.CanPublishData,
	} {
		if c.IsSet(name) {
			at.AddGrant(g(c.Bool(name)))
		}
	}
	if sources := c.StringSlice("can-publish-source"); len(sources) > 0 {
		at.AddGrant(auth.CanPublishSources(sources))
	}
	return at, nil
}

func verifyToken(c *cli.Context) error {
	raw := strings.TrimSpace(c.Args().First())
	if raw == "" {
		return errors.New("token is required")
	}

	conf, err := getConfig(c)
	if err != nil {
		return err
	}
	provider, err := service.CreateKeyProvider(conf)
	if err != nil {
		return err
	}

	v, err := auth.ParseAPIToken(raw)
	if err != nil {
		return err
	}
	grants, err := auth.VerifyWithProvider(v, provider)
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetRowLine(true)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Claim", "Value"})
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT})
	table.AppendBulk(claimRows(grants))
	table.Render()
	return nil
}

func claimRows(grants *auth.ClaimGrants) [][]string {
	rows := [][]string{
		{"Issuer", grants.Issuer},
		{"Identity", grants.Identity},
	}
	if !grants.ExpiresAt.IsZero() {
		rows = append(rows, []string{"Expires", fmt.Sprintf("%s (%s)",
			grants.ExpiresAt.UTC().Format("2006-01-02 15:04:05"), humanize.Time(grants.ExpiresAt))})
	}
	for _, r := range [][]string{
		{"Name", grants.Name},
		{"Metadata", grants.Metadata},
		{"Sha256", grants.Sha256},
		{"Room Preset", grants.RoomPreset},
	} {
		if r[1] != "" {
			rows = append(rows, r)
		}
	}
	for _, k := range sortedKeys(grants.Attributes) {
		rows = append(rows, []string{"Attribute " + k, grants.Attributes[k]})
	}
	if grants.Video != nil {
		rows = append(rows, []string{"Video", marshalGrants(grants.Video)})
	}
	if grants.SIP != nil {
		rows = append(rows, []string{"SIP", marshalGrants(grants.SIP)})
	}
	if grants.RoomConfig != nil {
		rows = append(rows, []string{"Room Config", marshalGrants(grants.RoomConfig)})
	}
	return rows
}

func marshalGrants(v interface{}) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err.Error()
	}
	return string(b)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func logEvent(ctx context.Context, d *webhook.Delivery) error {
	values := []interface{}{
		"event", d.Event.Event,
		"id", d.Event.Id,
		"createdAt", time.Unix(d.Event.CreatedAt, 0),
	}
	if d.Event.Room != nil {
		values = append(values, "room", d.Event.Room.Name, "roomID", d.Event.Room.Sid)
	}
	if d.Event.Participant != nil {
		values = append(values, "participant", d.Event.Participant.Identity)
	}
	if d.Grants != nil {
		values = append(values, "apiKey", d.Grants.Issuer)
	}
	utils.GetLogger(ctx).Infow("webhook event", values...)
	return nil
}
