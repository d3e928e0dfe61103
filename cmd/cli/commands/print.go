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
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"

	"github.com/livekit/protocol/livekit"
)

var printOptions = protojson.MarshalOptions{
	Multiline:     true,
	UseProtoNames: true,
}

func PrintJSON(w io.Writer, msg proto.Message) {
	txt, err := printOptions.Marshal(msg)
	if err != nil {
		fmt.Fprintln(w, err)
		return
	}
	fmt.Fprintln(w, string(txt))
}

func printTracks(w io.Writer, tracks []*livekit.TrackInfo) {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"SID", "Name", "Type", "Source", "Muted", "Dimensions"})
	for _, track := range tracks {
		dimensions := ""
		if track.Type == livekit.TrackType_VIDEO {
			dimensions = fmt.Sprintf("%dx%d", track.Width, track.Height)
		}
		table.Append([]string{
			track.Sid,
			track.Name,
			track.Type.String(),
			track.Source.String(),
			strconv.FormatBool(track.Muted),
			dimensions,
		})
	}
	table.Render()
}
