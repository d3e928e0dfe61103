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

package utils

import (
	"time"

	"go.uber.org/zap/zapcore"
)

type Lap struct {
	Label    string
	Duration time.Duration
}

func (l Lap) MarshalLogObject(e zapcore.ObjectEncoder) error {
	e.AddString("label", l.Label)
	e.AddDuration("duration", l.Duration)
	return nil
}

// Laps implements zapcore.ArrayMarshaler so a whole run can be logged as one field.
type Laps []Lap

func (l Laps) MarshalLogArray(e zapcore.ArrayEncoder) error {
	for _, lap := range l {
		if err := e.AppendObject(lap); err != nil {
			return err
		}
	}
	return nil
}

// Stopwatch records the time spent between labelled steps of a request.
type Stopwatch struct {
	last time.Time
	laps Laps
}

func NewStopwatch() *Stopwatch {
	return &Stopwatch{last: time.Now()}
}

func (s *Stopwatch) Mark(label string) {
	now := time.Now()
	s.laps = append(s.laps, Lap{Label: label, Duration: now.Sub(s.last)})
	s.last = now
}

func (s *Stopwatch) Laps() Laps {
	return s.laps
}

func (s *Stopwatch) Total() time.Duration {
	var total time.Duration
	for _, l := range s.laps {
		total += l.Duration
	}
	return total
}
