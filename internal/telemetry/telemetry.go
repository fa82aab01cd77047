// Copyright (c) 2025-present deep.rent GmbH (https://deep.rent)
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

// Package telemetry accumulates the three pipeline events (spec.md §4.12)
// for a single resolution and projects them into the ordered Trace surfaced
// on failure or diagnostic request.
package telemetry

import (
	"time"

	"github.com/deep-rent/ioc/clock"
	"github.com/deep-rent/ioc/internal/redact"
	"github.com/deep-rent/ioc/ioerr"
	"github.com/deep-rent/ioc/uuid"
)

// Event is the common shape of a telemetry occurrence for one pipeline
// step run.
type Event struct {
	Step      string
	ServiceID string
	TraceID   string
	StartedAt time.Time
	EndedAt   time.Time
	Outcome   string // "started", "succeeded", "failed"
	Err       error
	Context   map[string]any
}

// Collector accumulates Events for a single resolution, using one
// monotonic clock for every start/end pair it records (spec.md §4.12).
type Collector struct {
	clock   clock.Clock
	traceID string
	events  []Event
}

// NewCollector returns a Collector stamped with a fresh trace ID and driven
// by c for every timestamp it records.
func NewCollector(c clock.Clock) *Collector {
	if c == nil {
		c = clock.SystemClock()
	}
	return &Collector{clock: c, traceID: uuid.New().String()}
}

// TraceID returns the identifier shared by every event this Collector
// records.
func (c *Collector) TraceID() string { return c.traceID }

// Started records a StepStarted event and returns the start timestamp, to
// be passed to Succeeded or Failed when the step concludes.
func (c *Collector) Started(step, serviceID string) time.Time {
	now := c.clock()
	c.events = append(c.events, Event{
		Step:      step,
		ServiceID: serviceID,
		TraceID:   c.traceID,
		StartedAt: now,
		Outcome:   "started",
	})
	return now
}

// Succeeded records a StepSucceeded event for step, started at startedAt.
func (c *Collector) Succeeded(step, serviceID string, startedAt time.Time) {
	c.events = append(c.events, Event{
		Step:      step,
		ServiceID: serviceID,
		TraceID:   c.traceID,
		StartedAt: startedAt,
		EndedAt:   c.clock(),
		Outcome:   "succeeded",
	})
}

// Failed records a StepFailed event for step, started at startedAt.
func (c *Collector) Failed(step, serviceID string, startedAt time.Time, err error) {
	c.events = append(c.events, Event{
		Step:      step,
		ServiceID: serviceID,
		TraceID:   c.traceID,
		StartedAt: startedAt,
		EndedAt:   c.clock(),
		Outcome:   "failed",
		Err:       err,
	})
}

// Len reports the trace length: the number of concluded (succeeded or
// failed) step events, one per pipeline step actually entered (spec.md §8).
func (c *Collector) Len() int {
	n := 0
	for _, e := range c.events {
		if e.Outcome != "started" {
			n++
		}
	}
	return n
}

// Trace projects the accumulated events into the ordered, JSON-serializable
// form exposed on a ResolutionFailure, one entry per concluded step.
// Event.Context is not carried into the entries. A failed step's error text
// passes through redact.Value under the name "error", which matches no
// redaction marker, so it is kept as written.
func (c *Collector) Trace() []ioerr.TraceEntry {
	out := make([]ioerr.TraceEntry, 0, len(c.events))
	for _, e := range c.events {
		if e.Outcome == "started" {
			continue
		}
		entry := ioerr.TraceEntry{
			State:   e.ServiceID,
			Stage:   e.Step,
			Outcome: e.Outcome,
		}
		if e.Err != nil {
			entry.Message = redact.Value("error", e.Err.Error())
		}
		out = append(out, entry)
	}
	return out
}
