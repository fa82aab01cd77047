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

// Package pipeline runs a resolution through the ordered sequence of Steps
// spec.md §4.9 describes, enforcing the state machine spec.md §4.10
// defines along the way.
package pipeline

// State is one stage a resolution passes through, as named by spec.md
// §4.10's transition table.
type State string

const (
	Start            State = "start"
	DefinitionLookup State = "definition-lookup"
	Autowire         State = "autowire"
	Evaluate         State = "evaluate"
	Instantiate      State = "instantiate"
	Inject           State = "inject"
	Success          State = "success"
	Failure          State = "failure"
)

// transitions is the allowed-next table from spec.md §4.10. "any" is
// handled separately in Controller.Allow: every state may move to Failure.
//
// Evaluate -> Success is listed here as structurally reachable (a resolved
// instance can come straight out of a lifecycle strategy's cache, skipping
// Instantiate/Inject entirely), but spec.md §4.10 permits that specific edge
// "only if hit=true". This table alone does not encode that condition; it is
// enforced one layer up, in Context.Transition, which rejects the move when
// ctx.Hit is false before ever consulting Controller.Allow.
var transitions = map[State][]State{
	Start:            {DefinitionLookup},
	DefinitionLookup: {Autowire, Evaluate},
	Autowire:         {Evaluate},
	Evaluate:         {Instantiate, Success},
	Instantiate:      {Inject},
	Inject:           {Success},
}

// Controller enforces the transition table, raising
// ioerr.PipelineStateViolation for any move not explicitly listed. The
// Evaluate->Success hit-gate from spec.md §4.10 is enforced by
// Context.Transition before it ever calls Allow; Allow itself only checks
// table membership.
type Controller struct{}

// NewController returns a ready-to-use Controller. Controller holds no
// state; one instance may be shared across resolutions.
func NewController() *Controller { return &Controller{} }

// Allow reports whether moving from `from` to `to` is legal.
func (c *Controller) Allow(from, to State) bool {
	if to == Failure {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
