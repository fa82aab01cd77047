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

package pipeline

import (
	"errors"

	"github.com/deep-rent/ioc/internal/telemetry"
	"github.com/deep-rent/ioc/ioerr"
)

// Pipeline is an ordered, immutable sequence of Steps (spec.md §4.9).
// Adding or removing steps yields a new Pipeline; nothing mutates an
// existing one after construction.
type Pipeline struct {
	steps []Step
}

// New builds a Pipeline from steps, in execution order. It fails with
// ioerr.ErrPipelineEmpty if steps is empty (spec.md §8's boundary
// behavior).
func New(steps ...Step) (*Pipeline, error) {
	if len(steps) == 0 {
		return nil, ioerr.ErrPipelineEmpty
	}
	return &Pipeline{steps: append([]Step{}, steps...)}, nil
}

// Canonical builds the seven-step pipeline spec.md §4.9 names, in its
// canonical order.
func Canonical(autowire AutowireStep) (*Pipeline, error) {
	return New(
		DefinitionLookupStep{},
		CircularDependencyStep{},
		AnalyzePrototypeStep{},
		autowire,
		ResolveInstanceStep{},
		InjectDependenciesStep{},
		CollectDiagnosticsStep{},
	)
}

// Run executes every step in order against ctx, halting at the first step
// that fails. Typed kernel failures propagate unchanged; an error a step
// did not already wrap as a Failure is wrapped in ResolutionFailure, its
// Trace taken from ctx.Collector at the point of failure.
func (p *Pipeline) Run(ctx *Context) (any, error) {
	for _, step := range p.steps {
		started := ctx.Collector.Started(step.Name(), ctx.ServiceID)
		err := step.Run(ctx)
		if err != nil {
			ctx.Collector.Failed(step.Name(), ctx.ServiceID, started, err)
			_ = ctx.Transition(Failure)
			return nil, wrap(ctx.ServiceID, err, ctx.Collector)
		}
		ctx.Collector.Succeeded(step.Name(), ctx.ServiceID, started)
	}
	return ctx.Instance, nil
}

// wrap ensures every error leaving the pipeline is, or wraps, an
// ioerr.Failure, attaching the accumulated Trace when the step raised a
// plain error rather than a typed kernel failure.
func wrap(serviceID string, err error, collector *telemetry.Collector) error {
	var f *ioerr.Failure
	if errors.As(err, &f) {
		return err
	}
	return ioerr.NewResolutionFailure(serviceID, err, collector.Trace())
}
