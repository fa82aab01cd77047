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
	"github.com/deep-rent/ioc/internal/definition"
	"github.com/deep-rent/ioc/ioerr"
)

// Step is one unit of work in a Pipeline (spec.md §4.9): given a Context,
// it may mutate it (set metadata, advance state, attach the instance) and
// returns an error to halt the pipeline.
type Step interface {
	Name() string
	Run(ctx *Context) error
}

// DefinitionLookupStep searches the DefinitionStore and marks hit/miss.
type DefinitionLookupStep struct{}

func (DefinitionLookupStep) Name() string { return "DefinitionLookupStep" }

func (DefinitionLookupStep) Run(ctx *Context) error {
	if err := ctx.Transition(DefinitionLookup); err != nil {
		return err
	}
	def, ok := ctx.Host.Definitions().Get(ctx.ServiceID)
	ctx.Hit = ok
	ctx.Definition = def
	if !ok && !ctx.Host.AllowAutowire() {
		return ioerr.NewServiceNotFound(ctx.ServiceID)
	}
	ctx.ApplyDefinitionArguments(def)
	return nil
}

// CircularDependencyStep verifies ServiceID is not already on the ancestor
// chain, and that the chain has not exceeded the configured depth bound
// (spec.md §8's boundary behavior treats an exceeded depth as a cycle even
// absent a literal repeat).
type CircularDependencyStep struct{}

func (CircularDependencyStep) Name() string { return "CircularDependencyStep" }

func (CircularDependencyStep) Run(ctx *Context) error {
	for _, a := range ctx.Ancestors {
		if a == ctx.ServiceID {
			chain := append(append([]string{}, ctx.Ancestors...), ctx.ServiceID)
			return ioerr.NewCircularDependency(chain)
		}
	}
	if max := ctx.Host.MaxDepth(); max > 0 && len(ctx.Ancestors) >= max {
		chain := append(append([]string{}, ctx.Ancestors...), ctx.ServiceID)
		return ioerr.NewCircularDependency(chain)
	}
	return nil
}

// AnalyzePrototypeStep resolves the class to construct and attaches its
// cached ServicePrototype.
type AnalyzePrototypeStep struct{}

func (AnalyzePrototypeStep) Name() string { return "AnalyzePrototypeStep" }

func (AnalyzePrototypeStep) Run(ctx *Context) error {
	if ctx.Definition == nil {
		// Autowire path: synthesize a definition describing the concrete
		// type named by the service ID itself. AutowireStep actually
		// assigns ctx.Definition; until then there is nothing to analyze.
		return nil
	}
	ctx.Prototype = ctx.Host.PrototypeOf(ctx.Definition)
	return nil
}

// AutowireStep runs on a definition-store miss with autowiring enabled: it
// treats the service ID itself as the concrete type to construct. Whether
// or not autowiring actually applies, this step always lands the context in
// the Evaluate state (spec.md §4.10's "DefinitionLookup -> Evaluate (on
// hit)" and "DefinitionLookup -> Autowire -> Evaluate (on miss)" paths).
type AutowireStep struct {
	// Resolve looks up (or synthesizes) the autowired concrete type for a
	// service ID with no definition. Supplied by the engine so this step
	// stays free of reflection/type-registry concerns.
	Resolve func(serviceID string) (*definition.Definition, error)
}

func (AutowireStep) Name() string { return "AutowireStep" }

func (s AutowireStep) Run(ctx *Context) error {
	if ctx.Hit {
		return ctx.Transition(Evaluate)
	}
	if err := ctx.Transition(Autowire); err != nil {
		return err
	}
	def, err := s.Resolve(ctx.ServiceID)
	if err != nil {
		return err
	}
	ctx.Definition = def
	ctx.Prototype = ctx.Host.PrototypeOf(def)
	ctx.ApplyDefinitionArguments(def)
	return ctx.Transition(Evaluate)
}

// ResolveInstanceStep delegates to the lifecycle strategy matching the
// definition's lifetime; on a cache miss it instantiates a fresh instance
// through the Instantiator and stores it back into the strategy.
type ResolveInstanceStep struct{}

func (ResolveInstanceStep) Name() string { return "ResolveInstanceStep" }

func (ResolveInstanceStep) Run(ctx *Context) error {
	lifetime := ctx.Definition.Lifetime
	if ctx.ForceTransient {
		lifetime = definition.Transient
	}
	strategy := ctx.Host.StrategyFor(lifetime)
	if strategy.Has(ctx.ServiceID) {
		ctx.Instance = strategy.Retrieve(ctx.ServiceID)
		return ctx.Transition(Success)
	}

	if err := ctx.Transition(Instantiate); err != nil {
		return err
	}
	instance, err := ctx.Host.Instantiator().Instantiate(ctx.Definition, ctx.Prototype, ctx.Overrides, ctx.Container())
	if err != nil {
		return err
	}
	ctx.Instance = instance
	return strategy.Store(ctx.ServiceID, instance)
}

// InjectDependenciesStep performs post-construction property and method
// injection.
type InjectDependenciesStep struct{}

func (InjectDependenciesStep) Name() string { return "InjectDependenciesStep" }

func (InjectDependenciesStep) Run(ctx *Context) error {
	if ctx.State == Success {
		// Instance came from a strategy cache; no injection needed.
		return nil
	}
	if err := ctx.Transition(Inject); err != nil {
		return err
	}
	if ctx.Definition.HasValue {
		// A pre-built Instance value is used exactly as registered.
		return ctx.Transition(Success)
	}
	if err := ctx.Host.Injector().InjectProperties(ctx.ServiceID, ctx.Instance, ctx.Prototype, ctx.Overrides, ctx.Container()); err != nil {
		return err
	}
	if err := ctx.Host.Injector().InjectMethods(ctx.ServiceID, ctx.Instance, ctx.Prototype, ctx.Overrides, ctx.Container()); err != nil {
		return err
	}
	return ctx.Transition(Success)
}

// CollectDiagnosticsStep assembles the Trace from the telemetry collector
// and writes it into the context; it never fails and never transitions
// state, since it runs after Success (or alongside a Failure unwind).
type CollectDiagnosticsStep struct{}

func (CollectDiagnosticsStep) Name() string { return "CollectDiagnosticsStep" }

func (CollectDiagnosticsStep) Run(ctx *Context) error {
	// Trace assembly itself is pulled by the caller from ctx.Collector; this
	// step exists as an explicit pipeline stage so its StepStarted/Succeeded
	// events are part of the trace length invariant (spec.md §8).
	return nil
}
