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
	"reflect"

	"github.com/deep-rent/ioc/internal/definition"
	"github.com/deep-rent/ioc/internal/lifecycle"
	"github.com/deep-rent/ioc/internal/prototype"
	"github.com/deep-rent/ioc/internal/resolve"
	"github.com/deep-rent/ioc/internal/telemetry"
	"github.com/deep-rent/ioc/internal/typeid"
	"github.com/deep-rent/ioc/ioerr"
)

// Host is the narrow view of the engine a pipeline run needs: store/cache
// access, strategy selection, and the ability to resolve a nested abstract
// under an extended ancestor chain (so the cycle guard and telemetry see
// the full chain, per spec.md §4.6).
type Host interface {
	Definitions() *definition.Store
	PrototypeOf(def *definition.Definition) *prototype.ServicePrototype
	StrategyFor(lifetime definition.Lifetime) lifecycle.Strategy
	Dependency() *resolve.Dependency
	Instantiator() *resolve.Instantiator
	Injector() *resolve.Injector
	AllowAutowire() bool
	MaxDepth() int
	Has(abstract string) bool
	ResolveChain(serviceID string, ancestors []string, overrides map[string]resolve.Override) (any, error)
	RegisterType(t reflect.Type)
}

// Context carries one resolution's mutable state through the pipeline
// (spec.md's ResolutionContext). Each step reads and mutates it in place.
type Context struct {
	ServiceID string
	Overrides map[string]resolve.Override
	Ancestors []string

	Definition *definition.Definition
	Prototype  *prototype.ServicePrototype
	Instance   any
	Hit        bool
	// ForceTransient makes ResolveInstanceStep bypass whatever strategy the
	// definition's own Lifetime would select, so a per-call override (Make)
	// is never cached by a singleton or scope frame (spec.md §8's "override
	// is not cached" seed scenario).
	ForceTransient bool

	State      State
	Collector  *telemetry.Collector
	Host       Host
	controller *Controller

	// view adapts this Context into a resolve.Container for the
	// Dependency/Instantiator/Injector calls this resolution makes.
	view resolve.Container
}

// NewContext builds a root (or nested) Context for resolving serviceID.
func NewContext(host Host, serviceID string, ancestors []string, overrides map[string]resolve.Override, collector *telemetry.Collector) *Context {
	if overrides == nil {
		overrides = map[string]resolve.Override{}
	}
	ctx := &Context{
		ServiceID:  serviceID,
		Overrides:  overrides,
		Ancestors:  ancestors,
		State:      Start,
		Collector:  collector,
		Host:       host,
		controller: NewController(),
	}
	ctx.view = &chainView{host: host, ancestors: append(append([]string{}, ancestors...), serviceID)}
	return ctx
}

// Container returns the resolve.Container view nested resolutions from
// this Context's step should use, so they extend this Context's own
// ancestor chain.
func (c *Context) Container() resolve.Container { return c.view }

// ApplyDefinitionArguments merges def's registration-time Arguments into
// this Context's Overrides, without replacing an override already present
// under the same name — a per-call Make override always outranks a
// binding-time default argument.
func (c *Context) ApplyDefinitionArguments(def *definition.Definition) {
	if def == nil || len(def.Arguments) == 0 {
		return
	}
	for name, value := range def.Arguments {
		if _, ok := c.Overrides[name]; ok {
			continue
		}
		c.Overrides[name] = resolve.NewLiteral(value)
	}
}

// Transition moves the context to `to`, failing with
// ioerr.PipelineStateViolation if the move is not allowed by the
// controller's table, or if it is the hit-gated Evaluate->Success move
// without a recorded hit.
func (c *Context) Transition(to State) error {
	if to == Success && c.State == Evaluate && !c.Hit {
		return ioerr.NewPipelineStateViolation(c.ServiceID, string(c.State), string(to))
	}
	if !c.controller.Allow(c.State, to) {
		return ioerr.NewPipelineStateViolation(c.ServiceID, string(c.State), string(to))
	}
	c.State = to
	return nil
}

// chainView adapts a Host plus an extended ancestor chain into a
// resolve.Container, so recursive parameter/property resolution
// re-enters the pipeline with full cycle-guard visibility.
type chainView struct {
	host      Host
	ancestors []string
}

func (v *chainView) Has(abstract string) bool {
	return v.host.Has(abstract)
}

func (v *chainView) Resolve(abstract string) (any, error) {
	return v.host.ResolveChain(abstract, v.ancestors, nil)
}

func (v *chainView) ResolveType(t reflect.Type) (any, error) {
	v.host.RegisterType(t)
	return v.host.ResolveChain(typeid.Of(t), v.ancestors, nil)
}
