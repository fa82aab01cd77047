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

// Package engine dispatches resolutions through the lifecycle strategies
// and the resolution pipeline (spec.md §4.11). It is the one component that
// sees every other internal package at once: DefinitionStore, PrototypeCache
// and Analyzer, ScopeRegistry, the lifecycle Strategies, and the resolve
// and pipeline packages.
package engine

import (
	"log/slog"
	"reflect"
	"sync"

	"github.com/deep-rent/ioc/clock"
	"github.com/deep-rent/ioc/internal/definition"
	"github.com/deep-rent/ioc/internal/lifecycle"
	"github.com/deep-rent/ioc/internal/pipeline"
	"github.com/deep-rent/ioc/internal/prototype"
	"github.com/deep-rent/ioc/internal/resolve"
	"github.com/deep-rent/ioc/internal/scope"
	"github.com/deep-rent/ioc/internal/telemetry"
	"github.com/deep-rent/ioc/ioerr"
	"github.com/deep-rent/ioc/log"
)

// Config tunes an Engine's resolution policy.
type Config struct {
	// AllowAutowire enables constructing a concrete type that has no
	// explicit Definition, using the service ID's registered reflect.Type.
	AllowAutowire bool
	// MaxDepth bounds the ancestor chain length before a resolution is
	// treated as a cycle even absent a literal repeat (spec.md §8).
	MaxDepth int
	// Clock drives every telemetry timestamp. Defaults to clock.SystemClock.
	Clock clock.Clock
	// Logger receives one structured warning per failed top-level
	// resolution, carrying the trace length and the service ID. Defaults to
	// log.New() (text, level info, stdout); pass log.Silent() to disable.
	Logger *slog.Logger
}

// Engine is the container kernel's dispatcher.
type Engine struct {
	mu sync.RWMutex

	store    *definition.Store
	cache    *prototype.Cache
	analyzer *prototype.Analyzer
	scopes   *scope.Registry

	dep          *resolve.Dependency
	instantiator *resolve.Instantiator
	injector     *resolve.Injector

	singleton lifecycle.Strategy
	scoped    lifecycle.Strategy
	transient lifecycle.Strategy

	cfg Config
	log *slog.Logger
}

// New builds an Engine over a fresh DefinitionStore, PrototypeCache and
// ScopeRegistry.
func New(cfg Config) *Engine {
	if cfg.Clock == nil {
		cfg.Clock = clock.SystemClock()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New()
	}
	scopes := scope.NewRegistry()
	dep := resolve.NewDependency()
	return &Engine{
		store:        definition.New(),
		cache:        prototype.NewCache(),
		analyzer:     prototype.NewAnalyzer(),
		scopes:       scopes,
		dep:          dep,
		instantiator: resolve.NewInstantiator(dep),
		injector:     resolve.NewInjector(dep),
		singleton:    lifecycle.NewSingleton(scopes),
		scoped:       lifecycle.NewScoped(scopes),
		transient:    lifecycle.NewTransient(),
		cfg:          cfg,
		log:          cfg.Logger,
	}
}

// Definitions returns the backing DefinitionStore.
func (e *Engine) Definitions() *definition.Store { return e.store }

// Scopes returns the backing ScopeRegistry.
func (e *Engine) Scopes() *scope.Registry { return e.scopes }

// RegisterType remembers t under its default abstract ID for later
// autowire-by-name lookups. Safe to call repeatedly; the first
// registration for a given ID wins.
func (e *Engine) RegisterType(t reflect.Type) {
	if t == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.store.RegisterType(t)
}

// PrototypeOf returns def's cached ServicePrototype, analyzing it on first
// use (spec.md §4.2-4.3).
func (e *Engine) PrototypeOf(def *definition.Definition) *prototype.ServicePrototype {
	return e.cache.GetOrCreate(def.Concrete, func() *prototype.ServicePrototype {
		var methods []prototype.MethodSpec
		for _, m := range def.Methods {
			methods = append(methods, prototype.MethodSpec{Name: m.Name, Params: m.Params})
		}
		return e.analyzer.Analyze(def.Concrete, def.Params, methods)
	})
}

// StrategyFor returns the lifecycle Strategy matching lifetime.
func (e *Engine) StrategyFor(lifetime definition.Lifetime) lifecycle.Strategy {
	switch lifetime {
	case definition.Singleton:
		return e.singleton
	case definition.Scoped:
		return e.scoped
	default:
		return e.transient
	}
}

func (e *Engine) Dependency() *resolve.Dependency     { return e.dep }
func (e *Engine) Instantiator() *resolve.Instantiator { return e.instantiator }
func (e *Engine) Injector() *resolve.Injector         { return e.injector }
func (e *Engine) AllowAutowire() bool                 { return e.cfg.AllowAutowire }
func (e *Engine) MaxDepth() int                       { return e.cfg.MaxDepth }

// Has reports whether abstract has an explicit Definition (autowire
// candidates do not count, matching the public Container.Has contract).
func (e *Engine) Has(abstract string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.store.Has(abstract)
}

// autowire synthesizes a transient Definition for a service ID that has no
// explicit binding, from a previously registered reflect.Type.
func (e *Engine) autowire(serviceID string) (*definition.Definition, error) {
	t, ok := e.store.TypeOf(serviceID)
	if !ok {
		return nil, ioerr.NewServiceNotFound(serviceID)
	}
	return &definition.Definition{
		Abstract: serviceID,
		Concrete: t,
		Lifetime: definition.Transient,
	}, nil
}

// ResolveChain runs the canonical pipeline for serviceID, with ancestors
// extended by the caller already (nested resolutions call this through
// pipeline.Host.ResolveChain; Resolve itself calls it with an empty chain).
func (e *Engine) ResolveChain(serviceID string, ancestors []string, overrides map[string]resolve.Override) (any, error) {
	p, err := pipeline.Canonical(pipeline.AutowireStep{Resolve: e.autowire})
	if err != nil {
		return nil, err
	}
	collector := telemetry.NewCollector(e.cfg.Clock)
	ctx := pipeline.NewContext(e, serviceID, ancestors, overrides, collector)
	instance, err := p.Run(ctx)
	if err != nil && len(ancestors) == 0 {
		e.log.Warn("resolution failed", "service", serviceID, "steps", collector.Len(), "error", err)
	}
	return instance, err
}

// Resolve runs a top-level resolution for serviceID (the Engine's entry
// point for ioc.Container.Get and FindByTag, spec.md §4.11).
func (e *Engine) Resolve(serviceID string) (any, error) {
	return e.ResolveChain(serviceID, nil, nil)
}

// Make is like Resolve but with per-call parameter overrides (spec.md §6's
// make(abstract, overrides?)). Per the seed "override" scenario, an
// override is never cached by a strategy beyond this one call: Make always
// forces an ephemeral transient definition so the override cannot leak
// into a singleton or scope frame.
func (e *Engine) Make(serviceID string, overrides map[string]resolve.Override) (any, error) {
	p, err := pipeline.Canonical(pipeline.AutowireStep{Resolve: e.autowire})
	if err != nil {
		return nil, err
	}
	collector := telemetry.NewCollector(e.cfg.Clock)
	ctx := pipeline.NewContext(e, serviceID, nil, overrides, collector)
	ctx.ForceTransient = true
	instance, err := p.Run(ctx)
	if err != nil {
		e.log.Warn("make failed", "service", serviceID, "steps", collector.Len(), "error", err)
	}
	return instance, err
}

// BeginScope pushes a new scope frame.
func (e *Engine) BeginScope() { e.scopes.BeginScope() }

// EndScope pops and discards the current scope frame.
func (e *Engine) EndScope() error { return e.scopes.EndScope() }

// Terminate clears all singleton instances and scope frames.
func (e *Engine) Terminate() { e.scopes.Terminate() }
