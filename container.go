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

// Package ioc implements a reflection-driven dependency injection container
// kernel: bind an abstract service ID to a concrete Go type, describe its
// constructor and its injectable members, and let the container build and
// wire the dependency graph on demand.
//
// Unlike a generic, slot-based container (where every dependency is wired
// by hand through Go's type system at compile time), this kernel resolves
// by string abstract ID at run time — closer to the class-name-keyed
// containers found in dynamically typed frameworks, adapted to Go through
// struct reflection and tags.
//
// # Usage
//
// Bind a concrete type to an abstract ID, then resolve it:
//
//	type Logger struct{}
//
//	type Service struct {
//	  Logger *Logger `ioc:"inject,abstract:Logger"`
//	}
//
//	c := ioc.New(ioc.Config{AllowAutowire: true})
//	c.Bind("Logger").To(reflect.TypeOf(&Logger{})).Singleton()
//	c.Bind("Service").To(reflect.TypeOf(&Service{})).Transient()
//
//	svc, err := ioc.Get[*Service](c, "Service")
//
// Since the Logger member is marked for injection under the explicit
// abstract "Logger", the container resolves that singleton binding the
// first time a Service is built, and reuses the same *Logger for every
// Service thereafter.
package ioc

import (
	"fmt"
	"log/slog"
	"reflect"

	"github.com/deep-rent/ioc/clock"
	"github.com/deep-rent/ioc/config"
	"github.com/deep-rent/ioc/internal/definition"
	"github.com/deep-rent/ioc/internal/engine"
	"github.com/deep-rent/ioc/internal/resolve"
	"github.com/deep-rent/ioc/internal/typeid"
)

// Config tunes a Container's resolution policy.
type Config struct {
	// AllowAutowire lets Get/Make construct a concrete type with no explicit
	// Bind call, provided that type was previously named in a Bind().To, an
	// Instance, a BindType[T] call, or as the declared type of a parameter or
	// property the container has resolved by type (so the container has a
	// reflect.Type on file for the requested abstract ID).
	AllowAutowire bool
	// MaxDepth bounds how deep a resolution's ancestor chain may grow before
	// it is treated as a cycle even absent a literal repeat. Zero disables
	// the bound.
	MaxDepth int
	// Clock drives every telemetry timestamp recorded during a resolution.
	// Defaults to clock.SystemClock.
	Clock clock.Clock
	// Logger receives one structured warning per failed top-level
	// resolution: a Get or Make, or one of Call's by-type parameter lookups
	// (logged even when Call then falls back to nil for that parameter).
	// Defaults to log.New() (text, level info, stdout); pass log.Silent()
	// to disable.
	Logger *slog.Logger
}

// Container is the dependency injection kernel's public handle: a registry
// of bindings plus the engine that resolves them.
type Container struct {
	eng *engine.Engine
}

// New creates an empty Container configured by cfg.
func New(cfg Config) *Container {
	return &Container{eng: engine.New(engine.Config{
		AllowAutowire: cfg.AllowAutowire,
		MaxDepth:      cfg.MaxDepth,
		Clock:         cfg.Clock,
		Logger:        cfg.Logger,
	})}
}

// Bind starts (or replaces) the binding for abstract, returning a
// BindingBuilder to describe its concrete type, constructor, lifetime, tags
// and registration-time arguments. The binding is live in the container as
// soon as Bind returns — every builder call mutates the same stored
// definition in place, so no terminal "commit" call is required.
func (c *Container) Bind(abstract string) *BindingBuilder {
	def := &definition.Definition{Abstract: abstract, Lifetime: definition.Transient}
	c.eng.Definitions().Add(def)
	return &BindingBuilder{c: c, def: def}
}

// Instance registers value as the pre-built singleton for abstract. No
// construction, property injection, or method injection ever runs for it;
// resolution short-circuits straight to the stored value.
func (c *Container) Instance(abstract string, value any) {
	var concrete reflect.Type
	if value != nil {
		concrete = reflect.TypeOf(value)
		c.eng.RegisterType(concrete)
	}
	c.eng.Definitions().Add(&definition.Definition{
		Abstract: abstract,
		Concrete: concrete,
		Value:    value,
		HasValue: true,
		Lifetime: definition.Singleton,
	})
}

// Alias makes `from` resolve to whatever `to` currently resolves to.
func (c *Container) Alias(from, to string) {
	c.eng.Definitions().Alias(from, to)
}

// LoadDefinitions bulk-registers bindings from the YAML or JSON manifest at
// path, as a declarative alternative to a sequence of Bind calls. Every
// entry's Type must already be registered under that ID — by an earlier
// Bind, Instance, or BindType[T] call — since a manifest can describe a
// binding's lifetime, tags and arguments but cannot conjure a reflect.Type
// for a type the program never mentioned in code.
func (c *Container) LoadDefinitions(path string) error {
	return config.LoadDefinitions(path, c.eng.Definitions())
}

// Has reports whether abstract (after alias resolution) has an explicit
// binding. Autowire candidates that have never been bound do not count.
func (c *Container) Has(abstract string) bool {
	return c.eng.Has(abstract)
}

// Get resolves abstract, honoring its binding's lifetime: a singleton or
// scoped instance already built is reused rather than constructed again.
func (c *Container) Get(abstract string) (any, error) {
	return c.eng.Resolve(abstract)
}

// Make resolves abstract exactly once with the given per-call parameter
// overrides, bypassing its binding's normal lifetime entirely: the result is
// never stored into a singleton or scope frame, so the override can never
// leak into a later, unrelated Get call for the same abstract.
func (c *Container) Make(abstract string, overrides map[string]resolve.Override) (any, error) {
	return c.eng.Make(abstract, overrides)
}

// Call invokes target, a plain Go function, resolving each of its
// parameters the same way a constructor's parameters are resolved: first by
// a matching override (keyed by positional index, "0", "1", ...), then by
// its declared type, then left as the zero value if the parameter is
// nillable. It returns the function's non-error result, if any, and its
// error result, if any.
func (c *Container) Call(target any, overrides map[string]resolve.Override) (any, error) {
	return call(c.eng, target, overrides)
}

// FindByTag resolves every abstract registered under tag, in the order they
// were first tagged, stopping at the first resolution error.
func (c *Container) FindByTag(tag string) ([]any, error) {
	abstracts := c.eng.Definitions().FindByTag(tag)
	out := make([]any, 0, len(abstracts))
	for _, a := range abstracts {
		v, err := c.eng.Resolve(a)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// BeginScope pushes a new scope frame; scoped bindings resolved after this
// call (and before the matching EndScope) share one instance.
func (c *Container) BeginScope() { c.eng.BeginScope() }

// EndScope pops and discards the current scope frame's instances.
func (c *Container) EndScope() error { return c.eng.EndScope() }

// Terminate clears every singleton instance and every scope frame, leaving
// bindings themselves intact.
func (c *Container) Terminate() { c.eng.Terminate() }

// InjectionReport describes the injectable members InspectInjection found on
// an already-constructed object, and whether each has already been
// populated.
type InjectionReport struct {
	Class      string
	Properties []PropertyReport
	Methods    []string
}

// PropertyReport describes one injectable property found by InspectInjection.
type PropertyReport struct {
	Name        string
	Required    bool
	Initialized bool
}

// InspectInjection analyzes object's type the same way a binding's
// ServicePrototype would be built, without requiring a registered Definition
// for it, and reports which members are injectable and whether they already
// carry a non-zero value. This is a read-only diagnostic; it never mutates
// object.
func (c *Container) InspectInjection(object any) (*InjectionReport, error) {
	if object == nil {
		return nil, fmt.Errorf("ioc: cannot inspect injection on a nil object")
	}
	t := reflect.TypeOf(object)
	proto := c.eng.PrototypeOf(&definition.Definition{Abstract: typeid.Of(t), Concrete: t})

	rv := reflect.ValueOf(object)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}

	report := &InjectionReport{Class: typeid.Of(t)}
	for _, p := range proto.InjectedProperties {
		initialized := false
		if rv.Kind() == reflect.Struct {
			initialized = isNonZero(rv.FieldByIndex(p.Index))
		}
		report.Properties = append(report.Properties, PropertyReport{
			Name:        p.Name,
			Required:    p.IsRequired,
			Initialized: initialized,
		})
	}
	for _, m := range proto.InjectedMethods {
		report.Methods = append(report.Methods, m.Name)
	}
	return report, nil
}

func isNonZero(field reflect.Value) bool {
	switch field.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
		return !field.IsNil()
	default:
		return field.IsValid() && !field.IsZero()
	}
}
