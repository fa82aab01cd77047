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

// Package lifecycle implements the three retention strategies a resolved
// instance may follow (spec.md §4.5), each backed by the shared scope
// registry. The Engine selects a Strategy by a Definition's Lifetime and
// never inspects the scope registry directly.
package lifecycle

import "github.com/deep-rent/ioc/internal/scope"

// Strategy governs how a resolved instance is cached and retrieved.
type Strategy interface {
	Store(abstract string, instance any) error
	Has(abstract string) bool
	Retrieve(abstract string) any
	// Clear releases whatever this strategy retains for abstract's scope,
	// e.g. ending the current scope frame.
	Clear() error
}

// Singleton caches one instance per container for the entire container
// lifetime. Clear is a no-op: singletons persist until Terminate.
type Singleton struct {
	registry *scope.Registry
}

// NewSingleton returns a Strategy backed by registry's singleton map.
func NewSingleton(registry *scope.Registry) *Singleton {
	return &Singleton{registry: registry}
}

func (s *Singleton) Store(abstract string, instance any) error {
	s.registry.SetSingleton(abstract, instance)
	return nil
}

func (s *Singleton) Has(abstract string) bool { return s.registry.HasSingleton(abstract) }

func (s *Singleton) Retrieve(abstract string) any {
	v, _ := s.registry.GetSingleton(abstract)
	return v
}

func (s *Singleton) Clear() error { return nil }

// Scoped caches one instance per active scope frame, per spec.md §4.5.
type Scoped struct {
	registry *scope.Registry
}

// NewScoped returns a Strategy backed by registry's current scope frame.
func NewScoped(registry *scope.Registry) *Scoped {
	return &Scoped{registry: registry}
}

func (s *Scoped) Store(abstract string, instance any) error {
	return s.registry.SetScoped(abstract, instance)
}

func (s *Scoped) Has(abstract string) bool { return s.registry.HasScoped(abstract) }

func (s *Scoped) Retrieve(abstract string) any {
	v, _ := s.registry.GetScoped(abstract)
	return v
}

// Clear ends the current scope frame.
func (s *Scoped) Clear() error { return s.registry.EndScope() }

// Transient never retains an instance: every operation is a no-op, and Has
// always reports false so the Engine always constructs a fresh instance.
type Transient struct{}

// NewTransient returns a Strategy that retains nothing.
func NewTransient() Transient { return Transient{} }

func (Transient) Store(string, any) error { return nil }
func (Transient) Has(string) bool         { return false }
func (Transient) Retrieve(string) any     { return nil }
func (Transient) Clear() error            { return nil }
