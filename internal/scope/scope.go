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

// Package scope implements the container's scope stack: a LIFO sequence of
// scope frames layered over a flat singleton map, matching spec.md §4.4. It
// holds no resolution policy of its own; Lifecycle strategies (see
// internal/lifecycle) are the only callers that assign meaning to the
// frames it stores.
package scope

import (
	"sync"

	"github.com/deep-rent/ioc/ioerr"
)

// frame is one scope's instance cache, keyed by abstract service ID.
type frame map[string]any

// Registry holds the singleton map and the LIFO stack of scope frames
// (spec.md §4.4). It is safe for concurrent use: many readers may look up
// instances while at most one writer mutates the stack or the singleton map
// at a time, matching the read-optimized lock guidance of spec.md §5.
type Registry struct {
	mu         sync.RWMutex
	singletons frame
	stack      []frame
}

// NewRegistry returns an empty Registry with no active scope.
func NewRegistry() *Registry {
	return &Registry{singletons: make(frame)}
}

// BeginScope pushes a new, empty scope frame.
func (r *Registry) BeginScope() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stack = append(r.stack, make(frame))
}

// EndScope pops and discards the current top scope frame. It fails with
// ioerr.ErrScopeNotActive if no scope is active.
func (r *Registry) EndScope() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.stack) == 0 {
		return ioerr.ErrScopeNotActive
	}
	r.stack = r.stack[:len(r.stack)-1]
	return nil
}

// Depth reports how many scope frames are currently active.
func (r *Registry) Depth() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.stack)
}

// SetSingleton stores instance under abstract in the singleton map,
// independent of any active scope.
func (r *Registry) SetSingleton(abstract string, instance any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.singletons[abstract] = instance
}

// HasSingleton reports whether abstract has a cached singleton instance.
func (r *Registry) HasSingleton(abstract string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.singletons[abstract]
	return ok
}

// GetSingleton returns the cached singleton instance for abstract, if any.
func (r *Registry) GetSingleton(abstract string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.singletons[abstract]
	return v, ok
}

// SetScoped stores instance under abstract in the current top scope frame.
// It fails with ioerr.ErrScopeNotActive if no scope is active.
func (r *Registry) SetScoped(abstract string, instance any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.stack) == 0 {
		return ioerr.ErrScopeNotActive
	}
	r.stack[len(r.stack)-1][abstract] = instance
	return nil
}

// HasScoped reports whether abstract has a cached instance in the current
// top scope frame. It returns false (not an error) when no scope is active.
func (r *Registry) HasScoped(abstract string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.stack) == 0 {
		return false
	}
	_, ok := r.stack[len(r.stack)-1][abstract]
	return ok
}

// GetScoped returns the cached instance for abstract from the current top
// scope frame, if any.
func (r *Registry) GetScoped(abstract string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.stack) == 0 {
		return nil, false
	}
	v, ok := r.stack[len(r.stack)-1][abstract]
	return v, ok
}

// Has searches the top scope frame, then the singleton map, matching
// spec.md §4.4's "set/get/has search top frame -> singletons" rule.
func (r *Registry) Has(abstract string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.stack) > 0 {
		if _, ok := r.stack[len(r.stack)-1][abstract]; ok {
			return true
		}
	}
	_, ok := r.singletons[abstract]
	return ok
}

// Get searches the top scope frame, then the singleton map.
func (r *Registry) Get(abstract string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.stack) > 0 {
		if v, ok := r.stack[len(r.stack)-1][abstract]; ok {
			return v, true
		}
	}
	v, ok := r.singletons[abstract]
	return v, ok
}

// Terminate clears both the singleton map and the scope stack, returning
// the Registry to its zero state.
func (r *Registry) Terminate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.singletons = make(frame)
	r.stack = nil
}
