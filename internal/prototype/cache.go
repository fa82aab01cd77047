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

package prototype

import (
	"reflect"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache memoizes ServicePrototypes by class identity (spec.md §4.3). Reads
// of a committed prototype take only the shared read lock; concurrent callers racing to
// build the *same* class's prototype are coalesced onto a single builder
// call via a singleflight.Group, so the result the first caller commits is
// the one every subsequent caller observes, per spec.md §5's single-flight
// requirement.
type Cache struct {
	mu    sync.RWMutex
	byKey map[reflect.Type]*ServicePrototype
	group singleflight.Group
}

// NewCache returns an empty Cache.
func NewCache() *Cache {
	return &Cache{byKey: make(map[reflect.Type]*ServicePrototype)}
}

// GetOrCreate returns the cached ServicePrototype for class, building it
// with factory on a cache miss. Concurrent misses for the same class share
// one factory invocation.
func (c *Cache) GetOrCreate(class reflect.Type, factory func() *ServicePrototype) *ServicePrototype {
	c.mu.RLock()
	if p, ok := c.byKey[class]; ok {
		c.mu.RUnlock()
		return p
	}
	c.mu.RUnlock()

	v, _, _ := c.group.Do(class.String(), func() (any, error) {
		// Re-check under the group: another goroutine may have committed
		// the prototype between our RUnlock above and reaching here.
		c.mu.RLock()
		if p, ok := c.byKey[class]; ok {
			c.mu.RUnlock()
			return p, nil
		}
		c.mu.RUnlock()

		p := factory()

		c.mu.Lock()
		if existing, ok := c.byKey[class]; ok {
			p = existing
		} else {
			c.byKey[class] = p
		}
		c.mu.Unlock()

		return p, nil
	})
	return v.(*ServicePrototype)
}

// Get returns the cached prototype for class without building it.
func (c *Cache) Get(class reflect.Type) (*ServicePrototype, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.byKey[class]
	return p, ok
}
