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

package ioc

import "sync"

// Thunk returns a func() (T, error) that resolves abstract from c on its
// first call and memoizes the outcome thereafter. It is the hand-wired
// counterpart to an `ioc:"inject,lazy"` struct field, for a Construct
// callback that wants to defer a dependency's construction itself rather
// than let the container's reflection-driven lazy injection do it — Go has
// no generic Lazy[T] the container can build reflectively, since
// instantiating a generic type needs a compile-time type argument, so the
// field (or, here, the local variable) a deferred dependency lands in is
// always a plain thunk function.
func Thunk[T any](c *Container, abstract string) func() (T, error) {
	var once sync.Once
	var val T
	var err error
	return func() (T, error) {
		once.Do(func() {
			val, err = Get[T](c, abstract)
		})
		return val, err
	}
}
