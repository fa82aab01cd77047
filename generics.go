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

import (
	"fmt"
	"reflect"

	"github.com/deep-rent/ioc/internal/typeid"
)

// TypeOf derives the abstract ID a value of type T resolves under when
// bound or referenced by its Go type rather than by an explicit name — the
// same derivation resolve.AbstractOf applies internally to a constructor
// parameter or injectable property's declared type.
func TypeOf[T any]() string {
	return typeid.Of(reflect.TypeOf((*T)(nil)).Elem())
}

// BindType is Container.Bind keyed by T's own type ID instead of an
// explicit string, and pre-populates To(reflect.TypeOf-of-T) in one step.
func BindType[T any](c *Container) *BindingBuilder {
	var zero T
	t := reflect.TypeOf(&zero).Elem()
	return c.Bind(TypeOf[T]()).To(t)
}

// Get resolves abstract and type-asserts the result to T, failing loudly
// (rather than silently returning a zero value) if a binding resolved to an
// incompatible type — that always indicates a programming error in how the
// binding was declared, not a normal resolution failure.
func Get[T any](c *Container, abstract string) (T, error) {
	var zero T
	v, err := c.Get(abstract)
	if err != nil {
		return zero, err
	}
	return assertType[T](abstract, v)
}

// MustGet is Get, panicking on error. Intended for wiring performed during
// application startup, where a resolution failure is not recoverable.
func MustGet[T any](c *Container, abstract string) T {
	v, err := Get[T](c, abstract)
	if err != nil {
		panic(err)
	}
	return v
}

func assertType[T any](abstract string, v any) (T, error) {
	var zero T
	if v == nil {
		return zero, nil
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("ioc: %q resolved to %T, not %T", abstract, v, zero)
	}
	return t, nil
}
