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
	"reflect"

	"github.com/deep-rent/ioc/internal/definition"
)

// BindingBuilder fluently describes one abstract service ID's binding.
// Every method mutates the Definition already stored in the Container and
// returns the same builder, so calls chain freely in any order.
type BindingBuilder struct {
	c   *Container
	def *definition.Definition
}

// To sets the concrete type this binding constructs, and registers it under
// its default abstract ID so an unbound reference to the same type (an
// autowired parameter, property, or Get[T] call) can still recover it.
func (b *BindingBuilder) To(concrete reflect.Type) *BindingBuilder {
	b.def.Concrete = concrete
	b.c.eng.RegisterType(concrete)
	return b
}

// Construct describes the binding's constructor: params is a struct type
// with one field per constructor argument (the Go rendition of a
// named-parameter constructor, since a func value cannot recover its own
// parameter names via reflection), and fn builds the concrete instance from
// a populated value of that type. Omit Construct entirely for a binding with
// no constructor dependencies; its concrete type is then allocated
// zero-valued and left for property injection alone.
func (b *BindingBuilder) Construct(params reflect.Type, fn definition.Construct) *BindingBuilder {
	b.def.Params = params
	b.def.Construct = fn
	return b
}

// Method registers name as a post-construction injection target, with
// params describing its arguments the same way Construct does for the
// constructor.
func (b *BindingBuilder) Method(name string, params reflect.Type) *BindingBuilder {
	b.def.Methods = append(b.def.Methods, definition.Method{Name: name, Params: params})
	return b
}

// Tag associates this binding's abstract ID with one or more tags, so it is
// included in a later Container.FindByTag call.
func (b *BindingBuilder) Tag(names ...string) *BindingBuilder {
	b.def.Tags = append(b.def.Tags, names...)
	b.c.eng.Definitions().AddTags(b.def.Abstract, names)
	return b
}

// WithArgument fixes a named constructor parameter to value at registration
// time. A per-call Make override for the same name still takes precedence.
func (b *BindingBuilder) WithArgument(name string, value any) *BindingBuilder {
	if b.def.Arguments == nil {
		b.def.Arguments = make(map[string]any)
	}
	b.def.Arguments[name] = value
	return b
}

// WithArguments is WithArgument for a whole batch of named parameters.
func (b *BindingBuilder) WithArguments(args map[string]any) *BindingBuilder {
	for name, value := range args {
		b.WithArgument(name, value)
	}
	return b
}

// Singleton makes this binding construct one instance for the container's
// entire lifetime, shared by every resolution.
func (b *BindingBuilder) Singleton() *BindingBuilder {
	b.def.Lifetime = definition.Singleton
	return b
}

// Scoped makes this binding construct one instance per active scope frame.
func (b *BindingBuilder) Scoped() *BindingBuilder {
	b.def.Lifetime = definition.Scoped
	return b
}

// Transient makes this binding construct a fresh instance on every
// resolution. This is the default for a binding created by Bind.
func (b *BindingBuilder) Transient() *BindingBuilder {
	b.def.Lifetime = definition.Transient
	return b
}

// Lazy sets the Lazy flag on the binding's definition. The flag is not
// consulted during resolution: the binding is resolved eagerly, and whether
// a member receives a deferred thunk depends only on that member's own
// `ioc:"inject,lazy"` tag.
func (b *BindingBuilder) Lazy() *BindingBuilder {
	b.def.Lazy = true
	return b
}
