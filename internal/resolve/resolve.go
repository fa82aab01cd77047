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

// Package resolve turns a ServicePrototype's declared parameters and
// properties into real argument values and field assignments, then drives
// construction, matching spec.md §4.6-4.8. It depends only on a narrow
// Container view (Has/Resolve) so it has no import cycle with the engine
// that implements that view.
package resolve

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/deep-rent/ioc/internal/definition"
	"github.com/deep-rent/ioc/internal/pointer"
	"github.com/deep-rent/ioc/internal/prototype"
	"github.com/deep-rent/ioc/internal/typeid"
	"github.com/deep-rent/ioc/ioerr"
)

// Container is the minimal surface a nested resolution needs: look up
// whether an abstract is resolvable, and resolve it. The engine implements
// this; a child ResolutionContext is expected to be threaded through by the
// caller so the cycle guard and telemetry observe the full chain (spec.md
// §4.6).
type Container interface {
	Has(abstract string) bool
	Resolve(abstract string) (any, error)
	// ResolveType resolves t by its default abstract ID, additionally
	// registering t with the container's type registry so a subsequent
	// autowire-by-name lookup for that ID can still recover the
	// reflect.Type (Go cannot turn an arbitrary string back into a type).
	ResolveType(t reflect.Type) (any, error)
}

// AbstractOf derives the abstract ID a Go type resolves under when no
// explicit override or tag names one: its fully qualified type name. This
// is the Go rendition of spec.md §4.2's "type resolvable and present in
// container" parameter policy, since Go types (unlike class names in a
// dynamically typed host) are not themselves string keys.
func AbstractOf(t reflect.Type) string { return typeid.Of(t) }

// Dependency resolves ordered constructor/method arguments from a
// ParameterPrototype list and a map of per-call overrides (spec.md §4.6).
type Dependency struct{}

// NewDependency returns a ready-to-use Dependency resolver.
func NewDependency() *Dependency { return &Dependency{} }

// Resolve produces one value per parameter in params, in order. serviceID
// is the abstract under resolution and method names the constructor/method
// owning params, both used for error messages.
func (d *Dependency) Resolve(
	serviceID, method string,
	params []prototype.ParameterPrototype,
	overrides map[string]Override,
	c Container,
) ([]any, error) {
	args := make([]any, 0, len(params))
	for i, p := range params {
		if p.IsVariadic {
			items, err := d.collectVariadic(i, overrides, c)
			if err != nil {
				return nil, ioerr.NewUnresolvableParameter(serviceID, p.Name, method, err.Error())
			}
			args = append(args, items)
			continue
		}

		if ov, ok := overrides[p.Name]; ok {
			v, err := d.materialize(ov, c)
			if err != nil {
				return nil, ioerr.NewUnresolvableParameter(serviceID, p.Name, method, err.Error())
			}
			args = append(args, v)
			continue
		}

		if p.Type != nil {
			v, err := c.ResolveType(p.Type)
			switch {
			case err == nil:
				args = append(args, v)
				continue
			case !ioerr.IsNotFound(err):
				// A real failure (cycle, not-instantiable, ...), not just
				// "no binding" — propagate rather than silently falling
				// through to a default.
				return nil, err
			}
		}

		if p.HasDefault {
			args = append(args, p.Default)
			continue
		}
		if p.AllowsNull {
			args = append(args, nil)
			continue
		}
		return nil, ioerr.NewUnresolvableParameter(serviceID, p.Name, method,
			"no override, container binding, default, or nullable fallback available")
	}
	return args, nil
}

func (d *Dependency) collectVariadic(from int, overrides map[string]Override, c Container) ([]any, error) {
	var items []any
	for j := from; ; j++ {
		ov, ok := overrides[strconv.Itoa(j)]
		if !ok {
			break
		}
		v, err := d.materialize(ov, c)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, nil
}

func (d *Dependency) materialize(ov Override, c Container) (any, error) {
	switch ov.Kind {
	case Literal:
		return ov.Value, nil
	case Thunk:
		return ov.Func()
	case Reference:
		return c.Resolve(ov.Ref)
	default:
		return nil, fmt.Errorf("override: unknown kind %d", ov.Kind)
	}
}

// Instantiator constructs a concrete instance from a Definition and its
// cached ServicePrototype (spec.md §4.7).
type Instantiator struct {
	dep *Dependency
}

// NewInstantiator returns an Instantiator using dep to resolve constructor
// arguments.
func NewInstantiator(dep *Dependency) *Instantiator {
	return &Instantiator{dep: dep}
}

// Instantiate builds a new instance of def.Concrete.
//
//  1. a pre-built Value short-circuits construction entirely;
//  2. a non-instantiable prototype fails with ClassNotInstantiable;
//  3. a constructor prototype, if present, has its parameters resolved and
//     assigned onto a fresh def.Params value, then def.Construct is called;
//  4. otherwise (no constructor declared) Concrete is allocated zero-valued,
//     left for InjectProperties to populate entirely.
func (in *Instantiator) Instantiate(
	def *definition.Definition,
	proto *prototype.ServicePrototype,
	overrides map[string]Override,
	c Container,
) (any, error) {
	if def.HasValue {
		return def.Value, nil
	}
	if !proto.IsInstantiable {
		return nil, ioerr.NewClassNotInstantiable(def.Abstract, AbstractOf(def.Concrete))
	}

	if proto.Constructor != nil && def.Construct != nil {
		args, err := in.dep.Resolve(def.Abstract, "constructor", proto.Constructor.Parameters, overrides, c)
		if err != nil {
			return nil, err
		}
		params := reflect.New(def.Params).Elem()
		for i, p := range proto.Constructor.Parameters {
			assign(params.Field(p.FieldIndex), args[i])
		}
		instance, err := def.Construct(params)
		if err != nil {
			return nil, &ioerr.Failure{Op: "instantiate", ServiceID: def.Abstract, Err: err}
		}
		return instance, nil
	}

	structType := def.Concrete
	pointerToStruct := structType.Kind() == reflect.Pointer
	if pointerToStruct {
		structType = structType.Elem()
	}
	rv := reflect.New(structType)
	if pointerToStruct {
		return rv.Interface(), nil
	}
	return rv.Elem().Interface(), nil
}

// assign writes v into field, allocating through pointer indirection and
// tolerating a nil value for nillable kinds.
func assign(field reflect.Value, v any) {
	if v == nil {
		if field.Kind() == reflect.Pointer || field.Kind() == reflect.Interface {
			return
		}
		return
	}
	rv := reflect.ValueOf(v)
	if field.Kind() == reflect.Pointer && rv.Kind() != reflect.Pointer {
		ptr := reflect.New(field.Type().Elem())
		if rv.Type().AssignableTo(ptr.Elem().Type()) {
			ptr.Elem().Set(rv)
			field.Set(ptr)
			return
		}
	}
	if rv.Type().AssignableTo(field.Type()) {
		field.Set(rv)
		return
	}
	if rv.Type().ConvertibleTo(field.Type()) {
		field.Set(rv.Convert(field.Type()))
	}
}

// EnsureSettable dereferences/allocates field as needed via pointer.Deref so
// subsequent assignment does not panic on a nil intermediate pointer.
func EnsureSettable(field reflect.Value) reflect.Value {
	return pointer.Deref(field)
}
