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

package resolve

import (
	"errors"
	"reflect"
	"sync"

	"github.com/deep-rent/ioc/internal/primitive"
	"github.com/deep-rent/ioc/internal/prototype"
	"github.com/deep-rent/ioc/ioerr"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Injector performs post-construction property and method injection
// (spec.md §4.8), sharing the Dependency resolver used for constructors.
type Injector struct {
	dep *Dependency
}

// NewInjector returns an Injector using dep to resolve method parameters.
func NewInjector(dep *Dependency) *Injector {
	return &Injector{dep: dep}
}

// InjectProperties walks proto.InjectedProperties and, for each one not
// already initialized, resolves a value (by explicit abstract, by type, by
// override, or by default) and writes it onto instance via reflection.
func (in *Injector) InjectProperties(
	serviceID string,
	instance any,
	proto *prototype.ServicePrototype,
	overrides map[string]Override,
	c Container,
) error {
	rv := reflect.ValueOf(instance)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	for _, p := range proto.InjectedProperties {
		field := rv.FieldByIndex(p.Index)
		if isInitialized(field) {
			continue
		}
		if p.IsRequired && primitive.Is(field.Kind()) {
			return ioerr.NewInvalidInjection(serviceID, p.Name, proto.Class.String(),
				"builtin-typed members cannot be injected")
		}

		if p.Lazy && isLazyThunkShape(field.Type()) {
			target := EnsureSettable(field)
			target.Set(makeLazyThunk(field.Type(), func() (any, error) {
				return in.resolveProperty(p, overrides, c)
			}))
			continue
		}

		v, err := in.resolveProperty(p, overrides, c)
		if err != nil {
			// Only "nothing resolvable" is soft-failed away for an optional
			// property; a real failure underneath (a cycle, an
			// unistantiable dependency, ...) is never just swallowed,
			// regardless of whether this particular property is required.
			var unresolved *propertyUnresolved
			if !errors.As(err, &unresolved) {
				return err
			}
			if !p.IsRequired {
				continue
			}
			return ioerr.NewInvalidInjection(serviceID, p.Name, proto.Class.String(), err.Error())
		}
		if v == nil {
			continue
		}
		assign(field, v)
	}
	return nil
}

func (in *Injector) resolveProperty(p prototype.PropertyPrototype, overrides map[string]Override, c Container) (any, error) {
	if ov, ok := overrides[p.Name]; ok {
		return in.dep.materialize(ov, c)
	}
	switch {
	case p.ExplicitAbstract != "":
		v, err := c.Resolve(p.ExplicitAbstract)
		switch {
		case err == nil:
			return v, nil
		case !ioerr.IsNotFound(err):
			return nil, err
		}
	case p.Type != nil:
		v, err := c.ResolveType(p.Type)
		switch {
		case err == nil:
			return v, nil
		case !ioerr.IsNotFound(err):
			return nil, err
		}
	}
	if p.HasDefault {
		return p.Default, nil
	}
	if !p.IsRequired {
		return nil, nil
	}
	abstract := p.ExplicitAbstract
	if abstract == "" && p.Type != nil {
		abstract = AbstractOf(p.Type)
	}
	return nil, &propertyUnresolved{abstract: abstract}
}

type propertyUnresolved struct{ abstract string }

func (e *propertyUnresolved) Error() string {
	if e.abstract == "" {
		return "no resolvable abstract, override, or default available"
	}
	return "abstract " + e.abstract + " is not bound in the container"
}

// InjectMethods invokes every method prototype in proto.InjectedMethods
// against instance, resolving its parameters identically to a constructor.
func (in *Injector) InjectMethods(
	serviceID string,
	instance any,
	proto *prototype.ServicePrototype,
	overrides map[string]Override,
	c Container,
) error {
	if len(proto.InjectedMethods) == 0 {
		return nil
	}
	rv := reflect.ValueOf(instance)
	for _, m := range proto.InjectedMethods {
		method := rv.MethodByName(m.Name)
		if !method.IsValid() {
			return ioerr.NewInvalidInjection(serviceID, m.Name, AbstractOf(rv.Type()),
				"method not found on instance")
		}
		args, err := in.dep.Resolve(serviceID, m.Name, m.Parameters, overrides, c)
		if err != nil {
			return err
		}
		callArgs := make([]reflect.Value, len(args))
		for i, a := range args {
			if a == nil {
				callArgs[i] = reflect.Zero(method.Type().In(i))
				continue
			}
			callArgs[i] = reflect.ValueOf(a)
		}
		method.Call(callArgs)
	}
	return nil
}

// isLazyThunkShape reports whether t is a zero-argument function returning
// either a single value or a (value, error) pair — the two field shapes a
// `ioc:"inject,lazy"` property may declare to receive a deferred resolver
// instead of an eager value. Go has no generic "Lazy[T]" the kernel can
// construct reflectively (instantiating a generic type requires a
// compile-time type argument), so a plain thunk func is the idiomatic
// substitute: reflect.MakeFunc can build one of any such shape at runtime.
func isLazyThunkShape(t reflect.Type) bool {
	if t.Kind() != reflect.Func || t.IsVariadic() || t.NumIn() != 0 {
		return false
	}
	switch t.NumOut() {
	case 1:
		return true
	case 2:
		return t.Out(1) == errorType
	default:
		return false
	}
}

// makeLazyThunk builds a func value of type t that calls resolve at most
// once, memoizing the outcome via sync.Once, so a lazily injected field is
// only ever resolved on its first invocation.
func makeLazyThunk(t reflect.Type, resolve func() (any, error)) reflect.Value {
	var once sync.Once
	var val reflect.Value
	var errVal reflect.Value
	hasErr := t.NumOut() == 2

	return reflect.MakeFunc(t, func([]reflect.Value) []reflect.Value {
		once.Do(func() {
			out := t.Out(0)
			v, err := resolve()
			switch {
			case err != nil:
				val = reflect.Zero(out)
				if hasErr {
					errVal = reflect.ValueOf(err)
				}
			case v == nil:
				val = reflect.Zero(out)
			case reflect.TypeOf(v).AssignableTo(out):
				val = reflect.ValueOf(v)
			case reflect.TypeOf(v).ConvertibleTo(out):
				val = reflect.ValueOf(v).Convert(out)
			default:
				val = reflect.Zero(out)
			}
			if hasErr && !errVal.IsValid() {
				errVal = reflect.Zero(errorType)
			}
		})
		if hasErr {
			return []reflect.Value{val, errVal}
		}
		return []reflect.Value{val}
	})
}

// isInitialized reports whether field already carries a non-zero value,
// per spec.md §4.8's "skip if already initialized" rule.
func isInitialized(field reflect.Value) bool {
	switch field.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
		return !field.IsNil()
	default:
		return !field.IsZero()
	}
}
