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
	"runtime"
	"strconv"

	"github.com/deep-rent/ioc/internal/engine"
	"github.com/deep-rent/ioc/internal/prototype"
	"github.com/deep-rent/ioc/internal/resolve"
	"github.com/deep-rent/ioc/internal/typeid"
)

// view adapts an *engine.Engine into a resolve.Container for a top-level
// Call, the same narrow surface a pipeline step's Context exposes to nested
// resolutions.
type view struct{ eng *engine.Engine }

func (v view) Has(abstract string) bool { return v.eng.Has(abstract) }

func (v view) Resolve(abstract string) (any, error) { return v.eng.ResolveChain(abstract, nil, nil) }

func (v view) ResolveType(t reflect.Type) (any, error) {
	v.eng.RegisterType(t)
	return v.eng.ResolveChain(typeid.Of(t), nil, nil)
}

// call resolves target's parameters positionally (by index, "0", "1", ...,
// the same key convention Dependency.Resolve uses for variadic overrides)
// and invokes it, matching spec.md's call(callable, overrides?) operation.
func call(eng *engine.Engine, target any, overrides map[string]resolve.Override) (any, error) {
	fv := reflect.ValueOf(target)
	if fv.Kind() != reflect.Func {
		return nil, fmt.Errorf("ioc: Call target must be a function, got %T", target)
	}
	ft := fv.Type()
	variadic := ft.IsVariadic()
	n := ft.NumIn()

	params := make([]prototype.ParameterPrototype, n)
	for i := 0; i < n; i++ {
		in := ft.In(i)
		isVariadicParam := variadic && i == n-1
		t := in
		if isVariadicParam {
			t = in.Elem()
		}
		params[i] = prototype.ParameterPrototype{
			Name:       strconv.Itoa(i),
			Type:       t,
			IsVariadic: isVariadicParam,
			AllowsNull: isNillableKind(t.Kind()),
			FieldIndex: i,
		}
		params[i].Required = !params[i].AllowsNull
	}

	dep := eng.Dependency()
	args, err := dep.Resolve("call", funcName(fv), params, overrides, view{eng})
	if err != nil {
		return nil, err
	}

	in := make([]reflect.Value, n)
	for i := 0; i < n; i++ {
		pt := ft.In(i)
		if params[i].IsVariadic {
			items, _ := args[i].([]any)
			slice := reflect.MakeSlice(pt, len(items), len(items))
			for j, item := range items {
				if item != nil {
					assignInto(slice.Index(j), item)
				}
			}
			in[i] = slice
			continue
		}
		if args[i] == nil {
			in[i] = reflect.Zero(pt)
			continue
		}
		in[i] = reflect.ValueOf(args[i])
	}

	var out []reflect.Value
	if variadic {
		out = fv.CallSlice(in)
	} else {
		out = fv.Call(in)
	}
	return splitResults(out)
}

func assignInto(field reflect.Value, v any) {
	rv := reflect.ValueOf(v)
	switch {
	case rv.Type().AssignableTo(field.Type()):
		field.Set(rv)
	case rv.Type().ConvertibleTo(field.Type()):
		field.Set(rv.Convert(field.Type()))
	}
}

// splitResults folds a function's reflect.Value results into the (any,
// error) convention the rest of the kernel returns. A trailing error result
// is treated as THE error; a single leading value (if present) is returned
// alongside it.
func splitResults(out []reflect.Value) (any, error) {
	if len(out) == 0 {
		return nil, nil
	}
	last := out[len(out)-1]
	if last.Type() == errorType {
		var err error
		if !last.IsNil() {
			err = last.Interface().(error)
		}
		if len(out) == 1 {
			return nil, err
		}
		return out[0].Interface(), err
	}
	return out[0].Interface(), nil
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

func isNillableKind(k reflect.Kind) bool {
	switch k {
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
		return true
	default:
		return false
	}
}

func funcName(fv reflect.Value) string {
	if fv.Kind() != reflect.Func || fv.Pointer() == 0 {
		return "call"
	}
	if fn := runtime.FuncForPC(fv.Pointer()); fn != nil {
		return fn.Name()
	}
	return "call"
}
