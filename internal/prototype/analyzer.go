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

	"github.com/deep-rent/ioc/internal/primitive"
	"github.com/deep-rent/ioc/internal/tag"
)

// TagKey is the struct tag key the Analyzer inspects on constructor-argument
// and property fields, e.g. `ioc:"inject,abstract:Logger"`.
const TagKey = "ioc"

// Analyzer builds ServicePrototypes from Go struct types by reflection. It
// is deterministic and side-effect-free; callers normally reach it through a
// Cache rather than invoking it directly on every resolution.
type Analyzer struct{}

// NewAnalyzer returns a ready-to-use Analyzer. Analyzer holds no state, so a
// single instance may be shared and reused freely.
func NewAnalyzer() *Analyzer { return &Analyzer{} }

// Analyze builds the ServicePrototype for class, an optional paramsStruct
// describing the constructor's argument shape (nil if the class has no
// constructor dependencies or is constructed by an opaque factory), and a
// list of explicitly marked injectable methods.
//
// class is unwrapped to its underlying struct type for property discovery
// even if it is a pointer type; IsInstantiable reflects whether the
// *original* class can actually be constructed (a non-nil struct or
// pointer-to-struct, never an interface or function type).
func (a *Analyzer) Analyze(class reflect.Type, paramsStruct reflect.Type, methods []MethodSpec) *ServicePrototype {
	p := &ServicePrototype{
		Class:          class,
		IsInstantiable: isInstantiable(class),
	}

	if paramsStruct != nil {
		p.Constructor = a.analyzeParams("constructor", paramsStruct)
	}

	structType := class
	for structType != nil && structType.Kind() == reflect.Pointer {
		structType = structType.Elem()
	}
	if structType != nil && structType.Kind() == reflect.Struct {
		p.InjectedProperties = a.analyzeProperties(structType, nil)
	}

	for _, m := range methods {
		p.InjectedMethods = append(p.InjectedMethods, *a.analyzeParams(m.Name, m.Params))
	}

	return p
}

// MethodSpec names one explicitly registered injectable method and the
// struct type describing its parameters, mirroring how constructors are
// described (see Analyze).
type MethodSpec struct {
	Name   string
	Params reflect.Type
}

func isInstantiable(class reflect.Type) bool {
	if class == nil {
		return false
	}
	t := class
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}

// analyzeParams reflects a "parameters struct" — one field per constructor
// or method argument — into an ordered MethodPrototype. This is the Go
// analogue of the host language's named-parameter constructor reflection:
// Go cannot recover parameter names from a func value, so the parameter
// shape is described declaratively as a struct instead (the same technique
// used by dependency-injection frameworks built around "parameter object"
// structs).
func (a *Analyzer) analyzeParams(name string, params reflect.Type) *MethodPrototype {
	mp := &MethodPrototype{Name: name}
	if params == nil {
		return mp
	}
	t := params
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return mp
	}

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		pp := a.parameterFrom(f)
		pp.FieldIndex = i
		mp.Parameters = append(mp.Parameters, pp)
	}
	return mp
}

func (a *Analyzer) parameterFrom(f reflect.StructField) ParameterPrototype {
	pp := ParameterPrototype{
		Name: f.Name,
		Type: f.Type,
	}

	raw, hasTag := f.Tag.Lookup(TagKey)
	var t *tag.Tag
	if hasTag {
		t = tag.Parse(raw)
	}

	pp.AllowsNull = isNillable(f.Type.Kind())
	pp.IsVariadic = f.Type.Kind() == reflect.Slice

	if t != nil {
		for k, v := range t.Opts() {
			switch k {
			case "default":
				pp.HasDefault = true
				pp.Default = v
			case "optional":
				pp.AllowsNull = true
			case "variadic":
				pp.IsVariadic = true
			}
		}
	}

	// An `any` field has no named type to resolve against — the Go
	// analogue of an unresolvable intersection type (spec.md §4.2).
	if pp.Type != nil && pp.Type.Kind() == reflect.Interface && pp.Type.NumMethod() == 0 {
		pp.Type = nil
	}

	pp.Required = !pp.HasDefault && !pp.AllowsNull
	return pp
}

// analyzeProperties discovers injectable fields of a struct type, recursing
// into anonymous (embedded) structs. A field is injectable if it carries an
// explicit `ioc:"inject"` tag, or if it has a non-builtin, "object-like"
// type (pointer-to-struct or non-empty interface) and no tag at all — the
// auto-injection convention spec.md §4.2 describes for properties "whose
// type is non-builtin and uninitialized". Uninitialized-ness is a runtime
// property checked later by the injector, not here; the Analyzer only
// decides which fields are *candidates*.
func (a *Analyzer) analyzeProperties(t reflect.Type, index []int) []PropertyPrototype {
	var props []PropertyPrototype
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		idx := append(append([]int{}, index...), i)

		if f.Anonymous && f.Type.Kind() == reflect.Struct {
			props = append(props, a.analyzeProperties(f.Type, idx)...)
			continue
		}
		if !f.IsExported() {
			continue
		}

		raw, hasTag := f.Tag.Lookup(TagKey)
		if hasTag {
			parsed := tag.Parse(raw)
			if parsed.Name != "inject" {
				continue
			}
			props = append(props, a.propertyFrom(f, idx, parsed))
			continue
		}

		if isAutoInjectable(f.Type) {
			props = append(props, a.propertyFrom(f, idx, nil))
		}
	}
	return props
}

func (a *Analyzer) propertyFrom(f reflect.StructField, index []int, t *tag.Tag) PropertyPrototype {
	pp := PropertyPrototype{
		Name:       f.Name,
		Type:       f.Type,
		Index:      index,
		IsRequired: !isNillable(f.Type.Kind()),
	}
	if t == nil {
		return pp
	}
	for k, v := range t.Opts() {
		switch k {
		case "abstract":
			pp.ExplicitAbstract = v
		case "optional":
			pp.IsRequired = false
		case "lazy":
			pp.Lazy = true
		case "default":
			pp.HasDefault = true
			pp.Default = v
			pp.IsRequired = false
		}
	}
	return pp
}

func isAutoInjectable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Interface:
		return t.NumMethod() > 0
	case reflect.Pointer:
		return t.Elem().Kind() == reflect.Struct
	default:
		return false
	}
}

func isNillable(k reflect.Kind) bool {
	switch k {
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
		return true
	default:
		return false
	}
}

// ParseDefault converts a string-encoded default tag value into a
// reflect.Value suitable for assignment to a field/parameter of type t,
// falling back to the raw string if t is not a recognized builtin.
func ParseDefault(t reflect.Type, raw string) (reflect.Value, error) {
	if t == nil || !primitive.Is(t.Kind()) {
		return reflect.ValueOf(raw), nil
	}
	rv := reflect.New(t).Elem()
	if err := primitive.Parse(rv, raw); err != nil {
		return reflect.Value{}, err
	}
	return rv, nil
}
