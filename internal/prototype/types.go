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

// Package prototype builds and caches the immutable structural description
// of how a class is constructed and injected: its constructor parameters,
// its injectable properties, and its injectable methods. A ServicePrototype
// is built once per class (by reflection over a Go struct type) and reused
// for every subsequent resolution of that class.
package prototype

import "reflect"

// ParameterPrototype describes one constructor or method parameter.
type ParameterPrototype struct {
	Name       string
	Type       reflect.Type // nil marks an unresolvable ("untyped") parameter
	HasDefault bool
	Default    any
	IsVariadic bool
	AllowsNull bool
	Required   bool
	// FieldIndex is this parameter's field index within its owning
	// parameter-struct type, for direct reflect.Value.Field access.
	FieldIndex int
}

// MethodPrototype describes a constructor or an explicitly marked
// injectable method, as an ordered list of parameters.
type MethodPrototype struct {
	Name       string
	Parameters []ParameterPrototype
}

// PropertyPrototype describes one injectable struct field.
type PropertyPrototype struct {
	Name             string
	Type             reflect.Type
	IsRequired       bool
	HasDefault       bool
	Default          any
	ExplicitAbstract string
	Lazy             bool
	// Index is the reflect.Value.FieldByIndex path to reach this field,
	// supporting fields found on embedded structs.
	Index []int
}

// ServicePrototype is the immutable, cached structural description of one
// class (spec.md's ServicePrototype). Once built, a ServicePrototype is
// reference-stable: the same *ServicePrototype is handed to every caller
// resolving that class, via Cache.
type ServicePrototype struct {
	Class              reflect.Type
	Constructor        *MethodPrototype
	InjectedProperties []PropertyPrototype
	InjectedMethods    []MethodPrototype
	IsInstantiable     bool
}
