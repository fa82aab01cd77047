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

// OverrideKind distinguishes the three variants an Override may carry, the
// Go rendition of spec.md §9's "tagged variant {literal, lazy thunk,
// service reference}".
type OverrideKind uint8

const (
	// Literal supplies a concrete value to assign directly.
	Literal OverrideKind = iota
	// Thunk supplies a func() (any, error) evaluated on first use.
	Thunk
	// Reference names another abstract to resolve in the override's place.
	Reference
)

// Override is one per-call or per-registration substitution for a named
// constructor/method parameter or injectable property.
type Override struct {
	Kind  OverrideKind
	Value any            // Literal: the value itself.
	Func  func() (any, error) // Thunk: evaluated lazily, memoized by the caller.
	Ref   string          // Reference: the abstract ID to resolve instead.
}

// NewLiteral wraps a concrete value as an Override.
func NewLiteral(v any) Override { return Override{Kind: Literal, Value: v} }

// NewThunk wraps a deferred provider function as an Override.
func NewThunk(f func() (any, error)) Override { return Override{Kind: Thunk, Func: f} }

// NewReference wraps an abstract ID as an Override.
func NewReference(abstract string) Override { return Override{Kind: Reference, Ref: abstract} }
