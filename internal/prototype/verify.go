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
	"fmt"

	"github.com/deep-rent/ioc/internal/primitive"
)

// Validate checks a single ServicePrototype against the kernel's structural
// invariants (spec.md §4.13): the class must be instantiable, every
// required constructor/method parameter must carry a resolvable type, and
// every required injectable property must carry a resolvable, non-builtin
// type. Validate fails fast on the first violation found.
func Validate(p *ServicePrototype) error {
	if !p.IsInstantiable {
		return fmt.Errorf("class %s is not instantiable", p.Class)
	}
	if p.Constructor != nil {
		if err := validateParams(p.Constructor); err != nil {
			return err
		}
	}
	for _, m := range p.InjectedMethods {
		if err := validateParams(&m); err != nil {
			return err
		}
	}
	for _, prop := range p.InjectedProperties {
		if !prop.IsRequired {
			continue
		}
		if prop.Type == nil {
			return fmt.Errorf("property %q of %s has an unresolvable type", prop.Name, p.Class)
		}
		if primitive.Is(prop.Type.Kind()) {
			return fmt.Errorf("property %q of %s has a builtin type and cannot be injected", prop.Name, p.Class)
		}
	}
	return nil
}

func validateParams(m *MethodPrototype) error {
	for _, param := range m.Parameters {
		if param.Required && param.Type == nil {
			return fmt.Errorf("parameter %q of %s has an unresolvable type", param.Name, m.Name)
		}
	}
	return nil
}

// BatchSummary is the aggregate count produced by ValidateBatch.
type BatchSummary struct {
	Total   int
	Valid   int
	Invalid int
}

// ValidateBatch validates every prototype in list, never returning an
// error itself: violations are collected per-class so that a single bad
// registration does not prevent reporting on the rest.
func ValidateBatch(list []*ServicePrototype) (valid []*ServicePrototype, invalid map[string]string, summary BatchSummary) {
	invalid = make(map[string]string)
	for _, p := range list {
		summary.Total++
		if err := Validate(p); err != nil {
			invalid[p.Class.String()] = err.Error()
			summary.Invalid++
			continue
		}
		valid = append(valid, p)
		summary.Valid++
	}
	return
}
