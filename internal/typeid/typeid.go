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

// Package typeid derives the default abstract service ID for a Go type,
// shared by every package that needs to turn a reflect.Type into the
// string key the container binds things under.
package typeid

import "reflect"

// Of returns the abstract ID a value of type t resolves under when no
// explicit binding or tag names one: its fully qualified type name.
func Of(t reflect.Type) string {
	if t == nil {
		return ""
	}
	return t.String()
}
