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

// Package redact hashes values bound for telemetry emission so that secrets
// injected as constructor arguments never reach the Trace in cleartext,
// while still letting two traces of the same resolution be compared for
// equality (spec.md §7's "secrets in the Trace context must be redacted at
// emission").
package redact

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/cloudflare/circl/hash/blake2b"
)

// markers are the struct tag / argument-name fragments that flag a value as
// sensitive. Matching is case-insensitive and substring-based, mirroring
// the pragmatic denylist approach common to logging middlewares.
var markers = []string{"password", "secret", "token", "apikey", "api_key", "credential", "private"}

// IsSensitive reports whether name (an argument, parameter, or property
// name) looks like it carries a secret.
func IsSensitive(name string) bool {
	lower := strings.ToLower(name)
	for _, m := range markers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// Value renders v for inclusion in a Trace: if name is sensitive, v is
// replaced by a short, stable blake2b digest so equal secrets still compare
// equal across traces without the original value ever being retained.
func Value(name string, v any) string {
	rendered := fmt.Sprintf("%v", v)
	if !IsSensitive(name) {
		return rendered
	}
	return "redacted:" + digest(rendered)
}

func digest(s string) string {
	h, err := blake2b.New256(nil)
	if err != nil {
		// blake2b.New256 only fails for an oversized key, and we pass none;
		// this path is unreachable in practice.
		return "redacted"
	}
	_, _ = h.Write([]byte(s))
	sum := h.Sum(nil)
	return hex.EncodeToString(sum[:8])
}
