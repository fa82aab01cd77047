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

package redact_test

import (
	"strings"
	"testing"

	"github.com/deep-rent/ioc/internal/redact"
	"github.com/stretchr/testify/assert"
)

func TestIsSensitiveMatchesKnownMarkers(t *testing.T) {
	assert.True(t, redact.IsSensitive("apiKey"))
	assert.True(t, redact.IsSensitive("DB_PASSWORD"))
	assert.False(t, redact.IsSensitive("username"))
}

func TestValuePassesThroughNonSensitiveNames(t *testing.T) {
	assert.Equal(t, "42", redact.Value("port", 42))
}

func TestValueRedactsSensitiveNames(t *testing.T) {
	rendered := redact.Value("password", "hunter2")
	assert.True(t, strings.HasPrefix(rendered, "redacted:"))
	assert.NotContains(t, rendered, "hunter2")
}

func TestValueRedactionIsStableForEqualInput(t *testing.T) {
	a := redact.Value("secret", "shared-value")
	b := redact.Value("secret", "shared-value")
	assert.Equal(t, a, b, "equal secrets must redact to the same digest so traces stay comparable")
}

func TestValueRedactionDiffersForDifferentInput(t *testing.T) {
	a := redact.Value("secret", "one")
	b := redact.Value("secret", "two")
	assert.NotEqual(t, a, b)
}
