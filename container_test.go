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

package ioc_test

import (
	"reflect"
	"testing"

	"github.com/deep-rent/ioc"
	"github.com/deep-rent/ioc/internal/resolve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type greeter struct {
	Prefix string
}

func (g *greeter) Greet(name string) string { return g.Prefix + name }

type greeterParams struct {
	Prefix string
}

func newGreeter(params reflect.Value) (any, error) {
	p := params.Interface().(greeterParams)
	return &greeter{Prefix: p.Prefix}, nil
}

func bindGreeter(c *ioc.Container, abstract string) *ioc.BindingBuilder {
	return c.Bind(abstract).
		To(reflect.TypeOf(&greeter{})).
		Construct(reflect.TypeOf(greeterParams{}), newGreeter).
		WithArgument("Prefix", "hi, ")
}

func TestSingletonSharesInstance(t *testing.T) {
	c := ioc.New(ioc.Config{})
	bindGreeter(c, "Greeter").Singleton()

	a, err := ioc.Get[*greeter](c, "Greeter")
	require.NoError(t, err)
	b, err := ioc.Get[*greeter](c, "Greeter")
	require.NoError(t, err)
	assert.Same(t, a, b)
}

func TestTransientCreatesFreshInstance(t *testing.T) {
	c := ioc.New(ioc.Config{})
	bindGreeter(c, "Greeter").Transient()

	a, err := ioc.Get[*greeter](c, "Greeter")
	require.NoError(t, err)
	b, err := ioc.Get[*greeter](c, "Greeter")
	require.NoError(t, err)
	assert.NotSame(t, a, b)
}

func TestScopedIsolatesPerFrame(t *testing.T) {
	c := ioc.New(ioc.Config{})
	bindGreeter(c, "Greeter").Scoped()

	c.BeginScope()
	a1, err := ioc.Get[*greeter](c, "Greeter")
	require.NoError(t, err)
	a2, err := ioc.Get[*greeter](c, "Greeter")
	require.NoError(t, err)
	assert.Same(t, a1, a2)
	require.NoError(t, c.EndScope())

	c.BeginScope()
	b1, err := ioc.Get[*greeter](c, "Greeter")
	require.NoError(t, err)
	assert.NotSame(t, a1, b1)
	require.NoError(t, c.EndScope())
}

func TestMakeOverrideIsNotCached(t *testing.T) {
	c := ioc.New(ioc.Config{})
	bindGreeter(c, "Greeter").Singleton()

	custom, err := c.Make("Greeter", map[string]resolve.Override{
		"Prefix": resolve.NewLiteral("yo, "),
	})
	require.NoError(t, err)
	assert.Equal(t, "yo, world", custom.(*greeter).Greet("world"))

	shared, err := ioc.Get[*greeter](c, "Greeter")
	require.NoError(t, err)
	assert.Equal(t, "hi, world", shared.Greet("world"))
	assert.NotSame(t, custom, shared)
}

type widget struct{ Name string }

func TestAutowireResolvesARegisteredType(t *testing.T) {
	c := ioc.New(ioc.Config{AllowAutowire: true})
	// Binding "seed" to widget's concrete type registers that type under its
	// own derived abstract ID as a side effect, so a later unbound reference
	// to the same ID can still be autowired (spec.md's "miss, then succeed"
	// seed scenario).
	c.Bind("seed").To(reflect.TypeOf(widget{}))

	w, err := ioc.Get[widget](c, ioc.TypeOf[widget]())
	require.NoError(t, err)
	assert.Equal(t, widget{}, w)
}

func TestUnboundAbstractFailsWithoutAutowire(t *testing.T) {
	c := ioc.New(ioc.Config{})
	_, err := c.Get("Nope")
	require.Error(t, err)
}

type cycleA struct {
	B *cycleB `ioc:"inject"`
}
type cycleB struct {
	A *cycleA `ioc:"inject"`
}

func TestCircularDependencyIsDetected(t *testing.T) {
	c := ioc.New(ioc.Config{})
	abstractA := ioc.TypeOf[*cycleA]()
	abstractB := ioc.TypeOf[*cycleB]()
	c.Bind(abstractA).To(reflect.TypeOf(cycleA{}))
	c.Bind(abstractB).To(reflect.TypeOf(cycleB{}))

	_, err := c.Get(abstractA)
	require.Error(t, err)
}

func TestFindByTagResolvesEveryMember(t *testing.T) {
	c := ioc.New(ioc.Config{})
	bindGreeter(c, "GreeterA").Tag("greeters")
	bindGreeter(c, "GreeterB").Tag("greeters")

	found, err := c.FindByTag("greeters")
	require.NoError(t, err)
	require.Len(t, found, 2)
}

func TestInstanceShortCircuitsConstruction(t *testing.T) {
	c := ioc.New(ioc.Config{})
	want := &greeter{Prefix: "fixed, "}
	c.Instance("Greeter", want)

	got, err := ioc.Get[*greeter](c, "Greeter")
	require.NoError(t, err)
	assert.Same(t, want, got)
}

func TestCallResolvesParametersByType(t *testing.T) {
	c := ioc.New(ioc.Config{})
	c.Instance(ioc.TypeOf[*greeter](), &greeter{Prefix: "called, "})

	result, err := c.Call(func(g *greeter) string {
		return g.Greet("world")
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "called, world", result)
}

func TestInspectInjectionReportsMemberState(t *testing.T) {
	c := ioc.New(ioc.Config{})
	report, err := c.InspectInjection(&cycleA{})
	require.NoError(t, err)
	require.Len(t, report.Properties, 1)
	assert.Equal(t, "B", report.Properties[0].Name)
	assert.False(t, report.Properties[0].Initialized)
}
