// Package config bulk-loads ServiceDefinition entries from a YAML or JSON
// manifest into a DefinitionStore, as a declarative alternative to
// programmatic Bind calls.
package config

import (
	"fmt"
	"os"

	"github.com/deep-rent/ioc/codec"
	"github.com/deep-rent/ioc/internal/definition"
)

// Manifest is the on-disk shape a YAML or JSON service manifest decodes
// into.
type Manifest struct {
	Services []ServiceEntry    `yaml:"services" json:"services"`
	Aliases  map[string]string `yaml:"aliases" json:"aliases"`
}

// ServiceEntry describes one binding. Type must name a reflect.Type already
// registered with the target DefinitionStore under that ID (by an earlier
// ioc.Bind, ioc.Instance, or ioc.BindType[T] call, or a direct
// DefinitionStore.RegisterType) — a manifest configures lifetime, tags,
// and arguments for a type the program still declares in code, since Go
// cannot turn an arbitrary string into a reflect.Type on its own.
type ServiceEntry struct {
	Abstract  string         `yaml:"abstract" json:"abstract"`
	Type      string         `yaml:"type" json:"type"`
	Lifetime  string         `yaml:"lifetime" json:"lifetime"`
	Tags      []string       `yaml:"tags" json:"tags"`
	Arguments map[string]any `yaml:"arguments" json:"arguments"`
	Lazy      bool           `yaml:"lazy" json:"lazy"`
}

// LoadDefinitions reads the manifest at path and adds one Definition per
// entry to store, then applies every alias. It fails on the first entry
// whose Type has no registered reflect.Type, or whose Lifetime string is
// unrecognized.
func LoadDefinitions(path string, store *definition.Store) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: reading manifest: %w", err)
	}

	var manifest Manifest
	if err := codec.Infer(path).Decode(data, &manifest); err != nil {
		return fmt.Errorf("config: decoding manifest: %w", err)
	}

	for _, entry := range manifest.Services {
		concrete, ok := store.TypeOf(entry.Type)
		if !ok {
			return fmt.Errorf("config: service %q: type %q was never registered", entry.Abstract, entry.Type)
		}
		lifetime, err := definition.ParseLifetime(entry.Lifetime)
		if err != nil {
			return fmt.Errorf("config: service %q: %w", entry.Abstract, err)
		}
		store.Add(&definition.Definition{
			Abstract:  entry.Abstract,
			Concrete:  concrete,
			Lifetime:  lifetime,
			Arguments: entry.Arguments,
			Tags:      entry.Tags,
			Lazy:      entry.Lazy,
		})
	}

	for from, to := range manifest.Aliases {
		store.Alias(from, to)
	}
	return nil
}
