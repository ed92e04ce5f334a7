package binwrapper

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"golang.org/x/exp/maps"
	"gopkg.in/yaml.v3"
)

// Config maps binary names to their acquisition definitions. The file
// format is YAML (JSON is accepted too since YAML is a superset).
type Config struct {
	Binaries map[string]*Binary `json:"binaries" yaml:"binaries"`
}

// Binary is one configured binary.
type Binary struct {
	// Destination is the directory the binary must end up in.
	Destination string `json:"destination" yaml:"destination"`
	// Bin is the executable's path relative to Destination.
	Bin string `json:"bin" yaml:"bin"`
	// Version is a semver range the installed binary must satisfy.
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
	// Strip is the number of leading path segments removed from archive
	// entries. Defaults to 1 when unset.
	Strip *int `json:"strip,omitempty" yaml:"strip,omitempty"`
	// Global enables searching the PATH for an existing install.
	Global bool `json:"global,omitempty" yaml:"global,omitempty"`
	// Sources are the platform-tagged download locations.
	Sources []Source `json:"sources" yaml:"sources" jsonschema:"minItems=1"`
}

// LoadConfig returns a Config read from reader, after validating it
// against the config schema.
func LoadConfig(ctx context.Context, reader io.Reader) (*Config, error) {
	raw, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	err = validateConfig(ctx, raw)
	if err != nil {
		return nil, err
	}
	var cfg Config
	err = yaml.Unmarshal(raw, &cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadConfigFile returns a Config from the path to a config file.
func LoadConfigFile(ctx context.Context, configFile string) (*Config, error) {
	reader, err := os.Open(configFile)
	if err != nil {
		return nil, fmt.Errorf("couldn't read config file: %s", configFile)
	}
	defer logCloseErr(reader)
	return LoadConfig(ctx, reader)
}

// BinaryNames returns the configured binary names, sorted.
func (c *Config) BinaryNames() []string {
	names := maps.Keys(c.Binaries)
	sort.Strings(names)
	return names
}

// BinWrapper materializes the descriptor for a configured binary.
func (c *Config) BinWrapper(name string) (*BinWrapper, error) {
	bin := c.Binaries[name]
	if bin == nil {
		return nil, fmt.Errorf("no binary configured with the name %q", name)
	}
	if bin.Strip != nil && *bin.Strip < 0 {
		return nil, fmt.Errorf("%s: strip must not be negative", name)
	}
	b := New().
		Dest(bin.Destination).
		Use(bin.Bin).
		Version(bin.Version).
		GlobalSearch(bin.Global)
	if bin.Strip != nil {
		b.StripComponents(*bin.Strip)
	}
	for _, src := range bin.Sources {
		b.addSource(src)
	}
	return b, nil
}
