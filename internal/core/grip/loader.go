package grip

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
	"gopkg.in/yaml.v3"
)

// LoadYAML decodes a config over DefaultConfig and validates it. Unknown keys
// are rejected; an empty document yields the defaults.
func LoadYAML(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode grip config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile reads a YAML config from path.
func LoadFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open grip config: %w", err)
	}
	defer func() { _ = f.Close() }()

	cfg, err := LoadYAML(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Fingerprint hashes the canonical YAML encoding so tuning runs can be told apart in logs.
func (c Config) Fingerprint() uint64 {
	data, err := yaml.Marshal(c)
	if err != nil {
		return 0
	}
	return xxhash.Sum64(data)
}
