package envconfig

import (
	"fmt"
	"io"
	"os"

	"github.com/samuelfneumann/envies/environment"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

// Registry maps configuration names to configurations
type Registry map[string]Config

// Defaults returns the built-in configurations
func Defaults() Registry {
	return Registry{
		"SBG": NewConfig(SimpleBoardGame, environment.Kwargs{
			"board_size": 6,
		}),
		"CP": NewConfig(CartPole, environment.Kwargs{
			"step_reward": 0.1,
			"won_reward":  0.1,
			"lost_reward": 0.0,
		}),
		"AB": NewConfig(Acrobot, nil),
		"LL": NewConfig(LunarLander, nil),
	}
}

// Load decodes a YAML registry from r. Unknown fields are rejected.
func Load(r io.Reader) (Registry, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	registry := Registry{}
	if err := decoder.Decode(&registry); err != nil && err != io.EOF {
		return nil, fmt.Errorf("load: could not decode registry: %v: %w",
			err, environment.ErrConfig)
	}

	for name, config := range registry {
		if config.Environment == "" {
			return nil, fmt.Errorf("load: configuration %q names no "+
				"environment: %w", name, environment.ErrConfig)
		}
	}
	return registry, nil
}

// LoadFile decodes a YAML registry from the file at path
func LoadFile(path string) (Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loadFile: %v", err)
	}
	defer f.Close()

	registry, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("loadFile: %v: %w", path, err)
	}
	return registry, nil
}

// Merge returns a new Registry holding the configurations of r and
// other. Configurations in other replace those of r with the same
// name.
func (r Registry) Merge(other Registry) Registry {
	merged := maps.Clone(r)
	if merged == nil {
		merged = Registry{}
	}
	maps.Copy(merged, other)
	return merged
}

// Names returns the sorted names of all configurations
func (r Registry) Names() []string {
	names := maps.Keys(r)
	slices.Sort(names)
	return names
}

// Get returns the configuration registered with name
func (r Registry) Get(name string) (Config, error) {
	config, ok := r[name]
	if !ok {
		return Config{}, fmt.Errorf("get: %q: %w", name, ErrUnknownConfig)
	}
	return config, nil
}

// Create returns a new environment from the configuration registered
// with name
func (r Registry) Create(name string) (environment.Environment, error) {
	config, err := r.Get(name)
	if err != nil {
		return nil, fmt.Errorf("create: %w", err)
	}
	return config.Create()
}
