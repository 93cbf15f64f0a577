// Package envconfig provides a registry of named environment
// configurations. Each configuration names an environment and the
// flat keyword configuration to construct it with, so that a harness
// can create environments by name:
//
//	env, err := envconfig.Defaults().Create("CP")
//
// Registries can be loaded from YAML files of the form:
//
//	CP:
//	  environment: CartPole
//	  kwargs:
//	    max_steps: 200
//	    lost_reward: -10
package envconfig

import (
	"errors"
	"fmt"

	"github.com/samuelfneumann/envies/environment"
	"github.com/samuelfneumann/envies/environment/boardgame"
	"github.com/samuelfneumann/envies/environment/gymbased"
)

// EnvName stores the name of environments that can be configured with
// this package
type EnvName string

// Environments available for configuration
const (
	SimpleBoardGame EnvName = "SimpleBoardGame"
	CartPole        EnvName = "CartPole"
	Acrobot         EnvName = "Acrobot"
	LunarLander     EnvName = "LunarLander"
)

// EnvNames returns all environments available for configuration
func EnvNames() []EnvName {
	return []EnvName{SimpleBoardGame, CartPole, Acrobot, LunarLander}
}

// ErrUnknownConfig is returned when no configuration is registered
// with a requested name
var ErrUnknownConfig = errors.New("unknown configuration")

// Config implements a specific configuration of a specific environment
type Config struct {
	Environment EnvName            `yaml:"environment" json:"environment"`
	Kwargs      environment.Kwargs `yaml:"kwargs,omitempty" json:"kwargs,omitempty"`
}

// NewConfig returns a new environment Config
func NewConfig(envName EnvName, kw environment.Kwargs) Config {
	return Config{Environment: envName, Kwargs: kw}
}

// Create returns a new environment described by the Config
func (c Config) Create() (environment.Environment, error) {
	var (
		env environment.Environment
		err error
	)

	switch c.Environment {
	case SimpleBoardGame:
		env, err = boardgame.FromKwargs(c.Kwargs)

	case CartPole:
		env, err = gymbased.CartPoleFromKwargs(c.Kwargs)

	case Acrobot:
		env, err = gymbased.AcrobotFromKwargs(c.Kwargs)

	case LunarLander:
		env, err = gymbased.LunarLanderFromKwargs(c.Kwargs)

	default:
		return nil, fmt.Errorf("create: cannot create environment %q, no "+
			"such environment: %w", c.Environment, environment.ErrConfig)
	}

	if err != nil {
		return nil, fmt.Errorf("create: %w", err)
	}
	return env, nil
}

// WithKwargs returns a copy of the Config with its keyword
// configuration updated by kw
func (c Config) WithKwargs(kw environment.Kwargs) Config {
	merged := make(environment.Kwargs, len(c.Kwargs)+len(kw))
	for k, v := range c.Kwargs {
		merged[k] = v
	}
	for k, v := range kw {
		merged[k] = v
	}
	return Config{Environment: c.Environment, Kwargs: merged}
}
