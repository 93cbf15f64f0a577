package gymbased

import (
	"fmt"

	"github.com/samuelfneumann/envies/environment"
	"github.com/samuelfneumann/envies/simulator"
	"github.com/samuelfneumann/envies/simulator/classiccontrol/acrobot"
)

// AcrobotConfig configures an Acrobot environment
type AcrobotConfig struct {
	Config `yaml:",inline"`

	// EndGameReward replaces the native reward on the step which wins
	// the episode
	EndGameReward float64 `yaml:"end_game_reward" json:"end_game_reward"`
}

// DefaultAcrobotConfig returns the default Acrobot configuration
func DefaultAcrobotConfig() AcrobotConfig {
	return AcrobotConfig{
		Config: Config{
			Simulator: acrobot.ID,
			MaxSteps:  DefaultMaxSteps,
		},
		EndGameReward: 100.0,
	}
}

// SwingUpReward returns a RewardFunc which passes the native reward
// through, except on the winning step where endGame is returned
func SwingUpReward(endGame float64) RewardFunc {
	return func(native float64, won, _ bool) float64 {
		if won {
			return endGame
		}
		return native
	}
}

// Acrobot adapts a swing-up simulator. Like every adapter, an episode
// is won when it runs out the step budget, see SwingUpReward for the
// reward.
//
// Acrobot implements the environment.FiniteActions interface.
type Acrobot struct {
	*base
	config     AcrobotConfig
	numActions int
}

// NewAcrobot returns a new Acrobot environment
func NewAcrobot(c AcrobotConfig) (*Acrobot, error) {
	return newAcrobot(c, simulator.Make)
}

func newAcrobot(c AcrobotConfig, maker makeFunc) (*Acrobot, error) {
	b, err := newBase(c.Config, maker, SwingUpReward(c.EndGameReward))
	if err != nil {
		return nil, fmt.Errorf("newAcrobot: %w", err)
	}

	n, err := discrete(b.sim)
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("newAcrobot: %w", err)
	}

	return &Acrobot{base: b, config: c, numActions: n}, nil
}

// AcrobotFromKwargs returns a new Acrobot environment configured by
// the default configuration updated with kw
func AcrobotFromKwargs(kw environment.Kwargs) (*Acrobot, error) {
	c := DefaultAcrobotConfig()
	if err := environment.DecodeKwargs(kw, &c); err != nil {
		return nil, fmt.Errorf("acrobotFromKwargs: %w", err)
	}
	return NewAcrobot(c)
}

// Config returns the configuration the environment was constructed
// with
func (a *Acrobot) Config() AcrobotConfig {
	return a.config
}

// ValidActions returns the actions of the simulator
func (a *Acrobot) ValidActions() []int {
	return validActions(a.numActions)
}

// BuildRenderable returns a new Acrobot environment with the same
// configuration and rendering enabled
func (a *Acrobot) BuildRenderable() (environment.Environment, error) {
	b, err := a.base.renderable()
	if err != nil {
		return nil, fmt.Errorf("buildRenderable: %w", err)
	}

	config := a.config
	config.Render = true
	return &Acrobot{base: b, config: config, numActions: a.numActions}, nil
}
