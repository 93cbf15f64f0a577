package gymbased

import (
	"fmt"

	"github.com/samuelfneumann/envies/environment"
	"github.com/samuelfneumann/envies/simulator"
	"github.com/samuelfneumann/envies/simulator/classiccontrol/cartpole"
)

// CartPoleConfig configures a CartPole environment
type CartPoleConfig struct {
	Config `yaml:",inline"`

	// StepReward is returned on every step which does not end the
	// episode
	StepReward float64 `yaml:"step_reward" json:"step_reward"`

	// WonReward and LostReward are returned on the step which wins or
	// loses the episode
	WonReward  float64 `yaml:"won_reward" json:"won_reward"`
	LostReward float64 `yaml:"lost_reward" json:"lost_reward"`
}

// DefaultCartPoleConfig returns the default CartPole configuration
func DefaultCartPoleConfig() CartPoleConfig {
	return CartPoleConfig{
		Config: Config{
			Simulator: cartpole.ID,
			MaxSteps:  DefaultMaxSteps,
		},
		StepReward: 1.0,
		WonReward:  100.0,
		LostReward: -100.0,
	}
}

// BalanceReward returns a RewardFunc which replaces the native reward
// with constant rewards for running, won, and lost steps
func BalanceReward(step, won, lost float64) RewardFunc {
	return func(_ float64, isWon, isLost bool) float64 {
		switch {
		case isWon:
			return won
		case isLost:
			return lost
		default:
			return step
		}
	}
}

// CartPole adapts a pole balancing simulator. The task is to keep the
// pole balanced for the full step budget. The native reward is
// replaced entirely, see BalanceReward.
//
// CartPole implements the environment.FiniteActions interface.
type CartPole struct {
	*base
	config     CartPoleConfig
	numActions int
}

// NewCartPole returns a new CartPole environment
func NewCartPole(c CartPoleConfig) (*CartPole, error) {
	return newCartPole(c, simulator.Make)
}

func newCartPole(c CartPoleConfig, maker makeFunc) (*CartPole, error) {
	reward := BalanceReward(c.StepReward, c.WonReward, c.LostReward)
	b, err := newBase(c.Config, maker, reward)
	if err != nil {
		return nil, fmt.Errorf("newCartPole: %w", err)
	}

	n, err := discrete(b.sim)
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("newCartPole: %w", err)
	}

	return &CartPole{base: b, config: c, numActions: n}, nil
}

// CartPoleFromKwargs returns a new CartPole environment configured by
// the default configuration updated with kw
func CartPoleFromKwargs(kw environment.Kwargs) (*CartPole, error) {
	c := DefaultCartPoleConfig()
	if err := environment.DecodeKwargs(kw, &c); err != nil {
		return nil, fmt.Errorf("cartPoleFromKwargs: %w", err)
	}
	return NewCartPole(c)
}

// Config returns the configuration the environment was constructed
// with
func (c *CartPole) Config() CartPoleConfig {
	return c.config
}

// ValidActions returns the actions of the simulator
func (c *CartPole) ValidActions() []int {
	return validActions(c.numActions)
}

// BuildRenderable returns a new CartPole environment with the same
// configuration and rendering enabled
func (c *CartPole) BuildRenderable() (environment.Environment, error) {
	b, err := c.base.renderable()
	if err != nil {
		return nil, fmt.Errorf("buildRenderable: %w", err)
	}

	config := c.config
	config.Render = true
	return &CartPole{base: b, config: config, numActions: c.numActions}, nil
}
