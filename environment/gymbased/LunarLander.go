package gymbased

import (
	"fmt"

	"github.com/samuelfneumann/envies/environment"
	"github.com/samuelfneumann/envies/simulator"
	"github.com/samuelfneumann/envies/simulator/box2d/lunarlander"
)

// LunarLanderActionWidth is the width of LunarLander actions:
// [main engine, lateral engines]
const LunarLanderActionWidth int = 2

// LunarLanderConfig configures a LunarLander environment
type LunarLanderConfig struct {
	Config `yaml:",inline"`
}

// DefaultLunarLanderConfig returns the default LunarLander
// configuration
func DefaultLunarLanderConfig() LunarLanderConfig {
	return LunarLanderConfig{
		Config: Config{
			Simulator: lunarlander.ID,
			MaxSteps:  DefaultMaxSteps,
		},
	}
}

// LunarLander adapts a continuous-thrust lander simulator. Actions are
// 2-dimensional: the main engine is off for values below 0 and
// throttles affinely from 50% to 100% power on [0, 1], the lateral
// engines are off on (-0.5, 0.5) and throttle affinely from 50% to
// 100% power towards -1 (left) and 1 (right). The throttling is done
// by the simulator. The native reward is returned unchanged.
//
// LunarLander implements the environment.ContinuousActions interface.
type LunarLander struct {
	*base
	config LunarLanderConfig
}

// NewLunarLander returns a new LunarLander environment
func NewLunarLander(c LunarLanderConfig) (*LunarLander, error) {
	return newLunarLander(c, simulator.Make)
}

func newLunarLander(c LunarLanderConfig,
	maker makeFunc) (*LunarLander, error) {
	b, err := newBase(c.Config, maker, Identity)
	if err != nil {
		return nil, fmt.Errorf("newLunarLander: %w", err)
	}

	space, ok := b.sim.ActionSpace().(*simulator.Box)
	if !ok || space.Width() != LunarLanderActionWidth {
		b.Close()
		return nil, fmt.Errorf("newLunarLander: simulator should have "+
			"%v-dimensional continuous actions: %w", LunarLanderActionWidth,
			environment.ErrConfig)
	}

	return &LunarLander{base: b, config: c}, nil
}

// LunarLanderFromKwargs returns a new LunarLander environment
// configured by the default configuration updated with kw
func LunarLanderFromKwargs(kw environment.Kwargs) (*LunarLander, error) {
	c := DefaultLunarLanderConfig()
	if err := environment.DecodeKwargs(kw, &c); err != nil {
		return nil, fmt.Errorf("lunarLanderFromKwargs: %w", err)
	}
	return NewLunarLander(c)
}

// Config returns the configuration the environment was constructed
// with
func (l *LunarLander) Config() LunarLanderConfig {
	return l.config
}

// ActionWidth returns the width of actions
func (l *LunarLander) ActionWidth() int {
	return LunarLanderActionWidth
}

// BuildRenderable returns a new LunarLander environment with the same
// configuration and rendering enabled
func (l *LunarLander) BuildRenderable() (environment.Environment, error) {
	b, err := l.base.renderable()
	if err != nil {
		return nil, fmt.Errorf("buildRenderable: %w", err)
	}

	config := l.config
	config.Render = true
	return &LunarLander{base: b, config: config}, nil
}
