// Package gymbased implements environments which adapt external
// simulators, in the style of OpenAI Gym environments, to the
// environment.Environment interface.
//
// Each adapter wraps a simulator created by id through the simulator
// registry. The adapter counts the steps of each episode and
// classifies finished episodes uniformly: an episode that the
// simulator ends before the configured step budget is lost, and an
// episode that runs out the full budget is won. Adapters then compute
// the reward of each step from the simulator's native reward with a
// RewardFunc.
//
// Simulators must be registered before an adapter can use them, which
// is done by importing the simulator packages. This package imports
// the native CartPole, Acrobot, and LunarLander simulators.
package gymbased

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/samuelfneumann/envies/environment"
	"github.com/samuelfneumann/envies/simulator"
	"github.com/samuelfneumann/envies/utils/floatutils"
	"github.com/samuelfneumann/envies/utils/tensorutils"
	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"

	_ "github.com/samuelfneumann/envies/simulator/box2d/lunarlander"
	_ "github.com/samuelfneumann/envies/simulator/classiccontrol/acrobot"
	_ "github.com/samuelfneumann/envies/simulator/classiccontrol/cartpole"
)

// DefaultMaxSteps is the default step budget of all adapters
const DefaultMaxSteps int = 500

// Config is the configuration shared by all adapters
type Config struct {
	// Simulator is the id of the simulator to adapt
	Simulator string `yaml:"simulator" json:"simulator"`

	// MaxSteps is the step budget of each episode
	MaxSteps int `yaml:"max_steps" json:"max_steps"`

	// Seed seeds the simulator's action sampling and the first
	// episode
	Seed uint64 `yaml:"seed" json:"seed"`

	Render    bool   `yaml:"render" json:"render"`
	RenderDir string `yaml:"render_dir" json:"render_dir"`
}

// Validate returns an error if the configuration is not valid
func (c Config) Validate() error {
	if c.Simulator == "" {
		return fmt.Errorf("validate: no simulator id: %w", environment.ErrConfig)
	}
	if c.MaxSteps <= 0 {
		return fmt.Errorf("validate: max steps must be positive, got %v: %w",
			c.MaxSteps, environment.ErrConfig)
	}
	return nil
}

func (c Config) options() simulator.Options {
	return simulator.Options{
		MaxEpisodeSteps: c.MaxSteps,
		Seed:            c.Seed,
		Render:          c.Render,
		RenderDir:       c.RenderDir,
	}
}

// makeFunc creates the simulator with the given id
type makeFunc func(id string, o simulator.Options) (simulator.Simulator, error)

// RewardFunc computes the reward returned by an adapter's Run from the
// native reward of the simulator and the classification of the episode
// after the step
type RewardFunc func(native float64, won, lost bool) float64

// Identity passes the native reward through unchanged
func Identity(native float64, won, lost bool) float64 {
	return native
}

// base implements the parts of the environment.Environment interface
// common to all adapters
type base struct {
	sim    simulator.Simulator
	maker  makeFunc
	config Config
	reward RewardFunc

	state  *mat.VecDense
	step   int
	isOver bool
}

// newBase creates the simulator and resets it with the configured seed
func newBase(c Config, maker makeFunc, reward RewardFunc) (*base, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	sim, err := maker(c.Simulator, c.options())
	if err != nil {
		return nil, fmt.Errorf("newBase: %w: %w", err, environment.ErrConfig)
	}

	b := &base{sim: sim, maker: maker, config: c, reward: reward}
	if _, err := b.ResetWithSeed(c.Seed); err != nil {
		sim.Close()
		return nil, err
	}

	log.Debug().Str("simulator", c.Simulator).Int("maxSteps", c.MaxSteps).
		Msg("created adapter")
	return b, nil
}

// ResetWithSeed resets the simulator with seed and returns the first
// observation of the new episode, a *mat.VecDense
func (b *base) ResetWithSeed(seed uint64) (environment.Observation, error) {
	state, err := b.sim.Reset(seed)
	if err != nil {
		return nil, fmt.Errorf("resetWithSeed: %v", err)
	}
	b.state = state
	b.step = 0
	b.isOver = false

	return b.Observation(), nil
}

// checkAction returns an error wrapping environment.ErrIllegalAction
// if a is not in the simulator's action space. Continuous actions are
// checked only for their width.
func (b *base) checkAction(a mat.Vector) error {
	switch space := b.sim.ActionSpace().(type) {
	case *simulator.Discrete:
		_, err := environment.ActionIndex(a, space.N)
		return err
	default:
		return environment.CheckWidth(a, space.Width())
	}
}

// Run takes one step in the simulator with action a and returns the
// reward for the step
func (b *base) Run(a mat.Vector) (float64, error) {
	if b.IsTerminal() {
		return 0, fmt.Errorf("run: %w", environment.ErrEpisodeOver)
	}
	if err := b.checkAction(a); err != nil {
		return 0, fmt.Errorf("run: %w", err)
	}

	step, err := b.sim.Step(mat.VecDenseCopyOf(a))
	if err != nil {
		return 0, fmt.Errorf("run: %v", err)
	}

	b.step++
	b.state = step.Observation
	b.isOver = step.Last() || b.step >= b.config.MaxSteps

	won, lost := b.HasWon(), b.LostEpisode()
	reward := b.reward(step.Reward, won, lost)
	if !floatutils.Finite(reward) {
		return 0, fmt.Errorf("run: reward %v at step %v: %w", reward, b.step,
			environment.ErrNonFiniteReward)
	}
	return reward, nil
}

// Observation returns a copy of the last observation, a *mat.VecDense
func (b *base) Observation() environment.Observation {
	return mat.VecDenseCopyOf(b.state)
}

// ObservationVector returns the observation as a tensor of Dtype
// tensor.Float64
func (b *base) ObservationVector(
	obs environment.Observation) (*tensor.Dense, error) {
	v, ok := obs.(mat.Vector)
	if !ok {
		return nil, fmt.Errorf("observationVector: expected mat.Vector but "+
			"got %T: %w", obs, environment.ErrObservation)
	}

	return tensorutils.FromVector(v), nil
}

// outcome classifies the current episode
func (b *base) outcome() environment.Outcome {
	return environment.ClassifyBudget(b.isOver, b.step, b.config.MaxSteps)
}

// LostEpisode returns whether the simulator ended the episode before
// the step budget ran out
func (b *base) LostEpisode() bool {
	return b.outcome() == environment.Lost
}

// HasWon returns whether the episode ran out the full step budget
func (b *base) HasWon() bool {
	return b.outcome() == environment.Won
}

// IsTerminal returns whether the episode is won or lost
func (b *base) IsTerminal() bool {
	return b.outcome().Terminal()
}

// Steps returns the number of steps taken in the current episode
func (b *base) Steps() int {
	return b.step
}

// SampleAction samples an action from the simulator
func (b *base) SampleAction() *mat.VecDense {
	return b.sim.SampleAction()
}

// MaxSteps returns the step budget of episodes
func (b *base) MaxSteps() (int, bool) {
	return b.config.MaxSteps, true
}

// ActionSpec returns the action specification of the simulator
func (b *base) ActionSpec() environment.Spec {
	switch space := b.sim.ActionSpace().(type) {
	case *simulator.Discrete:
		return environment.NewDiscreteActionSpec(space.N)
	case *simulator.Box:
		return environment.NewContinuousActionSpec(space.Low.RawVector().Data,
			space.High.RawVector().Data)
	}
	panic(fmt.Sprintf("actionSpec: unknown action space %T",
		b.sim.ActionSpace()))
}

// renderable returns a base with the same configuration and rendering
// enabled
func (b *base) renderable() (*base, error) {
	c := b.config
	c.Render = true
	return newBase(c, b.maker, b.reward)
}

// Close closes the simulator
func (b *base) Close() error {
	return b.sim.Close()
}

// discrete returns the number of actions of a simulator with a
// discrete action space, or an error if the action space is not
// discrete
func discrete(sim simulator.Simulator) (int, error) {
	space, ok := sim.ActionSpace().(*simulator.Discrete)
	if !ok {
		return 0, fmt.Errorf("simulator has action space %T but should have "+
			"discrete actions: %w", sim.ActionSpace(), environment.ErrConfig)
	}
	return space.N, nil
}

// validActions enumerates a discrete action space of n actions
func validActions(n int) []int {
	actions := make([]int, n)
	for i := range actions {
		actions[i] = i
	}
	return actions
}
