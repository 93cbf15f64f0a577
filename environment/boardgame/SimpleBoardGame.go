// Package boardgame implements SimpleBoardGame, a deterministic
// in-process environment with no external simulator
package boardgame

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/rs/zerolog/log"
	"github.com/samuelfneumann/envies/environment"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
	"gorgonia.org/tensor"
)

// DefaultBoardSize is the number of fields on a board when the
// configuration does not specify one
const DefaultBoardSize int = 4

// Config is the configuration of a SimpleBoardGame
type Config struct {
	BoardSize int `yaml:"board_size" json:"board_size"`

	// Seed seeds action sampling, the dynamics are deterministic
	Seed uint64 `yaml:"seed" json:"seed"`

	// Render logs every state reached through Run
	Render bool `yaml:"render" json:"render"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{BoardSize: DefaultBoardSize}
}

// Validate returns an error if the configuration is not valid
func (c Config) Validate() error {
	if c.BoardSize <= 0 {
		return fmt.Errorf("validate: board size must be positive, got %v: %w",
			c.BoardSize, environment.ErrConfig)
	}
	return nil
}

// SimpleBoardGame is a board of N fields. Each action visits one
// field, and the task is to visit every field exactly once. The state
// holds a visit counter per field.
//
// Every visit is rewarded with +1, unless the field has already been
// visited, in which case the reward is -1 and the episode is lost. The
// episode is won when every field has been visited exactly once, which
// takes exactly N steps.
//
// Every field can be visited at any time, so ValidActions always
// enumerates the whole board. Observations are []int copies of the
// state.
//
// SimpleBoardGame implements the environment.FiniteActions interface.
type SimpleBoardGame struct {
	config Config
	state  []int
	rng    distuv.Categorical
}

// New returns a new SimpleBoardGame, reset and ready to run
func New(c Config) (*SimpleBoardGame, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}

	weights := make([]float64, c.BoardSize)
	for i := range weights {
		weights[i] = 1.0 / float64(len(weights))
	}

	b := &SimpleBoardGame{
		config: c,
		rng:    distuv.NewCategorical(weights, rand.NewSource(c.Seed)),
	}
	if _, err := b.ResetWithSeed(c.Seed); err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}

	log.Debug().Int("board_size", c.BoardSize).Msg("created board game")
	return b, nil
}

// FromKwargs returns a new SimpleBoardGame configured by the default
// configuration updated with kw
func FromKwargs(kw environment.Kwargs) (*SimpleBoardGame, error) {
	c := DefaultConfig()
	if err := environment.DecodeKwargs(kw, &c); err != nil {
		return nil, fmt.Errorf("fromKwargs: %w", err)
	}
	return New(c)
}

// Config returns the configuration the game was constructed with
func (b *SimpleBoardGame) Config() Config {
	return b.config
}

// ResetWithSeed empties the board. The dynamics are deterministic, so
// seed is ignored.
func (b *SimpleBoardGame) ResetWithSeed(seed uint64) (environment.Observation,
	error) {
	b.state = make([]int, b.config.BoardSize)
	return b.Observation(), nil
}

// Run visits the field at index action
func (b *SimpleBoardGame) Run(action mat.Vector) (float64, error) {
	if b.IsTerminal() {
		return 0, fmt.Errorf("run: %w", environment.ErrEpisodeOver)
	}
	field, err := environment.ActionIndex(action, b.config.BoardSize)
	if err != nil {
		return 0, fmt.Errorf("run: %w", err)
	}

	b.state[field]++
	if b.config.Render {
		log.Info().Ints("state", b.state).Msg("board")
	}

	if b.LostEpisode() {
		return -1.0, nil
	}
	return 1.0, nil
}

// Observation returns a copy of the board as an []int
func (b *SimpleBoardGame) Observation() environment.Observation {
	return append([]int(nil), b.state...)
}

// ObservationVector returns the observation as a tensor of Dtype
// tensor.Int
func (b *SimpleBoardGame) ObservationVector(
	obs environment.Observation) (*tensor.Dense, error) {
	state, ok := obs.([]int)
	if !ok {
		return nil, fmt.Errorf("observationVector: expected []int but got "+
			"%T: %w", obs, environment.ErrObservation)
	}

	backing := append([]int(nil), state...)
	return tensor.New(tensor.WithShape(len(backing)),
		tensor.WithBacking(backing)), nil
}

// LostEpisode returns whether some field was visited more than once
func (b *SimpleBoardGame) LostEpisode() bool {
	for _, visits := range b.state {
		if visits > 1 {
			return true
		}
	}
	return false
}

// HasWon returns whether every field was visited exactly once
func (b *SimpleBoardGame) HasWon() bool {
	for _, visits := range b.state {
		if visits != 1 {
			return false
		}
	}
	return true
}

// IsTerminal returns whether the episode is won or lost
func (b *SimpleBoardGame) IsTerminal() bool {
	return b.LostEpisode() || b.HasWon()
}

// ValidActions returns the indices of all fields on the board
func (b *SimpleBoardGame) ValidActions() []int {
	actions := make([]int, b.config.BoardSize)
	for i := range actions {
		actions[i] = i
	}
	return actions
}

// SampleAction samples a field uniformly
func (b *SimpleBoardGame) SampleAction() *mat.VecDense {
	return environment.DiscreteAction(int(b.rng.Rand()))
}

// MaxSteps returns the board size, the length of a won episode
func (b *SimpleBoardGame) MaxSteps() (int, bool) {
	return b.config.BoardSize, true
}

// ActionSpec returns the action specification of the environment
func (b *SimpleBoardGame) ActionSpec() environment.Spec {
	return environment.NewDiscreteActionSpec(b.config.BoardSize)
}

// BuildRenderable returns a new SimpleBoardGame with the same
// configuration and rendering enabled
func (b *SimpleBoardGame) BuildRenderable() (environment.Environment, error) {
	c := b.config
	c.Render = true
	return New(c)
}

// Close implements the environment.Environment interface
func (b *SimpleBoardGame) Close() error {
	return nil
}

func (b *SimpleBoardGame) String() string {
	return fmt.Sprintf("SimpleBoardGame  |  %v  |  %v", b.state,
		environment.OutcomeOf(b))
}
