package environment

import "errors"

var (
	// ErrIllegalAction is returned when an action is outside of the
	// action space: a bad index or a vector of the wrong width. Illegal
	// actions are never clipped.
	ErrIllegalAction = errors.New("illegal action")

	// ErrEpisodeOver is returned by Run when the episode has already
	// reached a terminal state. Environments never reset themselves;
	// the caller must call ResetWithSeed.
	ErrEpisodeOver = errors.New("episode is over")

	// ErrConfig is returned when an environment is constructed with an
	// unsupported or missing configuration parameter
	ErrConfig = errors.New("invalid configuration")

	// ErrNonFiniteReward is returned when a transition produces a NaN
	// or infinite reward
	ErrNonFiniteReward = errors.New("non-finite reward")

	// ErrObservation is returned when an observation of the wrong type
	// is given to ObservationVector
	ErrObservation = errors.New("unsupported observation")
)
