package environment

import "fmt"

// Outcome is the state of an episode. Running is the initial state;
// Won and Lost are absorbing until the next ResetWithSeed.
type Outcome int

const (
	Running Outcome = iota
	Won
	Lost
)

func (o Outcome) String() string {
	switch o {
	case Running:
		return "Running"
	case Won:
		return "Won"
	case Lost:
		return "Lost"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Terminal returns whether the outcome ends the episode
func (o Outcome) Terminal() bool {
	return o == Won || o == Lost
}

// Classify returns the Outcome given the won and lost predicates of an
// environment. Well-formed environments never report both; if they do,
// Classify panics.
func Classify(won, lost bool) Outcome {
	switch {
	case won && lost:
		panic("classify: episode cannot be both won and lost")
	case won:
		return Won
	case lost:
		return Lost
	default:
		return Running
	}
}

// OutcomeOf returns the current Outcome of an environment's episode
func OutcomeOf(e Environment) Outcome {
	return Classify(e.HasWon(), e.LostEpisode())
}

// ClassifyBudget classifies an episode of a step-budgeted environment.
// An episode that is over before steps reaches maxSteps is lost; one
// that is over after running the full budget is won. While the
// episode is not over, it is running.
func ClassifyBudget(isOver bool, steps, maxSteps int) Outcome {
	if !isOver {
		return Running
	}
	if steps < maxSteps {
		return Lost
	}
	return Won
}
