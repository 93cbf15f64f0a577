//go:build gogym

package gymbased

// Building with the gogym tag makes the OpenAI Gym simulators
// available to the adapters, for example with
// Config.Simulator = "gym:CartPole-v1"
import _ "github.com/samuelfneumann/envies/simulator/gymsim"
