package envconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/samuelfneumann/envies/environment"
	"github.com/samuelfneumann/envies/environment/boardgame"
	"github.com/samuelfneumann/envies/environment/gymbased"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	registry := Defaults()
	require.Equal(t, []string{"AB", "CP", "LL", "SBG"}, registry.Names())

	for _, name := range registry.Names() {
		t.Run(name, func(t *testing.T) {
			env, err := registry.Create(name)
			require.NoError(t, err)
			require.False(t, env.IsTerminal())
			require.NoError(t, env.Close())
		})
	}

	env, err := registry.Create("SBG")
	require.NoError(t, err)
	require.Equal(t, 6, env.(*boardgame.SimpleBoardGame).Config().BoardSize)

	env, err = registry.Create("CP")
	require.NoError(t, err)
	cp := env.(*gymbased.CartPole).Config()
	require.Equal(t, 0.1, cp.StepReward)
	require.Equal(t, 0.0, cp.LostReward)
}

func TestUnknown(t *testing.T) {
	_, err := Defaults().Create("QTable")
	require.ErrorIs(t, err, ErrUnknownConfig)

	_, err = NewConfig("Pong", nil).Create()
	require.ErrorIs(t, err, environment.ErrConfig)

	_, err = NewConfig(CartPole, environment.Kwargs{"board_size": 3}).Create()
	require.ErrorIs(t, err, environment.ErrConfig)
}

func TestLoad(t *testing.T) {
	doc := `
CP200:
  environment: CartPole
  kwargs:
    max_steps: 200
    lost_reward: -10
SBG:
  environment: SimpleBoardGame
  kwargs:
    board_size: 3
`
	loaded, err := Load(strings.NewReader(doc))
	require.NoError(t, err)
	require.Equal(t, []string{"CP200", "SBG"}, loaded.Names())

	registry := Defaults().Merge(loaded)
	require.Equal(t, []string{"AB", "CP", "CP200", "LL", "SBG"},
		registry.Names())
	require.Len(t, Defaults(), 4, "merging does not modify the receiver")

	env, err := registry.Create("CP200")
	require.NoError(t, err)
	steps, _ := env.MaxSteps()
	require.Equal(t, 200, steps)

	env, err = registry.Create("SBG")
	require.NoError(t, err)
	steps, _ = env.MaxSteps()
	require.Equal(t, 3, steps)
}

func TestLoadErrors(t *testing.T) {
	for name, doc := range map[string]string{
		"unknown field":  "CP:\n  environment: CartPole\n  kwarg: {}\n",
		"no environment": "CP:\n  kwargs: {max_steps: 3}\n",
		"not a mapping":  "- CartPole\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Load(strings.NewReader(doc))
			require.ErrorIs(t, err, environment.ErrConfig)
		})
	}

	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "envs.yaml")
	doc := "LL100:\n  environment: LunarLander\n  kwargs: {max_steps: 100}\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	registry, err := LoadFile(path)
	require.NoError(t, err)
	config, err := registry.Get("LL100")
	require.NoError(t, err)
	require.Equal(t, LunarLander, config.Environment)
	require.Equal(t, 100, config.Kwargs["max_steps"])
}

func TestWithKwargs(t *testing.T) {
	base := NewConfig(SimpleBoardGame, environment.Kwargs{"board_size": 6})
	config := base.WithKwargs(environment.Kwargs{"render": true})

	require.Equal(t, environment.Kwargs{"board_size": 6}, base.Kwargs)
	require.Equal(t, environment.Kwargs{"board_size": 6, "render": true},
		config.Kwargs)
}
