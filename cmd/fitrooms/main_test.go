package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitrooms/internal/config"
)

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
		assert.NotEmpty(t, cmd.Short, cmd.Name())
	}
	for _, want := range []string{"serve", "sweep", "migrate"} {
		assert.True(t, names[want], "missing command %s", want)
	}
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
}

func TestOpenStore(t *testing.T) {
	st, err := openStore(config.DatabaseConfig{Driver: "memory"})
	require.NoError(t, err)
	require.NotNil(t, st.sessions)
	require.NoError(t, st.close())

	_, err = openStore(config.DatabaseConfig{Driver: "sqlite"})
	require.Error(t, err)
}

func TestSweepWithMemoryStore(t *testing.T) {
	t.Setenv("FITROOMS_DATABASE_DRIVER", "memory")
	t.Setenv("FITROOMS_LOG_LEVEL", "error")
	configPath = ""

	rt, err := setup(nil)
	require.NoError(t, err)
	defer rt.closer()

	assert.Equal(t, "memory", rt.cfg.Database.Driver)
	require.NoError(t, rt.sweep(context.Background()))
}
