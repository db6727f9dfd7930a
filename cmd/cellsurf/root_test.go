package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vidyasagar/cellsurf/internal/mode"
	"github.com/vidyasagar/cellsurf/internal/storage"
)

func TestStartMode(t *testing.T) {
	assert.Equal(t, mode.Public, startMode("/target/CID000828?mode=private"))

	old := mode.Default
	mode.Default = string(mode.Private)
	t.Cleanup(func() { mode.Default = old })

	assert.Equal(t, mode.Private, startMode(""))
	assert.Equal(t, mode.Private, startMode("MAP4"))
	assert.Equal(t, mode.Private, startMode("/fovs/CID000828"))
	assert.Equal(t, mode.Public, startMode("/fovs/CID000828?mode=public"))
	assert.Equal(t, mode.Private, startMode("/targets?mode=bogus"))
}

func TestRootFlags(t *testing.T) {
	cmd := newRootCmd()
	for _, name := range []string{"config", "theme", "api", "pages-url", "log-level"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
	assert.Equal(t, version, cmd.Version)
}

func TestFlagOverridesConfig(t *testing.T) {
	v := storage.NewViper()
	cmd := newCommand(v)
	assert.Equal(t, "info", v.GetString("log.level"))

	require.NoError(t, cmd.Flags().Set("api", "http://localhost:5000/api"))
	require.NoError(t, cmd.Flags().Set("log-level", "debug"))

	assert.Equal(t, "http://localhost:5000/api", v.GetString("api.url"))
	assert.Equal(t, "debug", v.GetString("log.level"))
	assert.Equal(t, "opencell", v.GetString("theme"))
}
