package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clihub/clihub/internal/mcp"
)

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	versionCmd.Run(versionCmd, nil)

	assert.Contains(t, out.String(), "clihub version")
}

func TestParseKeyValues(t *testing.T) {
	env, err := parseKeyValues([]string{"A=1", "B=x=y"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"A": "1", "B": "x=y"}, env)

	_, err = parseKeyValues([]string{"missing-separator"})
	assert.Error(t, err)

	_, err = parseKeyValues([]string{"=value"})
	assert.Error(t, err)

	env, err = parseKeyValues(nil)
	require.NoError(t, err)
	assert.Nil(t, env)
}

func TestEnabledClients(t *testing.T) {
	srv := &mcp.Server{ID: "fs", Apps: mcp.AppFlags{Claude: true, Gemini: true}}
	assert.Equal(t, "claude,gemini", enabledClients(srv))

	assert.Equal(t, "-", enabledClients(&mcp.Server{ID: "fs"}))
}
