package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply(t *testing.T) {
	cmd := Apply()

	require.NotNil(t, cmd)
	assert.Equal(t, "apply", cmd.Use)
	assert.NotNil(t, cmd.RunE)
}

func TestApply_Flags(t *testing.T) {
	cmd := Apply()

	config := cmd.Flags().Lookup("config")
	require.NotNil(t, config)
	assert.Equal(t, "c", config.Shorthand)

	unit := cmd.Flags().Lookup("unit")
	require.NotNil(t, unit)
	assert.Equal(t, "u", unit.Shorthand)
}

func TestDestroy_ConfigRequired(t *testing.T) {
	cmd := Destroy()

	flag := cmd.Flags().Lookup("config")
	require.NotNil(t, flag)
	_, required := flag.Annotations["cobra_annotation_bash_completion_one_required_flag"]
	assert.True(t, required, "destroy refuses to run without an explicit config")
}
