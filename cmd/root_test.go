package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserCommandRequiresFlags(t *testing.T) {
	cmd := newCreateUserCommand()
	cmd.SetArgs([]string{"--email", "staff@example.com"})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	err := cmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), `"password" not set`)
}
