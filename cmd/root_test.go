package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"run", "batch", "serve", "leads"} {
		assert.True(t, names[want], "command %s not registered", want)
	}
}

func TestRequiredFlags(t *testing.T) {
	for cmd, flag := range map[*cobra.Command]string{
		runCmd:   "target",
		batchCmd: "file",
	} {
		f := cmd.Flags().Lookup(flag)
		require.NotNil(t, f, "%s --%s", cmd.Name(), flag)
		assert.NotEmpty(t, f.Annotations[cobra.BashCompOneRequiredFlag],
			"%s --%s should be required", cmd.Name(), flag)
	}
}
