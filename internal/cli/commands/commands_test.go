// Package commands tests for CLI command creation.
package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewScanCommand(t *testing.T) {
	cmd := NewScanCommand()

	assert.Equal(t, "scan <model.tcf>", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")
	assert.NotNil(t, cmd.Flags().Lookup("format"), "flag format should exist")
}

func TestNewTreeCommand(t *testing.T) {
	cmd := NewTreeCommand()

	assert.Equal(t, "tree <model.tcf>", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotNil(t, cmd.Flags().Lookup("yaml"), "flag yaml should exist")
}

func TestNewCheckCommand(t *testing.T) {
	cmd := NewCheckCommand()

	assert.Equal(t, "check <model.tcf>...", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")

	flags := []string{"format", "fail-on", "parallel"}
	for _, flag := range flags {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestNewRunCommand(t *testing.T) {
	cmd := NewRunCommand()

	assert.Equal(t, "run <model.tcf>", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotNil(t, cmd.Flags().Lookup("fail-on"), "flag fail-on should exist")
}

func TestNewPlaceholdersCommand(t *testing.T) {
	cmd := NewPlaceholdersCommand()

	assert.Equal(t, "placeholders <model.tcf>", cmd.Use)
	assert.NotNil(t, cmd.Flags().Lookup("strict"), "flag strict should exist")
}

func TestNewWatchCommand(t *testing.T) {
	cmd := NewWatchCommand()

	assert.Equal(t, "watch <model.tcf>", cmd.Use)
	assert.NotNil(t, cmd.Flags().Lookup("debounce"), "flag debounce should exist")
}

func TestNewHistoryCommand(t *testing.T) {
	cmd := NewHistoryCommand()

	assert.Equal(t, "history", cmd.Use)

	flags := []string{"model", "run", "limit", "format"}
	for _, flag := range flags {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}
