package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRoutesByLevel(t *testing.T) {
	var stdout, stderr bytes.Buffer
	logger := New(&stdout, &stderr, false)

	logger.Debug("hidden")
	logger.Info("status line")
	logger.Error("problem line")

	assert.Contains(t, stdout.String(), "status line")
	assert.NotContains(t, stdout.String(), "problem line")
	assert.NotContains(t, stdout.String(), "hidden")
	assert.Contains(t, stderr.String(), "problem line")
	assert.NotContains(t, stderr.String(), "status line")
}

func TestNewVerbose(t *testing.T) {
	var stdout, stderr bytes.Buffer
	logger := New(&stdout, &stderr, true)

	logger.Debug("details")

	assert.Contains(t, stdout.String(), "details")
	assert.Empty(t, stderr.String())
}
