package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_ReturnsConfigError(t *testing.T) {
	t.Setenv("MONGODB_URI", "")
	t.Setenv("EVENTHUB_DATABASE__URI", "")

	err := run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestRun_ReturnsStartupErrorInsteadOfExiting(t *testing.T) {
	t.Setenv("EVENTHUB_DATABASE__URI", "mongodb://127.0.0.1:1/?serverSelectionTimeoutMS=100&connectTimeoutMS=100")
	t.Setenv("EVENTHUB_DATABASE__PING_TIMEOUT", "1s")
	t.Setenv("EVENTHUB_OBSERVABILITY__LOGGING__LEVEL", "error")

	err := run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to initialize server")
}
