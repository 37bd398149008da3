package logging

import (
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLevelAndFormat(t *testing.T) {
	defer log.SetOutput(os.Stderr)

	closer, err := Setup(Config{Level: "debug", Format: "json"})
	require.NoError(t, err)
	defer closer.Close()

	assert.Equal(t, log.DebugLevel, log.GetLevel())
	_, isJSON := log.StandardLogger().Formatter.(*log.JSONFormatter)
	assert.True(t, isJSON)
}

func TestSetupRejectsBadValues(t *testing.T) {
	_, err := Setup(Config{Level: "loud"})
	assert.Error(t, err)

	_, err = Setup(Config{Level: "info", Format: "xml"})
	assert.Error(t, err)
}

func TestSetupWritesToFile(t *testing.T) {
	defer log.SetOutput(os.Stderr)

	path := filepath.Join(t.TempDir(), "escrowd.log")
	closer, err := Setup(Config{Level: "info", File: path, MaxSizeMB: 1})
	require.NoError(t, err)

	WithModule("test").Info("hello")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "module=test")
	assert.Contains(t, string(data), "hello")
}
