package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matthieukhl/drinkstand/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, _, err := New(config.LogConfig{Level: "loud"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestNewTeesIntoFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stand.log")

	logger, closeFn, err := New(config.LogConfig{Level: "info", File: path})
	require.NoError(t, err)

	logger.Info("order created")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `"msg":"order created"`))
}

func TestOpenLogFileEmptyPath(t *testing.T) {
	file, err := OpenLogFile("")
	require.NoError(t, err)
	assert.Nil(t, file)
}
