package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestInitLogger(t *testing.T) {
	prev := Logger
	defer func() { Logger = prev }()

	assert.NoError(t, InitLogger("warn"))
	assert.False(t, Logger.Core().Enabled(zap.InfoLevel))
	assert.True(t, Logger.Core().Enabled(zap.WarnLevel))

	assert.Error(t, InitLogger("loud"))
}
