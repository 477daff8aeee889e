package gemini_test

import (
	"context"
	"testing"

	"github.com/fwojciec/docchat"
	"github.com/fwojciec/docchat/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_Generate_ReturnsErrorWhenPromptEmpty(t *testing.T) {
	t.Parallel()

	g := gemini.NewGenerator(nil, "") // nil client ok for this test

	_, err := g.Generate(context.Background(), "")

	require.Error(t, err)
	assert.Equal(t, docchat.EINVALID, docchat.ErrorCode(err))
	assert.Contains(t, docchat.ErrorMessage(err), "prompt required")
}

func TestBuildConfig_SetsLowTemperature(t *testing.T) {
	t.Parallel()

	config := gemini.BuildConfig()

	require.NotNil(t, config.Temperature)
	assert.InDelta(t, 0.2, *config.Temperature, 0.001)
	assert.Nil(t, config.SystemInstruction)
}
