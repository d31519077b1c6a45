package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupCost(t *testing.T) {
	c := LookupCost("gpt-4o-mini")
	require.NotNil(t, c)
	assert.InDelta(t, 0.15+0.6, c.Cost(1_000_000, 1_000_000), 1e-9)

	routed := LookupCost("google/gemini-2.0-flash-exp")
	require.NotNil(t, routed)
	assert.Equal(t, modelCosts["gemini-2.0-flash-exp"], *routed)

	free := LookupCost("meta-llama/llama-3.1-8b-instruct:free")
	require.NotNil(t, free)
	assert.Zero(t, free.Cost(5000, 5000))

	assert.Nil(t, LookupCost("qwen2.5-7b"))
	assert.Nil(t, LookupCost(""))
}
