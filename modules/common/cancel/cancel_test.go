package cancel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBeginSupersedesPrevious(t *testing.T) {
	reg := NewRegistry()

	first, finishFirst := reg.Begin(context.Background(), "generate:client-a")
	defer finishFirst()
	require.NoError(t, first.Err())

	second, finishSecond := reg.Begin(context.Background(), "generate:client-a")
	defer finishSecond()

	assert.ErrorIs(t, first.Err(), context.Canceled)
	assert.True(t, IsSuperseded(first))
	assert.NoError(t, second.Err())
	assert.False(t, IsSuperseded(second))
}

func TestBeginIndependentKeys(t *testing.T) {
	reg := NewRegistry()

	enhance, finishEnhance := reg.Begin(context.Background(), "enhance:client-a")
	defer finishEnhance()
	generate, finishGenerate := reg.Begin(context.Background(), "generate:client-a")
	defer finishGenerate()

	assert.NoError(t, enhance.Err())
	assert.NoError(t, generate.Err())
}

func TestFinishDoesNotCancelSuccessor(t *testing.T) {
	reg := NewRegistry()

	_, finishFirst := reg.Begin(context.Background(), "generate:client-a")
	second, finishSecond := reg.Begin(context.Background(), "generate:client-a")
	defer finishSecond()

	// 늦게 도착한 이전 작업의 finish가 새 작업을 건드리면 안 됨
	finishFirst()
	assert.NoError(t, second.Err())
}

func TestExplicitCancel(t *testing.T) {
	reg := NewRegistry()

	ctx, finish := reg.Begin(context.Background(), "generate:client-a")
	defer finish()

	reg.Cancel("generate:client-a")
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
	assert.False(t, IsSuperseded(ctx))
}
