package idalloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accountd/accountd/pkg/accounterr"
)

func TestNextPicksSmallestFree(t *testing.T) {
	a := New(100, 199)
	inUse := map[uint32]bool{100: true, 101: true, 103: true}

	id, err := a.Next(inUse, 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(102), id)
}

func TestNextHonorsFreePreferred(t *testing.T) {
	a := New(100, 199)
	inUse := map[uint32]bool{100: true}

	id, err := a.Next(inUse, 150)
	require.NoError(t, err)
	assert.Equal(t, uint32(150), id)
}

func TestNextFallsBackWhenPreferredTaken(t *testing.T) {
	a := New(100, 199)
	inUse := map[uint32]bool{100: true, 150: true}

	id, err := a.Next(inUse, 150)
	require.NoError(t, err)
	assert.Equal(t, uint32(101), id)
}

func TestNextFallsBackWhenPreferredOutOfRange(t *testing.T) {
	a := New(100, 199)
	inUse := map[uint32]bool{}

	id, err := a.Next(inUse, 5000)
	require.NoError(t, err)
	assert.Equal(t, uint32(100), id)
}

func TestNextExhausted(t *testing.T) {
	a := New(100, 101)
	inUse := map[uint32]bool{100: true, 101: true}

	_, err := a.Next(inUse, 0)
	require.Error(t, err)
	assert.True(t, accounterr.Is(err, accounterr.IdExhausted))
}
