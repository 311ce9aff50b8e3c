package generate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/csmtree/pkg/csm"
	cerrors "github.com/matzehuels/csmtree/pkg/errors"
)

func TestParentsAreTrees(t *testing.T) {
	for _, shape := range []Shape{Wide, Tall} {
		for n := 1; n < 50; n++ {
			parents := Parents(n, shape, NewRand(uint64(n)))
			require.Len(t, parents, n)
			assert.Equal(t, -1, parents[0])

			tr, err := csm.FromParents(parents, Zero(n), Zero(n))
			require.NoError(t, err, "shape %s n=%d parents %v", shape, n, parents)
			assert.Equal(t, n, tr.Len())
		}
	}
}

func TestWideFillsBreadthFirst(t *testing.T) {
	parents := Parents(20, Wide, NewRand(3))
	for i := 2; i < len(parents); i++ {
		assert.LessOrEqual(t, parents[i-1], parents[i], "parents must be non-decreasing: %v", parents)
	}
}

func TestDeterministic(t *testing.T) {
	a, err := CSM(12, Tall, 99)
	require.NoError(t, err)
	b, err := CSM(12, Tall, 99)
	require.NoError(t, err)

	assert.Equal(t, a.Costs(), b.Costs())
	assert.Equal(t, a.Prizes(), b.Prizes())
	for _, id := range a.AllNodes() {
		assert.Equal(t, a.Children(id), b.Children(id))
	}
}

func TestCSMLabels(t *testing.T) {
	tr, err := CSM(30, Wide, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, tr.Cost(csm.Root))
	for _, id := range tr.AllNodes()[1:] {
		assert.GreaterOrEqual(t, tr.Cost(id), MinLabel)
		assert.LessOrEqual(t, tr.Cost(id), MaxLabel)
		assert.GreaterOrEqual(t, tr.Prize(id), MinLabel)
		assert.LessOrEqual(t, tr.Prize(id), MaxLabel)
	}
}

func TestZeroCSM(t *testing.T) {
	tr, err := ZeroCSM(10, Tall, 4)
	require.NoError(t, err)
	for _, id := range tr.AllNodes() {
		assert.Zero(t, tr.Cost(id))
		assert.Zero(t, tr.Prize(id))
	}
}

func TestInvalidSize(t *testing.T) {
	_, err := CSM(0, Wide, 1)
	assert.True(t, cerrors.Is(err, cerrors.ErrCodeInvalidInput))
	_, err = Tree(-1, Tall, NewRand(1), nil, nil)
	assert.True(t, cerrors.Is(err, cerrors.ErrCodeInvalidInput))
}

func TestParseShape(t *testing.T) {
	s, err := ParseShape("TALL")
	require.NoError(t, err)
	assert.Equal(t, Tall, s)
	s, err = ParseShape("")
	require.NoError(t, err)
	assert.Equal(t, Wide, s)
	_, err = ParseShape("round")
	assert.Error(t, err)
}
