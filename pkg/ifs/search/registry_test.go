package search

import (
	"testing"

	"github.com/elektrokombinacija/ifs-core/pkg/ifs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryBuildsBuiltinIFSClass(t *testing.T) {
	r := NewRegistry()
	v := newTestVariable("v", 0, "x")
	model := ifs.NewBasicModel([]ifs.Variable{v}, nil, nil)

	sel, err := r.Build("ifs", model, []ifs.Variable{v}, ifs.NewDataProperties())
	require.NoError(t, err)
	assert.NotNil(t, sel)
}

func TestRegistryBuildUnknownClassReturnsTypedError(t *testing.T) {
	r := NewRegistry()
	_, err := r.Build("nonexistent", nil, nil, nil)
	require.Error(t, err)
	assert.Equal(t, ifs.ErrUnknownConstructionClass("nonexistent"), err)
}

func TestRegistryRegisterOverridesBuiltin(t *testing.T) {
	r := NewRegistry()
	called := false
	r.Register("ifs", func(model ifs.Model, variables []ifs.Variable, props *ifs.DataProperties) (ifs.NeighbourSelection, error) {
		called = true
		return NewStandardSelection(model, variables, nil, nil), nil
	})

	_, err := r.Build("ifs", ifs.NewBasicModel(nil, nil, nil), nil, nil)
	require.NoError(t, err)
	assert.True(t, called)
}
