package ifs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaxIterations(t *testing.T) {
	a := NewAssignment()
	s := NewSolution(NewBasicModel(nil, nil, nil), a)
	term := MaxIterations{Limit: 3}

	assert.True(t, term.CanContinue(s))
	a.Assign(3, valueOf(newFixtureVariable("v", 0, "x"), "x"))
	assert.False(t, term.CanContinue(s))
}

func TestContextTermination(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	term := ContextTermination{Ctx: ctx}
	s := NewSolution(NewBasicModel(nil, nil, nil), NewAssignment())

	assert.True(t, term.CanContinue(s))
	cancel()
	assert.False(t, term.CanContinue(s))
}

func TestCompositeTerminationStopsOnFirstFalse(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	composite := CompositeTermination{
		MaxIterations{Limit: 1000},
		ContextTermination{Ctx: ctx},
	}
	s := NewSolution(NewBasicModel(nil, nil, nil), NewAssignment())
	assert.True(t, composite.CanContinue(s))

	cancel()
	assert.False(t, composite.CanContinue(s))
}
