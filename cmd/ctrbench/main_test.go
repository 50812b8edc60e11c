package main

import (
	"testing"

	flag "github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPlanOverrides(t *testing.T) {
	require.NoError(t, flag.CommandLine.Parse([]string{
		"-s", "0.5,2", "-w", "1,3", "-n", "2", "--strategies", "padded,unpadded", "--joins", "nowait",
	}))

	plan, err := buildPlan()
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 2}, plan.SizesMB)
	assert.Equal(t, []int{1, 3}, plan.Workers)
	assert.Equal(t, 2, plan.Iterations)
	assert.Equal(t, 2, plan.LargeIterations)
	assert.Equal(t, []string{"padded", "unpadded"}, plan.Strategies)
	assert.Equal(t, []string{"nowait"}, plan.Joins)
}
