package training

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/leoscope/backend/internal/contracts"
)

func episodesWithRewards(rewards []float64, ok []bool) []contracts.Episode {
	eps := make([]contracts.Episode, len(rewards))
	for i, r := range rewards {
		eps[i] = contracts.Episode{Number: i + 1, Reward: r, HandoverOK: ok[i]}
	}
	return eps
}

func TestComputeStats(t *testing.T) {
	eps := episodesWithRewards(
		[]float64{10, 20, 30, 40},
		[]bool{true, true, false, true},
	)

	s := ComputeStats(eps)

	assert.Equal(t, 4, s.Episodes)
	assert.InDelta(t, 25.0, s.MeanReward, 1e-9)
	assert.InDelta(t, 12.909944, s.StdReward, 1e-5) // sample stddev
	assert.Equal(t, 10.0, s.MinReward)
	assert.Equal(t, 40.0, s.MaxReward)
	assert.InDelta(t, 0.75, s.SuccessRate, 1e-9)
}

func TestComputeStats_Empty(t *testing.T) {
	s := ComputeStats(nil)
	assert.Equal(t, contracts.EpisodeStats{}, s)
}

func TestComputeStats_SingleEpisode(t *testing.T) {
	s := ComputeStats(episodesWithRewards([]float64{7}, []bool{true}))

	assert.Equal(t, 1, s.Episodes)
	assert.Equal(t, 7.0, s.MeanReward)
	assert.Equal(t, 0.0, s.StdReward)
	assert.Equal(t, 1.0, s.SuccessRate)
}

func TestMovingAverage(t *testing.T) {
	eps := episodesWithRewards(
		[]float64{10, 20, 30, 40},
		[]bool{true, true, true, true},
	)

	ma := MovingAverage(eps, 2)

	assert.InDeltaSlice(t, []float64{10, 15, 25, 35}, ma, 1e-9)
}

func TestMovingAverage_WindowLargerThanInput(t *testing.T) {
	eps := episodesWithRewards([]float64{10, 20}, []bool{true, true})

	ma := MovingAverage(eps, 10)

	assert.InDeltaSlice(t, []float64{10, 15}, ma, 1e-9)
}
