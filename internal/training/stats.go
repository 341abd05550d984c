package training

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/wonny/leoscope/backend/internal/contracts"
)

// ComputeStats summarizes episode rewards. Returns a zero-value stats
// struct for an empty slice.
func ComputeStats(episodes []contracts.Episode) contracts.EpisodeStats {
	if len(episodes) == 0 {
		return contracts.EpisodeStats{}
	}

	rewards := make([]float64, len(episodes))
	ok := 0
	for i, ep := range episodes {
		rewards[i] = ep.Reward
		if ep.HandoverOK {
			ok++
		}
	}

	mean, std := stat.MeanStdDev(rewards, nil)
	if math.IsNaN(std) {
		// Single-sample std is undefined; report zero
		std = 0
	}

	minR, maxR := rewards[0], rewards[0]
	for _, r := range rewards[1:] {
		if r < minR {
			minR = r
		}
		if r > maxR {
			maxR = r
		}
	}

	return contracts.EpisodeStats{
		Episodes:    len(episodes),
		MeanReward:  mean,
		StdReward:   std,
		MinReward:   minR,
		MaxReward:   maxR,
		SuccessRate: float64(ok) / float64(len(episodes)),
	}
}

// MovingAverage returns the k-episode trailing mean of rewards, one value
// per episode, for the dashboard's learning-curve smoothing.
func MovingAverage(episodes []contracts.Episode, k int) []float64 {
	if k <= 0 {
		k = 1
	}

	out := make([]float64, len(episodes))
	sum := 0.0
	for i, ep := range episodes {
		sum += ep.Reward
		if i >= k {
			sum -= episodes[i-k].Reward
		}
		n := i + 1
		if n > k {
			n = k
		}
		out[i] = sum / float64(n)
	}
	return out
}
