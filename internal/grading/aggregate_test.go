package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type scored struct {
	score  float64
	weight float64
}

func scoreOf(items []scored) func(int) float64  { return func(i int) float64 { return items[i].score } }
func weightOf(items []scored) func(int) float64 { return func(i int) float64 { return items[i].weight } }

func TestWeightedAverage(t *testing.T) {
	items := []scored{{score: 80, weight: 2}, {score: 50, weight: 1}}
	// (80*2 + 50*1) / 3 = 70
	assert.Equal(t, 70.0, WeightedAverage(len(items), scoreOf(items), weightOf(items)))

	// truncation, not rounding: (90 + 85) / 2 = 87.5 -> 87
	items = []scored{{score: 90, weight: 1}, {score: 85, weight: 1}}
	assert.Equal(t, 87.0, WeightedAverage(len(items), scoreOf(items), weightOf(items)))
}

func TestWeightedAverageEmpty(t *testing.T) {
	assert.Equal(t, 0.0, WeightedAverage(0, nil, nil))

	// all-zero weights degrade to "no data", not a division error
	items := []scored{{score: 80, weight: 0}}
	assert.Equal(t, 0.0, WeightedAverage(len(items), scoreOf(items), weightOf(items)))
}

func TestTopScore(t *testing.T) {
	items := []scored{{score: 61}, {score: 94}, {score: 80}}
	assert.Equal(t, 94.0, TopScore(len(items), scoreOf(items)))
	assert.Equal(t, 0.0, TopScore(0, nil))
}
