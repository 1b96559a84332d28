package runner

import (
	"gonum.org/v1/gonum/stat"

	"github.com/ceslop84/ia-ag/internal/ga"
)

// MethodSummary holds statistics of the best knapsack across the trials of
// one constraint handling method
type MethodSummary struct {
	Method   ga.Method
	Trials   int
	Feasible int // trials whose final generation had a knapsack within capacity

	// over feasible trials only
	FitnessMean float64
	FitnessStd  float64
	WeightMean  float64
	Best        *TrialResult
}

// FeasibleRate returns the share of trials with a feasible best
func (s MethodSummary) FeasibleRate() float64 {
	if s.Trials == 0 {
		return 0
	}
	return float64(s.Feasible) / float64(s.Trials)
}

// Aggregate computes one summary per method, in order of first appearance
func Aggregate(results []*TrialResult) []MethodSummary {
	var order []ga.Method
	byMethod := make(map[ga.Method][]*TrialResult)
	for _, r := range results {
		if r == nil {
			continue
		}
		if _, ok := byMethod[r.Method]; !ok {
			order = append(order, r.Method)
		}
		byMethod[r.Method] = append(byMethod[r.Method], r)
	}

	summaries := make([]MethodSummary, 0, len(order))
	for _, m := range order {
		summaries = append(summaries, summarize(m, byMethod[m]))
	}
	return summaries
}

func summarize(method ga.Method, trials []*TrialResult) MethodSummary {
	s := MethodSummary{Method: method, Trials: len(trials)}

	var fitness, weight []float64
	for _, r := range trials {
		if !r.Feasible() {
			continue
		}
		s.Feasible++
		fitness = append(fitness, float64(r.Best.Fitness()))
		weight = append(weight, float64(r.Best.Weight()))
		if s.Best == nil || r.Best.Fitness() > s.Best.Best.Fitness() {
			s.Best = r
		}
	}

	if len(fitness) > 0 {
		s.FitnessMean, s.FitnessStd = stat.PopMeanStdDev(fitness, nil)
		s.WeightMean = stat.Mean(weight, nil)
	}
	return s
}
