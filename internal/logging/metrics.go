package logging

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gonum.org/v1/gonum/stat"

	"github.com/ceslop84/ia-ag/internal/ga"
	"github.com/ceslop84/ia-ag/internal/runner"
)

// Header of both the per-run and the summary records
var Header = []string{
	"method", "trial", "generation", "position", "birth", "fitness", "items", "weight", "composition",
}

// Recorder writes run records under one output directory
type Recorder struct {
	dir string
}

// NewRecorder creates the output directory
func NewRecorder(dir string) (*Recorder, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &Recorder{dir: dir}, nil
}

// Dir returns the output directory
func (r *Recorder) Dir() string {
	return r.dir
}

// RunPath returns the per-run record path of a trial
func (r *Recorder) RunPath(method ga.Method, trial int) string {
	return filepath.Join(r.dir, string(method), strconv.Itoa(trial)+".csv")
}

// SummaryPath returns the path of the summary record
func (r *Recorder) SummaryPath() string {
	return filepath.Join(r.dir, "summary.csv")
}

// ChampionPath returns the path of a trial's champion file
func (r *Recorder) ChampionPath(method ga.Method, trial int) string {
	return filepath.Join(r.dir, string(method), fmt.Sprintf("champion_%d.json", trial))
}

func newWriter(path string) (*os.File, *csv.Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	w := csv.NewWriter(f)
	w.Comma = ';'
	if err := w.Write(Header); err != nil {
		f.Close()
		return nil, nil, err
	}
	return f, w, nil
}

func knapsackRow(method ga.Method, trial, generation, position int, k *ga.Knapsack) []string {
	return []string{
		string(method),
		strconv.Itoa(trial),
		strconv.Itoa(generation),
		strconv.Itoa(position),
		strconv.Itoa(k.Birth()),
		strconv.Itoa(k.Fitness()),
		strconv.Itoa(k.ItemCount()),
		strconv.Itoa(k.Weight()),
		ga.FormatComposition(k.Composition()),
	}
}

// WriteRun writes every knapsack of every generation of a trial, and one
// JSON summary line per generation next to it
func (r *Recorder) WriteRun(res *runner.TrialResult) error {
	path := r.RunPath(res.Method, res.Trial)
	f, w, err := newWriter(path)
	if err != nil {
		return err
	}
	defer f.Close()

	for _, g := range res.Lineage.Generations {
		for pos, k := range g.Population() {
			if err := w.Write(knapsackRow(res.Method, res.Trial, g.ID, pos, k)); err != nil {
				return err
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	return r.writeGenerationSummaries(res, path[:len(path)-len(".csv")]+".jsonl")
}

// GenerationSummary holds per-generation statistics
type GenerationSummary struct {
	Generation           int     `json:"generation"`
	Size                 int     `json:"size"`
	BestFitness          int     `json:"best_fitness"`
	MeanFitness          float64 `json:"mean_fitness"`
	MeanWeight           float64 `json:"mean_weight"`
	Feasible             int     `json:"feasible"`
	BestFeasible         int     `json:"best_feasible"` // -1 when no knapsack fits
	BestFeasiblePosition int     `json:"best_feasible_position"`
}

// Summarize computes the statistics of one generation
func Summarize(g *ga.Generation) GenerationSummary {
	capacity := g.Params().Capacity
	fitness := make([]float64, g.Size())
	weight := make([]float64, g.Size())

	s := GenerationSummary{Generation: g.ID, Size: g.Size(), BestFeasible: -1, BestFeasiblePosition: -1}
	for i, k := range g.Population() {
		fitness[i] = float64(k.Fitness())
		weight[i] = float64(k.Weight())
		if k.Feasible(capacity) {
			s.Feasible++
		}
	}
	if best := g.Best(); best != nil {
		s.BestFitness = best.Fitness()
		s.MeanFitness = stat.Mean(fitness, nil)
		s.MeanWeight = stat.Mean(weight, nil)
	}
	if pos, k := g.SelectBest(); k != nil {
		s.BestFeasible = k.Fitness()
		s.BestFeasiblePosition = pos
	}
	return s
}

func (r *Recorder) writeGenerationSummaries(res *runner.TrialResult, path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for _, g := range res.Lineage.Generations {
		if err := enc.Encode(Summarize(g)); err != nil {
			return err
		}
	}
	return nil
}

// WriteSummary writes the best feasible knapsack of each trial's final
// generation. Trials without one get a row of "-".
func (r *Recorder) WriteSummary(results []*runner.TrialResult) error {
	f, w, err := newWriter(r.SummaryPath())
	if err != nil {
		return err
	}
	defer f.Close()

	for _, res := range results {
		if err := w.Write(summaryRow(res)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func summaryRow(res *runner.TrialResult) []string {
	if !res.Feasible() {
		row := []string{string(res.Method), strconv.Itoa(res.Trial)}
		for len(row) < len(Header) {
			row = append(row, "-")
		}
		return row
	}
	return knapsackRow(res.Method, res.Trial, res.Lineage.Final().ID, res.Position, res.Best)
}

// LogTrial prints one line for a finished trial
func LogTrial(res *runner.TrialResult) {
	final := res.Lineage.Final()
	if !res.Feasible() {
		fmt.Printf("%-8s trial %3d | seed %d | gen %4d | no feasible knapsack\n",
			res.Method, res.Trial, res.Seed, final.ID)
		return
	}
	fmt.Printf("%-8s trial %3d | seed %d | gen %4d | Best: fitness=%d weight=%d items=%d pos=%d\n",
		res.Method, res.Trial, res.Seed, final.ID,
		res.Best.Fitness(), res.Best.Weight(), res.Best.ItemCount(), res.Position)
}

// LogSummary prints the per-method aggregates
func LogSummary(summaries []runner.MethodSummary) {
	for _, s := range summaries {
		fmt.Printf("%-8s | feasible %d/%d | fitness mean %.1f std %.1f | weight mean %.1f",
			s.Method, s.Feasible, s.Trials, s.FitnessMean, s.FitnessStd, s.WeightMean)
		if s.Best != nil {
			fmt.Printf(" | best %d (trial %d)", s.Best.Best.Fitness(), s.Best.Trial)
		}
		fmt.Println()
	}
}

// Champion is the saved form of a trial's best knapsack
type Champion struct {
	Method      string `json:"method"`
	Trial       int    `json:"trial"`
	Seed        int64  `json:"seed"`
	Generation  int    `json:"generation"`
	Position    int    `json:"position"`
	Birth       int    `json:"birth"`
	Fitness     int    `json:"fitness"`
	Weight      int    `json:"weight"`
	Composition []int  `json:"composition"`
}

// SaveChampion saves a trial's best feasible knapsack to a file
func SaveChampion(path string, res *runner.TrialResult) error {
	if !res.Feasible() {
		return fmt.Errorf("%s trial %d has no feasible knapsack", res.Method, res.Trial)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data := Champion{
		Method:      string(res.Method),
		Trial:       res.Trial,
		Seed:        res.Seed,
		Generation:  res.Lineage.Final().ID,
		Position:    res.Position,
		Birth:       res.Best.Birth(),
		Fitness:     res.Best.Fitness(),
		Weight:      res.Best.Weight(),
		Composition: toInts(res.Best.Composition()),
	}

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, jsonData, 0644)
}

// Genes converts the saved composition back to knapsack genes
func (c *Champion) Genes() []uint8 {
	genes := make([]uint8, len(c.Composition))
	for i, g := range c.Composition {
		genes[i] = uint8(g)
	}
	return genes
}

func toInts(genes []uint8) []int {
	out := make([]int, len(genes))
	for i, g := range genes {
		out[i] = int(g)
	}
	return out
}

// LoadChampion loads a champion from a file
func LoadChampion(path string) (*Champion, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var c Champion
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}
