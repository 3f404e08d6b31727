package trackeval

import (
	"fmt"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/stat"
)

// Strategy constructs the frame-pair accumulator used for each evaluation
// unit, selecting the metric family the caller wants.  MOT is the provided
// CLEAR-MOT/IDF1 strategy.
type Strategy interface {
	NewAccumulator(video, category string) Accumulator
}

// MOT is the CLEAR-MOT/IDF1 strategy.  The matcher is shared by all units
// it creates, which is safe because matching is stateless between calls.
type MOT struct {
	Matcher *Matcher
}

// NewMOT returns the MOT strategy with default matcher conventions
func NewMOT() *MOT {
	return &MOT{Matcher: NewMatcher()}
}

// NewAccumulator implements the Strategy interface
func (s *MOT) NewAccumulator(video, category string) Accumulator {
	return NewMOTAccumulator(s.Matcher)
}

// Options controls an evaluation run
type Options struct {
	// Number of parallel workers, defaults to the number of CPUs
	Workers int
	// Metric strategy, defaults to MOT
	Strategy Strategy
}

// unit is one (video, category) evaluation task
type unit struct {
	video    *Video
	category string
}

// unitResult is the outcome of one unit
type unitResult struct {
	counts Counts
	err    error
}

// Evaluate scores the predicted tracks of every video against its ground
// truth and returns the fused result table.  Units run on a bounded worker
// pool; each owns independent state and a failed unit is reported on the
// result rather than aborting or corrupting the rest.
func Evaluate(cfg Config, videos []Video, opts *Options) (*Result, error) {

	categories := cfg.CategoryNames()

	if len(categories) == 0 {
		return nil, fmt.Errorf("config defines no categories")
	}

	if opts == nil {
		opts = &Options{}
	}

	strategy := opts.Strategy
	if strategy == nil {
		strategy = NewMOT()
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	// one unit per (video, category) pair, in deterministic order
	units := make([]unit, 0, len(videos)*len(categories))
	for i := range videos {
		for _, cat := range categories {
			units = append(units, unit{video: &videos[i], category: cat})
		}
	}

	results := make([]unitResult, len(units))
	jobs := make(chan int)

	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = runUnit(strategy, units[idx])
			}
		}()
	}

	for idx := range units {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	// count-level fusion per category across videos.  results are reduced
	// in unit order so repeated runs are bit-for-bit identical regardless
	// of worker scheduling.
	perCategory := make(map[string]*Counts, len(categories))
	for _, cat := range categories {
		perCategory[cat] = &Counts{}
	}

	var failures []Failure

	for idx, res := range results {
		if res.err != nil {
			failures = append(failures, Failure{
				Video:    units[idx].video.Name,
				Category: units[idx].category,
				Err:      res.err,
			})
			continue
		}
		perCategory[units[idx].category].Add(res.counts)
	}

	rows := make([]Row, 0, len(categories)+len(cfg.SuperClasses())+2)

	for _, cat := range categories {
		rows = append(rows, Row{Name: cat, Metrics: ComputeMetrics(*perCategory[cat])})
	}

	// super class rows fuse member category counts before recomputing
	// metrics
	for _, super := range cfg.SuperClasses() {
		var merged Counts
		for _, member := range super.Members {
			merged.Add(*perCategory[member])
		}
		rows = append(rows, Row{Name: super.Name, Metrics: ComputeMetrics(merged)})
	}

	rows = append(rows, Row{Name: RowAverage, Metrics: averageMetrics(rows[:len(categories)])})

	var overall Counts
	for _, cat := range categories {
		overall.Add(*perCategory[cat])
	}
	rows = append(rows, Row{Name: RowOverall, Metrics: ComputeMetrics(overall)})

	return &Result{rows: rows, failures: failures}, nil
}

// runUnit evaluates a single (video, category) pair.  A panic inside the
// unit is converted into a unit failure so it cannot block or corrupt
// other units.
func runUnit(strategy Strategy, u unit) (res unitResult) {

	defer func() {
		if r := recover(); r != nil {
			res.err = fmt.Errorf("unit panicked: %v", r)
		}
	}()

	if len(u.video.GT) != len(u.video.Pred) {
		res.err = &SequenceError{
			Video:      u.video.Name,
			GTFrames:   len(u.video.GT),
			PredFrames: len(u.video.Pred),
		}
		return res
	}

	acc := strategy.NewAccumulator(u.video.Name, u.category)

	for i := range u.video.GT {
		acc.Process(
			filterCategory(u.video.GT[i], u.category),
			filterCategory(u.video.Pred[i], u.category),
		)
	}

	res.counts = acc.Finalize()
	return res
}

// averageMetrics is the one metric-level mean of the table: the unweighted
// mean of each metric across the fine-grained category rows.  Sentinel
// percentage scores contribute 0 to the mean, restating the convention of
// the reference tooling.
func averageMetrics(categoryRows []Row) Metrics {

	cols := make([][]float64, len(Columns))
	for i := range cols {
		cols[i] = make([]float64, 0, len(categoryRows))
	}

	for _, row := range categoryRows {
		for i, v := range row.Values() {
			if i < 3 && v == NoScore {
				v = 0
			}
			cols[i] = append(cols[i], v)
		}
	}

	return Metrics{
		MOTA: stat.Mean(cols[0], nil),
		MOTP: stat.Mean(cols[1], nil),
		IDF1: stat.Mean(cols[2], nil),
		FP:   stat.Mean(cols[3], nil),
		FN:   stat.Mean(cols[4], nil),
		IDSw: stat.Mean(cols[5], nil),
		MT:   stat.Mean(cols[6], nil),
		PT:   stat.Mean(cols[7], nil),
		ML:   stat.Mean(cols[8], nil),
		FM:   stat.Mean(cols[9], nil),
	}
}
