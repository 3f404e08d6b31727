package trackeval

import (
	"sort"
)

// idUnmatchable blocks off-diagonal pairings in the padded identity-level
// assignment.  It only needs to exceed any achievable track-length cost.
const idUnmatchable = 1e8

// Counts holds the raw event totals of one or more evaluation units.  Every
// field is additive, so merging units across videos or categories is plain
// summation via Add.
type Counts struct {
	// Ground-truth instances seen, crowd regions excluded
	NumGT int
	// Predicted instances seen, crowd-consumed predictions excluded
	NumPred int
	// Matched pairs and their accumulated overlap for MOTP
	Matches    int
	OverlapSum float64
	// CLEAR-MOT event counts
	FP   int
	FN   int
	IDSw int
	FM   int
	// Track classification counts
	MT int
	PT int
	ML int
	// Identity-level counts for IDF1
	IDTP int
	IDFN int
	IDFP int
}

// Add accumulates another unit's counts into this one
func (c *Counts) Add(o Counts) {
	c.NumGT += o.NumGT
	c.NumPred += o.NumPred
	c.Matches += o.Matches
	c.OverlapSum += o.OverlapSum
	c.FP += o.FP
	c.FN += o.FN
	c.IDSw += o.IDSw
	c.FM += o.FM
	c.MT += o.MT
	c.PT += o.PT
	c.ML += o.ML
	c.IDTP += o.IDTP
	c.IDFN += o.IDFN
	c.IDFP += o.IDFP
}

// Accumulator consumes the ordered frame sequence of one evaluation unit
// and produces its final counts.  Implementations own all of their state
// and are never shared across units.
type Accumulator interface {
	// Process consumes the next frame's instances, already restricted to
	// the unit's category.  Recoverable per-instance issues degrade to
	// misses or false positives and never abort the unit.
	Process(gt, pred []Instance)
	// Finalize classifies tracks, runs the identity-level matching pass
	// and returns the unit's counts.  The accumulator must not be used
	// afterwards.
	Finalize() Counts
}

// trackState is the per-ground-truth-identity lifecycle record
type trackState struct {
	present     int
	matched     int
	everMatched bool
	inGap       bool
}

// MOTAccumulator scores one (video, category) unit under the CLEAR-MOT and
// identity metric family
type MOTAccumulator struct {
	matcher *Matcher
	counts  Counts

	// identity history: last predicted identity each ground-truth identity
	// was matched to.  Entries for identities absent from the current
	// frame are retained so a resumed match counts as a fragmentation
	// rather than a fresh track.
	history map[string]string

	tracks map[string]*trackState

	// identity-level census for the IDF1 pass
	gtFrames   map[string]int
	predFrames map[string]int
	common     map[[2]string]int
}

// NewMOTAccumulator returns an accumulator using the given matcher
func NewMOTAccumulator(m *Matcher) *MOTAccumulator {
	return &MOTAccumulator{
		matcher:    m,
		history:    make(map[string]string),
		tracks:     make(map[string]*trackState),
		gtFrames:   make(map[string]int),
		predFrames: make(map[string]int),
		common:     make(map[[2]string]int),
	}
}

// track returns the lifecycle record for a ground-truth identity
func (a *MOTAccumulator) track(id string) *trackState {
	ts, ok := a.tracks[id]
	if !ok {
		ts = &trackState{}
		a.tracks[id] = ts
	}
	return ts
}

// Process implements the Accumulator interface
func (a *MOTAccumulator) Process(gt, pred []Instance) {

	corr := a.matcher.MatchFrame(gt, pred, a.history)

	a.counts.NumGT += len(corr.Matches) + len(corr.Misses)
	a.counts.NumPred += len(corr.Matches) + len(corr.FalsePositives)

	for _, pair := range corr.Matches {
		a.counts.Matches++
		a.counts.OverlapSum += pair.Overlap

		if prev, ok := a.history[pair.GT]; ok && prev != pair.Pred {
			a.counts.IDSw++
		}
		a.history[pair.GT] = pair.Pred

		ts := a.track(pair.GT)
		ts.present++
		ts.matched++
		if ts.inGap {
			a.counts.FM++
			ts.inGap = false
		}
		ts.everMatched = true

		a.gtFrames[pair.GT]++
		a.predFrames[pair.Pred]++
	}

	for _, id := range corr.Misses {
		a.counts.FN++

		ts := a.track(id)
		ts.present++
		if ts.everMatched {
			ts.inGap = true
		}

		a.gtFrames[id]++
	}

	for _, id := range corr.FalsePositives {
		a.counts.FP++
		a.predFrames[id]++
	}

	for _, pair := range corr.Eligible {
		a.common[[2]string{pair.GT, pair.Pred}]++
	}
}

// Finalize implements the Accumulator interface
func (a *MOTAccumulator) Finalize() Counts {

	// classify each track by the fraction of its ground-truth frames in
	// which it was matched
	for _, ts := range a.tracks {
		if ts.present == 0 {
			continue
		}
		ratio := float64(ts.matched) / float64(ts.present)
		switch {
		case ratio >= 0.8:
			a.counts.MT++
		case ratio < 0.2:
			a.counts.ML++
		default:
			a.counts.PT++
		}
	}

	idtp := a.identityMatch()
	a.counts.IDTP = idtp
	a.counts.IDFN = a.counts.NumGT - idtp
	a.counts.IDFP = a.counts.NumPred - idtp

	return a.counts
}

// identityMatch runs the whole-track assignment between ground-truth and
// predicted identities.  Edge weight is the number of frames a pair spent
// above the overlap threshold; the solve minimizes the combined identity
// false positive and false negative frame counts.
func (a *MOTAccumulator) identityMatch() int {

	gtIDs := sortedKeys(a.gtFrames)
	predIDs := sortedKeys(a.predFrames)

	n := len(gtIDs)
	m := len(predIDs)

	if n == 0 || m == 0 {
		return 0
	}

	size := n + m
	cost := make([][]float64, size)

	for i := range cost {
		cost[i] = make([]float64, size)
		for j := range cost[i] {
			switch {
			case i < n && j < m:
				pairFrames := a.common[[2]string{gtIDs[i], predIDs[j]}]
				cost[i][j] = float64(a.gtFrames[gtIDs[i]] + a.predFrames[predIDs[j]] - 2*pairFrames)
			case i < n && j-m == i:
				// leave ground-truth track unmatched
				cost[i][j] = float64(a.gtFrames[gtIDs[i]])
			case i >= n && i-n == j:
				// leave predicted track unmatched
				cost[i][j] = float64(a.predFrames[predIDs[j]])
			case i >= n && j >= m:
				cost[i][j] = 0
			default:
				cost[i][j] = idUnmatchable
			}
		}
	}

	rows, err := a.matcher.Solver.Solve(cost)

	if err != nil {
		// degrade to zero identity overlap rather than failing the unit
		return 0
	}

	idtp := 0
	for i := 0; i < n; i++ {
		if rows[i] < m {
			idtp += a.common[[2]string{gtIDs[i], predIDs[rows[i]]}]
		}
	}

	return idtp
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
