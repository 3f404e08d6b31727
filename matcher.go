package trackeval

import (
	"sort"

	"github.com/openvideolab/go-trackeval/assign"
)

const (
	// DefaultIoUThreshold is the minimum overlap for a ground-truth and
	// predicted instance to be considered the same object
	DefaultIoUThreshold = 0.5

	// DefaultIgnoreThreshold is the minimum intersection-over-foreground
	// for an unmatched prediction to be consumed by a crowd region
	DefaultIgnoreThreshold = 0.5

	// DefaultMatchEpsilon is the cost bias applied to pairs that were
	// matched in the previous frame.  Candidates tying within this margin
	// resolve toward the existing identity, which keeps near-equal
	// overlaps from producing spurious identity switches.
	DefaultMatchEpsilon = 1e-5
)

// OverlapFunc scores the spatial overlap of two instances in [0, 1]
type OverlapFunc func(a, b Instance) float64

// BoxOverlap scores overlap as bounding box IoU, falling back from polygons
// unconditionally
func BoxOverlap(a, b Instance) float64 {
	return a.Box.IoU(b.Box)
}

// RegionOverlap scores overlap on the polygon regions when both instances
// carry one, and on the bounding boxes otherwise
func RegionOverlap(a, b Instance) float64 {
	if len(a.Poly) >= 3 && len(b.Poly) >= 3 {
		return a.Poly.IoU(b.Poly)
	}
	return a.Box.IoU(b.Box)
}

// Pair is one matched or candidate ground-truth/prediction pairing within a
// frame
type Pair struct {
	GT      string
	Pred    string
	Overlap float64
}

// Correspondence is the one-to-one partial mapping between ground-truth and
// predicted instances of one frame
type Correspondence struct {
	// Matched pairs with their overlap scores
	Matches []Pair
	// Ground-truth identities left unmatched (misses)
	Misses []string
	// Predicted identities left unmatched and not consumed by a crowd
	// region (false positives)
	FalsePositives []string
	// Every candidate pair above the overlap threshold, matched or not.
	// This census drives the identity-level IDF1 matching pass.
	Eligible []Pair
}

// Matcher computes per-frame correspondences between ground-truth and
// predicted instances of one category
type Matcher struct {
	// Minimum overlap for a pair to be matchable
	Threshold float64
	// Minimum IoF for a crowd region to consume an unmatched prediction
	IgnoreThreshold float64
	// Cost bias toward preserving the previous frame's pairing
	Epsilon float64
	// Overlap scoring function
	Overlap OverlapFunc
	// Assignment solver
	Solver assign.Solver
}

// NewMatcher returns a Matcher with the standard CLEAR-MOT conventions:
// IoU overlap at a 0.5 cutoff solved by LAPJV
func NewMatcher() *Matcher {
	return &Matcher{
		Threshold:       DefaultIoUThreshold,
		IgnoreThreshold: DefaultIgnoreThreshold,
		Epsilon:         DefaultMatchEpsilon,
		Overlap:         RegionOverlap,
		Solver:          assign.LAPJV{},
	}
}

// MatchFrame computes the correspondence for one frame.  Both instance sets
// must already be restricted to a single category.  prev maps ground-truth
// identities to the predicted identity they were matched to in the previous
// frame and steers tie-breaking toward track continuity.
func (m *Matcher) MatchFrame(gt, pred []Instance, prev map[string]string) Correspondence {

	// split ground truth into active instances and crowd regions
	var active, crowd []Instance

	for _, g := range gt {
		if g.Crowd {
			crowd = append(crowd, g)
		} else {
			active = append(active, g)
		}
	}

	sortByID(active)
	sortByID(crowd)

	preds := make([]Instance, len(pred))
	copy(preds, pred)
	sortByID(preds)

	var corr Correspondence

	// overlap and cost matrices over active gt x preds.  pairs below the
	// threshold are blocked with a cost above the assignment limit so a
	// degenerate region simply never matches.
	limit := 1 - m.Threshold + m.Epsilon*2
	blocked := limit + 1

	overlaps := make([][]float64, len(active))
	costs := make([][]float64, len(active))

	for i, g := range active {
		overlaps[i] = make([]float64, len(preds))
		costs[i] = make([]float64, len(preds))

		for j, p := range preds {
			ov := m.Overlap(g, p)
			overlaps[i][j] = ov

			if ov < m.Threshold {
				costs[i][j] = blocked
				continue
			}

			costs[i][j] = 1 - ov
			if prev[g.ID] == p.ID {
				costs[i][j] -= m.Epsilon
			}

			corr.Eligible = append(corr.Eligible, Pair{
				GT:      g.ID,
				Pred:    p.ID,
				Overlap: ov,
			})
		}
	}

	rows, _, err := assign.Rect(m.Solver, costs, limit)

	if err != nil {
		// the padded problem is always feasible, so a solver error can
		// only come from a malformed matrix.  treat every instance as
		// unmatched rather than aborting the frame.
		rows = make([]int, len(active))
		for i := range rows {
			rows[i] = -1
		}
	}

	matchedPred := make(map[int]bool)

	for i, j := range rows {
		if j < 0 || overlaps[i][j] < m.Threshold {
			corr.Misses = append(corr.Misses, active[i].ID)
			continue
		}
		matchedPred[j] = true
		corr.Matches = append(corr.Matches, Pair{
			GT:      active[i].ID,
			Pred:    preds[j].ID,
			Overlap: overlaps[i][j],
		})
	}

	// unmatched predictions inside a crowd region are consumed, the rest
	// are false positives
	consumed := make(map[string]bool)

	for j, p := range preds {
		if matchedPred[j] {
			continue
		}
		if m.insideCrowd(p, crowd) {
			consumed[p.ID] = true
			continue
		}
		corr.FalsePositives = append(corr.FalsePositives, p.ID)
	}

	if len(consumed) > 0 {
		kept := corr.Eligible[:0]
		for _, pair := range corr.Eligible {
			if !consumed[pair.Pred] {
				kept = append(kept, pair)
			}
		}
		corr.Eligible = kept
	}

	return corr
}

// insideCrowd reports whether the prediction falls inside any crowd region
func (m *Matcher) insideCrowd(p Instance, crowd []Instance) bool {
	for _, c := range crowd {
		if p.Box.IoF(c.Box) > m.IgnoreThreshold {
			return true
		}
	}
	return false
}

func sortByID(instances []Instance) {
	sort.Slice(instances, func(i, j int) bool {
		return instances[i].ID < instances[j].ID
	})
}
