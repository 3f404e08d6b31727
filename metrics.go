package trackeval

// NoScore is the sentinel reported for percentage metrics that are undefined
// for a unit, e.g. MOTA of a category with no ground truth or MOTP with no
// matches.  It is distinguishable from any legitimately computed score:
// valid MOTP and IDF1 are non-negative and valid MOTA below -1 can only be
// produced together with a positive ground-truth count.
const NoScore = -1.0

// Metrics is one immutable result row.  Percentage metrics are in [0, 100]
// (MOTA can go negative when error counts exceed the ground-truth count) or
// NoScore.  Count metrics are carried as float64 so the AVERAGE row can
// report fractional means.
type Metrics struct {
	MOTA float64
	MOTP float64
	IDF1 float64
	FP   float64
	FN   float64
	IDSw float64
	MT   float64
	PT   float64
	ML   float64
	FM   float64
}

// ComputeMetrics derives the scalar metrics from a unit's final counts
// using the standard CLEAR-MOT and IDF1 formulas
func ComputeMetrics(c Counts) Metrics {

	m := Metrics{
		MOTA: NoScore,
		MOTP: NoScore,
		IDF1: NoScore,
		FP:   float64(c.FP),
		FN:   float64(c.FN),
		IDSw: float64(c.IDSw),
		MT:   float64(c.MT),
		PT:   float64(c.PT),
		ML:   float64(c.ML),
		FM:   float64(c.FM),
	}

	if c.NumGT > 0 {
		m.MOTA = (1 - float64(c.FN+c.FP+c.IDSw)/float64(c.NumGT)) * 100
	}

	if c.Matches > 0 {
		m.MOTP = c.OverlapSum / float64(c.Matches) * 100
	}

	if d := 2*c.IDTP + c.IDFN + c.IDFP; d > 0 {
		m.IDF1 = float64(2*c.IDTP) / float64(d) * 100
	}

	return m
}
