package trackeval

import (
	"fmt"
	"strings"
	"text/tabwriter"
)

// Names of the two derived rows appended after the categories and super
// classes.
const (
	RowAverage = "AVERAGE"
	RowOverall = "OVERALL"
)

// Columns lists the metric columns of the result table in output order
var Columns = []string{"MOTA", "MOTP", "IDF1", "FP", "FN", "IDSw", "MT", "PT", "ML", "FM"}

// Row is one line of the result table: a fine-grained category, a super
// class, AVERAGE or OVERALL
type Row struct {
	Name    string
	Metrics Metrics
}

// Values returns the row's metric values in Columns order
func (r Row) Values() []float64 {
	m := r.Metrics
	return []float64{m.MOTA, m.MOTP, m.IDF1, m.FP, m.FN, m.IDSw, m.MT, m.PT, m.ML, m.FM}
}

// Failure records one evaluation unit that produced no counts.  Failed
// units are excluded from fusion, never silently zeroed.
type Failure struct {
	Video    string
	Category string
	Err      error
}

func (f Failure) String() string {
	return fmt.Sprintf("%s/%s: %v", f.Video, f.Category, f.Err)
}

// Result is the evaluation output: the ordered row set and the list of
// failed units
type Result struct {
	rows     []Row
	failures []Failure
}

// Rows returns all rows in canonical order: fine-grained categories in
// schema order, super classes, AVERAGE, OVERALL
func (r *Result) Rows() []Row {
	return r.rows
}

// Row looks up a row by name
func (r *Result) Row(name string) (Row, bool) {
	for _, row := range r.rows {
		if row.Name == name {
			return row, true
		}
	}
	return Row{}, false
}

// Failures returns the units excluded from fusion
func (r *Result) Failures() []Failure {
	return r.failures
}

// Complete reports whether every unit contributed to the result
func (r *Result) Complete() bool {
	return len(r.failures) == 0
}

// Summary returns the flat mapping of headline metrics: the OVERALL row's
// scores plus the across-category means from the AVERAGE row under their
// "m" prefixed names.
func (r *Result) Summary() map[string]float64 {

	summary := make(map[string]float64, 13)

	if overall, ok := r.Row(RowOverall); ok {
		m := overall.Metrics
		summary["IDF1"] = m.IDF1
		summary["MOTA"] = m.MOTA
		summary["MOTP"] = m.MOTP
		summary["FP"] = m.FP
		summary["FN"] = m.FN
		summary["IDSw"] = m.IDSw
		summary["MT"] = m.MT
		summary["PT"] = m.PT
		summary["ML"] = m.ML
		summary["FM"] = m.FM
	}

	if avg, ok := r.Row(RowAverage); ok {
		summary["mIDF1"] = avg.Metrics.IDF1
		summary["mMOTA"] = avg.Metrics.MOTA
		summary["mMOTP"] = avg.Metrics.MOTP
	}

	return summary
}

// Table renders the result as an aligned text table
func (r *Result) Table() string {

	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', tabwriter.AlignRight)

	fmt.Fprintf(w, "\t%s\t\n", strings.Join(Columns, "\t"))

	for _, row := range r.rows {
		fmt.Fprintf(w, "%s\t", row.Name)
		for i, v := range row.Values() {
			// the first three columns are percentages
			if i < 3 {
				fmt.Fprintf(w, "%.3f\t", v)
			} else {
				fmt.Fprintf(w, "%g\t", v)
			}
		}
		fmt.Fprintln(w)
	}

	w.Flush()
	return sb.String()
}
