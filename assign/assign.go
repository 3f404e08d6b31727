/*
Package assign provides minimum-cost bipartite assignment solvers for the
per-frame and identity-level matching passes of the evaluation engine.
*/
package assign

import (
	"fmt"
)

// Solver solves a square minimum-cost assignment problem.  Implementations
// must be deterministic: the same cost matrix always yields the same
// assignment.
type Solver interface {
	// Solve returns the column assigned to each row.  The cost matrix must
	// be square with every value below the solver's internal sentinel.
	Solve(cost [][]float64) ([]int, error)
}

// LAPJV solves the assignment problem with the dense Jonker-Volgenant
// algorithm.  It is the default solver of the engine.
type LAPJV struct{}

// Solve implements the Solver interface
func (LAPJV) Solve(cost [][]float64) ([]int, error) {

	n := len(cost)
	x := make([]int, n)
	y := make([]int, n)

	if n == 0 {
		return x, nil
	}

	for i := range cost {
		if len(cost[i]) != n {
			return nil, fmt.Errorf("cost matrix is not square: row %d has %d columns, want %d",
				i, len(cost[i]), n)
		}
	}

	ret, err := lapjv(n, cost, x, y)

	if err != nil {
		return nil, fmt.Errorf("lapjv solve failed: %w", err)
	}

	if ret != 0 {
		return nil, fmt.Errorf("lapjv solve incomplete: %d free rows", ret)
	}

	return x, nil
}

// Rect solves a rectangular assignment with a cost limit.  The cost matrix
// is padded to a square problem where leaving any row or column unassigned
// costs limit, so a real pair is only formed when its cost is below limit.
// rows[i] holds the column assigned to row i or -1, cols[j] the row assigned
// to column j or -1.
func Rect(s Solver, cost [][]float64, limit float64) (rows, cols []int, err error) {

	nRows := len(cost)
	nCols := 0
	if nRows > 0 {
		nCols = len(cost[0])
	}

	rows = make([]int, nRows)
	cols = make([]int, nCols)

	if nRows == 0 || nCols == 0 {
		for i := range rows {
			rows[i] = -1
		}
		for j := range cols {
			cols[j] = -1
		}
		return rows, cols, nil
	}

	n := nRows + nCols
	padded := make([][]float64, n)

	for i := range padded {
		padded[i] = make([]float64, n)
		for j := range padded[i] {
			padded[i][j] = limit / 2
		}
	}

	// bottom-right block pairs dummies with dummies for free
	for i := nRows; i < n; i++ {
		for j := nCols; j < n; j++ {
			padded[i][j] = 0
		}
	}

	for i := 0; i < nRows; i++ {
		if len(cost[i]) != nCols {
			return nil, nil, fmt.Errorf("cost matrix is ragged: row %d has %d columns, want %d",
				i, len(cost[i]), nCols)
		}
		copy(padded[i], cost[i])
	}

	x, err := s.Solve(padded)

	if err != nil {
		return nil, nil, err
	}

	for j := range cols {
		cols[j] = -1
	}

	for i := 0; i < nRows; i++ {
		if x[i] < nCols {
			rows[i] = x[i]
			cols[x[i]] = i
		} else {
			rows[i] = -1
		}
	}

	return rows, cols, nil
}
