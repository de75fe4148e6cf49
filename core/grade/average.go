package grade

import (
	"math"

	"github.com/volatiletech/null/v8"
)

// ComputeAverage runs the averaging rule over the component scores:
//
//	base = (n1 + n2 + work) / 3
//
// with absent scores coerced to 0; the legacy grading rule never distinguished
// absence from a zero. If a recovery score is present
// and beats the base, it replaces the average outright. The result is rounded
// to one decimal (half away from zero) and graded against PassingAverage.
//
// The function is total: out-of-range scores are not validated and a sheet
// with no scores at all averages to 0 (Reprovado).
func ComputeAverage(n1, n2, work, recovery null.Float64) (float64, Status) {
	base := (n1.Float64 + n2.Float64 + work.Float64) / 3

	avg := base
	if recovery.Valid && recovery.Float64 > base {
		avg = recovery.Float64
	}

	avg = math.Round(avg*10) / 10

	if avg >= PassingAverage {
		return avg, StatusAprovado
	}
	return avg, StatusReprovado
}

// Recompute applies the averaging rule to the grade in place.
func (g *Grade) Recompute() {
	g.FinalAverage, g.Status = ComputeAverage(g.N1, g.N2, g.Work, g.Recovery)
}
