package chart

import "math"

// binEpsilon absorbs float error when a value sits on a bin boundary.
const binEpsilon = 1e-14

// binning describes nice histogram bins covering [start, stop) with a fixed step.
type binning struct {
	start, stop, step float64
}

// niceBins picks a step from {1,2,5}x10^k so that the number of bins over
// [lo, hi] does not exceed maxBins, then snaps start and stop to the step.
// This follows the Vega bin transform with base 10 and nice=true.
func niceBins(lo, hi float64, maxBins int) binning {
	if maxBins <= 0 {
		maxBins = 20
	}
	const base = 10.0
	logb := math.Log(base)
	level := math.Ceil(math.Log(float64(maxBins)) / logb)
	span := hi - lo
	if span == 0 {
		span = math.Abs(lo)
		if span == 0 {
			span = 1
		}
	}
	step := math.Pow(base, math.Round(math.Log(span)/logb)-level)
	for math.Ceil(span/step) > float64(maxBins) {
		step *= base
	}
	for _, div := range []float64{5, 2} {
		v := step / div
		if span/v <= float64(maxBins) {
			step = v
		}
	}
	v := math.Log(step)
	precision := 0
	if v < 0 {
		precision = int(-v/logb) + 1
	}
	eps := math.Pow(base, -float64(precision)-1)
	start := math.Floor(lo/step+eps) * step
	if lo < start {
		start -= step
	}
	stop := math.Ceil(hi/step) * step
	if stop <= start {
		stop = start + step
	}
	return binning{start: start, stop: stop, step: step}
}

// valid reports whether every edge and the step are finite and the step is positive.
func (b binning) valid() bool {
	for _, v := range []float64{b.start, b.stop, b.step} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return b.step > 0 && b.stop > b.start
}

func (b binning) count() int {
	return int(math.Round((b.stop - b.start) / b.step))
}

// index returns the bin holding v. Values on the upper edge fall in the last bin.
func (b binning) index(v float64) int {
	n := b.count()
	i := int(math.Floor(binEpsilon + (v-b.start)/b.step))
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
