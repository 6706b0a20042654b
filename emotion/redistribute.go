// Package emotion turns raw model scores into display percentages and keeps
// the bounded analysis history.
package emotion

import (
	"math"

	"github.com/nileshkulkarniy/EmotionSense-AI-powered-Emotion-Recognition-and-Analytics-System/common"
)

// CalibrationScale maps a [0,1] confidence onto the percentage shown to the
// user. It is a fixed display calibration, not derived from the model.
const CalibrationScale = 94

const (
	minShare  = 1.0
	tolerance = 0.1
)

// DisplayVector is an ordered set of percentages: every entry >= 1 and the
// sum is 100 within 0.1.
type DisplayVector []float64

// DisplayConfidence is the whole percentage shown for a scalar confidence.
func DisplayConfidence(conf float64) int {
	return int(math.Round(conf * CalibrationScale))
}

// Vector redistributes a raw prediction vector of n classes. Scores are
// scaled by 100, the dominant entry keeps its value and the remainder is
// split evenly over the others.
func Vector(p []float64, n int) (DisplayVector, error) {
	if n < 2 {
		return nil, common.Validation("redistribute: need at least 2 classes, got %d", n)
	}
	if len(p) != n {
		return nil, common.Validation("redistribute: expected %d scores, got %d", n, len(p))
	}
	maxIdx, maxVal := 0, math.Inf(-1)
	for i, v := range p {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return nil, common.Validation("redistribute: score %d is not a non-negative number", i)
		}
		r := v * 100
		if math.IsInf(r, 0) {
			return nil, common.Validation("redistribute: score %d is out of range", i)
		}
		if r > maxVal {
			maxIdx, maxVal = i, r
		}
	}
	return spread(n, maxIdx, maxVal), nil
}

// Scalar places maxValue (a percentage) at label and spreads the remainder
// over the other classes.
func Scalar(classes []Class, label Class, maxValue float64) (DisplayVector, error) {
	if len(classes) < 2 {
		return nil, common.Validation("redistribute: need at least 2 classes, got %d", len(classes))
	}
	idx := Index(classes, label)
	if idx < 0 {
		return nil, common.Validation("redistribute: unknown label %q", label)
	}
	if math.IsNaN(maxValue) || maxValue < 0 || maxValue > 100 {
		return nil, common.Validation("redistribute: value %v outside [0,100]", maxValue)
	}
	return spread(len(classes), idx, maxValue), nil
}

func spread(n, maxIdx int, maxVal float64) DisplayVector {
	rest := math.Max(minShare, round2((100-maxVal)/float64(n-1)))
	d := make(DisplayVector, n)
	sum := 0.0
	for i := range d {
		if i == maxIdx {
			d[i] = round2(maxVal)
		} else {
			d[i] = rest
		}
		sum += d[i]
	}
	if math.Abs(sum-100) > tolerance {
		d[maxIdx] = round2(d[maxIdx] + 100 - sum)
	}
	return d
}

// Placeholder is shown while the camera is not streaming.
func Placeholder() DisplayVector {
	return DisplayVector{10, 5, 15, 25, 30, 10, 5}
}

// Zero is the cleared chart state.
func Zero(n int) DisplayVector {
	return make(DisplayVector, n)
}

// Sum of all entries.
func (d DisplayVector) Sum() float64 {
	s := 0.0
	for _, v := range d {
		s += v
	}
	return s
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
