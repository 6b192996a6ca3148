package clog

import (
	"math"
	"sync/atomic"
)

// EMA is an exponential moving average of timing samples.
// Add must only be called by the goroutine owning the measurement; Value may be read from anywhere.
type EMA struct {
	alpha float64
	bits  atomic.Uint64
}

// NewEMA creates an average with the given smoothing factor
func NewEMA(alpha float64) *EMA {
	return &EMA{alpha: alpha}
}

// Add folds a sample into the average and returns the new value
func (e *EMA) Add(sample float64) float64 {
	avg := e.Value()
	if avg <= 0 {
		avg = sample
	} else {
		avg = avg*(1-e.alpha) + sample*e.alpha
	}
	e.bits.Store(math.Float64bits(avg))
	return avg
}

// Value returns the current average
func (e *EMA) Value() float64 {
	return math.Float64frombits(e.bits.Load())
}

// metrics groups the two timing tracks
type metrics struct {
	flush    *EMA
	rotation *EMA
}

func newMetrics() *metrics {
	return &metrics{
		flush:    NewEMA(flushAlpha),
		rotation: NewEMA(rotationAlpha),
	}
}
