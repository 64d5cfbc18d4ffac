// Package analysis looks for oscillations in recorded telemetry, such as
// the slow phugoid exchange of height for speed.
package analysis

import (
	"errors"
	"math"
	"math/cmplx"
)

var ErrTooShort = errors.New("analysis: need at least 4 samples")

// FFT is a radix-2 transform. It panics unless len(data) is a power of two.
func FFT(data []float64) []complex128 {
	n := len(data)
	if n <= 1 {
		out := make([]complex128, n)
		for i := range data {
			out[i] = complex(data[i], 0)
		}
		return out
	}

	if n&(n-1) != 0 {
		panic("fft requires power of 2 length")
	}

	even := make([]float64, n/2)
	odd := make([]float64, n/2)
	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}
	fe, fo := FFT(even), FFT(odd)

	out := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		out[k] = fe[k] + w*fo[k]
		out[k+n/2] = fe[k] - w*fo[k]
	}
	return out
}

// PowerSpectrum removes the mean, zero-pads to a power of two and returns
// the magnitude of the first half of the transform.
func PowerSpectrum(data []float64) []float64 {
	n := 1
	for n < len(data) {
		n *= 2
	}
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	if len(data) > 0 {
		mean /= float64(len(data))
	}
	padded := make([]float64, n)
	for i, v := range data {
		padded[i] = v - mean
	}

	f := FFT(padded)
	ps := make([]float64, len(f)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(f[i])
	}
	return ps
}

// Peak is the strongest non-DC spectral line.
type Peak struct {
	Frequency float64
	Period    float64
	Power     float64
}

// DominantPeriod finds the strongest oscillation in a series sampled every dt
// seconds. A flat series reports a zero frequency and an infinite period.
func DominantPeriod(data []float64, dt float64) (Peak, error) {
	if len(data) < 4 {
		return Peak{}, ErrTooShort
	}
	ps := PowerSpectrum(data)
	n := len(ps) * 2

	best := 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > ps[best] || best == 0 {
			best = i
		}
	}
	if ps[best] < 1e-12 {
		return Peak{Period: math.Inf(1)}, nil
	}
	freq := float64(best) / (float64(n) * dt)
	return Peak{Frequency: freq, Period: 1 / freq, Power: ps[best]}, nil
}
