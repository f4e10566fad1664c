// Package analysis extracts frequency content from metric series, chiefly to
// estimate vortex shedding rates behind obstacles.
package analysis

import (
	"math"
	"math/cmplx"
)

// FFT computes the discrete Fourier transform by radix-2 decimation. The
// input length must be a power of two.
func FFT(data []float64) []complex128 {
	n := len(data)
	if n <= 1 {
		result := make([]complex128, n)
		for i := range data {
			result[i] = complex(data[i], 0)
		}
		return result
	}

	if n%2 != 0 {
		panic("fft requires power of 2 length")
	}

	even := make([]float64, n/2)
	odd := make([]float64, n/2)
	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}

	feven := FFT(even)
	fodd := FFT(odd)

	result := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		result[k] = feven[k] + w*fodd[k]
		result[k+n/2] = feven[k] - w*fodd[k]
	}
	return result
}

// PowerSpectrum returns the magnitude of each frequency bin up to the
// Nyquist frequency. The series is detrended by its mean and zero-padded to
// the next power of two, so any input length is accepted.
func PowerSpectrum(series []float64) []float64 {
	mean := 0.0
	for _, v := range series {
		mean += v
	}
	if len(series) > 0 {
		mean /= float64(len(series))
	}

	n := 1
	for n < len(series) {
		n *= 2
	}
	padded := make([]float64, n)
	for i, v := range series {
		padded[i] = v - mean
	}

	fft := FFT(padded)
	ps := make([]float64, len(fft)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(fft[i])
	}
	return ps
}

// DominantFrequency returns the strongest frequency in cycles per tick and
// its spectral power. The zero-frequency bin is excluded. Returns 0, 0 for
// series too short to analyse.
func DominantFrequency(series []float64) (freq, power float64) {
	ps := PowerSpectrum(series)
	if len(ps) < 2 {
		return 0, 0
	}

	maxIdx := 1
	for i := 2; i < len(ps); i++ {
		if ps[i] > ps[maxIdx] {
			maxIdx = i
		}
	}
	// Bin i of an n-point transform is i/n cycles per sample.
	return float64(maxIdx) / float64(2*len(ps)), ps[maxIdx]
}

// Strouhal converts a shedding frequency in cycles per tick into the
// dimensionless Strouhal number f*L/U.
func Strouhal(freq, length, speed float64) float64 {
	if speed == 0 {
		return 0
	}
	return freq * length / speed
}
