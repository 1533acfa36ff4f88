package spectral

import (
	"fmt"
	"math"
	"sync"
)

// Analyzer computes the magnitude spectrum of a uniformly sampled signal.
// Power-of-two lengths go through an iterative radix-2 Cooley-Tukey FFT;
// everything else falls back to a direct O(n^2) DFT. Twiddle factor tables are
// cached per length and shared read-only across analyzer instances.
type Analyzer struct{}

func New() *Analyzer { return &Analyzer{} }

var (
	twiddleMu    sync.RWMutex
	twiddleCache = map[int][]complex128{}
)

// twiddles returns the n/2 roots exp(-2*pi*i*k/n) for k in [0,n/2).
func twiddles(n int) []complex128 {
	twiddleMu.RLock()
	w, ok := twiddleCache[n]
	twiddleMu.RUnlock()
	if ok {
		return w
	}

	w = make([]complex128, n/2)
	for k := range w {
		angle := -2 * math.Pi * float64(k) / float64(n)
		w[k] = complex(math.Cos(angle), math.Sin(angle))
	}

	twiddleMu.Lock()
	twiddleCache[n] = w
	twiddleMu.Unlock()
	return w
}

// Transform returns one non-negative magnitude per frequency bin, same length
// as the input. Each bin carries the Euclidean norm of the complex output; for
// real input the upper half mirrors the lower (conjugate symmetry), so callers
// usually only look at the first n/2 bins.
func (a *Analyzer) Transform(signal []float64) ([]float64, error) {
	n := len(signal)
	if n == 0 {
		return nil, fmt.Errorf("spectral: empty signal")
	}
	if n == 1 {
		return []float64{math.Abs(signal[0])}, nil
	}

	var spec []complex128
	if n&(n-1) == 0 {
		spec = fft(signal)
	} else {
		spec = dft(signal)
	}

	mags := make([]float64, n)
	for k, c := range spec {
		mags[k] = math.Hypot(real(c), imag(c))
	}
	return mags, nil
}

// fft is an iterative radix-2 Cooley-Tukey transform. len(signal) must be a
// power of two.
func fft(signal []float64) []complex128 {
	n := len(signal)
	buf := make([]complex128, n)

	// Bit-reversal permutation.
	bits := 0
	for 1<<bits < n {
		bits++
	}
	for i, v := range signal {
		buf[reverseBits(i, bits)] = complex(v, 0)
	}

	w := twiddles(n)
	for size := 2; size <= n; size <<= 1 {
		half := size / 2
		stride := n / size
		for start := 0; start < n; start += size {
			for k := 0; k < half; k++ {
				even := buf[start+k]
				odd := buf[start+k+half] * w[k*stride]
				buf[start+k] = even + odd
				buf[start+k+half] = even - odd
			}
		}
	}
	return buf
}

func reverseBits(x, bits int) int {
	r := 0
	for i := 0; i < bits; i++ {
		r = (r << 1) | (x & 1)
		x >>= 1
	}
	return r
}

// dft is the direct transform used for non-power-of-two lengths.
func dft(signal []float64) []complex128 {
	n := len(signal)
	out := make([]complex128, n)
	for k := 0; k < n; k++ {
		var re, im float64
		for t, v := range signal {
			angle := -2 * math.Pi * float64(k) * float64(t) / float64(n)
			re += v * math.Cos(angle)
			im += v * math.Sin(angle)
		}
		out[k] = complex(re, im)
	}
	return out
}
