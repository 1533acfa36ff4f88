package spectral

import (
	"math"
	"math/cmplx"
	"testing"

	godsp "github.com/mjibson/go-dsp/fft"
)

func sine(n int, cycles float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Sin(2 * math.Pi * cycles * float64(i) / float64(n))
	}
	return out
}

func TestTransformEmpty(t *testing.T) {
	if _, err := New().Transform(nil); err == nil {
		t.Fatalf("expected error on empty signal")
	}
}

func TestTransformSinusoidPeak(t *testing.T) {
	const n = 256
	const freq = 17.0
	mags, err := New().Transform(sine(n, freq))
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	if len(mags) != n {
		t.Fatalf("expected %d bins, got %d", n, len(mags))
	}

	peak := 0
	for k := 1; k < n/2; k++ {
		if mags[k] > mags[peak] {
			peak = k
		}
	}
	if peak != int(freq) {
		t.Fatalf("dominant bin = %d, want %d", peak, int(freq))
	}
	for _, m := range mags {
		if m < 0 || math.IsNaN(m) {
			t.Fatalf("invalid magnitude %v", m)
		}
	}
}

func TestTransformNonPowerOfTwoLength(t *testing.T) {
	sig := sine(100, 7)
	mags, err := New().Transform(sig)
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	if len(mags) != len(sig) {
		t.Fatalf("dft fallback length = %d, want %d", len(mags), len(sig))
	}
	peak := 0
	for k := 1; k < 50; k++ {
		if mags[k] > mags[peak] {
			peak = k
		}
	}
	if peak != 7 {
		t.Fatalf("dominant bin = %d, want 7", peak)
	}
}

// Cross-check both code paths against go-dsp's FFTReal.
func TestTransformMatchesReference(t *testing.T) {
	for _, n := range []int{64, 100} {
		sig := make([]float64, n)
		for i := range sig {
			sig[i] = math.Sin(0.31*float64(i)) + 0.5*math.Cos(1.7*float64(i))
		}

		mags, err := New().Transform(sig)
		if err != nil {
			t.Fatalf("n=%d transform: %v", n, err)
		}

		ref := godsp.FFTReal(sig)
		for k := range ref {
			want := cmplx.Abs(ref[k])
			if math.Abs(mags[k]-want) > 1e-6*(1+want) {
				t.Fatalf("n=%d bin %d: got %v want %v", n, k, mags[k], want)
			}
		}
	}
}
