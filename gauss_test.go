package brr

import (
	"math"
	"testing"
)

func TestGaussFilterLengthAndShortInput(t *testing.T) {
	for _, n := range []int{0, 1} {
		in := make([]PcmF, n)
		out := GaussFilter(in)

		if len(out) != n {
			t.Fatalf("len(GaussFilter(%d samples))=%d, want %d", n, len(out), n)
		}
	}
}

func TestGaussFilterPreservesLength(t *testing.T) {
	in := make([]PcmF, 50)
	for i := range in {
		in[i] = PcmF(i%7) - 3
	}

	out := GaussFilter(in)
	if len(out) != len(in) {
		t.Fatalf("len(out)=%d, want %d", len(out), len(in))
	}
}

func TestGaussFilterLinearity(t *testing.T) {
	// G(a*x + b*y) == a*G(x) + b*G(y) within float rounding: the Gauss filter is linear.
	x := make([]PcmF, 30)
	y := make([]PcmF, 30)

	for i := range x {
		x[i] = PcmF(math.Sin(float64(i) * 0.3))
		y[i] = PcmF(math.Cos(float64(i) * 0.2))
	}

	const a, b = 1.7, -0.4

	combined := make([]PcmF, len(x))
	for i := range combined {
		combined[i] = PcmF(a)*x[i] + PcmF(b)*y[i]
	}

	lhs := GaussFilter(combined)
	gx := GaussFilter(x)
	gy := GaussFilter(y)

	for i := range lhs {
		rhs := PcmF(a)*gx[i] + PcmF(b)*gy[i]
		if math.Abs(float64(lhs[i]-rhs)) > 1e-4 {
			t.Fatalf("linearity violated at %d: G(ax+by)=%v, a*G(x)+b*G(y)=%v", i, lhs[i], rhs)
		}
	}
}

func TestGaussFilterBoundedByInputMax(t *testing.T) {
	x := []PcmF{0.1, -0.9, 0.5, 0.3, -0.2, 0.8, -0.7}

	maxIn := PcmF(0)
	for _, v := range x {
		if a := absPcm(v); a > maxIn {
			maxIn = a
		}
	}

	out := GaussFilter(x)
	for i, v := range out {
		if absPcm(v) > maxIn+1e-6 {
			t.Fatalf("GaussFilter output[%d]=%v exceeds input max magnitude %v", i, v, maxIn)
		}
	}
}

func absPcm(v PcmF) PcmF {
	if v < 0 {
		return -v
	}

	return v
}

func TestGaussFilterEdgeHandling(t *testing.T) {
	x := []PcmF{1, 0, 0}

	out := GaussFilter(x)

	wantFirst := PcmF(gaussC1+gaussC0)*1 + PcmF(gaussC0)*0
	if out[0] != wantFirst {
		t.Fatalf("out[0]=%v, want %v", out[0], wantFirst)
	}
}
