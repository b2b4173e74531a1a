package analysis

import (
	"math"
	"math/bits"
	"math/cmplx"
)

// FFT computes the discrete Fourier transform of a real series with an
// in-place iterative radix-2 butterfly. The length must be a power of two.
func FFT(data []float64) []complex128 {
	n := len(data)
	out := make([]complex128, n)
	if n == 0 {
		return out
	}
	if n&(n-1) != 0 {
		panic("fft requires power of 2 length")
	}

	// bit-reversal permutation puts the series in butterfly order
	logN := bits.TrailingZeros(uint(n))
	for i, v := range data {
		out[bits.Reverse(uint(i))>>(bits.UintSize-logN)] = complex(v, 0)
	}

	for size := 2; size <= n; size <<= 1 {
		half := size >> 1
		root := cmplx.Exp(complex(0, -2*math.Pi/float64(size)))
		for start := 0; start < n; start += size {
			w := complex(1, 0)
			for k := start; k < start+half; k++ {
				t := w * out[k+half]
				out[k+half] = out[k] - t
				out[k] += t
				w *= root
			}
		}
	}
	return out
}

// PowerSpectrum returns the one-sided magnitude spectrum of a real series.
// Bin k corresponds to frequency k/(n*dt).
func PowerSpectrum(data []float64) []float64 {
	fft := FFT(data)
	ps := make([]float64, len(fft)/2)

	for i := range ps {
		ps[i] = cmplx.Abs(fft[i])
	}

	return ps
}
