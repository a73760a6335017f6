package epi

// Convolve computes the causal 1-D convolution of signal with kernel:
// out[t] = sum_k signal[t-k] * kernel[k]. The result has length
// len(signal)+len(kernel)-1; callers truncate to the horizon they need.
func Convolve(signal, kernel []float64) []float64 {
	if len(signal) == 0 || len(kernel) == 0 {
		return nil
	}
	out := make([]float64, len(signal)+len(kernel)-1)
	for t := range out {
		var acc float64
		for k, w := range kernel {
			i := t - k
			if i < 0 {
				break
			}
			if i < len(signal) {
				acc += signal[i] * w
			}
		}
		out[t] = acc
	}
	return out
}
