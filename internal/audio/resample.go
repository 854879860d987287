package audio

// resampleInt16 converts 16-bit PCM samples between sample rates using
// linear interpolation. Quality is sufficient for speech.
func resampleInt16(input []int16, fromRate, toRate int) []int16 {
	if fromRate == toRate || len(input) == 0 {
		out := make([]int16, len(input))
		copy(out, input)
		return out
	}

	ratio := float64(fromRate) / float64(toRate)
	outLen := int(float64(len(input)) / ratio)
	out := make([]int16, outLen)

	for i := 0; i < outLen; i++ {
		pos := float64(i) * ratio
		idx := int(pos)

		if idx >= len(input)-1 {
			out[i] = input[len(input)-1]
			continue
		}

		frac := pos - float64(idx)
		out[i] = int16(float64(input[idx])*(1-frac) + float64(input[idx+1])*frac)
	}

	return out
}
