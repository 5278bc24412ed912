package sirds

import "math"

// EstimateFocusDepth picks the focus plane used to bias separation: the
// mode of a 256-bin histogram over depths clamped to [0, 1], itself
// clamped to [0.1, 0.9] so an extreme plane never wins. Ties resolve to
// the lowest bin. Returns 0.5 for an empty or fully non-finite map.
func EstimateFocusDepth(depth []float64) float64 {
	if len(depth) == 0 {
		return 0.5
	}

	const bins = 256
	var hist [bins]int
	count := 0
	for _, d := range depth {
		if math.IsNaN(d) || math.IsInf(d, 0) {
			continue
		}
		c := clampF(d, 0, 1)
		hist[int(math.Round(c*(bins-1)))]++
		count++
	}
	if count == 0 {
		return 0.5
	}

	maxBin := 0
	for i := 1; i < bins; i++ {
		if hist[i] > hist[maxBin] {
			maxBin = i
		}
	}

	return clampF(float64(maxBin)/(bins-1), 0.1, 0.9)
}
