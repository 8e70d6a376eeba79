package engine

import "github.com/rsned/potion-brewing-agent/pkg/brewing"

// EvaluateUsefulness scores a spell delta against the per-tier ingredients
// still required for a recipe (cost - inventory).
//
// A tier where the spell moves against the need adds |delta - required| to
// regression. Otherwise the smaller of |delta| and |required| counts as
// advancement when the spell produces and as cleaning when it consumes surplus.
func EvaluateUsefulness(delta, required brewing.Vec4[int32]) brewing.Usefulness {
	var u brewing.Usefulness
	for i := range delta {
		if delta[i]*required[i] < 0 {
			u.Regression += uint32(absInt32(delta[i] - required[i]))
			continue
		}
		progress := min(absInt32(delta[i]), absInt32(required[i]))
		if delta[i] >= 0 {
			u.Advancement += uint32(progress)
		} else {
			u.Cleaning += uint32(progress)
		}
	}
	return u
}

func absInt32(x int32) int32 {
	if x < 0 {
		return -x
	}
	return x
}
