package systems

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/hive/components"
)

// clamp01 clamps a value to the [0, 1] range.
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// normalizeAngle wraps an angle to [-Pi, Pi].
func normalizeAngle(angle float32) float32 {
	for angle > math.Pi {
		angle -= 2 * math.Pi
	}
	for angle < -math.Pi {
		angle += 2 * math.Pi
	}
	return angle
}

// randomAngle returns a uniform angle in [0, 2*Pi).
func randomAngle(rng *rand.Rand) float32 {
	return rng.Float32() * 2 * math.Pi
}

// randomInAnnulus returns a point around center at a uniform angle and a
// radius drawn uniformly from [inner, outer].
func randomInAnnulus(rng *rand.Rand, center components.Position, inner, outer float32) components.Position {
	if outer < inner {
		outer = inner
	}
	r := inner + rng.Float32()*(outer-inner)
	return center.OffsetXZ(randomAngle(rng), r)
}
