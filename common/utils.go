package common

import (
	"math/bits"

	"github.com/go-gl/mathgl/mgl32"
)

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && bits.OnesCount(uint(n)) == 1
}

// InRange reports whether lo <= v <= hi.
func InRange[T int | float32 | float64](v, lo, hi T) bool {
	return v >= lo && v <= hi
}

// unitTolerance is the relative length error below which a vector or
// quaternion counts as already normalized.
const unitTolerance = 1e-6

// Unit returns v scaled to unit length. Vectors that are already unit length
// within float tolerance are returned unchanged, so normalizing a stored value
// again is a no-op.
func Unit(v mgl32.Vec3) mgl32.Vec3 {
	if mgl32.FloatEqualThreshold(1, v.Len(), unitTolerance) {
		return v
	}
	return v.Normalize()
}

// UnitQuat is Unit for quaternions.
func UnitQuat(q mgl32.Quat) mgl32.Quat {
	if mgl32.FloatEqualThreshold(1, q.Len(), unitTolerance) {
		return q
	}
	return q.Normalize()
}
