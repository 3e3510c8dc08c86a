package common

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Plane is a plane in 3D space satisfying Normal·p + Distance = 0.
// Points with a positive signed distance lie on the inside of a ViewVolume.
type Plane struct {
	Normal   mgl32.Vec3
	Distance float32
}

// SignedDistance returns the signed distance from the plane to v.
//
// Parameters:
//   - v: the point to test
//
// Returns:
//   - float32: positive inside, negative outside
func (p Plane) SignedDistance(v mgl32.Vec3) float32 {
	return p.Normal.Dot(v) + p.Distance
}

// ViewVolume holds the six clip planes of a camera, used to cull instances
// while flattening a scene for the renderer.
type ViewVolume struct {
	Planes [6]Plane // Left, Right, Bottom, Top, Near, Far
}

// Plane indices into ViewVolume.Planes.
const (
	PlaneLeft   = 0
	PlaneRight  = 1
	PlaneBottom = 2
	PlaneTop    = 3
	PlaneNear   = 4
	PlaneFar    = 5
)

// ExtractViewVolume extracts the clip planes from a combined view-projection
// matrix using the Gribb/Hartmann method. mgl32 matrices are column-major, so
// row r of the matrix is (m[r], m[4+r], m[8+r], m[12+r]).
//
// Reference: https://www8.cs.umu.se/kurser/5DV051/HT12/lab/plane_extraction.pdf
//
// Parameters:
//   - viewProj: the combined projection * view matrix
//
// Returns:
//   - ViewVolume: the volume with normalized planes
func ExtractViewVolume(viewProj mgl32.Mat4) ViewVolume {
	row := func(r int) mgl32.Vec4 {
		return mgl32.Vec4{viewProj[r], viewProj[4+r], viewProj[8+r], viewProj[12+r]}
	}
	r0, r1, r2, r3 := row(0), row(1), row(2), row(3)

	var v ViewVolume
	v.Planes[PlaneLeft] = planeFrom(r3.Add(r0))
	v.Planes[PlaneRight] = planeFrom(r3.Sub(r0))
	v.Planes[PlaneBottom] = planeFrom(r3.Add(r1))
	v.Planes[PlaneTop] = planeFrom(r3.Sub(r1))
	v.Planes[PlaneNear] = planeFrom(r3.Add(r2))
	v.Planes[PlaneFar] = planeFrom(r3.Sub(r2))
	return v
}

// planeFrom builds a normalized plane from (a, b, c, d) coefficients.
func planeFrom(c mgl32.Vec4) Plane {
	n := mgl32.Vec3{c[0], c[1], c[2]}
	length := n.Len()
	if length == 0 {
		return Plane{Normal: n, Distance: c[3]}
	}
	inv := 1 / length
	return Plane{Normal: n.Mul(inv), Distance: c[3] * inv}
}

// IntersectsBox reports whether the axis-aligned box [min, max] is at least
// partially inside the volume. It uses the positive-vertex test, so a box near
// a corner of the volume may be reported as visible when it is not.
//
// Parameters:
//   - min: the minimum corner of the box
//   - max: the maximum corner of the box
//
// Returns:
//   - bool: false only if the box lies entirely outside one of the planes
func (v ViewVolume) IntersectsBox(min, max mgl32.Vec3) bool {
	for _, p := range v.Planes {
		positive := min
		for i := 0; i < 3; i++ {
			if p.Normal[i] >= 0 {
				positive[i] = max[i]
			}
		}
		if p.SignedDistance(positive) < 0 {
			return false
		}
	}
	return true
}

// TransformBox transforms an axis-aligned box by m and returns the axis-aligned
// bounds of the eight transformed corners.
//
// Parameters:
//   - m: the model matrix
//   - min: the minimum corner in model space
//   - max: the maximum corner in model space
//
// Returns:
//   - mgl32.Vec3: the minimum corner in world space
//   - mgl32.Vec3: the maximum corner in world space
func TransformBox(m mgl32.Mat4, min, max mgl32.Vec3) (mgl32.Vec3, mgl32.Vec3) {
	var outMin, outMax mgl32.Vec3
	for i := 0; i < 8; i++ {
		corner := mgl32.Vec3{min[0], min[1], min[2]}
		if i&1 != 0 {
			corner[0] = max[0]
		}
		if i&2 != 0 {
			corner[1] = max[1]
		}
		if i&4 != 0 {
			corner[2] = max[2]
		}
		p := mgl32.TransformCoordinate(corner, m)
		if i == 0 {
			outMin, outMax = p, p
			continue
		}
		for k := 0; k < 3; k++ {
			outMin[k] = min32(outMin[k], p[k])
			outMax[k] = max32(outMax[k], p[k])
		}
	}
	return outMin, outMax
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
