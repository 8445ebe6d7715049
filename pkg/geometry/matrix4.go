package geometry

import (
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Matrix4 is an affine 4x4 transform stored column-major, the layout glTF uses.
type Matrix4 [16]float64

// Identity returns the identity transform
func Identity() Matrix4 {
	return Matrix4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translation returns a transform that moves points by t
func Translation(t Vector3) Matrix4 {
	m := Identity()
	m[12], m[13], m[14] = t.X, t.Y, t.Z
	return m
}

// Scaling returns a transform that scales each axis independently
func Scaling(s Vector3) Matrix4 {
	m := Identity()
	m[0], m[5], m[10] = s.X, s.Y, s.Z
	return m
}

// Rotation returns the transform for the unit quaternion (x, y, z, w).
// The matrix columns are the images of the basis vectors under the rotation.
func Rotation(x, y, z, w float64) Matrix4 {
	rot := r3.Rotation(quat.Number{Real: w, Imag: x, Jmag: y, Kmag: z})
	cx := rot.Rotate(r3.Vec{X: 1})
	cy := rot.Rotate(r3.Vec{Y: 1})
	cz := rot.Rotate(r3.Vec{Z: 1})
	return Matrix4{
		cx.X, cx.Y, cx.Z, 0,
		cy.X, cy.Y, cy.Z, 0,
		cz.X, cz.Y, cz.Z, 0,
		0, 0, 0, 1,
	}
}

// TRS composes translation * rotation * scale, the order glTF nodes use.
func TRS(t Vector3, r [4]float64, s Vector3) Matrix4 {
	return Translation(t).Mul(Rotation(r[0], r[1], r[2], r[3])).Mul(Scaling(s))
}

// Mul returns m * other, so other is applied first
func (m Matrix4) Mul(other Matrix4) Matrix4 {
	var out Matrix4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += m[k*4+row] * other[col*4+k]
			}
			out[col*4+row] = sum
		}
	}
	return out
}

// TransformPoint applies the transform to a point (w = 1)
func (m Matrix4) TransformPoint(p Vector3) Vector3 {
	return Vector3{
		X: m[0]*p.X + m[4]*p.Y + m[8]*p.Z + m[12],
		Y: m[1]*p.X + m[5]*p.Y + m[9]*p.Z + m[13],
		Z: m[2]*p.X + m[6]*p.Y + m[10]*p.Z + m[14],
	}
}

// IsIdentity reports whether m is exactly the identity transform
func (m Matrix4) IsIdentity() bool {
	return m == Identity()
}

// YUpToZUp maps glTF's +Y-up frame onto a +Z-up frame: (x, y, z) -> (x, -z, y).
func YUpToZUp() Matrix4 {
	return Matrix4{
		1, 0, 0, 0,
		0, 0, 1, 0,
		0, -1, 0, 0,
		0, 0, 0, 1,
	}
}

// ZUpToYUp is the inverse of YUpToZUp: (x, y, z) -> (x, z, -y).
func ZUpToYUp() Matrix4 {
	return Matrix4{
		1, 0, 0, 0,
		0, 0, -1, 0,
		0, 1, 0, 0,
		0, 0, 0, 1,
	}
}
