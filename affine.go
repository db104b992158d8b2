package scanline

import "math"

// identityTransform is the identity affine matrix.
var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

// multiplyAffine multiplies two 2D affine matrices: result = p * c.
//
//	Matrix layout: [a, b, c, d, tx, ty]
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
func multiplyAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// invertAffine computes the inverse of a 2D affine matrix.
// Returns the identity matrix if the matrix is singular.
func invertAffine(m [6]float64) [6]float64 {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return identityTransform
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return [6]float64{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// layerMatrix returns the forward transform of a rotated and scaled layer
// around the pivot (cx, cy):
//
//	Translate(-cx, -cy) -> Scale -> Rotate -> Translate(cx, cy)
func layerMatrix(a Affine, cx, cy float64) [6]float64 {
	sin, cos := math.Sincos(a.Angle * math.Pi / 180)
	m := [6]float64{1, 0, 0, 1, -cx, -cy}
	m = multiplyAffine([6]float64{a.Sx, 0, 0, a.Sy, 0, 0}, m)
	m = multiplyAffine([6]float64{cos, sin, -sin, cos, 0, 0}, m)
	return multiplyAffine([6]float64{1, 0, 0, 1, cx, cy}, m)
}

// samplingMatrix maps a layer-space output point back to the point of the
// untransformed layer that is drawn there.
func (l *layer) samplingMatrix() [6]float64 {
	cx := float64(l.hstart) + l.affine.Dx
	cy := float64(l.vstart) + l.affine.Dy
	return invertAffine(layerMatrix(l.affine, cx, cy))
}
