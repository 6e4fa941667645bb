// Package check contains geometric sanity checks used to flag suspicious
// polygons during export. The checks are diagnostic only; they never change
// the exported data.
package check

import (
	"github.com/achilleasa/assetpack/types"
	"github.com/chewxy/math32"
)

// Maximum deviation of a vertex from the polygon plane.
const PlanarEpsilon float32 = 1e-6

// Returns true if the quad p0, p1, p2, p3 is convex. Each diagonal must
// separate the two vertices that are not on it.
func IsConvexQuad(p0, p1, p2, p3 types.Vec3) bool {
	v := p3.Sub(p1)
	if v.Cross(p0.Sub(p1)).Dot(v.Cross(p2.Sub(p1))) >= 0 {
		return false
	}

	v = p2.Sub(p0)
	if v.Cross(p3.Sub(p0)).Dot(v.Cross(p1.Sub(p0))) >= 0 {
		return false
	}

	return true
}

// Returns true if all vertices lie on the same plane perpendicular to normal.
func IsPlanar(vertices []types.Vec3, normal types.Vec3) bool {
	if len(vertices) == 0 {
		return true
	}

	d := vertices[0].Dot(normal)
	for _, v := range vertices[1:] {
		if math32.Abs(v.Dot(normal)-d) > PlanarEpsilon {
			return false
		}
	}
	return true
}
