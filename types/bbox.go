package types

import "github.com/chewxy/math32"

// Axis identifies one of the three coordinate axes.
type Axis uint8

const (
	XAxis Axis = iota
	YAxis
	ZAxis
)

// Next returns the axis following a in the x -> y -> z -> x cycle.
func (a Axis) Next() Axis {
	return (a + 1) % 3
}

func (a Axis) String() string {
	switch a {
	case XAxis:
		return "x"
	case YAxis:
		return "y"
	case ZAxis:
		return "z"
	}
	return "?"
}

// BBox is an axis-aligned bounding box. Once initialized from a point, Min is
// component-wise <= Max and the box only ever grows.
type BBox struct {
	Min Vec3
	Max Vec3
}

// Create a degenerate box containing a single point.
func BBoxFromPoint(p Vec3) BBox {
	return BBox{Min: p, Max: p}
}

// Create the smallest box containing all points. At least one point is
// required; passing an empty list panics.
func BBoxFromPoints(points []Vec3) BBox {
	if len(points) == 0 {
		panic("types: bounding box requires at least one point")
	}

	b := BBoxFromPoint(points[0])
	for _, p := range points[1:] {
		b.EnlargeToContain(p)
	}
	return b
}

// Expand the box so it contains p.
func (b *BBox) EnlargeToContain(p Vec3) {
	b.Min = MinVec3(b.Min, p)
	b.Max = MaxVec3(b.Max, p)
}

// Expand the box so it contains other.
func (b *BBox) Merge(other BBox) {
	b.Min = MinVec3(b.Min, other.Min)
	b.Max = MaxVec3(b.Max, other.Max)
}

// Return the union of two boxes.
func MergeBBox(a, b BBox) BBox {
	a.Merge(b)
	return a
}

// Get box center.
func (b BBox) Center() Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Get box side lengths.
func (b BBox) Size() Vec3 {
	return b.Max.Sub(b.Min)
}

// Get the axis with the largest side. Ties resolve to the lowest axis.
func (b BBox) MaxExtentAxis() Axis {
	s := b.Size()
	d := math32.Max(s[0], math32.Max(s[1], s[2]))
	switch d {
	case s[0]:
		return XAxis
	case s[1]:
		return YAxis
	}
	return ZAxis
}
