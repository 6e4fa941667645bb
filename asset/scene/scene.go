package scene

import (
	"fmt"

	"github.com/achilleasa/assetpack/types"
)

// A skin influence of a joint on a point.
type Influence struct {
	Joint  string
	Weight float32
}

// A scene point.
type Point struct {
	Pos types.Vec3
	W   float32

	// Joint influences in authoring order.
	Skin []Influence
}

// A polygon references scene points by index. Polygons are wound clockwise
// when viewed from their front face.
type Polygon struct {
	Points   []int
	Material string
}

// A named set of polygons.
type Group struct {
	Name  string
	Prims []int

	// Visibility culling spheres that follow skeleton joints.
	Cull []CullSphere
}

// A bounding sphere linked to a joint. Sphere holds the center in xyz and
// the radius in w.
type CullSphere struct {
	Joint  string
	Sphere types.Vec4
}

// A skeleton joint. Root joints have an empty Parent.
type Joint struct {
	Name   string
	Parent string
	Pos    types.Vec3
}

// A named material parameter.
type Param struct {
	Name   string
	Values []float32
}

// A material is an ordered list of named float parameters.
type Material struct {
	Name   string
	Params []Param
}

// Get the values of a material parameter or nil if it is not defined.
func (m *Material) Param(name string) []float32 {
	for _, p := range m.Params {
		if p.Name == name {
			return p.Values
		}
	}
	return nil
}

// Set a material parameter, replacing any previous value.
func (m *Material) SetParam(name string, values ...float32) {
	for i := range m.Params {
		if m.Params[i].Name == name {
			m.Params[i].Values = values
			return
		}
	}
	m.Params = append(m.Params, Param{Name: name, Values: values})
}

// Scene is the exporter-facing document: geometry, grouping, skeleton,
// materials, attributes and animation tracks.
type Scene struct {
	Name string

	Points    []Point
	Polygons  []Polygon
	Groups    []*Group
	Joints    []*Joint
	Materials []*Material

	GlobalAttrs []*Attribute
	PointAttrs  []*Attribute
	PrimAttrs   []*Attribute

	Anim *Animation
}

// Create a new empty scene.
func New(name string) *Scene {
	return &Scene{Name: name}
}

// Append a point and return its index. Point attributes are extended with
// a zero value.
func (sc *Scene) AddPoint(p Point) int {
	sc.Points = append(sc.Points, p)
	for _, attr := range sc.PointAttrs {
		attr.Grow()
	}
	return len(sc.Points) - 1
}

// Append a polygon and return its index. Prim attributes are extended with a
// zero value.
func (sc *Scene) AddPolygon(poly Polygon) int {
	sc.Polygons = append(sc.Polygons, poly)
	for _, attr := range sc.PrimAttrs {
		attr.Grow()
	}
	return len(sc.Polygons) - 1
}

// Define a new attribute. Values are zero-initialized for every existing
// element of the attribute class.
func (sc *Scene) AddAttribute(class AttrClass, name string, kind AttrKind, size int) (*Attribute, error) {
	if sc.Attribute(class, name) != nil {
		return nil, fmt.Errorf("%s attribute %q already defined", class, name)
	}
	if kind != StringKind && size < 1 {
		return nil, fmt.Errorf("%s attribute %q: invalid size %d", class, name, size)
	}

	var attr *Attribute
	switch class {
	case GlobalAttr:
		attr = NewAttribute(name, class, kind, size, 1)
		sc.GlobalAttrs = append(sc.GlobalAttrs, attr)
	case PointAttr:
		attr = NewAttribute(name, class, kind, size, len(sc.Points))
		sc.PointAttrs = append(sc.PointAttrs, attr)
	case PrimAttr:
		attr = NewAttribute(name, class, kind, size, len(sc.Polygons))
		sc.PrimAttrs = append(sc.PrimAttrs, attr)
	default:
		return nil, fmt.Errorf("attribute %q: unsupported class %s", name, class)
	}
	return attr, nil
}

// Lookup an attribute by class and name. Returns nil if not defined.
func (sc *Scene) Attribute(class AttrClass, name string) *Attribute {
	var list []*Attribute
	switch class {
	case GlobalAttr:
		list = sc.GlobalAttrs
	case PointAttr:
		list = sc.PointAttrs
	case PrimAttr:
		list = sc.PrimAttrs
	}

	for _, attr := range list {
		if attr.Name == name {
			return attr
		}
	}
	return nil
}

// Lookup a group by name. Returns nil if not defined.
func (sc *Scene) Group(name string) *Group {
	for _, g := range sc.Groups {
		if g.Name == name {
			return g
		}
	}
	return nil
}

// Add a polygon to a group, creating the group if required.
func (sc *Scene) AddToGroup(name string, prim int) *Group {
	g := sc.group(name)
	g.Prims = append(g.Prims, prim)
	return g
}

// Attach a culling sphere to a group, creating the group if required.
func (sc *Scene) AddCullSphere(name string, sph CullSphere) *Group {
	g := sc.group(name)
	g.Cull = append(g.Cull, sph)
	return g
}

func (sc *Scene) group(name string) *Group {
	g := sc.Group(name)
	if g == nil {
		g = &Group{Name: name}
		sc.Groups = append(sc.Groups, g)
	}
	return g
}

// Lookup a material by name. Returns nil if not defined.
func (sc *Scene) Material(name string) *Material {
	for _, m := range sc.Materials {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// Lookup a joint by name. Returns nil if not defined.
func (sc *Scene) Joint(name string) *Joint {
	for _, j := range sc.Joints {
		if j.Name == name {
			return j
		}
	}
	return nil
}

// Get the point positions of a polygon.
func (sc *Scene) PolygonVertices(index int) []types.Vec3 {
	poly := sc.Polygons[index]
	out := make([]types.Vec3, len(poly.Points))
	for i, p := range poly.Points {
		out[i] = sc.Points[p].Pos
	}
	return out
}

// Calculate the unit face normal of a polygon using Newell's method. The
// normal points towards the side from which the polygon appears clockwise.
func (sc *Scene) PolygonNormal(index int) types.Vec3 {
	verts := sc.PolygonVertices(index)

	var n types.Vec3
	for i, cur := range verts {
		next := verts[(i+1)%len(verts)]
		n[0] += (cur[1] - next[1]) * (cur[2] + next[2])
		n[1] += (cur[2] - next[2]) * (cur[0] + next[0])
		n[2] += (cur[0] - next[0]) * (cur[1] + next[1])
	}
	return n.Mul(-1).Normalize()
}

// Get the bounding box of a set of polygons. Returns an empty box if prims
// is empty.
func (sc *Scene) PolygonsBBox(prims []int) types.BBox {
	var bbox types.BBox
	first := true
	for _, prim := range prims {
		for _, p := range sc.Polygons[prim].Points {
			if first {
				bbox = types.BBoxFromPoint(sc.Points[p].Pos)
				first = false
				continue
			}
			bbox.EnlargeToContain(sc.Points[p].Pos)
		}
	}
	return bbox
}

// Get the number of polygons in the scene.
func (sc *Scene) PrimitiveCount() int {
	return len(sc.Polygons)
}

// Get the id of the i-th polygon.
func (sc *Scene) PrimitiveID(i int) int {
	return i
}

// Get the vertices of the i-th polygon.
func (sc *Scene) PrimitiveVertices(i int) []types.Vec3 {
	return sc.PolygonVertices(i)
}

// Get the bounding box of all scene points. Returns an empty box if the
// scene has no points.
func (sc *Scene) BBox() types.BBox {
	if len(sc.Points) == 0 {
		return types.BBox{}
	}

	bbox := types.BBoxFromPoint(sc.Points[0].Pos)
	for _, p := range sc.Points[1:] {
		bbox.EnlargeToContain(p.Pos)
	}
	return bbox
}
