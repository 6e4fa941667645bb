package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/achilleasa/assetpack/asset/scene"
)

// Get the float components of a point or prim attribute. If the attribute is
// not defined or has fewer than len(def) components, def is returned.
func floatsOrDefault(attr *scene.Attribute, index int, def ...float32) []float32 {
	if attr == nil {
		return def
	}
	if v := attr.Floats(index); len(v) >= len(def) {
		return v
	}
	return def
}

// Get the groups whose names start with prefix, in scene order.
func groupsWithPrefix(sc *scene.Scene, prefix string) []*scene.Group {
	var out []*scene.Group
	for _, g := range sc.Groups {
		if strings.HasPrefix(g.Name, prefix) && len(g.Name) > len(prefix) {
			out = append(out, g)
		}
	}
	return out
}

// Convert a point index into a 16-bit signed file index.
func pointIndexI16(point int) (int16, error) {
	if point > math.MaxInt16 {
		return 0, fmt.Errorf("point index %d does not fit in a 16-bit index", point)
	}
	return int16(point), nil
}

// Convert a point index into a 16-bit unsigned file index.
func pointIndexU16(point int) (uint16, error) {
	if point > math.MaxUint16 {
		return 0, fmt.Errorf("point index %d does not fit in a 16-bit index", point)
	}
	return uint16(point), nil
}
