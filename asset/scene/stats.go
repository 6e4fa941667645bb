package scene

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
)

// Build a tabular representation of scene statistics.
func (sc *Scene) Stats() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Element", "Name", "Count"})
	table.Append([]string{"Geometry", "---", fmtCount(len(sc.Points) + len(sc.Polygons))})
	table.Append([]string{"", "Points", fmtCount(len(sc.Points))})
	table.Append([]string{"", "Polygons", fmtCount(len(sc.Polygons))})
	table.Append([]string{"", "Groups", fmtCount(len(sc.Groups))})
	table.Append([]string{" ", " ", " "})
	table.Append([]string{"Rig", "---", fmtCount(len(sc.Joints))})
	table.Append([]string{"", "Joints", fmtCount(len(sc.Joints))})
	var spheres int
	for _, g := range sc.Groups {
		spheres += len(g.Cull)
	}
	table.Append([]string{"", "Cull spheres", fmtCount(spheres)})
	table.Append([]string{" ", " ", " "})
	table.Append([]string{"Materials", "---", fmtCount(len(sc.Materials))})
	for _, mtl := range sc.Materials {
		table.Append([]string{"", mtl.Name, fmt.Sprintf("%d params", len(mtl.Params))})
	}

	attrCount := len(sc.GlobalAttrs) + len(sc.PointAttrs) + len(sc.PrimAttrs)
	table.Append([]string{" ", " ", " "})
	table.Append([]string{"Attributes", "---", fmtCount(attrCount)})
	for _, list := range [][]*Attribute{sc.GlobalAttrs, sc.PointAttrs, sc.PrimAttrs} {
		for _, attr := range list {
			table.Append([]string{"", fmt.Sprintf("%s %s", attr.Class, attr.Name), fmt.Sprintf("%s[%d]", attr.Kind, attr.Size)})
		}
	}

	var channels int
	if sc.Anim != nil {
		for _, g := range sc.Anim.Groups {
			channels += len(g.Channels)
		}
		table.Append([]string{" ", " ", " "})
		table.Append([]string{"Animation", "---", fmtCount(len(sc.Anim.Groups))})
		table.Append([]string{"", "Channels", fmtCount(channels)})
		table.Append([]string{"", "Frames", fmtCount(sc.Anim.MaxFrame)})
	}

	table.SetFooter([]string{"Total", " ", fmtCount(len(sc.Points) + len(sc.Polygons) + len(sc.Joints) + len(sc.Materials) + attrCount + channels)})

	table.Render()
	return buf.String()
}

func fmtCount(n int) string {
	return strconv.Itoa(n)
}
