package export

import (
	"fmt"
	"strconv"

	"github.com/achilleasa/assetpack/asset/binfile"
	"github.com/achilleasa/assetpack/asset/bvh"
)

type fieldType uint8

const (
	fieldI16 fieldType = iota
	fieldI32
	fieldU32
	fieldAABB
)

type headerField struct {
	name   string
	offset int
	typ    fieldType
}

type headerLayout struct {
	kind   string
	fields []headerField
}

// Header layouts of the files produced by the registered exporters keyed by
// file tag.
var headerLayouts = map[string]headerLayout{
	bvh.FileTag: {"bvh", []headerField{
		{"nodes", 4, fieldI32},
		{"root bbox", bvh.HeaderSize, fieldAABB},
	}},
	"OBST": {"obs", []headerField{
		{"points", 4, fieldI32},
		{"polygons", obstaclePolyCountOffset, fieldI32},
	}},
	"LANE": {"lan", []headerField{
		{"lanes", 4, fieldI32},
	}},
	"KFR": {"kfr", []headerField{
		{"max frame", 4, fieldI16},
		{"groups", 6, fieldI16},
	}},
	"GMT": {"gmt", []headerField{
		{"global attrs", 4, fieldU32},
		{"point attrs", 8, fieldU32},
		{"prim attrs", 0xC, fieldU32},
		{"points", 0x10, fieldU32},
		{"polygons", 0x14, fieldU32},
		{"bbox", meshBBoxOffset, fieldAABB},
	}},
	"OMD": {"omd", []headerField{
		{"materials", 4, fieldU32},
		{"groups", 8, fieldU32},
		{"vertices", 0xC, fieldU32},
		{"indices", 0x10, fieldU32},
		{"joints", 0x20, fieldU32},
		{"cull", modelCullOffset, fieldU32},
	}},
	"RMD": {"rmd", []headerField{
		{"materials", 4, fieldU32},
		{"groups", 8, fieldU32},
		{"vertices", 0xC, fieldU32},
		{"indices", 0x10, fieldU32},
		{"bbox", roomBBoxOffset, fieldAABB},
	}},
}

// A decoded header value.
type HeaderValue struct {
	Name  string
	Value string
}

// Summary of an exported file.
type FileInfo struct {
	Tag    string
	Kind   string
	Size   int
	Header []HeaderValue
}

// Decode the header of a file produced by one of the registered exporters.
func Inspect(r *binfile.Reader) (*FileInfo, error) {
	tag, err := r.Tag()
	if err != nil {
		return nil, err
	}
	layout, ok := headerLayouts[tag]
	if !ok {
		return nil, fmt.Errorf("export: unknown file tag %q", tag)
	}

	info := &FileInfo{Tag: tag, Kind: layout.kind, Size: r.Len()}
	for _, field := range layout.fields {
		var val string
		switch field.typ {
		case fieldI16:
			var v int16
			v, err = r.I16(field.offset)
			val = strconv.Itoa(int(v))
		case fieldI32:
			var v int32
			v, err = r.I32(field.offset)
			val = strconv.Itoa(int(v))
		case fieldU32:
			var v uint32
			v, err = r.U32(field.offset)
			val = strconv.FormatUint(uint64(v), 10)
		case fieldAABB:
			// Empty trees have no root node
			if tag == bvh.FileTag && r.Len() <= bvh.HeaderSize {
				continue
			}
			b, aabbErr := r.AABB(field.offset)
			err = aabbErr
			val = fmt.Sprintf("(%g, %g, %g) - (%g, %g, %g)", b.Min[0], b.Min[1], b.Min[2], b.Max[0], b.Max[1], b.Max[2])
		}
		if err != nil {
			return nil, fmt.Errorf("export: %s header field %q: %w", layout.kind, field.name, err)
		}
		info.Header = append(info.Header, HeaderValue{Name: field.name, Value: val})
	}

	return info, nil
}
