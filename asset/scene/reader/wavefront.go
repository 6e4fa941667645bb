package reader

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/achilleasa/assetpack/asset"
	"github.com/achilleasa/assetpack/asset/scene"
	"github.com/achilleasa/assetpack/log"
	"github.com/achilleasa/assetpack/types"
)

// Names of the point attributes populated from face normal and uv references.
const (
	NormalAttr = "N"
	UVAttr     = "uv"
)

type wavefrontSceneReader struct {
	logger log.Logger

	// The parsed scene.
	scene *scene.Scene

	// Resolves call, mtllib and anim references.
	open asset.OpenFunc

	// Currently selected material and groups.
	curMaterial string
	curGroups   []string

	// List of normals and uv coords. Vertices are stored as scene points.
	normalList []types.Vec3
	uvList     []types.Vec2

	// An error stack that provides additional error information when
	// scene files include other files (models, mat libs e.t.c)
	errStack []string
}

// Create a new text scene reader.
func newWavefrontReader() *wavefrontSceneReader {
	return &wavefrontSceneReader{
		logger:   log.New("wavefront scene reader"),
		open:     asset.NewResource,
		errStack: make([]string, 0),
	}
}

// Read scene definition.
func (r *wavefrontSceneReader) Read(sceneRes *asset.Resource) (*scene.Scene, error) {
	r.logger.Noticef(`parsing scene from "%s"`, sceneRes.Path())
	start := time.Now()

	r.scene = scene.New(sceneRes.Stem())

	err := r.parse(sceneRes)
	if err != nil {
		return nil, err
	}

	r.logger.Noticef("parsed scene in %d ms", time.Since(start).Nanoseconds()/1e6)
	return r.scene, nil
}

// Generate an error message that also includes any data in the error stack.
func (r *wavefrontSceneReader) emitError(file string, line int, msgFormat string, args ...interface{}) error {
	msg := fmt.Sprintf(msgFormat, args...)

	var errMsg string
	if file != "" {
		errMsg = strings.Trim(
			fmt.Sprintf("[%s: %d] error: %s\n%s", file, line, msg, strings.Join(r.errStack, "\n")),
			"\n",
		)
	} else {
		errMsg = strings.Trim(
			fmt.Sprintf("error: %s\n%s", msg, strings.Join(r.errStack, "\n")),
			"\n",
		)
	}

	return errors.New(errMsg)
}

// Push a frame to the error stack.
func (r *wavefrontSceneReader) pushFrame(msg string) {
	r.errStack = append([]string{msg}, r.errStack...)
}

// Pop a frame from the error stack.
func (r *wavefrontSceneReader) popFrame() {
	r.errStack = r.errStack[1:]
}

// Parse wavefront object scene format.
func (r *wavefrontSceneReader) parse(res *asset.Resource) error {
	var lineNum int = 0
	var err error

	// The main obj file may include (call) several other object files. Each
	// object file contains 1-based indices (when they are positive). By
	// tracking the current vertex/uv/normal offsets we can apply them
	// while parsing faces to select the correct coordinates.
	relVertexOffset := len(r.scene.Points)
	relUvOffset := len(r.uvList)
	relNormalOffset := len(r.normalList)

	scanner := bufio.NewScanner(res)
	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		switch lineTokens[0] {
		case "call", "mtllib", "anim":
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "%s"; expected 1 argument; got %d`, lineTokens[0], len(lineTokens)-1)
			}

			r.pushFrame(fmt.Sprintf("referenced from %s:%d [%s]", res.Path(), lineNum, lineTokens[0]))

			incRes, err := r.open(lineTokens[1], res)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}

			switch lineTokens[0] {
			case "call":
				err = r.parse(incRes)
			case "mtllib":
				err = r.parseMaterials(incRes)
			case "anim":
				r.scene.Anim, err = readAnimation(incRes)
				if err != nil {
					err = r.emitError(incRes.Path(), 0, "%s", err.Error())
				}
			}
			incRes.Close()

			if err != nil {
				return err
			}
			r.popFrame()
		case "usemtl":
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for 'usemtl'; expected 1 argument; got %d`, len(lineTokens)-1)
			}

			matName := lineTokens[1]
			if r.scene.Material(matName) == nil {
				return r.emitError(res.Path(), lineNum, `undefined material with name "%s"`, matName)
			}
			r.curMaterial = matName
		case "v":
			p, err := parsePoint(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			r.scene.AddPoint(p)
		case "vn":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			r.normalList = append(r.normalList, v)
		case "vt":
			v, err := parseVec2(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			r.uvList = append(r.uvList, v)
		case "vw":
			if err = r.parseSkin(lineTokens); err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
		case "g":
			r.curGroups = append(r.curGroups[:0], lineTokens[1:]...)
		case "o":
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "o"; expected 1 argument for object name; got %d`, len(lineTokens)-1)
			}
			r.scene.Name = lineTokens[1]
		case "f":
			if err = r.parseFace(lineTokens, relVertexOffset, relUvOffset, relNormalOffset); err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
		case "joint":
			if err = r.parseJoint(lineTokens); err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
		case "csph":
			if err = r.parseCullSphere(lineTokens); err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
		case "attr":
			if err = r.parseAttrDef(lineTokens); err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
		case "set":
			if err = r.parseAttrValue(lineTokens, relVertexOffset); err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
		default:
			r.logger.Debugf(`%s:%d: ignoring unsupported directive "%s"`, res.Path(), lineNum, lineTokens[0])
		}
	}

	if err = scanner.Err(); err != nil {
		return r.emitError(res.Path(), lineNum, "%s", err.Error())
	}
	return nil
}

// Parse face definition. Each face definition consists of one argument per
// vertex. Each one of the vertex arguments is comprised of 1, 2 or 3 args
// separated by a slash character. The following formats are supported:
// - vertexIndex
// - vertexIndex/uvIndex
// - vertexIndex//normalIndex
// - vertexIndex/uvIndex/normalIndex
//
// Indices start from 1 and may be negative to indicate
// an offset off the end of the vertex/uv list.
//
// Faces with any vertex count are accepted; exporters decide which
// polygon shapes they support.
func (r *wavefrontSceneReader) parseFace(lineTokens []string, relVertexOffset, relUvOffset, relNormalOffset int) error {
	if len(lineTokens) < 2 {
		return fmt.Errorf(`unsupported syntax for "f"; expected at least 1 argument; got 0`)
	}

	poly := scene.Polygon{
		Points:   make([]int, len(lineTokens)-1),
		Material: r.curMaterial,
	}

	var vOffset int
	var err error
	expIndices := 0
	for arg := 0; arg < len(lineTokens)-1; arg++ {
		vTokens := strings.Split(lineTokens[arg+1], "/")

		// The first arg defines the format for the following args
		if arg == 0 {
			expIndices = len(vTokens)
		} else if len(vTokens) != expIndices {
			return fmt.Errorf("expected each face argument to contain %d indices; arg %d contains %d indices", expIndices, arg, len(vTokens))
		}

		// Faces must at least define a vertex coord
		if vTokens[0] == "" {
			return fmt.Errorf("face argument %d does not include a vertex index", arg)
		}

		vOffset, err = selectFaceCoordIndex(vTokens[0], len(r.scene.Points), relVertexOffset)
		if err != nil {
			return fmt.Errorf("could not parse vertex coord for face argument %d: %s", arg, err.Error())
		}
		poly.Points[arg] = vOffset
		pointIndex := vOffset

		// Parse UV coords if specified
		if expIndices > 1 && vTokens[1] != "" {
			vOffset, err = selectFaceCoordIndex(vTokens[1], len(r.uvList), relUvOffset)
			if err != nil {
				return fmt.Errorf("could not parse tex coord for face argument %d: %s", arg, err.Error())
			}
			uv := r.uvList[vOffset]
			if err = r.setPointFloats(UVAttr, pointIndex, uv[0], uv[1]); err != nil {
				return err
			}
		}

		// Parse normal coords if specified
		if expIndices > 2 && vTokens[2] != "" {
			vOffset, err = selectFaceCoordIndex(vTokens[2], len(r.normalList), relNormalOffset)
			if err != nil {
				return fmt.Errorf("could not parse normal coord for face argument %d: %s", arg, err.Error())
			}
			n := r.normalList[vOffset]
			if err = r.setPointFloats(NormalAttr, pointIndex, n[0], n[1], n[2]); err != nil {
				return err
			}
		}
	}

	primIndex := r.scene.AddPolygon(poly)
	for _, group := range r.curGroups {
		r.scene.AddToGroup(group, primIndex)
	}
	return nil
}

// Store a float tuple in a point attribute, defining the attribute on first use.
func (r *wavefrontSceneReader) setPointFloats(name string, pointIndex int, values ...float32) error {
	attr := r.scene.Attribute(scene.PointAttr, name)
	if attr == nil {
		var err error
		if attr, err = r.scene.AddAttribute(scene.PointAttr, name, scene.FloatKind, len(values)); err != nil {
			return err
		}
	}
	return attr.Set(pointIndex, scene.FloatValue(values))
}

// Parse a skin weight list for the last defined point. Definitions use the
// following format:
// vw joint weight [joint weight...]
func (r *wavefrontSceneReader) parseSkin(lineTokens []string) error {
	if len(lineTokens) < 3 || len(lineTokens)%2 != 1 {
		return fmt.Errorf(`unsupported syntax for "vw"; expected joint/weight pairs; got %d arguments`, len(lineTokens)-1)
	}
	if len(r.scene.Points) == 0 {
		return fmt.Errorf(`got "vw" without a preceding "v"`)
	}

	p := &r.scene.Points[len(r.scene.Points)-1]
	for i := 1; i < len(lineTokens); i += 2 {
		w, err := strconv.ParseFloat(lineTokens[i+1], 32)
		if err != nil {
			return err
		}
		p.Skin = append(p.Skin, scene.Influence{Joint: lineTokens[i], Weight: float32(w)})
	}
	return nil
}

// Parse a joint definition. Definitions use the following format:
// joint name parent x y z
// where parent is "-" for root joints.
func (r *wavefrontSceneReader) parseJoint(lineTokens []string) error {
	if len(lineTokens) != 6 {
		return fmt.Errorf(`unsupported syntax for "joint"; expected 5 arguments: name parent x y z; got %d`, len(lineTokens)-1)
	}

	name, parent := lineTokens[1], lineTokens[2]
	if r.scene.Joint(name) != nil {
		return fmt.Errorf(`joint "%s" already defined`, name)
	}
	if parent == "-" {
		parent = ""
	} else if r.scene.Joint(parent) == nil {
		return fmt.Errorf(`joint "%s" references unknown parent "%s"`, name, parent)
	}

	pos, err := parseVec3(lineTokens[2:])
	if err != nil {
		return err
	}

	r.scene.Joints = append(r.scene.Joints, &scene.Joint{Name: name, Parent: parent, Pos: pos})
	return nil
}

// Parse a culling sphere linked to a joint. Definitions use the following
// format:
// csph group joint x y z radius
func (r *wavefrontSceneReader) parseCullSphere(lineTokens []string) error {
	if len(lineTokens) != 7 {
		return fmt.Errorf(`unsupported syntax for "csph"; expected 6 arguments: group joint x y z radius; got %d`, len(lineTokens)-1)
	}

	group, joint := lineTokens[1], lineTokens[2]
	if r.scene.Joint(joint) == nil {
		return fmt.Errorf(`cull sphere for group "%s" references unknown joint "%s"`, group, joint)
	}

	center, err := parseVec3(lineTokens[2:])
	if err != nil {
		return err
	}
	radius, err := strconv.ParseFloat(lineTokens[6], 32)
	if err != nil {
		return err
	}
	if radius < 0 {
		return fmt.Errorf("cull sphere radius must not be negative; got %v", radius)
	}

	r.scene.AddCullSphere(group, scene.CullSphere{Joint: joint, Sphere: center.Vec4(float32(radius))})
	return nil
}

// Parse an attribute definition. Definitions use the following format:
// attr class name kind size
func (r *wavefrontSceneReader) parseAttrDef(lineTokens []string) error {
	if len(lineTokens) != 5 {
		return fmt.Errorf(`unsupported syntax for "attr"; expected 4 arguments: class name kind size; got %d`, len(lineTokens)-1)
	}

	class, err := scene.ParseAttrClass(lineTokens[1])
	if err != nil {
		return err
	}
	kind, err := scene.ParseAttrKind(lineTokens[3])
	if err != nil {
		return err
	}
	size, err := strconv.Atoi(lineTokens[4])
	if err != nil {
		return err
	}

	_, err = r.scene.AddAttribute(class, lineTokens[2], kind, size)
	return err
}

// Parse an attribute value. Definitions use the following format:
// set class name index value...
//
// Point indices follow the same 1-based and negative index rules as faces.
// Prim indices are 0-based. The index is ignored for global attributes.
func (r *wavefrontSceneReader) parseAttrValue(lineTokens []string, relVertexOffset int) error {
	if len(lineTokens) < 5 {
		return fmt.Errorf(`unsupported syntax for "set"; expected at least 4 arguments: class name index value...; got %d`, len(lineTokens)-1)
	}

	class, err := scene.ParseAttrClass(lineTokens[1])
	if err != nil {
		return err
	}
	attr := r.scene.Attribute(class, lineTokens[2])
	if attr == nil {
		return fmt.Errorf(`undefined %s attribute "%s"`, class, lineTokens[2])
	}

	var index int
	switch class {
	case scene.PointAttr:
		if index, err = selectFaceCoordIndex(lineTokens[3], len(r.scene.Points), relVertexOffset); err != nil {
			return err
		}
	case scene.PrimAttr:
		if index, err = strconv.Atoi(lineTokens[3]); err != nil {
			return err
		}
	}

	args := lineTokens[4:]
	var value scene.Value
	switch attr.Kind {
	case scene.IntKind:
		v := make(scene.IntValue, len(args))
		for i, arg := range args {
			iv, err := strconv.ParseInt(arg, 10, 32)
			if err != nil {
				return err
			}
			v[i] = int32(iv)
		}
		value = v
	case scene.FloatKind:
		v := make(scene.FloatValue, len(args))
		for i, arg := range args {
			fv, err := strconv.ParseFloat(arg, 32)
			if err != nil {
				return err
			}
			v[i] = float32(fv)
		}
		value = v
	case scene.StringKind:
		value = scene.StringValue(strings.Join(args, " "))
	}

	return attr.Set(index, value)
}

// Parse a material library. Each material is introduced by "newmtl name"
// and followed by parameter lines of the form "param v1 v2 ...". The
// "include name" directive copies the parameters of a previously defined
// material.
func (r *wavefrontSceneReader) parseMaterials(res *asset.Resource) error {
	var lineNum int = 0

	r.logger.Infof(`parsing material library "%s"`, res.Path())

	scanner := bufio.NewScanner(res)

	var curMaterial *scene.Material

	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		switch lineTokens[0] {
		case "newmtl":
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "newmtl"; expected 1 argument; got %d`, len(lineTokens)-1)
			}

			matName := lineTokens[1]
			if r.scene.Material(matName) != nil {
				return r.emitError(res.Path(), lineNum, `material "%s" already defined`, matName)
			}

			curMaterial = &scene.Material{Name: matName}
			r.scene.Materials = append(r.scene.Materials, curMaterial)
		default:
			if curMaterial == nil {
				return r.emitError(res.Path(), lineNum, `got "%s" without a "newmtl"`, lineTokens[0])
			}

			if lineTokens[0] == "include" {
				if len(lineTokens) != 2 {
					return r.emitError(res.Path(), lineNum, `unsupported syntax for "%s"; expected 1 argument; got %d`, lineTokens[0], len(lineTokens)-1)
				}

				base := r.scene.Material(lineTokens[1])
				if base == nil {
					return r.emitError(res.Path(), lineNum, `could not include unknown material "%s"`, lineTokens[1])
				}
				for _, p := range base.Params {
					curMaterial.SetParam(p.Name, append([]float32(nil), p.Values...)...)
				}
				continue
			}

			values, err := parseFloats(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			curMaterial.SetParam(lineTokens[0], values...)
		}
	}

	if err := scanner.Err(); err != nil {
		return r.emitError(res.Path(), lineNum, "%s", err.Error())
	}
	return nil
}

// Given an index for a face coord type (vertex, normal, tex) calculate the
// proper offset into the coord list. Wavefront format can also use negative
// indices to reference elements from the end of the coord list.
func selectFaceCoordIndex(indexToken string, coordListLen int, relOffset int) (int, error) {
	index, err := strconv.ParseInt(indexToken, 10, 32)
	if err != nil {
		return -1, err
	}

	var vOffset int = 0
	if index < 0 {
		vOffset = coordListLen + int(index)
	} else {
		vOffset = relOffset + int(index-1)
	}
	if vOffset < 0 || vOffset >= coordListLen {
		return -1, fmt.Errorf("index out of bounds")
	}
	return vOffset, nil
}

// Parse a point row with an optional w coordinate.
func parsePoint(lineTokens []string) (scene.Point, error) {
	pos, err := parseVec3(lineTokens)
	if err != nil {
		return scene.Point{}, err
	}

	p := scene.Point{Pos: pos, W: 1}
	if len(lineTokens) > 4 {
		w, err := strconv.ParseFloat(lineTokens[4], 32)
		if err != nil {
			return p, err
		}
		p.W = float32(w)
	}
	return p, nil
}

// Parse a row of one or more floats.
func parseFloats(lineTokens []string) ([]float32, error) {
	if len(lineTokens) < 2 {
		return nil, fmt.Errorf(`unsupported syntax for "%s"; expected at least 1 argument; got 0`, lineTokens[0])
	}

	out := make([]float32, len(lineTokens)-1)
	for i, tok := range lineTokens[1:] {
		v, err := strconv.ParseFloat(tok, 32)
		if err != nil {
			return nil, err
		}
		out[i] = float32(v)
	}
	return out, nil
}

// Parse a Vec3 row.
func parseVec3(lineTokens []string) (types.Vec3, error) {
	if len(lineTokens) < 4 {
		return types.Vec3{}, fmt.Errorf(`unsupported syntax for "%s"; expected 3 arguments; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	v := types.Vec3{}
	for tokIdx := 1; tokIdx <= 3; tokIdx++ {
		coord, err := strconv.ParseFloat(lineTokens[tokIdx], 32)
		if err != nil {
			return v, err
		}
		v[tokIdx-1] = float32(coord)
	}
	return v, nil
}

// Parse a Vec2 row.
func parseVec2(lineTokens []string) (types.Vec2, error) {
	if len(lineTokens) < 3 {
		return types.Vec2{}, fmt.Errorf(`unsupported syntax for "%s"; expected 2 arguments; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	v := types.Vec2{}
	for tokIdx := 1; tokIdx <= 2; tokIdx++ {
		coord, err := strconv.ParseFloat(lineTokens[tokIdx], 32)
		if err != nil {
			return v, err
		}
		v[tokIdx-1] = float32(coord)
	}
	return v, nil
}
