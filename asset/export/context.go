// Package export converts a scene into the engine's binary asset files.
//
// Each exporter produces a single relocatable file through a
// binfile.Writer. Exporters share a Context that holds the scene-wide
// name-to-id tables and collects the diagnostics emitted while exporting.
package export

import (
	"fmt"

	"github.com/achilleasa/assetpack/asset/scene"
	"github.com/achilleasa/assetpack/log"
)

// A diagnostic about a scene element that was skipped or looks suspicious.
type Warning struct {
	Exporter string

	// The element kind (prim, point, group) and its index or name.
	Element string
	Index   int
	Name    string

	Message string
}

func (w Warning) String() string {
	if w.Name != "" {
		return fmt.Sprintf("%s: %s %q: %s", w.Exporter, w.Element, w.Name, w.Message)
	}
	return fmt.Sprintf("%s: %s #%d: %s", w.Exporter, w.Element, w.Index, w.Message)
}

// Context is created once per export run.
type Context struct {
	logger log.Logger

	jointIDs    map[string]int
	materialIDs map[string]int

	warnings []Warning
}

// Create a new context for exporting sc. Joint ids follow the scene joint
// order and material ids the scene material order.
func NewContext(sc *scene.Scene) *Context {
	ctx := &Context{
		logger:      log.New("exporter"),
		jointIDs:    make(map[string]int, len(sc.Joints)),
		materialIDs: make(map[string]int, len(sc.Materials)),
	}

	for id, jnt := range sc.Joints {
		ctx.jointIDs[jnt.Name] = id
	}
	for id, mtl := range sc.Materials {
		ctx.materialIDs[mtl.Name] = id
	}
	return ctx
}

// Lookup the id of a joint.
func (ctx *Context) JointID(name string) (int, bool) {
	id, ok := ctx.jointIDs[name]
	return id, ok
}

// Lookup the id of a material.
func (ctx *Context) MaterialID(name string) (int, bool) {
	id, ok := ctx.materialIDs[name]
	return id, ok
}

// Record a warning about an indexed element.
func (ctx *Context) Warnf(exporter, element string, index int, format string, args ...interface{}) {
	ctx.addWarning(Warning{
		Exporter: exporter,
		Element:  element,
		Index:    index,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Record a warning about a named element.
func (ctx *Context) WarnNamedf(exporter, element, name string, format string, args ...interface{}) {
	ctx.addWarning(Warning{
		Exporter: exporter,
		Element:  element,
		Name:     name,
		Message:  fmt.Sprintf(format, args...),
	})
}

func (ctx *Context) addWarning(w Warning) {
	ctx.warnings = append(ctx.warnings, w)
	ctx.logger.Warning(w.String())
}

// Get the warnings recorded so far.
func (ctx *Context) Warnings() []Warning {
	return ctx.warnings
}
