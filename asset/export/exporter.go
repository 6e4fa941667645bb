package export

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/achilleasa/assetpack/asset/binfile"
	"github.com/achilleasa/assetpack/asset/scene"
	"github.com/achilleasa/assetpack/asset/writer"
	"github.com/olekukonko/tablewriter"
)

// Returned by exporters when the scene contains no data for their format.
var ErrNothingToExport = errors.New("nothing to export")

// The Exporter interface is implemented by all asset file emitters.
type Exporter interface {
	// The exporter name used for selecting it.
	Kind() string

	// The output file extension.
	Ext() string

	// Generate the asset file contents for sc.
	Export(ctx *Context, sc *scene.Scene) (*binfile.Writer, error)
}

var registry = []Exporter{
	bvhExporter{},
	obstacleExporter{},
	laneExporter{},
	keyframeExporter{},
	meshExporter{},
	modelExporter{},
	roomExporter{},
}

// Get the names of all supported exporters.
func Kinds() []string {
	kinds := make([]string, len(registry))
	for i, exp := range registry {
		kinds[i] = exp.Kind()
	}
	return kinds
}

// Lookup an exporter by kind.
func Lookup(kind string) (Exporter, error) {
	for _, exp := range registry {
		if exp.Kind() == kind {
			return exp, nil
		}
	}
	return nil, fmt.Errorf("export: unknown exporter %q; supported exporters: %s", kind, strings.Join(Kinds(), ", "))
}

// The outcome of running a single exporter.
type Result struct {
	Kind     string
	File     string
	Size     int
	Warnings int
	Skipped  bool
	Elapsed  time.Duration
}

// Run the exporters for the requested kinds (all kinds if empty) and store
// their output in sink as baseName.ext. Export stops at the first error.
func Run(sc *scene.Scene, kinds []string, baseName string, sink writer.Sink) ([]Result, []Warning, error) {
	if len(kinds) == 0 {
		kinds = Kinds()
	}

	exporters := make([]Exporter, len(kinds))
	for i, kind := range kinds {
		exp, err := Lookup(kind)
		if err != nil {
			return nil, nil, err
		}
		exporters[i] = exp
	}

	ctx := NewContext(sc)
	results := make([]Result, 0, len(exporters))
	for _, exp := range exporters {
		start := time.Now()
		warnCount := len(ctx.Warnings())
		res := Result{Kind: exp.Kind()}

		w, err := exp.Export(ctx, sc)
		if errors.Is(err, ErrNothingToExport) {
			ctx.logger.Noticef("%s: nothing to export; skipping", exp.Kind())
			res.Skipped = true
			results = append(results, res)
			continue
		} else if err != nil {
			return results, ctx.Warnings(), fmt.Errorf("export %s: %w", exp.Kind(), err)
		}

		res.File = baseName + "." + exp.Ext()
		if err = sink.Write(res.File, w); err != nil {
			return results, ctx.Warnings(), err
		}

		res.Size = w.Len()
		res.Warnings = len(ctx.Warnings()) - warnCount
		res.Elapsed = time.Since(start)
		ctx.logger.Infof("%s: wrote %s (%d bytes) in %d ms", exp.Kind(), res.File, res.Size, res.Elapsed.Nanoseconds()/1e6)
		results = append(results, res)
	}

	return results, ctx.Warnings(), nil
}

// Build a tabular representation of export results.
func Report(results []Result) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Exporter", "File", "Size", "Warnings"})

	var total, warnings int
	for _, res := range results {
		if res.Skipped {
			table.Append([]string{res.Kind, "(skipped)", "-", "-"})
			continue
		}
		table.Append([]string{res.Kind, res.File, fmtSize(res.Size), strconv.Itoa(res.Warnings)})
		total += res.Size
		warnings += res.Warnings
	}
	table.SetFooter([]string{"Total", " ", strings.TrimLeft(fmtSize(total), " "), strconv.Itoa(warnings)})

	table.Render()
	return buf.String()
}

// Format a byte count with the appropriate byte/kb/mb unit.
func fmtSize(totalBytes int) string {
	if totalBytes < 1e3 {
		return fmt.Sprintf("%3d bytes", totalBytes)
	} else if totalBytes < 1e6 {
		return fmt.Sprintf("%3.1f kb", float32(totalBytes)/1e3)
	}
	return fmt.Sprintf("%5.1f mb", float32(totalBytes)/1e6)
}
