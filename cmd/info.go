package cmd

import (
	"bytes"
	"errors"
	"strconv"

	"github.com/achilleasa/assetpack/asset/binfile"
	"github.com/achilleasa/assetpack/asset/export"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Display header information for exported asset files.
func ShowFileInfo(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() == 0 {
		return errors.New("missing asset file arguments")
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetAutoMergeCells(true)
	table.SetRowLine(true)
	table.SetHeader([]string{"File", "Type", "Size", "Field", "Value"})

	for _, file := range ctx.Args() {
		r, err := binfile.ReadFile(file)
		if err != nil {
			return err
		}
		info, err := export.Inspect(r)
		if err != nil {
			return err
		}

		size := strconv.Itoa(info.Size)
		if len(info.Header) == 0 {
			table.Append([]string{file, info.Kind, size, "-", "-"})
			continue
		}
		for _, hv := range info.Header {
			table.Append([]string{file, info.Kind, size, hv.Name, hv.Value})
		}
	}

	table.Render()
	logger.Noticef("asset file information:\n%s", buf.String())
	return nil
}
