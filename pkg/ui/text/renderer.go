// Package text provides plain text output without any styling
package text

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/arthur-debert/pluglink/pkg/types"
	"github.com/arthur-debert/pluglink/pkg/ui/display"
)

// Renderer provides plain text output without colors or styling
type Renderer struct {
	output io.Writer
}

// New creates a new text renderer
func New(output io.Writer) (*Renderer, error) {
	return &Renderer{output: output}, nil
}

// RenderResult renders any result type as plain text
func (r *Renderer) RenderResult(result interface{}) error {
	switch v := result.(type) {
	case *display.SyncReport:
		return r.renderSync(v)
	case *display.ListReport:
		return r.renderList(v)
	case *display.StatusReport:
		return r.renderStatus(v)
	default:
		_, err := fmt.Fprintf(r.output, "%+v\n", result)
		return err
	}
}

func (r *Renderer) renderSync(report *display.SyncReport) error {
	res := report.Result
	tw := tabwriter.NewWriter(r.output, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "%s: %s\n", report.Title(), report.Dest)
	for _, rec := range res.Linked {
		fmt.Fprintf(tw, "linked\t%s\t%s\n", rec.PluginName, rec.PackageName)
	}
	for _, rec := range res.Removed {
		fmt.Fprintf(tw, "removed\t%s\t%s\n", rec.PluginName, rec.PackageName)
	}
	for _, w := range res.Warnings {
		fmt.Fprintf(tw, "warning\t%s\n", w)
	}
	if !res.OK {
		fmt.Fprintf(tw, "error\t%s\n", res.Error)
	}
	fmt.Fprintln(tw, report.Summary())
	return tw.Flush()
}

func (r *Renderer) renderList(report *display.ListReport) error {
	if len(report.Links) == 0 {
		_, err := fmt.Fprintf(r.output, "No managed plugins in %s\n", report.Dest)
		return err
	}
	tw := tabwriter.NewWriter(r.output, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PLUGIN\tPACKAGE\tSOURCE")
	for _, rec := range report.Links {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", rec.PluginName, rec.PackageName, rec.TargetDir)
	}
	return tw.Flush()
}

func (r *Renderer) renderStatus(report *display.StatusReport) error {
	tw := tabwriter.NewWriter(r.output, 0, 4, 2, ' ', 0)
	if len(report.Rows) > 0 {
		fmt.Fprintln(tw, "PLUGIN\tSTATE\tPACKAGE\tSOURCE")
		for _, row := range report.Rows {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", row.PluginName, row.State, packageOf(row), row.TargetDir)
		}
	}
	fmt.Fprintln(tw, report.Summary())
	return tw.Flush()
}

func packageOf(row types.PluginStatus) string {
	if row.PackageName == "" {
		return "-"
	}
	return row.PackageName
}

// RenderError renders an error as plain text
func (r *Renderer) RenderError(err error) error {
	_, werr := fmt.Fprintf(r.output, "Error: %v\n", err)
	return werr
}

// RenderMessage renders a simple message as plain text
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, msg)
	return err
}
