// Package terminal provides rich terminal output with colors and styling
package terminal

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/pluglink/pkg/types"
	"github.com/arthur-debert/pluglink/pkg/ui/display"
	"github.com/arthur-debert/pluglink/pkg/ui/styles"
	"github.com/pterm/pterm"
)

// Renderer provides rich terminal output using lipgloss styles and pterm tables
type Renderer struct {
	output io.Writer
}

// New creates a new terminal renderer
func New(w io.Writer) (*Renderer, error) {
	return &Renderer{output: w}, nil
}

// RenderResult renders any result type with rich terminal formatting
func (r *Renderer) RenderResult(result interface{}) error {
	var out string
	var err error

	switch v := result.(type) {
	case *display.SyncReport:
		out = renderSync(v)
	case *display.ListReport:
		out, err = renderList(v)
	case *display.StatusReport:
		out, err = renderStatus(v)
	default:
		out = fmt.Sprintf("%+v\n", result)
	}
	if err != nil {
		return err
	}
	_, err = io.WriteString(r.output, out)
	return err
}

func renderSync(report *display.SyncReport) string {
	var b strings.Builder
	res := report.Result

	if res.DryRun {
		b.WriteString(styles.Render("DryRunBanner", "Dry run: nothing was changed") + "\n")
	}
	b.WriteString(styles.Render("Header", report.Title()+" "+styles.Render("FilePath", report.Dest)) + "\n")

	for _, rec := range res.Linked {
		b.WriteString(changeLine("linked", rec, res.Strategy))
	}
	for _, rec := range res.Removed {
		b.WriteString(changeLine("removed", rec, ""))
	}
	for _, w := range res.Warnings {
		b.WriteString(styles.Render("Warning", "! "+w) + "\n")
	}
	if !res.OK {
		b.WriteString(styles.Render("Error", "✗ "+res.Error) + "\n")
	}
	b.WriteString(styles.Render("Muted", report.Summary()) + "\n")
	return b.String()
}

func changeLine(kind string, rec types.LinkRecord, strategy types.LinkStrategy) string {
	label := kind
	if strategy != "" {
		label = fmt.Sprintf("%s (%s)", kind, strategy)
	}
	return fmt.Sprintf("  %-20s %s %s\n",
		styles.ForState(kind).Render(label),
		styles.Render("Plugin", rec.PluginName),
		styles.Render("Package", rec.PackageName))
}

func renderList(report *display.ListReport) (string, error) {
	if len(report.Links) == 0 {
		return styles.Render("Muted", "No managed plugins in "+report.Dest) + "\n", nil
	}

	data := pterm.TableData{{"Plugin", "Package", "Source"}}
	for _, rec := range report.Links {
		data = append(data, []string{
			styles.Render("Plugin", rec.PluginName),
			rec.PackageName,
			styles.Render("FilePath", rec.TargetDir),
		})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return "", err
	}
	return table + "\n", nil
}

func renderStatus(report *display.StatusReport) (string, error) {
	var b strings.Builder
	b.WriteString(styles.Render("Header", "Status "+styles.Render("FilePath", report.Dest)) + "\n")

	if len(report.Rows) > 0 {
		data := pterm.TableData{{"Plugin", "State", "Package", "Source"}}
		for _, row := range report.Rows {
			data = append(data, []string{
				styles.Render("Plugin", row.PluginName),
				styles.ForState(string(row.State)).Render(string(row.State)),
				row.PackageName,
				styles.Render("FilePath", row.TargetDir),
			})
		}
		table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
		if err != nil {
			return "", err
		}
		b.WriteString(table + "\n")
	}
	b.WriteString(styles.Render("Muted", report.Summary()) + "\n")
	return b.String(), nil
}

// RenderError renders an error with appropriate formatting
func (r *Renderer) RenderError(err error) error {
	_, werr := fmt.Fprintln(r.output, styles.Render("Error", "Error: "+err.Error()))
	return werr
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, styles.Render("Info", msg))
	return err
}
