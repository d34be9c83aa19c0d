package controller

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	m "scriptprep.dev/pkg/scriptprep/internal/model"
)

// SimpleUI implements UI using cobra Command's output stream.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// DisplayScripts prints one table row per registered or dropped class.
func (s *SimpleUI) DisplayScripts(ctx context.Context, results []m.FileResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("\n%s", renderScriptsTable(results))

	return nil
}

func renderScriptsTable(results []m.FileResult) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Path", "Class", "Line", "Fields"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT})

	for _, result := range results {
		path := sourcePath(result)

		for _, class := range result.Classes {
			table.Append([]string{path, displayName(class.Name), fmt.Sprintf("%d", class.Line), formatFields(class.Fields)})
		}

		for _, dropped := range result.Dropped {
			table.Append([]string{path, displayName(dropped.Name) + " (unbalanced, dropped)", fmt.Sprintf("%d", dropped.Line), "-"})
		}
	}

	classes, fields, dropped := totals(results)

	table.SetFooter([]string{
		fmt.Sprintf("Total Files %d", len(results)),
		fmt.Sprintf("%d classes", classes),
		fmt.Sprintf("%d dropped", dropped),
		fmt.Sprintf("%d fields", fields),
	})

	table.Render()

	return tableBuffer.String()
}

func formatFields(fields []m.SerializedField) string {
	if len(fields) == 0 {
		return "-"
	}

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field.Type+" "+field.Name)
	}

	return strings.Join(parts, ", ")
}

// DisplayManifest prints the manifest as YAML.
func (s *SimpleUI) DisplayManifest(ctx context.Context, manifest m.Manifest) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	encoder := yaml.NewEncoder(s.cmd.OutOrStdout())
	encoder.SetIndent(2)

	if err := encoder.Encode(manifest); err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}

	return encoder.Close()
}

// DisplaySummary prints the outcome of a generation run.
func (s *SimpleUI) DisplaySummary(ctx context.Context, summary m.Summary) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Generated %s: %d file(s), %d class(es), %d field(s), %d line(s)\n",
		summary.Output, summary.Files, summary.Classes, summary.Fields, summary.Lines)

	if summary.Dropped > 0 {
		s.printf("Dropped %d class(es) with unbalanced braces\n", summary.Dropped)
	}
}

// DisplayDiff prints the difference between the output on disk and a fresh
// rendering. An empty diff means the output is current.
func (s *SimpleUI) DisplayDiff(ctx context.Context, output m.Path, diff string) {
	if err := ctx.Err(); err != nil {
		return
	}

	if diff == "" {
		s.printf("%s is up to date\n", output)
		return
	}

	s.printf("%s is out of date:\n%s", output, diff)
}

// DisplayError prints a non-fatal error.
func (s *SimpleUI) DisplayError(ctx context.Context, err error) {
	if ctx.Err() != nil || err == nil {
		return
	}

	_, _ = fmt.Fprintf(s.cmd.ErrOrStderr(), "error: %v\n", err)
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
