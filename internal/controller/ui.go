// Package controller provides output adapters for displaying preprocessor results.
package controller

import (
	"context"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	m "scriptprep.dev/pkg/scriptprep/internal/model"
)

// UI defines how workflow results are shown to the user.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	DisplayScripts(ctx context.Context, results []m.FileResult) error
	DisplayManifest(ctx context.Context, manifest m.Manifest) error
	DisplaySummary(ctx context.Context, summary m.Summary)
	DisplayDiff(ctx context.Context, output m.Path, diff string)
	DisplayError(ctx context.Context, err error)
}

// NewUI returns the interactive TUI when attached to a terminal and the plain
// SimpleUI otherwise.
func NewUI(cmd *cobra.Command, tty bool) UI {
	if tty {
		return NewTUI(cmd)
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether f is a terminal.
func IsTTY(f *os.File) bool {
	if f == nil {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func totals(results []m.FileResult) (classes, fields, dropped int) {
	for _, result := range results {
		classes += len(result.Classes)
		fields += result.FieldCount()
		dropped += len(result.Dropped)
	}

	return classes, fields, dropped
}

func sourcePath(result m.FileResult) string {
	if result.Source == nil {
		return ""
	}

	if result.Source.ShortPath != "" {
		return string(result.Source.ShortPath)
	}

	return string(result.Source.FullPath)
}

func displayName(name string) string {
	if name == "" {
		return "<unnamed>"
	}

	return name
}
