// Package domain contains the script preprocessing workflows.
package domain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/sync/errgroup"

	"scriptprep.dev/pkg/scriptprep/internal/adapter"
	"scriptprep.dev/pkg/scriptprep/internal/controller"
	"scriptprep.dev/pkg/scriptprep/internal/domain/scripts"
	m "scriptprep.dev/pkg/scriptprep/internal/model"
)

// List output formats.
const (
	FormatTable = "table"
	FormatYAML  = "yaml"
)

// ErrStaleOutput is returned by Check when the output on disk differs from a
// fresh rendering.
var ErrStaleOutput = errors.New("generated output is stale")

// ErrMissingAdapter is returned when the workflow was built without a
// required collaborator.
var ErrMissingAdapter = errors.New("missing adapter")

// GenerateArgs contains the arguments for a generation run.
type GenerateArgs struct {
	Scripts  m.Path `validate:"required"`
	Output   m.Path `validate:"required"`
	Include  []string
	Exclude  []string
	Manifest m.Path
}

// ListArgs contains the arguments for listing script classes.
type ListArgs struct {
	Scripts m.Path `validate:"required"`
	Include []string
	Exclude []string
	Threads int    `validate:"gte=0"`
	Format  string `validate:"omitempty,oneof=table yaml"`
}

// WatchArgs contains the arguments for watch mode.
type WatchArgs struct {
	GenerateArgs

	Debounce time.Duration `validate:"gte=0"`
}

// Workflow defines the preprocessor operations exposed to the CLI.
type Workflow interface {
	Generate(ctx context.Context, args GenerateArgs) (m.Summary, error)
	List(ctx context.Context, args ListArgs) error
	Check(ctx context.Context, args GenerateArgs) error
	Watch(ctx context.Context, args WatchArgs) error
}

type workflow struct {
	adapter.SourceFSAdapter
	adapter.ManifestStore
	adapter.WatchAdapter
	controller.UI

	validate *validator.Validate
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	manifestStore adapter.ManifestStore,
	watchAdapter adapter.WatchAdapter,
	ui controller.UI,
) Workflow {
	return &workflow{
		SourceFSAdapter: fsAdapter,
		ManifestStore:   manifestStore,
		WatchAdapter:    watchAdapter,
		UI:              ui,
		validate:        validator.New(),
	}
}

// Generate writes the aggregated unit for every script in args.Scripts to
// args.Output. Files are processed one at a time into a single output stream.
func (w *workflow) Generate(ctx context.Context, args GenerateArgs) (m.Summary, error) {
	if err := w.validate.Struct(args); err != nil {
		return m.Summary{}, fmt.Errorf("invalid generate arguments: %w", err)
	}

	if w.SourceFSAdapter == nil || w.UI == nil {
		return m.Summary{}, ErrMissingAdapter
	}

	logger := slog.With("run_id", uuid.NewString())

	files, err := w.collectSources(ctx, args.Scripts, args.Output, args.Include, args.Exclude)
	if err != nil {
		logger.Error("Failed to list scripts", "scripts", args.Scripts, "error", err)
		return m.Summary{}, err
	}

	out, err := w.Create(ctx, args.Output)
	if err != nil {
		logger.Error("Failed to open output", "output", args.Output, "error", err)
		return m.Summary{}, fmt.Errorf("open output %s: %w", args.Output, err)
	}

	summary, results, renderErr := w.render(ctx, logger, files, out)
	closeErr := out.Close()

	if renderErr != nil {
		return summary, renderErr
	}

	if closeErr != nil {
		logger.Error("Failed to close output", "output", args.Output, "error", closeErr)
		return summary, fmt.Errorf("close output %s: %w", args.Output, closeErr)
	}

	summary.Output = args.Output

	if args.Manifest != "" {
		if err := w.saveManifest(ctx, args, results); err != nil {
			logger.Error("Failed to save manifest", "manifest", args.Manifest, "error", err)
			return summary, err
		}
	}

	logger.Info("Generated scripts unit",
		"output", args.Output,
		"files", summary.Files,
		"classes", summary.Classes,
		"fields", summary.Fields,
		"dropped", summary.Dropped,
		"lines", summary.Lines,
	)

	w.DisplaySummary(ctx, summary)

	return summary, nil
}

func (w *workflow) saveManifest(ctx context.Context, args GenerateArgs, results []m.FileResult) error {
	if w.ManifestStore == nil {
		return ErrMissingAdapter
	}

	return w.SaveManifest(ctx, args.Manifest, buildManifest(args.Output, results))
}

// render writes the include directive and then every file, in order, to out.
func (w *workflow) render(ctx context.Context, logger *slog.Logger, files []m.File, out io.Writer) (m.Summary, []m.FileResult, error) {
	writer := NewLineWriter(out)
	summary := m.Summary{}
	results := make([]m.FileResult, 0, len(files))

	if err := writer.WriteLine(scripts.IncludeDirective); err != nil {
		return summary, nil, fmt.Errorf("write output: %w", err)
	}

	summary.Lines = writer.Lines()

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return summary, results, err
		}

		source, err := w.loadSource(ctx, file)
		if err != nil {
			logger.Error("Failed to read script", "path", file.FullPath, "error", err)
			return summary, results, err
		}

		result, err := scripts.Pump(source, writer)
		if err != nil {
			logger.Error("Failed to write output", "path", file.FullPath, "error", err)
			return summary, results, fmt.Errorf("write output for %s: %w", file.ShortPath, err)
		}

		logResult(logger, result)
		summary.Add(result)
		results = append(results, result)
	}

	if err := writer.Flush(); err != nil {
		return summary, results, fmt.Errorf("write output: %w", err)
	}

	return summary, results, nil
}

func logResult(logger *slog.Logger, result m.FileResult) {
	path := result.Source.ShortPath

	for _, class := range result.Classes {
		if class.Name == "" {
			logger.Warn("Class header has no type name", "path", path, "line", class.Line)
		}

		logger.Debug("Registered script class", "path", path, "class", class.Name, "line", class.Line, "fields", len(class.Fields))
	}

	for _, dropped := range result.Dropped {
		logger.Warn("Class body never closed, nothing emitted", "path", path, "class", dropped.Name, "line", dropped.Line, "lines", dropped.Lines)
	}

	logger.Debug("Processed script", "path", path, "passthrough", result.PassThrough, "written", result.Written)
}

// collectSources lists the scripts directory and applies the filters. The
// output file is never read back as an input.
func (w *workflow) collectSources(ctx context.Context, dir, output m.Path, include, exclude []string) ([]m.File, error) {
	filter, err := NewSourceFilter(include, exclude)
	if err != nil {
		return nil, err
	}

	paths, err := w.ListDir(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("list scripts directory %s: %w", dir, err)
	}

	files := make([]m.File, 0, len(paths))

	for _, path := range paths {
		if output != "" && samePath(path, output) {
			continue
		}

		rel, err := w.RelPath(dir, path)
		if err != nil {
			return nil, fmt.Errorf("relative path of %s: %w", path, err)
		}

		if !filter.Match(string(rel)) {
			slog.Debug("Skipping filtered script", "path", path)
			continue
		}

		files = append(files, m.File{FullPath: path, ShortPath: rel})
	}

	return files, nil
}

func (w *workflow) loadSource(ctx context.Context, file m.File) (m.SourceFile, error) {
	content, err := w.ReadFile(ctx, file.FullPath)
	if err != nil {
		return m.SourceFile{}, fmt.Errorf("read %s: %w", file.FullPath, err)
	}

	origin := file
	origin.Hash = fingerprint(content)

	return m.SourceFile{Origin: &origin, Lines: scripts.SplitLines(content)}, nil
}

func samePath(a, b m.Path) bool {
	return filepath.Clean(string(a)) == filepath.Clean(string(b))
}

// List analyzes every script without writing output and displays the classes
// and fields found. Files are read concurrently; results keep listing order.
func (w *workflow) List(ctx context.Context, args ListArgs) error {
	if err := w.validate.Struct(args); err != nil {
		return fmt.Errorf("invalid list arguments: %w", err)
	}

	if w.SourceFSAdapter == nil || w.UI == nil {
		return ErrMissingAdapter
	}

	files, err := w.collectSources(ctx, args.Scripts, "", args.Include, args.Exclude)
	if err != nil {
		slog.Error("Failed to list scripts", "scripts", args.Scripts, "error", err)
		return err
	}

	results, err := w.analyze(ctx, files, args.Threads)
	if err != nil {
		slog.Error("Failed to analyze scripts", "error", err)
		return fmt.Errorf("analyze scripts: %w", err)
	}

	if args.Format == FormatYAML {
		return w.DisplayManifest(ctx, buildManifest("", results))
	}

	return w.DisplayScripts(ctx, results)
}

func (w *workflow) analyze(ctx context.Context, files []m.File, threads int) ([]m.FileResult, error) {
	results := make([]m.FileResult, len(files))

	group, groupCtx := errgroup.WithContext(ctx)
	if threads > 0 {
		group.SetLimit(threads)
	}

	for i, file := range files {
		group.Go(func() error {
			source, err := w.loadSource(groupCtx, file)
			if err != nil {
				return err
			}

			result, err := scripts.Pump(source, scripts.Discard)
			if err != nil {
				return fmt.Errorf("analyze %s: %w", file.ShortPath, err)
			}

			results[i] = result

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// Check renders the unit in memory and compares it with the output on disk.
// A missing output file compares as empty.
func (w *workflow) Check(ctx context.Context, args GenerateArgs) error {
	if err := w.validate.Struct(args); err != nil {
		return fmt.Errorf("invalid check arguments: %w", err)
	}

	if w.SourceFSAdapter == nil || w.UI == nil {
		return ErrMissingAdapter
	}

	logger := slog.With("run_id", uuid.NewString())

	files, err := w.collectSources(ctx, args.Scripts, args.Output, args.Include, args.Exclude)
	if err != nil {
		logger.Error("Failed to list scripts", "scripts", args.Scripts, "error", err)
		return err
	}

	var rendered bytes.Buffer
	if _, _, err := w.render(ctx, logger, files, &rendered); err != nil {
		return err
	}

	current, err := w.ReadFile(ctx, args.Output)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Error("Failed to read output", "output", args.Output, "error", err)
		return fmt.Errorf("read output %s: %w", args.Output, err)
	}

	if bytes.Equal(current, rendered.Bytes()) {
		w.DisplayDiff(ctx, args.Output, "")
		return nil
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(current)),
		B:        difflib.SplitLines(rendered.String()),
		FromFile: string(args.Output),
		ToFile:   string(args.Output) + " (generated)",
		Context:  3,
	})
	if err != nil {
		return fmt.Errorf("diff output: %w", err)
	}

	logger.Info("Generated output is stale", "output", args.Output)
	w.DisplayDiff(ctx, args.Output, diff)

	return fmt.Errorf("%w: %s", ErrStaleOutput, args.Output)
}

// Watch generates once and then regenerates after every burst of changes in
// the scripts directory until ctx is done. Failed regenerations are reported
// and watching continues.
func (w *workflow) Watch(ctx context.Context, args WatchArgs) error {
	if err := w.validate.Struct(args); err != nil {
		return fmt.Errorf("invalid watch arguments: %w", err)
	}

	if w.WatchAdapter == nil {
		return ErrMissingAdapter
	}

	if _, err := w.Generate(ctx, args.GenerateArgs); err != nil {
		return err
	}

	events, errs, err := w.WatchDir(ctx, args.Scripts)
	if err != nil {
		slog.Error("Failed to watch scripts", "scripts", args.Scripts, "error", err)
		return fmt.Errorf("watch scripts: %w", err)
	}

	timer := time.NewTimer(args.Debounce)
	timer.Stop()

	defer timer.Stop()

	pending := false

	for {
		select {
		case <-ctx.Done():
			return nil
		case path, ok := <-events:
			if !ok {
				return nil
			}

			if samePath(path, args.Output) || (args.Manifest != "" && samePath(path, args.Manifest)) {
				continue
			}

			slog.Debug("Script changed", "path", path)

			pending = true

			timer.Reset(args.Debounce)
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}

			slog.Warn("Watcher error", "error", err)
			w.DisplayError(ctx, err)
		case <-timer.C:
			if !pending {
				continue
			}

			pending = false

			if _, err := w.Generate(ctx, args.GenerateArgs); err != nil {
				if ctx.Err() != nil {
					return nil
				}

				w.DisplayError(ctx, err)
			}
		}
	}
}
