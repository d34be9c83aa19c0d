package domain

import (
	"context"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"scriptprep.dev/pkg/scriptprep/internal/adapter"
	m "scriptprep.dev/pkg/scriptprep/internal/model"
)

type fakeUI struct {
	mu        sync.Mutex
	scripts   [][]m.FileResult
	manifests []m.Manifest
	summaries []m.Summary
	diffs     []string
	errors    []error
}

func (f *fakeUI) DisplayScripts(_ context.Context, results []m.FileResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.scripts = append(f.scripts, results)

	return nil
}

func (f *fakeUI) DisplayManifest(_ context.Context, manifest m.Manifest) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.manifests = append(f.manifests, manifest)

	return nil
}

func (f *fakeUI) DisplaySummary(_ context.Context, summary m.Summary) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.summaries = append(f.summaries, summary)
}

func (f *fakeUI) DisplayDiff(_ context.Context, _ m.Path, diff string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.diffs = append(f.diffs, diff)
}

func (f *fakeUI) DisplayError(_ context.Context, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.errors = append(f.errors, err)
}

func (f *fakeUI) summaryCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.summaries)
}

func (f *fakeUI) errorCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.errors)
}

type fakeWatchAdapter struct {
	events chan m.Path
	errs   chan error
}

func newFakeWatchAdapter() *fakeWatchAdapter {
	return &fakeWatchAdapter{events: make(chan m.Path), errs: make(chan error)}
}

func (f *fakeWatchAdapter) WatchDir(_ context.Context, _ m.Path) (<-chan m.Path, <-chan error, error) {
	return f.events, f.errs, nil
}

type memWorkflow struct {
	Workflow

	fs    afero.Fs
	ui    *fakeUI
	watch *fakeWatchAdapter
}

func newMemWorkflow(t *testing.T, files map[string]string) memWorkflow {
	t.Helper()

	memFS := afero.NewMemMapFs()
	require.NoError(t, memFS.MkdirAll("scripts", 0o755))

	for name, content := range files {
		require.NoError(t, afero.WriteFile(memFS, name, []byte(content), 0o644))
	}

	fsAdapter := adapter.NewSourceFSAdapter(memFS)
	ui := &fakeUI{}
	watch := newFakeWatchAdapter()

	return memWorkflow{
		Workflow: NewWorkflow(fsAdapter, adapter.NewYAMLManifestStore(fsAdapter), watch, ui),
		fs:       memFS,
		ui:       ui,
		watch:    watch,
	}
}

func (w memWorkflow) read(t *testing.T, path string) string {
	t.Helper()

	content, err := afero.ReadFile(w.fs, path)
	require.NoError(t, err)

	return string(content)
}
