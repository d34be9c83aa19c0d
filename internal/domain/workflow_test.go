package domain

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scriptprep.dev/pkg/scriptprep/internal/adapter"
	m "scriptprep.dev/pkg/scriptprep/internal/model"
)

const goldenOutput = `#include <sstream>
#include "component.hpp"

class SunScript : public Script
{
    
    float speed = 1.0f;
     glm::vec3 axis;

  public:
    void Update() override
    {
        angle += speed;
    }
virtual bool Serialize(const std::string& __name, const std::string& __value) override {
REGISTER_PROPERTY(float, speed);
REGISTER_PROPERTY(glm::vec3, axis);
return false;
}
};
REGISTER_SCRIPT(SunScript);

// helpers
virtual bool Serialize(const std::string& __name, const std::string& __value) override {
return false;
}
};
REGISTER_SCRIPT(Tiny);
int helper() { return 1; }

`

func defaultArgs() GenerateArgs {
	return GenerateArgs{Scripts: "scripts", Output: "src/scripts.cpp"}
}

func TestGenerate_TestdataGolden(t *testing.T) {
	fsAdapter := adapter.NewLocalSourceFSAdapter()
	ui := &fakeUI{}
	wf := NewWorkflow(fsAdapter, adapter.NewYAMLManifestStore(fsAdapter), newFakeWatchAdapter(), ui)

	output := filepath.Join(t.TempDir(), "src", "scripts.cpp")

	summary, err := wf.Generate(context.Background(), GenerateArgs{
		Scripts: m.Path(filepath.Join("testdata", "scripts")),
		Output:  m.Path(output),
	})
	require.NoError(t, err)

	got, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, goldenOutput, string(got))

	assert.Equal(t, 3, summary.Files)
	assert.Equal(t, 2, summary.Classes)
	assert.Equal(t, 2, summary.Fields)
	assert.Equal(t, 1, summary.Dropped)
	assert.Equal(t, strings.Count(goldenOutput, "\n"), summary.Lines)
	require.Len(t, ui.summaries, 1)
}

func TestGenerate_NoQualifyingHeaders(t *testing.T) {
	content := "#include \"helper.hpp\"\nint x = 0;\n"
	wf := newMemWorkflow(t, map[string]string{"scripts/helper.cpp": content})

	_, err := wf.Generate(context.Background(), defaultArgs())
	require.NoError(t, err)

	assert.Equal(t, "#include <sstream>\n"+content+"\n", wf.read(t, "src/scripts.cpp"))
}

func TestGenerate_EmptyDirectory(t *testing.T) {
	wf := newMemWorkflow(t, nil)

	summary, err := wf.Generate(context.Background(), defaultArgs())
	require.NoError(t, err)

	assert.Equal(t, "#include <sstream>\n", wf.read(t, "src/scripts.cpp"))
	assert.Equal(t, 1, summary.Lines)
	assert.Zero(t, summary.Files)
}

func TestGenerate_UnbalancedFileDoesNotStopLaterFiles(t *testing.T) {
	wf := newMemWorkflow(t, map[string]string{
		"scripts/a.cpp": "class Open : public Script\n{\n",
		"scripts/b.cpp": "class Closed : public Script {};",
	})

	summary, err := wf.Generate(context.Background(), defaultArgs())
	require.NoError(t, err)

	out := wf.read(t, "src/scripts.cpp")
	assert.NotContains(t, out, "REGISTER_SCRIPT(Open);")
	assert.Contains(t, out, "REGISTER_SCRIPT(Closed);\n")
	assert.Equal(t, 1, strings.Count(out, "REGISTER_SCRIPT("))
	assert.Equal(t, 1, summary.Dropped)
}

func TestGenerate_DirectoryErrorsAreFatal(t *testing.T) {
	wf := newMemWorkflow(t, nil)

	_, err := wf.Generate(context.Background(), GenerateArgs{Scripts: "missing", Output: "out.cpp"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list scripts directory missing")

	exists, statErr := afero.Exists(wf.fs, "out.cpp")
	require.NoError(t, statErr)
	assert.False(t, exists, "output is not created when the directory cannot be read")
}

func TestGenerate_ValidatesArguments(t *testing.T) {
	wf := newMemWorkflow(t, nil)

	_, err := wf.Generate(context.Background(), GenerateArgs{Scripts: "scripts"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid generate arguments")
}

func TestGenerate_FiltersAndSkipsOwnOutput(t *testing.T) {
	wf := newMemWorkflow(t, map[string]string{
		"scripts/keep.cpp":      "class Keep : public Script {};",
		"scripts/skip.hpp":      "class Skip : public Script {};",
		"scripts/old.bak.cpp":   "class Old : public Script {};",
		"scripts/generated.cpp": "class Stale : public Script {};",
	})

	_, err := wf.Generate(context.Background(), GenerateArgs{
		Scripts: "scripts",
		Output:  "scripts/generated.cpp",
		Include: []string{"*.cpp"},
		Exclude: []string{"*.bak.cpp"},
	})
	require.NoError(t, err)

	out := wf.read(t, "scripts/generated.cpp")
	assert.Contains(t, out, "REGISTER_SCRIPT(Keep);")
	assert.NotContains(t, out, "Skip")
	assert.NotContains(t, out, "Old")
	assert.NotContains(t, out, "Stale")
}

func TestGenerate_InvalidPattern(t *testing.T) {
	wf := newMemWorkflow(t, nil)

	args := defaultArgs()
	args.Include = []string{"[unclosed"}

	_, err := wf.Generate(context.Background(), args)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid include pattern")
}

func TestGenerate_WritesManifest(t *testing.T) {
	wf := newMemWorkflow(t, map[string]string{
		"scripts/player.cpp": "class Player : public Script {\n[[Serialize]] int health;\n};\n",
	})

	args := defaultArgs()
	args.Manifest = "build/scripts.yaml"

	_, err := wf.Generate(context.Background(), args)
	require.NoError(t, err)

	store := adapter.NewYAMLManifestStore(adapter.NewSourceFSAdapter(wf.fs))
	manifest, err := store.LoadManifest(context.Background(), "build/scripts.yaml")
	require.NoError(t, err)

	assert.Equal(t, manifestVersion, manifest.Version)
	assert.Equal(t, m.Path("src/scripts.cpp"), manifest.Output)
	require.Len(t, manifest.Files, 1)
	assert.Equal(t, m.Path("player.cpp"), manifest.Files[0].Path)
	assert.Len(t, manifest.Files[0].Hash, 16)
	assert.Equal(t, []m.ScriptClass{{
		Name:   "Player",
		Line:   1,
		Fields: []m.SerializedField{{Type: "int", Name: "health"}},
	}}, manifest.Files[0].Classes)
}

func TestGenerate_CancelledContext(t *testing.T) {
	wf := newMemWorkflow(t, map[string]string{"scripts/a.cpp": "x"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := wf.Generate(ctx, defaultArgs())
	require.ErrorIs(t, err, context.Canceled)
}

func TestList_Table(t *testing.T) {
	wf := newMemWorkflow(t, map[string]string{
		"scripts/a.cpp": "class A : public Script {\n[[Serialize]] float speed;\n};",
		"scripts/b.cpp": "int nothing;",
		"scripts/c.cpp": "class C : public Script\n{\n",
	})

	err := wf.List(context.Background(), ListArgs{Scripts: "scripts", Threads: 2, Format: FormatTable})
	require.NoError(t, err)

	require.Len(t, wf.ui.scripts, 1)
	results := wf.ui.scripts[0]
	require.Len(t, results, 3)

	assert.Equal(t, m.Path("a.cpp"), results[0].Source.ShortPath)
	assert.Equal(t, []m.SerializedField{{Type: "float", Name: "speed"}}, results[0].Classes[0].Fields)
	assert.Equal(t, m.Path("b.cpp"), results[1].Source.ShortPath)
	assert.Empty(t, results[1].Classes)
	assert.Equal(t, []m.DroppedClass{{Name: "C", Line: 1, Lines: 3}}, results[2].Dropped)

	exists, _ := afero.Exists(wf.fs, "src/scripts.cpp")
	assert.False(t, exists, "list writes nothing")
}

func TestList_YAML(t *testing.T) {
	wf := newMemWorkflow(t, map[string]string{"scripts/a.cpp": "class A : public Script {};"})

	err := wf.List(context.Background(), ListArgs{Scripts: "scripts", Format: FormatYAML})
	require.NoError(t, err)

	require.Len(t, wf.ui.manifests, 1)
	assert.Empty(t, wf.ui.scripts)
	assert.Equal(t, "A", wf.ui.manifests[0].Files[0].Classes[0].Name)
}

func TestList_RejectsUnknownFormat(t *testing.T) {
	wf := newMemWorkflow(t, nil)

	err := wf.List(context.Background(), ListArgs{Scripts: "scripts", Format: "xml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid list arguments")
}

func TestCheck(t *testing.T) {
	files := map[string]string{"scripts/a.cpp": "class A : public Script {};\n"}

	t.Run("missing output is stale", func(t *testing.T) {
		wf := newMemWorkflow(t, files)

		err := wf.Check(context.Background(), defaultArgs())
		require.ErrorIs(t, err, ErrStaleOutput)
		require.Len(t, wf.ui.diffs, 1)
		assert.Contains(t, wf.ui.diffs[0], "+REGISTER_SCRIPT(A);")
	})

	t.Run("fresh output is up to date", func(t *testing.T) {
		wf := newMemWorkflow(t, files)

		_, err := wf.Generate(context.Background(), defaultArgs())
		require.NoError(t, err)

		require.NoError(t, wf.Check(context.Background(), defaultArgs()))
		assert.Equal(t, []string{""}, wf.ui.diffs)
	})

	t.Run("edited script makes output stale", func(t *testing.T) {
		wf := newMemWorkflow(t, files)

		_, err := wf.Generate(context.Background(), defaultArgs())
		require.NoError(t, err)

		require.NoError(t, afero.WriteFile(wf.fs, "scripts/a.cpp", []byte("class B : public Script {};\n"), 0o644))

		err = wf.Check(context.Background(), defaultArgs())
		require.ErrorIs(t, err, ErrStaleOutput)
		assert.Contains(t, wf.ui.diffs[0], "-REGISTER_SCRIPT(A);")
		assert.Contains(t, wf.ui.diffs[0], "+REGISTER_SCRIPT(B);")
		assert.Contains(t, wf.read(t, "src/scripts.cpp"), "REGISTER_SCRIPT(A);", "check never writes")
	})
}

func TestWatch_RegeneratesOnChange(t *testing.T) {
	wf := newMemWorkflow(t, map[string]string{"scripts/a.cpp": "class A : public Script {};\n"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- wf.Watch(ctx, WatchArgs{GenerateArgs: defaultArgs(), Debounce: 10 * time.Millisecond})
	}()

	require.Eventually(t, func() bool { return wf.ui.summaryCount() == 1 }, 2*time.Second, 5*time.Millisecond)

	wf.watch.events <- "src/scripts.cpp"
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, wf.ui.summaryCount(), "events on the output file are ignored")

	require.NoError(t, afero.WriteFile(wf.fs, "scripts/a.cpp", []byte("class B : public Script {};\n"), 0o644))
	wf.watch.events <- "scripts/a.cpp"

	require.Eventually(t, func() bool { return wf.ui.summaryCount() == 2 }, 2*time.Second, 5*time.Millisecond)
	assert.Contains(t, wf.read(t, "src/scripts.cpp"), "REGISTER_SCRIPT(B);")

	wf.watch.errs <- errors.New("overflow")
	require.Eventually(t, func() bool { return wf.ui.errorCount() == 1 }, 2*time.Second, 5*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}

	assert.Equal(t, 2, wf.ui.summaryCount())
}

func TestWatch_InitialFailureIsReturned(t *testing.T) {
	wf := newMemWorkflow(t, nil)

	err := wf.Watch(context.Background(), WatchArgs{GenerateArgs: GenerateArgs{Scripts: "missing", Output: "out.cpp"}})
	require.Error(t, err)
}

func TestWatch_ValidatesDebounce(t *testing.T) {
	wf := newMemWorkflow(t, nil)

	err := wf.Watch(context.Background(), WatchArgs{GenerateArgs: defaultArgs(), Debounce: -time.Second})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid watch arguments")
}
