package controller

import (
	"bytes"

	"github.com/spf13/cobra"

	m "scriptprep.dev/pkg/scriptprep/internal/model"
)

func newTestCommand() (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer

	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)

	return cmd, &out, &errOut
}

func sampleResults() []m.FileResult {
	return []m.FileResult{
		{
			Source: &m.File{FullPath: "scripts/sun.cpp", ShortPath: "sun.cpp"},
			Classes: []m.ScriptClass{{
				Name: "SunScript",
				Line: 3,
				Fields: []m.SerializedField{
					{Type: "float", Name: "speed"},
					{Type: "glm::vec3", Name: "axis"},
				},
			}},
		},
		{
			Source:  &m.File{FullPath: "scripts/broken.cpp", ShortPath: "broken.cpp"},
			Classes: []m.ScriptClass{{Name: "", Line: 1}},
			Dropped: []m.DroppedClass{{Name: "Broken", Line: 7, Lines: 4}},
		},
	}
}
