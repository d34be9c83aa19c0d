package model

// ScriptClass describes a registered class in reports and manifests.
type ScriptClass struct {
	Name   string            `yaml:"name"`
	Line   int               `yaml:"line"`
	Fields []SerializedField `yaml:"fields"`
}

// DroppedClass describes a qualifying class whose braces never closed
// before the end of its file. Nothing is emitted for it.
type DroppedClass struct {
	Name  string `yaml:"name"`
	Line  int    `yaml:"line"`
	Lines int    `yaml:"lines"`
}

// FileResult holds what the preprocessor found in a single input unit.
type FileResult struct {
	Source      *File
	Classes     []ScriptClass
	Dropped     []DroppedClass
	PassThrough int // lines copied to the output unchanged
	Written     int // total lines this file contributed to the output
}

// FieldCount returns the number of serialized fields over all classes.
func (r FileResult) FieldCount() int {
	total := 0
	for _, class := range r.Classes {
		total += len(class.Fields)
	}

	return total
}

// Summary aggregates the results of a generation run.
type Summary struct {
	Output  Path
	Files   int
	Classes int
	Fields  int
	Dropped int
	Lines   int // lines written, include directive included
}

// Add folds a file result into the summary.
func (s *Summary) Add(result FileResult) {
	s.Files++
	s.Classes += len(result.Classes)
	s.Fields += result.FieldCount()
	s.Dropped += len(result.Dropped)
	s.Lines += result.Written
}

// Manifest is the persisted description of a generation run.
type Manifest struct {
	Version int             `yaml:"version"`
	Output  Path            `yaml:"output"`
	Files   []ManifestEntry `yaml:"files"`
}

// ManifestEntry is the manifest record for one input unit.
type ManifestEntry struct {
	Path    Path           `yaml:"path"`
	Hash    string         `yaml:"hash"`
	Classes []ScriptClass  `yaml:"classes,omitempty"`
	Dropped []DroppedClass `yaml:"dropped,omitempty"`
}
