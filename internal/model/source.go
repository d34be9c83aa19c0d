// Package model defines the data structures shared by the script preprocessor.
package model

// Path represents a file system path.
type Path string

// File represents one input unit found in the scripts directory.
type File struct {
	FullPath  Path
	ShortPath Path // path relative to the scripts directory
	Hash      string
}

// SourceFile is an input unit split into its ordered lines.
// Line endings are normalized to '\n'; a trailing newline yields a final empty line.
type SourceFile struct {
	Origin *File
	Lines  []string
}
