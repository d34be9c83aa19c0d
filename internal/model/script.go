package model

// TypeHeaderMatch is the result of testing a line against the qualifying
// class header pattern.
type TypeHeaderMatch struct {
	Matched  bool
	TypeName string // empty when the header is malformed
}

// ClassBody holds the lines of a qualifying class, header through matching
// closing line (both inclusive).
type ClassBody struct {
	TypeName  string
	StartLine int // 1-based line of the header in its source file
	Lines     []string
}

// Len returns the number of accumulated lines.
func (b ClassBody) Len() int {
	return len(b.Lines)
}

// SerializedField is one annotated field captured from a class body.
type SerializedField struct {
	Type string `yaml:"type"`
	Name string `yaml:"name"`
}

// EmittedClass is a rewritten class body plus its registration statement.
type EmittedClass struct {
	TypeName     string
	StartLine    int
	Fields       []SerializedField
	Lines        []string
	Registration string
}

// OutputLines returns every line the class contributes to the output, in order.
func (c EmittedClass) OutputLines() []string {
	lines := make([]string, 0, len(c.Lines)+1)
	lines = append(lines, c.Lines...)

	return append(lines, c.Registration)
}
