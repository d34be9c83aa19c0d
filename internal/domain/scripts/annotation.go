package scripts

import (
	"regexp"
	"strings"

	m "scriptprep.dev/pkg/scriptprep/internal/model"
)

// annotationPattern captures "<marker> <type> <name>". Types may be qualified
// with "::"; names are plain identifiers. \s also spans line breaks.
var annotationPattern = regexp.MustCompile(regexp.QuoteMeta(AnnotationMarker) +
	`\s+([` + identChars + `:]+)\s+([` + identChars + `]+)`)

// ExtractFields returns one field per annotation match in the newline-joined
// body, in order of appearance. Repeated names are kept.
func ExtractFields(lines []string) []m.SerializedField {
	matches := annotationPattern.FindAllStringSubmatch(strings.Join(lines, "\n"), -1)

	fields := make([]m.SerializedField, 0, len(matches))
	for _, match := range matches {
		fields = append(fields, m.SerializedField{Type: match[1], Name: match[2]})
	}

	return fields
}

// StripMarker removes every occurrence of the annotation marker from line.
func StripMarker(line string) string {
	return strings.ReplaceAll(line, AnnotationMarker, "")
}

// StripMarkers returns a copy of lines with all annotation markers removed,
// whether or not they took part in a field match.
func StripMarkers(lines []string) []string {
	stripped := make([]string, len(lines))
	for i, line := range lines {
		stripped[i] = StripMarker(line)
	}

	return stripped
}
