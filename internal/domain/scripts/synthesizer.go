package scripts

import (
	m "scriptprep.dev/pkg/scriptprep/internal/model"
)

// Synthesize replaces the closing line of body with the generated Serialize
// override, registers fields in order and closes method and class. The
// registration statement for the class is returned alongside.
func Synthesize(body m.ClassBody, fields []m.SerializedField) m.EmittedClass {
	kept := body.Lines
	if len(kept) > 0 {
		kept = kept[:len(kept)-1]
	}

	lines := make([]string, 0, len(kept)+len(fields)+4)
	lines = append(lines, kept...)
	lines = append(lines, SerializeSignature)

	for _, field := range fields {
		lines = append(lines, RegisterProperty(field))
	}

	lines = append(lines, FallbackReturn, MethodClose, ClassClose)

	return m.EmittedClass{
		TypeName:     body.TypeName,
		StartLine:    body.StartLine,
		Fields:       fields,
		Lines:        lines,
		Registration: RegisterScript(body.TypeName),
	}
}

// Rewrite extracts the annotated fields of a completed body, strips the
// markers and synthesizes the rewritten class.
func Rewrite(body m.ClassBody) m.EmittedClass {
	fields := ExtractFields(body.Lines)
	body.Lines = StripMarkers(body.Lines)

	return Synthesize(body, fields)
}
