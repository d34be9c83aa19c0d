// Package scripts implements the script preprocessor engine: header matching,
// the brace-depth class boundary detector, [[Serialize]] extraction and the
// synthesis of the Serialize override and registration statements.
package scripts

import (
	"fmt"

	m "scriptprep.dev/pkg/scriptprep/internal/model"
)

// Literals shared with the engine headers. The registration shapes are
// consumed by the REGISTER_SCRIPT and REGISTER_PROPERTY macros and must not change.
const (
	// ClassKeyword introduces a type definition.
	ClassKeyword = "class"
	// BaseMarker marks derivation from the scripting base.
	BaseMarker = "public Script"
	// AnnotationMarker tags a field as serializable.
	AnnotationMarker = "[[Serialize]]"
	// IncludeDirective is written once at the top of the aggregated unit.
	IncludeDirective = "#include <sstream>"

	// SerializeSignature replaces the closing line of every rewritten class.
	SerializeSignature = "virtual bool Serialize(const std::string& __name, const std::string& __value) override {"
	// FallbackReturn ends the generated method body.
	FallbackReturn = "return false;"
	// MethodClose closes the generated method.
	MethodClose = "}"
	// ClassClose closes the rewritten class.
	ClassClose = "};"
)

// RegisterProperty renders the per-field registration statement.
func RegisterProperty(field m.SerializedField) string {
	return fmt.Sprintf("REGISTER_PROPERTY(%s, %s);", field.Type, field.Name)
}

// RegisterScript renders the per-class registration statement. An empty name
// is rendered as is.
func RegisterScript(typeName string) string {
	return fmt.Sprintf("REGISTER_SCRIPT(%s);", typeName)
}
