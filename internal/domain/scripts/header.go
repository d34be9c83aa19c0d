package scripts

import (
	"regexp"
	"strings"

	m "scriptprep.dev/pkg/scriptprep/internal/model"
)

// identChars matches identifier characters, Unicode letters and digits included.
const identChars = `\p{L}\p{N}_`

var classNamePattern = regexp.MustCompile(`^` + ClassKeyword + `\s*([` + identChars + `]*)`)

// MatchHeader reports whether line opens a qualifying class: its trimmed form
// starts with the class keyword and contains the base marker anywhere.
// The type name is the word run right after the keyword and may be empty.
func MatchHeader(line string) m.TypeHeaderMatch {
	stripped := strings.TrimSpace(line)
	if !strings.HasPrefix(stripped, ClassKeyword) || !strings.Contains(stripped, BaseMarker) {
		return m.TypeHeaderMatch{}
	}

	match := m.TypeHeaderMatch{Matched: true}
	if groups := classNamePattern.FindStringSubmatch(stripped); groups != nil {
		match.TypeName = groups[1]
	}

	return match
}
