package scripts

import (
	"strings"

	m "scriptprep.dev/pkg/scriptprep/internal/model"
)

// LineSink receives output lines in order.
type LineSink interface {
	WriteLine(line string) error
}

type discardSink struct{}

func (discardSink) WriteLine(string) error { return nil }

// Discard is a LineSink that drops every line. It lets callers analyze files
// without producing output.
var Discard LineSink = discardSink{}

var newlineReplacer = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// SplitLines splits content into lines. "\r\n" and a lone "\r" end a line
// like "\n" does, so the output only ever uses "\n".
func SplitLines(content []byte) []string {
	return strings.Split(newlineReplacer.Replace(string(content)), "\n")
}

// Pump runs the lines of src through a fresh Detector. Lines outside
// qualifying classes are written to sink verbatim; every completed class is
// rewritten and written followed by its registration statement. A class still
// open at the end of the file produces no output and is reported as dropped.
func Pump(src m.SourceFile, sink LineSink) (m.FileResult, error) {
	result := m.FileResult{Source: src.Origin}
	detector := NewDetector()

	for i, line := range src.Lines {
		switch detector.Feed(i+1, line) {
		case PassThrough:
			if err := sink.WriteLine(line); err != nil {
				return result, err
			}

			result.PassThrough++
			result.Written++
		case Completed:
			body, _ := detector.Take()
			emitted := Rewrite(body)

			for _, out := range emitted.OutputLines() {
				if err := sink.WriteLine(out); err != nil {
					return result, err
				}

				result.Written++
			}

			result.Classes = append(result.Classes, m.ScriptClass{
				Name:   emitted.TypeName,
				Line:   emitted.StartLine,
				Fields: emitted.Fields,
			})
		case Accumulated:
		}
	}

	if body, open := detector.Pending(); open {
		result.Dropped = append(result.Dropped, m.DroppedClass{
			Name:  body.TypeName,
			Line:  body.StartLine,
			Lines: body.Len(),
		})
	}

	return result, nil
}
