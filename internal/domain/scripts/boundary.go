package scripts

import (
	m "scriptprep.dev/pkg/scriptprep/internal/model"
)

// State is the state of a Detector.
type State int

const (
	// Outside means no qualifying class is open.
	Outside State = iota
	// InBody means a class body is being accumulated.
	InBody
)

func (s State) String() string {
	if s == InBody {
		return "in-body"
	}

	return "outside"
}

// Step tells the caller what Feed did with a line.
type Step int

const (
	// PassThrough lines belong to no class and go to the output unchanged.
	PassThrough Step = iota
	// Accumulated lines were appended to the open body.
	Accumulated
	// Completed means the line closed the body; collect it with Take.
	Completed
)

// Detector isolates qualifying class bodies from a stream of lines by
// counting braces. A single counter covers nested blocks.
//
// A Detector is used for one file and is not safe for concurrent use.
type Detector struct {
	state  State
	depth  int
	opened bool
	body   m.ClassBody
	ready  bool
}

// NewDetector returns a detector in the Outside state.
func NewDetector() *Detector {
	return &Detector{}
}

// State returns the current state.
func (d *Detector) State() State {
	return d.state
}

// Depth returns the brace depth after the last fed line.
func (d *Detector) Depth() int {
	return d.depth
}

// Feed processes the next line. lineNo is 1-based and only recorded.
func (d *Detector) Feed(lineNo int, line string) Step {
	if d.state == Outside {
		header := MatchHeader(line)
		if !header.Matched {
			return PassThrough
		}

		d.state = InBody
		d.depth = 0
		d.opened = false
		d.body = m.ClassBody{
			TypeName:  header.TypeName,
			StartLine: lineNo,
			Lines:     []string{line},
		}

		return d.track(line)
	}

	d.body.Lines = append(d.body.Lines, line)

	return d.track(line)
}

// track updates the depth with the braces of line and closes the body when
// the depth is back to zero after having been positive.
func (d *Detector) track(line string) Step {
	for _, r := range line {
		switch r {
		case '{':
			d.depth++
			d.opened = true
		case '}':
			d.depth--
		}
	}

	if d.opened && d.depth == 0 {
		d.state = Outside
		d.ready = true

		return Completed
	}

	return Accumulated
}

// Take hands over the completed body. The detector keeps no reference to it.
// It returns false when no completed body is waiting.
func (d *Detector) Take() (m.ClassBody, bool) {
	if !d.ready {
		return m.ClassBody{}, false
	}

	body := d.body
	d.body = m.ClassBody{}
	d.ready = false

	return body, true
}

// Pending returns the body that is still open, if any. At end of file this
// is a body whose braces never balanced.
func (d *Detector) Pending() (m.ClassBody, bool) {
	if d.state != InBody {
		return m.ClassBody{}, false
	}

	return d.body, true
}
