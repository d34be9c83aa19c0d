package domain

import (
	"bufio"
	"io"
)

// LineWriter is the append-only output stream of a generation run. Every line
// is terminated with '\n'.
type LineWriter struct {
	w     *bufio.Writer
	lines int
}

// NewLineWriter wraps w.
func NewLineWriter(w io.Writer) *LineWriter {
	return &LineWriter{w: bufio.NewWriter(w)}
}

// WriteLine appends line and a newline.
func (lw *LineWriter) WriteLine(line string) error {
	if _, err := lw.w.WriteString(line); err != nil {
		return err
	}

	if err := lw.w.WriteByte('\n'); err != nil {
		return err
	}

	lw.lines++

	return nil
}

// Lines returns the number of lines written so far.
func (lw *LineWriter) Lines() int {
	return lw.lines
}

// Flush writes any buffered data to the underlying writer.
func (lw *LineWriter) Flush() error {
	return lw.w.Flush()
}
