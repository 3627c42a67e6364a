package interp

import (
	"fmt"
	"io"
)

// OutputSink receives SAY and TRACE text from the engine.
type OutputSink interface {
	// Write emits text without a trailing newline.
	Write(text string)
	// WriteLine emits text followed by a newline.
	WriteLine(text string)
	// WriteError emits diagnostic text.
	WriteError(text string)
	// Output is the legacy single-method entry point; it behaves like
	// WriteLine.
	Output(text string)
}

type writerSink struct {
	w   io.Writer
	err io.Writer
}

// NewWriterSink adapts an io.Writer into an OutputSink. Errors write to
// errW when given, otherwise to w.
func NewWriterSink(w io.Writer, errW io.Writer) OutputSink {
	if errW == nil {
		errW = w
	}
	return &writerSink{w: w, err: errW}
}

func (s *writerSink) Write(text string)     { fmt.Fprint(s.w, text) }
func (s *writerSink) WriteLine(text string) { fmt.Fprintln(s.w, text) }
func (s *writerSink) WriteError(text string) {
	fmt.Fprintln(s.err, text)
}
func (s *writerSink) Output(text string) { s.WriteLine(text) }
