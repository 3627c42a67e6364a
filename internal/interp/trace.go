package interp

import (
	"fmt"

	"github.com/cwbudde/go-rexx/internal/interp/runtime"
	"github.com/cwbudde/go-rexx/pkg/ident"
)

// Trace modes.
const (
	TraceOff          = "OFF"
	TraceAll          = "A"
	TraceResults      = "R"
	TraceIntermediate = "I"
	TraceOutput       = "O"
	TraceNormal       = "NORMAL"
)

// TraceEvent is one entry of the trace buffer.
type TraceEvent struct {
	Type       string
	Message    string
	LineNumber int
	Result     runtime.Value
}

// Tracer owns the trace buffer and, when streaming is enabled, forwards
// instruction-class events to the output sink.
type Tracer struct {
	mode   string
	events []TraceEvent
	stream bool
	sink   OutputSink
}

// NewTracer creates a Tracer in NORMAL (quiet) mode.
func NewTracer(sink OutputSink) *Tracer {
	return &Tracer{mode: TraceNormal, sink: sink}
}

// SetMode switches the trace mode. Unknown modes report an error.
func (t *Tracer) SetMode(mode string) error {
	for _, m := range []string{TraceOff, TraceAll, TraceResults, TraceIntermediate, TraceOutput, TraceNormal} {
		if ident.Equal(mode, m) {
			t.mode = m
			return nil
		}
	}
	return fmt.Errorf("unknown TRACE mode %q", mode)
}

// Mode returns the current trace mode.
func (t *Tracer) Mode() string { return t.mode }

// SetStream enables forwarding of instruction events to the sink.
func (t *Tracer) SetStream(on bool) { t.stream = on }

// Events returns the accumulated trace buffer.
func (t *Tracer) Events() []TraceEvent {
	out := make([]TraceEvent, len(t.events))
	copy(out, t.events)
	return out
}

// Instruction records an executed instruction (modes A and I).
func (t *Tracer) Instruction(line int, text string) {
	if t.mode != TraceAll && t.mode != TraceIntermediate {
		return
	}
	t.record(TraceEvent{Type: "instruction", Message: text, LineNumber: line})
}

// Assignment records an assignment result (modes R, I and A).
func (t *Tracer) Assignment(line int, name string, result runtime.Value) {
	switch t.mode {
	case TraceResults, TraceIntermediate, TraceAll:
	default:
		return
	}
	t.record(TraceEvent{
		Type:       "trace",
		Message:    fmt.Sprintf("%s <- %q", name, result.String()),
		LineNumber: line,
		Result:     result,
	})
}

// Intermediate records an intermediate evaluation (mode I).
func (t *Tracer) Intermediate(line int, text string, result runtime.Value) {
	if t.mode != TraceIntermediate {
		return
	}
	t.record(TraceEvent{Type: "intermediate", Message: text, LineNumber: line, Result: result})
}

// Output records a SAY output line (modes O, I and A).
func (t *Tracer) Output(line int, text string) {
	switch t.mode {
	case TraceOutput, TraceIntermediate, TraceAll:
	default:
		return
	}
	t.record(TraceEvent{Type: "output", Message: text, LineNumber: line})
}

// Call records a subroutine or function invocation (modes A and I).
func (t *Tracer) Call(line int, text string) {
	if t.mode != TraceAll && t.mode != TraceIntermediate {
		return
	}
	t.record(TraceEvent{Type: "call", Message: text, LineNumber: line})
}

func (t *Tracer) record(ev TraceEvent) {
	t.events = append(t.events, ev)
	if !t.stream || ev.LineNumber <= 0 {
		return
	}
	// Only instruction-class events reach the user-facing stream.
	switch ev.Type {
	case "instruction", "call", "trace":
		t.sink.WriteLine(fmt.Sprintf(">> %d %s", ev.LineNumber, ev.Message))
	}
}
