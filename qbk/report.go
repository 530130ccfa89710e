package qbk

import (
	"fmt"
	"io"
)

// SyntaxError carries the exact place where the grammar could not continue.
type SyntaxError struct {
	Origin string
	Line   int
	Column int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Origin, e.Line, e.Column, e.Msg)
}

// Reporter prints diagnostics on a side channel distinct from the
// generated document. The normal convention is "origin:line: message";
// the alternate one ("origin(line): message") is what Visual Studio
// style editors expect for jumping to the offending line.
type Reporter struct {
	w        io.Writer
	msErrors bool
}

func NewReporter(w io.Writer, msErrors bool) *Reporter {
	return &Reporter{w: w, msErrors: msErrors}
}

// Error reports an error message at a source position.
func (r *Reporter) Error(pos Position, format string, args ...any) {
	r.emit(pos.Origin, pos.Line, fmt.Sprintf(format, args...))
}

// Warn reports a warning message at a source position.
func (r *Reporter) Warn(pos Position, format string, args ...any) {
	r.emit(pos.Origin, pos.Line, "warning: "+fmt.Sprintf(format, args...))
}

// FileError reports an error not tied to a particular line.
func (r *Reporter) FileError(origin string, format string, args ...any) {
	fmt.Fprintf(r.w, "%s: %s\n", origin, fmt.Sprintf(format, args...))
}

// FileWarn reports a warning not tied to a particular line.
func (r *Reporter) FileWarn(origin string, format string, args ...any) {
	fmt.Fprintf(r.w, "%s: %s\n", origin, fmt.Sprintf(format, args...))
}

func (r *Reporter) emit(origin string, line int, msg string) {
	if r.msErrors {
		fmt.Fprintf(r.w, "%s(%d): %s\n", origin, line, msg)
	} else {
		fmt.Fprintf(r.w, "%s:%d: %s\n", origin, line, msg)
	}
}
