// Package report draws harness progress on a terminal.
//
// Every Render clears the screen and redraws the complete list, so the
// operator always sees the current state of every test. When the output is
// not a terminal the clear is skipped and frames are simply appended, which
// keeps CI logs readable.
package report
