package jsonl2csv

import (
	"fmt"
	"strings"
)

// A UsageError is returned when the program is not given exactly one input
// path.
type UsageError struct {
	Got int
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("expected exactly one input file, got %d arguments", e.Got)
}

// An IOError reports a failure to open, read, write or close a file.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// A MalformedRecordError reports a line that is not a JSON object.
type MalformedRecordError struct {
	Line    int
	Content string
	Err     error
}

// Lines longer than this are shortened in MalformedRecordError.Content.
const maxContentLen = 80

func newMalformedRecordError(lineno int, line []byte, err error) *MalformedRecordError {
	content := string(line)
	if len(content) > maxContentLen {
		content = strings.ToValidUTF8(content[:maxContentLen], "") + "..."
	}
	return &MalformedRecordError{Line: lineno, Content: content, Err: err}
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("line %d: malformed record %q: %s", e.Line, e.Content, e.Err)
}

func (e *MalformedRecordError) Unwrap() error {
	return e.Err
}

// A SchemaMismatchError reports a record whose keys do not fit the header
// under the chosen schema policy.
type SchemaMismatchError struct {
	Line    int
	Missing []string
	Extra   []string
	Err     error
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Err)
}

func (e *SchemaMismatchError) Unwrap() error {
	return e.Err
}
