package csv

import (
	"encoding/csv"
	"io"

	"github.com/arnodel/jsonl2csv/record"
)

// An Encoder writes records as CSV rows.  The header is taken from the keys
// of the first record encoded and written before its row; every following
// record is projected onto that header according to Policy.
type Encoder struct {
	out    io.Writer
	writer *csv.Writer
	Policy record.SchemaPolicy
	header *record.Header
	row    []string
}

// NewEncoder sets up a new Encoder instance writing to the given output.
func NewEncoder(out io.Writer) *Encoder {
	return &Encoder{out: out, writer: csv.NewWriter(out)}
}

// SetCRLF makes the encoder terminate lines with \r\n instead of \n.
func (e *Encoder) SetCRLF(useCRLF bool) {
	e.writer.UseCRLF = useCRLF
}

// Header returns the header, or nil if no record has been encoded yet.
func (e *Encoder) Header() *record.Header {
	return e.header
}

// Encode writes rec as a CSV row, writing the header first if rec is the
// first record.  When rec does not fit the header, a *record.MismatchError is
// returned and nothing is written for it.
func (e *Encoder) Encode(rec *record.Record) error {
	if e.header == nil {
		e.header = record.HeaderOf(rec)
		if err := e.writeRow(e.header.Keys()); err != nil {
			return err
		}
	}
	row, err := e.header.Project(rec, e.Policy, e.row)
	e.row = row
	if err != nil {
		return err
	}
	return e.writeRow(row)
}

func (e *Encoder) writeRow(row []string) error {
	if len(row) == 1 && row[0] == "" {
		// csv.Writer would write an empty line, which CSV readers skip.
		return e.writeQuotedEmpty()
	}
	return e.writer.Write(row)
}

func (e *Encoder) writeQuotedEmpty() error {
	e.writer.Flush()
	if err := e.writer.Error(); err != nil {
		return err
	}
	line := `""` + "\n"
	if e.writer.UseCRLF {
		line = `""` + "\r\n"
	}
	_, err := io.WriteString(e.out, line)
	return err
}

// Flush writes any buffered data to the underlying writer and reports any
// error that happened while writing.
func (e *Encoder) Flush() error {
	e.writer.Flush()
	return e.writer.Error()
}
