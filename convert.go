package jsonl2csv

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	multierror "github.com/hashicorp/go-multierror"

	"github.com/arnodel/jsonl2csv/encoding/csv"
	"github.com/arnodel/jsonl2csv/encoding/json"
	"github.com/arnodel/jsonl2csv/record"
	"github.com/arnodel/jsonl2csv/token"
)

// Stats counts what a conversion went through.  Lines includes skipped blank
// lines.
type Stats struct {
	Lines   int
	Records int
	Skipped int
}

var errInvalidUTF8 = errors.New("invalid UTF-8")

// ConvertStream reads JSON objects from in, one per line, and writes them to
// out as CSV.  The header is made of the keys of the first object.  Blank
// lines are skipped.  Nothing at all is written if in has no records.
//
// It stops at the first error, which is a *MalformedRecordError, a
// *SchemaMismatchError or an *IOError.  Rows before the failing line may
// already have been written to out.
func ConvertStream(in io.Reader, out io.Writer, cfg Config) (Stats, error) {
	c := &lineConverter{
		decoder: json.NewDecoder(),
		acc:     token.NewAccumulatorStream(),
		encoder: csv.NewEncoder(out),
		outName: streamName(out),
	}
	c.encoder.Policy = cfg.Policy
	c.encoder.SetCRLF(cfg.UseCRLF)

	reader := bufio.NewReader(in)
	var line []byte
	for {
		var readErr error
		line, readErr = readLine(reader, line)
		if readErr != nil && readErr != io.EOF {
			return c.stats, &IOError{Op: "read", Path: streamName(in), Err: readErr}
		}
		if readErr == nil || len(line) > 0 {
			if err := c.convertLine(bytes.TrimSpace(line)); err != nil {
				// Keep the rows written so far for callers that want them.
				if flushErr := c.encoder.Flush(); flushErr != nil {
					slog.Debug("flush after failure", "error", flushErr)
				}
				return c.stats, err
			}
		}
		if readErr == io.EOF {
			break
		}
	}
	if err := c.encoder.Flush(); err != nil {
		return c.stats, &IOError{Op: "write", Path: c.outName, Err: err}
	}
	slog.Info("converted records", "records", c.stats.Records, "lines", c.stats.Lines, "skipped", c.stats.Skipped)
	return c.stats, nil
}

// readLine reads the next line from r into buf[:0] and returns it without
// its terminator, which is "\n", "\r\n" or a lone "\r".  At the end of
// the input it returns io.EOF, together with the last line if that line has
// no terminator.
func readLine(r *bufio.Reader, buf []byte) ([]byte, error) {
	buf = buf[:0]
	for {
		b, err := r.ReadByte()
		if err != nil {
			return buf, err
		}
		switch b {
		case '\n':
			return buf, nil
		case '\r':
			next, err := r.ReadByte()
			switch {
			case err == io.EOF:
			case err != nil:
				return buf, err
			case next != '\n':
				_ = r.UnreadByte()
			}
			return buf, nil
		}
		buf = append(buf, b)
	}
}

type lineConverter struct {
	decoder *json.Decoder
	acc     *token.AccumulatorStream
	encoder *csv.Encoder
	outName string
	stats   Stats
}

func (c *lineConverter) convertLine(line []byte) error {
	c.stats.Lines++
	lineno := c.stats.Lines
	if len(line) == 0 {
		slog.Debug("skipping blank line", "line", lineno)
		c.stats.Skipped++
		return nil
	}
	if !utf8.Valid(line) {
		return newMalformedRecordError(lineno, line, errInvalidUTF8)
	}
	c.acc.Reset()
	if err := c.decoder.DecodeLine(line, c.acc); err != nil {
		return newMalformedRecordError(lineno, line, err)
	}
	rec, err := record.FromTokens(token.NewSliceReadStream(c.acc.GetTokens()))
	if err != nil {
		return newMalformedRecordError(lineno, line, err)
	}
	if err := c.encoder.Encode(rec); err != nil {
		var mismatch *record.MismatchError
		if errors.As(err, &mismatch) {
			return &SchemaMismatchError{Line: lineno, Missing: mismatch.Missing, Extra: mismatch.Extra, Err: mismatch}
		}
		return &IOError{Op: "write", Path: c.outName, Err: err}
	}
	c.stats.Records++
	return nil
}

// streamName returns the file name behind r if it has one.
func streamName(r any) string {
	if f, ok := r.(interface{ Name() string }); ok {
		return f.Name()
	}
	return fmt.Sprintf("%T", r)
}

// Convert converts the file at cfg.InputPath and returns the path of the CSV
// file written.  Both files are closed before it returns.  When the
// conversion fails after the output file was created, that file is removed.
func Convert(cfg Config) (outputPath string, stats Stats, err error) {
	outputPath = cfg.OutputPath
	if outputPath == "" {
		outputPath = DeriveOutputPath(cfg.InputPath)
	}
	in, out, err := OpenScopedStreams(cfg.InputPath, outputPath)
	if err != nil {
		return outputPath, stats, err
	}
	slog.Debug("converting", "input", cfg.InputPath, "output", outputPath, "schema", cfg.Policy)

	defer func() {
		var errs *multierror.Error
		if err != nil {
			errs = multierror.Append(errs, err)
		}
		if closeErr := in.Close(); closeErr != nil {
			errs = multierror.Append(errs, &IOError{Op: "close", Path: cfg.InputPath, Err: unwrapPathError(closeErr)})
		}
		if closeErr := out.Close(); closeErr != nil {
			errs = multierror.Append(errs, &IOError{Op: "close", Path: outputPath, Err: unwrapPathError(closeErr)})
		}
		if errs != nil {
			if rmErr := os.Remove(outputPath); rmErr != nil {
				errs = multierror.Append(errs, &IOError{Op: "remove", Path: outputPath, Err: unwrapPathError(rmErr)})
			} else {
				slog.Debug("removed partial output", "path", outputPath)
			}
		}
		err = joinErrors(errs)
	}()

	stats, err = ConvertStream(in, out, cfg)
	return outputPath, stats, err
}

// joinErrors returns the only error in errs as is, and several errors as a
// *multierror.Error printed on one line.
func joinErrors(errs *multierror.Error) error {
	if errs == nil || len(errs.Errors) == 0 {
		return nil
	}
	if len(errs.Errors) == 1 {
		return errs.Errors[0]
	}
	errs.ErrorFormat = func(es []error) string {
		msgs := make([]string, len(es))
		for i, e := range es {
			msgs[i] = e.Error()
		}
		return strings.Join(msgs, "; ")
	}
	return errs
}

// Report writes the confirmation line for a successful conversion.
func Report(w io.Writer, outputPath string) error {
	_, err := fmt.Fprintf(w, "Conversion complete. Output file: %s\n", outputPath)
	return err
}
