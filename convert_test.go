package jsonl2csv

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	multierror "github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnodel/jsonl2csv/record"
)

func convertString(t *testing.T, input string, cfg Config) (string, Stats, error) {
	t.Helper()
	var out strings.Builder
	stats, err := ConvertStream(strings.NewReader(input), &out, cfg)
	return out.String(), stats, err
}

func TestConvertStreamSingleLine(t *testing.T) {
	out, stats, err := convertString(t, `{"a": 1, "b": "x"}`+"\n", Config{})
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,x\n", out)
	assert.Equal(t, Stats{Lines: 1, Records: 1}, stats)
}

func TestConvertStreamNoTrailingNewline(t *testing.T) {
	out, _, err := convertString(t, "{\"a\": 1}\n{\"a\": 2}", Config{})
	require.NoError(t, err)
	assert.Equal(t, "a\n1\n2\n", out)
}

func TestConvertStreamEmptyInput(t *testing.T) {
	for _, input := range []string{"", "\n", "  \n\r\n\t\n"} {
		out, stats, err := convertString(t, input, Config{})
		require.NoError(t, err)
		assert.Equal(t, "", out, "input %q", input)
		assert.Equal(t, 0, stats.Records)
		assert.Equal(t, stats.Lines, stats.Skipped)
	}
}

func TestConvertStreamHeaderFromFirstRecord(t *testing.T) {
	input := strings.Join([]string{
		`{"z": 1, "a": 2, "m": 3}`,
		`{"a": 5, "m": 6, "z": 4}`,
		`{"m": 9, "z": 7, "a": 8}`,
	}, "\n")
	out, _, err := convertString(t, input, Config{})
	require.NoError(t, err)
	assert.Equal(t, "z,a,m\n1,2,3\n4,5,6\n7,8,9\n", out)
}

// Converting then reading back the CSV gives the same keys and values, as
// strings, in the same order.
func TestConvertStreamRoundTrip(t *testing.T) {
	input := strings.Join([]string{
		`{"id": 1, "name": "Ada, Countess", "quote": "say \"hi\"", "note": "two\nlines", "ok": true}`,
		`{"id": 2, "name": " leading space", "quote": "", "note": "tab\there", "ok": false}`,
		`{"id": 3.5e2, "name": "ünïcödé", "quote": "\\", "note": "crlf\r\n", "ok": null}`,
	}, "\n") + "\n"
	out, _, err := convertString(t, input, Config{})
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	want := [][]string{
		{"id", "name", "quote", "note", "ok"},
		{"1", "Ada, Countess", `say "hi"`, "two\nlines", "true"},
		{"2", " leading space", "", "tab\there", "false"},
		{"3.5e2", "ünïcödé", `\`, "crlf\n", ""},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestConvertStreamCommaIsQuoted(t *testing.T) {
	out, _, err := convertString(t, `{"a": "x,y"}`, Config{})
	require.NoError(t, err)
	assert.Equal(t, "a\n\"x,y\"\n", out)

	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "x,y", rows[1][0])
}

func TestConvertStreamNestedValues(t *testing.T) {
	out, _, err := convertString(t, `{"obj": {"k": [1, 2]}, "arr": ["a", null], "n": null}`, Config{})
	require.NoError(t, err)
	assert.Equal(t, "obj,arr,n\n\"{\"\"k\"\":[1,2]}\",\"[\"\"a\"\",null]\",\n", out)
}

func TestConvertStreamBlankLines(t *testing.T) {
	out, stats, err := convertString(t, "\n{\"a\": 1}\n\n   \n{\"a\": 2}\r\n\n", Config{})
	require.NoError(t, err)
	assert.Equal(t, "a\n1\n2\n", out)
	assert.Equal(t, Stats{Lines: 6, Records: 2, Skipped: 4}, stats)
}

func TestConvertStreamLineTerminators(t *testing.T) {
	tests := []struct {
		name  string
		input string
		lines int
	}{
		{"lf", "{\"a\":1}\n{\"a\":2}\n", 2},
		{"crlf", "{\"a\":1}\r\n{\"a\":2}\r\n", 2},
		{"lone cr", "{\"a\":1}\r{\"a\":2}\r", 2},
		{"lone cr without final terminator", "{\"a\":1}\r{\"a\":2}", 2},
		{"mixed", "{\"a\":1}\r\r\n{\"a\":2}\n", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, stats, err := convertString(t, tt.input, Config{})
			require.NoError(t, err)
			assert.Equal(t, "a\n1\n2\n", out)
			assert.Equal(t, Stats{Lines: tt.lines, Records: 2, Skipped: tt.lines - 2}, stats)
		})
	}
}

func TestConvertStreamMalformed(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		line   int
		output string
	}{
		{"unquoted keys", "{a: 1}\n", 1, ""},
		{"second line", "{\"a\": 1}\n{\"a\": }\n", 2, "a\n1\n"},
		{"after blank lines", "{\"a\": 1}\n\n\n[1]\n", 4, "a\n1\n"},
		{"not an object", "\"text\"\n", 1, ""},
		{"two objects", "{\"a\": 1} {\"a\": 2}\n", 1, ""},
		{"invalid utf-8", "{\"a\": \"\xff\"}\n", 1, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := convertString(t, tt.input, Config{})
			var malformed *MalformedRecordError
			require.ErrorAs(t, err, &malformed)
			assert.Equal(t, tt.line, malformed.Line)
			assert.Equal(t, tt.output, out)
		})
	}
}

func TestMalformedRecordContentIsTruncated(t *testing.T) {
	line := `{"a": "` + strings.Repeat("é", 100) + `"`
	_, _, err := convertString(t, line, Config{})
	var malformed *MalformedRecordError
	require.ErrorAs(t, err, &malformed)
	assert.True(t, strings.HasSuffix(malformed.Content, "..."))
	assert.LessOrEqual(t, len(malformed.Content), maxContentLen+3)
	assert.Contains(t, err.Error(), "line 1: malformed record")
}

func TestConvertStreamSchemaMismatch(t *testing.T) {
	input := "{\"a\": 1, \"b\": 2}\n{\"a\": 3}\n{\"a\": 4, \"b\": 5, \"c\": 6}\n"

	_, _, err := convertString(t, input, Config{Policy: record.Strict})
	var mismatch *SchemaMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 2, mismatch.Line)
	assert.Equal(t, []string{"b"}, mismatch.Missing)
	assert.Empty(t, mismatch.Extra)
	assert.Equal(t, `line 2: record does not match header: missing keys "b"`, err.Error())

	_, _, err = convertString(t, input, Config{Policy: record.Fill})
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 3, mismatch.Line)
	assert.Equal(t, []string{"c"}, mismatch.Extra)

	out, _, err := convertString(t, input, Config{Policy: record.Align})
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n3,\n4,5\n", out)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("device error")
}

func TestConvertStreamReadError(t *testing.T) {
	var out strings.Builder
	_, err := ConvertStream(failingReader{}, &out, Config{})
	var ioErr *IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "read", ioErr.Op)
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestConvert(t *testing.T) {
	input := writeFile(t, "people.jsonl", "{\"name\": \"Bob\", \"age\": 30}\n{\"age\": 31, \"name\": \"Eve\"}\n")
	output, stats, err := Convert(Config{InputPath: input})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(input), "people.csv"), output)
	assert.Equal(t, 2, stats.Records)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "name,age\nBob,30\nEve,31\n", string(data))
}

func TestConvertEmptyFile(t *testing.T) {
	input := writeFile(t, "empty.jsonl", "")
	output, _, err := Convert(Config{InputPath: input})
	require.NoError(t, err)
	info, err := os.Stat(output)
	require.NoError(t, err)
	assert.Equal(t, int64(0), info.Size())
}

func TestConvertExplicitOutputPath(t *testing.T) {
	input := writeFile(t, "in.jsonl", "{\"a\": 1}\n")
	want := filepath.Join(t.TempDir(), "elsewhere.csv")
	output, _, err := Convert(Config{InputPath: input, OutputPath: want, UseCRLF: true})
	require.NoError(t, err)
	assert.Equal(t, want, output)
	data, err := os.ReadFile(want)
	require.NoError(t, err)
	assert.Equal(t, "a\r\n1\r\n", string(data))
}

func TestConvertRemovesPartialOutput(t *testing.T) {
	input := writeFile(t, "bad.jsonl", "{\"a\": 1}\n{\"a\": 2}\nnot json\n")
	output, _, err := Convert(Config{InputPath: input})
	var malformed *MalformedRecordError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, 3, malformed.Line)
	assert.NoFileExists(t, output)
}

func TestConvertRefusesToOverwriteInput(t *testing.T) {
	input := writeFile(t, "data.csv", "{\"a\": 1}\n")
	_, _, err := Convert(Config{InputPath: input})
	var ioErr *IOError
	require.ErrorAs(t, err, &ioErr)

	data, err := os.ReadFile(input)
	require.NoError(t, err)
	assert.Equal(t, "{\"a\": 1}\n", string(data))
}

func TestJoinErrors(t *testing.T) {
	assert.Nil(t, joinErrors(nil))

	first := &IOError{Op: "close", Path: "a", Err: errors.New("boom")}
	assert.Same(t, first, joinErrors(multierror.Append(nil, first)))

	second := &MalformedRecordError{Line: 1, Content: "x", Err: errors.New("bad")}
	err := joinErrors(multierror.Append(nil, second, first))
	assert.Equal(t, `line 1: malformed record "x": bad; close a: boom`, err.Error())
	var malformed *MalformedRecordError
	assert.ErrorAs(t, err, &malformed)
	var ioErr *IOError
	assert.ErrorAs(t, err, &ioErr)
}

func TestReport(t *testing.T) {
	var out strings.Builder
	require.NoError(t, Report(&out, "data.csv"))
	assert.Equal(t, "Conversion complete. Output file: data.csv\n", out.String())
}
