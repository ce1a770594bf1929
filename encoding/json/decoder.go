package json

import (
	"fmt"

	"github.com/arnodel/jsonl2csv/internal/scanner"
	"github.com/arnodel/jsonl2csv/token"
)

// A Decoder reads a line holding one JSON value and streams it as tokens.  A
// Decoder can be reused for any number of lines.
type Decoder struct {
	scanr scanner.Scanner
}

// NewDecoder sets up a new Decoder instance.
func NewDecoder() *Decoder {
	d := &Decoder{}
	d.scanr.Reset(nil)
	return d
}

// A SyntaxError describes invalid JSON.  Col is the 1-based column (in code
// points) of the offending byte.
type SyntaxError struct {
	Col int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at C%d: %s", e.Col, e.Msg)
}

// DecodeLine reads exactly one JSON value from line and puts its tokens into
// out.  Whitespace around the value is allowed, anything else after it is an
// error.
func (d *Decoder) DecodeLine(line []byte, out token.WriteStream) error {
	d.scanr.Reset(line)
	if d.scanr.SkipSpaceAndPeek() == scanner.EOF {
		return d.unexpectedByte("expected a JSON value, got")
	}
	if err := d.ParseValue(out); err != nil {
		return err
	}
	if d.scanr.SkipSpaceAndPeek() != scanner.EOF || d.scanr.Remaining() > 0 {
		return d.unexpectedByte("expected end of line, got")
	}
	return nil
}

// ParseValue reads a single JSON value and streams it.  It can return a
// non-nil error if the input is invalid JSON.
func (d *Decoder) ParseValue(out token.WriteStream) error {
	b := d.scanr.SkipSpaceAndPeek()
	switch b {
	case '"':
		s, err := d.parseString()
		if err != nil {
			return err
		}
		s.TypeAndFlags &^= token.KeyMask
		out.Put(s)
		return nil
	case '[':
		return d.parseArray(out)
	case '{':
		return d.parseObject(out)
	case 't':
		return d.parseLiteral(out, token.TrueScalar)
	case 'f':
		return d.parseLiteral(out, token.FalseScalar)
	case 'n':
		return d.parseLiteral(out, token.NullScalar)
	default:
		if b == '-' || scanner.IsDigit(b) {
			n, err := d.parseNumber()
			if err != nil {
				return err
			}
			out.Put(n)
			return nil
		}
		return d.unexpectedByte("unexpected")
	}
}

func (d *Decoder) parseArray(out token.WriteStream) error {
	d.scanr.Read()
	out.Put(&token.StartArray{})
	if d.scanr.SkipSpaceAndPeek() == ']' {
		d.scanr.Read()
		out.Put(&token.EndArray{})
		return nil
	}
	for {
		if err := d.ParseValue(out); err != nil {
			return err
		}
		switch d.scanr.SkipSpaceAndPeek() {
		case ']':
			d.scanr.Read()
			out.Put(&token.EndArray{})
			return nil
		case ',':
			d.scanr.Read()
		default:
			return d.unexpectedByte("expected ']' or ',', got")
		}
	}
}

func (d *Decoder) parseObject(out token.WriteStream) error {
	d.scanr.Read()
	out.Put(&token.StartObject{})
	if d.scanr.SkipSpaceAndPeek() == '}' {
		d.scanr.Read()
		out.Put(&token.EndObject{})
		return nil
	}
	for {
		if d.scanr.SkipSpaceAndPeek() != '"' {
			return d.unexpectedByte("expected string key, got")
		}
		key, err := d.parseString()
		if err != nil {
			return err
		}
		out.Put(key)
		if d.scanr.SkipSpaceAndPeek() != ':' {
			return d.unexpectedByte("expected ':', got")
		}
		d.scanr.Read()
		if err := d.ParseValue(out); err != nil {
			return err
		}
		switch d.scanr.SkipSpaceAndPeek() {
		case '}':
			d.scanr.Read()
			out.Put(&token.EndObject{})
			return nil
		case ',':
			d.scanr.Read()
		default:
			return d.unexpectedByte("expected '}' or ',', got")
		}
	}
}

func (d *Decoder) parseLiteral(out token.WriteStream, literal *token.Scalar) error {
	for _, xb := range literal.Bytes {
		if err := d.expectByte(xb); err != nil {
			return err
		}
	}
	out.Put(literal)
	return nil
}

// parseString reads a string and returns it flagged as a key; callers
// clear the flag for values.
func (d *Decoder) parseString() (*token.Scalar, error) {
	scanr := &d.scanr
	scanr.StartToken()
	scanr.Read()
	isUnescaped := true
	for {
		b := scanr.Read()
		switch {
		case b == '"':
			return token.NewKey(token.String|scanFlags(isUnescaped), scanr.EndToken()), nil
		case b == '\\':
			isUnescaped = false
			switch x := scanr.Read(); x {
			case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
			case 'u':
				for i := 0; i < 4; i++ {
					if !scanner.IsHexDigit(scanr.Read()) {
						scanr.Back()
						return nil, d.abandonToken("expected hex digit, got")
					}
				}
			default:
				scanr.Back()
				return nil, d.abandonToken("invalid escape character")
			}
		case b == scanner.EOF && scanr.Remaining() == 0:
			scanr.Back()
			return nil, d.abandonToken("unterminated string")
		case scanner.IsCtrl(b):
			scanr.Back()
			return nil, d.abandonToken("invalid control character in string")
		}
	}
}

func scanFlags(isUnescaped bool) token.ScalarType {
	if isUnescaped {
		return token.UnescapedMask
	}
	return 0
}

func (d *Decoder) parseNumber() (*token.Scalar, error) {
	scanr := &d.scanr
	scanr.StartToken()
	b := scanr.Read()
	// Sign part
	if b == '-' {
		b = scanr.Read()
	}
	// Integer part
	switch {
	case b == '0':
		b = scanr.Read()
	case b >= '1' && b <= '9':
		b, _ = d.readDigits()
	default:
		scanr.Back()
		return nil, d.abandonToken("expected digit, got")
	}
	// Fraction part
	if b == '.' {
		var n int
		b, n = d.readDigits()
		if n == 0 {
			scanr.Back()
			return nil, d.abandonToken("expected digit, got")
		}
	}
	// Exponent part
	if b == 'e' || b == 'E' {
		if x := scanr.Peek(); x == '-' || x == '+' {
			scanr.Read()
		}
		var n int
		_, n = d.readDigits()
		if n == 0 {
			scanr.Back()
			return nil, d.abandonToken("expected digit, got")
		}
	}
	scanr.Back()
	return token.NewScalar(token.Number, scanr.EndToken()), nil
}

// readDigits consumes digits and returns the first non-digit byte read along
// with the number of digits.
func (d *Decoder) readDigits() (byte, int) {
	var n int
	for {
		b := d.scanr.Read()
		if !scanner.IsDigit(b) {
			return b, n
		}
		n++
	}
}

func (d *Decoder) expectByte(xb byte) error {
	if b := d.scanr.Read(); b != xb {
		d.scanr.Back()
		return d.unexpectedByte(fmt.Sprintf("expected %q, got", xb))
	}
	return nil
}

// abandonToken stops recording the current token and reports the next byte
// as unexpected.
func (d *Decoder) abandonToken(msg string) error {
	d.scanr.EndToken()
	return d.unexpectedByte(msg)
}

func (d *Decoder) unexpectedByte(msg string) error {
	col := d.scanr.Col() + 1
	if d.scanr.Remaining() == 0 {
		return &SyntaxError{Col: col, Msg: msg + ": <EOL>"}
	}
	return &SyntaxError{Col: col, Msg: fmt.Sprintf("%s: %q", msg, d.scanr.Peek())}
}
