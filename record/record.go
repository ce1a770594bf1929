// Package record holds decoded JSON objects as ordered lists of fields and
// projects them onto a fixed CSV header.
package record

import (
	"fmt"

	"github.com/arnodel/jsonl2csv/encoding/json"
	"github.com/arnodel/jsonl2csv/token"
)

// A Field is one key/value pair of a Record.  Exactly one of Scalar and Raw
// is set: Raw holds the compact JSON text of a nested array or object.
type Field struct {
	Key    string
	Scalar *token.Scalar
	Raw    []byte
}

// Cell returns the text written to CSV for the field value.
func (f Field) Cell() string {
	if f.Scalar != nil {
		return f.Scalar.Text()
	}
	return string(f.Raw)
}

// A Record is a JSON object with its fields in input order.
type Record struct {
	fields []Field
	index  map[string]int
}

// Fields returns the fields of the record in input order.
func (r *Record) Fields() []Field {
	return r.fields
}

// Keys returns the keys of the record in input order.
func (r *Record) Keys() []string {
	keys := make([]string, len(r.fields))
	for i, f := range r.fields {
		keys[i] = f.Key
	}
	return keys
}

func (r *Record) Len() int {
	return len(r.fields)
}

// Get returns the field with the given key.
func (r *Record) Get(key string) (Field, bool) {
	i, ok := r.index[key]
	if !ok {
		return Field{}, false
	}
	return r.fields[i], true
}

func (r *Record) set(f Field) {
	if i, ok := r.index[f.Key]; ok {
		// Last value wins, the key keeps its first position.
		r.fields[i] = f
		return
	}
	r.index[f.Key] = len(r.fields)
	r.fields = append(r.fields, f)
}

// A NotObjectError is returned when a value other than an object is decoded
// where a record is expected.
type NotObjectError struct {
	Kind string
}

func (e *NotObjectError) Error() string {
	return fmt.Sprintf("expected a JSON object, got %s", e.Kind)
}

// FromTokens reads one JSON value from the stream and turns it into a Record.
// The stream must be well-formed, as produced by a json.Decoder.
func FromTokens(stream token.ReadStream) (*Record, error) {
	first := stream.Next()
	switch v := first.(type) {
	case *token.StartObject:
	case *token.StartArray:
		return nil, &NotObjectError{Kind: "an array"}
	case *token.Scalar:
		if v.Type() == token.Null {
			return nil, &NotObjectError{Kind: "null"}
		}
		return nil, &NotObjectError{Kind: "a " + v.Type().String()}
	default:
		return nil, &NotObjectError{Kind: fmt.Sprint(first)}
	}
	rec := &Record{index: map[string]int{}}
	for {
		item := stream.Next()
		switch v := item.(type) {
		case *token.EndObject:
			return rec, nil
		case *token.Scalar:
			rec.set(readField(v.ToString(), stream))
		default:
			panic(fmt.Sprintf("invalid stream item in object: %v", item))
		}
	}
}

func readField(key string, stream token.ReadStream) Field {
	value := stream.Next()
	switch v := value.(type) {
	case *token.Scalar:
		return Field{Key: key, Scalar: v}
	case *token.StartObject, *token.StartArray:
		// Put the start token back in front of the stream for AppendCompact.
		raw := json.AppendCompact(nil, &prependStream{first: v, rest: stream})
		return Field{Key: key, Raw: raw}
	default:
		panic(fmt.Sprintf("invalid stream item for object value: %v", value))
	}
}

type prependStream struct {
	first token.Token
	rest  token.ReadStream
}

func (s *prependStream) Next() token.Token {
	if s.first != nil {
		tok := s.first
		s.first = nil
		return tok
	}
	return s.rest.Next()
}
