package json

import (
	"fmt"

	"github.com/arnodel/jsonl2csv/token"
)

var (
	openObjectBytes        = []byte("{")
	closeObjectBytes       = []byte("}")
	openArrayBytes         = []byte("[")
	closeArrayBytes        = []byte("]")
	itemSeparatorBytes     = []byte(",")
	keyValueSeparatorBytes = []byte(":")
)

// AppendCompact reads the next JSON value from the stream and appends its
// compact encoding (no whitespace at all) to dst.  Scalars are written using
// their literal bytes, so the output spells numbers and strings exactly as
// the input did.
//
// It assumes the stream is well-formed and panics otherwise.
func AppendCompact(dst []byte, stream token.ReadStream) []byte {
	return appendValue(dst, stream.Next(), stream)
}

func appendValue(dst []byte, first token.Token, stream token.ReadStream) []byte {
	switch v := first.(type) {
	case *token.Scalar:
		return append(dst, v.Bytes...)
	case *token.StartObject:
		dst = append(dst, openObjectBytes...)
		for i := 0; ; i++ {
			item := stream.Next()
			if _, ok := item.(*token.EndObject); ok {
				return append(dst, closeObjectBytes...)
			}
			key, ok := item.(*token.Scalar)
			if !ok {
				panic(fmt.Sprintf("invalid object key: %v", item))
			}
			if i > 0 {
				dst = append(dst, itemSeparatorBytes...)
			}
			dst = append(dst, key.Bytes...)
			dst = append(dst, keyValueSeparatorBytes...)
			dst = appendValue(dst, stream.Next(), stream)
		}
	case *token.StartArray:
		dst = append(dst, openArrayBytes...)
		for i := 0; ; i++ {
			item := stream.Next()
			if _, ok := item.(*token.EndArray); ok {
				return append(dst, closeArrayBytes...)
			}
			if i > 0 {
				dst = append(dst, itemSeparatorBytes...)
			}
			dst = appendValue(dst, item, stream)
		}
	default:
		panic(fmt.Sprintf("invalid stream item: %v", first))
	}
}
