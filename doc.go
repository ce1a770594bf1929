// Package jsonl2csv converts JSON Lines input into CSV.
//
// Each line of the input holds one JSON object.  The keys of the first
// object, in the order they appear, become the CSV header, and every object
// is written as a row with its values in header order:
//
//	{"a": 1, "b": "x"}        a,b
//	{"b": "y,z", "a": 2}  ->  1,x
//	                          2,"y,z"
//
// The package is organized into several sub-packages:
//
// - encoding/json: decodes one JSON value per line into tokens, keeping key
//   order
// - encoding/csv: writes records as CSV rows under a header fixed by the
//   first record
// - record: ordered records, headers and schema policies
// - token: the token model shared by the decoder and the records
//
// The CLI utility is in the directory cmd/jsonl2csv.  You can install it with:
//
//	go install github.com/arnodel/jsonl2csv/cmd/jsonl2csv
package jsonl2csv
