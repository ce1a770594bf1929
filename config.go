package jsonl2csv

import "github.com/arnodel/jsonl2csv/record"

// Config holds everything a conversion needs.  The zero value converts with
// the strict schema policy and \n line terminators, but InputPath must be
// set.
type Config struct {
	InputPath string

	// OutputPath is derived from InputPath with DeriveOutputPath when empty.
	OutputPath string

	Policy  record.SchemaPolicy
	UseCRLF bool
}

// ParseArguments returns the input path from the positional command line
// arguments, which must contain exactly one item.
func ParseArguments(args []string) (string, error) {
	if len(args) != 1 {
		return "", &UsageError{Got: len(args)}
	}
	return args[0], nil
}
