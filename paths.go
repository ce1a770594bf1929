package jsonl2csv

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// DeriveOutputPath returns the path of the CSV file for inputPath: everything
// before the last '.' followed by ".csv".  The last '.' is searched in the
// whole path, so "dir.d/data" gives "dir.csv".  Without any '.', ".csv" is
// appended.
func DeriveOutputPath(inputPath string) string {
	if i := strings.LastIndexByte(inputPath, '.'); i >= 0 {
		return inputPath[:i] + ".csv"
	}
	return inputPath + ".csv"
}

var errSameFile = errors.New("output file would overwrite the input file")

// OpenScopedStreams opens inputPath for reading and creates (or truncates)
// outputPath for writing.  The caller owns both files and must close them.
// Nothing is left open when an error is returned.
func OpenScopedStreams(inputPath, outputPath string) (in, out *os.File, err error) {
	if filepath.Clean(inputPath) == filepath.Clean(outputPath) {
		return nil, nil, &IOError{Op: "create", Path: outputPath, Err: errSameFile}
	}
	in, err = os.Open(inputPath)
	if err != nil {
		return nil, nil, &IOError{Op: "open", Path: inputPath, Err: unwrapPathError(err)}
	}
	if info, statErr := in.Stat(); statErr == nil {
		if outInfo, err := os.Stat(outputPath); err == nil && os.SameFile(info, outInfo) {
			in.Close()
			return nil, nil, &IOError{Op: "create", Path: outputPath, Err: errSameFile}
		}
	}
	out, err = os.Create(outputPath)
	if err != nil {
		in.Close()
		return nil, nil, &IOError{Op: "create", Path: outputPath, Err: unwrapPathError(err)}
	}
	return in, out, nil
}

// unwrapPathError drops the *os.PathError layer, as IOError already names
// the operation and the path.
func unwrapPathError(err error) error {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err
	}
	return err
}
