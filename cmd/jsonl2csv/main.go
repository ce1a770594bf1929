package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"strings"

	"github.com/arnodel/jsonl2csv"
	"github.com/arnodel/jsonl2csv/internal/format"
	"github.com/arnodel/jsonl2csv/internal/logging"
	"github.com/arnodel/jsonl2csv/record"
)

func main() {
	// Display a stack trace on panic
	defer func() {
		if e := recover(); e != nil {
			fmt.Fprintf(os.Stderr, "%s: %s", e, debug.Stack())
			os.Exit(2)
		}
	}()

	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

const usage = "Usage: jsonl2csv [flags] <input_file.jsonl>\n"

// run executes the command with the given arguments and returns the exit
// status.
func run(args []string, stdout, stderr *os.File) int {
	flags := flag.NewFlagSet("jsonl2csv", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprint(stdout, usage)
		fmt.Fprint(stdout, "\nFLAGS:\n")
		flags.SetOutput(stdout)
		flags.PrintDefaults()
		flags.SetOutput(stderr)
	}

	var (
		schema    string
		useCRLF   bool
		logLevel  string
		colorMode string
	)
	flags.StringVar(&schema, "schema", "strict", "what to do with records whose keys differ from the header: strict, fill, align")
	flags.BoolVar(&useCRLF, "crlf", false, "terminate CSV lines with \\r\\n")
	flags.StringVar(&logLevel, "log-level", "warn", "log level on stderr: debug, info, warn, error")
	flags.StringVar(&colorMode, "color", "auto", "colorize messages: auto, always, never")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	mode, err := format.ParseColorMode(colorMode)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	outColorizer, stdoutW := format.ColorizerFor(mode, stdout)
	errColorizer, stderrW := format.ColorizerFor(mode, stderr)

	fatalError := func(msg string, args ...any) int {
		if err := errColorizer.Print(stderrW, format.Failure, fmt.Sprintf(msg, args...)+"\n"); err != nil {
			slog.Debug("cannot write diagnostic", "error", err)
		}
		return 1
	}

	level, err := logging.ParseLevel(logLevel)
	if err != nil {
		return fatalError("%s", err)
	}
	logging.Init(stderrW, level)

	inputPath, err := jsonl2csv.ParseArguments(flags.Args())
	if err != nil {
		slog.Debug("bad arguments", "error", err)
		if err := outColorizer.Print(stdoutW, format.Usage, usage); err != nil {
			return fatalError("error: %s", err)
		}
		return 1
	}

	policy, err := record.ParseSchemaPolicy(schema)
	if err != nil {
		return fatalError("%s", err)
	}

	cfg := jsonl2csv.Config{
		InputPath: inputPath,
		Policy:    policy,
		UseCRLF:   useCRLF,
	}
	outputPath, stats, err := jsonl2csv.Convert(cfg)
	if err != nil {
		return fatalError("error: %s", err)
	}
	slog.Debug("done", "records", stats.Records, "output", outputPath)

	var msg strings.Builder
	if err := jsonl2csv.Report(&msg, outputPath); err != nil {
		return fatalError("error: %s", err)
	}
	if err := outColorizer.Print(stdoutW, format.Success, msg.String()); err != nil {
		return fatalError("error: %s", err)
	}
	return 0
}
