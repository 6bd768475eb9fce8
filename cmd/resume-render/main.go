// Command resume-render compiles a resume file into LaTeX, PDF and HTML artifacts.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	flag "github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"resume-render/internal/api/validation"
	"resume-render/internal/compiler"
	"resume-render/internal/exporter"
	"resume-render/internal/logging"
	"resume-render/internal/logging/adapters"
	"resume-render/internal/store"
	"resume-render/pkg/models"
)

type cliFlags struct {
	out      string
	basename string
	format   string
	json     bool
	verbose  bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags, input, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitCodeFor(err)
	}

	logger := logging.NewMultiLogger()
	logger.SetLevel(logging.ErrorLevel)
	if flags.verbose {
		logger.SetLevel(logging.DebugLevel)
	}
	_ = logger.AddAdapter(adapters.NewStdoutAdapter("stderr", adapters.StdoutConfig{Format: "text", Writer: stderr}))
	logging.SetGlobalLogger(logger)
	defer logging.CloseLogging()

	if err := render(flags, input, stdin, stdout); err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			fmt.Fprintln(stderr, "resume rejected:")
			for _, f := range verr.Fields {
				fmt.Fprintf(stderr, "  %s: %s\n", f.Field, f.Message)
			}
		} else {
			fmt.Fprintln(stderr, err)
		}
		return exitCodeFor(err)
	}
	return ExitSuccess
}

func parseFlags(args []string, stderr io.Writer) (*cliFlags, string, error) {
	fs := flag.NewFlagSet("resume-render", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: resume-render [flags] <resume.json|resume.yaml|->")
		fs.PrintDefaults()
	}

	f := &cliFlags{}
	fs.StringVarP(&f.out, "out", "o", ".", "directory for the .tex, .pdf and .html files")
	fs.StringVarP(&f.basename, "name", "n", "", "base file name (default: input file name, or \"resume\" for stdin)")
	fs.StringVarP(&f.format, "format", "f", "auto", "input format: auto, json or yaml")
	fs.BoolVar(&f.json, "json", false, "print the compile response as JSON on stdout")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "log each step to stderr")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return nil, "", fmt.Errorf("%w: expected exactly one input file", ErrUsage)
	}

	switch f.format {
	case "auto", "json", "yaml":
	default:
		return nil, "", fmt.Errorf("%w: unknown format %q", ErrUsage, f.format)
	}

	input := fs.Arg(0)
	if f.basename == "" {
		f.basename = "resume"
		if input != "-" {
			f.basename = strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
		}
	}
	return f, input, nil
}

func render(f *cliFlags, input string, stdin io.Reader, stdout io.Writer) error {
	var raw []byte
	var err error
	if input == "-" {
		raw, err = io.ReadAll(stdin)
	} else {
		raw, err = os.ReadFile(input)
	}
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	data, err := decodeResume(raw, resolveFormat(f.format, input, raw))
	if err != nil {
		return err
	}

	doc, err := compiler.New(store.NewMemoryStore()).Compile(context.Background(), data)
	if err != nil {
		return err
	}

	written, err := exporter.WriteArtifacts(f.out, f.basename, doc)
	if err != nil {
		return err
	}
	logging.GetGlobalLogger().Info("Artifacts written", map[string]interface{}{
		"latex":   written.Latex,
		"pdf":     written.PDF,
		"preview": written.Preview,
	})

	if f.json {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(models.NewCompileResponse(doc))
	}
	return nil
}

func resolveFormat(format, input string, raw []byte) string {
	if format != "auto" {
		return format
	}
	switch strings.ToLower(filepath.Ext(input)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".json":
		return "json"
	}
	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && trimmed[0] == '{' {
		return "json"
	}
	return "yaml"
}

func decodeResume(raw []byte, format string) (*models.ResumeData, error) {
	var data models.ResumeData
	var err error
	if format == "yaml" {
		err = yaml.Unmarshal(raw, &data)
	} else {
		err = json.Unmarshal(raw, &data)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s input: %v", ErrUsage, format, err)
	}
	return &data, nil
}
