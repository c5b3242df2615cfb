package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"

	"github.com/FileMeta/Yaml/yamljson"
)

type inputAccum struct {
	filenames []string
}

func (ia *inputAccum) String() string {
	return strings.Join(ia.filenames, ", ")
}

func (ia *inputAccum) Set(s string) error {
	ia.filenames = append(ia.filenames, s)
	return nil
}

func main() {
	version := flag.Bool("version", false, "show version information")
	inputFiles := &inputAccum{}
	flag.Var(inputFiles, "input", "input file (default stdin)")
	output := flag.String("output", "", "output file (default stdout)")
	mergeDocuments := flag.Bool("merge-documents", false, "treat '---'-separated documents as one document")
	ignoreOutsideMarkers := flag.Bool("ignore-outside-markers", false, "skip text outside '---'/'...' document markers")
	acceptInlineDocStart := flag.Bool("accept-inline-doc-start", false, "permit content on the same line as '---'")
	keepGoing := flag.Bool("keep-going", false, "report every diagnostic instead of stopping at the first")
	flag.Parse()

	// No bare arguments are accepted, so print the usage message and exit
	// if any are passed.
	if flag.Arg(0) != "" {
		flag.PrintDefaults()
		os.Exit(1)
	}

	var filenames []string
	if len(inputFiles.filenames) == 0 {
		filenames = []string{""} // indicates stdin
	} else {
		filenames = inputFiles.filenames
	}

	os.Exit(run(runParams{
		version:    *version,
		inputFiles: filenames,
		output:     *output,
		opts: yamljson.Options{
			IgnoreTextOutsideDocumentMarkers: *ignoreOutsideMarkers,
			AcceptContentOnStartDocumentLine: *acceptInlineDocStart,
			MergeDocuments:                   *mergeDocuments,
			KeepGoing:                        *keepGoing,
		},
		withReader: withReader,
		withWriter: withWriter,
		fprintf:    fmt.Fprintf,
	}))
}

type runParams struct {
	version    bool
	inputFiles []string
	output     string
	opts       yamljson.Options
	withReader func(string, func(io.Reader)) error
	withWriter func(string, func(io.Writer)) error
	fprintf    func(w io.Writer, format string, a ...interface{}) (int, error)
}

func run(params runParams) int {
	if params.version {
		bi, ok := debug.ReadBuildInfo()
		if !ok || bi.Main.Version == "" {
			_, _ = params.fprintf(os.Stdout, "yaml2json version unknown\n")
			return 0
		}
		_, _ = params.fprintf(os.Stdout, "yaml2json %+v\n", bi.Main.Version)
		return 0
	}

	exitCode := 0

	err := params.withWriter(params.output, func(of io.Writer) {
		for _, name := range params.inputFiles {
			err := params.withReader(name, func(f io.Reader) {
				if !convert(params, name, f, of) {
					exitCode = 1
				}
			})
			if err != nil {
				_, _ = params.fprintf(os.Stderr, "%v\n", err)
				exitCode = 1
			}
		}
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}

	return exitCode
}

// convert parses one YAML input and writes one JSON document followed by
// a newline. When WriteJSON fails, the document is incomplete or absent
// and only the newline is written after it. Diagnostics go to stderr
// sorted by position; the return value is false if any occurred.
func convert(params runParams, name string, f io.Reader, of io.Writer) bool {
	rd := yamljson.NewReader(f, params.opts)
	werr := yamljson.WriteJSON(of, rd)
	_, _ = io.WriteString(of, "\n")

	diags := rd.Diagnostics()
	yamljson.SortDiagnostics(diags)
	for _, d := range diags {
		if name == "" {
			_, _ = params.fprintf(os.Stderr, "%v\n", d)
		} else {
			_, _ = params.fprintf(os.Stderr, "%v: %v\n", name, d)
		}
	}
	if werr != nil {
		if _, isDiag := werr.(yamljson.Diagnostic); !isDiag {
			_, _ = params.fprintf(os.Stderr, "%v\n", werr)
		}
		return false
	}
	return len(diags) == 0
}

func withReader(input string, f func(io.Reader)) error {
	if input == "" {
		f(os.Stdin)
		return nil
	}
	inf, err := os.Open(input)
	if err != nil {
		return err
	}
	defer inf.Close()
	f(inf)
	return nil
}

func withWriter(output string, f func(io.Writer)) error {
	if output == "" {
		f(os.Stdout)
		return nil
	}
	outf, err := os.Create(output)
	if err != nil {
		return err
	}
	defer outf.Close()
	f(outf)
	return nil
}
