// Command jsparse parses JavaScript source into an ESTree-compatible JSON
// AST. It wires pkg/parser and pkg/estree behind a small cobra command tree,
// the same shape the teacher used for its Solidity tooling.
package main

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"

	"github.com/estreegen/jsparse/pkg/estree"
	"github.com/estreegen/jsparse/pkg/parser"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func init() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			GitCommit = setting.Value
		case "vcs.time":
			BuildTime = setting.Value
		}
	}
}

var rootCmd = &cobra.Command{
	Use:     "jsparse",
	Short:   "jsparse parses JavaScript source into an ESTree AST",
	Version: Version,
}

var (
	outputPath  string
	withLoc     bool
	withRange   bool
	tolerant    bool
	prettyPrint bool
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a JavaScript file and print its ESTree JSON AST",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runParse,
}

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check a JavaScript file for syntax errors without printing the AST",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runValidate,
}

func init() {
	parseCmd.Flags().StringVarP(&outputPath, "output", "o", "", "write output to file instead of stdout")
	parseCmd.Flags().BoolVar(&withLoc, "loc", false, "include line/column location info")
	parseCmd.Flags().BoolVar(&withRange, "range", false, "include [start, end] range pairs")
	parseCmd.Flags().BoolVar(&tolerant, "tolerant", false, "collect all syntax errors instead of stopping at the first")
	parseCmd.Flags().BoolVarP(&prettyPrint, "pretty", "p", true, "pretty-print the JSON output")

	validateCmd.Flags().StringVarP(&outputPath, "output", "o", "", "write diagnostics to file instead of stderr")

	rootCmd.AddCommand(parseCmd, validateCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	source, err := readInput(args)
	if err != nil {
		return err
	}

	opts := &parser.Options{Tolerant: tolerant, Loc: withLoc, Range: withRange}
	module, parseErr := parser.Parse(source, opts)
	if parseErr != nil && !tolerant {
		return parseErr
	}
	if parseErr != nil {
		if perr, ok := parseErr.(*parser.ParserError); ok {
			for _, e := range perr.Errors {
				fmt.Fprintf(os.Stderr, "%s:%d: %s\n", e.Kind, e.Line, e.Message)
			}
		}
	}
	if module == nil {
		return parseErr
	}

	data := estree.Generate(module, source, opts)
	if prettyPrint {
		data = pretty.Pretty(data)
	}
	return writeOutput(data)
}

func runValidate(cmd *cobra.Command, args []string) error {
	source, err := readInput(args)
	if err != nil {
		return err
	}

	_, parseErr := parser.Parse(source, &parser.Options{Tolerant: true})
	if parseErr == nil {
		fmt.Println("Syntax OK")
		return nil
	}

	perr, ok := parseErr.(*parser.ParserError)
	if !ok {
		return parseErr
	}
	var f *os.File
	diag := io.Writer(os.Stderr)
	if outputPath != "" {
		if f, err = os.Create(outputPath); err != nil {
			return err
		}
		diag = f
	}
	for _, e := range perr.Errors {
		fmt.Fprintf(diag, "%s:%d:%d: %s\n", e.Kind, e.Line, e.Column, e.Message)
	}
	if f != nil {
		f.Close()
	}
	os.Exit(1)
	return nil
}

func readInput(args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(content), nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", args[0], err)
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", args[0], err)
	}
	return string(content), nil
}

func writeOutput(data []byte) error {
	if outputPath == "" {
		_, err := os.Stdout.Write(append(data, '\n'))
		return err
	}
	return os.WriteFile(outputPath, data, 0644)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
