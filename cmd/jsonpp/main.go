// Package main is the entry point for the jsonpp command-line tool: it
// reads a JSON++ document, evaluates it, and writes the resulting JSON.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"jsonpp/pkg/config"
	"jsonpp/pkg/eval"
	"jsonpp/pkg/parser"
	"jsonpp/pkg/serialize"
	"jsonpp/pkg/types"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "jsonpp",
	Short: "Evaluate a JSON++ document to strict JSON",
}

func init() {
	rootCmd.Version = version + " (commit=" + commit + ", built=" + date + ")"
	rootCmd.SetVersionTemplate("jsonpp version {{.Version}}\n")

	rootCmd.Flags().String("input", "", "read source from PATH (default: read stdin)")
	rootCmd.Flags().String("output", "", "write JSON to PATH (default: write stdout)")
	rootCmd.Flags().Bool("force", false, "overwrite an existing --output file")
	rootCmd.Flags().Int("max-depth", 0, "evaluation depth limit (env JSONPP_MAX_DEPTH, default from config or built-in)")
	rootCmd.Flags().Bool("pretty", false, "indent the output JSON two spaces per level")
	rootCmd.Flags().String("config", "", "path to a .jsonpp.yaml config file (default: .jsonpp.yaml in the working directory)")
}

func main() {
	os.Exit(runMain())
}

// runMain runs the command and returns the process exit code, so main
// itself stays a one-liner and the exit-code logic stays testable.
func runMain() int {
	exitCode := 0
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		code, err := execute(cmd)
		exitCode = code
		return err
	}
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "jsonpp:", err)
		if exitCode == 0 {
			exitCode = 3
		}
	}
	return exitCode
}

func execute(cmd *cobra.Command) (int, error) {
	inputPath, _ := cmd.Flags().GetString("input")
	outputPath, _ := cmd.Flags().GetString("output")
	force, _ := cmd.Flags().GetBool("force")
	pretty, _ := cmd.Flags().GetBool("pretty")
	maxDepth, _ := cmd.Flags().GetInt("max-depth")
	configPath, _ := cmd.Flags().GetString("config")

	if configPath == "" {
		configPath = ".jsonpp.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return 2, err
	}
	// Precedence: --max-depth flag, then JSONPP_MAX_DEPTH, then the config
	// file's maxDepth, then eval.New's own built-in default (0 here defers).
	if maxDepth == 0 {
		if v := os.Getenv("JSONPP_MAX_DEPTH"); v != "" {
			fmt.Sscanf(v, "%d", &maxDepth)
		}
	}
	if maxDepth == 0 {
		maxDepth = cfg.MaxDepth
	}
	if !pretty && cfg.Indent != "" {
		pretty = true
	}

	source, file, err := readInput(inputPath)
	if err != nil {
		return 2, err
	}

	root, err := parser.Parse(file, source)
	if err != nil {
		return exitFor(err), err
	}

	result, err := eval.New(root, maxDepth).Evaluate()
	if err != nil {
		return exitFor(err), err
	}

	var out []byte
	if pretty {
		indent := cfg.Indent
		if indent == "" {
			indent = "  "
		}
		out, err = serialize.MarshalIndent(result, "", indent)
	} else {
		out, err = serialize.Marshal(result)
	}
	if err != nil {
		return 1, err
	}
	out = append(out, '\n')

	if err := writeOutput(outputPath, out, force); err != nil {
		return 2, err
	}
	return 0, nil
}

// readInput returns the source text and the file identifier to stamp on
// every parsed Node's Position (used for diagnostics and to resolve
// include/import paths relative to the file containing the call).
func readInput(path string) (source, file string, err error) {
	if path == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", types.NewIOError(types.Position{}, "reading stdin: %v", err)
		}
		wd, _ := os.Getwd()
		return string(data), filepath.Join(wd, "<stdin>"), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", types.NewIOError(types.Position{}, "reading %s: %v", path, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return string(data), abs, nil
}

func writeOutput(path string, data []byte, force bool) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if !force {
		if _, err := os.Stat(path); err == nil {
			return types.NewIOError(types.Position{}, "%s already exists; use --force to overwrite", path)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return types.NewIOError(types.Position{}, "writing %s: %v", path, err)
	}
	return nil
}

// exitFor maps an evaluator/parser error to the CLI's exit code contract:
// 0 success, 1 any evaluation/parse error, 2 I/O error, 3 usage error.
func exitFor(err error) int {
	if jerr, ok := err.(*types.Error); ok {
		return jerr.ExitCode()
	}
	return 1
}
