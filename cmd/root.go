// Package cmd wires the cobra CLI surface: --source, --input,
// -i/--interactive, and --help, the way the teacher's own flag-based
// main() picks a mode and builds a VM, upgraded to cobra per
// other_examples/manifests/Manu343726-cucaracha and
// other_examples/manifests/rcornwell-S370.
package cmd

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"ippvm/config"
	"ippvm/ipp"
	"ippvm/loader"
)

// Execute builds and runs the root command, returning the process exit
// code per the taxonomy in spec.md §6 rather than calling os.Exit
// itself, so tests can observe the code without forking a process.
func Execute() int {
	var (
		sourcePath  string
		inputPath   string
		interactive bool
		textDialect bool
	)

	defaults := config.Load()

	root := &cobra.Command{
		Use:           "ippvm",
		Short:         "Interpreter for IPPcode19 XML and text programs",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if interactive && sourcePath != "" {
				return ipp.NewError(ipp.CodeCLI, "--interactive is incompatible with --source")
			}
			if !interactive && sourcePath == "" && inputPath == "" {
				return ipp.NewError(ipp.CodeCLI, "one of --source, --input or --interactive is required")
			}

			var input loader.InputSource = loader.NewLineSource(os.Stdin)
			if inputPath != "" {
				f, err := os.Open(inputPath)
				if err != nil {
					return ipp.NewErrorf(ipp.CodeCLI, "cannot open input file: %v", err)
				}
				defer f.Close()
				input = loader.NewFileSource(f)
			}

			env := ipp.NewEnvironment(stdoutWriter{}, stderrWriter{}, input)

			if interactive {
				engine := ipp.NewEngine(&ipp.Program{}, env)
				return loader.RunInteractive(engine)
			}

			var src io.Reader = os.Stdin
			if sourcePath != "" {
				f, err := os.Open(sourcePath)
				if err != nil {
					return ipp.NewErrorf(ipp.CodeCLI, "cannot open source file: %v", err)
				}
				defer f.Close()
				src = f
			}

			var program *ipp.Program
			var err error
			if textDialect {
				program, err = loader.LoadText(src)
			} else {
				program, err = loader.LoadXML(src)
			}
			if err != nil {
				return err
			}

			engine := ipp.NewEngine(program, env)
			if err := engine.ScanLabels(); err != nil {
				return err
			}
			return engine.Run()
		},
	}

	root.Flags().StringVar(&sourcePath, "source", defaults.Source, "path to an IPPcode19 source file (XML by default)")
	root.Flags().StringVar(&inputPath, "input", defaults.Input, "path to a file supplying READ's input (defaults to stdin)")
	root.Flags().BoolVarP(&interactive, "interactive", "i", false, "run an interactive session instead of loading --source")
	root.Flags().BoolVar(&textDialect, "text", false, "parse --source as the line-oriented text dialect instead of XML")

	err := root.Execute()
	if err == nil {
		return 0
	}
	if code := ipp.ExitCode(err); code >= 0 {
		return code
	}
	if ippErr, ok := err.(*ipp.Error); ok {
		color.New(color.FgRed).Fprintf(os.Stderr, "error: %s\n", ippErr.Message)
		return ippErr.Code
	}
	color.New(color.FgRed).Fprintf(os.Stderr, "error: %v\n", err)
	return ipp.CodeCLI
}

type stdoutWriter struct{}

func (stdoutWriter) WriteString(s string) (int, error) { return os.Stdout.WriteString(s) }

type stderrWriter struct{}

func (stderrWriter) WriteString(s string) (int, error) { return os.Stderr.WriteString(s) }
