package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/tidwall/pretty"

	"github.com/mcncl/tidyjson/internal/codec"
	"github.com/mcncl/tidyjson/internal/config"
	"github.com/mcncl/tidyjson/internal/errors"
	"github.com/mcncl/tidyjson/internal/formatter"
	"github.com/mcncl/tidyjson/internal/logging"
	"github.com/mcncl/tidyjson/internal/parser"
	"github.com/mcncl/tidyjson/internal/value"
	"github.com/mcncl/tidyjson/internal/writer"
	"github.com/mcncl/tidyjson/pkg/tidyjson"
)

// CLI defines the command-line interface
var CLI struct {
	Input          string `help:"Path to input JSON or YAML file. If not specified, reads from stdin." short:"i" type:"path"`
	Output         string `help:"Path to output JSON file. If not specified, writes to stdout." short:"o" type:"path"`
	Config         string `help:"Path to config file. If not specified, searches for .jtidy.yml upwards from the working directory." short:"c" type:"path"`
	Indent         int    `help:"Spaces per indentation level, an even number from 2 to 12." short:"n"`
	Sort           bool   `help:"Sort object keys." short:"s"`
	YAML           bool   `help:"Read the input as YAML." name:"yaml"`
	Raw            bool   `help:"Write compact JSON instead of tidy output." short:"r"`
	Color          bool   `help:"Colorize output written to a terminal."`
	SpaceBefore    int    `help:"Spaces before each colon, from 2 to 8." name:"space-before"`
	Space          int    `help:"Spaces after each colon, from 2 to 8."`
	MaxNesting     int    `help:"Maximum nesting depth of the output (default 100)." name:"max-nesting"`
	NoNestingLimit bool   `help:"Do not limit the nesting depth of the output." name:"no-nesting-limit"`
	EscapeSlash    bool   `help:"Escape forward slashes." name:"escape-slash"`
	ASCIIOnly      bool   `help:"Escape every non-ASCII character." name:"ascii-only"`
	AllowNaN       bool   `help:"Allow NaN and Infinity in the output." name:"allow-nan"`
	Debug          bool   `help:"Enable debug logging." short:"d"`
	LogFile        string `help:"Write diagnostics to a rotated log file instead of stderr." name:"log-file" type:"path"`
	Version        bool   `help:"Show version information." short:"v"`
	Interactive    bool   `help:"Run in interactive mode, allowing direct JSON input with Ctrl+D to process." short:"I"`
}

// Context holds the runtime context
type Context struct {
	Debug  bool
	Config *config.Config
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	// Parse CLI arguments with Kong
	parser := kong.Must(&CLI,
		kong.Name("jtidy"),
		kong.Description("A tool to pretty-print JSON with stable, readable indentation"),
		kong.UsageOnError(),
	)

	// Check if no arguments provided and set interactive mode by default
	if len(os.Args) == 1 {
		CLI.Interactive = true
	}

	// Parse the command line arguments
	_, err := parser.Parse(os.Args[1:])
	if err != nil {
		// If there's an error parsing arguments, the usage will already be shown by kong.UsageOnError()
		os.Exit(1)
	}

	// Show version and exit if requested
	if CLI.Version {
		fmt.Printf("jtidy version %s\n", Version)
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		os.Exit(1)
	}

	logger, closeLog := logging.New(logging.Options{
		Debug: cfg.Dev.Debug,
		File:  cfg.Dev.LogFile,
	})
	logging.SetDefault(logger)

	err = run(&Context{Debug: cfg.Dev.Debug, Config: cfg})
	_ = closeLog()
	if err != nil {
		// Use our custom error handling to provide user-friendly error messages
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))

		// Show help on error
		fmt.Fprintf(os.Stderr, "\nFor help, run: jtidy --help\n")

		os.Exit(1)
	}
}

// loadConfig merges the config file, if any, with the flags given
func loadConfig() (*config.Config, error) {
	path := CLI.Config
	if path == "" {
		path = config.FindConfigFile()
	}
	return config.LoadConfigWithCLI(path, config.CLIOverrides{
		Indent:         CLI.Indent,
		SpaceBefore:    CLI.SpaceBefore,
		Space:          CLI.Space,
		MaxNesting:     CLI.MaxNesting,
		NoNestingLimit: CLI.NoNestingLimit,
		Sort:           CLI.Sort,
		EscapeSlash:    CLI.EscapeSlash,
		ASCIIOnly:      CLI.ASCIIOnly,
		AllowNaN:       CLI.AllowNaN,
		Color:          CLI.Color,
		Debug:          CLI.Debug,
		LogFile:        CLI.LogFile,
	})
}

// run executes the main program logic
func run(ctx *Context) error {
	cfg := ctx.Config
	if cfg == nil {
		cfg = config.NewConfig()
	}

	// 1. Parse JSON or YAML input
	tree, err := parseInput()
	if err != nil {
		// Error is already wrapped by parseInput
		return err
	}

	// 2. Render it
	text, err := render(cfg, tree)
	if err != nil {
		return err
	}

	// 3. Output the result
	return writeOutput(cfg, text)
}

// render produces tidy output, or compact JSON when raw output is wanted
func render(cfg *config.Config, tree value.Value) (string, error) {
	opts := cfg.FormatOptions()

	if CLI.Raw || !cfg.Output.Tidy {
		if opts.Resolve().Sorted {
			tree = formatter.SortKeys(tree)
		}
		out, err := codec.Compact(tree)
		if err != nil {
			return "", err
		}
		return out + "\n", nil
	}

	t := tidyjson.Tidier{Format: opts, Serializer: cfg.SerializerOptions()}
	return t.Tidy(tree)
}

// parseInput reads JSON or YAML from file or stdin
func parseInput() (value.Value, error) {
	syntax := parser.SyntaxAuto
	if CLI.YAML {
		syntax = parser.SyntaxYAML
	}

	if CLI.Input != "" {
		// Parse from file
		return parser.ParseFile(CLI.Input, syntax)
	}

	// Check if stdin has data
	stdinInfo, err := os.Stdin.Stat()
	if err != nil {
		return value.Value{}, errors.NewInputError("failed to access stdin", err)
	}

	// Interactive mode or piped input
	if (stdinInfo.Mode() & os.ModeCharDevice) != 0 {
		// Terminal is interactive (not piped)
		if CLI.Interactive {
			// Interactive mode
			return readInteractiveInput(syntax)
		}
		// No data provided on stdin and not in interactive mode
		return value.Value{}, errors.NewInputError("no input provided", errors.ErrNoInput)
	}

	// Read from stdin (piped input)
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return value.Value{}, errors.NewInputError("failed to read from stdin", err)
	}

	return parseText(string(data), syntax)
}

func parseText(text string, syntax parser.Syntax) (value.Value, error) {
	if strings.TrimSpace(text) == "" {
		return value.Value{}, errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}
	if syntax == parser.SyntaxYAML {
		return parser.ParseReader(strings.NewReader(text), syntax)
	}
	return parser.ParseString(text)
}

// writeOutput writes text to file or stdout
func writeOutput(cfg *config.Config, text string) error {
	if CLI.Output != "" {
		// Write to file
		w := writer.New(cfg.Output.Dir)
		path, err := w.Write(strings.TrimSuffix(CLI.Output, writer.Extension), text)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Tidy JSON written to %s\n", path)
		return nil
	}

	if cfg.Output.Color {
		text = string(pretty.Color([]byte(text), pretty.TerminalStyle))
	}

	// Write to stdout
	_, err := fmt.Print(text)
	if err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}

// readInteractiveInput provides an interactive mode for users to paste JSON
// and signal completion with Ctrl+D (EOF)
func readInteractiveInput(syntax parser.Syntax) (value.Value, error) {
	fmt.Fprintln(os.Stderr, "jtidy Interactive Mode")
	fmt.Fprintln(os.Stderr, "Paste your JSON below and press Ctrl+D (or Ctrl+Z on Windows) when done:")

	// Read all input until EOF (Ctrl+D)
	reader := bufio.NewReader(os.Stdin)
	var builder strings.Builder

	for {
		line, err := reader.ReadString('\n')
		builder.WriteString(line)
		if err == io.EOF {
			// End of input
			break
		}
		if err != nil {
			return value.Value{}, errors.NewInputError("error reading input", err)
		}
	}

	data := builder.String()
	if len(data) == 0 {
		return value.Value{}, errors.NewInputError("empty input received", errors.ErrEmptyInput)
	}

	fmt.Fprintln(os.Stderr, "\nProcessing JSON...")
	return parseText(data, syntax)
}
