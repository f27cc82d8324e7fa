package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	json "github.com/goccy/go-json"

	"github.com/djdembeck/toon-format-skill/internal/analyzer"
	"github.com/djdembeck/toon-format-skill/internal/config"
	"github.com/djdembeck/toon-format-skill/internal/errors"
	"github.com/djdembeck/toon-format-skill/internal/models"
	"github.com/djdembeck/toon-format-skill/internal/parser"
	"github.com/djdembeck/toon-format-skill/internal/pipeline"
)

// CLI defines the command-line interface
var CLI struct {
	Input   string `help:"Path to input file. If not specified, reads from stdin." short:"i" type:"path"`
	Output  string `help:"Path to output file. If not specified, writes to stdout." short:"o" type:"path"`
	Analyze bool   `help:"Print the eligibility report for the input JSON instead of encoding it." short:"a"`
	Decode  bool   `help:"Treat the input as a raw model response and decode it back to JSON." short:"d"`
	Config  string `help:"Path to a config file. Defaults to the nearest .toonskill.yml." short:"c" type:"path"`

	MinTabularPercent  *float64 `help:"Override the minimum tabular percentage threshold (0-100)."`
	MaxNestedDepth     *int     `help:"Override the maximum nesting depth threshold."`
	MinUniformityScore *float64 `help:"Override the minimum uniformity score threshold (0-1)."`

	Verbose     bool `help:"Print the eligibility report and token metrics to stderr." short:"V"`
	Version     bool `help:"Show version information." short:"v"`
	Interactive bool `help:"Run in interactive mode, allowing direct input with Ctrl+D to process." short:"I"`
}

// Context holds the runtime context
type Context struct {
	Config *config.Config
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	kongParser := kong.Must(&CLI,
		kong.Name("toonskill"),
		kong.Description("Analyze JSON for TOON eligibility and manage the encode/decode round-trip"),
		kong.UsageOnError(),
	)

	// No arguments means interactive mode by default
	if len(os.Args) == 1 {
		CLI.Interactive = true
	}

	_, err := kongParser.Parse(os.Args[1:])
	if err != nil {
		// Usage is already shown by kong.UsageOnError()
		os.Exit(1)
	}

	if CLI.Version {
		fmt.Printf("toonskill version %s\n", Version)
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		os.Exit(1)
	}

	if err := run(&Context{Config: cfg}); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		fmt.Fprintf(os.Stderr, "\nFor help, run: toonskill --help\n")
		os.Exit(1)
	}
}

// loadConfig resolves defaults, the nearest config file, and CLI overrides
func loadConfig() (*config.Config, error) {
	path := CLI.Config
	if path == "" {
		path = config.FindConfigFile()
	}
	return config.LoadConfigWithCLI(path, config.ThresholdOverrides{
		MinTabularPercent:  CLI.MinTabularPercent,
		MaxNestedDepth:     CLI.MaxNestedDepth,
		MinUniformityScore: CLI.MinUniformityScore,
	})
}

// run executes the main program logic
func run(ctx *Context) error {
	content, err := readInput()
	if err != nil {
		return err
	}

	processor := pipeline.New(ctx.Config)

	if CLI.Decode {
		return runDecode(processor, content)
	}

	data, err := parser.ParseString(content)
	if err != nil {
		return err
	}

	if CLI.Analyze {
		report := analyzer.Decide(analyzer.Analyze(data), ctx.Config)
		return writeJSON(report)
	}

	return runEncode(processor, content, data)
}

// runEncode pre-processes the payload and emits the TOON text when the
// data is eligible, or the original JSON untouched when it is not.
func runEncode(processor *pipeline.Processor, original string, data models.JSONValue) error {
	processed, report, err := processor.PreProcess(models.PipelineRequest{Data: data})
	if err != nil {
		return err
	}

	if CLI.Verbose {
		fmt.Fprintf(os.Stderr, "eligibility: %s\n", report.Reason)
		if processed.Metrics != nil {
			m := processed.Metrics
			fmt.Fprintf(os.Stderr, "tokens: %d -> %d (%.1f%% saved)\n", m.Original, m.Toon, m.PercentSaved)
		}
	}

	if !processed.ToonProcessed {
		return writeOutput(strings.TrimSpace(original))
	}

	encoded, ok := processed.Data.(string)
	if !ok {
		return errors.NewOutputError("processed data is not text", nil)
	}
	return writeOutput(encoded)
}

// runDecode post-processes a raw model response and prints the full result,
// including the format that won and any informational error.
func runDecode(processor *pipeline.Processor, content string) error {
	result := processor.PostProcess(content)
	if CLI.Verbose && result.Err != "" {
		fmt.Fprintf(os.Stderr, "decode: %s\n", result.Err)
	}
	return writeJSON(result)
}

// writeJSON marshals a value with indentation and writes it out
func writeJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.NewOutputError("failed to serialize result as JSON", err)
	}
	return writeOutput(string(out))
}

// readInput reads raw content from file or stdin
func readInput() (string, error) {
	if CLI.Input != "" {
		data, err := os.ReadFile(CLI.Input)
		if err != nil {
			if os.IsNotExist(err) {
				return "", errors.NewInputError(
					fmt.Sprintf("file '%s' not found", CLI.Input),
					errors.ErrFileNotFound,
				)
			}
			return "", errors.NewInputError(fmt.Sprintf("failed to read file '%s'", CLI.Input), err)
		}
		if len(data) == 0 {
			return "", errors.NewInputError(
				fmt.Sprintf("input file '%s' is empty", CLI.Input),
				errors.ErrFileEmpty,
			)
		}
		return string(data), nil
	}

	stdinInfo, err := os.Stdin.Stat()
	if err != nil {
		return "", errors.NewInputError("failed to access stdin", err)
	}

	if (stdinInfo.Mode() & os.ModeCharDevice) != 0 {
		// Terminal is interactive (not piped)
		if CLI.Interactive {
			return readInteractiveInput()
		}
		return "", errors.NewInputError("no input provided", errors.ErrNoInput)
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", errors.NewInputError("failed to read from stdin", err)
	}
	if len(data) == 0 {
		return "", errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}
	return string(data), nil
}

// writeOutput writes text to file or stdout
func writeOutput(text string) error {
	if CLI.Output != "" {
		err := os.WriteFile(CLI.Output, []byte(text+"\n"), 0644)
		if err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", CLI.Output), err)
		}
		fmt.Fprintf(os.Stderr, "Output written to %s\n", CLI.Output)
		return nil
	}

	_, err := fmt.Println(text)
	if err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}

// readInteractiveInput provides an interactive mode for users to paste
// content and signal completion with Ctrl+D (EOF)
func readInteractiveInput() (string, error) {
	fmt.Fprintln(os.Stderr, "toonskill Interactive Mode")
	fmt.Fprintln(os.Stderr, "Paste your input below and press Ctrl+D (or Ctrl+Z on Windows) when done:")

	reader := bufio.NewReader(os.Stdin)
	var builder strings.Builder

	for {
		line, err := reader.ReadString('\n')
		if err == io.EOF {
			builder.WriteString(line)
			break
		}
		if err != nil {
			return "", errors.NewInputError("error reading input", err)
		}
		builder.WriteString(line)
	}

	content := builder.String()
	if len(content) == 0 {
		return "", errors.NewInputError("empty input received", errors.ErrEmptyInput)
	}

	fmt.Fprintln(os.Stderr, "\nProcessing input...")
	return content, nil
}
