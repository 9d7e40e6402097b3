package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/germanamz/aicall/pkg/engine"
	"github.com/germanamz/aicall/pkg/redact"
	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

// errReported signals a failure whose message has already been written.
var errReported = errors.New("reported")

// usageError marks bad flags and arguments so they exit with status 2.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

// app carries the streams and settings shared by every command.
type app struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	v      *viper.Viper
	log    *slog.Logger
}

func newApp(in io.Reader, out, errOut io.Writer) *app {
	v := viper.New()
	v.SetEnvPrefix("AICALL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return &app{
		in:     in,
		out:    out,
		errOut: errOut,
		v:      v,
		log:    slog.New(slog.DiscardHandler),
	}
}

// execute runs the command tree and maps the outcome to a process exit code:
// 0 on success, 2 for invalid parameters, 1 for everything else.
func execute(args []string, in io.Reader, out, errOut io.Writer) int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a := newApp(in, out, errOut)
	cmd := a.rootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	err := cmd.ExecuteContext(ctx)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errReported):
		return 1
	}

	fmt.Fprintf(errOut, "error: %v\n", err)

	var uerr usageError
	if errors.As(err, &uerr) || engine.IsPreflight(err) {
		return 2
	}
	return 1
}

func (a *app) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aicall [prompt]",
		Short: "Send one prompt to a hosted AI text API",
		Long: "aicall sends a single prompt to OpenAI, Anthropic, Google, Azure, Cohere or HuggingFace\n" +
			"and prints the generated text. API keys come from --api-key, the provider config file\n" +
			"or the provider's environment variable, in that order.",
		Example: "  aicall -P openai \"Summarize RFC 2616 in one line\"\n" +
			"  git diff | aicall -P anthropic -s \"Review this diff\" -p -\n" +
			"  aicall -P azure -e https://x.openai.azure.com/openai/deployments/{model}/chat/completions?api-version=2024-02-01 --json hi",
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
		RunE: a.runGenerate,
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	pf := cmd.PersistentFlags()
	pf.String("env", ".env", "path to .env file (ignored if missing)")
	pf.StringP("config", "c", defaultConfigPath(), "provider config file (JSON or YAML)")
	pf.Bool("strict-config", false, "fail when the config file cannot be parsed instead of ignoring it")
	pf.BoolP("verbose", "v", false, "log request details to stderr")

	f := cmd.Flags()
	f.StringP("provider", "P", "", "provider: OpenAI, Anthropic, Google, Azure, Cohere or HuggingFace")
	f.StringP("api-key", "k", "", "API key (overrides config file and environment)")
	f.StringP("prompt", "p", "", "prompt text, or - to read stdin")
	f.StringP("system-prompt", "s", "", "instructions sent ahead of the prompt")
	f.StringP("model", "m", "", "model name (default depends on provider)")
	f.Int("max-tokens", engine.DefaultMaxTokens, "maximum output tokens")
	f.Float64P("temperature", "t", engine.DefaultTemperature, "sampling temperature between 0 and 2")
	f.StringP("endpoint", "e", "", "endpoint URL; {model} is replaced with the model name")
	f.StringP("output", "o", "pretty", "output mode: raw, json or pretty")
	f.Bool("raw", false, "print only the response text (same as -o raw)")
	f.Bool("json", false, "print the full result as JSON (same as -o json)")

	a.bindFlags(pf)
	a.bindFlags(f)

	cmd.AddCommand(a.initCmd(), a.providersCmd(), a.mcpCmd())

	return cmd
}

func (a *app) bindFlags(fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		_ = a.v.BindPFlag(f.Name, f)
	})
}

// setup loads the .env file and builds the logger. It runs before every
// command so the environment snapshot sees variables from the file.
func (a *app) setup() error {
	if err := loadDotEnv(a.v.GetString("env")); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}

	level := slog.LevelWarn
	if a.v.GetBool("verbose") {
		level = slog.LevelDebug
	}
	a.log = slog.New(redact.NewHandler(slog.NewTextHandler(a.errOut, &slog.HandlerOptions{Level: level})))

	return nil
}

func (a *app) engine() *engine.Engine {
	return engine.New(
		engine.WithEnv(engine.EnvFromOS()),
		engine.WithLogger(a.log),
		engine.WithStrictConfig(a.v.GetBool("strict-config")),
	)
}

func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// defaultConfigPath is where `aicall init` writes and where the root command
// looks when --config is not given.
func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "aicall", "providers.json")
}

func isTerminal(w any) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
