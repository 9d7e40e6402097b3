package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/germanamz/aicall/cmd/aicall/internal/format"
	"github.com/germanamz/aicall/cmd/aicall/internal/progress"
	"github.com/germanamz/aicall/pkg/engine"
	"github.com/spf13/cobra"
)

// maxPromptBytes caps how much of stdin is read as a prompt.
const maxPromptBytes = 4 << 20

type outcome struct {
	res engine.Result
	err error
}

func (a *app) runGenerate(cmd *cobra.Command, args []string) error {
	mode, err := a.outputMode()
	if err != nil {
		return usageError{err}
	}

	prompt, err := a.readPrompt(args)
	if err != nil {
		return err
	}

	temperature := a.v.GetFloat64("temperature")
	p := engine.Params{
		Provider:     a.v.GetString("provider"),
		APIKey:       a.v.GetString("api-key"),
		Prompt:       prompt,
		SystemPrompt: a.v.GetString("system-prompt"),
		Model:        a.v.GetString("model"),
		MaxTokens:    a.v.GetInt("max-tokens"),
		Temperature:  &temperature,
		Endpoint:     a.v.GetString("endpoint"),
		ConfigFile:   a.v.GetString("config"),
	}

	eng := a.engine()
	invoke := func(ctx context.Context) outcome {
		res, err := eng.Invoke(ctx, p)
		return outcome{res: res, err: err}
	}

	var o outcome
	if a.showSpinner() {
		o = progress.Run(cmd.Context(), a.errOut, "Waiting for "+p.Provider+"…", invoke)
	} else {
		o = invoke(cmd.Context())
	}
	if o.err != nil {
		return o.err
	}

	if err := format.Write(a.out, o.res, mode, a.formatOptions()); err != nil {
		if errors.Is(err, format.ErrNoResponse) {
			fmt.Fprintf(a.errOut, "error: %s\n", o.res.Error)
			return errReported
		}
		return err
	}

	if !o.res.OK() {
		return errReported
	}
	return nil
}

func (a *app) outputMode() (format.Mode, error) {
	switch {
	case a.v.GetBool("raw") && a.v.GetBool("json"):
		return "", errors.New("--raw and --json are mutually exclusive")
	case a.v.GetBool("raw"):
		return format.Raw, nil
	case a.v.GetBool("json"):
		return format.JSON, nil
	default:
		return format.ParseMode(a.v.GetString("output"))
	}
}

// readPrompt takes the prompt from --prompt, then the positional argument.
// "-" reads stdin, as does an absent prompt when stdin is piped.
func (a *app) readPrompt(args []string) (string, error) {
	prompt := a.v.GetString("prompt")
	if prompt == "" && len(args) > 0 {
		prompt = args[0]
	}

	if prompt != "-" && (prompt != "" || !isPiped(a.in)) {
		return prompt, nil
	}

	data, err := io.ReadAll(io.LimitReader(a.in, maxPromptBytes))
	if err != nil {
		return "", fmt.Errorf("read prompt from stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

func isPiped(in io.Reader) bool {
	if in == nil {
		return false
	}
	f, ok := in.(*os.File)
	if !ok {
		return true
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice == 0
}

func (a *app) showSpinner() bool {
	return !a.v.GetBool("verbose") && isTerminal(a.errOut)
}

func (a *app) formatOptions() format.Options {
	if !isTerminal(a.out) {
		return format.Options{}
	}
	return format.Options{
		Markdown: true,
		DarkBG:   lipgloss.HasDarkBackground(),
	}
}
