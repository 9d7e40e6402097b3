// Package format renders an engine.Result for the terminal.
package format

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	glamourstyles "github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/germanamz/aicall/cmd/aicall/internal/styles"
	"github.com/germanamz/aicall/pkg/engine"
	"github.com/mattn/go-runewidth"
)

// Mode selects how a Result is written.
type Mode string

const (
	Raw    Mode = "raw"    // response text only
	JSON   Mode = "json"   // the full Result, indented
	Pretty Mode = "pretty" // labelled block for humans
)

// ParseMode accepts raw, json or pretty, case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case Raw, JSON, Pretty:
		return m, nil
	case "":
		return Pretty, nil
	default:
		return "", fmt.Errorf("unknown output mode %q (want raw, json or pretty)", s)
	}
}

// Options tune pretty output.
type Options struct {
	Markdown bool // Render the response as markdown with glamour.
	DarkBG   bool // Terminal background is dark.
	Width    int  // Wrap width; zero means 100.
}

// ErrNoResponse is returned by Write in raw mode when the result carries no
// response text.
var ErrNoResponse = errors.New("no response")

// Write renders res to w in the given mode.
func Write(w io.Writer, res engine.Result, mode Mode, opts Options) error {
	switch mode {
	case Raw:
		if !res.OK() {
			return fmt.Errorf("%w: %s", ErrNoResponse, res.Error)
		}
		_, err := fmt.Fprintln(w, *res.Response)
		return err
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	default:
		_, err := io.WriteString(w, RenderPretty(res, opts)+"\n")
		return err
	}
}

// RenderPretty returns the human-readable block for res.
func RenderPretty(res engine.Result, opts Options) string {
	width := opts.Width
	if width <= 0 {
		width = 100
	}

	var sb strings.Builder

	header := styles.HeaderStyle.Render(res.Provider) + styles.DimStyle.Render(" · "+res.Model)
	sb.WriteString(header)
	sb.WriteString("\n")
	sb.WriteString(row("prompt", Truncate(res.Prompt, width-12)))

	if !res.OK() {
		sb.WriteString(styles.ErrorBlockStyle.Render(res.Error))
		return sb.String()
	}

	text := *res.Response
	if opts.Markdown {
		text = RenderMarkdown(text, width, opts.DarkBG)
	}
	sb.WriteString(styles.ResponseBlockStyle.Width(width).Render(text))
	sb.WriteString("\n")

	meta := []string{res.Timestamp.Format(time.RFC3339)}
	if res.Duration > 0 {
		meta = append(meta, FmtDuration(res.Duration))
	}
	if res.Usage != nil {
		meta = append(meta, fmt.Sprintf("%s in / %s out tokens",
			FmtTokens(res.Usage.InputTokens), FmtTokens(res.Usage.OutputTokens)))
	}
	sb.WriteString(styles.DimStyle.Render(styles.TreeCorner + strings.Join(meta, " · ")))

	return sb.String()
}

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		styles.LabelStyle.Render(runewidth.FillRight(label, 8)),
		styles.ValueStyle.Render(value),
	) + "\n"
}

// RenderMarkdown converts markdown to terminal output. On renderer failure the
// text is returned unchanged.
func RenderMarkdown(text string, width int, dark bool) string {
	style := glamourstyles.LightStyleConfig
	if dark {
		style = glamourstyles.DarkStyleConfig
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return text
	}

	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.Trim(out, "\n")
}

// Truncate shortens s to at most width display cells, appending "…" when
// cut. Newlines become spaces for single-line display.
func Truncate(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

// FmtTokens formats a token count for display, using k/M suffixes.
func FmtTokens(n int) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fk", float64(n)/1_000)
	default:
		return fmt.Sprintf("%d", n)
	}
}

// FmtDuration formats a duration for display.
func FmtDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
}
