package console

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"

	"github.com/dustin/go-humanize"

	"orquestra/internal/agents"
)

const (
	ruleWidth    = 74
	contentWidth = 71
	indent       = "   "
)

const (
	ansiReset   = "\033[0m"
	ansiBold    = "\033[1m"
	ansiDim     = "\033[2m"
	ansiRed     = "\033[31m"
	ansiGreen   = "\033[32m"
	ansiYellow  = "\033[33m"
	ansiBlue    = "\033[34m"
	ansiMagenta = "\033[35m"
	ansiCyan    = "\033[36m"
	ansiWhite   = "\033[37m"
)

type roleStyle struct {
	glyph string
	color string
}

var roleStyles = map[agents.AgentType]roleStyle{
	agents.AgentSupervisor:         {"🎯", ansiMagenta},
	agents.AgentFundamentalAnalyst: {"💰", ansiBlue},
	agents.AgentValuationAnalyst:   {"📊", ansiGreen},
	agents.AgentPriceAnalyst:       {"📈", ansiYellow},
	agents.AgentPortfolioManager:   {"👔", ansiRed},
}

// Compile-time check
var _ agents.TraceSink = (*Renderer)(nil)

// Renderer writes role-styled step panels to a terminal as the run
// progresses. It is presentation-only: it never fails the pipeline.
type Renderer struct {
	out   io.Writer
	color bool
}

// NewRenderer creates a console renderer. Disable color for dumb terminals
// or captured output.
func NewRenderer(out io.Writer, color bool) *Renderer {
	return &Renderer{out: out, color: color}
}

// Start prints the opening rule and the user query.
func (r *Renderer) Start(query string) {
	r.rule("🚀 Starting Analysis", ansiCyan)
	r.title("❓ User Query", ansiBold+ansiWhite)
	r.content(query)
	fmt.Fprintln(r.out)
}

// OnStep implements agents.TraceSink.
func (r *Renderer) OnStep(event agents.StepEvent) {
	style, ok := roleStyles[event.Agent]
	if !ok {
		style = roleStyle{"💬", ansiWhite}
	}

	heading := fmt.Sprintf("%s %s", style.glyph, stepTitle(event))
	r.title(heading, ansiBold+style.color)

	if sub := stepSubtitle(event); sub != "" {
		fmt.Fprintf(r.out, "%s%s\n", indent, r.paint(sub, ansiDim))
	}

	r.content(event.Content)
	fmt.Fprintln(r.out)
}

// Summary prints the closing rule and the run statistics.
func (r *Renderer) Summary(result *agents.RunResult) {
	r.rule("✨ Analysis Complete", ansiCyan)

	in, out := result.InputTokens, result.OutputTokens
	rows := []struct {
		label string
		value string
	}{
		{"Duration", fmt.Sprintf("%v", result.Duration.Round(100*time.Millisecond))},
		{"Steps", fmt.Sprintf("%d", result.Steps)},
		{"Analysts", analystList(result)},
		{"Tokens", fmt.Sprintf("%s in / %s out", humanize.Comma(in), humanize.Comma(out))},
		{"Cost", fmt.Sprintf("$%.4f", result.CostUSD)},
		{"Errors", fmt.Sprintf("%d", result.ErrorCount)},
	}

	for _, row := range rows {
		fmt.Fprintf(r.out, "%s%s %s\n",
			indent,
			r.paint(fmt.Sprintf("%-10s", row.label), ansiBold+ansiCyan),
			row.value,
		)
	}
	fmt.Fprintln(r.out)
}

// Failure prints a terminal error panel.
func (r *Renderer) Failure(err error) {
	r.title("❌ Error", ansiBold+ansiRed)
	r.content(err.Error())
	fmt.Fprintln(r.out)
}

func (r *Renderer) rule(label string, color string) {
	pad := ruleWidth - len([]rune(label)) - 2
	if pad < 2 {
		pad = 2
	}
	left := strings.Repeat("─", pad/2)
	right := strings.Repeat("─", pad-pad/2)
	line := fmt.Sprintf("%s %s %s", left, label, right)
	fmt.Fprintln(r.out, r.paint(line, ansiBold+color))
}

func (r *Renderer) title(heading string, color string) {
	fmt.Fprintln(r.out, r.paint(heading, color))
}

func (r *Renderer) content(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	for _, line := range wrap(text, contentWidth) {
		fmt.Fprintf(r.out, "%s%s\n", indent, line)
	}
}

func (r *Renderer) paint(s string, color string) string {
	if !r.color {
		return s
	}
	return color + s + ansiReset
}

func stepTitle(event agents.StepEvent) string {
	switch event.Agent {
	case agents.AgentSupervisor:
		return "Supervisor Decision"
	case agents.AgentPortfolioManager:
		return "Final Analysis"
	default:
		title := titleCase(event.Agent.String()) + " Analysis"
		if event.Skipped {
			title += " (skipped)"
		}
		return title
	}
}

func stepSubtitle(event agents.StepEvent) string {
	if event.ToolCalls == 0 && event.FailedCalls == 0 {
		return ""
	}
	sub := fmt.Sprintf("tool calls: %d", event.ToolCalls)
	if event.FailedCalls > 0 {
		sub += fmt.Sprintf(" · failed: %d", event.FailedCalls)
	}
	if event.Duration > 0 {
		sub += fmt.Sprintf(" · %v", event.Duration.Round(100*time.Millisecond))
	}
	return sub
}

func analystList(result *agents.RunResult) string {
	if len(result.Selected) == 0 {
		return "none"
	}
	names := make([]string, len(result.Selected))
	for i, agent := range result.Selected {
		names[i] = agent.String()
	}
	return strings.Join(names, ", ")
}

// titleCase renders an agent name for display: "price_analyst" → "Price Analyst".
func titleCase(name string) string {
	words := strings.Split(name, "_")
	for i, word := range words {
		if word == "" {
			continue
		}
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// wrap splits text into lines at word boundaries, keeping existing newlines.
func wrap(text string, width int) []string {
	var lines []string
	for _, raw := range strings.Split(text, "\n") {
		raw = strings.TrimRight(raw, " \t")
		if len([]rune(raw)) <= width {
			lines = append(lines, raw)
			continue
		}

		var line strings.Builder
		lineLen := 0
		for _, word := range strings.Fields(raw) {
			wordLen := len([]rune(word))
			if lineLen > 0 && lineLen+1+wordLen > width {
				lines = append(lines, line.String())
				line.Reset()
				lineLen = 0
			}
			if lineLen > 0 {
				line.WriteByte(' ')
				lineLen++
			}
			line.WriteString(word)
			lineLen += wordLen
		}
		if line.Len() > 0 {
			lines = append(lines, line.String())
		}
	}
	return lines
}
