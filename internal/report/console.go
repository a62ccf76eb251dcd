// Package report renders regression reports for terminal output.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fatih/color"

	"salesreg/internal/regression"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	infoColor    = color.New(color.FgCyan)
)

// Console writes styled reports to a terminal or any other writer. Styles
// are bound to the writer so piping to a file yields plain text.
type Console struct {
	out      io.Writer
	renderer *lipgloss.Renderer

	title   lipgloss.Style
	section lipgloss.Style
	key     lipgloss.Style
	value   lipgloss.Style
	box     lipgloss.Style
}

// NewConsole creates a console renderer for w
func NewConsole(w io.Writer) *Console {
	r := lipgloss.NewRenderer(w)
	return &Console{
		out:      w,
		renderer: r,
		title: r.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true).
			MarginBottom(1),
		section: r.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true).
			MarginTop(1),
		key:   r.NewStyle().Foreground(lipgloss.Color("245")),
		value: r.NewStyle().Foreground(lipgloss.Color("229")),
		box: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("42")).
			Padding(0, 1),
	}
}

// Render prints the full report: first record, sample observations,
// coefficients with the intercept, then the error metrics.
func (c *Console) Render(report *regression.Report) error {
	if report == nil {
		return fmt.Errorf("nothing to render")
	}

	var b strings.Builder
	heading := "Sales regression report"
	if report.RunID != "" {
		heading += " " + c.key.Render(report.RunID)
	}
	b.WriteString(c.title.Render(heading))
	b.WriteString("\n")

	b.WriteString(c.section.Render("First cleaned record"))
	b.WriteString("\n")
	for _, f := range report.Sample {
		fmt.Fprintf(&b, "  %s: %s\n", c.key.Render(f.Key), c.value.Render(f.Value))
	}

	b.WriteString(c.section.Render("Sample observations"))
	b.WriteString("\n")
	for _, obs := range report.Preview {
		fmt.Fprintf(&b, "  %s -> %s\n", formatVector(obs.Features), formatNumber(obs.Target))
	}

	b.WriteString(c.section.Render("Coefficients"))
	b.WriteString("\n")
	b.WriteString(c.coefficientTable(report))
	b.WriteString("\n")

	b.WriteString(c.box.Render(MetricsSummary(report)))
	b.WriteString("\n")

	_, err := io.WriteString(c.out, b.String())
	return err
}

func (c *Console) coefficientTable(report *regression.Report) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(c.key).
		Headers("feature", "weight")
	for i, w := range report.Coefficients {
		name := strconv.Itoa(i)
		if i < len(report.FeatureNames) {
			name = report.FeatureNames[i]
		}
		t.Row(name, formatNumber(w))
	}
	t.Row("intercept", formatNumber(report.Intercept))
	return t.String()
}

// MetricsSummary returns the error metrics and row counts as plain lines.
func MetricsSummary(report *regression.Report) string {
	lines := []string{
		"MSE:  " + formatNumber(report.MSE),
		"MAE:  " + formatNumber(report.MAE),
		"RMSE: " + formatNumber(report.RMSE),
		"R2:   " + formatNumber(report.R2),
		fmt.Sprintf("rows: %d of %d", report.Rows, report.RawRows),
	}
	return strings.Join(lines, "\n")
}

// Success prints a success line
func (c *Console) Success(format string, args ...interface{}) {
	successColor.Fprintf(c.out, "✓ %s\n", fmt.Sprintf(format, args...))
}

// Error prints an error line
func (c *Console) Error(format string, args ...interface{}) {
	errorColor.Fprintf(c.out, "✗ %s\n", fmt.Sprintf(format, args...))
}

// Info prints an informational line
func (c *Console) Info(format string, args ...interface{}) {
	infoColor.Fprintf(c.out, "ℹ %s\n", fmt.Sprintf(format, args...))
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', 8, 64)
}

func formatVector(v []float64) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = formatNumber(x)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
