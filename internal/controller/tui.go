package controller

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	m "scriptprep.dev/pkg/scriptprep/internal/model"
)

const (
	listTitle = "Script classes"
	// chromeHeight is the number of lines around the viewport (title + footer).
	chromeHeight = 2
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	pathStyle   = lipgloss.NewStyle().Bold(true)
	fieldStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	addStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	footerStyle = lipgloss.NewStyle().Faint(true)
)

// TUI implements UI with lipgloss styling and a Bubble Tea pager for long lists.
type TUI struct {
	cmd *cobra.Command
	// height overrides terminal detection when positive.
	height int
}

// NewTUI creates a new TUI.
func NewTUI(cmd *cobra.Command) *TUI {
	return &TUI{cmd: cmd}
}

func (p *TUI) out() io.Writer {
	return p.cmd.OutOrStdout()
}

func (p *TUI) terminalHeight() int {
	if p.height > 0 {
		return p.height
	}

	f, ok := p.out().(*os.File)
	if !ok {
		return 0
	}

	_, height, err := term.GetSize(f.Fd())
	if err != nil {
		return 0
	}

	return height
}

// DisplayScripts shows the classes found per file. Lists taller than the
// terminal open in a scrollable pager.
func (p *TUI) DisplayScripts(ctx context.Context, results []m.FileResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	content := renderScriptList(results)

	height := p.terminalHeight()
	if height <= 0 || strings.Count(content, "\n")+chromeHeight <= height {
		_, err := fmt.Fprint(p.out(), titleStyle.Render(listTitle)+"\n"+content)
		return err
	}

	program := tea.NewProgram(newScriptListModel(content), tea.WithOutput(p.out()), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return err
	}

	return nil
}

func renderScriptList(results []m.FileResult) string {
	var b strings.Builder

	for _, result := range results {
		fmt.Fprintf(&b, "%s (%d)\n", pathStyle.Render(sourcePath(result)), len(result.Classes))

		for _, class := range result.Classes {
			fmt.Fprintf(&b, "  %s  line %d\n", displayName(class.Name), class.Line)

			for _, field := range class.Fields {
				fmt.Fprintf(&b, "    %s\n", fieldStyle.Render(field.Type+" "+field.Name))
			}
		}

		for _, dropped := range result.Dropped {
			fmt.Fprintf(&b, "  %s\n", warnStyle.Render(fmt.Sprintf("%s  line %d  unbalanced braces, dropped", displayName(dropped.Name), dropped.Line)))
		}
	}

	classes, fields, dropped := totals(results)
	fmt.Fprintf(&b, "\n%d file(s), %d class(es), %d field(s), %d dropped\n", len(results), classes, fields, dropped)

	return b.String()
}

// DisplayManifest prints the manifest as YAML.
func (p *TUI) DisplayManifest(ctx context.Context, manifest m.Manifest) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	encoder := yaml.NewEncoder(p.out())
	encoder.SetIndent(2)

	if err := encoder.Encode(manifest); err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}

	return encoder.Close()
}

// DisplaySummary prints the outcome of a generation run.
func (p *TUI) DisplaySummary(ctx context.Context, summary m.Summary) {
	if err := ctx.Err(); err != nil {
		return
	}

	_, _ = fmt.Fprintf(p.out(), "%s %s\n", addStyle.Render("✓"), pathStyle.Render(string(summary.Output)))
	_, _ = fmt.Fprintf(p.out(), "  %d file(s)  %d class(es)  %d field(s)  %d line(s)\n",
		summary.Files, summary.Classes, summary.Fields, summary.Lines)

	if summary.Dropped > 0 {
		_, _ = fmt.Fprintf(p.out(), "  %s\n", warnStyle.Render(fmt.Sprintf("%d class(es) dropped: unbalanced braces", summary.Dropped)))
	}
}

// DisplayDiff prints a colored unified diff.
func (p *TUI) DisplayDiff(ctx context.Context, output m.Path, diff string) {
	if err := ctx.Err(); err != nil {
		return
	}

	if diff == "" {
		_, _ = fmt.Fprintf(p.out(), "%s %s is up to date\n", addStyle.Render("✓"), output)
		return
	}

	_, _ = fmt.Fprintf(p.out(), "%s\n", warnStyle.Render(string(output)+" is out of date"))

	for _, line := range strings.SplitAfter(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			_, _ = fmt.Fprint(p.out(), pathStyle.Render(strings.TrimSuffix(line, "\n"))+"\n")
		case strings.HasPrefix(line, "+"):
			_, _ = fmt.Fprint(p.out(), addStyle.Render(strings.TrimSuffix(line, "\n"))+"\n")
		case strings.HasPrefix(line, "-"):
			_, _ = fmt.Fprint(p.out(), errorStyle.Render(strings.TrimSuffix(line, "\n"))+"\n")
		default:
			_, _ = fmt.Fprint(p.out(), line)
		}
	}
}

// DisplayError prints a non-fatal error.
func (p *TUI) DisplayError(ctx context.Context, err error) {
	if ctx.Err() != nil || err == nil {
		return
	}

	_, _ = fmt.Fprintln(p.cmd.ErrOrStderr(), errorStyle.Render("✗ "+err.Error()))
}

// scriptListModel is the Bubble Tea pager used for long script lists.
type scriptListModel struct {
	content  string
	viewport viewport.Model
	ready    bool
	quitting bool
}

func newScriptListModel(content string) scriptListModel {
	return scriptListModel{content: content}
}

func (s scriptListModel) Init() tea.Cmd {
	return nil
}

func (s scriptListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			s.quitting = true
			return s, tea.Quit
		}
	case tea.WindowSizeMsg:
		height := max(msg.Height-chromeHeight, 1)

		if !s.ready {
			s.viewport = viewport.New(msg.Width, height)
			s.viewport.SetContent(s.content)
			s.ready = true
		} else {
			s.viewport.Width = msg.Width
			s.viewport.Height = height
		}
	}

	if !s.ready {
		return s, nil
	}

	var cmd tea.Cmd
	s.viewport, cmd = s.viewport.Update(msg)

	return s, cmd
}

func (s scriptListModel) View() string {
	if s.quitting {
		return ""
	}

	if !s.ready {
		return "Loading scripts..."
	}

	footer := footerStyle.Render(fmt.Sprintf("↑/↓ scroll • q quit • %3.f%%", s.viewport.ScrollPercent()*100))

	return titleStyle.Render(listTitle) + "\n" + s.viewport.View() + "\n" + footer
}
