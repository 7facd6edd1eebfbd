package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/gerunddev/mdsite/internal/site"
	"github.com/gerunddev/mdsite/internal/styles"
)

// BuildMsg is sent when a build finishes. Result may be set even when Err
// is, since page failures do not stop the build.
type BuildMsg struct {
	Result *site.Result
	Err    error
}

// buildModel is the Bubble Tea model for the build progress display
type buildModel struct {
	spinner  spinner.Model
	status   string
	complete bool
	result   *site.Result
	err      error
}

// InitBuildModel creates a new build progress model
func InitBuildModel(status string) buildModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.SpinnerStyle

	return buildModel{
		spinner: s,
		status:  status,
	}
}

func (m buildModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m buildModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}

	case BuildMsg:
		m.complete = true
		m.result = msg.Result
		m.err = msg.Err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m buildModel) View() string {
	if !m.complete {
		return fmt.Sprintf("\n%s %s\n\n", m.spinner.View(), m.status)
	}

	if m.result == nil {
		if m.err == nil {
			return styles.DimStyle.Render("Build cancelled") + "\n"
		}
		return styles.ErrorStyle.Render("✗ Build failed: "+m.err.Error()) + "\n"
	}

	r := m.result
	took := styles.HelpStyle.Render(fmt.Sprintf("Completed in %v", r.EndTime.Sub(r.StartTime).Round(time.Millisecond)))

	if len(r.Generated) == 0 && len(r.Errors) == 0 {
		return styles.SuccessStyle.Render("✓ Nothing to build") + "\n" + took + "\n"
	}

	out := styles.SuccessStyle.Render(fmt.Sprintf("✓ Generated %d page(s)", len(r.Generated)))
	if r.StaticFiles > 0 {
		out += ", " + styles.DimStyle.Render(fmt.Sprintf("%d static file(s)", r.StaticFiles))
	}
	if len(r.Errors) > 0 {
		out += ", " + styles.ErrorStyle.Render(fmt.Sprintf("%d error(s)", len(r.Errors)))
		for _, e := range r.Errors {
			out += "\n  " + styles.ErrorStyle.Render("✗ ") + styles.PathStyle.Render(e.Source) + " " + e.Err.Error()
		}
	}

	return out + "\n" + took + "\n"
}
