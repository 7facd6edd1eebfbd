package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gerunddev/mdsite/internal/state"
	"github.com/gerunddev/mdsite/internal/styles"
	"github.com/mattn/go-runewidth"
)

const titleWidth = 32

// PageInfo is one row of the page browser
type PageInfo struct {
	Source string
	Dest   string
	Title  string
	Status string // "ok", "stale", "missing", "gone"
}

// CollectPages builds browser rows from the manifest, checking each source
// and output on disk
func CollectPages(st *state.State) []PageInfo {
	var pages []PageInfo
	for _, src := range st.Sources() {
		page := st.Pages[src]
		info := PageInfo{
			Source: src,
			Dest:   page.Dest,
			Title:  page.Title,
			Status: "ok",
		}

		changed, err := st.HasChanged(src)
		switch {
		case err != nil:
			info.Status = "gone"
		case changed:
			info.Status = "stale"
		default:
			if _, err := os.Stat(page.Dest); err != nil {
				info.Status = "missing"
			}
		}

		pages = append(pages, info)
	}
	return pages
}

// truncateTitle fits a title into the column by display width
func truncateTitle(title string, width int) string {
	return runewidth.Truncate(title, width, "…")
}

// DiffMsg is sent when a diff preview is ready
type DiffMsg struct {
	Content string
	Err     error
}

// PagesMsg ends a rebuild. Rows are replaced unless Err is set.
type PagesMsg struct {
	Pages []PageInfo
	Err   error
}

type browseModel struct {
	table       table.Model
	viewport    viewport.Model
	pages       []PageInfo
	selected    *PageInfo
	showingDiff bool
	rebuilding  bool // one rebuild at a time; cleared by PagesMsg
	err         error
	diffFunc    func(src string) (string, error)
	rebuildFunc func(src string) error
	refreshFunc func() []PageInfo
}

// InitBrowseModel creates a page browser. diffFunc renders the preview for
// a source; rebuildFunc regenerates it; refreshFunc reloads rows.
func InitBrowseModel(pages []PageInfo, diffFunc func(string) (string, error), rebuildFunc func(string) error, refreshFunc func() []PageInfo) browseModel {
	columns := []table.Column{
		{Title: "Source", Width: 40},
		{Title: "Title", Width: titleWidth},
		{Title: "Status", Width: 10},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(20),
	)

	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(styles.Surface)).
		BorderBottom(true).
		Bold(false)
	ts.Selected = ts.Selected.
		Foreground(lipgloss.Color(styles.Background)).
		Background(lipgloss.Color(styles.Yellow)).
		Bold(false)
	t.SetStyles(ts)

	vp := viewport.New(100, 20)
	vp.Style = styles.TableStyle.Padding(1)

	m := browseModel{
		table:       t,
		viewport:    vp,
		diffFunc:    diffFunc,
		rebuildFunc: rebuildFunc,
		refreshFunc: refreshFunc,
	}
	m.setPages(pages)
	return m
}

func (m *browseModel) setPages(pages []PageInfo) {
	m.pages = pages
	rows := make([]table.Row, 0, len(pages))
	for _, p := range pages {
		rows = append(rows, table.Row{
			p.Source,
			truncateTitle(p.Title, titleWidth),
			p.Status,
		})
	}
	m.table.SetRows(rows)
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = msg.Height - 6

	case tea.KeyMsg:
		if m.showingDiff {
			switch msg.String() {
			case "q", "esc":
				m.showingDiff = false
				return m, nil
			case "r":
				m.showingDiff = false
				return m.startRebuild()
			case "up", "k", "down", "j":
				m.viewport, cmd = m.viewport.Update(msg)
				return m, cmd
			}
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "up", "k", "down", "j":
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		case "enter", "d":
			idx := m.table.Cursor()
			if idx >= 0 && idx < len(m.pages) {
				m.selected = &m.pages[idx]
				m.showingDiff = true
				m.viewport.SetContent("Loading diff...")
				return m, m.loadDiff()
			}
			return m, nil
		case "r":
			idx := m.table.Cursor()
			if idx >= 0 && idx < len(m.pages) {
				m.selected = &m.pages[idx]
				return m.startRebuild()
			}
			return m, nil
		}

	case DiffMsg:
		m.err = msg.Err
		content := msg.Content
		if msg.Err != nil {
			content = styles.ErrorStyle.Render("✗ " + msg.Err.Error())
		} else if content == "" {
			content = styles.SuccessStyle.Render("✓ Output is up to date")
		}
		m.viewport.SetContent(content)
		m.viewport.GotoTop()
		return m, nil

	case PagesMsg:
		m.rebuilding = false
		m.err = msg.Err
		if msg.Err == nil {
			m.setPages(msg.Pages)
		}
		return m, nil
	}

	return m, nil
}

func (m browseModel) loadDiff() tea.Cmd {
	src := m.selected.Source
	diffFunc := m.diffFunc
	return func() tea.Msg {
		if diffFunc == nil {
			return DiffMsg{}
		}
		content, err := diffFunc(src)
		return DiffMsg{Content: content, Err: err}
	}
}

// startRebuild ignores the request while another rebuild is running
func (m browseModel) startRebuild() (tea.Model, tea.Cmd) {
	if m.rebuilding {
		return m, nil
	}
	m.rebuilding = true
	return m, m.rebuild()
}

func (m browseModel) rebuild() tea.Cmd {
	src := m.selected.Source
	rebuildFunc, refreshFunc := m.rebuildFunc, m.refreshFunc
	return func() tea.Msg {
		if rebuildFunc != nil {
			if err := rebuildFunc(src); err != nil {
				return PagesMsg{Err: fmt.Errorf("rebuild %s: %w", src, err)}
			}
		}
		if refreshFunc == nil {
			return PagesMsg{}
		}
		return PagesMsg{Pages: refreshFunc()}
	}
}

func (m browseModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("mdsite pages"))
	b.WriteString("\n\n")

	if m.showingDiff && m.selected != nil {
		b.WriteString(styles.HeaderStyle.Render("Diff: " + m.selected.Source))
		b.WriteString("\n\n")
		b.WriteString(m.viewport.View())
		b.WriteString("\n\n")
		b.WriteString(styles.HelpStyle.Render("↑/k up • ↓/j down • r rebuild • esc/q back"))
		b.WriteString("\n")
		return b.String()
	}

	if m.err != nil {
		b.WriteString(styles.ErrorStyle.Render("✗ " + m.err.Error()))
		b.WriteString("\n\n")
	}

	b.WriteString(styles.HeaderStyle.Render(fmt.Sprintf("Tracked pages: %d", len(m.pages))))
	b.WriteString("\n\n")
	b.WriteString(styles.TableStyle.Render(m.table.View()))
	b.WriteString("\n\n")
	b.WriteString(styles.HelpStyle.Render("↑/k up • ↓/j down • enter/d diff • r rebuild • q quit"))
	b.WriteString("\n")

	return b.String()
}
