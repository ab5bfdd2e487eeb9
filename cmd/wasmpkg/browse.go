package main

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/wippyai/wasmpkg/container"
	"github.com/wippyai/wasmpkg/loader"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	kindStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// hexPreviewLimit caps how much of a binary entry is dumped.
const hexPreviewLimit = 16 << 10

const listWidth = 36

type browseModel struct {
	err      error
	pkg      *loader.Package
	opts     openOptions
	filename string
	files    []string
	preview  viewport.Model
	selected int
	offset   int
	height   int
	ready    bool
}

type packageLoadedMsg struct {
	err error
	pkg *loader.Package
}

func newBrowseModel(filename string, opts openOptions) *browseModel {
	return &browseModel{filename: filename, opts: opts}
}

func (m *browseModel) Init() tea.Cmd {
	return m.loadPackage
}

func (m *browseModel) loadPackage() tea.Msg {
	pkg, err := m.opts.open(context.Background(), m.filename)
	return packageLoadedMsg{pkg: pkg, err: err}
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.pkg != nil {
				m.pkg.Close(context.Background())
			}
			return m, tea.Quit

		case "up", "k":
			if m.selected > 0 {
				m.selected--
				m.showSelected()
			}
			return m, nil

		case "down", "j":
			if m.selected < len(m.files)-1 {
				m.selected++
				m.showSelected()
			}
			return m, nil

		case "home", "g":
			m.selected = 0
			m.showSelected()
			return m, nil

		case "end", "G":
			m.selected = max(len(m.files)-1, 0)
			m.showSelected()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.height = max(msg.Height-4, 1)
		width := max(msg.Width-listWidth-2, 10)
		if !m.ready {
			m.preview = viewport.New(width, m.height)
			m.ready = true
		} else {
			m.preview.Width = width
			m.preview.Height = m.height
		}
		m.showSelected()
		return m, nil

	case packageLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.pkg = msg.pkg
		m.files = msg.pkg.Files()
		m.showSelected()
		return m, nil
	}

	if m.ready {
		var cmd tea.Cmd
		m.preview, cmd = m.preview.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *browseModel) showSelected() {
	if !m.ready || m.pkg == nil || len(m.files) == 0 {
		return
	}
	if m.selected < m.offset {
		m.offset = m.selected
	}
	if m.selected >= m.offset+m.height {
		m.offset = m.selected - m.height + 1
	}
	m.preview.SetContent(previewEntry(m.pkg.Package, m.files[m.selected]))
	m.preview.GotoTop()
}

// previewEntry renders text entries as-is and binary entries as a hex dump.
func previewEntry(pkg *container.Package, name string) string {
	v, err := pkg.Read(name)
	if err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", err))
	}
	switch v := v.(type) {
	case string:
		return v
	case []byte:
		if len(v) <= hexPreviewLimit {
			return hex.Dump(v)
		}
		return hex.Dump(v[:hexPreviewLimit]) +
			helpStyle.Render(fmt.Sprintf("... %s more", humanize.IBytes(uint64(len(v)-hexPreviewLimit))))
	}
	return ""
}

func (m *browseModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}
	if m.pkg == nil || !m.ready {
		return "Loading package..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("wasmpkg"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString(helpStyle.Render(fmt.Sprintf("  %d files via %s", len(m.files), m.pkg.Strategy())))
	b.WriteString("\n\n")

	var list strings.Builder
	end := min(m.offset+m.height, len(m.files))
	for i := m.offset; i < end; i++ {
		list.WriteString(m.formatEntry(i))
		list.WriteString("\n")
	}

	left := lipgloss.NewStyle().Width(listWidth).Render(list.String())
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", m.preview.View()))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ select • pgup/pgdn scroll • q quit"))
	return b.String()
}

func (m *browseModel) formatEntry(i int) string {
	name := m.files[i]
	e, _ := m.pkg.Entry(name)
	label := truncate(name, listWidth-12)
	if i == m.selected {
		return selectedStyle.Render(fmt.Sprintf("> %-*s %-6s", listWidth-12, label, e.Kind))
	}
	return fmt.Sprintf("  %s %s", nameStyle.Render(fmt.Sprintf("%-*s", listWidth-12, label)), kindStyle.Render(e.Kind.String()))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func runBrowse(ctx context.Context, args []string) error {
	var open openOptions
	fs := pflag.NewFlagSet("browse", pflag.ContinueOnError)
	open.addFlags(fs)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: wasmpkg browse [flags] <artifact>")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("expected one artifact, got %d arguments", fs.NArg())
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("browse needs a terminal; use 'wasmpkg ls' instead")
	}

	p := tea.NewProgram(newBrowseModel(fs.Arg(0), open), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
