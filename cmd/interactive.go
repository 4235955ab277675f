package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Beastly713/lsbtext/pkg/pipeline"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// Styles
var (
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")) // Green
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	docStyle     = lipgloss.NewStyle().Margin(1, 2)
)

var imageExts = map[string]bool{
	".png": true, ".bmp": true, ".tif": true, ".tiff": true,
	".gif": true, ".jpg": true, ".jpeg": true, ".webp": true,
}

type fileItem struct {
	path  string
	name  string
	isDir bool
}

type model struct {
	path      string
	files     []fileItem
	cursor    int
	status    string
	failed    bool
	result    string
	textInput textinput.Model
	composing bool
	quitting  bool
	config    pipeline.PipelineConfig
}

func initialModel(dir string, config pipeline.PipelineConfig) model {
	ti := textinput.New()
	ti.Placeholder = "message to hide"
	ti.CharLimit = 0

	m := model{
		path:      dir,
		textInput: ti,
		config:    config,
		status:    "↑/↓ move | enter: open dir | e: encode | d: decode | c: capacity | q: quit",
	}
	m.loadFiles()
	return m
}

func (m *model) loadFiles() {
	entries, err := os.ReadDir(m.path)
	if err != nil {
		m.setError(fmt.Errorf("reading directory: %w", err))
		return
	}

	m.files = []fileItem{{name: "..", isDir: true, path: filepath.Dir(m.path)}}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || imageExts[strings.ToLower(filepath.Ext(name))] {
			m.files = append(m.files, fileItem{
				name:  name,
				isDir: e.IsDir(),
				path:  filepath.Join(m.path, name),
			})
		}
	}
	m.cursor = 0
}

func (m *model) setError(err error) {
	m.status = err.Error()
	m.failed = true
}

func (m model) selected() (fileItem, bool) {
	if m.cursor < 0 || m.cursor >= len(m.files) {
		return fileItem{}, false
	}
	f := m.files[m.cursor]
	return f, !f.isDir
}

func (m model) Init() tea.Cmd {
	return nil
}

// resultMsg carries the outcome of a pipeline run back into Update.
type resultMsg struct {
	status string
	result string
	err    error
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.composing {
			return m.updateComposing(msg)
		}
		return m.updateBrowsing(msg)

	case resultMsg:
		m.result = msg.result
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.status = msg.status
		m.failed = false
		m.loadFiles()
	}
	return m, nil
}

func (m model) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.files)-1 {
			m.cursor++
		}

	case "enter":
		if m.cursor < len(m.files) && m.files[m.cursor].isDir {
			m.path = m.files[m.cursor].path
			m.loadFiles()
		}

	case "e":
		if _, ok := m.selected(); ok {
			m.composing = true
			m.textInput.Reset()
			return m, m.textInput.Focus()
		}

	case "d":
		if f, ok := m.selected(); ok {
			return m, decodeFile(f.path, m.config)
		}

	case "c":
		if f, ok := m.selected(); ok {
			return m, capacityOf(f.path, m.config)
		}
	}
	return m, nil
}

func (m model) updateComposing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.composing = false
		m.textInput.Blur()
		return m, nil

	case "enter":
		m.composing = false
		m.textInput.Blur()
		f, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m, encodeFile(f.path, m.textInput.Value(), m.config)
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func encodeFile(path, message string, config pipeline.PipelineConfig) tea.Cmd {
	return func() tea.Msg {
		result, err := pipeline.EncodePipeline(path, "", message, config)
		if err != nil {
			return resultMsg{err: err}
		}
		return resultMsg{status: fmt.Sprintf("Encoded into %s (%d of %d bits)",
			filepath.Base(result.Output), result.BitsUsed, result.Capacity)}
	}
}

func decodeFile(path string, config pipeline.PipelineConfig) tea.Cmd {
	return func() tea.Msg {
		message, err := pipeline.DecodePipeline(path, config)
		if err != nil {
			return resultMsg{err: err}
		}
		return resultMsg{status: "Decoded " + filepath.Base(path), result: message}
	}
}

func capacityOf(path string, config pipeline.PipelineConfig) tea.Cmd {
	return func() tea.Msg {
		report, err := pipeline.CapacityPipeline(path, config)
		if err != nil {
			return resultMsg{err: err}
		}
		return resultMsg{status: fmt.Sprintf("%s holds up to %d bytes (%d bit slots)",
			filepath.Base(path), report.MaxBytes, report.Bits)}
	}
}

func (m model) View() string {
	if m.quitting {
		return "Bye!\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Directory: %s\n\n", m.path)

	for i, file := range m.files {
		if m.cursor == i {
			b.WriteString(cursorStyle.Render(">"))
		} else {
			b.WriteString(" ")
		}

		if file.isDir {
			fmt.Fprintf(&b, " [DIR] %s\n", file.name)
		} else {
			fmt.Fprintf(&b, " %s\n", file.name)
		}
	}

	if m.composing {
		fmt.Fprintf(&b, "\nMessage: %s\n%s\n", m.textInput.View(), helpStyle.Render("enter: encode | esc: cancel"))
	}

	if m.result != "" {
		fmt.Fprintf(&b, "\nHidden message:\n%s\n", successStyle.Render(m.result))
	}

	status := helpStyle.Render(m.status)
	if m.failed {
		status = errorStyle.Render("Error: " + m.status)
	}
	fmt.Fprintf(&b, "\n%s\n", status)
	return docStyle.Render(b.String())
}

func newInteractiveCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "interactive [directory]",
		Short: "Terminal UI for browsing images and hiding or reading messages",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := g.options(cmd)
			if err != nil {
				return err
			}
			log, err := g.logger(cmd)
			if err != nil {
				return err
			}

			dir, err := os.Getwd()
			if err != nil {
				return err
			}
			if len(args) > 0 {
				if dir, err = filepath.Abs(args[0]); err != nil {
					return err
				}
			}

			m := initialModel(dir, pipeline.PipelineConfig{Options: opts, Logger: log})
			p := tea.NewProgram(m, tea.WithInput(cmd.InOrStdin()), tea.WithOutput(cmd.OutOrStdout()))
			if _, err := p.Run(); err != nil {
				return err
			}
			return nil
		},
	}
}
