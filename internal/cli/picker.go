package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// fileEntry is one candidate input.
type fileEntry struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// FileListModel is the bubbletea model for picking an input file.
type FileListModel struct {
	Files    []fileEntry
	Cursor   int
	Offset   int
	Height   int
	Selected string
}

// NewFileListModel creates a picker over paths. Unreadable files are listed
// without size and date.
func NewFileListModel(paths []string) FileListModel {
	files := make([]fileEntry, len(paths))
	for i, p := range paths {
		files[i].Path = p
		if info, err := os.Stat(p); err == nil {
			files[i].Size = info.Size()
			files[i].ModTime = info.ModTime()
		}
	}
	return FileListModel{Files: files, Height: 15}
}

func (m FileListModel) Init() tea.Cmd {
	return nil
}

func (m FileListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Files)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Files) > 0 {
				m.Selected = m.Files[m.Cursor].Path
			}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m FileListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Network"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Files))
	var rows [][]string
	for i := m.Offset; i < end; i++ {
		f := m.Files[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		modified := "—"
		if !f.ModTime.IsZero() {
			modified = formatRelativeTime(f.ModTime, time.Now())
		}
		rows = append(rows, []string{cursor, filepath.Base(f.Path), formatSize(f.Size), modified})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "File", "Size", "Modified").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			if col >= 2 {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Files))))
	return b.String()
}

// pickFile lets the user choose one of files. It returns "" when the user
// quits without choosing.
func pickFile(ctx context.Context, files []string) (string, error) {
	p := tea.NewProgram(NewFileListModel(files), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("file picker: %w", err)
	}
	return final.(FileListModel).Selected, nil
}

func formatRelativeTime(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}

func formatSize(n int64) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}
	return fmt.Sprintf("%.1f KiB", float64(n)/1024)
}
