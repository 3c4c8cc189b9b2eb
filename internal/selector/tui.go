package selector

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/takayamaekawa/discord-exporter-tui/internal/catalog"
)

// TUIPicker runs the full-screen channel picker. The terminal is restored on
// every exit path; a killed program counts as cancellation, not an error.
type TUIPicker struct{}

func (TUIPicker) Pick(ctx context.Context, channels []catalog.Channel) (Result, error) {
	if len(channels) == 0 {
		return Result{}, ErrNoChannels
	}
	prog := tea.NewProgram(newPickModel(channels), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := prog.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) {
			return Result{Cancelled: true}, nil
		}
		return Result{}, fmt.Errorf("run channel picker: %w", err)
	}
	m, ok := final.(*pickModel)
	if !ok || m.outcome != outcomeConfirmed {
		return Result{Cancelled: true}, nil
	}
	return Result{Channels: pickChannels(channels, m.sel.SelectedIndices())}, nil
}

type pickOutcome int

const (
	outcomeBrowsing pickOutcome = iota
	outcomeConfirmed
	outcomeCancelled
)

type pickKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Toggle  key.Binding
	All     key.Binding
	Confirm key.Binding
	Cancel  key.Binding
}

func defaultPickKeyMap() pickKeyMap {
	return pickKeyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev page")),
		Right:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next page")),
		Toggle:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		All:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "toggle all")),
		Confirm: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		Cancel:  key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q/esc", "cancel")),
	}
}

// pickModel is the picker's bubbletea model. The cursor is page-local: on
// page 0, position 0 is the global "All" row and display entries start at
// position 1; on later pages positions map directly onto entries.
type pickModel struct {
	channels []catalog.Channel
	display  DisplayList
	pages    []Page
	sel      *Selection
	keys     pickKeyMap

	page    int
	pos     int
	notice  string
	outcome pickOutcome
	width   int
}

func newPickModel(channels []catalog.Channel) *pickModel {
	display := BuildDisplayList(channels)
	return &pickModel{
		channels: channels,
		display:  display,
		pages:    Paginate(len(display.Entries)),
		sel:      NewSelection(len(channels)),
		keys:     defaultPickKeyMap(),
	}
}

func (m *pickModel) Init() tea.Cmd {
	return nil
}

// rowsOnPage counts cursor positions on page p, including the "All" row.
func (m *pickModel) rowsOnPage(p int) int {
	n := m.pages[p].Len()
	if p == 0 {
		n++
	}
	return n
}

// entryAt resolves a page-local position to a display entry; ok is false for
// the "All" pseudo-row.
func (m *pickModel) entryAt(page, pos int) (DisplayEntry, bool) {
	offset := pos
	if page == 0 {
		if pos == 0 {
			return DisplayEntry{}, false
		}
		offset = pos - 1
	}
	return m.display.Entries[m.pages[page].Start+offset], true
}

func (m *pickModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		m.notice = ""
		switch {
		case key.Matches(msg, m.keys.Up):
			if m.pos > 0 {
				m.pos--
			} else if m.page > 0 {
				m.page--
				m.pos = m.rowsOnPage(m.page) - 1
			}
		case key.Matches(msg, m.keys.Down):
			if m.pos < m.rowsOnPage(m.page)-1 {
				m.pos++
			} else if m.page < len(m.pages)-1 {
				m.page++
				m.pos = 0
			}
		case key.Matches(msg, m.keys.Left):
			if m.page > 0 {
				m.page--
				m.pos = 0
			}
		case key.Matches(msg, m.keys.Right):
			if m.page < len(m.pages)-1 {
				m.page++
				m.pos = 0
			}
		case key.Matches(msg, m.keys.Toggle):
			m.toggleCurrent()
		case key.Matches(msg, m.keys.All):
			m.sel.ToggleGlobal()
		case key.Matches(msg, m.keys.Confirm):
			if m.sel.CountChecked() == 0 {
				m.notice = "no channels selected - toggle at least one with space"
				return m, nil
			}
			m.outcome = outcomeConfirmed
			return m, tea.Quit
		case key.Matches(msg, m.keys.Cancel):
			m.outcome = outcomeCancelled
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *pickModel) toggleCurrent() {
	entry, ok := m.entryAt(m.page, m.pos)
	if !ok {
		m.sel.ToggleGlobal()
		return
	}
	switch entry.Kind {
	case entryCategoryHeader:
		m.sel.ToggleCategory(m.display.Members[entry.Category])
	case entryChannel:
		m.sel.ToggleItem(entry.ChannelIndex)
	}
}

var (
	pickTitleStyle    = lipgloss.NewStyle().Bold(true).Underline(true)
	pickHeaderStyle   = lipgloss.NewStyle().Bold(true)
	pickCursorStyle   = lipgloss.NewStyle().Bold(true)
	pickNoticeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	pickHelpStyle     = lipgloss.NewStyle().Faint(true)
	pickEstimateStyle = lipgloss.NewStyle().Faint(true)
)

func aggregateSymbol(agg Aggregate) string {
	switch agg {
	case AggAll:
		return "☑"
	case AggSome:
		return "▣"
	default:
		return "☐"
	}
}

func checkSymbol(checked bool) string {
	if checked {
		return "☑"
	}
	return "☐"
}

func (m *pickModel) View() string {
	var b strings.Builder
	b.WriteString(pickTitleStyle.Render("Select channels to export"))
	b.WriteString(fmt.Sprintf("  (%d/%d selected, page %d/%d)\n\n",
		m.sel.CountChecked(), m.sel.Len(), m.page+1, len(m.pages)))

	for pos := 0; pos < m.rowsOnPage(m.page); pos++ {
		marker := "  "
		if pos == m.pos {
			marker = pickCursorStyle.Render("▶ ")
		}
		entry, ok := m.entryAt(m.page, pos)
		if !ok {
			b.WriteString(fmt.Sprintf("%s[%s] All channels\n", marker, checkSymbol(m.sel.AllChecked())))
			continue
		}
		switch entry.Kind {
		case entryCategoryHeader:
			members := m.display.Members[entry.Category]
			checked, total := m.sel.CategoryCounts(members)
			line := fmt.Sprintf("[%s] %s (%d/%d)",
				aggregateSymbol(m.sel.CategoryAggregate(members)), entry.Category, checked, total)
			b.WriteString(marker + pickHeaderStyle.Render(line) + "\n")
		case entryChannel:
			c := m.channels[entry.ChannelIndex]
			estimate := pickEstimateStyle.Render(fmt.Sprintf("(estimated: %d)", c.EstimatedMessages))
			b.WriteString(fmt.Sprintf("%s  [%s] #%s %s\n",
				marker, checkSymbol(m.sel.Checked(entry.ChannelIndex)), c.Name, estimate))
		}
	}

	if m.notice != "" {
		b.WriteString("\n" + pickNoticeStyle.Render(m.notice) + "\n")
	}

	help := make([]string, 0, 8)
	for _, bind := range []key.Binding{
		m.keys.Up, m.keys.Down, m.keys.Left, m.keys.Right,
		m.keys.Toggle, m.keys.All, m.keys.Confirm, m.keys.Cancel,
	} {
		help = append(help, bind.Help().Key+" "+bind.Help().Desc)
	}
	b.WriteString("\n" + pickHelpStyle.Render(strings.Join(help, "  ")))
	return b.String()
}
