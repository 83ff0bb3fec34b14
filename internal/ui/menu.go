package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// MenuAction is what the user picked on the main menu
type MenuAction int

const (
	ActionNone MenuAction = iota
	ActionSearch
	ActionQuery
	ActionHistory
	ActionFavorites
	ActionSettings
	ActionQuit
)

// MenuChoice is the main menu outcome; Query is set for ActionQuery
type MenuChoice struct {
	Action MenuAction
	Query  string
}

// ParseMenuInput interprets a line typed at the main menu. Single letters
// and quit words are commands, anything else is a search query.
func ParseMenuInput(input string) MenuChoice {
	text := strings.TrimSpace(input)
	switch strings.ToLower(text) {
	case "":
		return MenuChoice{Action: ActionNone}
	case "q", "quit", "exit":
		return MenuChoice{Action: ActionQuit}
	case "s":
		return MenuChoice{Action: ActionSearch}
	case "l":
		return MenuChoice{Action: ActionHistory}
	case "f":
		return MenuChoice{Action: ActionFavorites}
	case "c":
		return MenuChoice{Action: ActionSettings}
	}
	return MenuChoice{Action: ActionQuery, Query: text}
}

type menuKeys struct {
	Submit key.Binding
	Quit   key.Binding
}

var defaultMenuKeys = menuKeys{
	Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
	Quit:   key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
}

var menuEntries = []struct{ key, label string }{
	{"S", "Search"},
	{"L", "History"},
	{"F", "Favorites"},
	{"C", "Settings"},
	{"Q", "Quit"},
}

const banner = `
 _ __ ___   _____   __     __      ____ _| |_ ___| |__
| '_ ' _ \ / _ \ \ / /____\ \ /\ / / _' | __/ __| '_ \
| | | | | | (_) \ V /_____|\ V  V / (_| | || (__| | | |
|_| |_| |_|\___/ \_/        \_/\_/ \__,_|\__\___|_| |_|`

type menuModel struct {
	input  textinput.Model
	keys   menuKeys
	styles Styles
	status string
	width  int
	choice MenuChoice
	done   bool
}

func newMenuModel(st Styles, status string) menuModel {
	input := textinput.New()
	input.Placeholder = "Type a title to search, or a menu key"
	input.Prompt = "› "
	input.PromptStyle = lipgloss.NewStyle().Foreground(st.Accent)
	input.CharLimit = 120
	input.Focus()

	return menuModel{input: input, keys: defaultMenuKeys, styles: st, status: status}
}

func (m menuModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m menuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.choice = MenuChoice{Action: ActionQuit}
			m.done = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Submit):
			choice := ParseMenuInput(m.input.Value())
			if choice.Action == ActionNone {
				return m, nil
			}
			m.choice = choice
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m menuModel) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render(strings.TrimPrefix(banner, "\n")))
	b.WriteString("\n\n")

	entries := make([]string, 0, len(menuEntries))
	for _, e := range menuEntries {
		entries = append(entries, m.styles.Key.Render("["+e.key+"]")+" "+e.label)
	}
	b.WriteString(strings.Join(entries, "   "))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Muted.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.styles.Muted.Render("enter confirm • esc quit"))
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

// runMenu shows the main menu until the user submits something
func runMenu(st Styles, status string) (MenuChoice, error) {
	final, err := tea.NewProgram(newMenuModel(st, status)).Run()
	if err != nil {
		return MenuChoice{}, err
	}
	m, ok := final.(menuModel)
	if !ok || !m.done {
		return MenuChoice{Action: ActionQuit}, nil
	}
	return m.choice, nil
}
