package cmd

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/statforge/statforge/internal/dice"
	"github.com/statforge/statforge/internal/parser"
	"github.com/statforge/statforge/internal/session"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			MarginBottom(1)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#999999"))

	logBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#04B575")).
			Padding(0, 1)

	choiceBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#F25D94"))
)

// choiceItem adapts a session choice to the bubbles list.
type choiceItem session.Choice

func (c choiceItem) Title() string {
	if c.Leaf {
		return c.Label
	}
	return c.Label + " …"
}
func (c choiceItem) Description() string { return "" }
func (c choiceItem) FilterValue() string { return c.Label }

// promptMsg is posted by the prompter when a running session needs an
// answer. The model replies on the reply channel.
type promptMsg struct {
	prompt  string
	choices []session.Choice
	reply   chan string
}

// outcomeMsg is posted when a roll session finished, one way or another.
type outcomeMsg struct {
	text string
	err  error
}

// tuiPrompter feeds prompts from a session goroutine into the update loop.
type tuiPrompter struct {
	events chan tea.Msg
}

func (p *tuiPrompter) ask(ctx context.Context, prompt string, choices []session.Choice) (string, error) {
	reply := make(chan string, 1)
	select {
	case p.events <- promptMsg{prompt: prompt, choices: choices, reply: reply}:
	case <-ctx.Done():
		return "", session.ErrTimeout
	}
	select {
	case id := <-reply:
		return id, nil
	case <-ctx.Done():
		return "", session.ErrTimeout
	}
}

func (p *tuiPrompter) PromptChoice(ctx context.Context, prompt string, choices []session.Choice) (string, error) {
	return p.ask(ctx, prompt, choices)
}

func (p *tuiPrompter) PromptYesNo(ctx context.Context, question string) (bool, error) {
	id, err := p.ask(ctx, question, []session.Choice{
		{ID: "yes", Label: "Yes", Leaf: true},
		{ID: "no", Label: "No", Leaf: true},
	})
	if err != nil {
		return false, err
	}
	return id == "yes", nil
}

type replModel struct {
	runner    *session.Runner
	identity  string
	grammar   *participle.Parser[parser.Command]
	prompter  *tuiPrompter
	events    chan tea.Msg
	textInput textinput.Model
	viewport  viewport.Model
	choices   list.Model
	pending   *promptMsg
	logLines  []string
	busy      bool
	width     int
	height    int
}

func newREPLModel(runner *session.Runner, identity string) replModel {
	ti := textinput.New()
	ti.Placeholder = "Enter command (e.g., roll)..."
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 60

	vp := viewport.New(0, 0)
	welcome := "Welcome to statforge!\nType 'help' for commands, 'exit' to quit."
	vp.SetContent(welcome)

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetHeight(1)
	delegate.SetSpacing(0)
	choiceList := list.New([]list.Item{}, delegate, 50, 10)
	choiceList.SetShowTitle(false)
	choiceList.SetShowStatusBar(false)
	choiceList.SetFilteringEnabled(false)
	choiceList.SetShowHelp(false)

	events := make(chan tea.Msg)

	return replModel{
		runner:    runner,
		identity:  identity,
		grammar:   parser.Build(),
		prompter:  &tuiPrompter{events: events},
		events:    events,
		textInput: ti,
		viewport:  vp,
		choices:   choiceList,
		logLines:  []string{welcome},
	}
}

func (m *replModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForEvent())
}

// waitForEvent bridges the prompter and session goroutines into the
// bubbletea update loop.
func (m *replModel) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		return <-m.events
	}
}

func (m *replModel) appendLog(text string) {
	m.logLines = append(m.logLines, text)
	m.viewport.SetContent(strings.Join(m.logLines, "\n\n"))
	m.viewport.GotoBottom()
}

func (m *replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width - 6
		m.viewport.Height = msg.Height - 8
		if m.viewport.Height < 5 {
			m.viewport.Height = 5
		}
		return m, nil

	case promptMsg:
		m.pending = &msg
		items := make([]list.Item, 0, len(msg.choices)+1)
		for _, c := range msg.choices {
			items = append(items, choiceItem(c))
		}
		items = append(items, choiceItem{ID: session.AbortID, Label: "Abort", Leaf: true})
		m.choices.SetItems(items)
		m.choices.ResetSelected()
		h := len(items)
		if h > 10 {
			h = 10
		}
		m.choices.SetHeight(h)
		return m, m.waitForEvent()

	case outcomeMsg:
		m.busy = false
		if msg.err != nil {
			m.appendLog(fmt.Sprintf("Error: %v", msg.err))
		} else {
			m.appendLog(msg.text)
		}
		return m, m.waitForEvent()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			if m.pending != nil {
				m.pending.reply <- session.AbortID
				m.pending = nil
				return m, nil
			}
			return m, tea.Quit

		case tea.KeyEnter:
			if m.pending != nil {
				if item, ok := m.choices.SelectedItem().(choiceItem); ok {
					m.pending.reply <- item.ID
					m.pending = nil
				}
				return m, nil
			}
			return m.runCommand()
		}
	}

	var cmd tea.Cmd
	if m.pending != nil {
		m.choices, cmd = m.choices.Update(msg)
	} else {
		m.textInput, cmd = m.textInput.Update(msg)
	}
	return m, cmd
}

// runCommand parses and dispatches the current input line.
func (m *replModel) runCommand() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.textInput.Value())
	m.textInput.SetValue("")
	if input == "" {
		return m, nil
	}
	if input == "exit" || input == "quit" {
		return m, tea.Quit
	}
	m.appendLog("> " + input)

	command, err := m.grammar.ParseString("", strings.TrimLeft(input, "/!"))
	if err != nil {
		m.appendLog(parser.MapError(input, err).Error())
		return m, nil
	}

	switch {
	case command.Ping != nil:
		m.appendLog("pong")
	case command.Help != nil:
		m.appendLog("Commands: roll, dice <faces>, summary, ping, help, exit")
	case command.Dice != nil:
		value, err := dice.RollDie(command.Dice.Faces)
		if err != nil {
			m.appendLog(fmt.Sprintf("Error: %v", err))
		} else {
			m.appendLog(fmt.Sprintf("%s rolled a d%d: %d", m.identity, command.Dice.Faces, value))
		}
	case command.Summary != nil:
		m.appendLog(m.summary())
	case command.Roll != nil:
		if m.busy {
			m.appendLog("A roll is already in progress.")
			return m, nil
		}
		m.busy = true
		runner, identity, prompter, events := m.runner, m.identity, m.prompter, m.events
		go func() {
			outcome, err := runner.BeginRoll(context.Background(), identity, prompter)
			if err != nil {
				events <- outcomeMsg{err: err}
				return
			}
			events <- outcomeMsg{text: outcome.Summary()}
		}()
	}
	return m, nil
}

// summary renders the caller's per-stat mastery table.
func (m *replModel) summary() string {
	game := m.runner.Game()
	p, err := game.Players.Lookup(m.identity)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	if p == nil {
		return fmt.Sprintf("No player stats found for player %s.", m.identity)
	}

	stats := make([]string, 0, len(p.Stats))
	for stat := range p.Stats {
		stats = append(stats, stat)
	}
	sort.Strings(stats)

	lines := []string{fmt.Sprintf("Stats of %s:", p.Name)}
	for _, stat := range stats {
		value, err := m.runner.MasteryFor(p, stat)
		if err != nil {
			return fmt.Sprintf("Error: %v", err)
		}
		lines = append(lines, fmt.Sprintf("%s: %d (%d xp)", stat, value, p.Experience(stat)))
	}
	return strings.Join(lines, "\n")
}

func (m *replModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("statforge · %s", m.identity)))
	b.WriteString("\n")
	b.WriteString(logBoxStyle.Render(m.viewport.View()))
	b.WriteString("\n")

	if m.pending != nil {
		b.WriteString(infoStyle.Render(m.pending.prompt))
		b.WriteString("\n")
		b.WriteString(choiceBoxStyle.Render(m.choices.View()))
	} else {
		b.WriteString(m.textInput.View())
		if m.busy {
			b.WriteString("\n" + infoStyle.Render("waiting for the roll to finish..."))
		}
	}

	b.WriteString("\n" + infoStyle.Render("enter: select · esc: abort/quit"))
	return b.String()
}

// RunTUI starts the interactive shell against a loaded game.
func RunTUI(runner *session.Runner, identity string) error {
	m := newREPLModel(runner, identity)
	_, err := tea.NewProgram(&m, tea.WithAltScreen()).Run()
	return err
}
