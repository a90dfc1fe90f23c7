// Package tui provides an interactive terminal browser over the
// transaction timeline and savings goals. It is presentation only: every
// number it shows comes from the aggregation engine.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dhruvkb/pennyflow/internal/bus"
	"github.com/dhruvkb/pennyflow/internal/cli"
	"github.com/dhruvkb/pennyflow/internal/engine"
	"github.com/dhruvkb/pennyflow/internal/goal"
	"github.com/dhruvkb/pennyflow/internal/model"
	"github.com/dhruvkb/pennyflow/internal/settings"
)

// Deps are the services the browser renders.
type Deps struct {
	Engine   *engine.Engine
	Goals    *goal.Tracker
	Settings *settings.Settings
	Bus      *bus.Bus
}

// KeyMap defines the key bindings for the browser.
type KeyMap struct {
	CycleType   key.Binding
	CycleWindow key.Binding
	Reload      key.Binding
	Quit        key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		CycleType: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "cycle type filter"),
		),
		CycleWindow: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "cycle month window"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

type refreshMsg struct{}

type dataMsg struct {
	err          error
	transactions []model.Transaction
	goals        []model.Goal
	currency     settings.Currency
}

// Model holds the browser state.
type Model struct {
	deps     Deps
	changes  <-chan bus.Event
	lastErr  error
	currency settings.Currency
	keymap   KeyMap
	criteria engine.Criteria
	table    table.Model
	progress progress.Model
	txns     []model.Transaction
	goals    []model.Goal
	width    int
	height   int
}

var typeCycle = []engine.TypeFilter{engine.TypeAll, engine.TypeIncome, engine.TypeExpense}

var windowCycle = []engine.MonthWindow{engine.WindowAll, engine.WindowCurrent, engine.WindowLast, engine.WindowLast3}

// Run starts the browser and blocks until the user quits.
func Run(ctx context.Context, deps Deps) error {
	m := newModel(deps)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

func newModel(deps Deps) Model {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Category", Width: 18},
		{Title: "Description", Width: 28},
		{Title: "Amount", Width: 14},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).Foreground(cli.PrimaryColor)
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	t.SetStyles(styles)

	changes := subscribe(deps.Bus)

	return Model{
		deps:     deps,
		keymap:   DefaultKeyMap(),
		criteria: engine.Criteria{Type: engine.TypeAll, Category: engine.CategoryAll, Window: engine.WindowAll},
		table:    t,
		progress: progress.New(progress.WithDefaultGradient()),
		changes:  changes,
		currency: settings.INR,
	}
}

// subscribe merges the change topics into one channel.
func subscribe(b *bus.Bus) <-chan bus.Event {
	merged := make(chan bus.Event, 8)
	for _, topic := range []string{
		bus.TopicTransactionsUpdated,
		bus.TopicGoalsUpdated,
		bus.TopicFullReset,
		bus.TopicCurrencyChanged,
	} {
		ch, _ := b.Subscribe(topic)
		go func() {
			for ev := range ch {
				merged <- ev
			}
		}()
	}
	return merged
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.load(), m.waitForChange())
}

func (m Model) load() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		txns, err := m.deps.Engine.Transactions(ctx)
		if err != nil {
			return dataMsg{err: err}
		}
		goals, err := m.deps.Goals.List(ctx)
		if err != nil {
			return dataMsg{err: err}
		}
		currency, err := m.deps.Settings.Currency(ctx)
		if err != nil {
			return dataMsg{err: err}
		}
		return dataMsg{transactions: txns, goals: goals, currency: currency}
	}
}

func (m Model) waitForChange() tea.Cmd {
	return func() tea.Msg {
		<-m.changes
		return refreshMsg{}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.progress.Width = min(msg.Width-24, 40)
		return m, nil

	case refreshMsg:
		return m, tea.Batch(m.load(), m.waitForChange())

	case dataMsg:
		if msg.err != nil {
			m.lastErr = msg.err
			return m, nil
		}
		m.lastErr = nil
		m.txns = msg.transactions
		m.goals = msg.goals
		m.currency = msg.currency
		m.refreshRows()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keymap.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keymap.CycleType):
			m.criteria.Type = cycle(typeCycle, m.criteria.Type)
			m.refreshRows()
			return m, nil
		case key.Matches(msg, m.keymap.CycleWindow):
			m.criteria.Window = cycle(windowCycle, m.criteria.Window)
			m.refreshRows()
			return m, nil
		case key.Matches(msg, m.keymap.Reload):
			return m, m.load()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func cycle[T comparable](values []T, current T) T {
	for i, v := range values {
		if v == current {
			return values[(i+1)%len(values)]
		}
	}
	return values[0]
}

func (m *Model) refreshRows() {
	filtered := m.deps.Engine.Filter(m.txns, m.criteria)
	groups := m.deps.Engine.GroupByDay(filtered)

	var rows []table.Row
	for _, g := range groups {
		for _, t := range g.Transactions {
			amount := m.currency.FormatAmount(t.Magnitude())
			if t.Amount > 0 {
				amount = "+" + amount
			} else {
				amount = "-" + amount
			}
			rows = append(rows, table.Row{g.Label, t.Category, t.Description, amount})
		}
	}
	m.table.SetRows(rows)
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(cli.FormatTitle("Transaction History"))
	b.WriteString("\n")
	b.WriteString(cli.SubtleStyle.Render(fmt.Sprintf(
		"type: %s · month: %s · t/m to change, r to reload, q to quit",
		m.criteria.Type, m.criteria.Window)))
	b.WriteString("\n\n")
	b.WriteString(m.table.View())
	b.WriteString("\n\n")

	filtered := m.deps.Engine.Filter(m.txns, m.criteria)
	summary := m.deps.Engine.Summarize(filtered)
	b.WriteString(fmt.Sprintf("%s  %s  %s  %s\n",
		cli.SubtleStyle.Render(fmt.Sprintf("%d transactions", summary.Count)),
		cli.IncomeStyle.Render("in "+m.currency.FormatAmount(summary.TotalIncome)),
		cli.ExpenseStyle.Render("out "+m.currency.FormatAmount(summary.TotalExpense)),
		"balance "+m.currency.FormatAmount(summary.Balance)))

	if len(m.goals) > 0 {
		b.WriteString("\n" + cli.FormatTitle("Goals") + "\n")
		for _, g := range m.goals {
			pct := g.ProgressPercent()
			b.WriteString(fmt.Sprintf("%-20s %s %s\n",
				g.Name,
				m.progress.ViewAs(pct/100),
				cli.SubtleStyle.Render(fmt.Sprintf("%.1f%%", pct))))
		}
	}

	if m.lastErr != nil {
		b.WriteString("\n" + cli.FormatError(m.lastErr.Error()) + "\n")
	}

	return b.String()
}
