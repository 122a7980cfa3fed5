package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/tardis-games/abi"
	"github.com/wippyai/tardis-games/config"
	"github.com/wippyai/tardis-games/host"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// The canvas starts below the title line and a blank line.
const canvasTop = 2

type keyMap struct {
	Screen key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Screen, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Screen}, {k.Help, k.Quit}}
}

var keys = keyMap{
	Screen: key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "close/open screen")),
	Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

type tickMsg time.Time

type interactiveModel struct {
	ctx    context.Context
	err    error
	game   *loaded
	canvas *host.Canvas
	sounds *soundLog
	help   help.Model
	status string
	every  time.Duration
	ticks  int
}

func newInteractiveModel(ctx context.Context, g *loaded, cfg *config.Config, sounds *soundLog) *interactiveModel {
	return &interactiveModel{
		ctx:    ctx,
		game:   g,
		canvas: host.NewCanvas(cfg.Width, cfg.Height),
		sounds: sounds,
		help:   help.New(),
		every:  cfg.Tick,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	if m.game.session != nil {
		m.err = m.game.reopen(m.ctx)
	}
	return m.tick()
}

func (m *interactiveModel) tick() tea.Cmd {
	return tea.Tick(m.every, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			if s := m.game.session; s != nil {
				_ = s.Unload(m.ctx)
			}
			return m, tea.Quit
		case key.Matches(msg, keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, keys.Screen):
			m.toggleScreen()
		}

	case tea.MouseMsg:
		m.click(msg)

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

	case tickMsg:
		m.ticks++
		m.frame()
		return m, m.tick()
	}

	return m, nil
}

// frame advances the game and repaints the canvas.
func (m *interactiveModel) frame() {
	s := m.game.session
	if s == nil {
		host.DrawMissingGame(m.canvas, m.ticks)
		return
	}
	if s.Terminated() || !s.IsOpen() {
		return
	}
	if err := s.Tick(m.ctx); err != nil {
		m.err = err
		return
	}
	if s.Terminated() {
		m.status = "game closed itself"
		return
	}
	if err := s.Render(m.ctx); err != nil {
		m.err = err
		return
	}
	if s.Terminated() {
		m.status = "game closed itself"
	}
	m.canvas = s.Snapshot()
}

func (m *interactiveModel) toggleScreen() {
	s := m.game.session
	if s == nil {
		return
	}
	var err error
	if s.IsOpen() {
		err = s.Close(m.ctx)
		m.status = "screen closed"
	} else {
		err = m.game.reopen(m.ctx)
		m.status = "screen open"
	}
	m.err = err
}

func (m *interactiveModel) click(msg tea.MouseMsg) {
	s := m.game.session
	if s == nil || msg.Action != tea.MouseActionPress || !s.IsOpen() {
		return
	}
	var click abi.ClickType
	switch msg.Button {
	case tea.MouseButtonLeft:
		click = abi.ClickLeft
	case tea.MouseButtonRight:
		click = abi.ClickRight
	default:
		return
	}
	x, y, ok := canvasPoint(msg.X, msg.Y, m.canvas)
	if !ok {
		return
	}
	consumed, err := s.Click(m.ctx, click, x, y)
	if err != nil {
		m.err = err
		return
	}
	m.status = fmt.Sprintf("%s click at %d,%d consumed=%v", click, x, y, consumed)
}

// canvasPoint maps a terminal cell to the upper canvas pixel it shows.
func canvasPoint(col, row int, c *host.Canvas) (int, int, bool) {
	x, y := col, (row-canvasTop)*2
	if x < 0 || y < 0 || x >= c.Width() || y >= c.Height() {
		return 0, 0, false
	}
	return x, y, true
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Mini Tardis Games"))
	b.WriteString(" ")
	b.WriteString(m.game.title)
	b.WriteString("\n\n")
	b.WriteString(halfBlocks(m.canvas))
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	case m.game.session == nil:
		b.WriteString(errorStyle.Render(fmt.Sprintf("No game named %q", m.game.id)))
	default:
		b.WriteString(statusStyle.Render(m.status))
	}
	if sounds := m.sounds.String(); sounds != "" {
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("sound: " + sounds))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(keys))

	return b.String()
}

func runInteractive(ctx context.Context, g *loaded, cfg *config.Config, sounds *soundLog) error {
	p := tea.NewProgram(newInteractiveModel(ctx, g, cfg, sounds), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
