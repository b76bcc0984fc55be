// This file implements the player-facing console using bubbletea.
package main

import (
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/nirradi/sparrownet/cmd/sparrow/ui"
	"github.com/nirradi/sparrownet/internal/chapter"
	"github.com/nirradi/sparrownet/internal/engine"
	"github.com/nirradi/sparrownet/internal/shell"
)

// Messages for tea updates
type (
	stateMsg        struct{}        // the store has a new state to show
	chapterMsg      chapter.Chapter // a chapter finished (re)loading
	reloadFailedMsg struct{ err error }
)

// terminalModel is the bubbletea model for one console session. All game
// state lives in the shell store; the model only mirrors the latest
// snapshot into widgets.
type terminalModel struct {
	// UI components
	textinput textinput.Model
	viewport  viewport.Model
	spinner   spinner.Model
	styles    ui.Styles
	renderer  *glamour.TermRenderer

	// Session backend
	chapter chapter.Chapter
	store   *shell.Store
	eng     *engine.Engine
	dog     *engine.Watchdog
	wake    <-chan struct{}
	snap    shell.State

	// View state
	showBriefing bool
	err          error
	width        int
	height       int
	ready        bool

	log *zap.Logger
}

// newTerminal builds the model and boots ch as the active chapter.
func newTerminal(ch chapter.Chapter, styles ui.Styles, log *zap.Logger) terminalModel {
	ti := textinput.New()
	ti.Placeholder = "type a command (help lists them)"
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 80
	ti.PromptStyle = styles.Prompt
	ti.TextStyle = styles.UserInput

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	vp := viewport.New(80, 20)

	m := terminalModel{
		textinput: ti,
		viewport:  vp,
		spinner:   sp,
		styles:    styles,
		renderer:  newRenderer(styles, 80),
		log:       log,
	}
	m = m.bootChapter(ch)
	m.syncFromState()
	return m
}

// bootChapter wires a fresh store and engine for ch and enters the
// chapter. Rebooting an existing session drops the old transcript and game
// state, which is what chapter reload wants.
func (m terminalModel) bootChapter(ch chapter.Chapter) terminalModel {
	if m.dog != nil {
		m.dog.Stop()
	}

	store := shell.NewStore()
	eng := engine.New(store, m.log)
	dog := engine.NewWatchdog(store, m.log, 0)

	m.chapter = ch
	m.store = store
	m.eng = eng
	m.dog = dog
	m.wake = store.Subscribe()

	eng.Start(ch.Commands, ch.Prompt, ch.Banner)
	dog.Start()
	m.snap = store.Snapshot()
	return m
}

// waitForWake resolves when the store next changes. Re-issued after every
// stateMsg so the subscription stays drained.
func waitForWake(wake <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-wake
		return stateMsg{}
	}
}

// newRenderer builds the markdown renderer for the briefing overlay.
func newRenderer(styles ui.Styles, wrap int) *glamour.TermRenderer {
	if wrap < 20 {
		wrap = 20
	}
	var renderer *glamour.TermRenderer
	if styles.Theme.IsDark {
		renderer, _ = glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wrap),
		)
	} else {
		renderer, _ = glamour.NewTermRenderer(
			glamour.WithStylePath("light"),
			glamour.WithWordWrap(wrap),
		)
	}
	return renderer
}

func (m terminalModel) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		waitForWake(m.wake),
	)
}

func (m terminalModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		spCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit

		case tea.KeyEsc:
			m.showBriefing = false
			return m, nil

		case tea.KeyCtrlO:
			m.showBriefing = !m.showBriefing
			return m, nil

		case tea.KeyEnter:
			if m.showBriefing || m.snap.InputDisabled {
				return m, nil
			}
			m.err = nil
			value := m.textinput.Value()
			m.textinput.Reset()
			// Committing here, on the update loop, keeps echoes in press
			// order. The handler runs elsewhere; the UI never blocks on it.
			m.eng.Run(value)
			m.snap.InputDisabled = true
			m.textinput.Blur()
			return m, m.spinner.Tick
		}

		if m.showBriefing {
			return m, nil
		}
		if !m.snap.InputDisabled {
			m.textinput, tiCmd = m.textinput.Update(msg)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 2
		footerHeight := 2
		inputHeight := 3
		contentPadding := 2

		vpWidth := msg.Width - 4
		vpHeight := msg.Height - headerHeight - footerHeight - inputHeight - contentPadding
		if vpHeight < 1 {
			vpHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(vpWidth, vpHeight)
			m.ready = true
			m.syncFromState()
		} else {
			m.viewport.Width = vpWidth
			m.viewport.Height = vpHeight
		}

		m.textinput.Width = msg.Width - 6
		m.renderer = newRenderer(m.styles, msg.Width-8)

	case spinner.TickMsg:
		if m.snap.InputDisabled {
			m.spinner, spCmd = m.spinner.Update(msg)
			return m, spCmd
		}

	case stateMsg:
		m.snap = m.store.Snapshot()
		m.syncFromState()
		cmds := []tea.Cmd{waitForWake(m.wake)}
		if m.snap.InputDisabled {
			m.textinput.Blur()
			cmds = append(cmds, m.spinner.Tick)
		} else if !m.textinput.Focused() {
			cmds = append(cmds, m.textinput.Focus())
		}
		return m, tea.Batch(cmds...)

	case chapterMsg:
		m = m.bootChapter(chapter.Chapter(msg))
		m.err = nil
		m.showBriefing = false
		m.textinput.Reset()
		m.syncFromState()
		cmds := []tea.Cmd{waitForWake(m.wake)}
		if !m.textinput.Focused() {
			cmds = append(cmds, m.textinput.Focus())
		}
		return m, tea.Batch(cmds...)

	case reloadFailedMsg:
		m.err = msg.err
	}

	m.viewport, vpCmd = m.viewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, spCmd)
}

// syncFromState mirrors the latest store snapshot into the widgets.
func (m *terminalModel) syncFromState() {
	m.textinput.Prompt = m.snap.Prompt
	m.viewport.SetContent(strings.Join(m.snap.Output, "\n"))
	m.viewport.GotoBottom()
}

func (m terminalModel) View() string {
	if !m.ready {
		return "bringing the console up..."
	}

	header := m.renderHeader()

	var body string
	if m.showBriefing {
		body = m.renderBriefing()
	} else {
		body = m.styles.Content.Render(m.viewport.View())
		if m.snap.InputDisabled {
			body += "\n" + m.styles.Spinner.Render(m.spinner.View()) + m.styles.Muted.Render(" working")
		}
		if m.err != nil {
			body += "\n" + m.styles.Error.Render("error: "+m.err.Error())
		}
	}

	inputStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.styles.Theme.Accent).
		Padding(0, 1)
	inputArea := inputStyle.Render(m.textinput.View())

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		body,
		inputArea,
		m.renderFooter(),
	)
}

func (m terminalModel) renderHeader() string {
	title := m.styles.Header.Render(" SPARROWNET ")
	chapterBadge := m.styles.Badge.Render(m.chapter.Title)

	var status string
	if m.snap.InputDisabled {
		status = m.styles.Warning.Render("● busy")
	} else {
		status = m.styles.Success.Render("● ready")
	}

	line := lipgloss.JoinHorizontal(
		lipgloss.Center,
		title,
		" ",
		chapterBadge,
		"  ",
		status,
	)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		line,
		m.styles.RenderDivider(m.width),
	)
}

func (m terminalModel) renderFooter() string {
	if m.showBriefing {
		return lipgloss.JoinVertical(
			lipgloss.Left,
			m.styles.Muted.Render("chapter briefing"),
			m.styles.Footer.Render("Esc: close briefing • Ctrl+C: quit"),
		)
	}

	names := make([]string, 0, len(m.snap.Commands))
	for name := range m.snap.Commands {
		names = append(names, name)
	}
	sort.Strings(names)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.styles.Muted.Render("commands: "+strings.Join(names, " · ")),
		m.styles.Footer.Render("Enter: run • Ctrl+O: briefing • Ctrl+C: quit"),
	)
}

// renderBriefing shows the chapter briefing as rendered markdown.
func (m terminalModel) renderBriefing() string {
	text := m.chapter.Briefing
	if text == "" {
		text = "No briefing on file for this chapter."
	}

	boxWidth := m.width - 4
	if boxWidth > 100 {
		boxWidth = 100
	}
	return m.styles.Overlay.Width(boxWidth).Render(m.safeRenderMarkdown(text))
}

// safeRenderMarkdown renders markdown with panic recovery
func (m terminalModel) safeRenderMarkdown(content string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			// If glamour panics, return plain text
			result = content
		}
	}()

	if m.renderer != nil && content != "" {
		rendered, err := m.renderer.Render(content)
		if err == nil {
			return rendered
		}
	}
	return content
}
