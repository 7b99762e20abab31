// Package ui renders the segmentation workspace in the terminal: an
// upload screen while no session exists, and a two-pane image/chat
// workspace with a draggable divider while one does. All conversation
// state lives in the workspace state machine; this package only issues
// operations and renders snapshots.
package ui

import (
	"context"
	"fmt"
	"image"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"segstudio/internal/domain"
	"segstudio/internal/workspace"
)

type screen int

const (
	screenUpload screen = iota
	screenWorkspace
)

const (
	headerHeight = 1
	inputHeight  = 1
)

// Async operation results. The workspace mutates its own state; these
// just tell the UI a snapshot is worth re-reading.
type sessionStartedMsg struct{ err error }
type turnResolvedMsg struct{}
type resetDoneMsg struct{}

// Model is the root Bubble Tea model.
type Model struct {
	ws  *workspace.Workspace
	log zerolog.Logger

	screen        screen
	width, height int

	split        SplitLayout
	defaultRatio int

	pathInput textinput.Model
	chatInput textinput.Model
	chatView  viewport.Model
	spin      spinner.Model

	// localErr is an upload-surface validation failure, surfaced in the
	// same toast slot as a failed session create.
	localErr string

	original  image.Image
	result    image.Image
	resultRef string
}

// NewModel creates the root model over an idle workspace.
func NewModel(ws *workspace.Workspace, defaultRatio int, log zerolog.Logger) Model {
	pathInput := textinput.New()
	pathInput.Placeholder = "path/to/image.jpg"
	pathInput.Focus()

	chatInput := textinput.New()
	chatInput.Placeholder = "Type your request..."

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return Model{
		ws:           ws,
		log:          log,
		screen:       screenUpload,
		split:        NewSplitLayout(defaultRatio),
		defaultRatio: defaultRatio,
		pathInput:    pathInput,
		chatInput:    chatInput,
		chatView:     viewport.New(0, 0),
		spin:         spin,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spin.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.split.SetWidth(msg.Width)
		m.resize()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		if m.screen == screenWorkspace && m.ws.Snapshot().Busy {
			// Keep the typing indicator inside the viewport animated.
			m.refreshChat()
		}
		return m, cmd

	case tea.MouseMsg:
		if m.screen == screenWorkspace {
			if m.split.Update(msg) {
				m.resize()
				m.refreshChat()
				return m, nil
			}
			var cmd tea.Cmd
			m.chatView, cmd = m.chatView.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)

	case sessionStartedMsg:
		if msg.err != nil {
			// Snapshot carries the upload error text for the toast.
			return m, nil
		}
		m.mountWorkspace()
		return m, nil

	case turnResolvedMsg:
		m.refreshResult()
		m.refreshChat()
		return m, nil

	case resetDoneMsg:
		m.screen = screenUpload
		m.original = nil
		m.result = nil
		m.resultRef = ""
		m.localErr = ""
		m.chatInput.Blur()
		m.pathInput.Focus()
		return m, textinput.Blink
	}

	return m.updateInputs(msg)
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "enter":
		if m.ws.Snapshot().Busy {
			// The triggering affordance is disabled while a request is
			// in flight; this is the only concurrency control.
			return m, nil
		}
		if m.screen == screenUpload {
			return m.startUpload()
		}
		return m.sendTurn()

	case "esc":
		if m.screen == screenWorkspace {
			ws := m.ws
			return m, func() tea.Msg {
				ws.Reset()
				return resetDoneMsg{}
			}
		}
	}

	return m.updateInputs(msg)
}

func (m Model) startUpload() (tea.Model, tea.Cmd) {
	path := strings.TrimSpace(m.pathInput.Value())
	if path == "" {
		return m, nil
	}
	if err := ValidateImagePath(path); err != nil {
		m.localErr = err.Error()
		return m, nil
	}
	m.localErr = ""
	ws := m.ws
	return m, func() tea.Msg {
		return sessionStartedMsg{err: ws.StartSession(context.Background(), path)}
	}
}

func (m Model) sendTurn() (tea.Model, tea.Cmd) {
	// Two-phase turn: the user message is appended synchronously here,
	// so it renders before the request resolves.
	turn, err := m.ws.BeginTurn(m.chatInput.Value())
	if err != nil || turn == nil {
		return m, nil
	}
	m.chatInput.Reset()
	m.refreshChat()
	ws := m.ws
	return m, func() tea.Msg {
		ws.ResolveTurn(context.Background(), turn)
		return turnResolvedMsg{}
	}
}

func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	if m.screen == screenUpload {
		m.pathInput, cmd = m.pathInput.Update(msg)
		cmds = append(cmds, cmd)
	} else {
		m.chatInput, cmd = m.chatInput.Update(msg)
		cmds = append(cmds, cmd)
		m.chatView, cmd = m.chatView.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// mountWorkspace switches to the workspace screen after a successful
// session create. The split layout is rebuilt at the default ratio: a
// fresh mount never inherits a previous session's divider position.
func (m *Model) mountWorkspace() {
	m.screen = screenWorkspace
	m.split = NewSplitLayout(m.defaultRatio)
	m.split.SetWidth(m.width)
	m.pathInput.Blur()
	m.chatInput.Focus()

	snap := m.ws.Snapshot()
	img, err := LoadImageFile(snap.Images.Original)
	if err != nil {
		m.log.Warn().Err(err).Str("image", snap.Images.Original).Msg("cannot decode preview")
	}
	m.original = img
	m.result = nil
	m.resultRef = ""

	m.resize()
	m.refreshChat()
}

// refreshResult re-decodes the result preview when the snapshot carries
// a result image the UI has not decoded yet.
func (m *Model) refreshResult() {
	snap := m.ws.Snapshot()
	if snap.Images.Result == "" || snap.Images.Result == m.resultRef {
		return
	}
	img, err := ParseDataURI(snap.Images.Result)
	if err != nil {
		m.log.Warn().Err(err).Msg("cannot decode result image")
		return
	}
	m.result = img
	m.resultRef = snap.Images.Result
}

func (m *Model) resize() {
	contentH := m.height - headerHeight - inputHeight
	if contentH < 0 {
		contentH = 0
	}
	m.chatView.Width = m.split.ChatWidth()
	m.chatView.Height = contentH
	m.chatInput.Width = m.split.ChatWidth() - 4
}

func (m *Model) refreshChat() {
	snap := m.ws.Snapshot()
	m.chatView.SetContent(m.renderMessages(snap))
	m.chatView.GotoBottom()
}

func (m Model) View() string {
	if m.screen == screenUpload {
		return m.viewUpload()
	}
	return m.viewWorkspace()
}

func (m Model) viewUpload() string {
	snap := m.ws.Snapshot()

	var b strings.Builder
	b.WriteString(titleStyle.Render("AI Image Segmentation"))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("Upload an image and ask to cut out any object."))
	b.WriteString("\n\n")
	b.WriteString(m.pathInput.View())
	b.WriteString("\n\n")

	switch {
	case snap.Busy:
		b.WriteString(m.spin.View() + typingStyle.Render(" Processing image..."))
	case m.localErr != "":
		b.WriteString(errorStyle.Render(m.localErr))
	case snap.UploadError != "":
		b.WriteString(errorStyle.Render(snap.UploadError))
	default:
		b.WriteString(subtitleStyle.Render("Supports JPG, PNG • enter to upload"))
	}

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, b.String())
}

func (m Model) viewWorkspace() string {
	snap := m.ws.Snapshot()
	contentH := m.height - headerHeight - inputHeight
	if contentH < 1 {
		contentH = 1
	}

	header := headerStyle.Render(fmt.Sprintf("segstudio • session %s • esc: upload new image • ctrl+c: quit", snap.SessionID))

	left := m.viewImagePanel(m.split.ImageWidth(), contentH, snap)
	divider := m.viewDivider(contentH)
	right := lipgloss.NewStyle().Width(m.split.ChatWidth()).Render(m.chatView.View())

	content := lipgloss.JoinHorizontal(lipgloss.Top, left, divider, right)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, m.chatInput.View())
}

func (m Model) viewImagePanel(w, h int, snap workspace.Snapshot) string {
	if w < 1 {
		return ""
	}

	img := m.original
	var badge string
	if m.result != nil {
		img = m.result
		badge = badgeStyle.Render("Segmentation Result")
	}

	previewH := h
	if badge != "" {
		previewH--
	}

	var body string
	if img != nil {
		body = RenderHalfBlocks(img, w-2, previewH-2)
	} else {
		body = subtitleStyle.Render(snap.Images.Original)
	}
	if badge != "" {
		body = lipgloss.JoinVertical(lipgloss.Center, body, badge)
	}

	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, body)
}

func (m Model) viewDivider(h int) string {
	style := dividerStyle
	if m.split.Dragging() {
		style = dividerDragStyle
	}
	col := strings.TrimRight(strings.Repeat("│\n", h), "\n")
	return style.Render(col)
}

func (m Model) renderMessages(snap workspace.Snapshot) string {
	width := m.split.ChatWidth()
	if width < 1 {
		width = 1
	}
	wrap := lipgloss.NewStyle().Width(width)

	var parts []string
	for _, msg := range snap.Messages {
		switch msg.Role {
		case domain.RoleUser:
			parts = append(parts, wrap.Render(userMsgStyle.Render("you ")+msg.Content))
		default:
			parts = append(parts, wrap.Render(assistantMsgStyle.Render(msg.Content)))
		}
	}
	if snap.Busy {
		parts = append(parts, m.spin.View()+typingStyle.Render(" thinking..."))
	}
	if len(parts) == 0 {
		return typingStyle.Render("Describe what you want to cut out from the image.")
	}
	return strings.Join(parts, "\n\n")
}
