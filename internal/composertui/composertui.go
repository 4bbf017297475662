// Package composertui is a terminal surface for driving a composer
// session interactively. It renders the controller's state snapshots
// and translates key input into composer events; all authoring logic
// stays in the controller.
package composertui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/loomchat/loom/internal/composer"
	"github.com/loomchat/loom/internal/media"
	"github.com/loomchat/loom/internal/snackbar"
)

const toastTTL = 4 * time.Second

// Config wires the surface to a running session.
type Config struct {
	Controller *composer.Controller
	Snackbar   *snackbar.Dispatcher
	RoomName   string
}

type stateMsg struct {
	state composer.ComposerState
}

type toastMsg struct {
	message snackbar.Message
}

type toastExpiredMsg struct{}

// Model renders one composer session.
type Model struct {
	ctrl     *composer.Controller
	roomName string

	state  composer.ComposerState
	width  int
	height int

	toast   string
	toastAt time.Time

	states chan composer.ComposerState
	toasts chan snackbar.Message

	unsubState func()
	unsubToast func()
}

// NewModel builds the surface and subscribes it to state snapshots and
// snackbar messages. Both subscriptions use a latest-value mailbox so
// the controller never blocks on a slow terminal.
func NewModel(cfg Config) *Model {
	m := &Model{
		ctrl:     cfg.Controller,
		roomName: cfg.RoomName,
		state:    cfg.Controller.State(),
		states:   make(chan composer.ComposerState, 1),
		toasts:   make(chan snackbar.Message, 8),
	}
	m.unsubState = cfg.Controller.Observe(func(s composer.ComposerState) {
		select {
		case m.states <- s:
		default:
			select {
			case <-m.states:
			default:
			}
			m.states <- s
		}
	})
	m.unsubToast = cfg.Snackbar.Subscribe(func(msg snackbar.Message) {
		select {
		case m.toasts <- msg:
		default:
		}
	})
	return m
}

// Run starts the surface and blocks until the user quits.
func Run(cfg Config) error {
	model := NewModel(cfg)
	defer model.Close()

	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}

// Close removes the subscriptions.
func (m *Model) Close() {
	if m.unsubState != nil {
		m.unsubState()
	}
	if m.unsubToast != nil {
		m.unsubToast()
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.waitForState(), m.waitForToast())
}

func (m *Model) waitForState() tea.Cmd {
	return func() tea.Msg {
		return stateMsg{state: <-m.states}
	}
}

func (m *Model) waitForToast() tea.Cmd {
	return func() tea.Msg {
		return toastMsg{message: <-m.toasts}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case stateMsg:
		m.state = msg.state
		return m, m.waitForState()
	case toastMsg:
		m.toast = msg.message.Text
		m.toastAt = time.Now()
		return m, tea.Batch(m.waitForToast(), tea.Tick(toastTTL, func(time.Time) tea.Msg {
			return toastExpiredMsg{}
		}))
	case toastExpiredMsg:
		if time.Since(m.toastAt) >= toastTTL {
			m.toast = ""
		}
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.state.ShowAttachmentSourcePicker {
		return m.handleSourcePickerKey(msg)
	}
	if _, ok := m.state.Attachments.(composer.AttachmentPreviewing); ok {
		return m.handlePreviewKey(msg)
	}

	switch msg.String() {
	case "ctrl+c":
		return tea.Quit
	case "enter":
		m.ctrl.Submit(composer.SendMessage{})
		m.refresh()
		return nil
	case "esc":
		if _, idle := m.state.Attachments.(composer.AttachmentNone); !idle {
			m.ctrl.Submit(composer.CancelSendAttachment{})
		} else {
			m.ctrl.Submit(composer.CloseSpecialMode{})
		}
		m.refresh()
		return nil
	case "ctrl+a":
		m.ctrl.Submit(composer.AddAttachment{})
		m.refresh()
		return nil
	case "ctrl+f":
		m.ctrl.Submit(composer.ToggleFullScreen{})
		m.refresh()
		return nil
	case "ctrl+t":
		m.ctrl.Submit(composer.ToggleTextFormatting{Enabled: !m.state.ShowTextFormatting})
		m.refresh()
		return nil
	case "tab":
		m.insertFirstSuggestion()
		return nil
	case "backspace":
		body := m.state.Text.Body
		if body != "" {
			m.setText(trimLastRune(body))
		}
		return nil
	}

	switch msg.Type {
	case tea.KeyRunes:
		m.setText(m.state.Text.Body + string(msg.Runes))
		return nil
	case tea.KeySpace:
		m.setText(m.state.Text.Body + " ")
		return nil
	}
	return nil
}

var pickerSources = map[string]media.Source{
	"g": media.SourceGallery,
	"p": media.SourceCameraPhoto,
	"v": media.SourceCameraVideo,
	"f": media.SourceFiles,
	"o": media.SourcePoll,
	"l": media.SourceLocation,
}

func (m *Model) handleSourcePickerKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	if key == "ctrl+c" {
		return tea.Quit
	}
	if source, ok := pickerSources[key]; ok {
		m.ctrl.Submit(composer.PickAttachmentSource{Source: source})
	} else {
		m.ctrl.Submit(composer.DismissAttachmentMenu{})
	}
	m.refresh()
	return nil
}

func (m *Model) handlePreviewKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c":
		return tea.Quit
	case "enter", "y":
		m.ctrl.Submit(composer.ConfirmSendAttachment{})
	case "esc", "n":
		m.ctrl.Submit(composer.CancelSendAttachment{})
	}
	m.refresh()
	return nil
}

// setText pushes the edited body and the derived typing edge and
// suggestion span.
func (m *Model) setText(body string) {
	wasEmpty := m.state.Text.Body == ""
	m.ctrl.Submit(composer.ChangeText{Body: body})
	if wasEmpty && body != "" {
		m.ctrl.Submit(composer.TypingNotice{IsTyping: true})
	}
	if body == "" && !wasEmpty {
		m.ctrl.Submit(composer.TypingNotice{IsTyping: false})
	}
	m.ctrl.Submit(composer.SuggestionReceived{Suggestion: activeSuggestion(body)})
	m.refresh()
}

func (m *Model) insertFirstSuggestion() {
	if len(m.state.MemberSuggestions) == 0 {
		return
	}
	picked := m.state.MemberSuggestions[0]
	m.ctrl.Submit(composer.InsertMention{Suggestion: picked})

	body := m.state.Text.Body
	if at := strings.LastIndex(body, "@"); at >= 0 {
		m.ctrl.Submit(composer.ChangeText{Body: body[:at] + suggestionText(picked) + " "})
	}
	m.refresh()
}

// refresh pulls the snapshot directly after a submitted event, keeping
// key handling responsive without waiting for the mailbox round trip.
func (m *Model) refresh() {
	m.state = m.ctrl.State()
}

// activeSuggestion derives the suggestion span from the trailing word
// of the body: "@query" opens a mention span, "/word" a command span.
func activeSuggestion(body string) *composer.Suggestion {
	if body == "" {
		return nil
	}
	lastSpace := strings.LastIndexAny(body, " \n")
	word := body[lastSpace+1:]
	switch {
	case strings.HasPrefix(word, "@"):
		return &composer.Suggestion{
			Kind:  composer.SuggestionMention,
			Text:  word[1:],
			Start: lastSpace + 1,
			End:   len(body),
		}
	case strings.HasPrefix(word, "/"):
		return &composer.Suggestion{
			Kind:  composer.SuggestionCommand,
			Text:  word[1:],
			Start: lastSpace + 1,
			End:   len(body),
		}
	default:
		return nil
	}
}

func suggestionText(s composer.MentionSuggestion) string {
	switch sug := s.(type) {
	case composer.SuggestionAtRoom:
		return "@room"
	case composer.SuggestionMember:
		if sug.Member.DisplayName != "" {
			return sug.Member.DisplayName
		}
		return string(sug.Member.UserID)
	default:
		return ""
	}
}

func trimLastRune(s string) string {
	runes := []rune(s)
	return string(runes[:len(runes)-1])
}
