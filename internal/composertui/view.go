package composertui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/loomchat/loom/internal/composer"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	modeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33")).
			Bold(true)

	inputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)

	suggestionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("114"))

	toastStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")).
			Bold(true)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	attachmentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("178"))
)

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("loom · "+m.roomName) + "\n\n")

	if line := modeLine(m.state.Mode); line != "" {
		b.WriteString(modeStyle.Render(line) + "\n")
	}
	if line := attachmentLine(m.state.Attachments); line != "" {
		b.WriteString(attachmentStyle.Render(line) + "\n")
	}

	width := m.width - 4
	if width < 20 {
		width = 20
	}
	b.WriteString(inputStyle.Width(width).Render(m.state.Text.Body+"▋") + "\n")

	if len(m.state.MemberSuggestions) > 0 {
		b.WriteString(suggestionStyle.Render(suggestionLine(m.state.MemberSuggestions)) + "\n")
	}

	if m.state.ShowAttachmentSourcePicker {
		b.WriteString("\nattach: [g]allery  [p]hoto  [v]ideo  [f]ile  p[o]ll  [l]ocation  (any other key closes)\n")
	}

	if m.toast != "" {
		b.WriteString("\n" + toastStyle.Render("! "+m.toast) + "\n")
	}

	b.WriteString("\n" + hintStyle.Render(hintLine(m.state)))
	return b.String()
}

func modeLine(mode composer.ComposeMode) string {
	switch mo := mode.(type) {
	case composer.ModeEdit:
		return "editing message"
	case composer.ModeReply:
		target := mo.SenderName
		if target == "" {
			target = string(mo.EventID)
		}
		if mo.InThread {
			return "replying in thread to " + target
		}
		return "replying to " + target
	case composer.ModeQuote:
		return "quoting"
	default:
		return ""
	}
}

func attachmentLine(state composer.AttachmentState) string {
	switch at := state.(type) {
	case composer.AttachmentPreviewing:
		return fmt.Sprintf("attachment: %s (%d bytes), send? [y/n]", at.Media.Name, at.Media.SizeBytes)
	case composer.AttachmentProcessing:
		return fmt.Sprintf("processing %s…", at.Media.Name)
	case composer.AttachmentUploading:
		return "uploading " + progressBar(at.Progress)
	default:
		return ""
	}
}

func progressBar(progress float64) string {
	const cells = 20
	filled := int(progress * cells)
	if filled > cells {
		filled = cells
	}
	return fmt.Sprintf("[%s%s] %3.0f%%",
		strings.Repeat("█", filled),
		strings.Repeat("░", cells-filled),
		progress*100)
}

func suggestionLine(suggestions []composer.MentionSuggestion) string {
	parts := make([]string, 0, len(suggestions))
	for _, s := range suggestions {
		parts = append(parts, suggestionText(s))
	}
	return "mention (tab to pick): " + strings.Join(parts, "  ")
}

func hintLine(state composer.ComposerState) string {
	hints := []string{"enter send", "ctrl+a attach", "esc back", "ctrl+c quit"}
	if state.CanShareLocation {
		hints = append(hints, "location enabled")
	}
	if state.IsFullScreen {
		hints = append(hints, "fullscreen")
	}
	return strings.Join(hints, " · ")
}
