package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/pcbuild/internal/present"
	"github.com/Iron-Ham/pcbuild/internal/tui/keymap"
	"github.com/Iron-Ham/pcbuild/internal/util"
	"github.com/Iron-Ham/pcbuild/internal/walkthrough"
)

// defaultWidth is used until the first WindowSizeMsg arrives.
const defaultWidth = 80

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	width := m.width
	if width == 0 {
		width = defaultWidth
	}

	var body string
	switch m.walk.Mode() {
	case walkthrough.ModeMenu:
		body = m.renderMenu(width)
	case walkthrough.ModeParts:
		body = m.renderParts(width)
	default:
		body = m.renderAssembly(width)
	}

	sections := []string{m.renderHeader(width), body}
	if m.showHelp {
		sections = append(sections, m.renderHelpPanel())
	}
	if line := m.renderStatusLine(width); line != "" {
		sections = append(sections, line)
	}
	sections = append(sections, m.renderHelpBar(width))

	view := lipgloss.JoinVertical(lipgloss.Left, sections...)
	if m.height > 0 {
		view = lipgloss.NewStyle().MaxHeight(m.height).Render(view)
	}
	return view
}

func (m Model) renderHeader(width int) string {
	s := m.styles
	seq := m.walk.Sequencer()
	step := seq.Current()

	title := s.Title.Render(m.walk.Guide().Title)
	if step.Title() != "" {
		title += s.Muted.Render("  ·  ") + s.Text.Render(step.Title())
	}
	counter := s.Muted.Render(fmt.Sprintf("step %d/%d", step.Index(), seq.Len()-1))
	bar := m.progress.ViewAs(m.walk.Progress())

	line := lipgloss.JoinHorizontal(lipgloss.Center, bar, "  ", counter)
	return s.Header.Width(width).Render(
		util.TruncateANSI(title, width) + "\n" + line,
	)
}

func (m Model) renderAssembly(width int) string {
	s := m.styles
	st := m.walk.State()

	var parts []string
	parts = append(parts, m.renderControls())

	if !st.MessageHidden && st.Message != "" {
		parts = append(parts, s.Message.Render(util.TruncateANSI(st.Message, width-4)))
	}
	if st.MilestoneVisible {
		parts = append(parts, m.renderMilestone(width))
	}
	if m.showStage {
		parts = append(parts, m.renderStage(width))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderControls() string {
	s := m.styles
	st := m.walk.State()
	label := map[present.Control]string{
		present.ControlPrevious: "◀ previous",
		present.ControlMenu:     "menu",
		present.ControlNext:     "next ▶",
	}

	var out []string
	for _, c := range []present.Control{present.ControlPrevious, present.ControlMenu, present.ControlNext} {
		style := s.ControlDisabled
		if st.Enabled(c) {
			style = s.ControlEnabled
		}
		out = append(out, style.Render("["+label[c]+"]"))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, out...)
}

func (m Model) renderMilestone(width int) string {
	s := m.styles
	ms := m.walk.State().Milestone
	inner := max(20, min(width, 72)-4)

	lines := []string{}
	if ms.StepLabel != "" {
		lines = append(lines, s.MilestoneLabel.Render(ms.StepLabel))
	}
	lines = append(lines, s.MilestoneInstruction.Render(util.Wrap(ms.Instruction, inner)))
	if ms.Detail != "" {
		lines = append(lines, s.MilestoneDetail.Render(util.Wrap(ms.Detail, inner)))
	}
	if ms.Scene != "" {
		lines = append(lines, s.Muted.Render("scene: "+ms.Scene))
	}
	return s.Milestone.Width(inner + 2).Render(strings.Join(lines, "\n"))
}

func (m Model) renderStage(width int) string {
	s := m.styles
	stage := m.walk.Stage()
	inner := max(20, min(width, 72)-4)

	lines := []string{util.Rule("Stage", inner)}
	anchors := stage.Anchors()
	if len(anchors) == 0 {
		lines = append(lines, s.Muted.Render("nothing anchored"))
	}
	for _, h := range anchors {
		lines = append(lines, fmt.Sprintf("%s %s",
			s.Anchor.Render(h.Title()),
			s.Muted.Render(fmt.Sprintf("(%d entities, %d collision shapes)", len(h.Entities()), h.Collidable())),
		))
	}
	for _, n := range stage.Posted() {
		lines = append(lines, s.Notification.Render(util.TruncateANSI(
			fmt.Sprintf("⚑ %s: %s ×%d", n.Trigger, n.Message, n.Count), inner)))
	}
	if len(m.feed.lines) > 0 {
		lines = append(lines, util.Rule("Recent", inner))
		for _, l := range m.feed.lines {
			lines = append(lines, s.Muted.Render(util.TruncateANSI(l, inner)))
		}
	}
	return s.Stage.Width(inner + 2).Render(strings.Join(lines, "\n"))
}

func (m Model) renderMenu(width int) string {
	s := m.styles
	var b strings.Builder
	b.WriteString(s.PopupTitle.Render(m.walk.Guide().Title))
	b.WriteString("\n")
	if d := m.walk.Guide().Description; d != "" {
		b.WriteString(s.Subtitle.Render(util.Wrap(d, 40)))
		b.WriteString("\n\n")
	}
	items := []struct{ key, label string }{
		{"s", "Start building PC"},
		{"i", "Identify PC parts"},
		{"q", "Quit"},
	}
	for _, it := range items {
		b.WriteString(s.MenuKey.Render(it.key) + "  " + s.Text.Render(it.label) + "\n")
	}
	if m.walk.Sequencer().Cursor() != 0 {
		b.WriteString(s.Muted.Render("esc  back to step " + fmt.Sprint(m.walk.Sequencer().Cursor())))
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, s.Popup.Render(strings.TrimRight(b.String(), "\n")))
}

func (m Model) renderParts(width int) string {
	s := m.styles
	inner := max(20, min(width, 64)-8)
	var b strings.Builder
	b.WriteString(s.PopupTitle.Render("PC parts"))
	b.WriteString("\n")
	parts := m.walk.Guide().Parts
	if len(parts) == 0 {
		b.WriteString(s.Muted.Render("This guide lists no parts."))
	}
	for i, p := range parts {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(s.PartName.Render(p.Name) + "\n")
		b.WriteString(s.Muted.Render(util.Wrap(p.Description, inner)) + "\n")
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, s.Popup.Render(strings.TrimRight(b.String(), "\n")))
}

func (m Model) renderStatusLine(width int) string {
	switch {
	case m.errorMessage != "":
		return m.styles.Error.Render(util.TruncateANSI("✗ "+m.errorMessage, width))
	case m.notice != "":
		return m.styles.Muted.Render(util.TruncateANSI(m.notice, width))
	}
	return ""
}

func (m Model) renderHelpBar(width int) string {
	s := m.styles
	var parts []string
	for _, h := range m.keymap.Help(keymap.Mode(m.walk.Mode())) {
		parts = append(parts, s.HelpKey.Render(h.Keys)+" "+h.Description)
	}
	return s.HelpBar.Render(util.TruncateANSI(strings.Join(parts, "  "), width))
}

func (m Model) renderHelpPanel() string {
	s := m.styles
	mode := keymap.Mode(m.walk.Mode())
	var b strings.Builder
	for _, cat := range m.keymap.GetCategories(mode) {
		b.WriteString(s.Title.Render(cat) + "\n")
		for _, kb := range m.keymap.GetModeBindings(mode) {
			if kb.Category != cat {
				continue
			}
			b.WriteString(fmt.Sprintf("  %-8s %s\n", s.HelpKey.Render(kb.String()), kb.Description))
		}
	}
	return s.Stage.Render(strings.TrimRight(b.String(), "\n"))
}
