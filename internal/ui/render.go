package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"tabscope/internal/util/logx"
)

func (m *Model) View() string {
	t := m.ws.activeTab()
	v := lipgloss.JoinVertical(lipgloss.Left, m.tbl.View(), m.renderBottom(t), m.renderStatus(t))
	if m.modalActive {
		// Dim the background content while keeping it visible
		dimmed := lipgloss.NewStyle().Faint(true).Render(v)
		v = overlay(dimmed, m.renderModal())
	}
	return v
}

func (m *Model) renderBottom(t *Tab) string {
	if m.inlineMode != inlineNone {
		hint := "[enter]=apply [esc]=cancel"
		if m.inlineMode == inlineSaveAs {
			hint = "[enter]=save [esc]=cancel"
		}
		return m.input.View() + "    " + m.styles.Help.Render(hint)
	}
	if t.filter != "" {
		return m.styles.Help.Render(fmt.Sprintf("filter: %s    [esc]=clear", t.filter))
	}
	// Keep the layout stable with a spacer line.
	if m.termWidth > 0 {
		return strings.Repeat(" ", m.termWidth)
	}
	return ""
}

func (m *Model) renderStatus(t *Tab) string {
	parts := []string{"[" + t.name + "]"}

	row := fmt.Sprintf("row %d/%d", min(t.rowSel+1, t.rowCount()), t.rowCount())
	if t.filter != "" {
		row += fmt.Sprintf(" (of %d)", t.data.NumRows())
	}
	parts = append(parts, row)

	vis := len(t.visibleCols())
	col := fmt.Sprintf("col %d/%d", min(t.colSel+1, vis), vis)
	if hidden := t.data.NumCols() - vis; hidden > 0 {
		col += fmt.Sprintf(" +%d hidden", hidden)
	}
	parts = append(parts, col)

	if t.session != nil {
		read := fmt.Sprintf("%s %d read", m.spin.View(), t.session.Rows())
		if m.rateEWMA >= 0.05 {
			read += fmt.Sprintf(" %.1f/s", m.rateEWMA)
		}
		parts = append(parts, read)
	} else if m.busy {
		parts = append(parts, m.spin.View()+" working")
	}
	if n := m.ws.count(); n > 1 {
		parts = append(parts, fmt.Sprintf("tab %d/%d", m.ws.active+1, n))
	}
	parts = append(parts, "[?]=help")
	if m.lastMsg != "" {
		parts = append(parts, m.lastMsg)
	}
	return m.styles.Status.Render(strings.Join(parts, " | "))
}

func (m *Model) openHelpModal() {
	m.modalActive = true
	m.modalKind = modalHelp
	m.modalTitle = "Help"
	m.helpItems = m.buildHelpItems()
	m.helpSel = 0
	m.resizeModal()
}

func (m *Model) openInspectModal(t *Tab) {
	r := t.dataRow(t.rowSel)
	if r < 0 {
		return
	}
	m.modalActive = true
	m.modalKind = modalInspect
	m.modalTitle = fmt.Sprintf("%s, row %d", t.name, t.rowSel+1)
	m.modalBody = inspectBody(t, r)
	m.resizeModal()
}

// inspectBody lays the row out vertically, one field per line, hidden
// columns marked with a dot.
func inspectBody(t *Tab, row int) string {
	hdrs := t.data.Headers()
	w := 0
	for _, h := range hdrs {
		w = max(w, runewidth.StringWidth(h))
	}
	var b strings.Builder
	for _, c := range t.order {
		if c >= len(hdrs) {
			continue
		}
		mark := " "
		if t.hidden[c] {
			mark = "·"
		}
		name := hdrs[c]
		pad := strings.Repeat(" ", w-runewidth.StringWidth(name))
		fmt.Fprintf(&b, "%s %s%s  %s\n", mark, name, pad, t.data.Cell(row, c))
	}
	return b.String()
}

func (m *Model) openLogsModal() {
	m.modalActive = true
	m.modalKind = modalLogs
	m.modalTitle = "Application Log"
	m.modalBody = logx.Dump()
	m.resizeModal()
}

func (m *Model) resizeModal() {
	w := m.termWidth - 6
	h := m.termHeight - 6
	if w < 20 {
		w = 20
	}
	if h < 5 {
		h = 5
	}
	m.modalVP = viewport.New(w-4, h-4)
	m.modalVP.SetContent(m.modalBody)
}

func (m *Model) renderModal() string {
	var content string
	switch m.modalKind {
	case modalHelp:
		m.modalVP.SetContent(m.renderHelp())
		content = m.modalVP.View() + "\n[enter]=run  [esc]=close"
	case modalLogs:
		header := m.styles.Help.Render("source: " + m.source)
		content = header + "\n" + m.modalVP.View() + "\n[c]=copy  [esc/enter]=close"
	default:
		content = m.modalVP.View() + "\n[c]=copy  [esc/enter]=close"
	}
	boxW := m.termWidth - 6
	if boxW < 20 {
		boxW = 20
	}
	title := m.styles.PopupTitle.Render(m.modalTitle)
	body := m.styles.PopupBox.Width(boxW).Render(title + "\n" + content)
	// Center the box; the dimmed view stays visible around it.
	return lipgloss.Place(m.termWidth, m.termHeight, lipgloss.Center, lipgloss.Center, body)
}

func (m *Model) renderHelp() string {
	if m.helpSel < 0 {
		m.helpSel = 0
	}
	if m.helpSel >= len(m.helpItems) {
		m.helpSel = len(m.helpItems) - 1
	}
	lines := []string{"Shortcuts:"}
	currentGroup := ""
	selLine := 0
	for i, it := range m.helpItems {
		if it.group != currentGroup {
			currentGroup = it.group
			lines = append(lines, "", currentGroup+":")
		}
		prefix := "  "
		if i == m.helpSel {
			prefix = "> "
			selLine = len(lines)
		}
		lines = append(lines, fmt.Sprintf("%s[%s] %s", prefix, keyLabel(it.key), it.text))
	}
	// Keep the selection visible in the viewport.
	if m.modalVP.Height > 0 {
		top := m.modalVP.YOffset
		bottom := top + m.modalVP.Height - 1
		if selLine <= top {
			m.modalVP.YOffset = max(selLine-1, 0)
		} else if selLine >= bottom {
			m.modalVP.YOffset = max(selLine-m.modalVP.Height+2, 0)
		}
	}
	return m.styles.Help.Render(strings.Join(lines, "\n"))
}
