package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"tabscope/internal/export"
	"tabscope/internal/ingest"
	"tabscope/internal/util/logx"
)

const (
	// tickInterval paces ingestion drains; drainCap bounds rows pulled from
	// one session per tick so a fast producer cannot starve the render loop.
	tickInterval = 100 * time.Millisecond
	drainCap     = 20000
)

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg { return tickMsg{} })
}

func (m *Model) buildHelpItems() []helpItem {
	km := m.keymap
	return []helpItem{
		{group: "Rows", text: "Previous row", key: tea.Key{Type: tea.KeyUp}},
		{group: "Rows", text: "Next row", key: tea.Key{Type: tea.KeyDown}},
		{group: "Rows", text: "Page up", key: tea.Key{Type: tea.KeyPgUp}},
		{group: "Rows", text: "Page down", key: tea.Key{Type: tea.KeyPgDown}},
		{group: "Rows", text: "Go to first row", key: km.Top},
		{group: "Rows", text: "Go to last row", key: km.Bottom},
		{group: "Rows", text: "Filter rows", key: km.Filter},
		{group: "Rows", text: "Inspect row", key: km.Inspect},

		{group: "Columns", text: "Previous column", key: km.ColLeft},
		{group: "Columns", text: "Next column", key: km.ColRight},
		{group: "Columns", text: "Move column left", key: km.MoveColL},
		{group: "Columns", text: "Move column right", key: km.MoveColR},
		{group: "Columns", text: "Hide column", key: km.HideCol},
		{group: "Columns", text: "Show all columns", key: km.ShowCols},
		{group: "Columns", text: "Widen column", key: km.WidenCol},
		{group: "Columns", text: "Narrow column", key: km.NarrowCol},
		{group: "Columns", text: "Reset layout", key: km.ResetCols},

		{group: "Data", text: "Run SQL query", key: km.Query},
		{group: "Data", text: "Back to table list", key: km.Back},
		{group: "Data", text: "Copy cell", key: km.CopyCell},
		{group: "Data", text: "Copy row", key: km.CopyRow},

		{group: "Tabs", text: "Next tab", key: km.NextTab},
		{group: "Tabs", text: "Previous tab", key: km.PrevTab},
		{group: "Tabs", text: "Duplicate tab", key: km.DupTab},
		{group: "Tabs", text: "Close tab", key: km.CloseTab},

		{group: "Export", text: "Save view as...", key: km.SaveAs},
		{group: "Export", text: "Quick export", key: km.Export},

		{group: "App", text: "Application logs", key: km.AppLogs},
		{group: "App", text: "Help", key: km.Help},
		{group: "App", text: "Quit", key: km.Quit},
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth, m.termHeight = msg.Width, msg.Height
		m.tbl.SetWidth(msg.Width)
		m.tbl.SetHeight(m.tableHeight())
		m.input.Width = msg.Width - 4
		if m.modalActive {
			m.resizeModal()
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, m.shutdown()
		}
		if m.modalActive {
			return m.updateModal(msg)
		}
		if m.inlineMode != inlineNone {
			return m.updateInline(msg)
		}
		return m.updateKeys(msg)

	case tickMsg:
		m.onTick()
		return m, tickCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case sessionMsg:
		if !m.tabExists(msg.target) {
			msg.session.Close()
			return m, nil
		}
		msg.target.replace(msg.name, viewStream, msg.session.Headers(), nil)
		msg.target.session = msg.session
		m.lastMsg = "streaming from " + m.source
		logx.Infof("session: headers=%d source=%s", len(msg.session.Headers()), m.source)
		m.refresh()
		return m, nil

	case startErrMsg:
		if errors.Is(msg.err, context.Canceled) {
			return m, tea.Quit
		}
		m.busy = false
		if errors.Is(msg.err, ingest.ErrInvalidFormat) {
			m.lastMsg = "input does not look like psql table output"
		} else {
			m.lastMsg = msg.err.Error()
		}
		logx.Errorf("start: %v", msg.err)
		return m, nil

	case connectedMsg:
		m.busy = false
		m.dbc = msg.client
		m.ws.activeTab().replace(msg.name, msg.mode, msg.res.Headers, msg.res.Rows)
		m.lastMsg = fmt.Sprintf("%s: %d rows", msg.name, len(msg.res.Rows))
		logx.Infof("db: connected to %s", m.source)
		m.refresh()
		return m, nil

	case queryMsg:
		m.busy = false
		if msg.err != nil {
			m.lastMsg = msg.err.Error()
			logx.Errorf("db: %v", msg.err)
			return m, nil
		}
		if !m.tabExists(msg.target) {
			return m, nil
		}
		msg.target.replace(msg.name, msg.mode, msg.res.Headers, msg.res.Rows)
		m.lastMsg = fmt.Sprintf("%s: %d rows", msg.name, len(msg.res.Rows))
		m.refresh()
		return m, nil

	case toastMsg:
		m.lastMsg = msg.text
		return m, nil
	}
	return m, nil
}

func (m *Model) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEsc || (msg.Type == tea.KeyRunes && msg.String() == "q") ||
		(m.modalKind == modalHelp && msg.Type == tea.KeyRunes && msg.String() == "?") {
		m.closeModal()
		return m, nil
	}
	if msg.Type == tea.KeyEnter {
		if m.modalKind == modalHelp && len(m.helpItems) > 0 {
			it := m.helpItems[m.helpSel]
			m.closeModal()
			return m, keyCmd(it.key)
		}
		m.closeModal()
		return m, nil
	}
	if m.modalKind == modalHelp {
		switch msg.String() {
		case "up", "k":
			if m.helpSel > 0 {
				m.helpSel--
				m.modalVP.SetContent(m.renderHelp())
			}
		case "down", "j":
			if m.helpSel+1 < len(m.helpItems) {
				m.helpSel++
				m.modalVP.SetContent(m.renderHelp())
			}
		}
		return m, nil
	}
	if msg.Type == tea.KeyRunes && msg.String() == "c" {
		copyToClipboard(m.modalBody)
		m.lastMsg = "copied to clipboard"
		return m, nil
	}
	var cmd tea.Cmd
	m.modalVP, cmd = m.modalVP.Update(msg)
	return m, cmd
}

func (m *Model) updateInline(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		if m.inlineMode == inlineFilter {
			m.ws.activeTab().setFilter("")
			m.refresh()
		}
		m.closeInline()
		return m, nil
	case tea.KeyEnter:
		val := strings.TrimSpace(m.input.Value())
		mode := m.inlineMode
		m.closeInline()
		switch mode {
		case inlineFilter:
			m.ws.activeTab().setFilter(val)
			m.refresh()
		case inlineQuery:
			if val != "" {
				return m, m.runQuery(val)
			}
		case inlineSaveAs:
			if val == "" {
				val = "export.csv"
			}
			return m, m.saveViewCmd(val, "")
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.inlineMode == inlineFilter {
		// Live preview while typing.
		m.ws.activeTab().setFilter(m.input.Value())
		m.refresh()
	}
	return m, cmd
}

func (m *Model) openInline(mode inlineMode, initial string) {
	m.inlineMode = mode
	switch mode {
	case inlineFilter:
		m.input.Prompt = "/"
		m.input.Placeholder = "text or /regex/"
	case inlineQuery:
		m.input.Prompt = ": "
		m.input.Placeholder = "SELECT ..."
	case inlineSaveAs:
		m.input.Prompt = "save: "
		m.input.Placeholder = "export.csv"
	}
	m.input.SetValue(initial)
	m.input.CursorEnd()
	m.input.Focus()
}

func (m *Model) closeInline() {
	m.inlineMode = inlineNone
	m.input.Blur()
}

// saveViewCmd snapshots the active tab's view before the write runs async.
func (m *Model) saveViewCmd(path, format string) tea.Cmd {
	headers, rows := m.ws.activeTab().exportView()
	v := export.View{Headers: headers, Rows: rows}
	return func() tea.Msg {
		var err error
		switch format {
		case "csv":
			err = export.ToCSV(path, v)
		case "json":
			err = export.ToJSON(path, v)
		default:
			err = export.Save(path, v)
		}
		if err != nil {
			logx.Errorf("export: %v", err)
			return toastMsg{text: "export failed: " + err.Error()}
		}
		logx.Infof("export: wrote %d rows to %s", len(rows), path)
		return toastMsg{text: fmt.Sprintf("saved %d rows to %s", len(rows), path)}
	}
}

func (m *Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	t := m.ws.activeTab()
	switch {
	case keyMatches(msg, m.keymap.Quit):
		return m, m.shutdown()
	case keyMatches(msg, m.keymap.Help):
		m.openHelpModal()
		return m, nil
	case keyMatches(msg, m.keymap.AppLogs):
		m.openLogsModal()
		return m, nil
	case keyMatches(msg, m.keymap.Top), msg.Type == tea.KeyHome:
		t.rowSel = 0
		m.refresh()
		return m, nil
	case keyMatches(msg, m.keymap.Bottom), msg.Type == tea.KeyEnd:
		t.rowSel = t.rowCount() - 1
		m.refresh()
		return m, nil
	case keyMatches(msg, m.keymap.ColLeft), msg.Type == tea.KeyLeft:
		t.colSel--
		m.refresh()
		return m, nil
	case keyMatches(msg, m.keymap.ColRight), msg.Type == tea.KeyRight:
		t.colSel++
		m.refresh()
		return m, nil
	case keyMatches(msg, m.keymap.MoveColL):
		t.moveColumn(-1)
		m.refresh()
		return m, nil
	case keyMatches(msg, m.keymap.MoveColR):
		t.moveColumn(1)
		m.refresh()
		return m, nil
	case keyMatches(msg, m.keymap.HideCol):
		t.hideColumn()
		m.refresh()
		return m, nil
	case keyMatches(msg, m.keymap.ShowCols):
		t.showAllColumns()
		m.refresh()
		return m, nil
	case keyMatches(msg, m.keymap.WidenCol):
		t.adjustWidth(2)
		m.refresh()
		return m, nil
	case keyMatches(msg, m.keymap.NarrowCol):
		t.adjustWidth(-2)
		m.refresh()
		return m, nil
	case keyMatches(msg, m.keymap.ResetCols):
		t.resetColumns()
		m.lastMsg = "layout reset"
		m.refresh()
		return m, nil
	case keyMatches(msg, m.keymap.Filter):
		m.openInline(inlineFilter, t.filter)
		return m, nil
	case keyMatches(msg, m.keymap.Query):
		if m.dbc == nil {
			m.lastMsg = "not connected; start with --connect"
			return m, nil
		}
		m.openInline(inlineQuery, "")
		return m, nil
	case keyMatches(msg, m.keymap.SaveAs):
		m.openInline(inlineSaveAs, "export.csv")
		return m, nil
	case keyMatches(msg, m.keymap.Export):
		if m.cfg.ExportFormat == "" || m.cfg.ExportOut == "" {
			m.lastMsg = "quick export needs --export and --out"
			return m, nil
		}
		return m, m.saveViewCmd(m.cfg.ExportOut, m.cfg.ExportFormat)
	case keyMatches(msg, m.keymap.CopyCell):
		c := t.selectedColumn()
		r := t.dataRow(t.rowSel)
		if c >= 0 && r >= 0 {
			copyToClipboard(t.data.Cell(r, c))
			m.lastMsg = "cell copied"
		}
		return m, nil
	case keyMatches(msg, m.keymap.CopyRow):
		if r := t.dataRow(t.rowSel); r >= 0 {
			cells := []string{}
			for _, c := range t.visibleCols() {
				cells = append(cells, t.data.Cell(r, c))
			}
			copyToClipboard(strings.Join(cells, "\t"))
			m.lastMsg = "row copied"
		}
		return m, nil
	case keyMatches(msg, m.keymap.Inspect):
		if t.mode == viewTableList && m.dbc != nil {
			return m, m.openTable(t)
		}
		m.openInspectModal(t)
		return m, nil
	case keyMatches(msg, m.keymap.Back):
		if t.mode == viewTableData && m.dbc != nil {
			return m, m.backToTables(t)
		}
		return m, nil
	case msg.Type == tea.KeyEsc:
		if t.filter != "" {
			t.setFilter("")
			m.lastMsg = "filter cleared"
			m.refresh()
		}
		return m, nil
	case keyMatches(msg, m.keymap.NextTab):
		m.ws.next()
		m.refresh()
		return m, nil
	case keyMatches(msg, m.keymap.PrevTab):
		m.ws.prev()
		m.refresh()
		return m, nil
	case keyMatches(msg, m.keymap.DupTab):
		m.ws.add(t.clone())
		m.lastMsg = "duplicated " + t.name
		m.refresh()
		return m, nil
	case keyMatches(msg, m.keymap.CloseTab):
		if m.ws.count() == 1 {
			m.lastMsg = "cannot close the last tab"
			return m, nil
		}
		m.ws.closeActive()
		m.refresh()
		return m, nil
	}
	if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 && msg.Runes[0] >= '1' && msg.Runes[0] <= '9' {
		m.ws.switchTo(int(msg.Runes[0] - '1'))
		m.refresh()
		return m, nil
	}
	// Anything else belongs to the table widget. Its cursor is relative to
	// the projected window, so map it back before re-projecting.
	var cmd tea.Cmd
	m.tbl, cmd = m.tbl.Update(msg)
	t.rowSel = m.winStart + m.tbl.Cursor()
	m.refresh()
	return m, cmd
}

func (m *Model) onTick() {
	dirty := false
	for _, t := range m.ws.tabs {
		s := t.session
		if s == nil {
			continue
		}
		rows := s.TryReceive(drainCap)
		if s.IsComplete() {
			rows = append(rows, s.TryReceive(0)...)
		}
		if len(rows) > 0 {
			t.appendRows(rows)
			if t == m.ws.activeTab() {
				dirty = true
			}
		}
		if s.IsComplete() {
			n := s.Rows()
			if s.IsCancelled() {
				m.lastMsg = fmt.Sprintf("%s: stopped at %d rows", t.name, n)
			} else {
				m.lastMsg = fmt.Sprintf("%s: %d rows", t.name, n)
			}
			logx.Infof("session: %s complete rows=%d cancelled=%v", t.name, n, s.IsCancelled())
			s.Close()
			t.session = nil
			if t == m.ws.activeTab() {
				dirty = true
			}
		}
	}
	m.updateRate()
	m.drainSourceErrors()
	if dirty {
		m.refresh()
	}
}

// updateRate smooths rows/sec of the active session with an EWMA.
func (m *Model) updateRate() {
	s := m.ws.activeTab().session
	if s == nil {
		m.rateEWMA = 0
		m.rateRows = 0
		m.rateLast = time.Time{}
		return
	}
	now := time.Now()
	rows := s.Rows()
	if m.rateLast.IsZero() {
		m.rateRows, m.rateLast = rows, now
		return
	}
	dt := now.Sub(m.rateLast).Seconds()
	if dt <= 0 {
		return
	}
	inst := float64(rows-m.rateRows) / dt
	const alpha = 0.3
	m.rateEWMA = alpha*inst + (1-alpha)*m.rateEWMA
	m.rateRows, m.rateLast = rows, now
}

func (m *Model) drainSourceErrors() {
	if m.srcErrs == nil {
		return
	}
	for i := 0; i < 20; i++ {
		select {
		case err, ok := <-m.srcErrs:
			if !ok {
				m.srcErrs = nil
				return
			}
			logx.Errorf("source: %v", err)
			m.lastMsg = err.Error()
		default:
			return
		}
	}
}

// shutdown stops producers before the program tears down the terminal.
func (m *Model) shutdown() tea.Cmd {
	for _, t := range m.ws.tabs {
		if t.session != nil {
			t.session.Close()
			t.session = nil
		}
	}
	if m.ingestCancel != nil {
		m.ingestCancel()
	}
	if m.dbc != nil {
		m.dbc.Close()
	}
	return tea.Quit
}

func (m *Model) tabExists(t *Tab) bool {
	for _, x := range m.ws.tabs {
		if x == t {
			return true
		}
	}
	return false
}

func (m *Model) closeModal() {
	m.modalActive = false
	m.modalKind = modalNone
}
