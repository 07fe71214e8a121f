package ui

import (
	"context"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"tabscope/internal/db"
	"tabscope/internal/ingest"
	"tabscope/internal/util"
	"tabscope/internal/util/logx"
)

// IO and pipeline orchestration
func setupPipeline(m *Model) tea.Cmd {
	if m.cfg.ConnString != "" {
		m.source = util.RedactDSN(m.cfg.ConnString)
		m.busy = true
		return connectCmd(m)
	}

	src := ingest.SourceDemo
	name := "demo"
	switch {
	case m.cfg.UseStdin:
		src = ingest.SourceStdin
		name = "stdin"
	case m.cfg.FilePath != "":
		src = ingest.SourceFile
		name = filepath.Base(m.cfg.FilePath)
	}
	m.source = string(src)
	m.ws.activeTab().name = name

	// Child context so shutdown can stop the reader before the program exits.
	ingestCtx, cancel := context.WithCancel(m.ctx)
	m.ingestCancel = cancel
	lines, errs := ingest.Read(ingestCtx, ingest.Options{Source: src, Path: m.cfg.FilePath, Follow: m.cfg.Follow, ScanBufSize: m.cfg.MaxLine})
	m.srcErrs = errs
	logx.Infof("ingest: source=%s path=%s follow=%v", m.source, m.cfg.FilePath, m.cfg.Follow)

	target := m.ws.activeTab()
	return func() tea.Msg {
		// Blocks until the header line is found (or the source ends first).
		s, err := ingest.Start(ingestCtx, lines)
		if err != nil {
			return startErrMsg{err: err}
		}
		return sessionMsg{target: target, name: name, session: s}
	}
}

func connectCmd(m *Model) tea.Cmd {
	ctx := m.ctx
	dsn := m.cfg.ConnString
	query := m.cfg.Query
	return func() tea.Msg {
		client, err := db.Connect(ctx, dsn)
		if err != nil {
			return startErrMsg{err: err}
		}
		if query != "" {
			res, err := client.Query(ctx, query)
			if err != nil {
				client.Close()
				return startErrMsg{err: err}
			}
			return connectedMsg{client: client, name: "query", mode: viewTableData, res: res}
		}
		res, err := client.Tables(ctx)
		if err != nil {
			client.Close()
			return startErrMsg{err: err}
		}
		return connectedMsg{client: client, name: "tables", mode: viewTableList, res: res}
	}
}

func (m *Model) runQuery(sql string) tea.Cmd {
	m.busy = true
	target := m.ws.activeTab()
	ctx, dbc := m.ctx, m.dbc
	return func() tea.Msg {
		res, err := dbc.Query(ctx, sql)
		return queryMsg{target: target, name: "query", mode: viewTableData, res: res, err: err}
	}
}

// openTable loads rows for the table named on the current list row.
func (m *Model) openTable(t *Tab) tea.Cmd {
	name := t.data.Cell(t.dataRow(t.rowSel), 0)
	if name == "" {
		return nil
	}
	m.busy = true
	ctx, dbc := m.ctx, m.dbc
	limit := m.cfg.RowLimit
	return func() tea.Msg {
		res, err := dbc.TableRows(ctx, name, limit)
		return queryMsg{target: t, name: name, mode: viewTableData, res: res, err: err}
	}
}

func (m *Model) backToTables(t *Tab) tea.Cmd {
	m.busy = true
	ctx, dbc := m.ctx, m.dbc
	return func() tea.Msg {
		res, err := dbc.Tables(ctx)
		return queryMsg{target: t, name: "tables", mode: viewTableList, res: res, err: err}
	}
}

type tickMsg struct{}

// Simple UI toast/status message
type toastMsg struct{ text string }

type sessionMsg struct {
	target  *Tab
	name    string
	session *ingest.Session
}

type startErrMsg struct{ err error }

type connectedMsg struct {
	client *db.Client
	name   string
	mode   ViewMode
	res    *db.Result
}

type queryMsg struct {
	target *Tab
	name   string
	mode   ViewMode
	res    *db.Result
	err    error
}
