package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"tabscope/internal/config"
	"tabscope/internal/db"
)

type modalKind int

const (
	modalNone modalKind = iota
	modalHelp
	modalInspect
	modalLogs
)

type inlineMode int

const (
	inlineNone inlineMode = iota
	inlineFilter
	inlineQuery
	inlineSaveAs
)

type Model struct {
	ctx context.Context
	cfg *config.Config
	// cancel for the line source feeding the streaming tab
	ingestCancel context.CancelFunc

	ws  *Workspace
	dbc *db.Client

	// Source read failures arrive here; drained and logged per tick.
	srcErrs <-chan error

	tbl     table.Model
	input   textinput.Model
	spin    spinner.Model
	modalVP viewport.Model
	styles  Styles
	keymap  KeyMap

	termWidth  int
	termHeight int

	// winStart is the row-window origin of the last projection. The table
	// widget's cursor is window-relative and maps back through it.
	winStart int

	inlineMode inlineMode

	modalActive bool
	modalKind   modalKind
	modalTitle  string
	modalBody   string

	helpItems []helpItem
	helpSel   int

	// status
	source  string
	lastMsg string
	busy    bool // a database command is in flight

	// rows/sec of the active session, EWMA-smoothed
	rateEWMA float64
	rateRows int64
	rateLast time.Time
}

type helpItem struct {
	group string
	text  string
	key   tea.Key
}

// keyCmd replays a key through Update, which is how the help modal runs the
// command a help entry describes.
func keyCmd(k tea.Key) tea.Cmd {
	return func() tea.Msg {
		if k.Type == tea.KeyRunes {
			return tea.KeyMsg{Type: k.Type, Runes: k.Runes}
		}
		return tea.KeyMsg{Type: k.Type}
	}
}

func keyLabel(k tea.Key) string {
	switch k.Type {
	case tea.KeyRunes:
		if len(k.Runes) == 1 && k.Runes[0] == ' ' {
			return "space"
		}
		return string(k.Runes)
	case tea.KeyEnter:
		return "enter"
	case tea.KeyEsc:
		return "esc"
	case tea.KeyTab:
		return "tab"
	case tea.KeyShiftTab:
		return "shift-tab"
	case tea.KeyBackspace:
		return "backspace"
	case tea.KeyUp:
		return "up"
	case tea.KeyDown:
		return "down"
	case tea.KeyPgUp:
		return "pgup"
	case tea.KeyPgDown:
		return "pgdown"
	default:
		return strings.ToLower(k.String())
	}
}
