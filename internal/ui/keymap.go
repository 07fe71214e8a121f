package ui

import tea "github.com/charmbracelet/bubbletea"

// KeyMap holds the bindings handled by the model itself. Row movement keys
// (arrows, j/k, paging) stay with the table widget's default map.
type KeyMap struct {
	Quit      tea.Key
	Help      tea.Key
	AppLogs   tea.Key
	Top       tea.Key
	Bottom    tea.Key
	ColLeft   tea.Key
	ColRight  tea.Key
	MoveColL  tea.Key
	MoveColR  tea.Key
	HideCol   tea.Key
	ShowCols  tea.Key
	WidenCol  tea.Key
	NarrowCol tea.Key
	ResetCols tea.Key
	Filter    tea.Key
	Query     tea.Key
	SaveAs    tea.Key
	Export    tea.Key
	CopyCell  tea.Key
	CopyRow   tea.Key
	Inspect   tea.Key
	Back      tea.Key
	NextTab   tea.Key
	PrevTab   tea.Key
	DupTab    tea.Key
	CloseTab  tea.Key
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:      tea.Key{Type: tea.KeyRunes, Runes: []rune{'q'}},
		Help:      tea.Key{Type: tea.KeyRunes, Runes: []rune{'?'}},
		AppLogs:   tea.Key{Type: tea.KeyRunes, Runes: []rune{'L'}},
		Top:       tea.Key{Type: tea.KeyRunes, Runes: []rune{'g'}},
		Bottom:    tea.Key{Type: tea.KeyRunes, Runes: []rune{'G'}},
		ColLeft:   tea.Key{Type: tea.KeyRunes, Runes: []rune{'h'}},
		ColRight:  tea.Key{Type: tea.KeyRunes, Runes: []rune{'l'}},
		MoveColL:  tea.Key{Type: tea.KeyRunes, Runes: []rune{'<'}},
		MoveColR:  tea.Key{Type: tea.KeyRunes, Runes: []rune{'>'}},
		HideCol:   tea.Key{Type: tea.KeyRunes, Runes: []rune{'H'}},
		ShowCols:  tea.Key{Type: tea.KeyRunes, Runes: []rune{'S'}},
		WidenCol:  tea.Key{Type: tea.KeyRunes, Runes: []rune{'+'}},
		NarrowCol: tea.Key{Type: tea.KeyRunes, Runes: []rune{'-'}},
		ResetCols: tea.Key{Type: tea.KeyRunes, Runes: []rune{'0'}},
		Filter:    tea.Key{Type: tea.KeyRunes, Runes: []rune{'/'}},
		Query:     tea.Key{Type: tea.KeyRunes, Runes: []rune{':'}},
		SaveAs:    tea.Key{Type: tea.KeyRunes, Runes: []rune{'w'}},
		Export:    tea.Key{Type: tea.KeyRunes, Runes: []rune{'e'}},
		CopyCell:  tea.Key{Type: tea.KeyRunes, Runes: []rune{'c'}},
		CopyRow:   tea.Key{Type: tea.KeyRunes, Runes: []rune{'C'}},
		Inspect:   tea.Key{Type: tea.KeyEnter},
		Back:      tea.Key{Type: tea.KeyBackspace},
		NextTab:   tea.Key{Type: tea.KeyTab},
		PrevTab:   tea.Key{Type: tea.KeyShiftTab},
		DupTab:    tea.Key{Type: tea.KeyCtrlT},
		CloseTab:  tea.Key{Type: tea.KeyCtrlW},
	}
}

func keyMatches(msg tea.KeyMsg, k tea.Key) bool {
	if k.Type != tea.KeyRunes {
		return msg.Type == k.Type
	}
	if len(k.Runes) > 0 {
		return msg.String() == string(k.Runes)
	}
	return false
}
