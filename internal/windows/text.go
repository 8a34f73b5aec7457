package windows

import (
	"github.com/mudita/MuditaOS-sub019/internal/domain/input"
	"github.com/mudita/MuditaOS-sub019/internal/domain/message"
	"github.com/mudita/MuditaOS-sub019/internal/domain/window"
	"github.com/mudita/MuditaOS-sub019/internal/shared/types"
)

const lineHeight = 24

// Lines replaces the content of a Text window when passed as switch data
type Lines struct {
	Title string
	Items []string
}

func (l *Lines) Description() string { return "lines" }

// Text is a scrollable list window with a title and a cursor
type Text struct {
	window.Base

	title  string
	lines  []string
	cursor int

	// OnSelect is called with the highlighted line when enter is released
	OnSelect func(line string)
}

// NewText creates a text window
func NewText(name, title string, lines []string) *Text {
	return &Text{
		Base:  window.NewBase(name),
		title: title,
		lines: append([]string(nil), lines...),
	}
}

// Builder returns a window builder producing fresh Text windows
func Builder(title string, lines []string) window.Builder {
	return func(name string) window.Window {
		return NewText(name, title, lines)
	}
}

func (t *Text) Title() string { return t.title }

func (t *Text) Lines() []string { return append([]string(nil), t.lines...) }

func (t *Text) Cursor() int { return t.cursor }

func (t *Text) OnBeforeShow(mode types.ShowMode, _ message.SwitchData) {
	if mode == types.ShowInit {
		t.cursor = 0
	}
}

func (t *Text) HandleSwitchData(data message.SwitchData) bool {
	l, ok := data.(*Lines)
	if !ok {
		return false
	}
	if l.Title != "" {
		t.title = l.Title
	}
	t.lines = append([]string(nil), l.Items...)
	t.cursor = 0
	return true
}

// OnInput moves the cursor on up and down and selects on enter
func (t *Text) OnInput(ev input.Event) bool {
	if !ev.IsShortRelease() {
		return false
	}
	switch ev.Key {
	case input.KeyUp:
		if t.cursor > 0 {
			t.cursor--
			return true
		}
	case input.KeyDown:
		if t.cursor < len(t.lines)-1 {
			t.cursor++
			return true
		}
	case input.KeyEnter:
		if t.OnSelect != nil && len(t.lines) > 0 {
			t.OnSelect(t.lines[t.cursor])
		}
	}
	return false
}

func (t *Text) BuildDrawList() []types.DrawCommand {
	cmds := t.StatusBar()
	cmds = append(cmds, types.DrawCommand{
		Op:   "title",
		Area: types.Rect{X: 0, Y: lineHeight, W: 480, H: lineHeight},
		Text: t.title,
	})
	for i, line := range t.lines {
		op := "text"
		if i == t.cursor {
			op = "highlight"
		}
		cmds = append(cmds, types.DrawCommand{
			Op:   op,
			Area: types.Rect{X: 0, Y: (i + 2) * lineHeight, W: 480, H: lineHeight},
			Text: line,
		})
	}
	return cmds
}
