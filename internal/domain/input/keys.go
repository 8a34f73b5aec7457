package input

import (
	"fmt"
	"strings"
	"time"
)

// KeyCode identifies a physical key on the keypad
type KeyCode int

const (
	KeyUndefined KeyCode = iota
	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeyAsterisk
	KeyPound
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEnter
	KeyLeftFunction
	KeyRightFunction
	KeyVolumeUp
	KeyVolumeDown
	KeyTorch
	KeySlider
)

var keyNames = map[KeyCode]string{
	KeyUndefined:     "undefined",
	Key0:             "0",
	Key1:             "1",
	Key2:             "2",
	Key3:             "3",
	Key4:             "4",
	Key5:             "5",
	Key6:             "6",
	Key7:             "7",
	Key8:             "8",
	Key9:             "9",
	KeyAsterisk:      "asterisk",
	KeyPound:         "pound",
	KeyUp:            "up",
	KeyDown:          "down",
	KeyLeft:          "left",
	KeyRight:         "right",
	KeyEnter:         "enter",
	KeyLeftFunction:  "lf",
	KeyRightFunction: "rf",
	KeyVolumeUp:      "volume_up",
	KeyVolumeDown:    "volume_down",
	KeyTorch:         "torch",
	KeySlider:        "slider",
}

// String returns the key name
func (k KeyCode) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return fmt.Sprintf("key(%d)", int(k))
}

// ParseKey looks a key up by its name
func ParseKey(name string) (KeyCode, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for code, n := range keyNames {
		if n == name && code != KeyUndefined {
			return code, true
		}
	}
	return KeyUndefined, false
}

// KeyState is the gesture an input event reports
type KeyState int

const (
	StateUndefined KeyState = iota
	StatePressed
	StateReleasedShort
	StateReleasedLong
	StateLongPress
)

// String returns the string representation of the key state
func (s KeyState) String() string {
	switch s {
	case StatePressed:
		return "pressed"
	case StateReleasedShort:
		return "released_short"
	case StateReleasedLong:
		return "released_long"
	case StateLongPress:
		return "long_press"
	default:
		return "undefined"
	}
}

// Event is an input event delivered to applications and their windows
type Event struct {
	Key   KeyCode
	State KeyState
	Time  time.Time
}

// IsPress reports whether the event is a key going down
func (e Event) IsPress() bool { return e.State == StatePressed }

// IsShortRelease reports whether the event is a key released before the long-press threshold
func (e Event) IsShortRelease() bool { return e.State == StateReleasedShort }

// IsLongRelease reports whether the event is a key released after the long-press threshold
func (e Event) IsLongRelease() bool { return e.State == StateReleasedLong }

// IsLongPress reports whether the event is a synthesized long press
func (e Event) IsLongPress() bool { return e.State == StateLongPress }

// IsKeyboard reports whether the event carries a real key
func (e Event) IsKeyboard() bool { return e.Key != KeyUndefined }

func (e Event) String() string {
	return fmt.Sprintf("%s:%s", e.Key, e.State)
}
