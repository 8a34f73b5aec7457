package message

// SwitchData is a contextual payload passed alongside a navigation request
type SwitchData interface {
	Description() string
}

// Handoff transfers a SwitchData to a single owner. The first Take returns
// the payload; every later Take returns nil.
type Handoff struct {
	data SwitchData
}

// Hand wraps data for transfer. A nil payload yields a nil Handoff.
func Hand(data SwitchData) *Handoff {
	if data == nil {
		return nil
	}
	return &Handoff{data: data}
}

// Take removes and returns the payload
func (h *Handoff) Take() SwitchData {
	if h == nil {
		return nil
	}
	data := h.data
	h.data = nil
	return data
}

// Empty reports whether there is nothing left to take
func (h *Handoff) Empty() bool {
	return h == nil || h.data == nil
}
