// Package action routes cross-cutting user actions to the callbacks an
// application registered for them.
package action

import (
	"fmt"

	"go.uber.org/zap"
)

// ID identifies a user action that may be requested from outside the application
type ID int

const (
	Launch ID = iota
	Call
	Dial
	EmergencyDial
	ShowContacts
	CreateSMS
	ShowSMSThread
	ShowAlarm
	ShowPopup
	AbortPopup
	PhoneModeChanged
	NotificationsChanged
)

var idNames = map[ID]string{
	Launch:               "launch",
	Call:                 "call",
	Dial:                 "dial",
	EmergencyDial:        "emergency_dial",
	ShowContacts:         "show_contacts",
	CreateSMS:            "create_sms",
	ShowSMSThread:        "show_sms_thread",
	ShowAlarm:            "show_alarm",
	ShowPopup:            "show_popup",
	AbortPopup:           "abort_popup",
	PhoneModeChanged:     "phone_mode_changed",
	NotificationsChanged: "notifications_changed",
}

// String returns the action name
func (id ID) String() string {
	if name, ok := idNames[id]; ok {
		return name
	}
	return fmt.Sprintf("action(%d)", int(id))
}

// Params is the payload travelling with an action request. The receiver
// takes ownership of it.
type Params interface{}

// Receiver handles one action
type Receiver func(params Params) error

// Router maps action IDs to receivers. At most one receiver per ID.
type Router struct {
	receivers map[ID]Receiver
	logger    *zap.Logger
}

// NewRouter creates an empty router
func NewRouter(logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{
		receivers: make(map[ID]Receiver),
		logger:    logger,
	}
}

// Add registers the receiver for id, replacing any previous one
func (r *Router) Add(id ID, receiver Receiver) {
	r.receivers[id] = receiver
}

// Has reports whether a receiver is registered for id
func (r *Router) Has(id ID) bool {
	_, ok := r.receivers[id]
	return ok
}

// Handle dispatches an action. It always reports the message as not handled,
// whatever the receiver returned, so other processing paths still see it.
func (r *Router) Handle(id ID, params Params) bool {
	receiver, ok := r.receivers[id]
	if !ok {
		r.logger.Error("no receiver for action", zap.Stringer("action", id))
		return false
	}

	if err := receiver(params); err != nil {
		r.logger.Debug("action receiver failed", zap.Stringer("action", id), zap.Error(err))
	}
	return false
}
