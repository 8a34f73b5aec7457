package server

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mudita/MuditaOS-sub019/internal/domain/input"
	"github.com/mudita/MuditaOS-sub019/internal/domain/message"
)

// KeypadName is the sender of input messages
const KeypadName = "ServiceKeypad"

// Focus reports which application receives key events
type Focus interface {
	Focused() string
}

// Poster delivers messages to applications
type Poster interface {
	Send(msg message.Message) error
}

// KeyFeeder turns keypad reports into input messages for the focused
// application. It reads a line protocol:
//
//	+up      key pressed
//	-up      key released
//	up       press and release
type KeyFeeder struct {
	focus      Focus
	poster     Poster
	translator *input.Translator
	logger     *zap.Logger
	clock      func() time.Time
}

// NewKeyFeeder creates a feeder using threshold to tell long releases apart
func NewKeyFeeder(focus Focus, poster Poster, threshold time.Duration, logger *zap.Logger) *KeyFeeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KeyFeeder{
		focus:      focus,
		poster:     poster,
		translator: input.NewTranslator(threshold),
		logger:     logger,
		clock:      time.Now,
	}
}

// Feed delivers one raw report
func (k *KeyFeeder) Feed(raw input.RawKey) error {
	ev := k.translator.Translate(raw)

	target := k.focus.Focused()
	if target == "" {
		k.logger.Debug("no focused application for key", zap.Stringer("event", ev))
		return nil
	}
	return k.poster.Send(&message.Input{
		Header: message.NewHeader(KeypadName, target),
		Event:  ev,
	})
}

// FeedLine parses and delivers one line of the keypad protocol
func (k *KeyFeeder) FeedLine(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	actions := []input.RawAction{input.RawPressed, input.RawReleased}
	switch line[0] {
	case '+':
		actions, line = actions[:1], line[1:]
	case '-':
		actions, line = actions[1:], line[1:]
	}

	code, ok := input.ParseKey(line)
	if !ok {
		return fmt.Errorf("unknown key %q", line)
	}

	for _, action := range actions {
		if err := k.Feed(input.RawKey{Code: code, Action: action, Time: k.clock()}); err != nil {
			return err
		}
	}
	return nil
}

// Run reads the line protocol from r until EOF or ctx is done. Unknown keys
// are logged and skipped.
func (k *KeyFeeder) Run(ctx context.Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := k.FeedLine(scanner.Text()); err != nil {
			k.logger.Warn("Ignoring keypad input", zap.Error(err))
		}
	}
	return scanner.Err()
}
