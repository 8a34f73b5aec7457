package server

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mudita/MuditaOS-sub019/internal/domain/input"
	"github.com/mudita/MuditaOS-sub019/internal/domain/message"
)

type fakeFocus string

func (f fakeFocus) Focused() string { return string(f) }

type recordingPoster struct {
	mu   sync.Mutex
	sent []*message.Input
}

func (p *recordingPoster) Send(msg message.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, msg.(*message.Input))
	return nil
}

func newFeeder(focus string) (*KeyFeeder, *recordingPoster, *time.Time) {
	poster := &recordingPoster{}
	k := NewKeyFeeder(fakeFocus(focus), poster, time.Second, nil)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	k.clock = func() time.Time { return now }
	return k, poster, &now
}

func TestFeedLineTap(t *testing.T) {
	k, poster, _ := newFeeder("ApplicationDesktop")

	require.NoError(t, k.FeedLine("enter"))

	require.Len(t, poster.sent, 2)
	assert.Equal(t, "ApplicationDesktop", poster.sent[0].Target)
	assert.Equal(t, KeypadName, poster.sent[0].Sender)
	assert.Equal(t, input.KeyEnter, poster.sent[0].Event.Key)
	assert.True(t, poster.sent[0].Event.IsPress())
	assert.True(t, poster.sent[1].Event.IsShortRelease())
}

func TestFeedLineLongRelease(t *testing.T) {
	k, poster, now := newFeeder("ApplicationDesktop")

	require.NoError(t, k.FeedLine("+rf"))
	*now = now.Add(2 * time.Second)
	require.NoError(t, k.FeedLine("-rf"))

	require.Len(t, poster.sent, 2)
	assert.Equal(t, input.KeyRightFunction, poster.sent[1].Event.Key)
	assert.True(t, poster.sent[1].Event.IsLongRelease())
}

func TestFeedLineErrors(t *testing.T) {
	k, poster, _ := newFeeder("ApplicationDesktop")

	assert.NoError(t, k.FeedLine("   "))
	assert.Error(t, k.FeedLine("+bogus"))
	assert.Empty(t, poster.sent)
}

func TestFeedWithoutFocus(t *testing.T) {
	k, poster, _ := newFeeder("")

	require.NoError(t, k.FeedLine("up"))
	assert.Empty(t, poster.sent)
}

func TestRunSkipsUnknownKeys(t *testing.T) {
	k, poster, _ := newFeeder("ApplicationDesktop")

	err := k.Run(context.Background(), strings.NewReader("up\nbogus\ndown\n"))

	require.NoError(t, err)
	require.Len(t, poster.sent, 4)
	assert.Equal(t, input.KeyDown, poster.sent[3].Event.Key)
}
