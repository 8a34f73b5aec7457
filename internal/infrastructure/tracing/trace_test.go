package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mudita/MuditaOS-sub019/internal/shared/id"
)

func TestStartSpanContinuesTrace(t *testing.T) {
	tracer := New("test", zap.NewNop())
	defer tracer.Close()

	root, ctx := tracer.StartSpan(context.Background(), "root")
	child, _ := tracer.StartSpan(ctx, "child")

	assert.Equal(t, root.TraceID, child.TraceID)
	assert.Equal(t, root.SpanID, child.ParentID)
	assert.NotEqual(t, root.SpanID, child.SpanID)
}

func TestDeliverySpanUsesMessageID(t *testing.T) {
	tracer := New("test", zap.NewNop())
	defer tracer.Close()

	msgID := id.NewMessageID()
	span := tracer.StartDelivery(msgID, "app_switch", "ApplicationDesktop")

	assert.Equal(t, TraceID(msgID), span.TraceID)
	assert.Equal(t, SpanID(msgID), span.SpanID)
	assert.Equal(t, "ApplicationDesktop", span.Tags["actor"])
}

func TestCloseFlushesSpans(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	tracer := New("test", zap.New(core))

	ok := tracer.StartDelivery(id.NewMessageID(), "app_refresh", "ApplicationCall")
	ok.Finish()
	tracer.Submit(ok)

	failed := tracer.StartDelivery(id.NewMessageID(), "app_close", "ApplicationCall")
	failed.SetError(errors.New("boom"))
	failed.Finish()
	tracer.Submit(failed)

	tracer.Close()

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, 1, logs.FilterMessage("span completed with error").Len())
	assert.Equal(t, "app_refresh", logs.All()[0].ContextMap()["operation"])
}

func TestSubmitAfterCloseDoesNotPanic(t *testing.T) {
	tracer := New("test", nil)
	tracer.Close()

	assert.NotPanics(t, func() {
		tracer.Submit(&Span{Tags: map[string]string{}})
	})
}
