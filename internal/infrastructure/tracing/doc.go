/*
Package tracing follows messages through the phone runtime.

Every delivery the bus makes to an application actor becomes a span keyed by
the message ID; debug server requests get spans through HTTPMiddleware.
Finished spans are collected on a buffered channel and written to the zap
logger at debug level, or at warn level when the span carries an error.

# Usage

	tracer := tracing.New("phoned", logger)
	defer tracer.Close()

	span := tracer.StartDelivery(msg.Envelope().ID, msg.Kind().String(), "ApplicationDesktop")
	handled := actor.Handle(msg)
	span.SetTag("handled", strconv.FormatBool(handled))
	span.Finish()
	tracer.Submit(span)

# Propagation

HTTP requests carry X-Trace-ID and X-Span-ID headers. The response always
echoes the IDs of the span that served it.
*/
package tracing
