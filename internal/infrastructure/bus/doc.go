/*
Package bus delivers messages between the actors of the phone runtime.

Every application and system service registers a Handler under a unique
name. Messages are routed by the Target field of their envelope and queued in
the recipient's mailbox; a single goroutine per actor pops them in arrival
order and calls Handle. Messages an actor posts to itself are therefore
handled strictly after the one currently running.

	b := bus.New(logger, bus.WithMetrics(metrics), bus.WithTracer(tracer))
	_ = b.Register(desktop)
	_ = b.Send(message.NewSwitch("launcher", "ApplicationDesktop", "", nil))

Mailboxes are unbounded. A bounded mailbox would let an actor deadlock on a
self-post while its own queue is full.
*/
package bus
