/*
Package app implements the application actor of the phone runtime.

An Application owns a stack of windows and reacts to messages delivered by
the bus one at a time. Its lifecycle runs

	Deactivated -> Initializing -> ActiveForeground <-> ActiveBackground -> Deactivating

with the controller (the application manager) confirming or vetoing every
switch. Window navigation is always posted back to the application itself,
so a switch is handled after every message queued before it.

# Handled results

Handlers report whether a message was handled. The contract differs per
message and callers must not normalise it:

  - a switch addressed to another application: not handled
  - a switch to an unregistered window: handled, logged
  - a refresh naming a window no longer shown: not handled
  - an action request: never handled, even when a receiver ran

# Long press

Key presses arm an input.LongPress machine and start a ticker. Each tick is
delivered as a LongPressTick message; once the hold passes the threshold a
long-press Input message is posted so windows cannot tell it from a hardware
event.
*/
package app
