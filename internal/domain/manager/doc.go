/*
Package manager is the application manager of the phone runtime.

It launches applications onto the bus, tracks which one is in the
foreground and answers the confirmations applications ask for while they
move through their lifecycle:

  - ConfirmSwitch from an app that took the foreground records it as focused
    and sends LostFocus to the app that had the foreground before.
  - ConfirmSwitch from an app that just lost focus is acknowledged.
  - ConfirmClose stops the app's actor, runs its DeinitHandler and gives the
    foreground back to the most recently focused app still running.
  - SwitchBack returns to the app focused before the caller.

Closing an app also closes every app whose parent it is.
*/
package manager
