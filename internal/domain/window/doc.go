// Package window provides the window registry and navigation stack of an application.
//
// Key Components:
//   - Window: contract implemented by every screen an application can show
//   - Factory: name -> builder registry; Build fails with ErrWindowNotFound
//     instead of constructing something for an unknown name
//   - Stack: navigation history plus the windows instantiated so far
//
// Navigation rules kept by Stack:
//   - the last name is the window currently shown
//   - pushing a name already on the stack truncates back to it, so the
//     history never holds the same screen twice
//   - a window instance is built once and reused until Rebuild or CloseAll
package window
