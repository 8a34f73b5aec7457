package window

import (
	"errors"
	"fmt"
)

// Stack is an application's navigation history together with every window
// instantiated for it. Each name in the history has an instance; instances of
// names truncated off the history stay cached for reuse.
type Stack struct {
	order   []string
	windows map[string]Window
}

// NewStack creates an empty stack
func NewStack() *Stack {
	return &Stack{windows: make(map[string]Window)}
}

// Len returns the depth of the navigation history
func (s *Stack) Len() int { return len(s.order) }

// Empty reports whether no window is shown
func (s *Stack) Empty() bool { return len(s.order) == 0 }

// Names returns a copy of the history, oldest first
func (s *Stack) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Top returns the name of the window currently shown
func (s *Stack) Top() (string, bool) {
	if len(s.order) == 0 {
		return "", false
	}
	return s.order[len(s.order)-1], true
}

// Contains reports whether name is anywhere in the history
func (s *Stack) Contains(name string) bool {
	return s.index(name) >= 0
}

// Get returns the instance built for name
func (s *Stack) Get(name string) (Window, bool) {
	w, ok := s.windows[name]
	return w, ok
}

// Push makes name the shown window.
//
// If name is already in the history, everything pushed after it is dropped
// and nothing else happens. Otherwise name is appended, reusing the cached
// instance or calling build when there is none. A failed build leaves the
// stack untouched.
func (s *Stack) Push(name string, build func() (Window, error)) error {
	if s.PopTo(name) {
		return nil
	}

	if _, ok := s.windows[name]; !ok {
		w, err := build()
		if err != nil {
			return err
		}
		if w == nil {
			return fmt.Errorf("%w: %s", ErrNilWindow, name)
		}
		s.windows[name] = w
	}

	s.order = append(s.order, name)
	return nil
}

// PopTo truncates the history so name is on top. Returns false when name is
// not in the history.
func (s *Stack) PopTo(name string) bool {
	i := s.index(name)
	if i < 0 {
		return false
	}
	s.order = s.order[:i+1]
	return true
}

// Prev returns the name count entries below the top. count 0 is the top
// itself. There is no previous window when the history holds at most one
// entry or is not deeper than count. count == Len()-1 names the bottom
// entry; it does not report a missing window.
func (s *Stack) Prev(count int) (string, bool) {
	if len(s.order) <= 1 || count < 0 || count >= len(s.order) {
		return "", false
	}
	return s.order[len(s.order)-1-count], true
}

// Rebuild replaces every cached instance with a freshly built one, keeping
// the history order. Names whose build fails keep their old instance.
func (s *Stack) Rebuild(build func(name string) (Window, error)) error {
	var errs []error
	for name := range s.windows {
		w, err := build(name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		s.windows[name] = w
	}
	return errors.Join(errs...)
}

// CloseAll calls OnClose on every instance and clears the stack
func (s *Stack) CloseAll() {
	for _, w := range s.windows {
		w.OnClose()
	}
	s.windows = make(map[string]Window)
	s.order = nil
}

func (s *Stack) index(name string) int {
	for i, n := range s.order {
		if n == name {
			return i
		}
	}
	return -1
}
