package navigation

import (
	"errors"
	"fmt"
)

type Screen string

const (
	ScreenScan    Screen = "scan"
	ScreenCamera  Screen = "camera"
	ScreenLoading Screen = "loading"
	ScreenResults Screen = "results"
	ScreenExplore Screen = "explore"
	ScreenRewards Screen = "rewards"
	ScreenProfile Screen = "profile"
)

// Screens is the complete navigable surface.
var Screens = []Screen{
	ScreenScan,
	ScreenCamera,
	ScreenLoading,
	ScreenResults,
	ScreenExplore,
	ScreenRewards,
	ScreenProfile,
}

var ErrUnknownScreen = errors.New("unknown screen")

func (s Screen) Valid() bool {
	for _, known := range Screens {
		if s == known {
			return true
		}
	}
	return false
}

func ParseScreen(raw string) (Screen, error) {
	s := Screen(raw)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownScreen, raw)
	}
	return s, nil
}

// Stack is a single-ended screen history. There is no forward history.
type Stack struct {
	current Screen
	history []Screen
}

func NewStack(initial Screen) *Stack {
	if !initial.Valid() {
		initial = ScreenScan
	}
	return &Stack{current: initial}
}

func (s *Stack) Current() Screen {
	return s.current
}

// Navigate pushes the current screen and moves to target. Navigating to the
// current screen changes nothing.
func (s *Stack) Navigate(target Screen) error {
	if !target.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownScreen, target)
	}
	if target == s.current {
		return nil
	}
	s.history = append(s.history, s.current)
	s.current = target
	return nil
}

// GoBack pops the most recent screen. It reports false and stays put when
// the history is empty.
func (s *Stack) GoBack() bool {
	if len(s.history) == 0 {
		return false
	}
	last := len(s.history) - 1
	s.current = s.history[last]
	s.history = s.history[:last]
	return true
}

func (s *Stack) History() []Screen {
	return append([]Screen(nil), s.history...)
}

func (s *Stack) Depth() int {
	return len(s.history)
}
