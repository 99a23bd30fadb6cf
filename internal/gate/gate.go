// Package gate implements the privileged-mode gate that hides catalog-editing
// affordances from casual visitors.
//
// This is a cosmetic UI affordance, not an access-control boundary: the
// secret is a fixed literal compared for exact equality, there is no hashing,
// no rate limiting, and no lockout, and the whole state machine is reachable
// from the client. Do not "harden" it without revisiting the requirement.
package gate

// Secret is the shared gate PIN. A fixed literal on purpose; see the package
// comment.
const Secret = "2525"

// TapThreshold is the number of contiguous registered title taps that open
// the PIN prompt. There is no timeout decay: a pause between taps does not
// reset the counter, only reaching the threshold does.
const TapThreshold = 3

// State is the privileged-mode state for one session. The zero value is
// LOCKED, which is also the state after every fresh page load.
type State struct {
	Unlocked      bool `json:"unlocked"`
	PinPromptOpen bool `json:"pin_prompt_open"`
	TapCount      int  `json:"tap_count"`
}

// RegisterTap records one title tap. When the count reaches the threshold the
// PIN prompt opens and the counter resets. Taps while the prompt is open or
// while unlocked are ignored. Reports whether the prompt opened on this tap.
func (s *State) RegisterTap() bool {
	if s.Unlocked || s.PinPromptOpen {
		return false
	}
	s.TapCount++
	if s.TapCount < TapThreshold {
		return false
	}
	s.TapCount = 0
	s.PinPromptOpen = true
	return true
}

// SubmitPIN checks the entered secret. A match unlocks and closes the prompt;
// a mismatch keeps the prompt open so the visitor can retry without limit.
// Reports whether the gate is now unlocked.
func (s *State) SubmitPIN(pin string) bool {
	if !s.PinPromptOpen {
		return s.Unlocked
	}
	if pin != Secret {
		return false
	}
	s.PinPromptOpen = false
	s.Unlocked = true
	return true
}

// CancelPrompt closes the PIN prompt without unlocking.
func (s *State) CancelPrompt() {
	s.PinPromptOpen = false
	s.TapCount = 0
}

// Lock re-locks the gate via the explicit toggle shown while unlocked.
func (s *State) Lock() {
	s.Unlocked = false
	s.PinPromptOpen = false
	s.TapCount = 0
}

// TapsRemaining returns how many more taps open the prompt from the current
// count.
func (s *State) TapsRemaining() int {
	if s.Unlocked || s.PinPromptOpen {
		return 0
	}
	return TapThreshold - s.TapCount
}
